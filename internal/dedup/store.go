// Package dedup persists which normalized article URLs have already been
// surfaced, with a retention window after which entries expire.
//
// The lifecycle is load → prune → use → persist, once per run. The
// read-modify-write cycle is not safe under concurrent runs; callers must
// guarantee that at most one run executes at a time.
package dedup

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/evanm/newslinker/internal/kv"
)

// StateKey is the key the seen-URL map is stored under.
const StateKey = "seen_urls"

// DefaultRetention is how long a seen entry is remembered.
const DefaultRetention = 180 * 24 * time.Hour

// stateSchema describes the persisted shape: an object mapping normalized
// URLs to first-seen epoch milliseconds.
const stateSchema = `{
	"type": "object",
	"additionalProperties": {"type": "integer", "minimum": 0}
}`

// CorruptStateError reports persisted state that failed to parse or validate.
// It is recovered from by resetting to an empty map, never treated as fatal.
type CorruptStateError struct {
	Message string
	Cause   error
}

func (e *CorruptStateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corrupt dedup state: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("corrupt dedup state: %s", e.Message)
}

func (e *CorruptStateError) Unwrap() error {
	return e.Cause
}

// Store is the persisted mapping from normalized URL to first-seen time.
type Store struct {
	kv        kv.Store
	retention time.Duration
	now       func() time.Time

	entries map[string]int64
	loaded  bool
}

// NewStore creates a Store over the given key-value backend. A nil clock
// means time.Now; tests inject their own.
func NewStore(backend kv.Store, retention time.Duration, clock func() time.Time) *Store {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if clock == nil {
		clock = time.Now
	}
	return &Store{kv: backend, retention: retention, now: clock}
}

// Load reads the persisted state into memory and prunes expired entries.
// Malformed persisted state is discarded with a warning; only backend
// failures are returned as errors.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, StateKey)
	if err != nil {
		return err
	}

	s.entries = make(map[string]int64)
	if ok {
		entries, err := decodeState(raw)
		if err != nil {
			log.Printf("warning: discarding dedup state: %v", err)
		} else {
			s.entries = entries
		}
	}

	s.prune()
	s.loaded = true
	return nil
}

// decodeState validates the raw JSON against the state schema and unmarshals
// it. Any shape problem is reported as a CorruptStateError.
func decodeState(raw string) (map[string]int64, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(stateSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, &CorruptStateError{Message: "state is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		desc := "schema violation"
		if errs := result.Errors(); len(errs) > 0 {
			desc = errs[0].String()
		}
		return nil, &CorruptStateError{Message: desc}
	}

	entries := make(map[string]int64)
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, &CorruptStateError{Message: "failed to decode state", Cause: err}
	}
	return entries, nil
}

// prune drops entries that have outlived the retention window.
func (s *Store) prune() {
	nowMs := s.now().UnixMilli()
	for url, firstSeen := range s.entries {
		if nowMs-firstSeen >= s.retention.Milliseconds() {
			delete(s.entries, url)
		}
	}
}

// Has reports whether the normalized URL is in the working set.
func (s *Store) Has(normalizedURL string) bool {
	_, ok := s.entries[normalizedURL]
	return ok
}

// Record inserts (or overwrites) the entry for a normalized URL with the
// current time.
func (s *Store) Record(normalizedURL string) {
	if s.entries == nil {
		s.entries = make(map[string]int64)
	}
	s.entries[normalizedURL] = s.now().UnixMilli()
}

// Len returns the size of the working set.
func (s *Store) Len() int {
	return len(s.entries)
}

// Persist overwrites the durable store with the full working set. It is the
// counterpart of Load and runs once at the end of a run.
func (s *Store) Persist(ctx context.Context) error {
	if !s.loaded {
		return fmt.Errorf("dedup state was never loaded; refusing to overwrite it")
	}
	raw, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("failed to encode dedup state: %w", err)
	}
	return s.kv.Set(ctx, StateKey, string(raw))
}
