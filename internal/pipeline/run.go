// Package pipeline provides the high-level orchestration for a batch run:
// load the dedup state, resolve each document's article link, decide novelty,
// record accepted links, and persist the state once at the end.
//
// A run processes its documents strictly sequentially. The load→prune→mutate→
// persist cycle on dedup state is a read-modify-write and is only correct
// when at most one run executes at a time; that serialization is the
// scheduler's responsibility, not ours.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/evanm/newslinker/internal/crosscheck"
	"github.com/evanm/newslinker/internal/dedup"
	"github.com/evanm/newslinker/internal/fetch"
	"github.com/evanm/newslinker/internal/kv"
	"github.com/evanm/newslinker/internal/observability"
	"github.com/evanm/newslinker/internal/resolve"
	"github.com/evanm/newslinker/internal/types"
	"github.com/evanm/newslinker/internal/urlnorm"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// Verdict is the per-document outcome handed back to the caller, which
// decides whether to compose and post.
type Verdict struct {
	Subject     string `json:"subject"`
	ResolvedURL string `json:"resolved_url,omitempty"`
	Resolved    bool   `json:"resolved"`
	Duplicate   bool   `json:"duplicate"`
	Recorded    bool   `json:"recorded"`
}

// RunOptions holds configuration for a batch run.
type RunOptions struct {
	// DocumentsPath points at a JSON array of documents. Ignored when
	// Documents is set directly.
	DocumentsPath string
	Documents     []types.Document

	// Store overrides the state backend. When nil, one is built from
	// DatabaseURL or StatePath.
	Store       kv.Store
	StatePath   string
	DatabaseURL string

	RetentionDays int
	MaxDocuments  int
	Crosscheck    crosscheck.Config
	Verbose       bool
	OnProgress    ProgressCallback
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			RunID:   runID,
			Content: content,
		})
	}
}

// Run executes one batch over the given documents and returns a verdict per
// document processed.
func Run(ctx context.Context, opts RunOptions) ([]Verdict, error) {
	runID := uuid.New().String()
	printer := observability.NewPrinter(os.Stdout)

	docs := opts.Documents
	if docs == nil {
		var err error
		docs, err = readDocuments(opts.DocumentsPath)
		if err != nil {
			return nil, err
		}
	}

	// A hung network call has no per-call deadline; bounding the batch is
	// what keeps a run finite.
	if opts.MaxDocuments > 0 && len(docs) > opts.MaxDocuments {
		log.Printf("truncating batch from %d to %d documents", len(docs), opts.MaxDocuments)
		docs = docs[:opts.MaxDocuments]
	}

	backend, cleanup := buildBackend(ctx, &opts)
	defer cleanup()

	retention := time.Duration(opts.RetentionDays) * 24 * time.Hour
	store := dedup.NewStore(backend, retention, nil)
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load dedup state: %w", err)
	}
	if opts.Verbose {
		log.Printf("[VERBOSE] Loaded dedup state: %d entries after pruning", store.Len())
	}

	pipe := resolve.Default()
	checker := crosscheck.NewChecker(opts.Crosscheck, urlnorm.DefaultNormalizer())

	verdicts := make([]Verdict, 0, len(docs))
	resolvedCount, duplicateCount, recordedCount := 0, 0, 0

	for i, doc := range docs {
		fmt.Printf("Document %d/%d: %s\n", i+1, len(docs), doc.Subject)

		if doc.PlainTextBody == "" && doc.HTMLBody != "" {
			if text, err := fetch.HTMLToText(doc.HTMLBody); err == nil {
				doc.PlainTextBody = text
			}
		}

		verdict := Verdict{Subject: doc.Subject}
		resolvedURL, ok := pipe.Resolve(doc)
		if ok {
			verdict.Resolved = true
			verdict.ResolvedURL = resolvedURL
			resolvedCount++

			verdict.Duplicate = store.Has(resolvedURL) || checker.Has(ctx, resolvedURL)
			if verdict.Duplicate {
				duplicateCount++
			} else {
				store.Record(resolvedURL)
				verdict.Recorded = true
				recordedCount++
			}
		}

		if opts.Verbose {
			printer.PrintResolution(doc.Subject, verdict.ResolvedURL, verdict.Duplicate)
		}
		emitProgress(&opts, runID, "resolve", doc.Subject, verdict)
		verdicts = append(verdicts, verdict)
	}

	if err := store.Persist(ctx); err != nil {
		return verdicts, fmt.Errorf("failed to persist dedup state: %w", err)
	}

	if opts.Verbose {
		printer.PrintRunSummary(len(docs), resolvedCount, duplicateCount, recordedCount)
	}
	emitProgress(&opts, runID, "done", "run complete", map[string]int{
		"processed":  len(docs),
		"resolved":   resolvedCount,
		"duplicates": duplicateCount,
		"recorded":   recordedCount,
	})

	return verdicts, nil
}

// buildBackend picks the state backend: an injected store, Postgres when a
// database URL is configured, and the local state file otherwise. A failed
// database connection degrades to the state file with a warning rather than
// aborting the run.
func buildBackend(ctx context.Context, opts *RunOptions) (kv.Store, func()) {
	if opts.Store != nil {
		return opts.Store, func() {}
	}

	if opts.DatabaseURL != "" {
		pg, err := kv.NewPostgresStore(ctx, opts.DatabaseURL)
		if err == nil {
			return pg, pg.Close
		}
		fmt.Printf("Warning: Failed to connect to database: %v\n", err)
		fmt.Printf("Continuing with the local state file...\n")
	}

	path := opts.StatePath
	if path == "" {
		path = "./newslinker_state.json"
	}
	return kv.NewFileStore(path), func() {}
}

// readDocuments loads a JSON array of documents from disk.
func readDocuments(path string) ([]types.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("no documents provided")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents file %s: %w", path, err)
	}

	var docs []types.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse documents JSON: %w", err)
	}
	return docs, nil
}
