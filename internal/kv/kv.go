// Package kv provides the durable string key-value store that backs
// deduplication state. Values are opaque strings; callers layer their own
// encoding (JSON) on top.
package kv

import (
	"context"
	"fmt"
)

// Store is a durable string map. Implementations must tolerate keys that have
// never been written (Get reports absence, Delete is a no-op).
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// StoreError represents a failure talking to the underlying store.
type StoreError struct {
	Op    string
	Key   string
	Cause error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("kv %s %q: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("kv %s %q", e.Op, e.Key)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
