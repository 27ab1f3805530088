// Package urlnorm parses URLs, unwraps known tracking redirects, and reduces
// URLs to a canonical form usable as a deduplication key.
package urlnorm

import "fmt"

// MalformedURLError reports a string that is not a parseable absolute URL.
// Callers treat it as "no candidate", never as a fatal condition.
type MalformedURLError struct {
	URL   string
	Cause error
}

func (e *MalformedURLError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed URL %q: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("malformed URL %q", e.URL)
}

func (e *MalformedURLError) Unwrap() error {
	return e.Cause
}
