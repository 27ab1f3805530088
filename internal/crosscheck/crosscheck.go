// Package crosscheck consults the posting account's recent public feed as a
// secondary, best-effort source of already-published URLs. It augments the
// dedup store and never gates a run on its own success: when disabled or on
// any network, auth or parse failure it yields an empty set.
package crosscheck

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/evanm/newslinker/internal/extraction"
	"github.com/evanm/newslinker/internal/fetch"
	"github.com/evanm/newslinker/internal/urlnorm"
)

// DefaultBaseURL is the public AppView endpoint serving author feeds.
const DefaultBaseURL = "https://public.api.bsky.app"

// DefaultLimit bounds how many recent items are inspected.
const DefaultLimit = 50

// Config controls the crosscheck client.
type Config struct {
	Enabled bool
	BaseURL string
	// Actor identifies the posting account (handle or DID).
	Actor   string
	Limit   int
	Timeout time.Duration
}

// FeedError describes a failed feed retrieval. It is logged, never returned
// to callers.
type FeedError struct {
	Message string
	Cause   error
}

func (e *FeedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("feed error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("feed error: %s", e.Message)
}

func (e *FeedError) Unwrap() error {
	return e.Cause
}

// Checker fetches and caches the set of recently-published normalized URLs.
// The network fetch happens at most once per Checker regardless of how many
// novelty checks a run performs.
type Checker struct {
	cfg        Config
	normalizer *urlnorm.Normalizer

	group  singleflight.Group
	mu     sync.Mutex
	cached map[string]struct{}
}

// NewChecker creates a Checker. Zero-valued config fields fall back to the
// package defaults.
func NewChecker(cfg Config, normalizer *urlnorm.Normalizer) *Checker {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = fetch.DefaultTimeout
	}
	return &Checker{cfg: cfg, normalizer: normalizer}
}

// Fetch returns the set of normalized URLs the account recently published.
// Disabled or misconfigured checkers return an empty set without performing
// any network I/O. The result is memoized for the Checker's lifetime.
func (c *Checker) Fetch(ctx context.Context) map[string]struct{} {
	if !c.cfg.Enabled || c.cfg.Actor == "" {
		return map[string]struct{}{}
	}

	result, _, _ := c.group.Do("feed", func() (any, error) {
		c.mu.Lock()
		cached := c.cached
		c.mu.Unlock()
		if cached != nil {
			return cached, nil
		}

		set := c.fetchFeed(ctx)

		c.mu.Lock()
		c.cached = set
		c.mu.Unlock()
		return set, nil
	})

	return result.(map[string]struct{})
}

// Has reports whether the normalized URL appears in the recent feed.
func (c *Checker) Has(ctx context.Context, normalizedURL string) bool {
	_, ok := c.Fetch(ctx)[normalizedURL]
	return ok
}

// feedResponse mirrors the subset of the getAuthorFeed payload we read.
type feedResponse struct {
	Feed []struct {
		Post struct {
			Record struct {
				Text string `json:"text"`
			} `json:"record"`
			Embed struct {
				External struct {
					URI string `json:"uri"`
				} `json:"external"`
			} `json:"embed"`
		} `json:"post"`
	} `json:"feed"`
}

// fetchFeed performs the single-shot feed retrieval. Every failure path logs
// a warning and yields an empty set.
func (c *Checker) fetchFeed(ctx context.Context) map[string]struct{} {
	set := map[string]struct{}{}

	endpoint := c.cfg.BaseURL + "/xrpc/app.bsky.feed.getAuthorFeed?" + url.Values{
		"actor": {c.cfg.Actor},
		"limit": {strconv.Itoa(c.cfg.Limit)},
	}.Encode()

	result, err := fetch.URL(ctx, endpoint, &fetch.Options{Timeout: c.cfg.Timeout})
	if err != nil {
		log.Printf("warning: history crosscheck unavailable: %v", err)
		return set
	}
	if result.StatusCode != http.StatusOK {
		log.Printf("warning: history crosscheck unavailable: %v",
			&FeedError{Message: fmt.Sprintf("HTTP status %d", result.StatusCode)})
		return set
	}

	var feed feedResponse
	if err := json.Unmarshal([]byte(result.Body), &feed); err != nil {
		log.Printf("warning: history crosscheck unavailable: %v",
			&FeedError{Message: "failed to decode feed", Cause: err})
		return set
	}

	for _, item := range feed.Feed {
		urls := extraction.ScanPlainText(item.Post.Record.Text)
		if uri := item.Post.Embed.External.URI; uri != "" {
			urls = append(urls, uri)
		}
		for _, raw := range urls {
			normalized, err := c.normalizer.Normalize(raw)
			if err != nil {
				continue
			}
			set[normalized] = struct{}{}
		}
	}

	return set
}
