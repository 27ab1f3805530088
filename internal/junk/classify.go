// Package junk flags URLs and anchors that must never be selected as the
// article link: unsubscribe and preference pages, tracking pixels, namespace
// URIs, broken redirect endpoints, and app-install prompts. The patterns are
// data, not logic, so deployments can extend them without touching scoring.
package junk

import (
	"regexp"
	"strings"

	"github.com/evanm/newslinker/internal/newsletters"
)

// xhtmlNamespace shows up as a literal href in badly assembled templates.
const xhtmlNamespace = "http://www.w3.org/1999/xhtml"

// Config holds the pattern sets consulted by the classifier.
type Config struct {
	// TextPatterns are matched against both the URL and the anchor text.
	TextPatterns []*regexp.Regexp
	// Denylist patterns are matched against the URL only.
	Denylist []*regexp.Regexp
}

// DefaultConfig returns the stock pattern sets: boilerplate-page phrasing
// plus the platform tracking endpoints known to the newsletters package.
func DefaultConfig() Config {
	denylist := []*regexp.Regexp{
		regexp.MustCompile(regexp.QuoteMeta(xhtmlNamespace)),
	}
	denylist = append(denylist, newsletters.TrackingPixelPatterns()...)
	denylist = append(denylist, newsletters.BrokenRedirectPatterns()...)
	denylist = append(denylist, newsletters.AppLinkPatterns()...)

	return Config{
		TextPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)unsubscrib`),
			regexp.MustCompile(`(?i)opt[-_ ]?out`),
			regexp.MustCompile(`(?i)(email|manage|update)[-_ ]?.{0,12}preferences`),
			regexp.MustCompile(`(?i)/preferences\b`),
			regexp.MustCompile(`(?i)privacy([-_ ]?policy)?`),
			regexp.MustCompile(`(?i)terms([-_ ]?(of[-_ ]?(service|use)|and[-_ ]?conditions))?\b`),
			regexp.MustCompile(`(?i)(report|mark.{0,8}as)[-_ ]?spam`),
			regexp.MustCompile(`(?i)(update|manage)[-_ ]?.{0,12}profile`),
		},
		Denylist: denylist,
	}
}

// Classifier answers whether a candidate URL or anchor is junk.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a Classifier with the given pattern sets.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// IsJunk reports whether the URL, or the anchor text it was found under, must
// never be selected. anchorText may be empty for non-anchor candidates.
func (c *Classifier) IsJunk(rawURL, anchorText string) bool {
	trimmed := strings.TrimSpace(rawURL)
	lower := strings.ToLower(trimmed)

	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return true
	}

	for _, re := range c.cfg.TextPatterns {
		if re.MatchString(trimmed) {
			return true
		}
		if anchorText != "" && re.MatchString(anchorText) {
			return true
		}
	}

	for _, re := range c.cfg.Denylist {
		if re.MatchString(trimmed) {
			return true
		}
	}

	return false
}
