// Package types defines the shared data structures passed between pipeline stages.
package types

import "strings"

// Document is one newsletter email as handed over by the mailbox collaborator.
// Bodies arrive as raw strings; no fetching happens on our side.
type Document struct {
	Subject           string            `json:"subject"`
	SenderAddress     string            `json:"sender_address"`
	Headers           map[string]string `json:"headers,omitempty"`
	HTMLBody          string            `json:"html_body"`
	PlainTextBody     string            `json:"plain_text_body"`
	InternalTimestamp int64             `json:"internal_timestamp"`
}

// SenderDomain returns the lowercased domain part of the sender address.
// It tolerates both bare addresses and the "Display Name <user@host>" form.
// Returns "" when no domain can be determined.
func (d Document) SenderDomain() string {
	addr := strings.TrimSpace(d.SenderAddress)
	if start := strings.LastIndex(addr, "<"); start >= 0 {
		addr = addr[start+1:]
		if end := strings.Index(addr, ">"); end >= 0 {
			addr = addr[:end]
		}
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(addr[at+1:]))
}

// Header returns the value of the named header, matching case-insensitively.
func (d Document) Header(name string) (string, bool) {
	for k, v := range d.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// SourceKind identifies where in the document a URL candidate was discovered.
type SourceKind string

const (
	// SourceListPostHeader is the List-Post mail header.
	SourceListPostHeader SourceKind = "list_post_header"
	// SourceCanonicalTag is a <link rel="canonical"> tag.
	SourceCanonicalTag SourceKind = "canonical_tag"
	// SourceOGURLMeta is an og:url meta tag.
	SourceOGURLMeta SourceKind = "og_url_meta"
	// SourceTwitterURLMeta is a twitter:url meta tag.
	SourceTwitterURLMeta SourceKind = "twitter_url_meta"
	// SourceAnchor is an <a href> tag in the HTML body.
	SourceAnchor SourceKind = "anchor"
	// SourcePlainText is a bare URL token in the plain-text body.
	SourcePlainText SourceKind = "plain_text"
)

// URLCandidate is a URL discovered during extraction, not yet chosen.
// Candidates are transient; they are never persisted.
type URLCandidate struct {
	RawURL string     `json:"raw_url"`
	Source SourceKind `json:"source"`
	// AnchorText is the tag-stripped, whitespace-collapsed visible text.
	// Empty unless Source is SourceAnchor.
	AnchorText string `json:"anchor_text,omitempty"`
	// DocumentPosition is the 0-based ordinal of first appearance within
	// this candidate's source kind, in scan order.
	DocumentPosition int `json:"document_position"`
	// MarkupContext is the raw opening-tag text. Anchor candidates only.
	MarkupContext string `json:"markup_context,omitempty"`
}

// SeenEntry records when a normalized URL was first accepted for posting.
type SeenEntry struct {
	NormalizedURL string `json:"normalized_url"`
	FirstSeenAtMs int64  `json:"first_seen_at_ms"`
}
