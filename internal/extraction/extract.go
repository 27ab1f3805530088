// Package extraction discovers URL candidates in a newsletter document.
//
// Newsletter HTML is untrusted and frequently malformed, so candidates are
// found by best-effort pattern scanning rather than strict markup parsing.
// Only anchor and meta/link tags matter here; a stricter parser could be
// substituted behind Extractor without affecting scoring or normalization.
package extraction

import (
	"html"
	"regexp"
	"strings"

	"github.com/evanm/newslinker/internal/junk"
	"github.com/evanm/newslinker/internal/types"
)

// listPostHeader is the mail header carrying a ready-made post URL.
const listPostHeader = "List-Post"

var (
	reCanonicalTag = regexp.MustCompile(`(?is)<link\b[^>]*\brel\s*=\s*["']?canonical["']?[^>]*>`)
	reOGURLTag     = regexp.MustCompile(`(?is)<meta\b[^>]*\bproperty\s*=\s*["']?og:url["']?[^>]*>`)
	reTwitterTag   = regexp.MustCompile(`(?is)<meta\b[^>]*\bname\s*=\s*["']?twitter:url["']?[^>]*>`)
	reHrefAttr     = regexp.MustCompile(`(?is)\bhref\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
	reContentAttr  = regexp.MustCompile(`(?is)\bcontent\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
	reAnchor       = regexp.MustCompile(`(?is)(<a\b[^>]*>)(.*?)</a>`)
	reTag          = regexp.MustCompile(`(?s)<[^>]*>`)
	reWhitespace   = regexp.MustCompile(`\s+`)
	reBareURL      = regexp.MustCompile(`https?://[^\s<>"']+`)
)

// Extractor scans documents for URL candidates, rejecting junk at the source.
type Extractor struct {
	junk *junk.Classifier
}

// NewExtractor creates an Extractor backed by the given junk classifier.
func NewExtractor(classifier *junk.Classifier) *Extractor {
	return &Extractor{junk: classifier}
}

// Extract returns every candidate the document yields, in source precedence
// order: List-Post header, canonical tag, og:url meta, twitter:url meta,
// anchors in document order, bare plain-text URLs in appearance order.
// Junk candidates are never emitted. A document that yields no candidates is
// a valid, non-error outcome.
func (e *Extractor) Extract(doc types.Document) []types.URLCandidate {
	var out []types.URLCandidate

	if c, ok := e.headerCandidate(doc); ok {
		out = append(out, c)
	}
	if c, ok := e.tagCandidate(doc.HTMLBody, reCanonicalTag, reHrefAttr, types.SourceCanonicalTag); ok {
		out = append(out, c)
	}
	if c, ok := e.tagCandidate(doc.HTMLBody, reOGURLTag, reContentAttr, types.SourceOGURLMeta); ok {
		out = append(out, c)
	}
	if c, ok := e.tagCandidate(doc.HTMLBody, reTwitterTag, reContentAttr, types.SourceTwitterURLMeta); ok {
		out = append(out, c)
	}
	out = append(out, e.anchorCandidates(doc.HTMLBody)...)
	out = append(out, e.plainTextCandidates(doc.PlainTextBody)...)

	return out
}

// headerCandidate reads the List-Post header, stripping the angle-bracket
// delimiters mail headers wrap URLs in.
func (e *Extractor) headerCandidate(doc types.Document) (types.URLCandidate, bool) {
	value, ok := doc.Header(listPostHeader)
	if !ok {
		return types.URLCandidate{}, false
	}

	// Multi-valued headers carry a comma-separated list; the first entry is
	// the post URL.
	value, _, _ = strings.Cut(value, ",")
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "<")
	value = strings.TrimSuffix(value, ">")
	value = strings.TrimSpace(value)

	if value == "" || e.junk.IsJunk(value, "") {
		return types.URLCandidate{}, false
	}
	return types.URLCandidate{
		RawURL: value,
		Source: types.SourceListPostHeader,
	}, true
}

// tagCandidate finds the first tag matching tagRe and pulls the URL out of
// the attribute matched by attrRe. Matching the whole tag first keeps the
// scan independent of attribute order.
func (e *Extractor) tagCandidate(htmlBody string, tagRe, attrRe *regexp.Regexp, kind types.SourceKind) (types.URLCandidate, bool) {
	for _, tag := range tagRe.FindAllString(htmlBody, -1) {
		raw := firstSubmatch(attrRe.FindStringSubmatch(tag))
		raw = strings.TrimSpace(html.UnescapeString(raw))
		if raw == "" || e.junk.IsJunk(raw, "") {
			continue
		}
		return types.URLCandidate{RawURL: raw, Source: kind}, true
	}
	return types.URLCandidate{}, false
}

// anchorCandidates emits every non-junk anchor with an href, in document
// order, carrying its visible text and the raw opening tag as context.
func (e *Extractor) anchorCandidates(htmlBody string) []types.URLCandidate {
	var out []types.URLCandidate

	position := 0
	for _, m := range reAnchor.FindAllStringSubmatch(htmlBody, -1) {
		openTag, inner := m[1], m[2]

		raw := firstSubmatch(reHrefAttr.FindStringSubmatch(openTag))
		raw = strings.TrimSpace(html.UnescapeString(raw))
		if raw == "" {
			continue
		}

		text := VisibleText(inner)
		if e.junk.IsJunk(raw, text) {
			continue
		}

		out = append(out, types.URLCandidate{
			RawURL:           raw,
			Source:           types.SourceAnchor,
			AnchorText:       text,
			DocumentPosition: position,
			MarkupContext:    openTag,
		})
		position++
	}

	return out
}

// plainTextCandidates emits every non-junk bare URL token in the plain-text
// body, in appearance order.
func (e *Extractor) plainTextCandidates(text string) []types.URLCandidate {
	var out []types.URLCandidate

	position := 0
	for _, raw := range ScanPlainText(text) {
		if e.junk.IsJunk(raw, "") {
			continue
		}
		out = append(out, types.URLCandidate{
			RawURL:           raw,
			Source:           types.SourcePlainText,
			DocumentPosition: position,
		})
		position++
	}

	return out
}

// ScanPlainText returns every http(s) URL-looking token in the text, in
// appearance order, with trailing sentence punctuation trimmed. The history
// crosscheck reuses this scan on rendered feed content.
func ScanPlainText(text string) []string {
	matches := reBareURL.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;:!?)]}>")
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// VisibleText strips markup from an HTML fragment and collapses whitespace,
// approximating the text a reader would see.
func VisibleText(fragment string) string {
	text := reTag.ReplaceAllString(fragment, " ")
	text = html.UnescapeString(text)
	text = reWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// firstSubmatch returns the first non-empty capture group of a regexp match.
func firstSubmatch(match []string) string {
	if len(match) == 0 {
		return ""
	}
	for _, group := range match[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}
