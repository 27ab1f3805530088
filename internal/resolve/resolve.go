// Package resolve selects the single article URL a newsletter document is
// about, walking the candidate sources in precedence order.
package resolve

import (
	"github.com/evanm/newslinker/internal/extraction"
	"github.com/evanm/newslinker/internal/junk"
	"github.com/evanm/newslinker/internal/scoring"
	"github.com/evanm/newslinker/internal/types"
	"github.com/evanm/newslinker/internal/urlnorm"
)

// Pipeline orchestrates extraction, scoring and normalization.
type Pipeline struct {
	extractor  *extraction.Extractor
	scorer     *scoring.Scorer
	normalizer *urlnorm.Normalizer
}

// New creates a Pipeline from its three collaborators.
func New(extractor *extraction.Extractor, scorer *scoring.Scorer, normalizer *urlnorm.Normalizer) *Pipeline {
	return &Pipeline{extractor: extractor, scorer: scorer, normalizer: normalizer}
}

// Default returns a Pipeline assembled from the stock configuration of every
// component.
func Default() *Pipeline {
	classifier := junk.NewClassifier(junk.DefaultConfig())
	return New(
		extraction.NewExtractor(classifier),
		scoring.NewScorer(classifier, scoring.DefaultWeights()),
		urlnorm.DefaultNormalizer(),
	)
}

// metaPrecedence is the order in which single-shot sources are tried before
// falling back to scored anchors and plain text.
var metaPrecedence = []types.SourceKind{
	types.SourceListPostHeader,
	types.SourceCanonicalTag,
	types.SourceOGURLMeta,
	types.SourceTwitterURLMeta,
}

// Extract returns every candidate the document yields, in discovery order.
func (p *Pipeline) Extract(doc types.Document) []types.URLCandidate {
	return p.extractor.Extract(doc)
}

// Resolve returns the normalized article URL for a document, or false when no
// stage yields one. Anchors are scored on their raw URLs; only the winning
// anchor is normalized. A stage whose candidate fails normalization produces
// nothing and the pipeline falls through to the next stage.
func (p *Pipeline) Resolve(doc types.Document) (string, bool) {
	cands := p.extractor.Extract(doc)
	return p.ResolveCandidates(cands, doc.SenderDomain(), doc.Subject)
}

// ResolveCandidates runs the precedence chain over an already-extracted
// candidate set.
func (p *Pipeline) ResolveCandidates(cands []types.URLCandidate, senderDomain, subject string) (string, bool) {
	byKind := make(map[types.SourceKind][]types.URLCandidate)
	for _, c := range cands {
		byKind[c.Source] = append(byKind[c.Source], c)
	}

	for _, kind := range metaPrecedence {
		list := byKind[kind]
		if len(list) == 0 {
			continue
		}
		// Each of these sources contributes at most one candidate; a
		// normalization failure means the source produced nothing.
		if normalized, err := p.normalizer.Normalize(list[0].RawURL); err == nil {
			return normalized, true
		}
	}

	if best, ok := p.scorer.Best(byKind[types.SourceAnchor], senderDomain, subject); ok {
		if normalized, err := p.normalizer.Normalize(best.RawURL); err == nil {
			return normalized, true
		}
	}

	if plain := byKind[types.SourcePlainText]; len(plain) > 0 {
		if normalized, err := p.normalizer.Normalize(plain[0].RawURL); err == nil {
			return normalized, true
		}
	}

	return "", false
}
