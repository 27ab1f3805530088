// Package scoring assigns desirability scores to anchor candidates so the
// resolution pipeline can pick the anchor most likely to be the article link.
package scoring

import (
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/evanm/newslinker/internal/junk"
	"github.com/evanm/newslinker/internal/newsletters"
	"github.com/evanm/newslinker/internal/types"
)

// Disqualified marks an anchor that must never be selected, even when it is
// the only one present.
const Disqualified = math.MinInt32

// Rule names used as keys into Weights.
const (
	RuleTitleClass    = "title_class"
	RuleSubjectMatch  = "subject_match"
	RuleLongFormPath  = "long_form_path"
	RuleSenderHost    = "sender_host"
	RuleViewInBrowser = "view_in_browser"
	RuleReadMore      = "read_more"
	RulePositionMax   = "position_max"
)

// Weights maps rule names to their additive score contribution. Behavior is
// data-driven so thresholds can change without touching logic.
type Weights map[string]int

// DefaultWeights returns the stock rule weights.
func DefaultWeights() Weights {
	return Weights{
		RuleTitleClass:    200,
		RuleSubjectMatch:  100,
		RuleLongFormPath:  50,
		RuleSenderHost:    35,
		RuleViewInBrowser: 30,
		RuleReadMore:      20,
		RulePositionMax:   10,
	}
}

var (
	reTitleClass    = regexp.MustCompile(`(?i)class\s*=\s*["'][^"']*\bpost[-_]?title`)
	reViewInBrowser = regexp.MustCompile(`(?i)view\s+(it\s+|this\s+(post\s+)?)?(in|on)(\s+(your|the|a))?\s+(browser|web)|view\s+online|read\s+online`)
	reReadMore      = regexp.MustCompile(`(?i)\b(read\s+more|continue\s+reading|keep\s+reading|read\s+the\s+full)\b`)
)

// Scorer scores anchor candidates.
type Scorer struct {
	junk    *junk.Classifier
	weights Weights
}

// NewScorer creates a Scorer with the given junk classifier and weights.
func NewScorer(classifier *junk.Classifier, weights Weights) *Scorer {
	return &Scorer{junk: classifier, weights: weights}
}

// Score computes the additive score for a single anchor candidate.
// anchorIndex is the anchor's 0-based position in document order.
// A disqualifying condition returns Disqualified regardless of bonuses.
func (s *Scorer) Score(cand types.URLCandidate, anchorIndex int, senderDomain, subject string) int {
	lower := strings.ToLower(strings.TrimSpace(cand.RawURL))
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return Disqualified
	}
	// Safety net: extraction already rejects junk, but a caller may score
	// candidates it assembled itself.
	if s.junk.IsJunk(cand.RawURL, cand.AnchorText) {
		return Disqualified
	}
	for _, re := range newsletters.AppLinkPatterns() {
		if re.MatchString(cand.RawURL) {
			return Disqualified
		}
	}

	var host, path string
	if parsed, err := url.Parse(strings.TrimSpace(cand.RawURL)); err == nil {
		host = strings.ToLower(parsed.Hostname())
		path = parsed.Path
	}

	score := 0
	if reTitleClass.MatchString(cand.MarkupContext) {
		score += s.weights[RuleTitleClass]
	}
	if subject != "" && strings.EqualFold(strings.TrimSpace(cand.AnchorText), strings.TrimSpace(subject)) {
		score += s.weights[RuleSubjectMatch]
	}
	if newsletters.IsLongFormPostPath(host, path) {
		score += s.weights[RuleLongFormPath]
	}
	if senderDomain != "" && host != "" && strings.Contains(host, strings.ToLower(senderDomain)) {
		score += s.weights[RuleSenderHost]
	}
	if reViewInBrowser.MatchString(cand.AnchorText) {
		score += s.weights[RuleViewInBrowser]
	}
	if reReadMore.MatchString(cand.AnchorText) {
		score += s.weights[RuleReadMore]
	}
	if posMax := s.weights[RulePositionMax]; anchorIndex < posMax {
		score += posMax - anchorIndex
	}

	return score
}

// Best returns the anchor candidate with the strictly highest score. On an
// exact tie the earliest-occurring anchor wins. Returns false when every
// anchor is disqualified or the slice contains no anchors.
func (s *Scorer) Best(cands []types.URLCandidate, senderDomain, subject string) (types.URLCandidate, bool) {
	var best types.URLCandidate
	bestScore := Disqualified
	found := false

	for _, cand := range cands {
		if cand.Source != types.SourceAnchor {
			continue
		}
		score := s.Score(cand, cand.DocumentPosition, senderDomain, subject)
		if score == Disqualified {
			continue
		}
		// Candidates arrive in document order, so a strict comparison
		// keeps the earliest anchor on ties.
		if !found || score > bestScore {
			best = cand
			bestScore = score
			found = true
		}
	}

	return best, found
}
