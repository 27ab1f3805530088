package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanm/newslinker/internal/junk"
	"github.com/evanm/newslinker/internal/types"
)

func newTestScorer() *Scorer {
	return NewScorer(junk.NewClassifier(junk.DefaultConfig()), DefaultWeights())
}

func anchor(rawURL, text, markup string, position int) types.URLCandidate {
	return types.URLCandidate{
		RawURL:           rawURL,
		Source:           types.SourceAnchor,
		AnchorText:       text,
		MarkupContext:    markup,
		DocumentPosition: position,
	}
}

func TestScoreBonuses(t *testing.T) {
	s := newTestScorer()
	weights := DefaultWeights()

	tests := []struct {
		name     string
		cand     types.URLCandidate
		sender   string
		subject  string
		expected int
	}{
		{
			"No bonuses beyond position",
			anchor("https://other.example/x", "click", `<a href="...">`, 0),
			"", "",
			weights[RulePositionMax],
		},
		{
			"Title class",
			anchor("https://other.example/x", "Story", `<a href="..." class="post-title">`, 0),
			"", "",
			weights[RuleTitleClass] + weights[RulePositionMax],
		},
		{
			"Title class with underscore",
			anchor("https://other.example/x", "Story", `<a class="entry post_title-link" href="...">`, 0),
			"", "",
			weights[RuleTitleClass] + weights[RulePositionMax],
		},
		{
			"Subject match ignores case and padding",
			anchor("https://other.example/x", "  The Big Story ", "<a>", 0),
			"", "the big story",
			weights[RuleSubjectMatch] + weights[RulePositionMax],
		},
		{
			"Long-form platform path",
			anchor("https://myletter.substack.com/p/the-story", "Story", "<a>", 0),
			"", "",
			weights[RuleLongFormPath] + weights[RulePositionMax],
		},
		{
			"Sender host match",
			anchor("https://news.example/x", "Story", "<a>", 0),
			"news.example", "",
			weights[RuleSenderHost] + weights[RulePositionMax],
		},
		{
			"View in browser",
			anchor("https://other.example/x", "View this post in your browser", "<a>", 0),
			"", "",
			weights[RuleViewInBrowser] + weights[RulePositionMax],
		},
		{
			"Read more",
			anchor("https://other.example/x", "Continue reading", "<a>", 0),
			"", "",
			weights[RuleReadMore] + weights[RulePositionMax],
		},
		{
			"Position bonus decays",
			anchor("https://other.example/x", "click", "<a>", 3),
			"", "",
			weights[RulePositionMax] - 3,
		},
		{
			"Position bonus exhausted",
			anchor("https://other.example/x", "click", "<a>", 25),
			"", "",
			0,
		},
		{
			"Bonuses stack",
			anchor("https://myletter.substack.com/p/the-story", "The Big Story", `<a class="post-title">`, 1),
			"myletter.substack.com", "The Big Story",
			weights[RuleTitleClass] + weights[RuleSubjectMatch] + weights[RuleLongFormPath] +
				weights[RuleSenderHost] + weights[RulePositionMax] - 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.cand, tt.cand.DocumentPosition, tt.sender, tt.subject)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestScoreDisqualified(t *testing.T) {
	s := newTestScorer()

	tests := []struct {
		name string
		cand types.URLCandidate
	}{
		{"Non-http scheme", anchor("mailto:editor@news.example", "Reply", "<a>", 0)},
		{"Unsubscribe anchor", anchor("https://list.example/u/42", "Unsubscribe", "<a>", 0)},
		{"App store link", anchor("https://apps.apple.com/app/id1", "Get the app", "<a>", 0)},
		{"Tracking pixel", anchor("https://link.mail.beehiiv.com/ss/o/x", "", "<a>", 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Disqualified, s.Score(tt.cand, 0, "", ""))
		})
	}
}

func TestBest(t *testing.T) {
	s := newTestScorer()

	t.Run("Highest score wins", func(t *testing.T) {
		cands := []types.URLCandidate{
			anchor("https://other.example/a", "click here", "<a>", 0),
			anchor("https://news.example/story", "The Big Story", `<a class="post-title">`, 1),
		}
		best, ok := s.Best(cands, "", "The Big Story")
		require.True(t, ok)
		assert.Equal(t, "https://news.example/story", best.RawURL)
	})

	t.Run("Earliest wins on tie", func(t *testing.T) {
		cands := []types.URLCandidate{
			anchor("https://a.example/x", "click", "<a>", 0),
			anchor("https://b.example/x", "click", "<a>", 0),
		}
		best, ok := s.Best(cands, "", "")
		require.True(t, ok)
		assert.Equal(t, "https://a.example/x", best.RawURL)
	})

	t.Run("Disqualified sole anchor yields nothing", func(t *testing.T) {
		cands := []types.URLCandidate{
			anchor("https://apps.apple.com/app/id1", "Get the app", "<a>", 0),
		}
		_, ok := s.Best(cands, "", "")
		assert.False(t, ok)
	})

	t.Run("Non-anchor candidates are ignored", func(t *testing.T) {
		cands := []types.URLCandidate{
			{RawURL: "https://news.example/meta", Source: types.SourceOGURLMeta},
		}
		_, ok := s.Best(cands, "", "")
		assert.False(t, ok)
	})

	t.Run("Empty slice", func(t *testing.T) {
		_, ok := s.Best(nil, "", "")
		assert.False(t, ok)
	})
}
