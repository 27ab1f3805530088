package observability

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evanm/newslinker/internal/types"
)

func TestPrintCandidates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCandidates([]types.URLCandidate{
		{RawURL: "https://news.example/from-og", Source: types.SourceOGURLMeta},
		{RawURL: "https://news.example/a", Source: types.SourceAnchor},
		{RawURL: "https://news.example/b", Source: types.SourceAnchor},
	})
	output := buf.String()

	assert.Contains(t, output, "URL CANDIDATES")
	assert.Contains(t, output, "og_url_meta (1):")
	assert.Contains(t, output, "anchor (2):")
	assert.Contains(t, output, "https://news.example/from-og")
}

func TestPrintCandidates_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCandidates(nil)

	assert.Contains(t, buf.String(), "(none)")
}

func TestPrintCandidates_Truncation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var cands []types.URLCandidate
	for i := 0; i < 8; i++ {
		cands = append(cands, types.URLCandidate{
			RawURL: fmt.Sprintf("https://news.example/%d", i),
			Source: types.SourceAnchor,
		})
	}
	p.PrintCandidates(cands)

	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintResolution(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResolution("The Big Story", "https://news.example/story-1", true)
	output := buf.String()

	assert.Contains(t, output, "RESOLUTION")
	assert.Contains(t, output, "The Big Story")
	assert.Contains(t, output, "https://news.example/story-1")
	assert.Contains(t, output, "Duplicate: true")
}

func TestPrintResolution_Unresolved(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResolution("Nothing here", "", false)

	assert.Contains(t, buf.String(), "(no article link)")
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(5, 4, 1, 3)
	output := buf.String()

	assert.Contains(t, output, "RUN SUMMARY")
	assert.Contains(t, output, "Documents processed: 5")
	assert.Contains(t, output, "Links resolved:      4")
	assert.Contains(t, output, "Duplicates skipped:  1")
	assert.Contains(t, output, "New links recorded:  3")
}
