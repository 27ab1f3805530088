// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/evanm/newslinker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCandidates outputs a human-readable summary of the extracted URL
// candidates, grouped by source.
func (p *Printer) PrintCandidates(cands []types.URLCandidate) {
	if len(cands) == 0 {
		p.printBox("URL CANDIDATES", "(none)")
		return
	}

	bySource := make(map[types.SourceKind][]types.URLCandidate)
	var order []types.SourceKind
	for _, c := range cands {
		if _, seen := bySource[c.Source]; !seen {
			order = append(order, c.Source)
		}
		bySource[c.Source] = append(bySource[c.Source], c)
	}

	var sb strings.Builder
	for _, kind := range order {
		group := bySource[kind]
		sb.WriteString(fmt.Sprintf("%s (%d):\n", kind, len(group)))
		count := min(len(group), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", group[i].RawURL))
		}
		if len(group) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(group)-maxItemsToShow))
		}
	}

	p.printBox("URL CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResolution outputs the outcome for a single document.
func (p *Printer) PrintResolution(subject, resolvedURL string, duplicate bool) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Subject:   %s\n", subject))
	if resolvedURL == "" {
		sb.WriteString("Resolved:  (no article link)\n")
	} else {
		sb.WriteString(fmt.Sprintf("Resolved:  %s\n", resolvedURL))
		sb.WriteString(fmt.Sprintf("Duplicate: %t\n", duplicate))
	}

	p.printBox("RESOLUTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs the end-of-run counters.
func (p *Printer) PrintRunSummary(processed, resolved, duplicates, recorded int) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Documents processed: %d\n", processed))
	sb.WriteString(fmt.Sprintf("Links resolved:      %d\n", resolved))
	sb.WriteString(fmt.Sprintf("Duplicates skipped:  %d\n", duplicates))
	sb.WriteString(fmt.Sprintf("New links recorded:  %d\n", recorded))

	p.printBox("RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}
