package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evanm/newslinker/internal/fetch"
	"github.com/evanm/newslinker/internal/observability"
	"github.com/evanm/newslinker/internal/resolve"
	"github.com/evanm/newslinker/internal/types"
)

var resolveCommand = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the article link of a single newsletter document",
	Long:  "Reads one document (a JSON object) and prints the canonical article URL it resolves to. No dedup state is read or written.",
	RunE:  resolveDocumentCmd,
}

var (
	resolveDocument string
	resolveVerbose  bool
)

func init() {
	resolveCommand.Flags().StringVarP(&resolveDocument, "document", "d", "", "Path to a JSON file holding one document")
	resolveCommand.Flags().BoolVarP(&resolveVerbose, "verbose", "v", false, "Print the discovered candidates before resolving")
	_ = resolveCommand.MarkFlagRequired("document")

	rootCmd.AddCommand(resolveCommand)
}

func resolveDocumentCmd(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(resolveDocument)
	if err != nil {
		return fmt.Errorf("failed to read document file %s: %w", resolveDocument, err)
	}

	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse document JSON: %w", err)
	}

	if doc.PlainTextBody == "" && doc.HTMLBody != "" {
		if text, derr := fetch.HTMLToText(doc.HTMLBody); derr == nil {
			doc.PlainTextBody = text
		}
	}

	pipe := resolve.Default()

	if resolveVerbose {
		cands := pipe.Extract(doc)
		observability.NewPrinter(os.Stdout).PrintCandidates(cands)
	}

	url, ok := pipe.Resolve(doc)
	if !ok {
		return fmt.Errorf("no article link found in document %q", doc.Subject)
	}

	fmt.Println(url)
	return nil
}
