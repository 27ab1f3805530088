// Package main provides the entry point for the newslinker CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "newslinker",
	Short: "Newsletter article link resolver",
	Long:  "Newslinker extracts the single article link from newsletter emails, unwraps tracking redirects, canonicalizes the URL, and filters out links it has already seen.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
