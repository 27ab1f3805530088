package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evanm/newslinker/internal/config"
	"github.com/evanm/newslinker/internal/dedup"
	"github.com/evanm/newslinker/internal/kv"
	"github.com/evanm/newslinker/internal/urlnorm"
)

var checkCommand = &cobra.Command{
	Use:   "check [url]",
	Short: "Check whether a URL has been seen before",
	Long:  "Canonicalizes the given URL and reports whether the dedup store already remembers it. The state is only read, never modified.",
	Args:  cobra.ExactArgs(1),
	RunE:  checkURLCmd,
}

var (
	checkStatePath     string
	checkRetentionDays int
)

func init() {
	checkCommand.Flags().StringVar(&checkStatePath, "state", "", "Path to the local state file")
	checkCommand.Flags().IntVar(&checkRetentionDays, "retention-days", 0, "Days a seen URL stays in the dedup store")

	rootCmd.AddCommand(checkCommand)
}

func checkURLCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	defaults := config.DefaultConfig()
	statePath := checkStatePath
	if statePath == "" {
		statePath = defaults.StatePath
	}
	retentionDays := checkRetentionDays
	if retentionDays == 0 {
		retentionDays = defaults.RetentionDays
	}

	normalized, err := urlnorm.DefaultNormalizer().Normalize(args[0])
	if err != nil {
		return fmt.Errorf("cannot canonicalize %s: %w", args[0], err)
	}

	store := dedup.NewStore(kv.NewFileStore(statePath), time.Duration(retentionDays)*24*time.Hour, nil)
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load dedup state: %w", err)
	}

	if store.Has(normalized) {
		fmt.Printf("seen: %s\n", normalized)
	} else {
		fmt.Printf("new:  %s\n", normalized)
	}
	return nil
}
