package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/evanm/newslinker/internal/config"
	"github.com/evanm/newslinker/internal/crosscheck"
	"github.com/evanm/newslinker/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Resolve article links for a batch of newsletter documents",
	Long: `Processes a batch of newsletter documents end-to-end: extraction -> scoring -> redirect unwrapping -> canonicalization -> dedup.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runBatchCmd,
}

var (
	runConfigPath      string
	runDocuments       string
	runStatePath       string
	runDatabaseURL     string
	runRetentionDays   int
	runMaxDocuments    int
	runVerbose         bool
	runCrosscheck      bool
	runCrosscheckActor string
	runCrosscheckLimit int
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runDocuments, "documents", "d", "", "Path to a JSON file holding the documents to process")
	runCommand.Flags().StringVar(&runStatePath, "state", "", "Path to the local state file")
	runCommand.Flags().IntVar(&runRetentionDays, "retention-days", 0, "Days a seen URL stays in the dedup store")
	runCommand.Flags().IntVar(&runMaxDocuments, "max-documents", 0, "Maximum documents processed per run")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")
	runCommand.Flags().BoolVar(&runCrosscheck, "crosscheck", false, "Also check resolved URLs against the posting account's recent feed")
	runCommand.Flags().StringVar(&runCrosscheckActor, "crosscheck-actor", "", "Posting account handle or DID for the history crosscheck")
	runCommand.Flags().IntVar(&runCrosscheckLimit, "crosscheck-limit", 0, "How many recent feed items the crosscheck inspects")

	// Database URL for shared state persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runBatchCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(cmd, runConfigPath)
	if err != nil {
		return err
	}

	if cfg.Documents == "" {
		return fmt.Errorf("--documents is required (via flag or config)")
	}
	if cfg.CrosscheckEnabled && cfg.CrosscheckActor == "" {
		return fmt.Errorf("--crosscheck-actor is required when the crosscheck is enabled")
	}

	verdicts, err := pipeline.Run(ctx, pipeline.RunOptions{
		DocumentsPath: cfg.Documents,
		StatePath:     cfg.StatePath,
		DatabaseURL:   cfg.DatabaseURL,
		RetentionDays: cfg.RetentionDays,
		MaxDocuments:  cfg.MaxDocuments,
		Crosscheck: crosscheck.Config{
			Enabled: cfg.CrosscheckEnabled,
			BaseURL: cfg.CrosscheckBaseURL,
			Actor:   cfg.CrosscheckActor,
			Limit:   cfg.CrosscheckLimit,
			Timeout: 30 * time.Second,
		},
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return err
	}

	for _, v := range verdicts {
		switch {
		case !v.Resolved:
			fmt.Printf("  [skip]      %s\n", v.Subject)
		case v.Duplicate:
			fmt.Printf("  [duplicate] %s -> %s\n", v.Subject, v.ResolvedURL)
		default:
			fmt.Printf("  [new]       %s -> %s\n", v.Subject, v.ResolvedURL)
		}
	}
	return nil
}

// loadMergedConfig loads the optional config file, applies CLI overrides for
// flags that were explicitly set, then fills remaining gaps with defaults.
func loadMergedConfig(cmd *cobra.Command, configPath string) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loadedCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", configPath)
		}
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("documents") {
		cfg.Documents = runDocuments
	}
	if cmd.Flags().Changed("state") {
		cfg.StatePath = runStatePath
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if cmd.Flags().Changed("retention-days") {
		cfg.RetentionDays = runRetentionDays
	}
	if cmd.Flags().Changed("max-documents") {
		cfg.MaxDocuments = runMaxDocuments
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("crosscheck") {
		cfg.CrosscheckEnabled = runCrosscheck
	}
	if cmd.Flags().Changed("crosscheck-actor") {
		cfg.CrosscheckActor = runCrosscheckActor
	}
	if cmd.Flags().Changed("crosscheck-limit") {
		cfg.CrosscheckLimit = runCrosscheckLimit
	}

	cfg = cfg.MergeWithDefaults(config.DefaultConfig())

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return cfg, nil
}
