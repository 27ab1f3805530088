// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags.
type Config struct {
	// Inputs
	Documents string `json:"documents,omitempty"` // Path to documents JSON file

	// State
	StatePath   string `json:"state_path,omitempty"`   // Path to the local state file
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL (overrides StatePath)

	// Behavior
	RetentionDays int  `json:"retention_days,omitempty" validate:"gte=0"` // Days a seen URL is remembered
	MaxDocuments  int  `json:"max_documents,omitempty" validate:"gte=0"`  // Cap on documents processed per run
	Verbose       bool `json:"verbose,omitempty"`                         // Print detailed debug information

	// History crosscheck
	CrosscheckEnabled bool   `json:"crosscheck_enabled,omitempty"`
	CrosscheckBaseURL string `json:"crosscheck_base_url,omitempty" validate:"omitempty,url"`
	CrosscheckActor   string `json:"crosscheck_actor,omitempty"`
	CrosscheckLimit   int    `json:"crosscheck_limit,omitempty" validate:"gte=0,lte=100"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		StatePath:         "./newslinker_state.json",
		RetentionDays:     180,
		MaxDocuments:      25,
		CrosscheckBaseURL: "https://public.api.bsky.app",
		CrosscheckLimit:   50,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.CrosscheckEnabled && c.CrosscheckActor == "" {
		return fmt.Errorf("config error: 'crosscheck_actor' is required when the crosscheck is enabled")
	}

	if c.Documents != "" {
		if _, err := os.Stat(c.Documents); os.IsNotExist(err) {
			return fmt.Errorf("config error: documents file not found: %s", c.Documents)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Documents == "" {
		result.Documents = defaults.Documents
	}
	if result.StatePath == "" {
		result.StatePath = defaults.StatePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.CrosscheckBaseURL == "" {
		result.CrosscheckBaseURL = defaults.CrosscheckBaseURL
	}
	if result.CrosscheckActor == "" {
		result.CrosscheckActor = defaults.CrosscheckActor
	}

	// Int fields: use default if zero
	if result.RetentionDays == 0 {
		result.RetentionDays = defaults.RetentionDays
	}
	if result.MaxDocuments == 0 {
		result.MaxDocuments = defaults.MaxDocuments
	}
	if result.CrosscheckLimit == 0 {
		result.CrosscheckLimit = defaults.CrosscheckLimit
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
