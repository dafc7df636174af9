package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the halmeta tool configuration. It governs how the CLI
// behaves, not the metadata document itself; documents are parsed by the
// metadata package, which preserves key case where viper would not.
type Config struct {
	Document string `mapstructure:"document"`
	Format   string `mapstructure:"format"`
	NoColor  bool   `mapstructure:"no_color"`
	Verbose  bool   `mapstructure:"verbose"`
}

// documentCandidates are the metadata document names searched when no
// explicit path is configured or given.
var documentCandidates = []string{"hal.yaml", "hal.yml", "hal.json"}

// Load loads the tool configuration from halmeta.yaml in the current
// directory, falling back to defaults. Environment variables with the
// HALMETA prefix override file values.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("document", "")
	v.SetDefault("format", "table")
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", false)

	// Set config name and paths
	v.SetConfigName("halmeta")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.SetEnvPrefix("HALMETA")
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ResolveDocument returns the metadata document path to operate on. An
// explicit path wins, then the configured document, then the first of
// hal.yaml, hal.yml, hal.json present in the current directory.
func (c *Config) ResolveDocument(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if c.Document != "" {
		return c.Document, nil
	}
	return FindDocument(".")
}

// FindDocument returns the first metadata document present in dir.
func FindDocument(dir string) (string, error) {
	for _, name := range documentCandidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no metadata document found (looked for hal.yaml, hal.yml, hal.json)")
}

// DefaultDocument returns the document name scaffold creates when nothing
// exists yet.
func DefaultDocument() string {
	return documentCandidates[0]
}

// validateConfig validates the tool configuration
func validateConfig(cfg *Config) error {
	switch cfg.Format {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("format must be 'table' or 'json', got: %s", cfg.Format)
	}
}
