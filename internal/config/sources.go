package config

import (
	"fmt"
	"os"
	"time"
)

type SourcesConfig struct {
	VAM       VAMConfig       `mapstructure:"vam"`
	Europeana EuropeanaConfig `mapstructure:"europeana"`
}

// VAMConfig configures the page-indexed museum catalog.
type VAMConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	IIIFBaseURL string        `mapstructure:"iiif_base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// EuropeanaConfig configures the cursor-indexed aggregator catalog.
type EuropeanaConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`     // API key (can be set directly or via env var)
	APIKeyEnv       string        `mapstructure:"api_key_env"` // Environment variable name for API key
	Timeout         time.Duration `mapstructure:"timeout"`
	Rows            int           `mapstructure:"rows"`         // Raw page size per request
	TargetCount     int           `mapstructure:"target_count"` // Accepted items to collect per load
	MaxAttempts     int           `mapstructure:"max_attempts"` // Page fetches allowed per load
	MinCompleteness int           `mapstructure:"min_completeness"`
}

// ResolveEnvVars loads the API key from APIKeyEnv when no key is set directly.
func (c *EuropeanaConfig) ResolveEnvVars() {
	if c.APIKeyEnv != "" && c.APIKey == "" {
		if val := os.Getenv(c.APIKeyEnv); val != "" {
			c.APIKey = val
		}
	}
}

// Validate checks the accumulation limits.
func (c *EuropeanaConfig) Validate() error {
	if c.Rows <= 0 {
		return fmt.Errorf("sources.europeana.rows must be positive, got %d", c.Rows)
	}
	if c.TargetCount <= 0 {
		return fmt.Errorf("sources.europeana.target_count must be positive, got %d", c.TargetCount)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("sources.europeana.max_attempts must be positive, got %d", c.MaxAttempts)
	}
	if c.MinCompleteness < 1 || c.MinCompleteness > 10 {
		return fmt.Errorf("sources.europeana.min_completeness must be within 1..10, got %d", c.MinCompleteness)
	}
	return nil
}
