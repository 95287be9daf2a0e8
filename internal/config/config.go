package config

import (
	"fmt"
	"time"
)

// Config carries every tunable of the summarization pipeline. All
// values are explicit so tests can construct a config without touching
// process state.
type Config struct {
	// Completion service settings.
	APIKey      string  `mapstructure:"api_key"`
	APIEndpoint string  `mapstructure:"api_endpoint"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`

	// MaxInputChars bounds the canonical text submitted per request.
	// Oversized documents are head-truncated, not summarized in parts.
	MaxInputChars int `mapstructure:"max_input_chars"`

	// RequestTimeout bounds one completion call, FetchTimeout one
	// remote document fetch.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`

	// Retry schedule for transient completion failures.
	MaxAttempts   int           `mapstructure:"max_attempts"`
	InitialDelay  time.Duration `mapstructure:"initial_delay"`
	MaxDelay      time.Duration `mapstructure:"max_delay"`
	BackoffFactor float64       `mapstructure:"backoff_factor"`

	// DatabasePath locates the sqlite record store.
	DatabasePath string `mapstructure:"database_path"`

	// Defaults applied when the caller does not pick a language/style.
	DefaultLanguage string `mapstructure:"default_language"`
	DefaultStyle    string `mapstructure:"default_style"`

	Debug bool `mapstructure:"debug"`
}

// Default returns the documented baseline configuration.
func Default() *Config {
	return &Config{
		Model:           "gpt-4o-mini",
		Temperature:     0.3,
		MaxTokens:       1024,
		MaxInputChars:   48000,
		RequestTimeout:  60 * time.Second,
		FetchTimeout:    15 * time.Second,
		MaxAttempts:     4,
		InitialDelay:    time.Second,
		MaxDelay:        30 * time.Second,
		BackoffFactor:   2.0,
		DatabasePath:    "summaries.db",
		DefaultLanguage: "Portuguese",
		DefaultStyle:    "a concise paragraph",
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.MaxInputChars <= 0 {
		return fmt.Errorf("max_input_chars must be positive, got %d", c.MaxInputChars)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.BackoffFactor < 1 {
		return fmt.Errorf("backoff_factor must be >= 1, got %f", c.BackoffFactor)
	}
	if c.RequestTimeout <= 0 || c.FetchTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}
