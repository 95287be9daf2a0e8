package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional file, the environment, and
// built-in defaults, in that order of precedence (file < env).
//
// A `.env` in the working directory is loaded first so the API key can
// live outside the config file; missing `.env` is not an error.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".summarizer")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SUMMARIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key must be registered with viper, or Unmarshal never
	// consults the environment for it.
	registerDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file: defaults plus environment are enough.
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// The credential is never stored in the config file. SUMMARIZER_API_KEY
	// wins, OPENAI_API_KEY is the conventional fallback.
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func registerDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("api_key", def.APIKey)
	v.SetDefault("api_endpoint", def.APIEndpoint)
	v.SetDefault("model", def.Model)
	v.SetDefault("temperature", def.Temperature)
	v.SetDefault("max_tokens", def.MaxTokens)
	v.SetDefault("max_input_chars", def.MaxInputChars)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("fetch_timeout", def.FetchTimeout)
	v.SetDefault("max_attempts", def.MaxAttempts)
	v.SetDefault("initial_delay", def.InitialDelay)
	v.SetDefault("max_delay", def.MaxDelay)
	v.SetDefault("backoff_factor", def.BackoffFactor)
	v.SetDefault("database_path", def.DatabasePath)
	v.SetDefault("default_language", def.DefaultLanguage)
	v.SetDefault("default_style", def.DefaultStyle)
	v.SetDefault("debug", def.Debug)
}
