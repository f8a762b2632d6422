package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`

	// Prediction / optimizer backend
	APIBaseURL      string        `mapstructure:"FPL_API_BASE_URL"`
	APITimeout      time.Duration `mapstructure:"FPL_API_TIMEOUT"`
	GameweekTimeout time.Duration `mapstructure:"GAMEWEEK_TIMEOUT"`
	HandlerTimeout  time.Duration `mapstructure:"HANDLER_TIMEOUT"`

	// Presentation
	ViewVariant string `mapstructure:"VIEW_VARIANT"`

	// Snapshots of supplementary feeds
	FirestoreProject string        `mapstructure:"FIRESTORE_PROJECT_ID"`
	SnapshotTTL      time.Duration `mapstructure:"SNAPSHOT_TTL"`

	SessionTTL  time.Duration `mapstructure:"SESSION_TTL"`
	CorsOrigins string        `mapstructure:"CORS_ORIGINS"`
	RateLimit   int           `mapstructure:"RATE_LIMIT"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"ENVIRONMENT":          "development",
	"FPL_API_BASE_URL":     "http://localhost:8000/api",
	"FPL_API_TIMEOUT":      "0s", // no timeout on backend calls unless set
	"GAMEWEEK_TIMEOUT":     "5s",
	"HANDLER_TIMEOUT":      "60s",
	"VIEW_VARIANT":         "classic",
	"FIRESTORE_PROJECT_ID": "",
	"SNAPSHOT_TTL":         "24h",
	"SESSION_TTL":          "2h",
	"CORS_ORIGINS":         "http://localhost:5173,http://localhost:3000",
	"RATE_LIMIT":           100,
	"LOG_LEVEL":            "",
	"LOG_FORMAT":           "",
}

// Load reads configuration from the environment and an optional .env file in
// the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper applies defaults and environment overrides to v and decodes it.
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("FPL_API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("FPL_API_BASE_URL must be an http(s) URL, got %q", c.APIBaseURL)
	}
	if c.GameweekTimeout <= 0 {
		return fmt.Errorf("GAMEWEEK_TIMEOUT must be positive")
	}
	if c.APITimeout < 0 {
		return fmt.Errorf("FPL_API_TIMEOUT must not be negative")
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// FirestoreEnabled reports whether feed snapshots are persisted to Firestore
func (c *Config) FirestoreEnabled() bool {
	return c.FirestoreProject != ""
}
