package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"

	"price_feed/internal/domain"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where the CLI looks for its configuration.
const DefaultConfigPath = "configs/config.yaml"

// Config holds all application settings.
// LoadConfig starts from DefaultConfig, applies the file, then environment overrides.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Feed struct {
		BatchLimit      int `yaml:"batch_limit"`       // 0 = run until shutdown
		BatchIntervalMS int `yaml:"batch_interval_ms"` // pause between batches, 0 = none
	} `yaml:"feed"`

	Margin struct {
		Default float64 `yaml:"default"` // substitute for a zero random draw
		Fixed   float64 `yaml:"fixed"`   // > 0 disables random margins
	} `yaml:"margin"`

	Startup struct {
		ReadyTimeoutMS  int    `yaml:"ready_timeout_ms"`
		WatchInstrument string `yaml:"watch_instrument"`
	} `yaml:"startup"`

	Storage struct {
		JournalPath string `yaml:"journal_path"` // empty disables the reject journal
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"` // empty logs to stdout only
	} `yaml:"logging"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	var cfg Config
	cfg.App.Name = "price-feed"
	cfg.App.Version = "0.1.0"
	cfg.Feed.BatchLimit = 0
	cfg.Feed.BatchIntervalMS = 10
	cfg.Margin.Default = 0.1
	cfg.Startup.ReadyTimeoutMS = 1000
	cfg.Startup.WatchInstrument = "EUR/USD"
	cfg.Storage.JournalPath = "data/rejects.db"
	cfg.Logging.Level = "info"
	cfg.Logging.Dir = "logs"
	return &cfg
}

// LoadConfig reads and parses the configuration file.
// A missing file yields an error wrapping domain.ErrConfigNotFound.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Feed.BatchLimit < 0 {
		return &domain.ConfigError{Field: "feed.batch_limit", Err: errors.New("must not be negative")}
	}
	if c.Feed.BatchIntervalMS < 0 {
		return &domain.ConfigError{Field: "feed.batch_interval_ms", Err: errors.New("must not be negative")}
	}
	if !isFinite(c.Margin.Default) {
		return &domain.ConfigError{Field: "margin.default", Err: errors.New("must be finite")}
	}
	if c.Margin.Default <= 0 {
		return &domain.ConfigError{Field: "margin.default", Err: errors.New("must be positive")}
	}
	if !isFinite(c.Margin.Fixed) {
		return &domain.ConfigError{Field: "margin.fixed", Err: errors.New("must be finite")}
	}
	if c.Margin.Fixed < 0 {
		return &domain.ConfigError{Field: "margin.fixed", Err: errors.New("must not be negative")}
	}
	if c.Startup.ReadyTimeoutMS <= 0 {
		return &domain.ConfigError{Field: "startup.ready_timeout_ms", Err: errors.New("must be positive")}
	}
	if !domain.IsValidInstrument(c.Startup.WatchInstrument) {
		return &domain.ConfigError{Field: "startup.watch_instrument", Err: fmt.Errorf("%q is not a BASE/QUOTE pair", c.Startup.WatchInstrument)}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &domain.ConfigError{Field: "logging.level", Err: fmt.Errorf("unknown level %q", c.Logging.Level)}
	}
	return nil
}

// ApplyEnv overrides settings from environment variables when they are set.
func (c *Config) ApplyEnv() error {
	if level := os.Getenv("PRICEFEED_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if path, ok := os.LookupEnv("PRICEFEED_JOURNAL_PATH"); ok {
		c.Storage.JournalPath = path
	}
	if v := os.Getenv("PRICEFEED_BATCH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &domain.ConfigError{Field: "PRICEFEED_BATCH_LIMIT", Err: err}
		}
		c.Feed.BatchLimit = n
	}
	if v := os.Getenv("PRICEFEED_MARGIN_DEFAULT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &domain.ConfigError{Field: "PRICEFEED_MARGIN_DEFAULT", Err: err}
		}
		c.Margin.Default = f
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
