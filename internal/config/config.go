// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"pricing-estimator/core/types"
	"pricing-estimator/internal/errors"
	"pricing-estimator/internal/logging"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "ESTIMATOR_"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Catalog selects the pricing seed
	Catalog CatalogConfig `json:"catalog"`

	// Calculator contains debounce settings
	Calculator CalculatorConfig `json:"calculator"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`

	// Metrics contains metrics configuration
	Metrics MetricsConfig `json:"metrics"`
}

// CatalogConfig locates the seed file
type CatalogConfig struct {
	// SeedPath is an HCL seed file. Empty uses the built-in catalog.
	SeedPath string `json:"seed_path"`
}

// CalculatorConfig contains debounce windows in milliseconds
type CalculatorConfig struct {
	FieldDebounceMS    int `json:"field_debounce_ms"`
	SettingsDebounceMS int `json:"settings_debounce_ms"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// Locale is a BCP 47 tag for number formatting
	Locale string `json:"locale"`

	// Currency overrides the seed currency when set
	Currency types.Currency `json:"currency,omitempty"`

	// NoColor disables ANSI colors
	NoColor bool `json:"no_color"`
}

// MetricsConfig contains metrics settings
type MetricsConfig struct {
	Enabled bool `json:"enabled"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Calculator: CalculatorConfig{
			FieldDebounceMS:    300,
			SettingsDebounceMS: 500,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			Locale:        "nb-NO",
		},
		Logging: logging.DefaultConfig(),
		Metrics: MetricsConfig{Enabled: true},
	}
}

// DefaultPath is the per-user config file
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "estimator.json"
	}
	return filepath.Join(home, ".pricing-estimator", "config.json")
}

// Load reads a config file over the defaults, then applies .env and
// ESTIMATOR_* overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, errors.Config("invalid config file", err).WithContext("path", path)
		}
	case !os.IsNotExist(err):
		return nil, errors.Config("failed to read config file", err).WithContext("path", path)
	}

	_ = godotenv.Load()
	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return config, config.Validate()
}

// Validate checks ranges that would make the calculator unusable
func (c *Config) Validate() error {
	if c.Calculator.FieldDebounceMS < 0 || c.Calculator.SettingsDebounceMS < 0 {
		return errors.New(errors.TypeConfig, "debounce windows cannot be negative")
	}
	switch c.Output.DefaultFormat {
	case "cli", "json":
	default:
		return errors.Newf(errors.TypeConfig, "unknown output format %q", c.Output.DefaultFormat)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Config("invalid integer", err).WithContext("env", EnvPrefix+key)
		}
		*dst = n
		return nil
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.Config("invalid boolean", err).WithContext("env", EnvPrefix+key)
		}
		*dst = b
		return nil
	}

	str("SEED_PATH", &c.Catalog.SeedPath)
	str("OUTPUT_FORMAT", &c.Output.DefaultFormat)
	str("LOCALE", &c.Output.Locale)
	var currency string
	str("CURRENCY", &currency)
	if currency != "" {
		c.Output.Currency = types.Currency(strings.ToUpper(currency))
	}
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	for _, f := range []func() error{
		func() error { return integer("FIELD_DEBOUNCE_MS", &c.Calculator.FieldDebounceMS) },
		func() error { return integer("SETTINGS_DEBOUNCE_MS", &c.Calculator.SettingsDebounceMS) },
		func() error { return boolean("NO_COLOR", &c.Output.NoColor) },
		func() error { return boolean("METRICS_ENABLED", &c.Metrics.Enabled) },
	} {
		if err := f(); err != nil {
			return err
		}
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Global configuration instance
var (
	globalMu     sync.RWMutex
	globalConfig = Default()
)

// Get returns the global configuration
func Get() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = config
}
