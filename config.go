package dberrors

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

// Config represents the dberrors configuration file
type Config struct {
	Patterns []string      `yaml:"patterns"` // overlay pattern set files
	Fixtures []string      `yaml:"fixtures"` // corpus files replayed by "dberrors check"
	Log      LogConfig     `yaml:"log"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

// LogConfig represents logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig represents Prometheus counter settings
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Log formats
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Strict mode rejects unknown keys
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Log.Level != "" {
		validLevels := map[string]bool{
			"trace": true,
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[config.Log.Level] {
			return fmt.Errorf("%w: invalid log level '%s': must be one of trace, debug, info, warn, error", ErrConfigValidation, config.Log.Level)
		}
	}

	if config.Log.Format != "" && config.Log.Format != LogFormatConsole && config.Log.Format != LogFormatJSON {
		return fmt.Errorf("%w: invalid log format '%s': must be one of console, json", ErrConfigValidation, config.Log.Format)
	}

	for i, path := range config.Patterns {
		if path == "" {
			return fmt.Errorf("%w: patterns[%d]: path is empty", ErrConfigValidation, i)
		}
	}

	for i, path := range config.Fixtures {
		if path == "" {
			return fmt.Errorf("%w: fixtures[%d]: path is empty", ErrConfigValidation, i)
		}
	}

	return nil
}

func getDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatConsole,
		},
		Metrics: MetricsConfig{
			Namespace: "dberrors",
		},
	}
}

// applyDefaults fills in missing values
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.Log.Level == "" {
		config.Log.Level = defaults.Log.Level
	}

	if config.Log.Format == "" {
		config.Log.Format = defaults.Log.Format
	}

	if config.Metrics.Namespace == "" {
		config.Metrics.Namespace = defaults.Metrics.Namespace
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvVar   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return bareEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

func expandConfigEnvVars(config *Config) {
	for i, path := range config.Patterns {
		config.Patterns[i] = expandEnvVars(path)
	}

	for i, path := range config.Fixtures {
		config.Fixtures[i] = expandEnvVars(path)
	}

	config.Metrics.Namespace = expandEnvVars(config.Metrics.Namespace)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// Options loads the overlay pattern sets and, when enabled, registers the
// metrics on reg. The result is meant for New.
func (c *Config) Options(reg prometheus.Registerer) ([]Option, error) {
	var opts []Option

	for _, path := range c.Patterns {
		set, err := LoadPatternSetFile(path)
		if err != nil {
			return nil, err
		}

		opts = append(opts, WithPatternSet(set))
	}

	if c.Metrics.Enabled {
		opts = append(opts, WithMetrics(NewMetrics(reg, c.Metrics.Namespace)))
	}

	return opts, nil
}
