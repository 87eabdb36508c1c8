package dberrors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/prometheus/client_golang/prometheus"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dberrors.yaml")
	err := os.WriteFile(path, []byte(content), 0644)
	assert.NoError(t, err)

	return path
}

func TestLoadConfig_DefaultValues(t *testing.T) {
	config, err := LoadConfig("non-existent-file.yaml")
	assert.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, LogFormatConsole, config.Log.Format)
	assert.Equal(t, "dberrors", config.Metrics.Namespace)
	assert.False(t, config.Metrics.Enabled)
	assert.Zero(t, config.Patterns)
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	t.Setenv("DBERRORS_FIXTURES", "/srv/fixtures")

	path := writeConfig(t, `
patterns:
  - ./patterns/overlay.yaml
fixtures:
  - "${DBERRORS_FIXTURES}/postgres.yaml"
  - "$DBERRORS_FIXTURES/mysql.yaml"
log:
  level: debug
metrics:
  enabled: true
`)

	config, err := LoadConfig(path)
	assert.NoError(t, err)

	assert.Equal(t, []string{"./patterns/overlay.yaml"}, config.Patterns)
	assert.Equal(t, []string{"/srv/fixtures/postgres.yaml", "/srv/fixtures/mysql.yaml"}, config.Fixtures)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, LogFormatConsole, config.Log.Format)
	assert.True(t, config.Metrics.Enabled)
	assert.Equal(t, "dberrors", config.Metrics.Namespace)
}

func TestLoadConfig_StrictMode_UnknownKeys(t *testing.T) {
	path := writeConfig(t, `
log:
  level: info
  colour: true
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		message string
	}{
		{name: "invalid log level", config: Config{Log: LogConfig{Level: "verbose"}}, message: "invalid log level"},
		{name: "invalid log format", config: Config{Log: LogConfig{Format: "xml"}}, message: "invalid log format"},
		{name: "empty pattern path", config: Config{Patterns: []string{""}}, message: "patterns[0]"},
		{name: "empty fixture path", config: Config{Fixtures: []string{"a.yaml", ""}}, message: "fixtures[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.config)
			assert.IsError(t, err, ErrConfigValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	assert.NoError(t, validateConfig(&Config{Log: LogConfig{Level: "warn", Format: LogFormatJSON}}))
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	path := writeConfig(t, "log:\n  format: xml\n")

	_, err := LoadConfig(path)
	assert.IsError(t, err, ErrConfigValidation)
}

func TestConfig_Options(t *testing.T) {
	dir := t.TempDir()
	overlayPath := filepath.Join(dir, "overlay.yaml")
	err := os.WriteFile(overlayPath, []byte("dialect: mysql\nversion: 5\ncodes:\n  \"1213\": constraint violation\n"), 0644)
	assert.NoError(t, err)

	config := &Config{
		Patterns: []string{overlayPath},
		Metrics:  MetricsConfig{Enabled: true, Namespace: "app"},
	}

	reg := prometheus.NewRegistry()
	opts, err := config.Options(reg)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(opts))

	n := New(opts...)
	assert.Equal(t, 5, n.PatternSets()[DialectMySQL].Version)
	assert.NotZero(t, n.metrics)

	config.Patterns = []string{filepath.Join(dir, "missing.yaml")}
	_, err = config.Options(reg)
	assert.Error(t, err)
}
