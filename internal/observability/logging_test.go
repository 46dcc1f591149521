package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrohwah/shadowsofavernus/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "json"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_Console(t *testing.T) {
	cfg := config.LoggingConfig{Level: "debug", Format: "console"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := config.LoggingConfig{Level: "trace", Format: "json"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "xml"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_AllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := config.LoggingConfig{Level: level, Format: "json"}
		logger, err := NewLogger(cfg)
		require.NoError(t, err, "level %q should be valid", level)
		assert.NotNil(t, logger)
	}
}

func TestNewLogger_OutputPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companion.log")
	cfg := config.LoggingConfig{Level: "info", Format: "json", OutputPaths: []string{path}}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	logger.Info("hello from the log file test")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the log file test")
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	cfg := config.LoggingConfig{
		Level: "info", Format: "json",
		OutputPaths: []string{filepath.Join(t.TempDir(), "missing", "nested", "companion.log")},
	}
	_, err := NewLogger(cfg)
	assert.Error(t, err, "unwritable sink should fail construction")
}
