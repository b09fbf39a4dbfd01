package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Akshu121796/Personalized-Recommendation-System/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{logger: zerolog.New(&buf).Level(zerolog.DebugLevel)}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.Contains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestLogger_LogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{logger: zerolog.New(&buf).Level(zerolog.WarnLevel)}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	logger, err := NewLogger(&config.LoggingConfig{
		Level:       "info",
		Format:      "console",
		ServiceName: "test-service",
	})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_InvalidLogLevel(t *testing.T) {
	logger, err := NewLogger(&config.LoggingConfig{
		Level:  "invalid-level",
		Format: "console",
	})
	assert.Error(t, err)
	assert.Nil(t, logger)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	logger, err := NewLogger(&config.LoggingConfig{Format: "xml"})
	assert.Error(t, err)
	assert.Nil(t, logger)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestNewLogger_FileLogging(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	logger, err := NewLogger(&config.LoggingConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "test-service",
		Dir:         logDir,
	})
	require.NoError(t, err)

	logger.Info("test log message")

	assert.DirExists(t, logDir)
	files, err := filepath.Glob(filepath.Join(logDir, "test-service-*.log"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "No log files found")

	content, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "test log message")
	assert.Contains(t, string(content), `"service":"test-service"`)
	assert.Contains(t, string(content), `"level":"info"`)
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel, "svc")

	logger.WithComponent("test-component").Info("component message")

	output := buf.String()
	assert.Contains(t, output, "component message")
	assert.Contains(t, output, `"component":"test-component"`)
	assert.Contains(t, output, `"service":"svc"`)
	assert.Contains(t, output, `"time":"`)
}

func TestLogger_WithField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.DebugLevel, "svc").WithField("strategy", "similar")

	logger.Debug("ranked")

	assert.Contains(t, buf.String(), `"strategy":"similar"`)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().WithComponent("x").Error("dropped")
	})
}
