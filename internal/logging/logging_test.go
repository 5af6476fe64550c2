package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factorydash.log")

	logger, err := NewFile(true, path)
	require.NoError(t, err)

	logger.Debug("debug line", zap.String("view", "home"))
	logger.Info("info line")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "debug line", entry["msg"])
	assert.Equal(t, "home", entry["view"])
}

func TestNewFile_InfoLevelDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factorydash.log")

	logger, err := NewFile(false, path)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewFile_EmptyPathIsNop(t *testing.T) {
	logger, err := NewFile(true, "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	logger.Info("goes nowhere")
}

func TestNew(t *testing.T) {
	logger, err := New(false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
