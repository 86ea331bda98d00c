package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Level: "loud"})
	require.Error(t, err)

	logger := NewOrNop(Config{Level: "loud"})
	require.NotNil(t, logger)
	logger.Info("discarded")
}

func TestNew_LevelFilters(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "log.jsonl")
	logger, err := New(Config{Level: "warn", OutputPaths: []string{out}})
	require.NoError(t, err)

	logger.Named("fsops").Info("hidden")
	logger.Named("fsops").Warn("shown")
	logger.Sync()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"msg":"shown"`)
	assert.Contains(t, string(data), `"logger":"fsops"`)
}

func TestConfigs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"stderr"}, DefaultConfig().OutputPaths)
	assert.False(t, DefaultConfig().Development)
	assert.True(t, DevelopmentConfig().Development)

	level, err := parseLevel(DevelopmentConfig().Level)
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	assert.Equal(t, "console", encodingFormat(true))
	assert.Equal(t, "json", encodingFormat(false))
}
