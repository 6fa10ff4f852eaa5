package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/limaJavier/coursetable/pkg/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("Console format", func(t *testing.T) {
		logger, err := NewLogger(&config.LogConfig{Level: "debug", Format: "console"})

		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("JSON format", func(t *testing.T) {
		logger, err := NewLogger(&config.LogConfig{Level: "warn", Format: "json"})

		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("Invalid level", func(t *testing.T) {
		_, err := NewLogger(&config.LogConfig{Level: "loud", Format: "json"})

		assert.Error(t, err)
	})
}
