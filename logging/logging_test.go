package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("JSON at debug level", func(t *testing.T) {
		logger, err := New("debug", "json")
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("Console at warn level", func(t *testing.T) {
		logger, err := New("warn", "console")
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("Unknown level", func(t *testing.T) {
		_, err := New("loud", "json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse log level")
	})
}
