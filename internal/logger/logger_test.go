package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Run("Should parse known levels", func(t *testing.T) {
		cases := map[string]zapcore.Level{
			"debug":   zapcore.DebugLevel,
			"":        zapcore.InfoLevel,
			"INFO":    zapcore.InfoLevel,
			"warning": zapcore.WarnLevel,
			"error":   zapcore.ErrorLevel,
		}
		for in, want := range cases {
			got, err := ParseLevel(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got, in)
		}
	})
	t.Run("Should reject unknown levels", func(t *testing.T) {
		_, err := ParseLevel("verbose")
		assert.Error(t, err)
	})
}

func TestNewZapLogger(t *testing.T) {
	log, err := NewZapLogger(zapcore.WarnLevel)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}
