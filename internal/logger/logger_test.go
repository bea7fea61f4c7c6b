package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New("test", "debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, l.Level())

	require.NoError(t, l.ChangeLevel("warn"))
	assert.Equal(t, zapcore.WarnLevel, l.Level())
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	require.NoError(t, l.ChangeLevel(""))
	assert.Equal(t, zapcore.InfoLevel, l.Level())
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New("test", "verbose")
	assert.Error(t, err)
}
