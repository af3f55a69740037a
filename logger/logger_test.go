package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{5, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Debug (-vv)", LevelName(3))
}

func TestFieldsFromContext(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, FieldsFromContext(context.Background()))
	})

	t.Run("run and reference", func(t *testing.T) {
		ctx := WithRefID(WithRunID(context.Background(), "run-1"), 42)
		assert.Equal(t, []interface{}{FieldRunID, "run-1", FieldRefID, int64(42)}, FieldsFromContext(ctx))
	})

	t.Run("zero reference is omitted", func(t *testing.T) {
		ctx := WithRefID(context.Background(), 0)
		assert.Empty(t, FieldsFromContext(ctx))
	})
}

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { _ = Initialize(false, 0) })

	require.NoError(t, Initialize(true, 1))
	assert.True(t, JSONOutput)
	assert.NotNil(t, Logger)

	require.NoError(t, Initialize(false, 2))
	assert.False(t, JSONOutput)
	assert.NotNil(t, FromContext(context.Background(), nil))
}
