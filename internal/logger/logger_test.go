package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "debug", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	require.NotNil(t, l)
	l.With(String("component", "test")).Debug("hello")
}

func TestNew_BadOutputPath(t *testing.T) {
	_, err := New(Config{OutputPaths: []string{"/nonexistent-dir/sub/log.json"}})
	assert.Error(t, err)
}

func TestFromZap_WithFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := FromZap(zap.New(core)).With(String("request_id", "abc"))

	l.Debug("dropped")
	l.Warn("activity write failed", Int64("application_id", 7), Error(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "activity write failed", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.Equal(t, int64(7), fields["application_id"])
	assert.Equal(t, "boom", fields["error"])
}

func TestContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := FromZap(zap.New(core))

	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info("scoped")
	assert.Equal(t, 1, logs.Len())

	// No logger in context falls back to a shared instance
	fallback := FromContext(context.Background())
	require.NotNil(t, fallback)
	assert.Same(t, fallback, FromContext(context.Background()))
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.With(String("k", "v")).Error("ignored")
	assert.NoError(t, l.Sync())
}
