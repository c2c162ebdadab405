package logging

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuffer_CapturesEntriesAboveLevel(t *testing.T) {
	buf := NewBuffer(10)
	log := zap.New(buf.Core(zapcore.InfoLevel))

	log.Debug("hidden")
	log.Info("visible", zap.String("udid", "abc"))
	log.Warn("warned", zap.Int("count", 2))

	entries := buf.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "visible", entries[0].Message)
	assert.Equal(t, "udid=abc", entries[0].Fields)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "count=2", entries[1].Fields)
}

func TestBuffer_WrapsOldestFirst(t *testing.T) {
	buf := NewBuffer(3)
	log := zap.New(buf.Core(zapcore.DebugLevel))

	for _, msg := range []string{"one", "two", "three", "four", "five"} {
		log.Info(msg)
	}

	entries := buf.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, 3, buf.Len())
	assert.Equal(t, "three", entries[0].Message)
	assert.Equal(t, "four", entries[1].Message)
	assert.Equal(t, "five", entries[2].Message)
}

func TestBuffer_WithFields(t *testing.T) {
	buf := NewBuffer(0)
	log := zap.New(buf.Core(zapcore.InfoLevel)).With(zap.String("component", "worker"))

	log.Info("started", zap.String("b", "2"))

	entries := buf.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "b=2 component=worker", entries[0].Fields)
	assert.True(t, strings.Contains(entries[0].String(), "INFO"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
		ok    bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"info", zapcore.InfoLevel, true},
		{"warn", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"verbose", zapcore.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseLevel(%q) = %v, %v, want %v, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestInitializeWithOptions_BufferOnly(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	buf := NewBuffer(5)

	err := InitializeWithOptions(Options{Buffer: buf, BufferLevel: zapcore.WarnLevel})
	require.NoError(t, err)
	defer Initialize("")

	Info("not captured")
	Warn("captured")

	entries := buf.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "captured", entries[0].Message)
}

func TestInitializeWithOptions_ReportsCallSite(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	buf := NewBuffer(5)

	require.NoError(t, InitializeWithOptions(Options{Buffer: buf, BufferLevel: zapcore.InfoLevel}))
	defer Initialize("")

	Info("from test")
	LogDeviceEvent("abc", "ignored below info")

	entries := buf.Entries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Caller, "buffer_test.go")
	assert.NotContains(t, entries[0].Caller, "logger.go")
}

func TestInitializeWithOptions_CapturesLogrus(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	buf := NewBuffer(5)

	require.NoError(t, InitializeWithOptions(Options{Buffer: buf, BufferLevel: zapcore.InfoLevel}))
	defer Initialize("")

	logrus.WithField("udid", "abc").Warn("lockdown session failed")
	logrus.Debug("below level")

	entries := buf.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "lockdown session failed", entries[0].Message)
	assert.Equal(t, "source=go-ios udid=abc", entries[0].Fields)
}
