package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "IOREG_EXPLORER_LOG_LEVEL"

// Options controls where log entries are written.
type Options struct {
	// Level is the minimum level for OutputPaths. Empty falls back to
	// LogLevelEnvVar; if that is empty too, OutputPaths are not used.
	Level string

	// OutputPaths are zap sink URLs ("stdout", "stderr" or file paths).
	// Defaults to stdout.
	OutputPaths []string

	// Buffer, when set, receives every entry at BufferLevel or above
	// regardless of Level. The TUI logs pane reads from it.
	Buffer      *Buffer
	BufferLevel zapcore.Level
}

// Initialize creates a new stdout logger with the specified level.
// If level is empty, it checks IOREG_EXPLORER_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	return InitializeWithOptions(Options{Level: level})
}

// InitializeFromEnv initializes the logger from the IOREG_EXPLORER_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// InitializeWithOptions builds the global logger from opts.
func InitializeWithOptions(opts Options) error {
	level := opts.Level
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	var cores []zapcore.Core

	if level != "" {
		zapLevel, _ := ParseLevel(level)

		paths := opts.OutputPaths
		if len(paths) == 0 {
			paths = []string{"stdout"}
		}

		config := zap.Config{
			Level:            zap.NewAtomicLevelAt(zapLevel),
			Development:      false,
			Encoding:         "console",
			EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
			OutputPaths:      paths,
			ErrorOutputPaths: []string{"stderr"},
		}

		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		if isTerminalSink(paths) {
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}

		built, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cores = append(cores, built.Core())
	}

	if opts.Buffer != nil {
		cores = append(cores, opts.Buffer.Core(opts.BufferLevel))
	}

	// Skip the package-level wrappers so entries report the real call site.
	switch len(cores) {
	case 0:
		logger = zap.NewNop()
	case 1:
		logger = zap.New(cores[0], zap.AddCaller(), zap.AddCallerSkip(1))
	default:
		logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	}

	captureLogrus()
	return nil
}

// ParseLevel maps a level name to a zap level. Unknown names map to info
// and report false.
func ParseLevel(level string) (zapcore.Level, bool) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

func isTerminalSink(paths []string) bool {
	for _, p := range paths {
		if p != "stdout" && p != "stderr" {
			return false
		}
	}
	return true
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogDeviceEvent logs a per-device connection event
func LogDeviceEvent(udid string, event string) {
	GetLogger().Debug("Device event",
		zap.String("udid", udid),
		zap.String("event", event),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
