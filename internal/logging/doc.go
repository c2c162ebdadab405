// Package logging provides structured logging for IORegistry Explorer.
//
// This package wraps a global zap logger with convenience functions used by
// the device clients, the command worker and the CLI.
//
// # Log Levels
//
//   - Debug: Device events and go-ios protocol detail
//   - Info: Normal operations (enumeration results, exports)
//   - Warn: Per-device and per-query failures that the worker absorbs
//   - Error: Failures that end a CLI command
//
// # Configuration
//
// Logging is silent unless a level is given, either via --log-level or the
// IOREG_EXPLORER_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// The TUI owns the terminal, so it initializes logging with a file sink and a
// Buffer. The Buffer always captures entries (info and above by default) and
// backs the in-app logs pane:
//
//	buf := logging.NewBuffer(0)
//	logging.InitializeWithOptions(logging.Options{
//	    OutputPaths: []string{logFile},
//	    Buffer:      buf,
//	    BufferLevel: zapcore.InfoLevel,
//	})
//
// go-ios logs through the logrus standard logger. Every Initialize call
// redirects logrus into the zap logger, so its entries land in the same sinks
// and the Buffer, tagged source=go-ios.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
