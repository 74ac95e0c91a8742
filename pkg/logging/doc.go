// Package logging provides a structured logging system for easel with
// unified log handling across all three execution contexts.
//
// This package implements a logging system built on Go's standard slog
// package, providing consistent logging behavior with structured output
// and level filtering.
//
// # Log Levels
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// # Structured Logging
//
// All log entries include a timestamp, the log level, a subsystem
// identifier for categorization, the message content and optional error
// information.
//
// # Usage
//
//	import "easel/pkg/logging"
//
//	// Initialize with Info level logging to stderr
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Debug("Detector", "Classified context as %s", ctx)
//	logging.Error("DataManager", err, "Failed to load %s", path)
//
// # Stream Mode
//
// The server execution context can switch the logger into stream mode
// with InitForStream, which delivers LogEntry values over a channel so
// the transport layer can forward diagnostics to connected clients. The
// headless and virtual contexts use CLI mode.
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering:
//
//   - **Bootstrap**: Application initialization and startup
//   - **Detector**: Execution context classification
//   - **Service**: Service lifecycle and component handling
//   - **StateStore**: Component state reads and writes
//   - **DataManager**: Data source configuration loading
//   - **ConfigLoader**: Runtime configuration loading
//
// # Thread Safety
//
// The logging system is safe for concurrent use from multiple
// goroutines.
package logging
