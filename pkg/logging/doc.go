// Package logging provides structured logging utilities for appbundler components.
//
// # Overview
//
// This package wraps the standard library slog package with appbundler-specific defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON (or text, via SetDefaultLogger) logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultLogger(logging.FormatJSON, "appbundler", "v1.0.0", "")
//
//	    // Use slog as normal
//	    slog.Info("rendering manifest", "document_types", 2)
//	    slog.Debug("resolved classpath", "jars", jars)
//	    slog.Error("operation failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewLogger(os.Stderr, logging.FormatText, "appbundler", "v2.0.0", "debug")
//	logger.Info("bundle starting", "config", "app.hcl")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug appbundler bundle --config app.hcl
//	LOG_LEVEL=error appbundler render --config app.hcl
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// Logs are written to stderr, in JSON unless --log-format text is given:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "bundle generated",
//	    "module": "appbundler",
//	    "version": "v1.0.0",
//	    "files": 12
//	}
//
// Debug logs include source location:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "DEBUG",
//	    "source": {
//	        "function": "bundler.(*DefaultBundler).Make",
//	        "file": "bundler.go",
//	        "line": 45
//	    },
//	    "msg": "rendering manifest",
//	    "module": "appbundler",
//	    "version": "v1.0.0"
//	}
//
// # Best Practices
//
// 1. Set default logger early in main():
//
//	func main() {
//	    logging.SetDefaultLogger(logging.FormatJSON, "myapp", version, "")
//	    // ...
//	}
//
// 2. Include context in log messages:
//
//	slog.Info("bundle generated",
//	    "bundle", "Demo.app",
//	    "config", "app.hcl",
//	    "duration_ms", 125,
//	)
//
// 3. Use appropriate log levels:
//
//	slog.Debug("copied jar", "path", p)     // Development/troubleshooting
//	slog.Info("bundle generated")          // Normal operations
//	slog.Warn("overwriting bundle")        // Potential issues
//	slog.Error("validation failed")        // Errors requiring action
//
// 4. Log errors with context:
//
//	slog.Error("failed to copy resource",
//	    "error", err,
//	    "run_id", runID,
//	    "path", src,
//	)
//
// # Integration
//
// This package is used by:
//   - pkg/cli - CLI command logging (--log-level, --log-format)
//   - pkg/bundler - Bundle assembly logging
//   - pkg/resource - Resource copy logging
//   - pkg/watcher - Watch mode logging
//
// All components share consistent logging format and configuration.
package logging
