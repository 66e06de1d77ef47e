// Package logging provides structured logging for the SSDP discovery tool.
//
// This package wraps zap with convenience functions for the logging
// patterns used across the tool, including helpers for dumping raw UDP
// datagrams when diagnosing non-conformant devices.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (probe sends, datagram dumps, parse diagnostics)
//   - Info: Normal operations (session start/end, services discovered)
//   - Warn: Non-fatal issues (failed sends, skipped rounds)
//   - Error: Fatal issues (socket setup failures)
//
// # Silent by Default
//
// The CLI keeps its stdout clean for result output. Logging is therefore
// disabled unless SSDP_DISCOVER_LOG_LEVEL is set or the `-v` flag maps it
// to debug level, and all log output goes to stderr:
//
//	SSDP_DISCOVER_LOG_LEVEL=debug net-ssdp-discover --st ssdp:all
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Debug("service discovered",
//	    zap.String("usn", rec.USN),
//	    zap.String("location", rec.Location),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
