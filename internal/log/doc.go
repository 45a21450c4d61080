// Package log provides logging functionality with automatic redaction of
// credentials, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic redaction of sensitive values (cookies, tokens, secrets)
//   - Scrubbing of passwords embedded in logged URLs
//   - Configurable log levels with verbose mode support
//
// # Why redaction matters here
//
// Site configurations may carry authentication cookies and headers for
// wikis that gate content, and those values flow through debug logging of
// per-request state. The RedactHandler masks them before any record
// reaches the underlying handler, so verbose crawl logs stay safe to
// share when diagnosing an archive run.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Info("applying site config",
//	    "cookie", "session=abc123", // masked in output
//	    "host", "example.fandom.com",
//	)
//	slog.SetDefault(logger)
package log
