// Package log provides structured logging helpers for lintsweep.
// It wraps log/slog with a handler that shortens absolute paths under the
// user's home directory so that logs and reports can be shared without
// leaking local account names.
package log
