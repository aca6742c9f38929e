package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// TidyHandler wraps an slog.Handler and rewrites string attribute values
// that start with the user's home directory to use "~" instead.
// Check runs log many absolute paths (targets, config files, tool
// binaries); shortening them keeps diagnostics shareable in bug reports
// without exposing local account names.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components that accept *slog.Logger need no changes
type TidyHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// home is the user's home directory; empty disables rewriting.
	home string
}

// NewTidyHandler creates a TidyHandler wrapping the given handler.
// If handler is nil, the returned TidyHandler uses slog.Default().Handler().
func NewTidyHandler(handler slog.Handler) *TidyHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &TidyHandler{handler: handler, home: home}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TidyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it to the underlying handler.
func (h *TidyHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.tidyAttr(a))
		return true
	})

	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are rewritten before being added.
func (h *TidyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	tidied := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		tidied[i] = h.tidyAttr(a)
	}
	return &TidyHandler{handler: h.handler.WithAttrs(tidied), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *TidyHandler) WithGroup(name string) slog.Handler {
	return &TidyHandler{handler: h.handler.WithGroup(name), home: h.home}
}

// tidyAttr rewrites a single attribute, recursively handling groups.
func (h *TidyHandler) tidyAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		tidied := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			tidied[i] = h.tidyAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(tidied...)}
	}

	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, h.shorten(a.Value.String()))
	}

	return a
}

// shorten replaces a leading home directory prefix with "~".
// Only whole path components match: "/home/user" rewrites, "/home/username2"
// does not rewrite when home is "/home/user".
func (h *TidyHandler) shorten(value string) string {
	if h.home == "" || !strings.HasPrefix(value, h.home) {
		return value
	}
	rest := value[len(h.home):]
	if rest != "" && rest[0] != '/' && rest[0] != '\\' {
		return value
	}
	return "~" + rest
}

// NewLogger creates a new slog.Logger with path tidying.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewTidyHandler(textHandler))
}
