package clipboard

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	sysclip "github.com/atotto/clipboard"
)

// Separator is the line written before every file section.
const Separator = "----------------"

// textProbeSize is how many leading bytes are inspected for null bytes
// when deciding whether a file is text.
const textProbeSize = 1024

// Exporter builds the directory snapshot and writes it to the clipboard.
type Exporter struct {
	// writeClipboard transfers the final text to the system clipboard.
	// Injected for tests, which have no clipboard to write to.
	writeClipboard func(string) error

	// maxFileSize skips files larger than this many bytes.
	// Zero means no limit.
	maxFileSize int64

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets a custom logger for the exporter.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithMaxFileSize skips files larger than size bytes. Zero disables the
// limit.
func WithMaxFileSize(size int64) Option {
	return func(e *Exporter) {
		e.maxFileSize = size
	}
}

// WithWriteFunc overrides the clipboard write function.
func WithWriteFunc(write func(string) error) Option {
	return func(e *Exporter) {
		e.writeClipboard = write
	}
}

// New creates an Exporter with the given options.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		writeClipboard: sysclip.WriteAll,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Export builds the snapshot of root and writes it to the clipboard.
// It returns the number of bytes placed on the clipboard.
func (e *Exporter) Export(ctx context.Context, root string) (int, error) {
	text, err := e.Snapshot(ctx, root)
	if err != nil {
		return 0, err
	}

	if err := e.writeClipboard(text); err != nil {
		return 0, fmt.Errorf("failed to write clipboard: %w", err)
	}

	e.logger.Debug("copied directory snapshot to clipboard",
		"root", root,
		"bytes", len(text),
	)
	return len(text), nil
}

// Snapshot concatenates every readable text file under root.
//
// Each file contributes a separator line, a relative-path header, the raw
// content, and trailing blank-line padding: one blank line when the
// content already ends in a newline, two otherwise. The result always
// ends with a newline.
func (e *Exporter) Snapshot(ctx context.Context, root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("failed to access %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", root)
	}

	var sb strings.Builder

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			return nil
		}

		if e.maxFileSize > 0 {
			fi, err := d.Info()
			if err == nil && fi.Size() > e.maxFileSize {
				e.logger.Debug("skipping oversized file", "path", path, "size", fi.Size())
				return nil
			}
		}

		data, err := os.ReadFile(path) //nolint:gosec // Paths come from walking the user-provided root
		if err != nil {
			// Unreadable files are skipped, same as any other non-text file.
			e.logger.Debug("skipping unreadable file", "path", path, "error", err)
			return nil
		}
		if !isText(data) {
			e.logger.Debug("skipping binary file", "path", path)
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		appendFile(&sb, rel, string(data))
		return nil
	})
	if err != nil {
		return "", err
	}

	text := sb.String()
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text, nil
}

// appendFile writes one file section into the accumulator.
func appendFile(sb *strings.Builder, rel, content string) {
	sb.WriteString(Separator)
	sb.WriteString("\n")
	sb.WriteString(rel)
	sb.WriteString(":\n")
	sb.WriteString(content)

	switch {
	case content == "":
		sb.WriteString("\n\n")
	case strings.HasSuffix(content, "\n"):
		sb.WriteString("\n")
	default:
		sb.WriteString("\n\n\n")
	}
}

// isText reports whether the data looks like text.
// An empty file counts as text; otherwise the first kilobyte is probed
// for null bytes.
func isText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	probe := data
	if len(probe) > textProbeSize {
		probe = probe[:textProbeSize]
	}
	return !bytes.ContainsRune(probe, 0)
}
