package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// newTestHandler returns a TidyHandler writing to buf with a fixed home
// directory, so tests do not depend on the environment.
func newTestHandler(buf *bytes.Buffer, home string) *TidyHandler {
	h := NewTidyHandler(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h.home = home
	return h
}

// TestTidyHandler_ShortensHomePaths tests the home directory rewrite.
func TestTidyHandler_ShortensHomePaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "path under home is shortened",
			value: "/home/user/src/project",
			want:  "~/src/project",
		},
		{
			name:  "home itself is shortened",
			value: "/home/user",
			want:  "~",
		},
		{
			name:  "sibling account is untouched",
			value: "/home/username2/src",
			want:  "/home/username2/src",
		},
		{
			name:  "unrelated path is untouched",
			value: "/tmp/scratch",
			want:  "/tmp/scratch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			h := newTestHandler(&buf, "/home/user")
			logger := slog.New(h)

			logger.Info("checking", "dir", tt.value)

			if !strings.Contains(buf.String(), "dir="+tt.want) {
				t.Errorf("expected output to contain dir=%s, got: %s", tt.want, buf.String())
			}
		})
	}
}

// TestTidyHandler_GroupAttrs tests that grouped attributes are rewritten.
func TestTidyHandler_GroupAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newTestHandler(&buf, "/home/user")
	logger := slog.New(h)

	logger.Info("run",
		slog.Group("paths",
			slog.String("target", "/home/user/src"),
			slog.String("config", "/etc/lintsweep.yaml"),
		),
	)

	out := buf.String()
	if !strings.Contains(out, "target=~/src") {
		t.Errorf("expected group attribute to be shortened, got: %s", out)
	}
	if !strings.Contains(out, "config=/etc/lintsweep.yaml") {
		t.Errorf("expected unrelated path untouched, got: %s", out)
	}
}

// TestTidyHandler_NonStringAttrs tests that non-string values pass through.
func TestTidyHandler_NonStringAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newTestHandler(&buf, "/home/user")
	logger := slog.New(h)

	logger.Info("finished", "checks", 9, "failed", false)

	out := buf.String()
	if !strings.Contains(out, "checks=9") || !strings.Contains(out, "failed=false") {
		t.Errorf("expected numeric and bool attrs unchanged, got: %s", out)
	}
}

// TestTidyHandler_WithAttrs tests attrs added via With are rewritten.
func TestTidyHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newTestHandler(&buf, "/home/user")
	logger := slog.New(h).With("target", "/home/user/proj")

	logger.Warn("something")

	if !strings.Contains(buf.String(), "target=~/proj") {
		t.Errorf("expected With attr to be shortened, got: %s", buf.String())
	}
}

// TestTidyHandler_EmptyHomeDisablesRewrite verifies behavior when the home
// directory cannot be determined.
func TestTidyHandler_EmptyHomeDisablesRewrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newTestHandler(&buf, "")
	logger := slog.New(h)

	logger.Info("checking", "dir", "/home/user/src")

	if !strings.Contains(buf.String(), "dir=/home/user/src") {
		t.Errorf("expected value unchanged, got: %s", buf.String())
	}
}

// TestNewLogger verifies level selection.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses info", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, false)
		logger.Info("hidden")
		if buf.Len() != 0 {
			t.Errorf("expected info suppressed, got: %s", buf.String())
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, true)
		logger.Debug("visible")
		if buf.Len() == 0 {
			t.Error("expected debug output in verbose mode")
		}
	})

	t.Run("handler reports enabled levels", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, false)
		if logger.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("expected debug disabled without verbose")
		}
		if !logger.Enabled(context.Background(), slog.LevelWarn) {
			t.Error("expected warn enabled")
		}
	})
}
