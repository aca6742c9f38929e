package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/lintsweep/internal/model"
)

// sampleReport builds a report exercising all section states: output,
// findings, missing tool, skip, and clean.
func sampleReport() *model.RunReport {
	report := model.NewRunReport("/tmp/project", []string{"venv"})
	report.DateRun = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	report.AddResult(&model.CheckResult{
		Tool:      "flake8",
		Available: true,
		ExitCode:  1,
		Output:    "app.py:10:80: E501 line too long\n",
	})
	report.AddResult(&model.CheckResult{
		Tool: "isort",
	})
	report.AddResult(&model.CheckResult{
		Tool:      "jscpd",
		Available: true,
		Skipped:   true,
	})

	unicodeFinding := model.NewFinding("unicode_punctuation",
		"Non-ASCII punctuation", "U+2014 EM DASH")
	unicodeFinding.File = "a.py"
	unicodeFinding.Line = 3
	unicodeFinding.Text = "result = 1 — 2"
	unicodeFinding.Value = "U+2014"
	report.AddResult(&model.CheckResult{
		Tool:      "unicode-scan",
		Available: true,
		Findings:  []model.Finding{unicodeFinding},
	})

	report.AddResult(&model.CheckResult{
		Tool:      "vulture",
		Available: true,
	})

	report.Summary = model.NewSummary(report)
	return report
}

// TestConsoleWriter_Write verifies all section states render.
func TestConsoleWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewConsoleWriter(&buf, WithNoColor(true))

	n, err := w.Write(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	if n != buf.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"LINTSWEEP REPORT",
		"Target:   /tmp/project",
		"Excludes: venv",
		"=== flake8 ===",
		"app.py:10:80: E501 line too long",
		"=== isort ===",
		"isort not found, skipping",
		"=== jscpd ===",
		"skipped by configuration",
		"=== vulture ===",
		"no issues found",
		"SUMMARY",
		"Missing tools:    isort",
		"Skipped checks:   jscpd",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestConsoleWriter_UnicodeFindingFormat verifies the exact line format
// for a unicode finding: path, 1-based line, full text, and code point.
func TestConsoleWriter_UnicodeFindingFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewConsoleWriter(&buf, WithNoColor(true))

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatal(err)
	}

	if want := "a.py:3 → result = 1 — 2 (U+2014)"; !strings.Contains(buf.String(), want) {
		t.Errorf("output missing %q in:\n%s", want, buf.String())
	}
}

// TestConsoleWriter_NoEscapesOffTerminal verifies that buffers and
// regular files never receive escape sequences, with or without the
// no-color option.
func TestConsoleWriter_NoEscapesOffTerminal(t *testing.T) {
	t.Parallel()

	t.Run("buffer with default options", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewConsoleWriter(&buf).Write(sampleReport()); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(buf.String(), "\x1b[") {
			t.Error("expected no escape sequences when writing to a buffer")
		}
	})

	t.Run("regular file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "report.txt")
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := NewConsoleWriter(f).Write(sampleReport()); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if bytes.Contains(data, []byte("\x1b[")) {
			t.Error("expected no escape sequences in file output")
		}
	})

	t.Run("no-color option", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewConsoleWriter(&buf, WithNoColor(true)).Write(sampleReport()); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(buf.String(), "\x1b[") {
			t.Error("expected no escape sequences with color disabled")
		}
	})
}

// TestConsoleWriter_Verbose verifies rune names appear in verbose mode.
func TestConsoleWriter_Verbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewConsoleWriter(&buf, WithNoColor(true), WithVerbose(true))

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "U+2014 EM DASH") {
		t.Error("expected rune name in verbose output")
	}
}

// TestFormatFinding verifies the line formats for each finding shape.
func TestFormatFinding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		finding model.Finding
		want    string
	}{
		{
			name: "line scoped with value",
			finding: model.Finding{
				File: "a.py", Line: 3, Text: "result = 1 — 2", Value: "U+2014",
			},
			want: "a.py:3 → result = 1 — 2 (U+2014)",
		},
		{
			name: "line scoped without value",
			finding: model.Finding{
				File: "a.py", Line: 7, Text: "x = 1 ", Title: "Trailing whitespace",
			},
			want: "a.py:7 → x = 1  [Trailing whitespace]",
		},
		{
			name: "line only",
			finding: model.Finding{
				File: "a.py", Line: 2, Title: "Whitespace on blank line",
			},
			want: "a.py:2: Whitespace on blank line",
		},
		{
			name:    "file only",
			finding: model.Finding{File: "a.py", Title: "Something"},
			want:    "a.py: Something",
		},
		{
			name:    "bare title",
			finding: model.Finding{Title: "Something"},
			want:    "Something",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatFinding(tt.finding); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestJSONWriter_Write verifies the report round-trips through JSON.
func TestJSONWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf, WithPrettyPrint())

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatal(err)
	}

	var decoded model.RunReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if decoded.TargetDir != "/tmp/project" {
		t.Errorf("unexpected target: %s", decoded.TargetDir)
	}
	if len(decoded.Results) != 5 {
		t.Errorf("expected 5 results, got %d", len(decoded.Results))
	}
	if decoded.Summary == nil {
		t.Error("expected summary in JSON output")
	}
}

// TestJSONWriter_Compact verifies compact output is a single line.
func TestJSONWriter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf).Write(sampleReport()); err != nil {
		t.Fatal(err)
	}

	if got := strings.Count(strings.TrimRight(buf.String(), "\n"), "\n"); got != 0 {
		t.Errorf("expected single-line JSON, got %d extra newlines", got)
	}
}

// TestMarkdownWriter_Write verifies the markdown structure.
func TestMarkdownWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(sampleReport()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Lintsweep Report",
		"## Summary",
		"## Checks",
		"### flake8",
		"### unicode-scan",
		"a.py:3 → result = 1 — 2 (U+2014)",
		"Not found on PATH; skipped.",
		"Skipped by configuration.",
		"No issues found.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

// errWriter always fails, for MultiWriter error propagation tests.
type errWriter struct{}

func (errWriter) Write(*model.RunReport) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter verifies fan-out and error propagation.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(
			NewConsoleWriter(&a, WithNoColor(true)),
			NewJSONWriter(&b),
		)

		if _, err := mw.Write(sampleReport()); err != nil {
			t.Fatal(err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		mw := NewMultiWriter(errWriter{}, NewJSONWriter(&after))

		if _, err := mw.Write(sampleReport()); err == nil {
			t.Fatal("expected error")
		}
		if after.Len() != 0 {
			t.Error("expected no write after failure")
		}
	})
}
