package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/lintsweep/internal/check"
	"github.com/nao1215/lintsweep/internal/config"
	"github.com/nao1215/lintsweep/internal/model"
	"github.com/nao1215/lintsweep/internal/runner"
)

// missingToolRunner returns a runner whose PATH lookup always fails,
// simulating a machine with none of the analysis tools installed.
func missingToolRunner(dir string) *runner.Runner {
	return runner.New(dir, runner.WithLookPath(func(string) (string, error) {
		return "", errors.New("not found")
	}))
}

// testConfig returns a config pointed at a fresh temp target.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.NewConfig()
	cfg.TargetDir = t.TempDir()
	return cfg
}

// TestToolSteps_MissingToolsNeverFail verifies the core contract: a
// missing external tool records Available=false and the run continues
// with exit-worthy errors absent.
func TestToolSteps_MissingToolsNeverFail(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	r := missingToolRunner(cfg.TargetDir)

	steps := []Step{
		NewFlake8Step(r, cfg),
		NewIsortStep(r, cfg),
		NewJSCPDStep(r, cfg),
		NewPylintStep(r, cfg),
		NewLizardStep(r, cfg),
		NewVultureStep(r, cfg),
		NewRadonStep(r, cfg),
	}

	report := model.NewRunReport(cfg.TargetDir, nil)
	for _, step := range steps {
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("step %s returned error for missing tool: %v", step.Name(), err)
		}
	}

	if len(report.Results) != len(steps) {
		t.Fatalf("expected %d results, got %d", len(steps), len(report.Results))
	}
	for _, result := range report.Results {
		if result.Available {
			t.Errorf("expected %s to be recorded as unavailable", result.Tool)
		}
	}
}

// TestToolSteps_DebugLogging verifies every tool step reports its
// outcome through the configured step logger.
func TestToolSteps_DebugLogging(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	r := missingToolRunner(cfg.TargetDir)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	steps := []Step{
		NewFlake8Step(r, cfg, WithStepLogger(logger)),
		NewJSCPDStep(r, cfg, WithStepLogger(logger)),
		NewPylintStep(r, cfg, WithStepLogger(logger)),
		NewLizardStep(r, cfg, WithStepLogger(logger)),
		NewVultureStep(r, cfg, WithStepLogger(logger)),
		NewRadonStep(r, cfg, WithStepLogger(logger)),
	}

	report := model.NewRunReport(cfg.TargetDir, nil)
	for _, step := range steps {
		buf.Reset()
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("step %s returned error: %v", step.Name(), err)
		}
		if !strings.Contains(buf.String(), "tool step finished") {
			t.Errorf("step %s logged nothing at debug level", step.Name())
		}
		if !strings.Contains(buf.String(), "tool="+step.Name()) {
			t.Errorf("step %s log missing tool attribute:\n%s", step.Name(), buf.String())
		}
	}
}

// TestCheckStep_RunsBuiltInCheck verifies a built-in check produces a
// result with structured findings through the shared corpus.
func TestCheckStep_RunsBuiltInCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1 — 2\n"), 0600); err != nil {
		t.Fatal(err)
	}

	loader := NewCorpusLoader(dir, check.LoadOptions{Extensions: []string{".py"}})
	step := NewCheckStep(check.NewUnicodeCheck(), loader)

	if step.Name() != "unicode-scan" {
		t.Errorf("unexpected step name: %s", step.Name())
	}

	report := model.NewRunReport(dir, nil)
	if err := step.Do(context.Background(), report); err != nil {
		t.Fatal(err)
	}

	result := report.ResultFor("unicode-scan")
	if result == nil {
		t.Fatal("expected a unicode-scan result")
	}
	if !result.Available {
		t.Error("built-in checks must always be available")
	}
	if len(result.Findings) != 1 {
		t.Errorf("expected 1 finding, got %d", len(result.Findings))
	}
}

// TestCorpusLoader_LoadsOnce verifies the corpus is shared between calls.
func TestCorpusLoader_LoadsOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	loader := NewCorpusLoader(dir, check.LoadOptions{Extensions: []string{".py"}})

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected the same corpus instance on repeated loads")
	}
}

// TestSkipStep verifies skipped checks are recorded without running.
func TestSkipStep(t *testing.T) {
	t.Parallel()

	report := model.NewRunReport(t.TempDir(), nil)
	step := NewSkipStep("pylint")

	if err := step.Do(context.Background(), report); err != nil {
		t.Fatal(err)
	}

	result := report.ResultFor("pylint")
	if result == nil || !result.Skipped {
		t.Errorf("expected a skipped pylint result, got %+v", result)
	}
}

// TestCheckEnabled verifies the --skip/--only filter semantics.
func TestCheckEnabled(t *testing.T) {
	t.Parallel()

	t.Run("no filters enables everything", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		if !checkEnabled(cfg, "flake8") {
			t.Error("expected flake8 enabled")
		}
	})

	t.Run("skip disables the named check", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Skip = []string{"pylint"}
		if checkEnabled(cfg, "pylint") {
			t.Error("expected pylint disabled")
		}
		if !checkEnabled(cfg, "flake8") {
			t.Error("expected flake8 still enabled")
		}
	})

	t.Run("only restricts to the named checks", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Only = []string{"unicode-scan"}
		if !checkEnabled(cfg, "unicode-scan") {
			t.Error("expected unicode-scan enabled")
		}
		if checkEnabled(cfg, "flake8") {
			t.Error("expected flake8 disabled")
		}
	})
}

// TestDefaultPipeline_Order verifies the fixed display order of checks.
func TestDefaultPipeline_Order(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	r := missingToolRunner(cfg.TargetDir)

	p := DefaultPipeline(r, cfg, nil)

	want := []string{
		"flake8", "isort", "import-scan", "jscpd", "unicode-scan",
		"pylint", "lizard", "vulture", "radon", "style-checks",
	}
	got := p.StepNames()
	if len(got) != len(want) {
		t.Fatalf("expected %d steps, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

// TestDefaultPipeline_SkippedChecksStayInOrder verifies filtered checks
// are replaced by skip steps rather than removed.
func TestDefaultPipeline_SkippedChecksStayInOrder(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Skip = []string{"jscpd"}
	r := missingToolRunner(cfg.TargetDir)

	p := DefaultPipeline(r, cfg, nil)

	report := model.NewRunReport(cfg.TargetDir, nil)
	if err := p.Execute(context.Background(), report); err != nil {
		t.Fatal(err)
	}

	result := report.ResultFor("jscpd")
	if result == nil || !result.Skipped {
		t.Errorf("expected jscpd recorded as skipped, got %+v", result)
	}
	if len(report.Results) != p.StepCount() {
		t.Errorf("expected one result per step, got %d of %d",
			len(report.Results), p.StepCount())
	}
}
