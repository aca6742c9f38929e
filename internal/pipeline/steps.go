package pipeline

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/lintsweep/internal/check"
	"github.com/nao1215/lintsweep/internal/config"
	"github.com/nao1215/lintsweep/internal/model"
	"github.com/nao1215/lintsweep/internal/runner"
)

// StepOption configures the common settings of a pipeline step.
type StepOption func(*stepSettings)

// stepSettings holds the settings shared by all step types.
type stepSettings struct {
	logger *slog.Logger
}

// WithStepLogger sets a custom logger for a step.
func WithStepLogger(logger *slog.Logger) StepOption {
	return func(s *stepSettings) {
		s.logger = logger
	}
}

// newStepSettings applies the options over the defaults.
func newStepSettings(opts ...StepOption) *stepSettings {
	s := &stepSettings{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resultFromInvocation converts a tool invocation into a check result.
// A missing tool is recorded as Available=false so the writers can print
// the informational skip message; it never fails the run.
func resultFromInvocation(inv *runner.Invocation) *model.CheckResult {
	return &model.CheckResult{
		Tool:      inv.Tool,
		Available: inv.Available,
		ExitCode:  inv.ExitCode,
		Output:    inv.Output,
		Duration:  inv.Duration,
	}
}

// Flake8Step runs flake8 against the target with the project's fixed
// line-length and exclusion configuration.
type Flake8Step struct {
	runner        *runner.Runner
	maxLineLength int
	excludes      []string
	excludeFiles  []string
	logger        *slog.Logger
}

// NewFlake8Step creates the flake8 step from the run configuration.
func NewFlake8Step(r *runner.Runner, cfg *config.Config, opts ...StepOption) *Flake8Step {
	settings := newStepSettings(opts...)
	return &Flake8Step{
		runner:        r,
		maxLineLength: cfg.MaxLineLength,
		excludes:      cfg.Excludes,
		excludeFiles:  cfg.ExcludeFiles,
		logger:        settings.logger,
	}
}

// Name returns the step name.
func (s *Flake8Step) Name() string {
	return "flake8"
}

// Do executes flake8 and records its output. A non-zero exit means
// findings, not a malfunction, so it is captured and the run continues.
func (s *Flake8Step) Do(ctx context.Context, report *model.RunReport) error {
	args := []string{"--max-line-length", strconv.Itoa(s.maxLineLength)}
	if patterns := append(append([]string{}, s.excludes...), s.excludeFiles...); len(patterns) > 0 {
		args = append(args, "--extend-exclude", strings.Join(patterns, ","))
	}
	args = append(args, ".")

	inv, err := s.runner.Run(ctx, "flake8", args...)
	if err != nil {
		return err
	}
	s.logger.Debug("tool step finished",
		"tool", inv.Tool, "exit_code", inv.ExitCode, "available", inv.Available)
	report.AddResult(resultFromInvocation(inv))
	return nil
}

// IsortStep runs isort in check-only mode. When the check fails, it
// re-runs isort in diff mode so the report shows the corrective ordering
// instead of just a pass/fail verdict.
type IsortStep struct {
	runner   *runner.Runner
	excludes []string
	logger   *slog.Logger
}

// NewIsortStep creates the isort step from the run configuration.
func NewIsortStep(r *runner.Runner, cfg *config.Config, opts ...StepOption) *IsortStep {
	settings := newStepSettings(opts...)
	return &IsortStep{
		runner:   r,
		excludes: cfg.Excludes,
		logger:   settings.logger,
	}
}

// Name returns the step name.
func (s *IsortStep) Name() string {
	return "isort"
}

// Do executes the two-phase isort check.
func (s *IsortStep) Do(ctx context.Context, report *model.RunReport) error {
	args := []string{"--check-only"}
	for _, dir := range s.excludes {
		args = append(args, "--skip", dir)
	}
	args = append(args, ".")

	inv, err := s.runner.Run(ctx, "isort", args...)
	if err != nil {
		return err
	}
	result := resultFromInvocation(inv)

	if inv.Available && inv.ExitCode != 0 {
		s.logger.Debug("import order check failed, collecting diff")

		diffArgs := []string{"--diff"}
		for _, dir := range s.excludes {
			diffArgs = append(diffArgs, "--skip", dir)
		}
		diffArgs = append(diffArgs, ".")

		diff, err := s.runner.Run(ctx, "isort", diffArgs...)
		if err != nil {
			return err
		}
		result.Output = diff.Output
		result.Duration += diff.Duration
	}

	report.AddResult(result)
	return nil
}

// JSCPDStep runs the jscpd duplicate-block detector with the configured
// minimum block size.
type JSCPDStep struct {
	runner   *runner.Runner
	minLines int
	excludes []string
	logger   *slog.Logger
}

// NewJSCPDStep creates the jscpd step from the run configuration.
func NewJSCPDStep(r *runner.Runner, cfg *config.Config, opts ...StepOption) *JSCPDStep {
	settings := newStepSettings(opts...)
	return &JSCPDStep{
		runner:   r,
		minLines: cfg.MinDuplicateLines,
		excludes: cfg.Excludes,
		logger:   settings.logger,
	}
}

// Name returns the step name.
func (s *JSCPDStep) Name() string {
	return "jscpd"
}

// Do executes jscpd and captures its console report.
func (s *JSCPDStep) Do(ctx context.Context, report *model.RunReport) error {
	args := []string{"--min-lines", strconv.Itoa(s.minLines)}
	if len(s.excludes) > 0 {
		patterns := make([]string, 0, len(s.excludes))
		for _, dir := range s.excludes {
			patterns = append(patterns, dir+"/**")
		}
		args = append(args, "--ignore", strings.Join(patterns, ","))
	}
	args = append(args, ".")

	inv, err := s.runner.Run(ctx, "jscpd", args...)
	if err != nil {
		return err
	}
	s.logger.Debug("tool step finished",
		"tool", inv.Tool, "exit_code", inv.ExitCode, "available", inv.Available)
	report.AddResult(resultFromInvocation(inv))
	return nil
}

// PylintStep runs pylint restricted to naming conventions. Everything
// else pylint can report is covered by flake8 or out of scope here.
type PylintStep struct {
	runner   *runner.Runner
	excludes []string
	logger   *slog.Logger
}

// NewPylintStep creates the pylint step from the run configuration.
func NewPylintStep(r *runner.Runner, cfg *config.Config, opts ...StepOption) *PylintStep {
	settings := newStepSettings(opts...)
	return &PylintStep{
		runner:   r,
		excludes: cfg.Excludes,
		logger:   settings.logger,
	}
}

// Name returns the step name.
func (s *PylintStep) Name() string {
	return "pylint"
}

// Do executes pylint with only the naming checks enabled.
func (s *PylintStep) Do(ctx context.Context, report *model.RunReport) error {
	args := []string{
		"--disable=all",
		"--enable=invalid-name,disallowed-name,non-ascii-name",
		"--recursive=y",
	}
	if len(s.excludes) > 0 {
		args = append(args, "--ignore="+strings.Join(s.excludes, ","))
	}
	args = append(args, ".")

	inv, err := s.runner.Run(ctx, "pylint", args...)
	if err != nil {
		return err
	}
	s.logger.Debug("tool step finished",
		"tool", inv.Tool, "exit_code", inv.ExitCode, "available", inv.Available)
	report.AddResult(resultFromInvocation(inv))
	return nil
}

// LizardStep runs the lizard complexity analyzer with the configured
// cyclomatic complexity and function length thresholds.
type LizardStep struct {
	runner           *runner.Runner
	maxComplexity    int
	maxFunctionLines int
	excludes         []string
	logger           *slog.Logger
}

// NewLizardStep creates the lizard step from the run configuration.
func NewLizardStep(r *runner.Runner, cfg *config.Config, opts ...StepOption) *LizardStep {
	settings := newStepSettings(opts...)
	return &LizardStep{
		runner:           r,
		maxComplexity:    cfg.MaxComplexity,
		maxFunctionLines: cfg.MaxFunctionLines,
		excludes:         cfg.Excludes,
		logger:           settings.logger,
	}
}

// Name returns the step name.
func (s *LizardStep) Name() string {
	return "lizard"
}

// Do executes lizard in warnings-only mode so clean functions stay quiet.
func (s *LizardStep) Do(ctx context.Context, report *model.RunReport) error {
	args := []string{
		"-C", strconv.Itoa(s.maxComplexity),
		"-L", strconv.Itoa(s.maxFunctionLines),
		"-w",
	}
	for _, dir := range s.excludes {
		args = append(args, "-x", "./"+dir+"/*")
	}
	args = append(args, ".")

	inv, err := s.runner.Run(ctx, "lizard", args...)
	if err != nil {
		return err
	}
	s.logger.Debug("tool step finished",
		"tool", inv.Tool, "exit_code", inv.ExitCode, "available", inv.Available)
	report.AddResult(resultFromInvocation(inv))
	return nil
}

// VultureStep runs the vulture unused-code detector.
type VultureStep struct {
	runner   *runner.Runner
	excludes []string
	logger   *slog.Logger
}

// NewVultureStep creates the vulture step from the run configuration.
func NewVultureStep(r *runner.Runner, cfg *config.Config, opts ...StepOption) *VultureStep {
	settings := newStepSettings(opts...)
	return &VultureStep{
		runner:   r,
		excludes: cfg.Excludes,
		logger:   settings.logger,
	}
}

// Name returns the step name.
func (s *VultureStep) Name() string {
	return "vulture"
}

// Do executes vulture against the target.
func (s *VultureStep) Do(ctx context.Context, report *model.RunReport) error {
	args := []string{"."}
	if len(s.excludes) > 0 {
		args = append(args, "--exclude", strings.Join(s.excludes, ","))
	}

	inv, err := s.runner.Run(ctx, "vulture", args...)
	if err != nil {
		return err
	}
	s.logger.Debug("tool step finished",
		"tool", inv.Tool, "exit_code", inv.ExitCode, "available", inv.Available)
	report.AddResult(resultFromInvocation(inv))
	return nil
}

// RadonStep runs radon's cyclomatic complexity grading, showing only
// blocks graded C or worse.
type RadonStep struct {
	runner   *runner.Runner
	excludes []string
	logger   *slog.Logger
}

// NewRadonStep creates the radon step from the run configuration.
func NewRadonStep(r *runner.Runner, cfg *config.Config, opts ...StepOption) *RadonStep {
	settings := newStepSettings(opts...)
	return &RadonStep{
		runner:   r,
		excludes: cfg.Excludes,
		logger:   settings.logger,
	}
}

// Name returns the step name.
func (s *RadonStep) Name() string {
	return "radon"
}

// Do executes radon cc with grades and scores.
func (s *RadonStep) Do(ctx context.Context, report *model.RunReport) error {
	args := []string{"cc", "-s", "-n", "C"}
	if len(s.excludes) > 0 {
		args = append(args, "-i", strings.Join(s.excludes, ","))
	}
	args = append(args, ".")

	inv, err := s.runner.Run(ctx, "radon", args...)
	if err != nil {
		return err
	}
	s.logger.Debug("tool step finished",
		"tool", inv.Tool, "exit_code", inv.ExitCode, "available", inv.Available)
	report.AddResult(resultFromInvocation(inv))
	return nil
}

// Checker is a built-in source check operating on a loaded corpus.
type Checker interface {
	// Name returns the check name.
	Name() string

	// Check scans the corpus and returns structured findings.
	Check(ctx context.Context, corpus *check.Corpus) ([]model.Finding, error)
}

// CorpusLoader loads the target's sources once and shares the result
// between the built-in check steps so the tree is read a single time.
type CorpusLoader struct {
	root string
	opts check.LoadOptions

	once   sync.Once
	corpus *check.Corpus
	err    error
}

// NewCorpusLoader creates a lazy corpus loader for the target directory.
func NewCorpusLoader(root string, opts check.LoadOptions) *CorpusLoader {
	return &CorpusLoader{root: root, opts: opts}
}

// Load returns the corpus, reading the tree on first call.
func (l *CorpusLoader) Load(ctx context.Context) (*check.Corpus, error) {
	l.once.Do(func() {
		l.corpus, l.err = check.Load(ctx, l.root, l.opts)
	})
	return l.corpus, l.err
}

// CheckStep adapts a built-in check to the pipeline. Built-in checks are
// always available and report through structured findings rather than
// captured tool output.
type CheckStep struct {
	check  Checker
	loader *CorpusLoader
	logger *slog.Logger
}

// NewCheckStep wraps a built-in check as a pipeline step.
func NewCheckStep(checker Checker, loader *CorpusLoader, opts ...StepOption) *CheckStep {
	settings := newStepSettings(opts...)
	return &CheckStep{
		check:  checker,
		loader: loader,
		logger: settings.logger,
	}
}

// Name returns the wrapped check's name.
func (s *CheckStep) Name() string {
	return s.check.Name()
}

// Do loads the shared corpus and runs the check over it.
func (s *CheckStep) Do(ctx context.Context, report *model.RunReport) error {
	start := time.Now()

	corpus, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}

	findings, err := s.check.Check(ctx, corpus)
	if err != nil {
		return err
	}

	report.AddResult(&model.CheckResult{
		Tool:      s.check.Name(),
		Available: true,
		Findings:  findings,
		Duration:  time.Since(start),
	})

	s.logger.Debug("built-in check finished",
		"check", s.check.Name(),
		"findings", len(findings),
	)
	return nil
}

// SkipStep records a check as filtered out without running anything.
// Keeping skipped checks in the report preserves the fixed display order
// and makes --skip/--only decisions visible in the output.
type SkipStep struct {
	name string
}

// NewSkipStep creates a step that only records the skip.
func NewSkipStep(name string) *SkipStep {
	return &SkipStep{name: name}
}

// Name returns the skipped check's name.
func (s *SkipStep) Name() string {
	return s.name
}

// Do records the skipped result.
func (s *SkipStep) Do(_ context.Context, report *model.RunReport) error {
	report.AddResult(&model.CheckResult{
		Tool:      s.name,
		Available: true,
		Skipped:   true,
	})
	return nil
}

// checkEnabled decides whether the named check runs under the configured
// --skip/--only filters.
func checkEnabled(cfg *config.Config, name string) bool {
	if len(cfg.Only) > 0 {
		for _, only := range cfg.Only {
			if only == name {
				return true
			}
		}
		return false
	}
	for _, skip := range cfg.Skip {
		if skip == name {
			return false
		}
	}
	return true
}

// DefaultPipeline creates the standard pipeline with every check in
// display order. Checks filtered out via --skip/--only are replaced by
// skip steps so the report still lists them.
//
// Design decision: We provide a default pipeline because:
// 1. Most users want all checks
// 2. Reduces boilerplate in the CLI
// 3. Ensures consistent ordering between runs, which keeps output
//    diffable and lets the history database compare runs check by check
func DefaultPipeline(r *runner.Runner, cfg *config.Config, pipelineOpts []Option, stepOpts ...StepOption) *Pipeline {
	p := New(pipelineOpts...)

	loader := NewCorpusLoader(cfg.TargetDir, check.LoadOptions{
		ExcludeDirs:  cfg.Excludes,
		ExcludeFiles: cfg.ExcludeFiles,
		Extensions:   []string{".py"},
	})

	steps := []Step{
		NewFlake8Step(r, cfg, stepOpts...),
		NewIsortStep(r, cfg, stepOpts...),
		NewCheckStep(check.NewImportCheck(), loader, stepOpts...),
		NewJSCPDStep(r, cfg, stepOpts...),
		NewCheckStep(check.NewUnicodeCheck(), loader, stepOpts...),
		NewPylintStep(r, cfg, stepOpts...),
		NewLizardStep(r, cfg, stepOpts...),
		NewVultureStep(r, cfg, stepOpts...),
		NewRadonStep(r, cfg, stepOpts...),
		NewCheckStep(
			check.NewStyleCheck(
				check.WithMaxNesting(cfg.MaxNesting),
				check.WithMaxLineLength(cfg.MaxLineLength),
			),
			loader, stepOpts...,
		),
	}

	for _, step := range steps {
		if checkEnabled(cfg, step.Name()) {
			p.AddStep(step)
			continue
		}
		p.AddStep(NewSkipStep(step.Name()))
	}

	return p
}
