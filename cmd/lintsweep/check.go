package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nao1215/lintsweep/internal/config"
	"github.com/nao1215/lintsweep/internal/database"
	"github.com/nao1215/lintsweep/internal/log"
	"github.com/nao1215/lintsweep/internal/model"
	"github.com/nao1215/lintsweep/internal/pipeline"
	"github.com/nao1215/lintsweep/internal/report"
	"github.com/nao1215/lintsweep/internal/runner"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <directory> [exclude-dir...]",
		Short: "Run the static analysis suite against a directory",
		Long: `Check runs every configured analysis against the target directory.

External tools are invoked when present on PATH: flake8 (lint), isort
(import ordering), jscpd (duplicated blocks), pylint (naming), lizard
(complexity), vulture (unused code), and radon (complexity grading). A
missing tool is reported and skipped; it never fails the run.

Built-in checks need no external tools: the Unicode punctuation scan,
the duplicate-import scan, and the style checks (indentation, trailing
whitespace, nesting depth, line length).

Positional arguments after the target directory name subdirectories that
every check ignores.

The command exits zero even when tools report findings. It exits
non-zero only for usage errors, or when --fail-on-unicode is set and the
Unicode punctuation scan found anything.

Examples:
  # Check a source tree, excluding the venv directory
  lintsweep check ./src venv

  # Treat Unicode punctuation as an error
  lintsweep check --fail-on-unicode ./src

  # Run only the built-in checks
  lintsweep check --only unicode-scan,import-scan,style-checks ./src

  # Check every directory listed in targets.txt, four at a time
  lintsweep check --batch targets.txt

  # Write a Markdown report to a file
  lintsweep check --markdown -o report.md ./src`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	// Threshold flags
	cmd.Flags().Int("max-line-length", config.DefaultMaxLineLength,
		"Maximum line length for flake8 and the built-in style check")
	cmd.Flags().Int("min-duplicate-lines", config.DefaultMinDuplicateLines,
		"Minimum duplicated block size, in lines, for jscpd")
	cmd.Flags().Int("max-complexity", config.DefaultMaxComplexity,
		"Cyclomatic complexity threshold for lizard")
	cmd.Flags().Int("max-function-lines", config.DefaultMaxFunctionLines,
		"Function length threshold for lizard")
	cmd.Flags().Int("max-nesting", config.DefaultMaxNesting,
		"Nesting depth limit for the built-in style check")

	// Check selection flags
	cmd.Flags().StringSlice("skip", nil,
		"Check names to leave out of the pipeline (comma separated)")
	cmd.Flags().StringSlice("only", nil,
		"Restrict the pipeline to the named checks (comma separated)")
	cmd.Flags().Bool("fail-on-unicode", false,
		"Exit non-zero when the Unicode punctuation scan finds anything")

	// Batch flags
	cmd.Flags().StringP("batch", "b", "",
		"File listing one target directory per line; all are checked concurrently")
	cmd.Flags().Int("batch-size", 4,
		"Number of concurrent target pipelines in batch mode")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .lintsweep.yaml in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (single-target runs only)")
	cmd.Flags().Bool("no-color", false,
		"Disable ANSI colors in the console report")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not record the run in the history database")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCheck(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.MaxLineLength, err = cmd.Flags().GetInt("max-line-length")
	if err != nil {
		return nil, err
	}

	cfg.MinDuplicateLines, err = cmd.Flags().GetInt("min-duplicate-lines")
	if err != nil {
		return nil, err
	}

	cfg.MaxComplexity, err = cmd.Flags().GetInt("max-complexity")
	if err != nil {
		return nil, err
	}

	cfg.MaxFunctionLines, err = cmd.Flags().GetInt("max-function-lines")
	if err != nil {
		return nil, err
	}

	cfg.MaxNesting, err = cmd.Flags().GetInt("max-nesting")
	if err != nil {
		return nil, err
	}

	cfg.Skip, err = cmd.Flags().GetStringSlice("skip")
	if err != nil {
		return nil, err
	}

	cfg.Only, err = cmd.Flags().GetStringSlice("only")
	if err != nil {
		return nil, err
	}

	cfg.FailOnUnicode, err = cmd.Flags().GetBool("fail-on-unicode")
	if err != nil {
		return nil, err
	}

	cfg.BatchFile, err = cmd.Flags().GetString("batch")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch-size")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.NoColor, err = cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments: the target directory, then excluded
	// subdirectory names. In batch mode the target comes from the file.
	if len(args) > 0 {
		cfg.TargetDir = filepath.Clean(args[0])
		cfg.Excludes = args[1:]
	}

	// Load per-target overrides from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.FileConfig, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.FileConfig = &config.File{
			Targets: make(map[string]config.TargetConfig),
		}
	}

	if cfg.TargetDir != "" {
		cfg.ApplyTarget(cfg.FileConfig.GetTargetConfig(cfg.TargetDir))
	}

	return cfg, nil
}

// runCheck executes the check pipeline for one target or a batch file.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Open database connection if saving is enabled
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			// History is a convenience; a broken database should not block
			// the checks themselves.
			logger.Warn("failed to open history database, runs will not be recorded",
				"dir", cfg.DBDir, "error", err)
		} else {
			defer db.Close()
			logger.Debug("history database opened", "dir", cfg.DBDir)
		}
	}

	if cfg.BatchFile != "" {
		return runBatchCheck(ctx, cfg, db, logger)
	}

	return runSingleCheck(ctx, cfg, db, logger)
}

// runSingleCheck runs the pipeline against one target directory.
func runSingleCheck(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	if err := validateTargetDir(cfg.TargetDir); err != nil {
		return err
	}

	logger.Debug("starting check",
		"target", cfg.TargetDir,
		"excludes", cfg.Excludes,
		"failOnUnicode", cfg.FailOnUnicode,
	)

	r := runner.New(cfg.TargetDir, runner.WithLogger(logger))
	p := pipeline.DefaultPipeline(r, cfg,
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithStepLogger(logger),
	)

	runReport := model.NewRunReport(cfg.TargetDir, cfg.Excludes)

	startTime := time.Now()
	if err := p.Execute(ctx, runReport); err != nil {
		return fmt.Errorf("check failed for %s: %w", cfg.TargetDir, err)
	}
	logger.Debug("check completed",
		"target", cfg.TargetDir,
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if err := outputReport(cfg, runReport); err != nil {
		return err
	}

	if err := saveRunReport(ctx, db, runReport, logger); err != nil {
		logger.Error("failed to save run report", "target", cfg.TargetDir, "error", err)
	}

	return strictUnicodeError(cfg, runReport)
}

// runBatchCheck runs the pipeline concurrently against every directory
// listed in the batch file.
func runBatchCheck(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	targets, err := readBatchFile(cfg.BatchFile)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("batch file %s lists no target directories", cfg.BatchFile)
	}

	for _, target := range targets {
		if err := validateTargetDir(target); err != nil {
			return err
		}
	}

	fmt.Printf("Checking %d targets (concurrency: %d)...\n\n", len(targets), cfg.BatchSize)
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func(targetDir string) *pipeline.Pipeline {
			// Clone the shared config: ApplyTarget appends to the slice
			// fields and factories run concurrently.
			targetCfg := *cfg
			targetCfg.TargetDir = targetDir
			targetCfg.Excludes = append([]string(nil), cfg.Excludes...)
			targetCfg.ExcludeFiles = append([]string(nil), cfg.ExcludeFiles...)
			targetCfg.Skip = append([]string(nil), cfg.Skip...)
			if cfg.FileConfig != nil {
				targetCfg.ApplyTarget(cfg.FileConfig.GetTargetConfig(targetDir))
			}
			r := runner.New(targetDir, runner.WithLogger(logger))
			return pipeline.DefaultPipeline(r, &targetCfg,
				[]pipeline.Option{pipeline.WithLogger(logger)},
				pipeline.WithStepLogger(logger),
			)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessBatch(ctx, targets, cfg.Excludes)
	if err != nil {
		return err
	}

	var unicodeHits int
	for _, runReport := range reports {
		if err := outputReport(cfg, runReport); err != nil {
			logger.Error("report failed", "target", runReport.TargetDir, "error", err)
		}
		if err := saveRunReport(ctx, db, runReport, logger); err != nil {
			logger.Error("failed to save run report", "target", runReport.TargetDir, "error", err)
		}
		unicodeHits += len(runReport.UnicodeFindings())
	}

	fmt.Printf("\nBatch check completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	if cfg.FailOnUnicode && unicodeHits > 0 {
		return fmt.Errorf("unicode punctuation found: %d occurrences", unicodeHits)
	}
	return nil
}

// validateTargetDir verifies the target exists and is a directory.
func validateTargetDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s", config.ErrTargetNotDirectory, dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", config.ErrTargetNotDirectory, dir)
	}
	return nil
}

// readBatchFile reads one target directory per line.
// Blank lines and lines starting with # are ignored.
func readBatchFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided batch file path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, filepath.Clean(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return targets, nil
}

// outputReport outputs the run report in the requested format.
func outputReport(cfg *config.Config, runReport *model.RunReport) error {
	// Ensure the summary exists for writers that rely on it
	if runReport.Summary == nil {
		runReport.Summary = model.NewSummary(runReport)
	}

	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewConsoleWriter(output,
			report.WithVerbose(cfg.Verbose),
			report.WithNoColor(cfg.NoColor),
		)
	}

	_, err := writer.Write(runReport)
	return err
}

// saveRunReport saves the run report to the history database if enabled.
// If db is nil, this function is a no-op.
func saveRunReport(ctx context.Context, db *database.HistoryDB, runReport *model.RunReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if runReport.Summary == nil {
		runReport.Summary = model.NewSummary(runReport)
	}

	if err := db.SaveRunReport(ctx, runReport); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}

	logger.Debug("run report saved to history database", "target", runReport.TargetDir)
	return nil
}

// strictUnicodeError converts Unicode punctuation findings into a
// non-zero exit when strict mode is on.
func strictUnicodeError(cfg *config.Config, runReport *model.RunReport) error {
	if !cfg.FailOnUnicode {
		return nil
	}
	if hits := runReport.UnicodeFindings(); len(hits) > 0 {
		return fmt.Errorf("unicode punctuation found: %d occurrences", len(hits))
	}
	return nil
}
