package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/lintsweep/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor runs the check pipeline against multiple target
// directories concurrently. Each target gets its own pipeline instance;
// the checks inside one target still run sequentially.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-target execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for one target directory.
	// A factory is used because each pipeline owns a runner bound to its
	// target's working directory.
	pipelineFactory func(targetDir string) *Pipeline

	// concurrency is the maximum number of targets checked at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed run reports in input order.
	results []*model.RunReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent targets.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory is called once per target so that pipeline state
// (runner working directory, shared corpus) never leaks between targets.
func NewBatchProcessor(pipelineFactory func(targetDir string) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
		results:         make([]*model.RunReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch checks multiple target directories concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each target gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all reports collected, even for targets whose run failed.
// The error return indicates cancellation; per-target failures are
// recorded in the corresponding report.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string, excludes []string) ([]*model.RunReport, error) {
	bp.logger.Info("starting batch run",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate to keep reports in input order.
	bp.results = make([]*model.RunReport, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("checking target",
				"target", target,
				"index", i+1,
				"total", len(targets),
			)

			report := model.NewRunReport(target, excludes)

			pipeline := bp.pipelineFactory(target)
			err := pipeline.Execute(ctx, report)

			// Store the report regardless of error; failures are
			// recorded inside the report.
			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("target run failed",
					"target", target,
					"error", err,
				)
				// Keep checking the other targets.
				return nil
			}

			bp.logger.Info("target run completed", "target", target)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch run complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}
