// Package pipeline executes the check steps of one run in sequence.
//
// Each step wraps either an external analysis tool or a built-in check
// and records a uniform result into the run report. Steps are independent:
// no step's outcome decides whether another runs, and order only affects
// display sequence.
//
// Design decision: We use a pipeline pattern instead of direct function
// calls because:
// 1. It allows easy addition/removal of checks without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running tool runs
//
// The pipeline supports both single-target runs and batch processing of
// multiple targets with concurrency control using errgroup.
package pipeline
