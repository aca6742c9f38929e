// Package model defines the data structures shared across lintsweep.
// It contains the per-check result record, findings with severity levels,
// and the aggregated run report that the report writers and the history
// database consume.
package model
