// Package database provides SQLite-based storage for run history.
//
// This package implements the HistoryDB, which stores one row per
// completed run: the full report as JSON plus a compact severity summary
// for cheap history listings. The compare command reads the two most
// recent runs of a target from here.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
