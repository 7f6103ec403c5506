// Package model defines the data structures shared across weatherscraper.
//
// This package contains the following main types:
//   - Bulletin: A validated METAR/SPECI report split into its leading groups
//   - StationResult: The typed outcome of processing one configured station
//   - RunSummary: The ordered results of a single run plus outcome counters
//   - FailureKind: The classification of a per-station failure
//
// Models live in their own package so that the pipeline, report, metrics
// and database packages can share them without import cycles. All of them
// serialize to JSON for report output and history storage.
package model
