// Package pipeline runs every configured station through the scrape steps.
//
// # Steps
//
// A station passes through five steps in order:
//
//	fetch -> parse -> extract -> validate -> archive
//
// Each step is a Step operating on a StationRun. The Pipeline stops a
// station at the first failing step and wraps the error in a StepError
// naming that step. ErrSkip stops it without a failure; the validate step
// returns it when a station has no bulletin this cycle.
//
// # Runner
//
// The Runner drives the stations one at a time in configured order. A
// failing station is classified, logged and reported to the notifier, and
// the run moves on to the next station. Only cancellation of the run's
// context ends a run early; the remaining stations are then recorded as
// cancelled without a notification.
//
// Design decision: stations run sequentially. Version numbers are derived
// from the archive directory, and two entries for the same station in one
// run must see each other's files.
//
// # Classification
//
// Classify maps a station error to a model.FailureKind by sentinel:
//   - fetcher.ErrInvalidURL, fetcher.ErrEmptyDocument and fetch failures
//   - document.ErrParse
//   - extract.ErrUnknownStation and extract.ErrMissingNode
//   - bulletin.ErrMalformed
//   - archive.ErrArchiveIO
//
// Anything else is FailureUnknown.
//
// # Sinks
//
// After the last station the run summary is handed to the configured sinks
// (history database, Prometheus textfile). A sink error is logged and never
// changes the summary.
package pipeline
