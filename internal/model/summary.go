package model

import (
	"time"

	"github.com/google/uuid"
)

// RunSummary collects the results of one run in configured station order.
type RunSummary struct {
	// ID uniquely identifies the run in logs and the history database.
	ID string `json:"id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last station finished.
	FinishedAt time.Time `json:"finished_at"`

	// DataPath is the archive directory the run wrote to.
	DataPath string `json:"data_path"`

	// Results holds one entry per configured station, in configured order.
	Results []*StationResult `json:"results"`

	// Archived is the number of stations that produced a new file.
	Archived int `json:"archived"`

	// Unchanged is the number of stations whose bulletin was already archived,
	// either as identical content or as the exact same file.
	Unchanged int `json:"unchanged"`

	// Skipped is the number of stations that had no data this cycle.
	Skipped int `json:"skipped"`

	// Failed is the number of stations that failed.
	Failed int `json:"failed"`
}

// NewRunSummary creates an empty summary stamped with a fresh run ID.
func NewRunSummary(dataPath string, startedAt time.Time) *RunSummary {
	return &RunSummary{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
		DataPath:  dataPath,
		Results:   make([]*StationResult, 0),
	}
}

// Add appends a result and updates the counters.
func (s *RunSummary) Add(r *StationResult) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusArchived:
		s.Archived++
	case StatusUnchanged, StatusExists:
		s.Unchanged++
	case StatusNoData:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// HasFailures reports whether any station failed.
func (s *RunSummary) HasFailures() bool {
	return s.Failed > 0
}

// Failures returns the failed results in configured order.
func (s *RunSummary) Failures() []*StationResult {
	failed := make([]*StationResult, 0, s.Failed)
	for _, r := range s.Results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Duration is the wall-clock length of the run.
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
