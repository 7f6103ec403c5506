package model

import "time"

// Status is the final state of one station within a run.
type Status string

const (
	// StatusArchived means a new archive file was written.
	StatusArchived Status = "archived"

	// StatusUnchanged means the bulletin matched the most recent archive file,
	// so no file was written even though a new version was resolved.
	StatusUnchanged Status = "unchanged"

	// StatusExists means the exact archive file was already produced by an earlier run.
	StatusExists Status = "exists"

	// StatusNoData means the extraction produced blank text. This is not a failure:
	// the source simply had nothing to publish this cycle.
	StatusNoData Status = "no_data"

	// StatusFailed means the station failed; Kind says why.
	StatusFailed Status = "failed"
)

// StationResult is the typed outcome of processing one configured station.
// Failures are carried as data rather than propagated, so one station can
// never abort the others.
type StationResult struct {
	// Station is the configured station code (dispatch key), upper-cased.
	Station string `json:"station"`

	// URL is the configured source URL.
	URL string `json:"url"`

	// Status is the final state of the station.
	Status Status `json:"status"`

	// Bulletin is the validated bulletin, nil when processing stopped earlier.
	Bulletin *Bulletin `json:"bulletin,omitempty"`

	// FileName is the archive file name that was written or already existed.
	FileName string `json:"file_name,omitempty"`

	// Version is the resolved archive version, 0 when none was resolved.
	Version int `json:"version,omitempty"`

	// Kind classifies the failure when Status is StatusFailed.
	Kind FailureKind `json:"kind"`

	// Error is the failure message when Status is StatusFailed.
	Error string `json:"error,omitempty"`

	// Err is the failure itself, kept for errors.Is/As by in-process callers.
	Err error `json:"-"`

	// Duration is the time spent on the station.
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the station failed.
func (r *StationResult) Failed() bool {
	return r.Status == StatusFailed
}

// Fail records err as the station's failure.
func (r *StationResult) Fail(kind FailureKind, err error) {
	r.Status = StatusFailed
	r.Kind = kind
	r.Err = err
	if err != nil {
		r.Error = err.Error()
	}
}
