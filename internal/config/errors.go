package config

import "errors"

// ErrConfiguration is the parent of every configuration error.
// A configuration error is the only fatal error kind: the run stops before
// any station is processed. Use errors.Is(err, ErrConfiguration) to detect it.
var ErrConfiguration = errors.New("configuration error")

// Configuration validation errors.
// Each one wraps ErrConfiguration so callers can test for the kind as well
// as for the specific problem.
var (
	// ErrNoConfigFile is returned when no station file was specified or found.
	ErrNoConfigFile = newConfigError("you must specify a valid configuration file that specifies the weather data source URL(s)")

	// ErrConfigNotFound is returned when the station file does not exist.
	ErrConfigNotFound = newConfigError("configuration file not found")

	// ErrEmptyConfigFile is returned when the station file is blank.
	ErrEmptyConfigFile = newConfigError("configuration file is empty")

	// ErrInvalidConfigFile is returned when the station file cannot be decoded.
	ErrInvalidConfigFile = newConfigError("configuration file is not a valid station list")

	// ErrNoStations is returned when the station list is empty.
	ErrNoStations = newConfigError("configuration file lists no stations")

	// ErrInvalidDataPath is returned when the archive directory is missing or not a directory.
	ErrInvalidDataPath = newConfigError("you must specify a valid path in which to store the weather data file(s)")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = newConfigError("invalid timeout: must be positive")

	// ErrInvalidRetryAttempts is returned when the retry count is negative.
	ErrInvalidRetryAttempts = newConfigError("invalid retry attempts: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the body limit is not positive.
	ErrInvalidMaxBodySize = newConfigError("invalid max body size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown are given.
	ErrConflictingReportFormats = newConfigError("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownMailProvider is returned for a mail provider other than smtp or sendgrid.
	ErrUnknownMailProvider = newConfigError("unknown mail provider: must be smtp or sendgrid")
)

// configError is a sentinel that also matches ErrConfiguration.
type configError struct {
	msg string
}

func newConfigError(msg string) error {
	return &configError{msg: msg}
}

func (e *configError) Error() string {
	return e.msg
}

// Is reports ErrConfiguration as a match so every sentinel belongs to the kind.
func (e *configError) Is(target error) bool {
	return target == ErrConfiguration
}
