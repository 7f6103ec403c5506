package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned when a configured URL is not an absolute HTTP(S) URL.
	ErrInvalidURL = errors.New("invalid source URL")

	// ErrEmptyDocument is returned when the fetched page body is blank.
	ErrEmptyDocument = errors.New("empty document")
)

// HTTPError is returned when the server answers with a non-2xx status.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// Temporary reports whether retrying the request may succeed:
// server errors, 429 Too Many Requests and 408 Request Timeout.
func (e *HTTPError) Temporary() bool {
	switch {
	case e.StatusCode >= 500 && e.StatusCode < 600:
		return true
	case e.StatusCode == 429, e.StatusCode == 408:
		return true
	default:
		return false
	}
}
