package archive

import (
	"errors"
	"fmt"
)

// ErrArchiveIO is matched by IOError.
var ErrArchiveIO = errors.New("archive I/O failure")

// IOError records a failed file system operation on the archive directory.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("archive %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrArchiveIO.
func (e *IOError) Is(target error) bool {
	return target == ErrArchiveIO
}
