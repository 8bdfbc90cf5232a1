package segstore

import (
	"errors"
	"fmt"
)

var (
	// ErrSelfMerge is returned when a store is merged into itself.
	ErrSelfMerge = errors.New("cannot merge a store into itself")

	// ErrReadOnly is returned when a read-only store is asked to write.
	ErrReadOnly = errors.New("store opened read-only")

	// ErrNotDirectory is returned when a read-only root is not a directory.
	ErrNotDirectory = errors.New("store root is not a directory")

	// ErrInvalidMaxSize is returned when a segment cap is not positive.
	ErrInvalidMaxSize = errors.New("segment max size must be positive")
)

// StreamError reports a failure on a single stream of a store.
//
// The underlying error can be accessed via errors.Unwrap.
type StreamError struct {
	Stream string
	Op     string
	cause  error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s stream %q: %v", e.Op, e.Stream, e.cause)
}

func (e *StreamError) Unwrap() error { return e.cause }

func streamError(op, stream string, err error) error {
	if err == nil {
		return nil
	}
	return &StreamError{Stream: stream, Op: op, cause: err}
}
