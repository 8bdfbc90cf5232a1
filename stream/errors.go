package stream

import "errors"

var (
	// ErrInvalidName is returned for stream names that cannot be encoded in a segment file name.
	ErrInvalidName = errors.New("stream: invalid name")

	// ErrInvalidMaxSize is returned when the size cap is not positive.
	ErrInvalidMaxSize = errors.New("stream: max size must be positive")

	// ErrNoPolicy is returned when no roll policy is configured.
	ErrNoPolicy = errors.New("stream: roll policy is required")

	// ErrNonContiguous is returned when segment indices on disk have gaps.
	ErrNonContiguous = errors.New("stream: non-contiguous segment indices")

	// ErrPolicyMismatch is returned when merging streams of different classifications.
	ErrPolicyMismatch = errors.New("stream: roll policy mismatch")

	// ErrSelfMerge is returned when a stream is merged into itself.
	ErrSelfMerge = errors.New("stream: cannot merge a stream into itself")

	// ErrReadOnly is returned for writes to a stream opened read-only.
	ErrReadOnly = errors.New("stream: opened read-only")

	// ErrEncode wraps record serialization failures.
	ErrEncode = errors.New("stream: encode record")
)
