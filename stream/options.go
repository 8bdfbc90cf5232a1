package stream

import (
	"log/slog"

	"github.com/hupe1980/segstore/codec"
	"github.com/hupe1980/segstore/internal/fs"
)

// Observer receives write-path events. Implementations must be cheap; they
// run inline on every record.
type Observer interface {
	RecordWrite(stream string, bytes int)
	RecordRoll(stream string, index int)
}

type noopObserver struct{}

func (noopObserver) RecordWrite(string, int) {}
func (noopObserver) RecordRoll(string, int)  {}

// Options contains configuration for a Writer.
type Options struct {
	// Dir is the directory holding the stream's segments.
	Dir string

	// MaxSize is the segment size cap in bytes.
	MaxSize int64

	// Policy is the roll policy. Defaults to Small.
	Policy Policy

	// FS is the filesystem the segments live on. Defaults to the local filesystem.
	FS fs.FileSystem

	// Codec encodes records into lines. Defaults to codec.Default.
	Codec codec.Codec

	// Logger receives debug events about resume and roll.
	Logger *slog.Logger

	// Observer receives write and roll events.
	Observer Observer

	// ReadOnly opens the existing segments without creating, rolling or
	// writing anything. The stream must already have at least one segment.
	ReadOnly bool
}

// DefaultOptions contains the default Writer configuration.
var DefaultOptions = Options{
	MaxSize: 200 * 1024 * 1024,
	Policy:  Small,
}
