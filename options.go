package segstore

import (
	"github.com/hupe1980/segstore/codec"
	"github.com/hupe1980/segstore/internal/fs"
)

const (
	KB = 1024
	MB = 1024 * KB
	GB = 1024 * MB
)

// Classifier reports whether the named stream uses the large-group policy.
type Classifier func(name string) bool

// Options configures a Store.
type Options struct {
	// SmallMaxSize is the segment cap of small streams.
	SmallMaxSize int64

	// LargeMaxSize is the segment cap of large-group streams.
	LargeMaxSize int64

	// IsLarge classifies stream names. It must return the same answer for a
	// name across every run that touches the same root.
	IsLarge Classifier

	// Codec encodes records. If nil, codec.Default is used.
	Codec codec.Codec

	// Logger receives store events. If nil, logging is disabled.
	Logger *Logger

	// Metrics receives operational metrics. If nil, metrics are not collected.
	Metrics MetricsCollector

	// FS is the filesystem the root lives on; tests use it for fault injection.
	FS fs.FileSystem

	// ReadOnly opens an existing root without creating, rolling or writing
	// anything. Such a store can only be read or used as a merge source.
	ReadOnly bool
}

// DefaultOptions contains the default Store configuration.
var DefaultOptions = Options{
	SmallMaxSize: 200 * MB,
	LargeMaxSize: 1 * GB,
	IsLarge:      func(string) bool { return false },
}

// WithSizes sets both segment caps.
func WithSizes(small, large int64) func(o *Options) {
	return func(o *Options) {
		o.SmallMaxSize = small
		o.LargeMaxSize = large
	}
}

// WithClassifier sets the large/small classification predicate.
func WithClassifier(isLarge Classifier) func(o *Options) {
	return func(o *Options) {
		o.IsLarge = isLarge
	}
}

// WithLogger sets the logger.
func WithLogger(l *Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m MetricsCollector) func(o *Options) {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithReadOnly opens the store read-only.
func WithReadOnly() func(o *Options) {
	return func(o *Options) {
		o.ReadOnly = true
	}
}
