package segstore

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/segstore/stream"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see package metrics/prometheus).
type MetricsCollector interface {
	// RecordWrite and RecordRoll are called inline by every stream.
	stream.Observer

	// RecordProcess is called after a record sequence has been drained into a stream.
	RecordProcess(stream string, records int, duration time.Duration, err error)

	// RecordMerge is called after a stream merge.
	RecordMerge(stream string, segments int, bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordWrite(string, int)                              {}
func (NoopMetricsCollector) RecordRoll(string, int)                               {}
func (NoopMetricsCollector) RecordProcess(string, int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordMerge(string, int, int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RecordsWritten atomic.Int64
	BytesWritten   atomic.Int64
	Rolls          atomic.Int64
	ProcessCount   atomic.Int64
	ProcessErrors  atomic.Int64
	ProcessNanos   atomic.Int64
	MergeCount     atomic.Int64
	MergeErrors    atomic.Int64
	MergedSegments atomic.Int64
	MergedBytes    atomic.Int64
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(_ string, bytes int) {
	b.RecordsWritten.Add(1)
	b.BytesWritten.Add(int64(bytes))
}

// RecordRoll implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRoll(string, int) {
	b.Rolls.Add(1)
}

// RecordProcess implements MetricsCollector.
func (b *BasicMetricsCollector) RecordProcess(_ string, _ int, duration time.Duration, err error) {
	b.ProcessCount.Add(1)
	b.ProcessNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ProcessErrors.Add(1)
	}
}

// RecordMerge implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMerge(_ string, segments int, bytes int64, _ time.Duration, err error) {
	b.MergeCount.Add(1)
	b.MergedSegments.Add(int64(segments))
	b.MergedBytes.Add(bytes)
	if err != nil {
		b.MergeErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RecordsWritten: b.RecordsWritten.Load(),
		BytesWritten:   b.BytesWritten.Load(),
		Rolls:          b.Rolls.Load(),
		ProcessCount:   b.ProcessCount.Load(),
		ProcessErrors:  b.ProcessErrors.Load(),
		ProcessAvg:     b.avgProcess(),
		MergeCount:     b.MergeCount.Load(),
		MergeErrors:    b.MergeErrors.Load(),
		MergedSegments: b.MergedSegments.Load(),
		MergedBytes:    b.MergedBytes.Load(),
	}
}

func (b *BasicMetricsCollector) avgProcess() time.Duration {
	count := b.ProcessCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(b.ProcessNanos.Load() / count)
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RecordsWritten int64
	BytesWritten   int64
	Rolls          int64
	ProcessCount   int64
	ProcessErrors  int64
	ProcessAvg     time.Duration
	MergeCount     int64
	MergeErrors    int64
	MergedSegments int64
	MergedBytes    int64
}
