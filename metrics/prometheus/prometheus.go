// Package prometheus exports store metrics through Prometheus collectors.
//
//	reg := prometheus.NewRegistry()
//	c, _ := segprom.New(reg)
//	s, _ := segstore.Open(root, segstore.WithMetrics(c))
package prometheus

import (
	"time"

	"github.com/hupe1980/segstore"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "segstore"

// Collector implements segstore.MetricsCollector on top of Prometheus vectors
// labelled by stream name.
type Collector struct {
	records      *prometheus.CounterVec
	bytes        *prometheus.CounterVec
	rolls        *prometheus.CounterVec
	processed    *prometheus.HistogramVec
	processErrs  *prometheus.CounterVec
	mergedBytes  *prometheus.CounterVec
	mergedSegs   *prometheus.CounterVec
	mergeErrs    *prometheus.CounterVec
	mergeSeconds *prometheus.HistogramVec
}

var _ segstore.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers it with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	labels := []string{"stream"}
	c := &Collector{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Records appended to stream segments.",
		}, labels),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Encoded bytes appended to stream segments.",
		}, labels),
		rolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segment_rolls_total",
			Help:      "Segments started because the previous one was full.",
		}, labels),
		processed: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "process_duration_seconds",
			Help:      "Time spent draining one record sequence into a stream.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
		processErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "process_errors_total",
			Help:      "Record sequences that failed to drain.",
		}, labels),
		mergedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merged_bytes_total",
			Help:      "Bytes copied into a stream by merges.",
		}, labels),
		mergedSegs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merged_segments_total",
			Help:      "Source segments appended by merges.",
		}, labels),
		mergeErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_errors_total",
			Help:      "Stream merges that failed.",
		}, labels),
		mergeSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "merge_duration_seconds",
			Help:      "Time spent merging one stream.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}

	for _, col := range []prometheus.Collector{
		c.records, c.bytes, c.rolls,
		c.processed, c.processErrs,
		c.mergedBytes, c.mergedSegs, c.mergeErrs, c.mergeSeconds,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordWrite implements segstore.MetricsCollector.
func (c *Collector) RecordWrite(stream string, bytes int) {
	c.records.WithLabelValues(stream).Inc()
	c.bytes.WithLabelValues(stream).Add(float64(bytes))
}

// RecordRoll implements segstore.MetricsCollector.
func (c *Collector) RecordRoll(stream string, _ int) {
	c.rolls.WithLabelValues(stream).Inc()
}

// RecordProcess implements segstore.MetricsCollector.
func (c *Collector) RecordProcess(stream string, _ int, duration time.Duration, err error) {
	c.processed.WithLabelValues(stream).Observe(duration.Seconds())
	if err != nil {
		c.processErrs.WithLabelValues(stream).Inc()
	}
}

// RecordMerge implements segstore.MetricsCollector.
func (c *Collector) RecordMerge(stream string, segments int, bytes int64, duration time.Duration, err error) {
	c.mergeSeconds.WithLabelValues(stream).Observe(duration.Seconds())
	c.mergedSegs.WithLabelValues(stream).Add(float64(segments))
	c.mergedBytes.WithLabelValues(stream).Add(float64(bytes))
	if err != nil {
		c.mergeErrs.WithLabelValues(stream).Inc()
	}
}
