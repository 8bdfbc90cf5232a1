package segstore

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"sort"
	"time"

	"github.com/hupe1980/segstore/internal/fs"
	"github.com/hupe1980/segstore/model"
	"github.com/hupe1980/segstore/segment"
	"github.com/hupe1980/segstore/stream"
)

// Store owns a root directory and the streams inside it.
//
// A Store never deletes data. Two Stores must not share a root concurrently;
// write to distinct roots and combine them with MergeFrom instead.
// A Store is not safe for concurrent use.
type Store struct {
	root    string
	opts    Options
	fsys    fs.FileSystem
	logger  *Logger
	metrics MetricsCollector
	streams map[string]*stream.Writer
}

// Open opens the store rooted at root, creating the directory if needed, and
// resumes every stream already present in it. With WithReadOnly the root
// must already exist and nothing in it is modified.
func Open(root string, optFns ...func(o *Options)) (*Store, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SmallMaxSize <= 0 || opts.LargeMaxSize <= 0 {
		return nil, ErrInvalidMaxSize
	}
	if opts.IsLarge == nil {
		opts.IsLarge = DefaultOptions.IsLarge
	}
	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = NoopMetricsCollector{}
	}

	s := &Store{
		root:    root,
		opts:    opts,
		fsys:    fs.OrDefault(opts.FS),
		logger:  opts.Logger.WithRoot(root),
		metrics: opts.Metrics,
		streams: make(map[string]*stream.Writer),
	}

	err := s.discover()
	s.logger.LogOpen(context.Background(), len(s.streams), err)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) discover() error {
	if s.opts.ReadOnly {
		st, err := s.fsys.Stat(s.root)
		if err != nil {
			return fmt.Errorf("open store root: %w", err)
		}
		if !st.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotDirectory, s.root)
		}
	} else if err := s.fsys.MkdirAll(s.root, 0o750); err != nil {
		return fmt.Errorf("create store root: %w", err)
	}

	entries, err := s.fsys.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("list store root: %w", err)
	}

	names := make(map[string]struct{})
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, _, ok := segment.ParseFileName(e.Name())
		if !ok {
			s.logger.Debug("ignoring foreign file", "file", e.Name())
			continue
		}
		names[name] = struct{}{}
	}

	for _, name := range sortedKeys(names) {
		if _, err := s.open(name); err != nil {
			return err
		}
	}
	return nil
}

// Stream returns the named stream, creating it on first access with the
// policy and cap selected by the classifier.
func (s *Store) Stream(name string) (*stream.Writer, error) {
	if w, ok := s.streams[name]; ok {
		return w, nil
	}
	if s.opts.ReadOnly {
		return nil, streamError("open", name, ErrReadOnly)
	}
	return s.open(name)
}

func (s *Store) open(name string) (*stream.Writer, error) {
	large := s.opts.IsLarge(name)
	maxSize := s.opts.SmallMaxSize
	if large {
		maxSize = s.opts.LargeMaxSize
	}

	w, err := stream.Open(name, func(o *stream.Options) {
		o.Dir = s.root
		o.MaxSize = maxSize
		o.Policy = stream.PolicyFor(large)
		o.FS = s.fsys
		o.Codec = s.opts.Codec
		o.Logger = s.logger.Logger
		o.Observer = s.metrics
		o.ReadOnly = s.opts.ReadOnly
	})
	if err != nil {
		return nil, streamError("open", name, err)
	}
	s.streams[name] = w
	return w, nil
}

// Process drains each (name, records) pair into the matching stream and
// closes the stream before moving on, so at most one segment is open at a
// time across the whole pass. The first error stops processing.
func (s *Store) Process(pairs iter.Seq2[string, model.Sequence]) error {
	for name, records := range pairs {
		if err := s.process(name, records); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) process(name string, records model.Sequence) error {
	start := time.Now()

	w, err := s.Stream(name)
	if err != nil {
		return err
	}

	n, err := w.WriteAll(records)
	err = errors.Join(err, w.Close())

	elapsed := time.Since(start)
	s.metrics.RecordProcess(name, n, elapsed, err)
	s.logger.WithStream(name).LogProcess(context.Background(), n, elapsed, err)
	return streamError("process", name, err)
}

// MergeFrom merges every stream of other into the stream of the same name in
// s, creating it when needed. Each stream keeps obeying its own cap and
// grouping policy; the receiver's caps are authoritative.
func (s *Store) MergeFrom(other *Store) error {
	if s == other || sameRoot(s.root, other.root) {
		return fmt.Errorf("%w: %s", ErrSelfMerge, s.root)
	}
	if s.opts.ReadOnly {
		return fmt.Errorf("%w: %s", ErrReadOnly, s.root)
	}

	for _, name := range other.Names() {
		start := time.Now()

		w, err := s.Stream(name)
		if err != nil {
			return err
		}
		stats, err := w.MergeFrom(other.streams[name])

		s.metrics.RecordMerge(name, stats.Segments, stats.Bytes, time.Since(start), err)
		s.logger.WithStream(name).LogMerge(context.Background(), other.root, stats.Segments, stats.Bytes, err)
		if err != nil {
			return streamError("merge", name, err)
		}
	}
	return nil
}

// Names returns the names of all known streams, sorted.
func (s *Store) Names() []string {
	names := make(map[string]struct{}, len(s.streams))
	for name := range s.streams {
		names[name] = struct{}{}
	}
	return sortedKeys(names)
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// StreamStats describes one stream of a store.
type StreamStats struct {
	Name     string
	Policy   string
	MaxSize  int64
	Segments int
	Bytes    int64
}

// Stats returns per-stream statistics, sorted by name.
func (s *Store) Stats() ([]StreamStats, error) {
	out := make([]StreamStats, 0, len(s.streams))
	for _, name := range s.Names() {
		w := s.streams[name]
		size, err := w.Size()
		if err != nil {
			return nil, streamError("stat", name, err)
		}
		out = append(out, StreamStats{
			Name:     name,
			Policy:   w.Policy().Name(),
			MaxSize:  w.MaxSize(),
			Segments: len(w.Segments()),
			Bytes:    size,
		})
	}
	return out, nil
}

// Close releases every open segment handle.
func (s *Store) Close() error {
	var errs []error
	for _, name := range s.Names() {
		if err := s.streams[name].Close(); err != nil {
			errs = append(errs, streamError("close", name, err))
		}
	}
	return errors.Join(errs...)
}

func sameRoot(a, b string) bool {
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
