package stream

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/hupe1980/segstore/codec"
	"github.com/hupe1980/segstore/internal/fs"
	"github.com/hupe1980/segstore/model"
	"github.com/hupe1980/segstore/segment"
)

// Writer appends records to a named stream of segments.
//
// At most one segment is open at a time and it is always the last one.
// A Writer is not safe for concurrent use.
type Writer struct {
	name     string
	dir      string
	maxSize  int64
	policy   Policy
	fsys     fs.FileSystem
	codec    codec.Codec
	logger   *slog.Logger
	observer Observer

	segments []*segment.Segment
	app      *segment.Appender
	readOnly bool

	// size tracks the last segment's byte size. It is authoritative while app
	// is open and recomputed from disk after Close.
	size      int64
	sizeKnown bool
}

// Open resumes the named stream from the segments already present in
// Options.Dir, or starts it at index 0.
func Open(name string, optFns ...func(o *Options)) (*Writer, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if opts.MaxSize <= 0 {
		return nil, ErrInvalidMaxSize
	}
	if opts.Policy == nil {
		return nil, ErrNoPolicy
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}

	w := &Writer{
		name:     name,
		dir:      opts.Dir,
		maxSize:  opts.MaxSize,
		policy:   opts.Policy,
		fsys:     fs.OrDefault(opts.FS),
		codec:    opts.Codec,
		logger:   opts.Logger.With("stream", name, "policy", opts.Policy.Name()),
		observer: opts.Observer,
		readOnly: opts.ReadOnly,
	}
	if w.codec == nil {
		w.codec = codec.Default
	}

	if err := w.load(); err != nil {
		return nil, err
	}

	size, err := w.last().Size()
	if err != nil {
		return nil, err
	}
	w.size, w.sizeKnown = size, true

	if size >= w.maxSize && !w.readOnly {
		if err := w.roll(); err != nil {
			return nil, err
		}
	}

	w.logger.Debug("stream opened",
		"segments", len(w.segments),
		"size", w.size,
		"max_size", w.maxSize,
	)
	return w, nil
}

// ValidateName reports whether name can be used as a stream name.
func ValidateName(name string) error {
	if name == "" || strings.ContainsAny(name, `./\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func (w *Writer) load() error {
	segs, err := List(w.fsys, w.dir, w.name)
	if err != nil {
		return err
	}
	w.segments = segs

	if len(w.segments) == 0 {
		if w.readOnly {
			return fmt.Errorf("%w: stream %s has no segments in %s", ErrReadOnly, w.name, w.dir)
		}
		seg, err := segment.Ensure(w.fsys, w.path(0))
		if err != nil {
			return err
		}
		w.segments = append(w.segments, seg)
	} else {
		w.logger.Debug("stream resumed", "segments", len(w.segments))
	}
	return nil
}

func (w *Writer) path(idx int) string {
	return filepath.Join(w.dir, segment.FileName(w.name, idx))
}

func (w *Writer) last() *segment.Segment {
	return w.segments[len(w.segments)-1]
}

// roll closes the open segment and starts the next one empty.
func (w *Writer) roll() error {
	if w.readOnly {
		return fmt.Errorf("%w: stream %s", ErrReadOnly, w.name)
	}
	if err := w.Close(); err != nil {
		return err
	}
	idx := len(w.segments)
	seg, err := segment.Ensure(w.fsys, w.path(idx))
	if err != nil {
		return err
	}
	w.segments = append(w.segments, seg)
	w.size, w.sizeKnown = 0, true

	w.observer.RecordRoll(w.name, idx)
	w.logger.Debug("segment rolled", "index", idx)
	return nil
}

func (w *Writer) currentSize() (int64, error) {
	if w.sizeKnown {
		return w.size, nil
	}
	size, err := w.last().Size()
	if err != nil {
		return 0, err
	}
	w.size, w.sizeKnown = size, true
	return size, nil
}

// Write appends rec as one line, rolling first if the policy demands it.
// A record is never split across segments.
func (w *Writer) Write(rec model.Record) error {
	if w.readOnly {
		return fmt.Errorf("%w: stream %s", ErrReadOnly, w.name)
	}
	line, err := codec.EncodeLine(w.codec, rec)
	if err != nil {
		return fmt.Errorf("%w: stream %s: %w", ErrEncode, w.name, err)
	}

	size, err := w.currentSize()
	if err != nil {
		return err
	}
	if w.policy.ShouldRoll(size, int64(len(line)), w.maxSize, rec) {
		if err := w.roll(); err != nil {
			return err
		}
	}

	if w.app == nil {
		app, err := w.last().OpenForAppend()
		if err != nil {
			return err
		}
		w.app = app
	}

	n, err := w.app.Write(line)
	w.size += int64(n)
	if err != nil {
		return fmt.Errorf("stream %s: write: %w", w.name, err)
	}
	w.observer.RecordWrite(w.name, n)
	return nil
}

// WriteAll drains seq into the stream in order and returns the number of
// records written. The first error, from seq or from a write, stops the drain.
func (w *Writer) WriteAll(seq model.Sequence) (int, error) {
	n := 0
	for rec, err := range seq {
		if err != nil {
			return n, fmt.Errorf("stream %s: record %d: %w", w.name, n, err)
		}
		if err := w.Write(rec); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Close flushes and releases the open segment, if any. The next write
// recomputes the segment size from disk.
func (w *Writer) Close() error {
	w.sizeKnown = false
	if w.app == nil {
		return nil
	}
	err := w.app.Close()
	w.app = nil
	if err != nil {
		return fmt.Errorf("stream %s: close: %w", w.name, err)
	}
	return nil
}

// MergeFrom appends the content of other's segments onto this stream, in
// order, rolling whenever the receiver's cap would be reached. The receiver's
// cap is authoritative. Content is copied verbatim and not re-validated.
func (w *Writer) MergeFrom(other *Writer) (MergeStats, error) {
	var stats MergeStats

	if w.readOnly {
		return stats, fmt.Errorf("%w: stream %s", ErrReadOnly, w.name)
	}
	if other.policy.Name() != w.policy.Name() {
		return stats, fmt.Errorf("%w: %s is %s, other is %s", ErrPolicyMismatch, w.name, w.policy.Name(), other.policy.Name())
	}
	if w == other || (sameDir(w.dir, other.dir) && w.name == other.name) {
		return stats, fmt.Errorf("%w: %s", ErrSelfMerge, w.name)
	}

	if err := errors.Join(w.Close(), other.Close()); err != nil {
		return stats, err
	}

	for _, src := range other.segments {
		srcSize, err := src.Size()
		if err != nil {
			return stats, err
		}
		if srcSize == 0 {
			continue
		}

		lastSize, err := w.last().Size()
		if err != nil {
			return stats, err
		}
		if lastSize >= w.maxSize || (lastSize > 0 && lastSize+srcSize >= w.maxSize) {
			if err := w.roll(); err != nil {
				return stats, err
			}
		}

		n, err := w.last().AppendRaw(src)
		stats.Bytes += n
		if err != nil {
			return stats, err
		}
		stats.Segments++
	}

	size, err := w.last().Size()
	if err != nil {
		return stats, err
	}
	w.size, w.sizeKnown = size, true

	w.logger.Debug("stream merged",
		"from", other.dir,
		"segments", stats.Segments,
		"bytes", stats.Bytes,
	)
	return stats, nil
}

// MergeStats summarizes a merge.
type MergeStats struct {
	Segments int
	Bytes    int64
}

func sameDir(a, b string) bool {
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}

// Name returns the stream name.
func (w *Writer) Name() string { return w.name }

// Dir returns the directory holding the stream's segments.
func (w *Writer) Dir() string { return w.dir }

// MaxSize returns the segment size cap.
func (w *Writer) MaxSize() int64 { return w.maxSize }

// Policy returns the roll policy.
func (w *Writer) Policy() Policy { return w.policy }

// ReadOnly reports whether the stream was opened read-only.
func (w *Writer) ReadOnly() bool { return w.readOnly }

// Segments returns the stream's segments in index order.
func (w *Writer) Segments() []*segment.Segment {
	out := make([]*segment.Segment, len(w.segments))
	copy(out, w.segments)
	return out
}

// Size returns the total on-disk size of all segments. Buffered bytes of an
// open handle are not included until Close.
func (w *Writer) Size() (int64, error) {
	var total int64
	for _, s := range w.segments {
		n, err := s.Size()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
