package segment

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/hupe1980/segstore/internal/fs"
)

// ChunkSize is the unit in which raw appends and hashing move bytes.
const ChunkSize = 64 * 1024

const filePerm = 0o644

// Segment is a single append-only file.
// Identity is path based; Size is always read from the filesystem.
type Segment struct {
	fsys fs.FileSystem
	path string
}

// Ensure returns the segment at path, creating an empty file if it does not
// exist yet. Existing content is never touched.
func Ensure(fsys fs.FileSystem, path string) (*Segment, error) {
	fsys = fs.OrDefault(fsys)
	f, err := fsys.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return nil, fmt.Errorf("segment: ensure %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("segment: ensure %s: %w", path, err)
	}
	return &Segment{fsys: fsys, path: path}, nil
}

// At returns the segment at path without touching the filesystem.
// Use it for segments that are only read; writers go through Ensure.
func At(fsys fs.FileSystem, path string) *Segment {
	return &Segment{fsys: fs.OrDefault(fsys), path: path}
}

// Path returns the segment's file path.
func (s *Segment) Path() string {
	return s.path
}

// Size returns the current byte length of the segment.
func (s *Segment) Size() (int64, error) {
	st, err := s.fsys.Stat(s.path)
	if err != nil {
		return 0, fmt.Errorf("segment: stat %s: %w", s.path, err)
	}
	return st.Size(), nil
}

// Appender is a buffered append handle on a segment.
// Close must be called to flush; it releases the file even when flushing fails.
type Appender struct {
	f       fs.File
	w       *bufio.Writer
	written int64
	closed  bool
}

// OpenForAppend opens the segment for appending.
func (s *Segment) OpenForAppend() (*Appender, error) {
	f, err := s.fsys.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return nil, fmt.Errorf("segment: open %s: %w", s.path, err)
	}
	return &Appender{f: f, w: bufio.NewWriterSize(f, ChunkSize)}, nil
}

// Write appends p to the segment.
func (a *Appender) Write(p []byte) (int, error) {
	n, err := a.w.Write(p)
	a.written += int64(n)
	return n, err
}

// Written returns the number of bytes accepted since the handle was opened.
func (a *Appender) Written() int64 {
	return a.written
}

// Close flushes buffered bytes, syncs them to stable storage when anything
// was written, and closes the file. It is idempotent.
func (a *Appender) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	var syncErr error
	flushErr := a.w.Flush()
	if flushErr == nil && a.written > 0 {
		syncErr = a.f.Sync()
	}
	closeErr := a.f.Close()
	return errors.Join(flushErr, syncErr, closeErr)
}

// Update runs fn with an open appender and flushes and closes it on every exit
// path, including a failing fn.
func (s *Segment) Update(fn func(*Appender) error) (err error) {
	a, err := s.OpenForAppend()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("segment: close %s: %w", s.path, cerr))
		}
	}()
	return fn(a)
}

// AppendRaw copies src's bytes onto the end of s in ChunkSize pieces and
// returns the number of bytes copied. It does not interpret the content.
func (s *Segment) AppendRaw(src *Segment) (int64, error) {
	if src.path == s.path {
		return 0, fmt.Errorf("segment: append %s onto itself", s.path)
	}
	r, err := src.fsys.OpenFile(src.path, os.O_RDONLY, 0)
	if err != nil {
		return 0, fmt.Errorf("segment: open %s: %w", src.path, err)
	}
	defer r.Close()

	var n int64
	err = s.Update(func(a *Appender) error {
		buf := make([]byte, ChunkSize)
		// Wrapping hides ReaderFrom/WriterTo so the copy always goes through buf.
		var cerr error
		n, cerr = io.CopyBuffer(struct{ io.Writer }{a}, struct{ io.Reader }{r}, buf)
		return cerr
	})
	if err != nil {
		return n, fmt.Errorf("segment: append %s onto %s: %w", src.path, s.path, err)
	}
	return n, nil
}

// OpenReader opens the segment for reading from the start.
func (s *Segment) OpenReader() (io.ReadCloser, error) {
	f, err := s.fsys.OpenFile(s.path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("segment: open %s: %w", s.path, err)
	}
	return f, nil
}

// Hash returns the SHA-256 digest of the segment's full content.
func (s *Segment) Hash() ([]byte, error) {
	f, err := s.fsys.OpenFile(s.path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("segment: open %s: %w", s.path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.CopyBuffer(h, struct{ io.Reader }{f}, make([]byte, ChunkSize)); err != nil {
		return nil, fmt.Errorf("segment: hash %s: %w", s.path, err)
	}
	return h.Sum(nil), nil
}

// ContentEquals reports whether both segments hold byte-identical content.
func (s *Segment) ContentEquals(other *Segment) (bool, error) {
	if s == other || s.path == other.path {
		return true, nil
	}
	a, err := s.Hash()
	if err != nil {
		return false, err
	}
	b, err := other.Hash()
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}

// Lines iterates over the segment's newline-terminated lines in order.
// The yielded slice is only valid until the next iteration.
func (s *Segment) Lines() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		f, err := s.fsys.OpenFile(s.path, os.O_RDONLY, 0)
		if err != nil {
			yield(nil, fmt.Errorf("segment: open %s: %w", s.path, err))
			return
		}
		defer f.Close()

		r := bufio.NewReaderSize(f, ChunkSize)
		for {
			line, err := r.ReadSlice('\n')
			if errors.Is(err, bufio.ErrBufferFull) {
				// Long line: fall back to an owned, growing buffer.
				head := append([]byte(nil), line...)
				rest, rerr := r.ReadBytes('\n')
				line, err = append(head, rest...), rerr
			}
			if len(line) > 0 {
				if !yield(line, nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("segment: read %s: %w", s.path, err))
				return
			}
		}
	}
}
