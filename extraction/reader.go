package extraction

import (
	"bufio"
	"errors"
	"io"

	"github.com/hupe1980/segstore/model"
)

// Transform turns an open source file into records. It is applied once per
// file and must not retain r after the sequence ends.
type Transform func(r io.Reader) model.Sequence

// WholeFile yields a single record holding the full content of r.
func WholeFile(r io.Reader) model.Sequence {
	return func(yield func(model.Record, error) bool) {
		data, err := io.ReadAll(r)
		if err != nil {
			yield(model.Record{}, err)
			return
		}
		yield(model.Record{Content: string(data)}, nil)
	}
}

// Lines yields one record per line of r, newline included, numbered from 0.
func Lines(r io.Reader) model.Sequence {
	return func(yield func(model.Record, error) bool) {
		br := bufio.NewReader(r)
		for n := 0; ; n++ {
			line, err := br.ReadString('\n')
			if line != "" {
				if !yield(model.Record{Content: line, Number: model.Marker(n)}, nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(model.Record{}, err)
				return
			}
		}
	}
}

// TransformFor returns Lines for large streams and WholeFile otherwise.
func TransformFor(large bool) Transform {
	if large {
		return Lines
	}
	return WholeFile
}

// Concat chains sequences into one, in order.
func Concat(seqs ...model.Sequence) model.Sequence {
	return func(yield func(model.Record, error) bool) {
		for _, seq := range seqs {
			for rec, err := range seq {
				if !yield(rec, err) || err != nil {
					return
				}
			}
		}
	}
}

// Decorate applies fns to every record of seq.
func Decorate(seq model.Sequence, fns ...func(*model.Record)) model.Sequence {
	return func(yield func(model.Record, error) bool) {
		for rec, err := range seq {
			if err == nil {
				for _, fn := range fns {
					fn(&rec)
				}
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// WithPath sets the record's source path.
func WithPath(path string) func(*model.Record) {
	return func(r *model.Record) { r.Path = path }
}

// WithTarget sets the record's stream name.
func WithTarget(name string) func(*model.Record) {
	return func(r *model.Record) { r.Target = name }
}

// WithHostMeta stamps host metadata onto the record.
func WithHostMeta(h model.HostMeta) func(*model.Record) {
	return h.Apply
}

// WithContext attaches caller-supplied run attributes. They are encoded as a
// nested "context" object. The map is shared, not copied.
func WithContext(kv map[string]string) func(*model.Record) {
	return func(r *model.Record) {
		if len(kv) > 0 {
			r.Context = kv
		}
	}
}
