package stream

import (
	"fmt"

	"github.com/hupe1980/segstore/codec"
	"github.com/hupe1980/segstore/model"
	"github.com/hupe1980/segstore/segment"
)

// ReadRecords decodes the records of segs in order, one per line.
// A nil codec selects codec.Default.
func ReadRecords(segs []*segment.Segment, c codec.Codec) model.Sequence {
	return func(yield func(model.Record, error) bool) {
		for _, seg := range segs {
			lineNo := 0
			for line, err := range seg.Lines() {
				if err != nil {
					yield(model.Record{}, err)
					return
				}
				lineNo++
				var rec model.Record
				if err := codec.DecodeLine(c, line, &rec); err != nil {
					yield(model.Record{}, fmt.Errorf("stream: decode %s line %d: %w", seg.Path(), lineNo, err))
					return
				}
				if !yield(rec, nil) {
					return
				}
			}
		}
	}
}

// Records returns the stream's records in order. Close the writer first so
// buffered records are visible.
func (w *Writer) Records() model.Sequence {
	return ReadRecords(w.Segments(), w.codec)
}
