package extraction

import (
	"fmt"
	"iter"
	"os"

	"github.com/hupe1980/segstore/internal/fs"
	"github.com/hupe1980/segstore/model"
)

// FileSource is one (stream name, file, transform) triple.
type FileSource struct {
	// Name is the stream the file's records go to.
	Name string

	// Path is where the file is read from.
	Path string

	// RelPath is the path recorded on each record, relative to the archive root.
	RelPath string

	// Transform turns the open file into records. Defaults to WholeFile.
	Transform Transform
}

// Records returns the file's records with path and target set. The file is
// opened when iteration starts and closed when it ends, early or not.
func (s FileSource) Records(fsys fs.FileSystem) model.Sequence {
	fsys = fs.OrDefault(fsys)
	transform := s.Transform
	if transform == nil {
		transform = WholeFile
	}
	return func(yield func(model.Record, error) bool) {
		f, err := fsys.OpenFile(s.Path, os.O_RDONLY, 0)
		if err != nil {
			yield(model.Record{}, fmt.Errorf("extraction: open %s: %w", s.Path, err))
			return
		}
		defer f.Close()

		seq := Decorate(transform(f), WithPath(s.RelPath), WithTarget(s.Name))
		for rec, err := range seq {
			if err != nil {
				err = fmt.Errorf("extraction: read %s: %w", s.Path, err)
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Pairs adapts file triples to the (name, records) pairs a store consumes.
// Nothing is opened until a pair's sequence is drained.
func Pairs(fsys fs.FileSystem, sources iter.Seq[FileSource]) iter.Seq2[string, model.Sequence] {
	return func(yield func(string, model.Sequence) bool) {
		for src := range sources {
			if !yield(src.Name, src.Records(fsys)) {
				return
			}
		}
	}
}
