package extraction

import (
	"iter"

	"github.com/hupe1980/segstore/internal/fs"
	"github.com/hupe1980/segstore/model"
)

// Run resolves the manifest against an extracted archive directory and
// returns one (name, records) pair per spec with at least one file. Records
// carry host metadata and the caller's context attributes.
//
// Resolution and host discovery happen eagerly; record files are opened only
// while their pair is drained.
func Run(fsys fs.FileSystem, dir string, m *Manifest, attrs map[string]string) (iter.Seq2[string, model.Sequence], error) {
	sources, err := m.Sources(dir)
	if err != nil {
		return nil, err
	}
	host, err := DiscoverHost(fsys, dir, m.Host)
	if err != nil {
		return nil, err
	}

	type group struct {
		name string
		seqs []model.Sequence
	}
	var groups []*group
	for _, src := range sources {
		if len(groups) == 0 || groups[len(groups)-1].name != src.Name {
			groups = append(groups, &group{name: src.Name})
		}
		g := groups[len(groups)-1]
		g.seqs = append(g.seqs, src.Records(fsys))
	}

	return func(yield func(string, model.Sequence) bool) {
		for _, g := range groups {
			seq := Decorate(Concat(g.seqs...), WithContext(attrs), WithHostMeta(host))
			if !yield(g.name, seq) {
				return
			}
		}
	}, nil
}
