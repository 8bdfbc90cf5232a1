package stream

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hupe1980/segstore/internal/fs"
	"github.com/hupe1980/segstore/segment"
)

// Names returns the sorted names of the streams that have segments in dir.
// Files that do not follow the segment naming scheme are ignored.
func Names(fsys fs.FileSystem, dir string) ([]string, error) {
	entries, err := fs.OrDefault(fsys).ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("stream: list %s: %w", dir, err)
	}

	seen := make(map[string]struct{})
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, _, ok := segment.ParseFileName(e.Name())
		if !ok {
			continue
		}
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// List returns the existing segments of the named stream in index order
// without creating anything. It fails with ErrNonContiguous on index gaps.
func List(fsys fs.FileSystem, dir, name string) ([]*segment.Segment, error) {
	fsys = fs.OrDefault(fsys)
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("stream %s: list %s: %w", name, dir, err)
	}

	var indices []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n, idx, ok := segment.ParseFileName(e.Name()); ok && n == name {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	segs := make([]*segment.Segment, 0, len(indices))
	for i, idx := range indices {
		if idx != i {
			return nil, fmt.Errorf("%w: %s expected index %d, found %d", ErrNonContiguous, name, i, idx)
		}
		segs = append(segs, segment.At(fsys, filepath.Join(dir, segment.FileName(name, idx))))
	}
	return segs, nil
}
