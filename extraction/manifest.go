package extraction

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hupe1980/segstore/stream"
	"gopkg.in/yaml.v3"
)

// Spec maps a stream name to the archive files that feed it.
type Spec struct {
	Name  string   `yaml:"name"`
	Large bool     `yaml:"large"`
	Paths []string `yaml:"paths"`
}

// HostFiles names the archive files host metadata is read from.
type HostFiles struct {
	Hostname string `yaml:"hostname"`
	Release  string `yaml:"release"`
	Uname    string `yaml:"uname"`
}

// Manifest describes which archive files become which streams.
type Manifest struct {
	Specs []Spec    `yaml:"specs"`
	Host  HostFiles `yaml:"host"`
}

// DefaultHostFiles are the host files of a typical insights/sosreport archive.
var DefaultHostFiles = HostFiles{
	Hostname: "etc/hostname",
	Release:  "etc/redhat-release",
	Uname:    "sos_commands/kernel/uname_-a",
}

// LoadManifest reads and validates a YAML manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: manifest path is user supplied by design
	if err != nil {
		return nil, fmt.Errorf("extraction: read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes and validates a YAML manifest. Host files the
// manifest does not name fall back to DefaultHostFiles.
func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{Host: DefaultHostFiles}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("extraction: parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that spec names are usable stream names and unique.
func (m *Manifest) Validate() error {
	if len(m.Specs) == 0 {
		return errors.New("extraction: manifest has no specs")
	}
	seen := make(map[string]struct{}, len(m.Specs))
	for _, s := range m.Specs {
		if err := stream.ValidateName(s.Name); err != nil {
			return fmt.Errorf("extraction: spec: %w", err)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("extraction: duplicate spec %q", s.Name)
		}
		if len(s.Paths) == 0 {
			return fmt.Errorf("extraction: spec %q has no paths", s.Name)
		}
		for _, p := range s.Paths {
			if _, err := filepath.Match(p, ""); err != nil {
				return fmt.Errorf("extraction: spec %q: bad pattern %q: %w", s.Name, p, err)
			}
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

// IsLarge reports whether the named stream is declared large.
// Unknown names are small.
func (m *Manifest) IsLarge(name string) bool {
	for _, s := range m.Specs {
		if s.Name == name {
			return s.Large
		}
	}
	return false
}

// Sources resolves every spec against an extracted archive directory. Files
// are returned in spec order, then path order; a file matched by several
// patterns of one spec is listed once. Only regular files are returned.
func (m *Manifest) Sources(dir string) ([]FileSource, error) {
	var out []FileSource
	for _, s := range m.Specs {
		seen := make(map[string]struct{})
		var rels []string
		for _, pattern := range s.Paths {
			matches, err := filepath.Glob(filepath.Join(dir, filepath.FromSlash(pattern)))
			if err != nil {
				return nil, fmt.Errorf("extraction: spec %q: %w", s.Name, err)
			}
			for _, match := range matches {
				st, err := os.Stat(match)
				if err != nil || !st.Mode().IsRegular() {
					continue
				}
				rel, err := filepath.Rel(dir, match)
				if err != nil {
					return nil, err
				}
				if _, ok := seen[rel]; ok {
					continue
				}
				seen[rel] = struct{}{}
				rels = append(rels, rel)
			}
		}
		sort.Strings(rels)
		for _, rel := range rels {
			out = append(out, FileSource{
				Name:      s.Name,
				Path:      filepath.Join(dir, rel),
				RelPath:   filepath.ToSlash(rel),
				Transform: TransformFor(s.Large),
			})
		}
	}
	return out, nil
}
