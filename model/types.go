package model

import "iter"

// Record is a single extracted datum as persisted on disk, one per line.
type Record struct {
	// Content is the raw payload: a whole file for small streams, a single
	// line for large ones.
	Content string `json:"content"`

	// Number is the group marker of large-group records. It restarts at 0 for
	// every source file and is nil for small records.
	Number *int `json:"number,omitempty"`

	// Path is the source path relative to the archive root.
	Path string `json:"path,omitempty"`

	// Target names the stream the record belongs to.
	Target string `json:"target,omitempty"`

	Hostname string   `json:"hostname"`
	Version  []string `json:"version,omitempty"`
	Uname    string   `json:"uname"`
	Release  string   `json:"release"`

	// Context carries caller-supplied run attributes (archive id, account...).
	Context map[string]string `json:"context,omitempty"`
}

// GroupStart reports whether the record opens a new source-file group.
func (r Record) GroupStart() bool {
	return r.Number != nil && *r.Number == 0
}

// Marker returns a group marker for use in Record.Number.
func Marker(n int) *int {
	return &n
}

// HostMeta identifies the host a support archive was collected from.
type HostMeta struct {
	Hostname string
	// Version is [major, minor] of the OS release, ["-1", "-1"] when unknown.
	Version []string
	Uname   string
	Release string
}

// Apply stamps the host metadata onto r.
func (h HostMeta) Apply(r *Record) {
	r.Hostname = h.Hostname
	r.Version = h.Version
	r.Uname = h.Uname
	r.Release = h.Release
}

// Sequence is a single-pass record iterator. A non-nil error ends the
// sequence; consumers must stop at the first one.
type Sequence = iter.Seq2[Record, error]

// Records returns a Sequence over a fixed slice.
func Records(recs ...Record) Sequence {
	return func(yield func(Record, error) bool) {
		for _, r := range recs {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq Sequence) ([]Record, error) {
	var out []Record
	for r, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}
