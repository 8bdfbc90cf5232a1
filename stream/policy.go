package stream

import "github.com/hupe1980/segstore/model"

// Policy decides when a writer closes its segment and opens the next one.
type Policy interface {
	// Name identifies the policy; merges require matching names.
	Name() string

	// ShouldRoll is evaluated once per record, before it is written. size is
	// the byte size of the open segment, next the encoded length of rec and
	// max the writer's cap.
	ShouldRoll(size, next, max int64, rec model.Record) bool
}

var (
	// Small rolls purely on size.
	Small Policy = sizePolicy{}

	// Large rolls on size, but only at the start of a source-file group.
	Large Policy = groupPolicy{}
)

type sizePolicy struct{}

func (sizePolicy) Name() string { return "small" }

func (sizePolicy) ShouldRoll(size, next, max int64, _ model.Record) bool {
	// An empty segment always takes the record, however large.
	return size > 0 && size+next >= max
}

type groupPolicy struct{}

func (groupPolicy) Name() string { return "large" }

func (groupPolicy) ShouldRoll(size, next, max int64, rec model.Record) bool {
	return sizePolicy{}.ShouldRoll(size, next, max, rec) && rec.GroupStart()
}

// PolicyFor returns Large when large is set, Small otherwise.
func PolicyFor(large bool) Policy {
	if large {
		return Large
	}
	return Small
}
