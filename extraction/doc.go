// Package extraction turns the files of an extracted support archive into
// (stream name, record sequence) pairs for a segstore.Store.
//
// It is the collaborator side of the store: a YAML Manifest decides which
// files belong to which stream and whether a stream is large, host metadata
// is read from a few well-known files, and every file becomes a lazily opened
// record sequence. Files are only opened while their sequence is drained, so
// discovery never holds file handles.
//
// Small streams get one record per file holding the whole content. Large
// streams get one record per line, numbered from 0 within each file; the
// number is the group marker the large-group roll policy relies on.
package extraction
