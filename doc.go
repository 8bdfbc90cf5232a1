// Package segstore accumulates extracted diagnostic records into
// size-bounded, resumable segment files and merges independently produced
// stores.
//
// A Store owns a root directory holding one stream per record category. Each
// stream is a sequence of newline-delimited JSON segments named
// <stream>.json.<index>:
//
//	root/
//	  hostname.json.00000
//	  messages.json.00000
//	  messages.json.00001
//
// # Quick Start
//
//	s, _ := segstore.Open("./out", func(o *segstore.Options) {
//	    o.IsLarge = func(name string) bool { return name == "messages" }
//	})
//	defer s.Close()
//
//	// pairs yields (stream name, records), e.g. from extraction.Run.
//	err := s.Process(pairs)
//
// # Large Streams
//
// Streams classified as large store one record per source line, each carrying
// a group marker that restarts at 0 for every source file. They roll only in
// front of a marker of 0 so a source file is never split across segments.
//
// # Merging
//
// Independent extraction passes can write to distinct roots and be combined
// afterwards without re-running extraction:
//
//	dst, _ := segstore.Open("./merged")
//	src, _ := segstore.Open("./part-1")
//	err := dst.MergeFrom(src)
//
// This is also the way to parallelize: two Stores must never share a root.
package segstore
