// Package segment implements the physical files a stream is made of.
//
// A Segment is an append-only file named <stream>.json.<index>, where index is
// a zero-padded, contiguous integer starting at 0. Segments are created empty
// the first time they are referenced, grow only by appends, and are never
// truncated or rewritten.
//
// Appends go through a scoped, buffered handle:
//
//	err := seg.Update(func(a *segment.Appender) error {
//	    _, err := a.Write(line)
//	    return err
//	})
//
// AppendRaw concatenates another segment's bytes in fixed-size chunks, which is
// the primitive stream merges are built on. ContentEquals compares two segments
// by SHA-256 digest and is meant for verification, not for the write path.
package segment
