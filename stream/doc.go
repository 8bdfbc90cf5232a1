// Package stream implements named, size-bounded sequences of segments.
//
// A Writer appends encoded records to the last segment of its stream and rolls
// to a new segment when its Policy says so. Writers resume from whatever
// segments already exist on disk: numbering continues after the highest
// existing index and prior segments are never rewritten.
//
// Two policies are provided:
//
//   - Small: roll when the next record would take the open segment to or past
//     the size cap.
//   - Large: as Small, but only in front of a record whose group marker is 0,
//     so the lines of one source file never straddle a segment boundary. A
//     single group larger than the cap grows its segment past the cap.
//
// MergeFrom concatenates another stream's segments onto this one at the byte
// level while honoring the receiver's cap.
package stream
