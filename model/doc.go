// Package model defines the record types that flow into a store.
//
// # Records
//
//   - Record: one extracted datum plus its provenance and host metadata
//   - HostMeta: host-identifying fields stamped onto every record of a run
//   - Sequence: a single-pass, pull-based iterator of records
//
// Large-group streams additionally rely on Record.Number, the zero-based
// position of the record inside its source file. A record whose Number is 0
// starts a new group:
//
//	rec := model.Record{Content: "line 1\n", Number: model.Marker(0)}
//	rec.GroupStart() // true
package model
