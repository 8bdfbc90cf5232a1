// Package fs provides the filesystem seam used by segments and stores.
//
//   - [LocalFS]: production implementation backed by the os package
//   - [FaultyFS]: test wrapper that injects open, write, sync and close failures
//
// Production code uses fs.Default. Tests inject a [FaultyFS] to simulate a full
// disk or a failing device:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("events.json.00001", fs.Fault{FailAfterBytes: 0})
//
// Operations take no context.Context: local filesystem calls are not
// interruptible at the syscall level.
package fs
