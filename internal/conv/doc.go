// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow/underflow
// when converting between signed and unsigned 64-bit integers.
//
// Use cases:
//   - Validating user-supplied sizes (flags, config files) parsed as uint64
//   - Formatting int64 byte counts with helpers that take uint64
package conv
