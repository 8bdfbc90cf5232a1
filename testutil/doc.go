// Package testutil provides testing utilities for segstore.
//
// This package is intended for use in tests only. It provides a seeded
// random source for generating record payloads and a helper that lays out
// extracted archive trees on disk.
//
// # Random Payloads
//
//	rng := testutil.NewRNG(seed)
//	line := rng.Text(40)          // 40 printable bytes, no newline
//	recs := rng.Lines(100, 10, 80) // 100 lines of 10..79 bytes
//
// # Archive Trees
//
//	testutil.WriteTree(t, dir, map[string]string{
//	    "etc/hostname":     "db01\n",
//	    "var/log/messages": "kernel: tick\n",
//	})
package testutil
