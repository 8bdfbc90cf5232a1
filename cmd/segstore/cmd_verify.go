package main

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/hupe1980/segstore/segment"
	"github.com/hupe1980/segstore/stream"
	"github.com/spf13/cobra"
)

var errStoresDiffer = errors.New("stores differ")

func (c *cli) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify A B",
		Short: "Compare the content of two stores stream by stream",
		Long: `Verify reports whether every stream holds the same bytes in A and B,
regardless of where segment boundaries fall.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b := args[0], args[1]
			namesA, err := stream.Names(nil, a)
			if err != nil {
				return err
			}
			namesB, err := stream.Names(nil, b)
			if err != nil {
				return err
			}
			names := append(slices.Clone(namesA), namesB...)
			slices.Sort(names)
			names = slices.Compact(names)

			out := cmd.OutOrStdout()
			differ := false
			for _, name := range names {
				ha, err := streamHash(a, name)
				if err != nil {
					return err
				}
				hb, err := streamHash(b, name)
				if err != nil {
					return err
				}
				status := "ok"
				if !bytes.Equal(ha, hb) {
					status, differ = "differs", true
				}
				fmt.Fprintf(out, "%s\t%s\n", name, status)
			}
			if differ {
				return errStoresDiffer
			}
			return nil
		},
	}
}

// streamHash digests the concatenated content of a stream's segments.
// A missing stream hashes like an empty one.
func streamHash(root, name string) ([]byte, error) {
	segs, err := stream.List(nil, root, name)
	if err != nil {
		return nil, err
	}
	h := sha256.New()
	buf := make([]byte, segment.ChunkSize)
	for _, seg := range segs {
		r, err := seg.OpenReader()
		if err != nil {
			return nil, err
		}
		_, err = io.CopyBuffer(h, r, buf)
		err = errors.Join(err, r.Close())
		if err != nil {
			return nil, fmt.Errorf("hash %s: %w", seg.Path(), err)
		}
	}
	return h.Sum(nil), nil
}
