package main

import (
	"errors"
	"fmt"

	"github.com/hupe1980/segstore"
	"github.com/spf13/cobra"
)

func (c *cli) mergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge DEST SRC...",
		Short: "Merge stores into DEST",
		Long: `Merge appends the segments of every SRC store to the matching streams of
DEST, in argument order. DEST's segment caps apply. Every SRC must be an
existing store directory; sources are opened read-only and left intact.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			dest, err := c.openStore(args[0])
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, dest.Close()) }()

			for _, root := range args[1:] {
				src, err := c.openStore(root, segstore.WithReadOnly())
				if err != nil {
					return fmt.Errorf("merge %s: %w", root, err)
				}
				err = dest.MergeFrom(src)
				err = errors.Join(err, src.Close())
				if err != nil {
					return fmt.Errorf("merge %s: %w", root, err)
				}
			}
			return nil
		},
	}
}
