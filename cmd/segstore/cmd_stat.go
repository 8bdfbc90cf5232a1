package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/hupe1980/segstore/internal/conv"
	"github.com/hupe1980/segstore/stream"
	"github.com/spf13/cobra"
)

func (c *cli) statCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat ROOT",
		Short: "Show per-stream segment counts and sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			names, err := stream.Names(nil, root)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STREAM\tPOLICY\tSEGMENTS\tSIZE")

			var total int64
			for _, name := range names {
				segs, err := stream.List(nil, root, name)
				if err != nil {
					return err
				}
				var size int64
				for _, seg := range segs {
					n, err := seg.Size()
					if err != nil {
						return err
					}
					size += n
				}
				total += size
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
					name, stream.PolicyFor(c.isLarge(name)).Name(), len(segs), formatBytes(size))
			}
			fmt.Fprintf(tw, "total\t\t\t%s\n", formatBytes(total))
			return tw.Flush()
		},
	}
}

// formatBytes renders a byte count in IEC units.
func formatBytes(n int64) string {
	u, err := conv.Int64ToUint64(n)
	if err != nil {
		return fmt.Sprintf("%d B", n)
	}
	return humanize.IBytes(u)
}
