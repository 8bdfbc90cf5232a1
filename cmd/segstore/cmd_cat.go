package main

import (
	"bufio"
	"fmt"

	"github.com/hupe1980/segstore/stream"
	"github.com/spf13/cobra"
)

func (c *cli) catCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat ROOT STREAM",
		Short: "Print a stream's records in order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			segs, err := stream.List(nil, args[0], args[1])
			if err != nil {
				return err
			}
			if len(segs) == 0 {
				return fmt.Errorf("stream %q not found in %s", args[1], args[0])
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			for _, seg := range segs {
				for line, err := range seg.Lines() {
					if err != nil {
						return err
					}
					if _, err := w.Write(line); err != nil {
						return err
					}
				}
			}
			return w.Flush()
		},
	}
}
