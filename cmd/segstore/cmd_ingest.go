package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/segstore"
	"github.com/hupe1980/segstore/extraction"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (c *cli) ingestCmd() *cobra.Command {
	var attrs map[string]string

	cmd := &cobra.Command{
		Use:   "ingest ROOT DIR...",
		Short: "Ingest extracted archive directories into a store",
		Long: `Ingest resolves the manifest against every extracted archive directory
and appends the resulting records to the store at ROOT.

With --parallel N > 1 every directory is written to its own staging store
first, N at a time, and the staging stores are merged into ROOT in argument
order afterwards.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.manifest == nil {
				return errors.New("ingest requires --manifest")
			}
			root, dirs := args[0], args[1:]
			if n := c.v.GetInt("parallel"); n > 1 && len(dirs) > 1 {
				return c.ingestParallel(root, dirs, attrs, n)
			}
			return c.ingestSequential(root, dirs, attrs)
		},
	}

	cmd.Flags().Int("parallel", 1, "Number of archive directories ingested concurrently")
	cmd.Flags().StringToStringVar(&attrs, "context", nil, "Context attribute added to every record (key=value, repeatable)")
	return cmd
}

func (c *cli) ingestSequential(root string, dirs []string, attrs map[string]string) (err error) {
	s, err := c.openStore(root)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.Close()) }()

	for _, dir := range dirs {
		if err := c.ingestDir(s, dir, attrs); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) ingestParallel(root string, dirs []string, attrs map[string]string, n int) (err error) {
	staging, err := os.MkdirTemp("", "segstore-ingest-")
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, os.RemoveAll(staging)) }()

	parts := make([]*segstore.Store, len(dirs))
	var g errgroup.Group
	g.SetLimit(n)
	for i, dir := range dirs {
		g.Go(func() error {
			s, err := c.openStore(filepath.Join(staging, fmt.Sprintf("part-%05d", i)))
			if err != nil {
				return err
			}
			parts[i] = s
			return errors.Join(c.ingestDir(s, dir, attrs), s.Close())
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	dest, err := c.openStore(root)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, dest.Close()) }()

	for i, part := range parts {
		if err := dest.MergeFrom(part); err != nil {
			return fmt.Errorf("merge %s: %w", dirs[i], err)
		}
	}
	return nil
}

func (c *cli) ingestDir(s *segstore.Store, dir string, attrs map[string]string) error {
	pairs, err := extraction.Run(nil, dir, c.manifest, attrs)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", dir, err)
	}
	if err := s.Process(pairs); err != nil {
		return fmt.Errorf("ingest %s: %w", dir, err)
	}
	return nil
}
