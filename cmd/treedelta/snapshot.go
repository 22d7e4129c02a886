package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"treedelta/internal/log"
	"treedelta/internal/tree"
	"treedelta/internal/walker"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var seal bool

	cmd := &cobra.Command{
		Use:   "snapshot <directory> [output]",
		Short: "Walk a directory and write its digest snapshot",
		Long: `Walk a directory, hash every regular file and write the snapshot to output,
or to stdout when no output is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, errs, err := runWalk(cmd, a, args[0])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				if err := writeSnapshotFile(args[1], root); err != nil {
					return err
				}
				log.Infof("snapshot written to %s", args[1])
			} else if err := tree.Encode(cmd.OutOrStdout(), root, seal); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}

			if len(errs) > 0 {
				log.Warnf("skipped %s due to errors", humanize.Comma(int64(len(errs))))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&seal, "seal", true, "append the merkle seal trailer when writing to stdout")
	return cmd
}

// runWalk snapshots a directory with the configured exclusions and workers.
func runWalk(cmd *cobra.Command, a *app, dir string) (*tree.Node, []error, error) {
	root, errs, err := walker.Snapshot(cmd.Context(), dir, a.walkOptions(true))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to snapshot %s: %w", dir, err)
	}

	files := 0
	tree.Walk(root, func(_ string, n *tree.Node) {
		if !n.IsDir() {
			files++
		}
	})
	log.Infof("snapshot of %s: %s files, root %s", dir, humanize.Comma(int64(files)), root.Digest())
	return root, errs, nil
}
