package main

import (
	"errors"

	"github.com/spf13/cobra"

	"treedelta/internal/compare"
	"treedelta/internal/log"
	"treedelta/internal/tree"
)

func newDiffCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "diff <old-snapshot> [new-snapshot]",
		Short: "Compare two snapshots",
		Long: `Compare an old snapshot against a new one. The new side is read from
new-snapshot, from stdin when omitted, or taken from a directory with --dir.
Exits with status 1 when the trees differ.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir != "" && len(args) == 2 {
				return errors.New("--dir and new-snapshot are mutually exclusive")
			}

			oldTree, err := readSnapshotFile(args[0])
			if err != nil {
				return err
			}

			var newTree *tree.Node
			if dir != "" {
				newTree, _, err = runWalk(cmd, a, dir)
			} else {
				newTree, err = readSnapshot(cmd, optionalArg(args, 1))
			}
			if err != nil {
				return err
			}

			delta := compare.Diff(oldTree, newTree)
			if err := compare.WriteReport(cmd.OutOrStdout(), delta); err != nil {
				return err
			}

			log.Infof("delta: %s", compare.Summarize(delta))
			if delta.HasChanges() {
				return errChangesDetected
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "snapshot this directory as the new side")
	return cmd
}
