package main

import (
	"github.com/spf13/cobra"

	"treedelta/internal/compare"
	"treedelta/internal/index"
	"treedelta/internal/log"
	"treedelta/internal/tree"
)

func newDuplicatesCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "duplicates [snapshot]",
		Short: "List content that occurs at more than one path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				root *tree.Node
				err  error
			)
			if dir != "" {
				root, _, err = runWalk(cmd, a, dir)
			} else {
				root, err = readSnapshot(cmd, optionalArg(args, 0))
			}
			if err != nil {
				return err
			}

			dups := index.Duplicates(root)
			log.Infof("%d duplicated digests", len(dups))
			return compare.WriteDuplicates(cmd.OutOrStdout(), dups)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "snapshot this directory instead of reading a snapshot")
	return cmd
}
