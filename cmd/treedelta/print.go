package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"treedelta/internal/tree"
)

func newPrintCmd(_ *app) *cobra.Command {
	var seal bool

	cmd := &cobra.Command{
		Use:   "print [snapshot]",
		Short: "Decode a snapshot and print it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := readSnapshot(cmd, optionalArg(args, 0))
			if err != nil {
				return err
			}
			if err := tree.Encode(cmd.OutOrStdout(), root, seal); err != nil {
				return fmt.Errorf("failed to print snapshot: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&seal, "seal", false, "append the merkle seal trailer")
	return cmd
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
