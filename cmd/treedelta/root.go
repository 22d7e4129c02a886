package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"treedelta/internal/config"
	"treedelta/internal/log"
	"treedelta/internal/tree"
	"treedelta/internal/walker"
)

// errChangesDetected is returned by diff when the trees differ; main maps it
// to exit status 1 without printing an error.
var errChangesDetected = errors.New("changes detected")

const rootLongDescription = `treedelta compares two digest-annotated snapshots of a directory tree and
reports what was added, deleted, changed, renamed, moved or changed kind.
It also lists content that occurs more than once within a snapshot.

Snapshot arguments may be "-" (or omitted, where noted) to read stdin.`

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	workers    int
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "treedelta",
		Short:         "Digest-based directory tree diff",
		Long:          rootLongDescription,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = a.workers
			}
			a.cfg = cfg
			log.Init(cfg.LogLevel, cfg.LogFile)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "treedelta.yaml", "config file path")
	cmd.PersistentFlags().IntVarP(&a.workers, "workers", "w", 0, "number of hashing workers (default from config)")

	cmd.AddCommand(
		newSnapshotCmd(a),
		newPrintCmd(a),
		newDuplicatesCmd(a),
		newDiffCmd(a),
		newScriptCmd(a),
	)
	return cmd
}

func (a *app) walkOptions(progress bool) walker.Options {
	return walker.Options{
		Exclude:  a.cfg.Exclude,
		Workers:  a.cfg.Workers,
		Progress: progress,
	}
}

// readSnapshot decodes the snapshot at path, or stdin for "" and "-".
func readSnapshot(cmd *cobra.Command, path string) (*tree.Node, error) {
	if path == "" || path == "-" {
		root, err := tree.Decode(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot from stdin: %w", err)
		}
		return root, nil
	}
	return readSnapshotFile(path)
}

func readSnapshotFile(path string) (*tree.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	root, err := tree.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return root, nil
}

// writeSnapshotFile replaces path atomically.
func writeSnapshotFile(path string, root *tree.Node) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tree.Encode(tmp, root, true); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func copyFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
