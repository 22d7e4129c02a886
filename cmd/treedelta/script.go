package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"treedelta/internal/compare"
	"treedelta/internal/index"
	"treedelta/internal/log"
	"treedelta/internal/tree"
)

const acceptPrompt = "type <y> to accept changes (else abort): "

func newScriptCmd(a *app) *cobra.Command {
	var (
		noDuplicates bool
		backupPrefix string
	)

	cmd := &cobra.Command{
		Use:   "script <directory>",
		Short: "Snapshot a directory and accept or abort its changes",
		Long: `Snapshot a directory and compare it with the snapshot stored inside it.
Duplicates are listed first. Without a stored snapshot, or without changes,
the new snapshot is stored right away; otherwise the delta is shown and the
snapshot is only replaced after answering "y".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("backup") {
				backupPrefix = a.cfg.BackupPrefix
			}
			s := &script{
				out:          cmd.OutOrStdout(),
				in:           cmd.InOrStdin(),
				snapshotPath: filepath.Join(args[0], a.cfg.SnapshotFile),
				backupPrefix: backupPrefix,
				duplicates:   !noDuplicates,
			}

			newTree, _, err := runWalk(cmd, a, args[0])
			if err != nil {
				return err
			}
			return s.run(newTree)
		},
	}

	cmd.Flags().BoolVar(&noDuplicates, "no-duplicates", false, "do not list duplicates")
	cmd.Flags().StringVar(&backupPrefix, "backup", "", "copy the replaced snapshot to this prefix plus a timestamp")
	return cmd
}

type script struct {
	out          io.Writer
	in           io.Reader
	snapshotPath string
	backupPrefix string
	duplicates   bool
	now          func() time.Time
}

func (s *script) run(newTree *tree.Node) error {
	newIndex := index.Build(newTree)

	fmt.Fprintln(s.out)
	if s.duplicates {
		if err := compare.WriteDuplicates(s.out, newIndex.Duplicates()); err != nil {
			return err
		}
		fmt.Fprintln(s.out)
	}

	oldTree, err := readSnapshotFile(s.snapshotPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Infof("no snapshot at %s, storing the first one", s.snapshotPath)
		return s.store(newTree, false)
	}
	if err != nil {
		return err
	}

	delta := compare.Compare(index.Build(oldTree), newIndex)
	if !delta.HasChanges() {
		fmt.Fprintln(s.out, "DONE")
		return nil
	}

	if err := compare.WriteReport(s.out, delta); err != nil {
		return err
	}
	fmt.Fprintln(s.out)
	fmt.Fprint(s.out, acceptPrompt)

	answer, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read answer: %w", err)
	}
	fmt.Fprintln(s.out)

	if strings.TrimSpace(answer) != "y" {
		fmt.Fprintln(s.out, "ABORTED")
		return nil
	}
	log.Infof("accepted delta: %s", compare.Summarize(delta))
	return s.store(newTree, true)
}

// store writes the new snapshot, backing up the previous one first when
// asked to and a backup prefix is configured.
func (s *script) store(newTree *tree.Node, backup bool) error {
	if backup && s.backupPrefix != "" {
		now := time.Now
		if s.now != nil {
			now = s.now
		}
		target := s.backupPrefix + now().Format("2006-01-02_15-04-05")
		if err := copyFile(target, s.snapshotPath); err != nil {
			return fmt.Errorf("failed to back up snapshot: %w", err)
		}
		log.Infof("previous snapshot copied to %s", target)
	}
	if err := writeSnapshotFile(s.snapshotPath, newTree); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "DONE")
	return nil
}
