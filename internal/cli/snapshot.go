package cli

import (
	"fmt"

	"github.com/ariel-frischer/ccem/internal/snapshot"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:     "snapshot <directory>",
	Short:   "Create a checksummed snapshot of a directory",
	GroupID: GroupSafety,
	Long: `Record every file under a directory with its sha256 checksum so a
later merge can be verified or rolled back. The snapshot is written to the
state directory as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var snap *snapshot.Snapshot
		err = withSpinner(cfg.ShowProgress, "Snapshotting "+args[0]+"...", func() error {
			var err error
			snap, err = snapshot.Create(args[0])
			return err
		})
		if err != nil {
			return err
		}

		path, err := snap.Save(cfg.StateDir)
		if err != nil {
			return err
		}

		fmt.Printf("Snapshot %s: %d file(s) recorded\n", snap.ID, snap.FileCount)
		fmt.Printf("Saved to %s\n", path)
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:     "backup <directory>",
	Short:   "Create a compressed backup archive of a directory",
	GroupID: GroupSafety,
	Long: `Archive a directory into a tar.gz under the state directory so an
applied merge can be rolled back by extracting the archive.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var archivePath string
		err = withSpinner(cfg.ShowProgress, "Backing up "+args[0]+"...", func() error {
			var err error
			archivePath, err = snapshot.Backup(args[0], cfg.StateDir)
			return err
		})
		if err != nil {
			return err
		}

		fmt.Printf("Backup written to %s\n", archivePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(backupCmd)
}
