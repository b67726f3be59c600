package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// backupCmd uploads a cache snapshot
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the price cache and upload it to S3-compatible storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if a.container.Backup == nil {
			return errors.New("backup storage is not configured (set PFA_BACKUP_BUCKET and credentials)")
		}

		info, err := a.container.Backup.CreateAndUploadBackup(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%d bytes)\n", info.Filename, info.SizeBytes)

		deleted, err := a.container.Backup.RotateOldBackups(cmd.Context(), a.cfg.Backup.RetentionDays)
		if err != nil {
			a.log.Warn().Err(err).Msg("Backup rotation failed")
		} else if deleted > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d old backups\n", deleted)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
