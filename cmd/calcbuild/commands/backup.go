package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CalcBuild/internal/project"
)

// NewBackupCommand creates the backup command with subcommands.
func NewBackupCommand() *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Backup commands",
		Long:  "Export or import settings and all saved projects",
	}

	backupCmd.AddCommand(&cobra.Command{
		Use:   "export PATH",
		Short: "Write settings and all projects to a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, func(env *appEnv, repo *project.Repository) error {
				if err := project.ExportAllData(cmd.Context(), args[0], env.cfg, repo); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", args[0])
				return nil
			})
		},
	})

	importCmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Restore projects from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withConfig, _ := cmd.Flags().GetBool("with-config")

			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			return withRepo(cmd, func(env *appEnv, repo *project.Repository) error {
				n, err := project.RestoreProjects(cmd.Context(), repo, backup)
				if err != nil {
					return err
				}
				if withConfig {
					if err := project.SaveAppConfig(env.configPath, backup.Config); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %d projects from backup %s\n", n, backup.ID)
				return nil
			})
		},
	}
	importCmd.Flags().Bool("with-config", false, "also replace the config file with the backed up settings")
	backupCmd.AddCommand(importCmd)

	return backupCmd
}
