package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/piwi3910/CalcBuild/internal/project"
)

// NewProjectsCommand creates the projects command with subcommands.
func NewProjectsCommand() *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "Saved project commands",
		Long:  "List, show and save projects in the configured store",
	}

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved project names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, func(_ *appEnv, repo *project.Repository) error {
				names, err := repo.ListNames(cmd.Context())
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	})

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "show NAME",
		Short: "Print a saved project as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, func(_ *appEnv, repo *project.Repository) error {
				p, err := loadStored(cmd, repo, args[0])
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(p, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal project: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			})
		},
	})

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "save FILE",
		Short: "Save a project JSON file (or - for stdin) to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProject(cmd, args[0])
			if err != nil {
				return err
			}
			return withRepo(cmd, func(env *appEnv, repo *project.Repository) error {
				key, err := repo.Save(cmd.Context(), p.Normalized())
				if err != nil {
					return err
				}
				env.logger.Debug("project saved from file", zap.String("file", args[0]), zap.String("key", key))
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %q\n", key)
				return nil
			})
		},
	})

	return projectsCmd
}

// loadStored loads a project and names it in the not-found error.
func loadStored(cmd *cobra.Command, repo *project.Repository, name string) (model.Project, error) {
	p, err := repo.Load(cmd.Context(), name)
	if errors.Is(err, project.ErrNotFound) {
		return model.Project{}, fmt.Errorf("%q: %w", name, err)
	}
	return p, err
}
