package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	roomimporter "github.com/piwi3910/CalcBuild/internal/importer"
	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/piwi3910/CalcBuild/internal/project"
	"github.com/piwi3910/CalcBuild/internal/session"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Append rooms from a CSV, Excel or DXF file to a saved project",
		Long: "Read rooms from FILE and append them to the project named by --project. " +
			"The project is created with the configured defaults when it does not exist.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("project")
			name = strings.TrimSpace(name)
			units, _ := cmd.Flags().GetFloat64("units-per-meter")

			result, err := importRooms(args[0], units)
			if err != nil {
				return err
			}
			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			for _, e := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
			}
			if len(result.Rooms) == 0 {
				return fmt.Errorf("no rooms imported from %s", args[0])
			}

			return withRepo(cmd, func(env *appEnv, repo *project.Repository) error {
				ws := session.New(repo, env.cfg.Defaults, nil, env.logger)
				found, err := ws.Load(cmd.Context(), model.Project{ProjectName: name}.StorageKey())
				if err != nil {
					return err
				}
				if !found {
					fresh := model.Project{ProjectName: name, Rooms: []model.Room{}}
					env.cfg.ApplyToProject(&fresh)
					ws.Restore(fresh)
				}
				ws.AddRooms(result.Rooms)

				key, err := ws.Save(cmd.Context())
				if err != nil {
					return err
				}
				env.logger.Info("rooms imported",
					zap.String("file", args[0]),
					zap.String("project", key),
					zap.Int("rooms", len(result.Rooms)),
					zap.Int("warnings", len(result.Warnings)))
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rooms into %q\n", len(result.Rooms), key)
				return nil
			})
		},
	}

	importCmd.Flags().String("project", "", "project to append to (empty means the unnamed project)")
	importCmd.Flags().Float64("units-per-meter", 1000, "DXF drawing units per metre")
	return importCmd
}

// importRooms picks the reader from the file extension.
func importRooms(path string, unitsPerMeter float64) (roomimporter.ImportResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return roomimporter.ImportCSV(path), nil
	case ".xlsx", ".xlsm":
		return roomimporter.ImportExcel(path), nil
	case ".dxf":
		return roomimporter.ImportDXF(path, unitsPerMeter), nil
	default:
		return roomimporter.ImportResult{}, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}
