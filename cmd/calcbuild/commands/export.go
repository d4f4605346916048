package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CalcBuild/internal/export"
	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/piwi3910/CalcBuild/internal/project"
)

type exportFormat struct {
	ext   string
	write func(path string, p model.Project, est model.Estimate) error
}

var exportFormats = map[string]exportFormat{
	"csv":  {".csv", export.ExportCSV},
	"xlsx": {".xlsx", export.ExportExcel},
	"pdf":  {".pdf", export.ExportPDF},
}

func formatNames() []string {
	names := make([]string, 0, len(exportFormats))
	for name := range exportFormats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:       "export FORMAT NAME",
		Short:     "Export a saved project as CSV, Excel or PDF",
		Long:      "Export a saved project. FORMAT is one of " + strings.Join(formatNames(), ", ") + ".",
		Args:      cobra.ExactArgs(2),
		ValidArgs: formatNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ok := exportFormats[strings.ToLower(args[0])]
			if !ok {
				return fmt.Errorf("unknown export format %q (want %s)", args[0], strings.Join(formatNames(), ", "))
			}
			out, _ := cmd.Flags().GetString("out")

			return withRepo(cmd, func(_ *appEnv, repo *project.Repository) error {
				p, err := loadStored(cmd, repo, args[1])
				if err != nil {
					return err
				}
				if out == "" {
					out = export.FileName(p.ProjectName, format.ext)
				}
				if err := format.write(out, p, model.ComputeProject(p)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s\n", p.StorageKey(), out)
				return nil
			})
		},
	}

	exportCmd.Flags().StringP("out", "o", "", "output file (default: project name with the format's extension)")
	return exportCmd
}
