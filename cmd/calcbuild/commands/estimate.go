package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CalcBuild/internal/export"
	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/piwi3910/CalcBuild/internal/project"
)

// NewEstimateCommand creates the estimate command.
func NewEstimateCommand() *cobra.Command {
	estimateCmd := &cobra.Command{
		Use:   "estimate [FILE|-]",
		Short: "Print the estimate of a project",
		Long: "Print the wall area, paint volume and costs of a project read from a JSON file, " +
			"from standard input (-), or from the store with --project.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("project")
			asJSON, _ := cmd.Flags().GetBool("json")

			var p model.Project
			switch {
			case name != "" && len(args) > 0:
				return fmt.Errorf("give either a file or --project, not both")
			case name != "":
				err := withRepo(cmd, func(_ *appEnv, repo *project.Repository) error {
					var err error
					p, err = loadStored(cmd, repo, name)
					return err
				})
				if err != nil {
					return err
				}
			case len(args) == 1:
				var err error
				p, err = readProject(cmd, args[0])
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("no project given")
			}

			p = p.Normalized()
			est := model.ComputeProject(p)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(export.SummaryOf(p, est))
			}
			return printEstimate(cmd.OutOrStdout(), p, est)
		},
	}

	estimateCmd.Flags().String("project", "", "estimate a stored project instead of a file")
	estimateCmd.Flags().Bool("json", false, "print the summary as JSON")
	return estimateCmd
}

// readProject decodes a project from path, or from stdin when path is "-".
func readProject(cmd *cobra.Command, path string) (model.Project, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}

	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	return p, nil
}

func printEstimate(w io.Writer, p model.Project, est model.Estimate) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Project\t%s\n", p.StorageKey())
	fmt.Fprintf(tw, "Rooms\t%d\n", len(p.Rooms))
	fmt.Fprintln(tw)
	for _, r := range est.Rooms {
		fmt.Fprintf(tw, "  %s\t%s m²\n", r.Name, model.FormatNumber(r.NetWallArea))
	}
	if len(est.Rooms) > 0 {
		fmt.Fprintln(tw)
	}
	fmt.Fprintf(tw, "%s\t%s\n", export.LabelWallArea, model.FormatNumber(est.TotalWallArea))
	fmt.Fprintf(tw, "%s\t%s\n", export.LabelPaintRequired, model.FormatNumber(est.PaintVolume))
	fmt.Fprintf(tw, "%s\t%s\n", export.LabelPaintCost, model.FormatNumber(est.PaintCost))
	fmt.Fprintf(tw, "%s\t%s\n", export.LabelRenderCost, model.FormatNumber(est.PlasterCost))
	fmt.Fprintf(tw, "%s\t%s\n", export.LabelInsulationCost, model.FormatNumber(est.InsulationCost))
	fmt.Fprintf(tw, "%s\t%s\n", export.LabelTotalCost, model.FormatNumber(est.TotalCost))
	return tw.Flush()
}
