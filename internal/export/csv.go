// Package export writes project estimates to CSV, Excel and PDF files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/CalcBuild/internal/model"
)

// CSVSeparator is the field delimiter of exported CSV files.
const CSVSeparator = ';'

// CSVHeader is the first row of an exported CSV file.
var CSVHeader = []string{"Name", "Length (m)", "Width (m)", "Openings (m²)"}

// Totals labels, in export order.
const (
	LabelWallArea       = "Wall Area (m²)"
	LabelPaintRequired  = "Paint Required (L)"
	LabelPaintCost      = "Paint Cost (€)"
	LabelRenderCost     = "Render Cost (€)"
	LabelInsulationCost = "Insulation Cost (€)"
	LabelTotalCost      = "Total Cost (€)"
)

// fallbackFileName names exports of a project without a name.
const fallbackFileName = "calcbuild"

// totalsRow returns the label/value pairs of the estimate, values formatted
// for display.
func totalsRow(est model.Estimate) []string {
	return []string{
		LabelWallArea, model.FormatNumber(est.TotalWallArea),
		LabelPaintRequired, model.FormatNumber(est.PaintVolume),
		LabelPaintCost, model.FormatNumber(est.PaintCost),
		LabelRenderCost, model.FormatNumber(est.PlasterCost),
		LabelInsulationCost, model.FormatNumber(est.InsulationCost),
		LabelTotalCost, model.FormatNumber(est.TotalCost),
	}
}

// WriteCSV writes the room table, a blank line and the totals row.
// The totals row is shifted right by the width of the room table so it
// lines up after the room columns in a spreadsheet.
func WriteCSV(w io.Writer, p model.Project, est model.Estimate) error {
	cw := csv.NewWriter(w)
	cw.Comma = CSVSeparator

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range p.Rooms {
		record := []string{
			r.Name,
			model.FormatRaw(r.Length),
			model.FormatRaw(r.Width),
			model.FormatRaw(r.Openings),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write room %q: %w", r.Name, err)
		}
	}
	if err := cw.Write(nil); err != nil {
		return err
	}

	totals := make([]string, len(CSVHeader), len(CSVHeader)+12)
	totals = append(totals, totalsRow(est)...)
	if err := cw.Write(totals); err != nil {
		return fmt.Errorf("failed to write CSV totals: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the CSV export of p to path.
func ExportCSV(path string, p model.Project, est model.Estimate) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := WriteCSV(f, p, est); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CSVFileName returns the suggested file name for the CSV export of a
// project called name.
func CSVFileName(name string) string {
	return FileName(name, ".csv")
}

// FileName returns the suggested export file name for a project called name:
// the trimmed name, or "calcbuild" when blank, with path separators replaced
// and ext appended.
func FileName(name, ext string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallbackFileName
	}
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	return name + ext
}
