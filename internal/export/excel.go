package export

import (
	"fmt"

	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the Excel export.
const (
	SheetRooms   = "Rooms"
	SheetSummary = "Summary"
)

var roomsSheetHeader = []interface{}{
	"Name", "Length (m)", "Width (m)", "Openings (m²)",
	"Perimeter (m)", "Gross wall area (m²)", "Net wall area (m²)",
}

// ExportExcel writes the project to an .xlsx workbook with a Rooms sheet and
// a Summary sheet. Numbers are written as numbers.
func ExportExcel(path string, p model.Project, est model.Estimate) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRooms); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetRooms, "A1", &roomsSheetHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range p.Rooms {
		row := []interface{}{r.Name, r.Length, r.Width, r.Openings}
		if i < len(est.Rooms) {
			re := est.Rooms[i]
			row = append(row, re.Perimeter, re.GrossWallArea, re.NetWallArea)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetRooms, cell, &row); err != nil {
			return fmt.Errorf("failed to write room %q: %w", r.Name, err)
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Project", p.StorageKey()},
		{"Wall height (m)", p.WallHeight},
		{"Paint coverage (m²/L)", p.PaintCoverage},
		{"Paint price (€/L)", p.PaintPrice},
		{"Render price (€/m²)", p.PlasterPrice},
		{"Insulation price (€/m²)", p.InsulationPrice},
		{"Waste (%)", p.WallWaste},
		{},
		{LabelWallArea, est.TotalWallArea},
		{LabelPaintRequired, est.PaintVolume},
		{LabelPaintCost, est.PaintCost},
		{LabelRenderCost, est.PlasterCost},
		{LabelInsulationCost, est.InsulationCost},
		{LabelTotalCost, est.TotalCost},
	}
	for i, row := range summary {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(SheetSummary, cell, &r); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if err := f.SetColWidth(SheetRooms, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 26); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
