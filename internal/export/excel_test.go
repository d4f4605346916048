package export

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/xuri/excelize/v2"
)

func TestExportExcel(t *testing.T) {
	p, est := buildTestProject()
	path := filepath.Join(t.TempDir(), "estimate.xlsx")

	if err := ExportExcel(path, p, est); err != nil {
		t.Fatalf("ExportExcel returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetRooms)
	if err != nil {
		t.Fatalf("failed to read %s sheet: %v", SheetRooms, err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rooms, got %d rows", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][6] != "Net wall area (m²)" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "Living room" || rows[2][0] != "Bedroom" {
		t.Errorf("unexpected room names %q, %q", rows[1][0], rows[2][0])
	}
	net, err := strconv.ParseFloat(rows[1][6], 64)
	if err != nil || net != 47 {
		t.Errorf("expected net wall area 47, got %q", rows[1][6])
	}

	summary, err := f.GetRows(SheetSummary)
	if err != nil {
		t.Fatalf("failed to read %s sheet: %v", SheetSummary, err)
	}
	found := false
	for _, row := range summary {
		if len(row) == 2 && row[0] == LabelTotalCost {
			found = true
			total, err := strconv.ParseFloat(row[1], 64)
			if err != nil || total < 3232.52 || total > 3232.53 {
				t.Errorf("unexpected total cost %q", row[1])
			}
		}
	}
	if !found {
		t.Errorf("summary sheet has no %q row", LabelTotalCost)
	}
	if v, _ := f.GetCellValue(SheetSummary, "B1"); v != "Maison Dupont" {
		t.Errorf("expected project name in B1, got %q", v)
	}
}

func TestExportExcel_UnnamedNoRooms(t *testing.T) {
	p := model.NewProject()
	p.Rooms = nil
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	if err := ExportExcel(path, p, model.ComputeProject(p)); err != nil {
		t.Fatalf("ExportExcel returned error: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, _ := f.GetRows(SheetRooms)
	if len(rows) != 1 {
		t.Errorf("expected only the header row, got %d rows", len(rows))
	}
	if v, _ := f.GetCellValue(SheetSummary, "B1"); v != model.UnnamedProject {
		t.Errorf("expected %q, got %q", model.UnnamedProject, v)
	}
}
