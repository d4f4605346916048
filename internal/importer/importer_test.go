package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/CalcBuild/internal/export"
	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Name,Length,Width,Openings\nKitchen,4,3,2\nHall,2,1.5,1\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Name;Length;Width;Openings\nKitchen;4,5;3;2\nHall;2;1,5;1\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Name\tLength\tWidth\tOpenings\nKitchen\t4\t3\t2\nHall\t2\t1.5\t1\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Name|Length|Width|Openings\nKitchen|4|3|2\nHall|2|1.5|1\n")
	got := DetectCSVDelimiter(data)
	if got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Name", "Length", "Width", "Openings"})

	if !isHeader {
		t.Error("expected header to be detected")
	}
	want := ColumnMapping{Name: 0, Length: 1, Width: 2, Openings: 3}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_ExportHeader(t *testing.T) {
	mapping, isHeader := DetectColumns(export.CSVHeader)

	if !isHeader {
		t.Fatal("expected the export header to be recognized")
	}
	want := ColumnMapping{Name: 0, Length: 1, Width: 2, Openings: 3}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_CaseInsensitiveAndAliases(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{" PIÈCE ", "Largeur", "LONGUEUR", "ouvertures"})

	if !isHeader {
		t.Error("expected header to be detected")
	}
	want := ColumnMapping{Name: 0, Length: 2, Width: 1, Openings: 3}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Kitchen", "4", "3", "2"})

	if isHeader {
		t.Error("expected no header to be detected")
	}
	if mapping.Name != 0 || mapping.Length != 1 || mapping.Width != 2 || mapping.Openings != 3 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

func TestDetectColumns_RoomNamedLikeAlias(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Room", "4", "3", "2"})

	if isHeader {
		t.Error("expected a data row named Room not to be a header")
	}
	if mapping.Name != 0 || mapping.Length != 1 || mapping.Width != 2 || mapping.Openings != 3 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Name,Length,Width,Openings\nKitchen,4,3,2\nHall,2,1.5,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(result.Rooms))
	}
	want := model.Room{Name: "Kitchen", Length: 4, Width: 3, Openings: 2}
	if result.Rooms[0] != want {
		t.Errorf("expected %+v, got %+v", want, result.Rooms[0])
	}
	if result.Rooms[1].Width != 1.5 {
		t.Errorf("expected width 1.5, got %f", result.Rooms[1].Width)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Kitchen,4,3,2\nHall,2,1.5,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	if result.Rooms[0].Name != "Kitchen" || result.Rooms[0].Length != 4 {
		t.Errorf("unexpected first room %+v", result.Rooms[0])
	}
}

func TestImportCSVFromReader_FirstRoomNamedRoom(t *testing.T) {
	data := "Room;4;3;2\nKitchen;3;3;1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(result.Rooms))
	}
	want := model.Room{Name: "Room", Length: 4, Width: 3, Openings: 2}
	if result.Rooms[0] != want {
		t.Errorf("expected %+v, got %+v", want, result.Rooms[0])
	}
}

func TestImportCSVFromReader_HexValueInvalid(t *testing.T) {
	data := "Kitchen,0x1p2,3,0\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	if result.Rooms[0].Length != 0 {
		t.Errorf("expected hex length to read as 0, got %v", result.Rooms[0].Length)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the hex length")
	}
}

func TestImportCSVFromReader_UnknownHeaderSkipped(t *testing.T) {
	data := "Zone,Long,Large,Trous\nKitchen,4,3,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	if result.Rooms[0].Name != "Kitchen" {
		t.Errorf("expected Kitchen, got %q", result.Rooms[0].Name)
	}
}

func TestImportCSVFromReader_ReorderedColumns(t *testing.T) {
	data := "Width;Openings;Name;Length\n3;2;Kitchen;4\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	want := model.Room{Name: "Kitchen", Length: 4, Width: 3, Openings: 2}
	if result.Rooms[0] != want {
		t.Errorf("expected %+v, got %+v", want, result.Rooms[0])
	}
}

func TestImportCSVFromReader_OptionalOpenings(t *testing.T) {
	data := "Name,Length,Width\nKitchen,4,3\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	if result.Rooms[0].Openings != 0 {
		t.Errorf("expected openings 0, got %f", result.Rooms[0].Openings)
	}
	for _, w := range result.Warnings {
		if strings.Contains(w, "openings") {
			t.Errorf("absent openings column should not warn: %q", w)
		}
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Name,Length,Openings\nKitchen,4,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Fatal("expected error for missing Width column")
	}
	if !strings.Contains(result.Errors[0], "Width") {
		t.Errorf("expected error to mention Width, got %q", result.Errors[0])
	}
	if len(result.Rooms) != 0 {
		t.Errorf("expected no rooms, got %d", len(result.Rooms))
	}
}

func TestImportCSVFromReader_InvalidValuesBecomeZero(t *testing.T) {
	data := "Name,Length,Width,Openings\nKitchen,abc,-3,\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(result.Rooms))
	}
	got := result.Rooms[0]
	if got.Length != 0 || got.Width != 0 || got.Openings != 0 {
		t.Errorf("expected all zero dimensions, got %+v", got)
	}

	warned := map[string]bool{}
	for _, w := range result.Warnings {
		for _, col := range []string{"length", "width", "openings"} {
			if strings.Contains(w, col) {
				warned[col] = true
			}
		}
	}
	if len(warned) != 3 {
		t.Errorf("expected a warning per bad cell, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_DecimalComma(t *testing.T) {
	data := "Name;Length;Width;Openings\nHall;3,5;2,25;1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	if result.Rooms[0].Length != 3.5 || result.Rooms[0].Width != 2.25 {
		t.Errorf("expected 3.5 x 2.25, got %+v", result.Rooms[0])
	}
}

func TestImportCSVFromReader_EmptyName(t *testing.T) {
	data := "Name,Length,Width,Openings\n,4,3,2\n  ,2,2,0\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(result.Rooms))
	}
	if result.Rooms[0].Name != "Room 1" || result.Rooms[1].Name != "Room 2" {
		t.Errorf("expected generated names, got %q and %q", result.Rooms[0].Name, result.Rooms[1].Name)
	}
}

func TestImportCSVFromReader_StopsAtTotalsRow(t *testing.T) {
	p := model.NewProject()
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, p, model.ComputeProject(p)); err != nil {
		t.Fatal(err)
	}

	result := ImportCSVFromReader(&buf, ';')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != len(p.Rooms) {
		t.Fatalf("expected %d rooms, got %d: %+v", len(p.Rooms), len(result.Rooms), result.Rooms)
	}
	for i, r := range p.Rooms {
		if result.Rooms[i] != r {
			t.Errorf("room %d: expected %+v, got %+v", i, r, result.Rooms[i])
		}
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSVFromReader_OnlyHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Length,Width,Openings\n"), ',')

	if len(result.Rooms) != 0 {
		t.Errorf("expected 0 rooms, got %d", len(result.Rooms))
	}
	if len(result.Errors) == 0 {
		t.Error("expected an error when no rooms are found")
	}
}

func TestImportCSVFromReader_WhitespaceInValues(t *testing.T) {
	data := "Name,Length,Width,Openings\n  Kitchen  , 4 , 3 , 2 \n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	want := model.Room{Name: "Kitchen", Length: 4, Width: 3, Openings: 2}
	if result.Rooms[0] != want {
		t.Errorf("expected %+v, got %+v", want, result.Rooms[0])
	}
}

// ─── CSV File Import Tests ──────────────────────────────────

func TestImportCSV_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rooms.csv")
	content := "Name,Length,Width,Openings\nKitchen,4,3,2\nHall,2,1.5,1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(result.Rooms))
	}
}

func TestImportCSV_ExportedFile(t *testing.T) {
	dir := t.TempDir()
	p := model.NewProject()
	p.ProjectName = "Round trip"
	path := filepath.Join(dir, export.CSVFileName(p.ProjectName))
	if err := export.ExportCSV(path, p, model.ComputeProject(p)); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)

	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}

	// Should have a warning about semicolon delimiter
	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/file.csv")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "rooms.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Length", "Width", "Openings"},
		{"Kitchen", 4, 3, 2},
		{"Hall", 2, 1.5, 1},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(result.Rooms))
	}
	want := model.Room{Name: "Hall", Length: 2, Width: 1.5, Openings: 1}
	if result.Rooms[1] != want {
		t.Errorf("expected %+v, got %+v", want, result.Rooms[1])
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Kitchen", 4, 3, 2},
		{"Hall", 2, 1.5, 1},
	})

	result := ImportExcel(path)

	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
}

func TestImportExcel_StopsAtBlankRow(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Length", "Width", "Openings"},
		{"Kitchen", 4, 3, 2},
		{},
		{"Notes", "not", "a", "room"},
	})

	result := ImportExcel(path)

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d: %+v", len(result.Rooms), result.Rooms)
	}
}

func TestImportExcel_ExportedWorkbook(t *testing.T) {
	p := model.NewProject()
	path := filepath.Join(t.TempDir(), "estimate.xlsx")
	if err := export.ExportExcel(path, p, model.ComputeProject(p)); err != nil {
		t.Fatal(err)
	}

	result := ImportExcel(path)

	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	if result.Rooms[1] != p.Rooms[1] {
		t.Errorf("expected %+v, got %+v", p.Rooms[1], result.Rooms[1])
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/path/file.xlsx")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}
