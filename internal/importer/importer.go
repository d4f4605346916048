// Package importer reads room lists from CSV, Excel and DXF files.
// CSV and Excel imports detect the delimiter and map columns by
// case-insensitive header names.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Rooms    []model.Room
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name     int
	Length   int
	Width    int
	Openings int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":     {"name", "room", "room name", "label", "description", "piece", "pièce", "nom"},
	"length":   {"length", "length (m)", "l", "l (m)", "len", "longueur"},
	"width":    {"width", "width (m)", "w", "w (m)", "largeur"},
	"openings": {"openings", "openings (m²)", "openings (m2)", "opening", "doors/windows", "ouvertures"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (Name, Length, Width, Openings) and false if no header was found.
// A row whose only alias match is a name ("Room") and whose length and width
// cells hold numbers is data, not a header.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Name:     -1,
		Length:   -1,
		Width:    -1,
		Openings: -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "name":
					if mapping.Name == -1 {
						mapping.Name = i
					}
				case "length":
					if mapping.Length == -1 {
						mapping.Length = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "openings":
					if mapping.Openings == -1 {
						mapping.Openings = i
					}
				}
			}
		}
	}

	if isHeader && mapping.Length == -1 && mapping.Width == -1 && hasPositionalMeasures(row) {
		isHeader = false
	}

	if !isHeader {
		return ColumnMapping{
			Name:     0,
			Length:   1,
			Width:    2,
			Openings: 3,
		}, false
	}

	return mapping, true
}

// hasPositionalMeasures reports whether the length and width columns of the
// positional layout both parse as numbers.
func hasPositionalMeasures(row []string) bool {
	if len(row) < 3 {
		return false
	}
	_, lengthOK := parseMeasure(row[1])
	_, widthOK := parseMeasure(row[2])
	return lengthOK && widthOK
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseMeasure reads a non-negative number, accepting a decimal comma.
func parseMeasure(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if model.IsHexLiteral(s) {
		return 0, false
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// parseRow extracts a Room from a row using the given column mapping.
// Unreadable numbers become zero; each one yields a warning.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, roomCount int) (model.Room, []string) {
	var warnings []string

	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Room %d", roomCount+1)
	}

	measure := func(column string, idx int) float64 {
		raw := getCell(row, idx)
		if raw == "" {
			if idx >= 0 {
				warnings = append(warnings, fmt.Sprintf("%s: Missing %s value, using 0", rowLabel, column))
			}
			return 0
		}
		v, ok := parseMeasure(raw)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid %s '%s', using 0", rowLabel, column, raw))
		}
		return v
	}

	room := model.NewRoom(name,
		measure("length", mapping.Length),
		measure("width", mapping.Width),
		measure("openings", mapping.Openings))
	return room, warnings
}

// isBlankRow reports whether every mapped column of the row is empty. The
// totals line of a CalcBuild CSV export is blank in this sense.
func isBlankRow(row []string, mapping ColumnMapping) bool {
	for _, idx := range []int{mapping.Name, mapping.Length, mapping.Width, mapping.Openings} {
		if getCell(row, idx) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports rooms from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports rooms from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports rooms from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses rows into rooms until the
// first blank row that follows data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	// Detect columns from first row
	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		if _, ok := parseMeasure(rows[0][1]); !ok {
			// Unrecognized header: skip it but keep the positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row, mapping) {
			if len(result.Rooms) > 0 {
				break
			}
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		room, warnings := parseRow(row, mapping, rowLabel, len(result.Rooms))
		result.Warnings = append(result.Warnings, warnings...)
		result.Rooms = append(result.Rooms, room)
	}

	if len(result.Rooms) == 0 {
		result.Errors = append(result.Errors, "No rooms found")
	}

	return result
}
