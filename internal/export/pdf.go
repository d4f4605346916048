package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/CalcBuild/internal/model"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	rowHeight    = 6.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// ExportPDF generates the printable estimate report: parameters, the room
// table with per-room wall areas, the totals and a QR code of the summary.
func ExportPDF(path string, p model.Project, est model.Estimate) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := textTranslator(pdf)

	pdf.AddPage()
	y := renderHeader(pdf, tr, p)
	y = renderParameters(pdf, tr, p.Parameters, y)
	y = renderRoomTable(pdf, tr, p, est, y)
	if err := renderTotals(pdf, tr, p, est, y); err != nil {
		return err
	}
	renderFooter(pdf, tr)

	return pdf.OutputFileAndClose(path)
}

// textTranslator converts UTF-8 to the core font encoding. Narrow and
// non-breaking spaces used as digit grouping have no glyph there.
func textTranslator(pdf *fpdf.Fpdf) func(string) string {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	spaces := strings.NewReplacer("\u202f", " ", "\u00a0", " ")
	return func(s string) string {
		return tr(spaces.Replace(s))
	}
}

func renderHeader(pdf *fpdf.Fpdf, tr func(string) string, p model.Project) float64 {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth, headerHeight, tr("CalcBuild estimate: "+p.StorageKey()), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	pdf.CellFormat(contentWidth, 5, time.Now().Format("02/01/2006 15:04"), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+headerHeight+7, pageWidth-marginRight, marginTop+headerHeight+7)

	return marginTop + headerHeight + 12
}

func renderParameters(pdf *fpdf.Fpdf, tr func(string) string, params model.Parameters, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Parameters", "", 0, "L", false, 0, "")
	y += 9

	items := []struct {
		label string
		value string
	}{
		{"Wall height", model.FormatNumber(params.WallHeight) + " m"},
		{"Paint coverage", model.FormatNumber(params.PaintCoverage) + " m²/L"},
		{"Paint price", model.FormatNumber(params.PaintPrice) + " €/L"},
		{"Render price", model.FormatNumber(params.PlasterPrice) + " €/m²"},
		{"Insulation price", model.FormatNumber(params.InsulationPrice) + " €/m²"},
		{"Waste margin", model.FormatNumber(params.WallWaste) + " %"},
	}

	// Two columns of three
	pdf.SetFont("Helvetica", "", 10)
	colW := contentWidth / 2
	for i, item := range items {
		x := marginLeft + 5 + float64(i/3)*colW
		rowY := y + float64(i%3)*rowHeight
		pdf.SetXY(x, rowY)
		pdf.CellFormat(40, rowHeight, tr(item.label+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, rowHeight, tr(item.value), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}
	return y + 3*rowHeight + 6
}

func renderRoomTable(pdf *fpdf.Fpdf, tr func(string) string, p model.Project, est model.Estimate, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Rooms", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{50, 20, 20, 25, 22, 22, 21}
	headers := []string{"Name", "L (m)", "W (m)", "Openings (m²)", "Perim. (m)", "Gross (m²)", "Net (m²)"}

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], rowHeight, tr(header), "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += rowHeight
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	if len(p.Rooms) == 0 {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(contentWidth, rowHeight, "No rooms", "1", 0, "C", false, 0, "")
		return y + rowHeight + 6
	}

	for i, r := range p.Rooms {
		// Continue on a new page, leaving room for the totals block
		if y+rowHeight > pageHeight-marginBottom-10 {
			renderFooter(pdf, tr)
			pdf.AddPage()
			y = marginTop
			drawHeader()
		}

		rowData := []string{
			r.Name,
			model.FormatNumber(r.Length),
			model.FormatNumber(r.Width),
			model.FormatNumber(r.Openings),
		}
		if i < len(est.Rooms) {
			re := est.Rooms[i]
			rowData = append(rowData,
				model.FormatNumber(re.Perimeter),
				model.FormatNumber(re.GrossWallArea),
				model.FormatNumber(re.NetWallArea))
		} else {
			rowData = append(rowData, "", "", "")
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos := marginLeft
		for j, cell := range rowData {
			align := "R"
			if j == 0 {
				align = "L"
			}
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], rowHeight, tr(cell), "1", 0, align, true, 0, "")
			xPos += colWidths[j]
		}
		y += rowHeight
	}
	return y + 6
}

func renderTotals(pdf *fpdf.Fpdf, tr func(string) string, p model.Project, est model.Estimate, y float64) error {
	const blockHeight = 9 + 6*7 + 4
	if y+blockHeight > pageHeight-marginBottom-10 {
		renderFooter(pdf, tr)
		pdf.AddPage()
		y = marginTop
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Totals", "", 0, "L", false, 0, "")
	top := y
	y += 9

	items := []struct {
		label string
		value string
	}{
		{LabelWallArea, model.FormatNumber(est.TotalWallArea)},
		{LabelPaintRequired, model.FormatNumber(est.PaintVolume)},
		{LabelPaintCost, model.FormatNumber(est.PaintCost)},
		{LabelRenderCost, model.FormatNumber(est.PlasterCost)},
		{LabelInsulationCost, model.FormatNumber(est.InsulationCost)},
		{LabelTotalCost, model.FormatNumber(est.TotalCost)},
	}

	for i, item := range items {
		style := ""
		if i == len(items)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(55, 7, tr(item.label), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, tr(item.value), "", 0, "R", false, 0, "")
		y += 7
	}

	return drawSummaryQR(pdf, pageWidth-marginRight-qrSize, top, SummaryOf(p, est))
}

func renderFooter(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	footer := fmt.Sprintf("Generated by CalcBuild - page %d", pdf.PageNo())
	pdf.CellFormat(contentWidth, 4, tr(footer), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
