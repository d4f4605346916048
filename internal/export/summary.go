package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/CalcBuild/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// Summary holds the data encoded into the report's QR code.
type Summary struct {
	Project        string  `json:"project"`
	Rooms          int     `json:"rooms"`
	WallArea       float64 `json:"wall_area_m2"`
	PaintVolume    float64 `json:"paint_l"`
	PaintCost      float64 `json:"paint_cost"`
	PlasterCost    float64 `json:"render_cost"`
	InsulationCost float64 `json:"insulation_cost"`
	TotalCost      float64 `json:"total_cost"`
	GeneratedAt    string  `json:"generated_at"`
}

// qrSize is the printed QR code edge in mm.
const qrSize = 32.0

// SummaryOf builds the QR payload for p. Amounts are rounded to cents.
func SummaryOf(p model.Project, est model.Estimate) Summary {
	return Summary{
		Project:        p.StorageKey(),
		Rooms:          len(p.Rooms),
		WallArea:       round2(est.TotalWallArea),
		PaintVolume:    round2(est.PaintVolume),
		PaintCost:      round2(est.PaintCost),
		PlasterCost:    round2(est.PlasterCost),
		InsulationCost: round2(est.InsulationCost),
		TotalCost:      round2(est.TotalCost),
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

// SummaryQR encodes s as a PNG QR code.
func SummaryQR(s Summary, size int) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// drawSummaryQR places the summary QR code with its top-left corner at x, y.
func drawSummaryQR(pdf *fpdf.Fpdf, x, y float64, s Summary) error {
	png, err := SummaryQR(s, 256)
	if err != nil {
		return err
	}
	const imgName = "qr_summary"
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(png))
	pdf.ImageOptions(imgName, x, y, qrSize, qrSize, false, opts, 0, "")
	return pdf.Error()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
