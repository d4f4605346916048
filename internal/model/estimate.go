package model

import "math"

// MinPaintCoverage floors the coverage divisor so a zero or near-zero
// coverage never divides by zero.
const MinPaintCoverage = 0.0001

// RoomEstimate holds the per-room wall figures, before the waste margin.
type RoomEstimate struct {
	Name          string  `json:"name"`
	Perimeter     float64 `json:"perimeter"`       // m
	GrossWallArea float64 `json:"gross_wall_area"` // m²
	NetWallArea   float64 `json:"net_wall_area"`   // m²
}

// Estimate holds the material quantities and costs derived from a project.
type Estimate struct {
	TotalWallArea  float64        `json:"total_wall_area"` // m², waste margin included
	PaintVolume    float64        `json:"paint_volume"`    // litres
	PaintCost      float64        `json:"paint_cost"`
	PlasterCost    float64        `json:"plaster_cost"`
	InsulationCost float64        `json:"insulation_cost"`
	TotalCost      float64        `json:"total_cost"`
	Rooms          []RoomEstimate `json:"rooms"`
}

// Compute derives wall area, paint volume and costs from rooms and parameters.
// Inputs are expected to be normalized already. The waste margin is applied
// once to the summed net area, not per room.
func Compute(params Parameters, rooms []Room) Estimate {
	breakdown := make([]RoomEstimate, 0, len(rooms))

	var totalWallArea float64
	for _, r := range rooms {
		net := r.NetWallArea(params.WallHeight)
		totalWallArea += net
		breakdown = append(breakdown, RoomEstimate{
			Name:          r.Name,
			Perimeter:     r.Perimeter(),
			GrossWallArea: r.GrossWallArea(params.WallHeight),
			NetWallArea:   net,
		})
	}

	wasteFactor := 1.0 + (params.WallWaste / 100.0)
	totalWallArea *= wasteFactor

	paintVolume := totalWallArea / math.Max(params.PaintCoverage, MinPaintCoverage)
	paintCost := paintVolume * params.PaintPrice
	plasterCost := totalWallArea * params.PlasterPrice
	insulationCost := totalWallArea * params.InsulationPrice

	return Estimate{
		TotalWallArea:  totalWallArea,
		PaintVolume:    paintVolume,
		PaintCost:      paintCost,
		PlasterCost:    plasterCost,
		InsulationCost: insulationCost,
		TotalCost:      paintCost + plasterCost + insulationCost,
		Rooms:          breakdown,
	}
}

// ComputeProject normalizes the project and computes its estimate.
func ComputeProject(p Project) Estimate {
	n := p.Normalized()
	return Compute(n.Parameters, n.Rooms)
}
