package model

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func scenarioRooms() []Room {
	return []Room{
		NewRoom("Living Room", 6, 4, 3),
		NewRoom("Bedroom", 3.5, 3, 2),
	}
}

func TestNetWallAreaSingleRoom(t *testing.T) {
	r := NewRoom("Living Room", 6, 4, 3)

	if got := r.GrossWallArea(2.5); math.Abs(got-50) > tolerance {
		t.Errorf("expected gross 50, got %f", got)
	}
	if got := r.NetWallArea(2.5); math.Abs(got-47) > tolerance {
		t.Errorf("expected net 47, got %f", got)
	}
}

func TestNetWallAreaFlooredAtZero(t *testing.T) {
	r := NewRoom("Closet", 1, 1, 100)
	if got := r.NetWallArea(2.5); got != 0 {
		t.Errorf("openings larger than the walls must floor at 0, got %f", got)
	}
}

func TestComputeScenario(t *testing.T) {
	params := DefaultParameters()
	est := Compute(params, scenarioRooms())

	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"TotalWallArea", est.TotalWallArea, 83.3125},
		{"PaintVolume", est.PaintVolume, 8.33125},
		{"PaintCost", est.PaintCost, 149.9625},
		{"PlasterCost", est.PlasterCost, 999.75},
		{"InsulationCost", est.InsulationCost, 2082.8125},
		{"TotalCost", est.TotalCost, 3232.525},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expected) > 1e-6 {
			t.Errorf("%s: expected %.6f, got %.6f", c.name, c.expected, c.got)
		}
	}

	if len(est.Rooms) != 2 {
		t.Fatalf("expected 2 room estimates, got %d", len(est.Rooms))
	}
	if math.Abs(est.Rooms[0].NetWallArea-47) > tolerance {
		t.Errorf("expected living room net 47, got %f", est.Rooms[0].NetWallArea)
	}
	if math.Abs(est.Rooms[1].NetWallArea-30.5) > tolerance {
		t.Errorf("expected bedroom net 30.5, got %f", est.Rooms[1].NetWallArea)
	}
}

func TestComputeTotalIsSumOfCosts(t *testing.T) {
	params := Parameters{
		WallHeight:      2.7,
		PaintCoverage:   8.5,
		PaintPrice:      21.3,
		PlasterPrice:    9.99,
		InsulationPrice: 31.7,
		WallWaste:       12.25,
	}
	est := Compute(params, scenarioRooms())

	if est.TotalCost != est.PaintCost+est.PlasterCost+est.InsulationCost {
		t.Errorf("total %f is not the exact sum of %f + %f + %f",
			est.TotalCost, est.PaintCost, est.PlasterCost, est.InsulationCost)
	}
}

func TestComputeEmptyRooms(t *testing.T) {
	est := Compute(DefaultParameters(), nil)

	if est.TotalWallArea != 0 || est.PaintVolume != 0 || est.TotalCost != 0 {
		t.Errorf("expected all zero for no rooms, got %+v", est)
	}
	if est.PaintCost != 0 || est.PlasterCost != 0 || est.InsulationCost != 0 {
		t.Errorf("expected zero costs for no rooms, got %+v", est)
	}
}

func TestComputeWasteIsMonotonic(t *testing.T) {
	params := DefaultParameters()
	rooms := scenarioRooms()

	prev := -1.0
	for _, waste := range []float64{0, 2.5, 7.5, 15, 50} {
		params.WallWaste = waste
		area := Compute(params, rooms).TotalWallArea
		if area <= prev {
			t.Errorf("waste %.1f%%: area %.4f not greater than %.4f", waste, area, prev)
		}
		prev = area
	}
}

func TestComputeWasteAppliedAfterSumming(t *testing.T) {
	params := DefaultParameters()
	params.WallWaste = 10
	rooms := scenarioRooms()

	est := Compute(params, rooms)
	sum := rooms[0].NetWallArea(params.WallHeight) + rooms[1].NetWallArea(params.WallHeight)
	if math.Abs(est.TotalWallArea-sum*1.1) > tolerance {
		t.Errorf("expected %f, got %f", sum*1.1, est.TotalWallArea)
	}
}

func TestComputeZeroCoverageIsBounded(t *testing.T) {
	params := DefaultParameters()
	params.PaintCoverage = 0
	est := Compute(params, scenarioRooms())

	expected := est.TotalWallArea / MinPaintCoverage
	if math.IsInf(est.PaintVolume, 0) || math.IsNaN(est.PaintVolume) {
		t.Fatalf("paint volume must stay finite, got %f", est.PaintVolume)
	}
	if math.Abs(est.PaintVolume-expected) > 1e-6 {
		t.Errorf("expected %f, got %f", expected, est.PaintVolume)
	}

	params.PaintCoverage = 0.00001
	tiny := Compute(params, scenarioRooms())
	if tiny.PaintVolume > expected+1e-6 {
		t.Errorf("coverage below the floor must be clamped, got %f", tiny.PaintVolume)
	}
}

func TestComputeCoverageAboveFloorDividesExactly(t *testing.T) {
	params := DefaultParameters()
	params.PaintCoverage = 12
	est := Compute(params, scenarioRooms())
	if est.PaintVolume != est.TotalWallArea/12 {
		t.Errorf("expected %f, got %f", est.TotalWallArea/12, est.PaintVolume)
	}
}

func TestComputeProjectNormalizesInput(t *testing.T) {
	p := Project{
		Parameters: Parameters{
			WallHeight:    math.NaN(),
			PaintCoverage: 10,
			PaintPrice:    -5,
			WallWaste:     math.Inf(1),
		},
		Rooms: []Room{{Name: "", Length: -3, Width: 4, Openings: math.NaN()}},
	}

	est := ComputeProject(p)
	if est.TotalWallArea != 0 {
		t.Errorf("NaN wall height must read as 0, got area %f", est.TotalWallArea)
	}
	if est.PaintCost != 0 {
		t.Errorf("negative price must read as 0, got %f", est.PaintCost)
	}
	if est.Rooms[0].Name != DefaultRoomName {
		t.Errorf("expected blank room name to become %q, got %q", DefaultRoomName, est.Rooms[0].Name)
	}
	if est.Rooms[0].Perimeter != 8 {
		t.Errorf("expected perimeter 8 after clamping length, got %f", est.Rooms[0].Perimeter)
	}
}
