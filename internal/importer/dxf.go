package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// point is a 2D drawing coordinate in drawing units.
type point struct {
	X, Y float64
}

// outline is a closed polygon; the last point connects back to the first.
type outline []point

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// chainTolerance is the largest endpoint gap, in drawing units, still
// treated as connected.
const chainTolerance = 0.01

// ImportDXF imports rooms from a floor plan. Every closed LWPOLYLINE with at
// least three vertices and every closed chain of LINE entities becomes a room
// whose length and width are the bounding box of the outline, divided by
// unitsPerMeter (1000 for a plan drawn in mm). unitsPerMeter <= 0 means 1.
func ImportDXF(path string, unitsPerMeter float64) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o, closed, curved := lwPolylineToOutline(e)
			if !closed {
				result.Warnings = append(result.Warnings, "Skipped open LWPOLYLINE")
				continue
			}
			if curved {
				result.Warnings = append(result.Warnings,
					"LWPOLYLINE arc segments are read as straight walls")
			}
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	// Chain loose LINEs into closed outlines
	outlines = append(outlines, chainSegments(segments, chainTolerance)...)

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	rooms, warnings := roomsFromOutlines(outlines, unitsPerMeter)
	result.Rooms = rooms
	result.Warnings = append(result.Warnings, warnings...)
	if len(rooms) == 0 {
		result.Errors = append(result.Errors, "No usable room outlines found in DXF file")
	}
	return result
}

// roomsFromOutlines converts outlines into rooms named "Room 1", "Room 2", ...
func roomsFromOutlines(outlines []outline, unitsPerMeter float64) ([]model.Room, []string) {
	if unitsPerMeter <= 0 {
		unitsPerMeter = 1
	}

	var rooms []model.Room
	var warnings []string
	for i, o := range outlines {
		min, max := o.boundingBox()
		length := (max.X - min.X) / unitsPerMeter
		width := (max.Y - min.Y) / unitsPerMeter
		name := fmt.Sprintf("Room %d", len(rooms)+1)

		if length < 0.01 || width < 0.01 {
			warnings = append(warnings,
				fmt.Sprintf("Skipped degenerate shape %d (%.2f x %.2f m)", i+1, length, width))
			continue
		}
		if !o.isRectangular() {
			warnings = append(warnings,
				fmt.Sprintf("%s is not rectangular, using its bounding box", name))
		}
		rooms = append(rooms, model.NewRoom(name, length, width, 0))
	}
	return rooms, warnings
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an outline.
// closed is true when the closed flag is set or the last vertex returns to
// the first. curved reports whether any vertex carried a bulge.
func lwPolylineToOutline(lw *entity.LwPolyline) (o outline, closed, curved bool) {
	for i, v := range lw.Vertices {
		if len(v) < 2 {
			continue
		}
		if i < len(lw.Bulges) && math.Abs(lw.Bulges[i]) > 1e-9 {
			curved = true
		}
		o = append(o, point{X: v[0], Y: v[1]})
	}
	closed = lw.Closed
	// Drop an explicit closing vertex
	if len(o) > 3 && pointsClose(o[0], o[len(o)-1], chainTolerance) {
		o = o[:len(o)-1]
		closed = true
	}
	return o, closed, curved
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
// Open chains are dropped.
func chainSegments(segs []segment, tolerance float64) []outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []outline

	for {
		// Find the first unused segment
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		// Try to extend the chain
		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			// Remove the duplicate closing point
			outlines = append(outlines, outline(chain[:len(chain)-1]))
		}
	}

	// Sort outlines by area (largest first) for consistent ordering
	sort.SliceStable(outlines, func(i, j int) bool {
		return outlines[i].area() > outlines[j].area()
	})

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

func (o outline) boundingBox() (min, max point) {
	if len(o) == 0 {
		return point{}, point{}
	}
	min, max = o[0], o[0]
	for _, p := range o[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// area computes the absolute area of the polygon using the shoelace formula.
func (o outline) area() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	return math.Abs(area) / 2
}

// isRectangular reports whether the outline fills its bounding box.
func (o outline) isRectangular() bool {
	min, max := o.boundingBox()
	box := (max.X - min.X) * (max.Y - min.Y)
	if box == 0 {
		return false
	}
	return math.Abs(o.area()-box)/box < 0.001
}
