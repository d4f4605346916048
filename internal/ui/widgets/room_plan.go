package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CalcBuild/internal/model"
)

// Room colors, cycled for visual distinction.
var roomColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

// planGap is the space between rooms in the plan, in metres.
const planGap = 0.5

// placedRoom is a room positioned in plan coordinates (metres).
type placedRoom struct {
	room model.Room
	x, y float64
}

// layoutRooms places rooms left to right, wrapping to a new row once a row
// is wider than rowWidth metres. It returns the placements and the overall
// plan size. Rooms with a zero dimension are skipped.
func layoutRooms(rooms []model.Room, rowWidth float64) ([]placedRoom, float64, float64) {
	var placed []placedRoom
	var x, y, rowHeight, width float64

	for _, r := range rooms {
		if r.Length <= 0 || r.Width <= 0 {
			continue
		}
		if x > 0 && x+r.Length > rowWidth {
			x = 0
			y += rowHeight + planGap
			rowHeight = 0
		}
		placed = append(placed, placedRoom{room: r, x: x, y: y})
		x += r.Length + planGap
		if r.Width > rowHeight {
			rowHeight = r.Width
		}
		if x-planGap > width {
			width = x - planGap
		}
	}
	return placed, width, y + rowHeight
}

// RoomPlan draws each room as a scaled rectangle, Length horizontal.
type RoomPlan struct {
	widget.BaseWidget
	rooms     []model.Room
	maxWidth  float32
	maxHeight float32
}

func NewRoomPlan(rooms []model.Room, maxW, maxH float32) *RoomPlan {
	rp := &RoomPlan{
		rooms:     rooms,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	rp.ExtendBaseWidget(rp)
	return rp
}

func (rp *RoomPlan) CreateRenderer() fyne.WidgetRenderer {
	return newRoomPlanRenderer(rp)
}

type roomPlanRenderer struct {
	rp      *RoomPlan
	objects []fyne.CanvasObject
	size    fyne.Size
}

func newRoomPlanRenderer(rp *RoomPlan) *roomPlanRenderer {
	r := &roomPlanRenderer{rp: rp}
	r.rebuild()
	return r
}

func (r *roomPlanRenderer) rebuild() {
	r.objects = nil

	// Aim for a plan about twice as wide as it is tall.
	var total float64
	for _, room := range r.rp.rooms {
		total += room.Length + planGap
	}
	rowWidth := total / 2
	if rowWidth < 10 {
		rowWidth = 10
	}

	placed, planW, planH := layoutRooms(r.rp.rooms, rowWidth)
	if len(placed) == 0 {
		msg := canvas.NewText("No rooms with a length and width to draw.", color.Gray{Y: 120})
		msg.TextSize = 12
		r.objects = append(r.objects, msg)
		r.size = msg.MinSize()
		return
	}

	scale := r.rp.maxWidth / float32(planW)
	if s := r.rp.maxHeight / float32(planH); s < scale {
		scale = s
	}
	r.size = fyne.NewSize(float32(planW)*scale, float32(planH)*scale)

	for i, p := range placed {
		col := roomColors[i%len(roomColors)]
		rw := float32(p.room.Length) * scale
		rh := float32(p.room.Width) * scale
		rx := float32(p.x) * scale
		ry := float32(p.y) * scale

		rect := canvas.NewRectangle(col)
		rect.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		rect.StrokeWidth = 1
		rect.Resize(fyne.NewSize(rw, rh))
		rect.Move(fyne.NewPos(rx, ry))
		r.objects = append(r.objects, rect)

		// Label (only if big enough)
		if rw > 40 && rh > 28 {
			name := canvas.NewText(p.room.Name, color.Black)
			name.TextSize = 10
			name.TextStyle = fyne.TextStyle{Bold: true}
			name.Move(fyne.NewPos(rx+3, ry+2))
			r.objects = append(r.objects, name)

			dims := canvas.NewText(fmt.Sprintf("%s x %s m", model.FormatNumber(p.room.Length), model.FormatNumber(p.room.Width)), color.Black)
			dims.TextSize = 9
			dims.Move(fyne.NewPos(rx+3, ry+14))
			r.objects = append(r.objects, dims)
		}
	}
}

func (r *roomPlanRenderer) Layout(size fyne.Size) {}

func (r *roomPlanRenderer) MinSize() fyne.Size {
	return r.size
}

func (r *roomPlanRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.rp)
}

func (r *roomPlanRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *roomPlanRenderer) Destroy() {}
