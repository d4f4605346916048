package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// UnnamedProject is the storage key used for a project saved without a name.
const UnnamedProject = "Unnamed Project"

// DefaultRoomName replaces a blank room name.
const DefaultRoomName = "Room"

// Room is a rectangular room whose walls are to be covered.
type Room struct {
	Name     string  `json:"name"`
	Length   float64 `json:"L"`        // m
	Width    float64 `json:"W"`        // m
	Openings float64 `json:"openings"` // m², doors and windows
}

// NewRoom returns a normalized room.
func NewRoom(name string, length, width, openings float64) Room {
	return Room{
		Name:     name,
		Length:   length,
		Width:    width,
		Openings: openings,
	}.Normalized()
}

// DefaultRoom returns the room added by the "add room" action.
func DefaultRoom() Room {
	return Room{Name: "", Length: 4, Width: 3, Openings: 2}
}

// Normalized returns a copy with a non-blank name and finite, non-negative dimensions.
func (r Room) Normalized() Room {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = DefaultRoomName
	}
	return Room{
		Name:     name,
		Length:   Sanitize(r.Length),
		Width:    Sanitize(r.Width),
		Openings: Sanitize(r.Openings),
	}
}

// Perimeter returns the floor perimeter in metres.
func (r Room) Perimeter() float64 {
	return 2 * (r.Length + r.Width)
}

// GrossWallArea returns the wall surface for the given ceiling height.
func (r Room) GrossWallArea(wallHeight float64) float64 {
	return r.Perimeter() * wallHeight
}

// NetWallArea returns the gross wall area minus openings, floored at zero.
func (r Room) NetWallArea(wallHeight float64) float64 {
	return math.Max(0, r.GrossWallArea(wallHeight)-r.Openings)
}

// UnmarshalJSON applies the add-room defaults to numeric fields missing from data.
func (r *Room) UnmarshalJSON(data []byte) error {
	type plain Room
	decoded := plain(DefaultRoom())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*r = Room(decoded)
	return nil
}

// Parameters are the global pricing and coverage inputs of a project.
type Parameters struct {
	WallHeight      float64 `json:"wallHeight" mapstructure:"wallHeight"`           // m
	PaintCoverage   float64 `json:"paintCoverage" mapstructure:"paintCoverage"`     // m² per litre
	PaintPrice      float64 `json:"paintPrice" mapstructure:"paintPrice"`           // per litre
	PlasterPrice    float64 `json:"plasterPrice" mapstructure:"plasterPrice"`       // per m²
	InsulationPrice float64 `json:"insulationPrice" mapstructure:"insulationPrice"` // per m²
	WallWaste       float64 `json:"wallWaste" mapstructure:"wallWaste"`             // percent, e.g. 7.5
}

// DefaultParameters returns the parameters used when none are supplied.
func DefaultParameters() Parameters {
	return Parameters{
		WallHeight:      2.5,
		PaintCoverage:   10,
		PaintPrice:      18,
		PlasterPrice:    12,
		InsulationPrice: 25,
		WallWaste:       7.5,
	}
}

// Normalized returns a copy with every field sanitized.
func (p Parameters) Normalized() Parameters {
	return Parameters{
		WallHeight:      Sanitize(p.WallHeight),
		PaintCoverage:   Sanitize(p.PaintCoverage),
		PaintPrice:      Sanitize(p.PaintPrice),
		PlasterPrice:    Sanitize(p.PlasterPrice),
		InsulationPrice: Sanitize(p.InsulationPrice),
		WallWaste:       Sanitize(p.WallWaste),
	}
}

// Project ties everything together for save/load.
type Project struct {
	ProjectName string `json:"projectName"`
	Parameters
	Rooms []Room `json:"rooms"`
}

// NewProject returns a blank project seeded with two example rooms.
func NewProject() Project {
	return Project{
		ProjectName: "",
		Parameters:  DefaultParameters(),
		Rooms:       SeedRooms(),
	}
}

// SeedRooms returns the rooms a new project starts with.
func SeedRooms() []Room {
	return []Room{
		{Name: "Living room", Length: 6, Width: 4, Openings: 3},
		{Name: "Bedroom", Length: 3.5, Width: 3, Openings: 2},
	}
}

// StorageKey returns the key the project is stored under.
func (p Project) StorageKey() string {
	if p.ProjectName == "" {
		return UnnamedProject
	}
	return p.ProjectName
}

// Normalized returns a deep copy with sanitized parameters and rooms.
func (p Project) Normalized() Project {
	out := Project{
		ProjectName: strings.TrimSpace(p.ProjectName),
		Parameters:  p.Parameters.Normalized(),
	}
	if p.Rooms != nil {
		out.Rooms = make([]Room, len(p.Rooms))
		for i, r := range p.Rooms {
			out.Rooms[i] = r.Normalized()
		}
	}
	return out
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	out := p
	if p.Rooms != nil {
		out.Rooms = make([]Room, len(p.Rooms))
		copy(out.Rooms, p.Rooms)
	}
	return out
}

// UnmarshalJSON fills missing or null global parameters with their defaults.
func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	decoded := plain{Parameters: DefaultParameters()}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = Project(decoded)
	return nil
}

// Sanitize coerces negative and non-finite values to zero.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseNumber reads a user-entered number. Both "." and "," are accepted as
// decimal separator. Anything unparseable reads as zero.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if IsHexLiteral(s) {
		return 0
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Sanitize(v)
}

// IsHexLiteral reports whether s is written in hexadecimal ("0x1p2").
// strconv accepts those; user input only counts as decimal.
func IsHexLiteral(s string) bool {
	s = strings.TrimLeft(strings.TrimSpace(s), "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
