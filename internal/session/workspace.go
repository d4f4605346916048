// Package session holds the in-memory project being edited and wires it to
// the estimator and the project store.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/piwi3910/CalcBuild/internal/project"
	"go.uber.org/zap"
)

// ConfirmNewProject is the prompt shown before discarding the current project.
const ConfirmNewProject = "Clear the fields and start from scratch?"

// Parameter field names accepted by SetParameter. They match the JSON keys
// of a stored project.
const (
	FieldWallHeight      = "wallHeight"
	FieldPaintCoverage   = "paintCoverage"
	FieldPaintPrice      = "paintPrice"
	FieldPlasterPrice    = "plasterPrice"
	FieldInsulationPrice = "insulationPrice"
	FieldWallWaste       = "wallWaste"
)

// ProjectRepository is the storage the workspace saves to and loads from.
type ProjectRepository interface {
	Save(ctx context.Context, p model.Project) (string, error)
	Load(ctx context.Context, name string) (model.Project, error)
	ListNames(ctx context.Context) ([]string, error)
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) bool

// Workspace is the transient project state behind the editor. It is not safe
// for concurrent use.
type Workspace struct {
	repo     ProjectRepository
	defaults model.Parameters
	confirm  ConfirmFunc
	logger   *zap.Logger

	project  model.Project
	estimate model.Estimate
}

// New returns a workspace holding a fresh project. A nil confirm accepts
// every prompt and a nil logger discards output.
func New(repo ProjectRepository, defaults model.Parameters, confirm ConfirmFunc, logger *zap.Logger) *Workspace {
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Workspace{
		repo:     repo,
		defaults: defaults.Normalized(),
		confirm:  confirm,
		logger:   logger,
	}
	w.reset()
	return w
}

func (w *Workspace) reset() {
	w.project = model.Project{
		Parameters: w.defaults,
		Rooms:      model.SeedRooms(),
	}
	w.recompute()
}

func (w *Workspace) recompute() {
	w.estimate = model.Compute(w.project.Parameters, w.project.Rooms)
}

// Project returns a copy of the current project.
func (w *Workspace) Project() model.Project {
	return w.project.Clone()
}

// Estimate returns the estimate for the current project.
func (w *Workspace) Estimate() model.Estimate {
	return w.estimate
}

// AddRoom appends r, or the default room when r is nil.
func (w *Workspace) AddRoom(r *model.Room) {
	room := model.DefaultRoom()
	if r != nil {
		room = *r
	}
	w.project.Rooms = append(w.project.Rooms, room.Normalized())
	w.recompute()
}

// AddRooms appends several rooms at once, as produced by an import.
func (w *Workspace) AddRooms(rooms []model.Room) {
	for _, r := range rooms {
		w.project.Rooms = append(w.project.Rooms, r.Normalized())
	}
	w.recompute()
}

// DeleteRoom removes the room at index i.
func (w *Workspace) DeleteRoom(i int) error {
	if i < 0 || i >= len(w.project.Rooms) {
		return fmt.Errorf("room index %d out of range [0,%d)", i, len(w.project.Rooms))
	}
	w.project.Rooms = append(w.project.Rooms[:i], w.project.Rooms[i+1:]...)
	w.recompute()
	return nil
}

// UpdateRoom replaces room i with values typed by the user. Unreadable
// numbers become zero.
func (w *Workspace) UpdateRoom(i int, name, length, width, openings string) error {
	if i < 0 || i >= len(w.project.Rooms) {
		return fmt.Errorf("room index %d out of range [0,%d)", i, len(w.project.Rooms))
	}
	w.project.Rooms[i] = model.NewRoom(name,
		model.ParseNumber(length),
		model.ParseNumber(width),
		model.ParseNumber(openings))
	w.recompute()
	return nil
}

// SetProjectName renames the current project. Surrounding blanks are dropped.
func (w *Workspace) SetProjectName(name string) {
	w.project.ProjectName = strings.TrimSpace(name)
}

// SetParameter sets one global parameter from user text.
func (w *Workspace) SetParameter(field, raw string) error {
	v := model.ParseNumber(raw)
	p := &w.project.Parameters
	switch field {
	case FieldWallHeight:
		p.WallHeight = v
	case FieldPaintCoverage:
		p.PaintCoverage = v
	case FieldPaintPrice:
		p.PaintPrice = v
	case FieldPlasterPrice:
		p.PlasterPrice = v
	case FieldInsulationPrice:
		p.InsulationPrice = v
	case FieldWallWaste:
		p.WallWaste = v
	default:
		return fmt.Errorf("unknown parameter %q", field)
	}
	w.recompute()
	return nil
}

// SetParameters replaces all global parameters.
func (w *Workspace) SetParameters(params model.Parameters) {
	w.project.Parameters = params.Normalized()
	w.recompute()
}

// Restore replaces the current project with p, as when loading a saved one.
func (w *Workspace) Restore(p model.Project) {
	w.project = p.Normalized()
	if w.project.Rooms == nil {
		w.project.Rooms = []model.Room{}
	}
	w.recompute()
}

// SetDefaults changes the parameters used by the next NewProject. The
// current project keeps its own.
func (w *Workspace) SetDefaults(params model.Parameters) {
	w.defaults = params.Normalized()
}

// NewProject discards the current project after confirmation. It reports
// whether the reset happened.
func (w *Workspace) NewProject() bool {
	if !w.confirm(ConfirmNewProject) {
		return false
	}
	w.reset()
	w.logger.Debug("workspace reset")
	return true
}

// Save stores the current project and returns the key it was saved under.
func (w *Workspace) Save(ctx context.Context) (string, error) {
	snapshot := w.project.Normalized()
	key, err := w.repo.Save(ctx, snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to save project: %w", err)
	}
	return key, nil
}

// Load replaces the current project with the one stored under name. It
// returns false, leaving the workspace untouched, when no such project exists.
func (w *Workspace) Load(ctx context.Context, name string) (bool, error) {
	p, err := w.repo.Load(ctx, name)
	if errors.Is(err, project.ErrNotFound) {
		w.logger.Info("no saved project", zap.String("name", name))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load project: %w", err)
	}
	w.Restore(p)
	return true, nil
}

// SavedNames lists the names of stored projects.
func (w *Workspace) SavedNames(ctx context.Context) ([]string, error) {
	names, err := w.repo.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return names, nil
}
