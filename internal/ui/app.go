package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/CalcBuild/internal/export"
	roomimporter "github.com/piwi3910/CalcBuild/internal/importer"
	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/piwi3910/CalcBuild/internal/project"
	"github.com/piwi3910/CalcBuild/internal/session"
	"github.com/piwi3910/CalcBuild/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	window fyne.Window
	ws     *session.Workspace
	repo   *project.Repository
	config model.AppConfig
	logger *zap.Logger
	theme  *CalcBuildTheme
	tabs   *container.AppTabs

	// UI references for dynamic updates
	nameEntry       *widget.Entry
	paramEntries    map[string]*widget.Entry
	roomsContainer  *fyne.Container
	resultContainer *fyne.Container
	planContainer   *fyne.Container
}

// NewApp wires the editor window to a workspace backed by repo.
func NewApp(window fyne.Window, repo *project.Repository, cfg model.AppConfig, th *CalcBuildTheme, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Fyne dialogs do not block, so newProject asks through dialog.ShowConfirm
	// and the workspace confirm accepts.
	return &App{
		window:       window,
		ws:           session.New(repo, cfg.Defaults, nil, logger),
		repo:         repo,
		config:       cfg,
		logger:       logger,
		theme:        th,
		paramEntries: make(map[string]*widget.Entry),
	}
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", func() {
			a.newProject()
		}),
		fyne.NewMenuItem("Open Project...", func() {
			a.loadProject()
		}),
		fyne.NewMenuItem("Save Project", func() {
			a.saveProject()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Rooms from CSV...", func() {
			a.importCSV()
		}),
		fyne.NewMenuItem("Import Rooms from Excel...", func() {
			a.importExcel()
		}),
		fyne.NewMenuItem("Import Rooms from DXF...", func() {
			a.importDXF()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export CSV...", func() {
			a.exportCSV()
		}),
		fyne.NewMenuItem("Export Excel...", func() {
			a.exportExcel()
		}),
		fyne.NewMenuItem("Export PDF Report...", func() {
			a.exportPDF()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Add Room", func() {
			a.ws.AddRoom(nil)
			a.refreshAll()
		}),
		fyne.NewMenuItem("Clear All Rooms", func() {
			for len(a.ws.Project().Rooms) > 0 {
				if err := a.ws.DeleteRoom(0); err != nil {
					break
				}
			}
			a.refreshAll()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Settings...", func() {
			a.showSettingsDialog()
		}),
		fyne.NewMenuItem("Import / Export Data...", func() {
			a.showImportExportDialog()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(
		fileMenu,
		editMenu,
		toolsMenu,
		helpMenu,
	))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About CalcBuild",
		"CalcBuild - Wall Finish Estimator\n\n"+
			"Estimates paint, render and insulation quantities\n"+
			"and costs from a list of rectangular rooms.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	roomsTab := container.NewTabItem("Rooms", a.buildRoomsPanel())
	paramsTab := container.NewTabItem("Parameters", a.buildParametersPanel())
	resultsTab := container.NewTabItem("Estimate", a.buildResultsPanel())
	planTab := container.NewTabItem("Floor Plan", a.buildPlanPanel())

	a.tabs = container.NewAppTabs(roomsTab, paramsTab, resultsTab, planTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	a.refreshResults()
	return a.tabs
}

// ─── Rooms Panel ───────────────────────────────────────────

func (a *App) buildRoomsPanel() fyne.CanvasObject {
	a.nameEntry = widget.NewEntry()
	a.nameEntry.SetPlaceHolder(model.UnnamedProject)
	a.nameEntry.SetText(a.ws.Project().ProjectName)
	a.nameEntry.OnChanged = func(text string) {
		a.ws.SetProjectName(text)
	}

	a.roomsContainer = container.NewVBox()
	a.refreshRoomsList()

	addBtn := widget.NewButtonWithIcon("Add Room", theme.ContentAddIcon(), func() {
		a.ws.AddRoom(nil)
		a.refreshAll()
	})

	top := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Project"), nil, a.nameEntry),
		container.NewHBox(
			widget.NewLabelWithStyle("Rooms", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
		),
	)

	return container.NewBorder(top, nil, nil, nil, container.NewVScroll(a.roomsContainer))
}

func (a *App) refreshRoomsList() {
	a.roomsContainer.RemoveAll()

	rooms := a.ws.Project().Rooms
	if len(rooms) == 0 {
		a.roomsContainer.Add(widget.NewLabel("No rooms added yet. Click 'Add Room' to begin."))
		return
	}

	header := container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Length (m)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Width (m)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Openings (m²)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.roomsContainer.Add(header)
	a.roomsContainer.Add(widget.NewSeparator())

	for i := range rooms {
		idx := i
		r := rooms[idx]

		name := widget.NewEntry()
		name.SetText(r.Name)
		length := widget.NewEntry()
		length.SetText(model.FormatRaw(r.Length))
		width := widget.NewEntry()
		width.SetText(model.FormatRaw(r.Width))
		openings := widget.NewEntry()
		openings.SetText(model.FormatRaw(r.Openings))

		update := func(string) {
			if err := a.ws.UpdateRoom(idx, name.Text, length.Text, width.Text, openings.Text); err != nil {
				a.logger.Warn("room update rejected", zap.Int("index", idx), zap.Error(err))
				return
			}
			a.refreshResults()
		}
		name.OnChanged = update
		length.OnChanged = update
		width.OnChanged = update
		openings.OnChanged = update

		deleteBtn := newIconButtonWithTooltip(theme.DeleteIcon(), "Delete room", func() {
			if err := a.ws.DeleteRoom(idx); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.refreshAll()
		})

		a.roomsContainer.Add(container.NewGridWithColumns(5, name, length, width, openings, deleteBtn))
	}
}

// ─── Parameters Panel ──────────────────────────────────────

type parameterField struct {
	field string
	label string
	value func(model.Parameters) float64
}

var parameterFields = []parameterField{
	{session.FieldWallHeight, "Wall Height (m)", func(p model.Parameters) float64 { return p.WallHeight }},
	{session.FieldPaintCoverage, "Paint Coverage (m²/L)", func(p model.Parameters) float64 { return p.PaintCoverage }},
	{session.FieldPaintPrice, "Paint Price (€/L)", func(p model.Parameters) float64 { return p.PaintPrice }},
	{session.FieldPlasterPrice, "Render Price (€/m²)", func(p model.Parameters) float64 { return p.PlasterPrice }},
	{session.FieldInsulationPrice, "Insulation Price (€/m²)", func(p model.Parameters) float64 { return p.InsulationPrice }},
	{session.FieldWallWaste, "Wall Waste (%)", func(p model.Parameters) float64 { return p.WallWaste }},
}

func (a *App) buildParametersPanel() fyne.CanvasObject {
	params := a.ws.Project().Parameters

	items := make([]fyne.CanvasObject, 0, len(parameterFields)*2)
	for _, pf := range parameterFields {
		field := pf.field
		e := widget.NewEntry()
		e.SetText(model.FormatRaw(pf.value(params)))
		e.OnChanged = func(text string) {
			if err := a.ws.SetParameter(field, text); err != nil {
				a.logger.Warn("parameter update rejected", zap.String("field", field), zap.Error(err))
				return
			}
			a.refreshResults()
		}
		a.paramEntries[field] = e
		items = append(items, widget.NewLabel(pf.label), e)
	}

	section := widget.NewCard("Global Parameters", "Applied to every room",
		container.NewGridWithColumns(2, items...),
	)
	return container.NewVScroll(container.NewVBox(section))
}

func (a *App) refreshParameters() {
	params := a.ws.Project().Parameters
	for _, pf := range parameterFields {
		if e, ok := a.paramEntries[pf.field]; ok {
			e.SetText(model.FormatRaw(pf.value(params)))
		}
	}
}

// ─── Results Panel ─────────────────────────────────────────

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewVBox()
	return container.NewVScroll(a.resultContainer)
}

func (a *App) refreshResults() {
	if a.resultContainer == nil {
		return
	}
	est := a.ws.Estimate()
	a.resultContainer.RemoveAll()

	totals := container.NewGridWithColumns(2,
		widget.NewLabel(export.LabelWallArea), widget.NewLabel(model.FormatNumber(est.TotalWallArea)),
		widget.NewLabel(export.LabelPaintRequired), widget.NewLabel(model.FormatNumber(est.PaintVolume)),
		widget.NewLabel(export.LabelPaintCost), widget.NewLabel(model.FormatNumber(est.PaintCost)),
		widget.NewLabel(export.LabelRenderCost), widget.NewLabel(model.FormatNumber(est.PlasterCost)),
		widget.NewLabel(export.LabelInsulationCost), widget.NewLabel(model.FormatNumber(est.InsulationCost)),
		widget.NewLabelWithStyle(export.LabelTotalCost, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle(model.FormatNumber(est.TotalCost), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	a.resultContainer.Add(widget.NewCard("Totals", "", totals))

	breakdown := container.NewVBox(container.NewGridWithColumns(4,
		widget.NewLabelWithStyle("Room", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Perimeter (m)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Gross (m²)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Net (m²)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	))
	for _, r := range est.Rooms {
		breakdown.Add(container.NewGridWithColumns(4,
			widget.NewLabel(r.Name),
			widget.NewLabel(model.FormatNumber(r.Perimeter)),
			widget.NewLabel(model.FormatNumber(r.GrossWallArea)),
			widget.NewLabel(model.FormatNumber(r.NetWallArea)),
		))
	}
	a.resultContainer.Add(widget.NewCard("Per Room", "Before waste margin", breakdown))
	a.resultContainer.Refresh()

	a.refreshPlan()
}

// ─── Floor Plan Panel ──────────────────────────────────────

func (a *App) buildPlanPanel() fyne.CanvasObject {
	a.planContainer = container.NewStack()
	return container.NewScroll(a.planContainer)
}

func (a *App) refreshPlan() {
	if a.planContainer == nil {
		return
	}
	a.planContainer.RemoveAll()
	a.planContainer.Add(widgets.NewRoomPlan(a.ws.Project().Rooms, 900, 500))
	a.planContainer.Refresh()
}

// refreshAll redraws every panel after the room list or project changed.
func (a *App) refreshAll() {
	a.nameEntry.SetText(a.ws.Project().ProjectName)
	a.refreshRoomsList()
	a.refreshParameters()
	a.refreshResults()
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) newProject() {
	dialog.ShowConfirm("New Project", session.ConfirmNewProject, func(ok bool) {
		if !ok {
			return
		}
		a.ws.NewProject()
		a.refreshAll()
	}, a.window)
}

func (a *App) saveProject() {
	name, err := a.ws.Save(context.Background())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.rememberProject(name)
	dialog.ShowInformation("Project Saved", fmt.Sprintf("Saved as %q.", name), a.window)
}

func (a *App) loadProject() {
	names, err := a.ws.SavedNames(context.Background())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if len(names) == 0 {
		dialog.ShowInformation("No saved projects", "Save a project first.", a.window)
		return
	}

	nameSelect := widget.NewSelect(names, nil)
	nameSelect.SetSelected(names[0])

	form := dialog.NewForm("Open Project", "Open", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Project", nameSelect)},
		func(ok bool) {
			if !ok || nameSelect.Selected == "" {
				return
			}
			found, err := a.ws.Load(context.Background(), nameSelect.Selected)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if !found {
				dialog.ShowInformation("Not found", fmt.Sprintf("No project named %q.", nameSelect.Selected), a.window)
				return
			}
			a.rememberProject(nameSelect.Selected)
			a.refreshAll()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 200))
	form.Show()
}

// rememberProject records name in the recent projects list.
func (a *App) rememberProject(name string) {
	a.config.AddRecentProject(name)
	if err := a.saveConfig(); err != nil {
		a.logger.Warn("failed to save recent projects", zap.Error(err))
	}
}

func (a *App) exportCSV() {
	a.exportFile(export.CSVFileName(a.ws.Project().ProjectName), export.ExportCSV)
}

func (a *App) exportExcel() {
	a.exportFile(export.FileName(a.ws.Project().ProjectName, ".xlsx"), export.ExportExcel)
}

func (a *App) exportPDF() {
	a.exportFile(export.FileName(a.ws.Project().ProjectName, ".pdf"), export.ExportPDF)
}

func (a *App) exportFile(defaultName string, write func(string, model.Project, model.Estimate) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := write(path, a.ws.Project(), a.ws.Estimate()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.logger.Info("estimate exported", zap.String("path", path))
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Estimate saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

// ─── Import Functions ───────────────────────────────────────

func (a *App) importCSV() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		a.handleImportResult(roomimporter.ImportCSV(reader.URI().Path()))
	}, a.window)
}

func (a *App) importExcel() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		a.handleImportResult(roomimporter.ImportExcel(reader.URI().Path()))
	}, a.window)
}

// dxfUnits maps a drawing unit to the number of units per metre.
var dxfUnits = map[string]float64{
	"Metres":      1,
	"Centimetres": 100,
	"Millimetres": 1000,
}

func (a *App) importDXF() {
	unitSelect := widget.NewSelect([]string{"Metres", "Centimetres", "Millimetres"}, nil)
	unitSelect.SetSelected("Millimetres")

	form := dialog.NewForm("Import DXF Floor Plan", "Choose File...", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Drawing Units", unitSelect)},
		func(ok bool) {
			if !ok {
				return
			}
			units := dxfUnits[unitSelect.Selected]
			dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
				if err != nil || reader == nil {
					return
				}
				defer reader.Close()

				a.handleImportResult(roomimporter.ImportDXF(reader.URI().Path(), units))
			}, a.window)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(350, 180))
	form.Show()
}

func (a *App) handleImportResult(result roomimporter.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}

	for _, w := range result.Warnings {
		a.logger.Warn("import warning", zap.String("detail", w))
	}

	if len(result.Rooms) > 0 {
		a.ws.AddRooms(result.Rooms)
		a.refreshAll()

		msg := fmt.Sprintf("Successfully imported %d rooms.", len(result.Rooms))
		if len(result.Warnings) > 0 {
			msg += fmt.Sprintf("\n\n%d values were missing or invalid and read as zero.", len(result.Warnings))
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
	}
}
