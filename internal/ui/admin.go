package ui

import (
	"context"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/piwi3910/CalcBuild/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	// Helper to create a float entry bound to a pointer
	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(model.FormatRaw(*val))
		e.OnChanged = func(text string) {
			*val = model.ParseNumber(text)
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.Itoa(*val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	stringEntry := func(val *string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(*val)
		e.OnChanged = func(text string) {
			*val = text
		}
		return e
	}

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	backendSelect := widget.NewSelect([]string{
		model.BackendFile, model.BackendMemory, model.BackendRedis, model.BackendPostgres,
	}, func(selected string) {
		cfg.Store.Backend = selected
	})
	backendSelect.SetSelected(cfg.Store.Backend)

	passwordEntry := widget.NewPasswordEntry()
	passwordEntry.SetText(cfg.Store.RedisPassword)
	passwordEntry.OnChanged = func(text string) {
		cfg.Store.RedisPassword = text
	}

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Wall Height (m)", floatEntry(&cfg.Defaults.WallHeight)),
		widget.NewFormItem("Default Paint Coverage (m²/L)", floatEntry(&cfg.Defaults.PaintCoverage)),
		widget.NewFormItem("Default Paint Price (€/L)", floatEntry(&cfg.Defaults.PaintPrice)),
		widget.NewFormItem("Default Render Price (€/m²)", floatEntry(&cfg.Defaults.PlasterPrice)),
		widget.NewFormItem("Default Insulation Price (€/m²)", floatEntry(&cfg.Defaults.InsulationPrice)),
		widget.NewFormItem("Default Wall Waste (%)", floatEntry(&cfg.Defaults.WallWaste)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Storage Backend", backendSelect),
		widget.NewFormItem("Storage Key", stringEntry(&cfg.Store.Key)),
		widget.NewFormItem("Data Directory", stringEntry(&cfg.Store.Dir)),
		widget.NewFormItem("Redis Address", stringEntry(&cfg.Store.RedisAddr)),
		widget.NewFormItem("Redis Password", passwordEntry),
		widget.NewFormItem("Redis DB", intEntry(&cfg.Store.RedisDB)),
		widget.NewFormItem("PostgreSQL DSN", stringEntry(&cfg.Store.PostgresDSN)),
		widget.NewFormItem("PostgreSQL Table", stringEntry(&cfg.Store.PostgresTable)),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			if err := project.ValidateAppConfig(cfg); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			storeChanged := cfg.Store != a.config.Store
			a.config = cfg
			a.ws.SetDefaults(cfg.Defaults)
			a.applyTheme()
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
				return
			}
			msg := "Application settings have been saved.\nNew defaults apply to the next new project."
			if storeChanged {
				msg += "\n\nStorage changes take effect after a restart."
			}
			dialog.ShowInformation("Settings Saved", msg, a.window)
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 650))
	d.Show()
}

// applyTheme switches the theme variant to the configured one.
func (a *App) applyTheme() {
	if a.theme == nil {
		return
	}
	a.theme.SetThemeName(a.config.Theme)
	fyne.CurrentApp().Settings().SetTheme(a.theme)
}

// showImportExportDialog displays the import/export data dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := project.ExportAllData(context.Background(), path, a.config, a.repo); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("calcbuild-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your current application settings\nand overwrite saved projects with the same name.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					path := reader.URI().Path()
					backup, err := project.ImportAllData(path)
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					restored, err := project.RestoreProjects(context.Background(), a.repo, backup)
					if err != nil {
						dialog.ShowError(fmt.Errorf("failed to restore projects: %w", err), a.window)
						return
					}
					a.config = backup.Config
					a.ws.SetDefaults(a.config.Defaults)
					a.applyTheme()
					if err := a.saveConfig(); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
						return
					}
					a.logger.Info("backup imported", zap.String("path", path), zap.Int("projects", restored))
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Restored %d projects from backup created at %s.", restored, backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export all application data (settings and saved projects) to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}
