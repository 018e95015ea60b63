package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/lumispec/internal/config"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.cfg

	urlEntry := widget.NewEntry()
	urlEntry.SetText(cfg.APIBaseURL)

	timeoutEntry := widget.NewEntry()
	if text, err := cfg.Timeout.MarshalText(); err == nil {
		timeoutEntry.SetText(string(text))
	}

	levelSelect := widget.NewSelect([]string{"debug", "info", "warn", "error"}, func(selected string) {
		cfg.LogLevel = selected
	})
	levelSelect.SetSelected(cfg.LogLevel)

	// Theme selector
	themeSelect := widget.NewSelect(ThemeNames, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	exportEntry := widget.NewEntry()
	exportEntry.SetText(cfg.ExportDir)
	exportEntry.SetPlaceHolder("Last used folder")

	formItems := []*widget.FormItem{
		widget.NewFormItem("API Base URL", urlEntry),
		widget.NewFormItem("Request Timeout", timeoutEntry),
		widget.NewFormItem("Log Level", levelSelect),
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Export Folder", exportEntry),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			cfg.APIBaseURL = urlEntry.Text
			cfg.ExportDir = exportEntry.Text
			if err := cfg.Timeout.UnmarshalText([]byte(timeoutEntry.Text)); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if err := cfg.Validate(); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			restart := needsRestart(a.cfg, cfg)
			a.applyConfig(cfg)
			if !a.saveConfig() {
				return
			}
			msg := "Application settings have been saved."
			if restart {
				msg += "\n\nConnection and logging changes apply on the next start."
			}
			dialog.ShowInformation("Settings Saved", msg, a.window)
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 360))
	d.Show()
}

// needsRestart reports whether next changes settings that are only read at
// startup.
func needsRestart(prev, next config.Config) bool {
	return prev.APIBaseURL != next.APIBaseURL ||
		prev.Timeout != next.Timeout ||
		prev.LogLevel != next.LogLevel
}

// applyConfig makes cfg current and applies the theme.
func (a *App) applyConfig(cfg config.Config) {
	a.cfg = cfg
	a.theme.SetName(cfg.Theme)
	a.app.Settings().SetTheme(a.theme)
	a.SetupMenus()
}

// showBackupDialog displays the settings backup and restore dialog.
func (a *App) showBackupDialog() {
	exportBtn := widget.NewButton("Back Up Settings...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := config.ExportBackup(path, a.cfg); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Backup Complete",
					fmt.Sprintf("Settings saved to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("lumispec-settings.json")
		d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
		d.Show()
	})

	importBtn := widget.NewButton("Restore Settings...", func() {
		dialog.ShowConfirm("Restore Settings",
			"Restoring will replace your current settings.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					path := reader.URI().Path()
					reader.Close()
					backup, err := config.ImportBackup(path)
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					restart := needsRestart(a.cfg, backup.Config)
					a.applyConfig(backup.Config)
					if !a.saveConfig() {
						return
					}
					msg := fmt.Sprintf("Settings restored from a backup created at %s.", backup.CreatedAt)
					if restart {
						msg += "\n\nConnection and logging changes apply on the next start."
					}
					dialog.ShowInformation("Restore Complete", msg, a.window)
				}, a.window)
				d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Back up the console settings (backend URL, theme, recent products)\nto a file, or restore them from a previous backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Back Up / Restore Settings", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// saveConfig persists the current settings, reporting failures in a dialog.
func (a *App) saveConfig() bool {
	if a.cfgPath == "" {
		return true
	}
	if err := config.Save(a.cfgPath, a.cfg); err != nil {
		a.logger.Warn("saving settings failed", zap.String("path", a.cfgPath), zap.Error(err))
		dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
		return false
	}
	return true
}
