package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"go.uber.org/zap"

	"github.com/piwi3910/lumispec/internal/console"
	"github.com/piwi3910/lumispec/internal/export"
	"github.com/piwi3910/lumispec/internal/importer"
	"github.com/piwi3910/lumispec/internal/model"
)

// exportKind is one of the documents a product can be exported to.
type exportKind int

const (
	exportPDF exportKind = iota
	exportLabels
	exportXLSX
)

func (k exportKind) suffix() string {
	switch k {
	case exportLabels:
		return "-labels.pdf"
	case exportXLSX:
		return ".xlsx"
	default:
		return "-spec.pdf"
	}
}

func (k exportKind) write(path string, p model.Product) error {
	switch k {
	case exportLabels:
		return export.ExportLabels(path, p)
	case exportXLSX:
		return export.ExportXLSX(path, p)
	default:
		return export.ExportPDF(path, p)
	}
}

// exportFileName builds the suggested file name from the product reference,
// falling back to its name.
func exportFileName(p model.Product, k exportKind) string {
	base := strings.TrimSpace(p.Reference)
	if base == "" {
		base = strings.TrimSpace(p.Name)
	}
	if base == "" {
		base = "product"
	}
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, base)
	return base + k.suffix()
}

// ─── Export Functions ──────────────────────────────────────

func (a *App) exportCurrent(k exportKind) {
	if a.spec == nil || a.spec.state.Product == nil {
		dialog.ShowInformation("No product", "Open a product specification first.", a.window)
		return
	}
	product := *a.spec.state.Product

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		a.background(func(ctx context.Context) {
			// Re-read the product so the document has every sample and
			// measurement recorded so far.
			fresh, err := a.hub.ShowProduct(ctx, product.ID)
			if err != nil {
				a.logger.Warn("refreshing product before export failed", zap.Error(err))
				fresh = product
			}
			if err := k.write(path, fresh); err != nil {
				a.logger.Warn("export failed", zap.String("path", path), zap.Error(err))
				a.Notify(console.Notice{Severity: console.Failure, Message: fmt.Sprintf("Export failed: %v", err)})
				return
			}
			a.Notify(console.Notice{Severity: console.Success, Message: "Saved to " + path})
			fyne.Do(func() {
				a.cfg.ExportDir = filepath.Dir(path)
				a.saveConfig()
			})
		})
	}, a.window)
	d.SetFileName(exportFileName(product, k))
	if a.cfg.ExportDir != "" {
		if dir, err := storage.ListerForURI(storage.NewFileURI(a.cfg.ExportDir)); err == nil {
			d.SetLocation(dir)
		}
	}
	d.Show()
}

// ─── Import Functions ──────────────────────────────────────

func (a *App) importReadings() {
	if a.spec == nil {
		dialog.ShowInformation("No product", "Open a product specification first.", a.window)
		return
	}
	if _, ok := editTarget(a.spec.coord.Snapshot()); !ok {
		dialog.ShowInformation("Nothing to fill",
			"Click Edit on the product parameters or on a measurement first.", a.window)
		return
	}

	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		result := importer.ImportFile(path)
		a.handleImportResult(filepath.Base(path), result)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".xlsx", ".xls"}))
	d.Show()
}

func (a *App) handleImportResult(name string, result importer.ImportResult) {
	// Show errors if any
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}

	if len(result.Warnings) > 0 {
		a.logger.Info("import warnings", zap.String("file", name), zap.Strings("warnings", result.Warnings))
	}

	if len(result.Readings) == 0 || a.spec == nil {
		return
	}
	n, err := a.spec.applyReadings(result.Readings, "Import "+name)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	msg := fmt.Sprintf("Filled %d value(s) from %s. Save to send them.", n, name)
	if len(result.Warnings) > 0 {
		msg += fmt.Sprintf("\n\n%d warning(s):\n%s", len(result.Warnings), strings.Join(result.Warnings, "\n"))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}
