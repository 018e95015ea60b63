package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	"go.uber.org/zap"

	"github.com/piwi3910/lumispec/internal/config"
	"github.com/piwi3910/lumispec/internal/console"
	"github.com/piwi3910/lumispec/internal/store"
	"github.com/piwi3910/lumispec/internal/ui/widgets"
)

// Version is shown in the About dialog. It is set by cmd/lumispec.
var Version = "dev"

// Options carries what the window needs from the command line.
type Options struct {
	Config     config.Config
	ConfigPath string
	Hub        *store.Hub
	Logger     *zap.Logger
}

// App holds all application state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	theme   *LumiSpecTheme
	cfg     config.Config
	cfgPath string
	hub     *store.Hub
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc

	banner   *widgets.Banner
	body     *fyne.Container
	products *console.ProductList
	list     listView
	spec     *specScreen
	history  *History

	// UI references for dynamic updates
	productsContainer *fyne.Container
	pageLabel         *widget.Label
}

// NewApp creates the application controller for window.
func NewApp(application fyne.App, window fyne.Window, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		app:     application,
		window:  window,
		theme:   NewLumiSpecTheme(opts.Config.Theme),
		cfg:     opts.Config,
		cfgPath: opts.ConfigPath,
		hub:     opts.Hub,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		banner:  widgets.NewBanner(),
		list:    newListView(),
		history: NewHistory(),
	}
	a.products = console.NewProductList(a.hub, a, logger)
	application.Settings().SetTheme(a.theme)
	window.SetOnClosed(a.shutdown)
	return a
}

// Notify shows a notice in the banner. It is safe to call from any goroutine.
func (a *App) Notify(n console.Notice) {
	fyne.Do(func() {
		if n.Severity == console.Failure {
			a.banner.ShowError(n.Message)
		} else {
			a.banner.ShowSuccess(n.Message)
		}
	})
}

// background runs fn off the UI goroutine.
func (a *App) background(fn func(ctx context.Context)) {
	go fn(a.ctx)
}

func (a *App) shutdown() {
	if a.spec != nil {
		a.spec.close()
	}
	a.cancel()
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	// File Menu
	recent := fyne.NewMenuItem("Recent Products", nil)
	recent.ChildMenu = a.recentMenu()
	recent.Disabled = len(a.cfg.RecentProducts) == 0

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Products", func() {
			a.showProductList()
		}),
		fyne.NewMenuItem("New Product...", func() {
			a.showProductForm(nil)
		}),
		recent,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Specification PDF...", func() {
			a.exportCurrent(exportPDF)
		}),
		fyne.NewMenuItem("Export Sample Labels...", func() {
			a.exportCurrent(exportLabels)
		}),
		fyne.NewMenuItem("Export Workbook (XLSX)...", func() {
			a.exportCurrent(exportXLSX)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", func() {
			a.showSettingsDialog()
		}),
		fyne.NewMenuItem("Back Up / Restore Settings...", func() {
			a.showBackupDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	// Edit Menu
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo Edit", func() {
			a.undoRows()
		}),
		fyne.NewMenuItem("Redo Edit", func() {
			a.redoRows()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Readings...", func() {
			a.importReadings()
		}),
	)

	// Help Menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

func (a *App) recentMenu() *fyne.Menu {
	names := make(map[string]string)
	for _, p := range a.products.Items() {
		names[p.ID] = p.Name
	}
	var items []*fyne.MenuItem
	for _, id := range a.cfg.RecentProducts {
		label := names[id]
		if label == "" {
			label = id
		}
		productID := id
		items = append(items, fyne.NewMenuItem(label, func() {
			a.showSpec(productID)
		}))
	}
	return fyne.NewMenu("Recent Products", items...)
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About LumiSpec",
		"LumiSpec - Lighting Product Test Specifications\n\n"+
			"Admin console for products, test projects, samples\n"+
			"and photometric measurements.\n\n"+
			"Version "+Version,
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.body = container.NewStack()
	a.showProductList()
	content := container.NewBorder(a.banner.Object(), nil, nil, nil, a.body)
	return fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas())
}

// ─── Navigation ────────────────────────────────────────────

func (a *App) setBody(obj fyne.CanvasObject) {
	a.body.RemoveAll()
	a.body.Add(obj)
	a.body.Refresh()
}

func (a *App) showProductList() {
	if a.spec != nil {
		a.spec.close()
		a.spec = nil
	}
	a.history.Clear()
	a.setBody(a.buildProductListPanel())
	a.reloadProducts()
}

func (a *App) showSpec(productID string) {
	if a.spec != nil {
		a.spec.close()
	}
	a.history.Clear()
	a.spec = newSpecScreen(a, productID)
	a.setBody(a.spec.build())
	a.spec.load()

	a.cfg.AddRecentProduct(productID)
	a.saveConfig()
	a.SetupMenus()
}
