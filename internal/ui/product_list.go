package ui

import (
	"context"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/lumispec/internal/api"
	"github.com/piwi3910/lumispec/internal/console"
	"github.com/piwi3910/lumispec/internal/model"
	"github.com/piwi3910/lumispec/internal/ui/widgets"
)

// listView is the filter, sort and paging state of the product list.
type listView struct {
	filter  string
	sortBy  console.SortColumn
	desc    bool
	page    int
	perPage int
}

func newListView() listView {
	return listView{sortBy: console.SortByName, perPage: console.PerPageOptions[1]}
}

// visible applies the view to items and returns the current page plus the
// page count. The page is clamped to the last one.
func (v *listView) visible(items []model.Product) ([]model.Product, int) {
	filtered := console.FilterProducts(items, v.filter)
	sorted := console.SortProducts(filtered, v.sortBy, v.desc)
	pages := console.PageCount(len(sorted), v.perPage)
	if v.page >= pages {
		v.page = pages - 1
	}
	if v.page < 0 {
		v.page = 0
	}
	return console.Page(sorted, v.page, v.perPage), pages
}

// toggleSort sorts by column, flipping the direction on a repeated click.
func (v *listView) toggleSort(column console.SortColumn) {
	if v.sortBy == column {
		v.desc = !v.desc
	} else {
		v.sortBy = column
		v.desc = false
	}
	v.page = 0
}

type listColumn struct {
	label  string
	column console.SortColumn
}

var productColumns = []listColumn{
	{"Name", console.SortByName},
	{"Reference", console.SortByReference},
	{"Type", console.SortByType},
	{"Measurement", console.SortByMeasurement},
	{"Created", console.SortByCreated},
}

// ─── Product List Panel ────────────────────────────────────

func (a *App) buildProductListPanel() fyne.CanvasObject {
	a.productsContainer = container.NewVBox()
	a.pageLabel = widget.NewLabel("")

	filter := widget.NewEntry()
	filter.SetPlaceHolder("Filter by name...")
	filter.SetText(a.list.filter)
	filter.OnChanged = func(text string) {
		a.list.filter = text
		a.list.page = 0
		a.refreshProductList()
	}

	addBtn := widget.NewButtonWithIcon("New Product", theme.ContentAddIcon(), func() {
		a.showProductForm(nil)
	})
	addBtn.Importance = widget.HighImportance
	reloadBtn := widgets.NewIconButton(theme.ViewRefreshIcon(), "Reload", a.reloadProducts)

	var perPage []string
	for _, n := range console.PerPageOptions {
		perPage = append(perPage, strconv.Itoa(n))
	}
	perPageSelect := widget.NewSelect(perPage, func(selected string) {
		if n, err := strconv.Atoi(selected); err == nil && n != a.list.perPage {
			a.list.perPage = n
			a.list.page = 0
			a.refreshProductList()
		}
	})
	perPageSelect.SetSelected(strconv.Itoa(a.list.perPage))

	prevBtn := widgets.NewIconButton(theme.NavigateBackIcon(), "Previous page", func() {
		a.list.page--
		a.refreshProductList()
	})
	nextBtn := widgets.NewIconButton(theme.NavigateNextIcon(), "Next page", func() {
		a.list.page++
		a.refreshProductList()
	})

	top := container.NewVBox(
		container.NewHBox(
			widget.NewLabelWithStyle("Products", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			reloadBtn,
			addBtn,
		),
		filter,
	)
	bottom := container.NewHBox(
		widget.NewLabel("Per page"), perPageSelect,
		layout.NewSpacer(),
		prevBtn, a.pageLabel, nextBtn,
	)

	a.refreshProductList()
	return container.NewBorder(top, bottom, nil, nil, container.NewVScroll(a.productsContainer))
}

func (a *App) reloadProducts() {
	a.background(func(ctx context.Context) {
		if _, err := a.products.Refresh(ctx); err != nil {
			a.logger.Warn(err.Error())
		}
		fyne.Do(func() {
			a.refreshProductList()
			a.SetupMenus()
		})
	})
}

func (a *App) refreshProductList() {
	if a.productsContainer == nil {
		return
	}
	a.productsContainer.RemoveAll()

	snap := a.hub.Products.Snapshot()
	items, pages := a.list.visible(snap.Items)
	a.pageLabel.SetText(fmt.Sprintf("Page %d of %d", a.list.page+1, pages))

	// Header
	var header []fyne.CanvasObject
	for _, c := range productColumns {
		column := c.column
		label := c.label
		if a.list.sortBy == column {
			if a.list.desc {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		btn := widget.NewButton(label, func() {
			a.list.toggleSort(column)
			a.refreshProductList()
		})
		btn.Importance = widget.LowImportance
		btn.Alignment = widget.ButtonAlignLeading
		header = append(header, btn)
	}
	header = append(header, widget.NewLabel(""))
	a.productsContainer.Add(container.NewGridWithColumns(len(productColumns)+1, header...))
	a.productsContainer.Add(widget.NewSeparator())

	if snap.Loading && len(snap.Items) == 0 {
		a.productsContainer.Add(widget.NewLabel("Loading products..."))
		return
	}
	if len(items) == 0 {
		a.productsContainer.Add(widget.NewLabel("No products found. Click 'New Product' to begin."))
		return
	}

	for _, p := range items {
		product := p
		row := container.NewGridWithColumns(len(productColumns)+1,
			widget.NewLabel(product.Name),
			widget.NewLabel(product.Reference),
			widget.NewLabel(product.Type.Label()),
			widget.NewLabel(console.MeasurementSummary(product)),
			widget.NewLabel(model.FormatDate(product.CreatedAt)),
			container.NewHBox(
				widgets.NewIconButton(theme.NavigateNextIcon(), "Open specification", func() {
					a.showSpec(product.ID)
				}),
				widgets.NewIconButton(theme.DocumentCreateIcon(), "Edit product", func() {
					a.showProductForm(&product)
				}),
				widgets.NewIconButton(theme.DeleteIcon(), "Delete product", func() {
					a.confirmDeleteProduct(product)
				}),
			),
		)
		a.productsContainer.Add(row)
	}
}

// ─── Product Dialogs ───────────────────────────────────────

func productFields() []widgets.Field {
	var types []string
	for _, t := range model.ProductTypes {
		types = append(types, t.Label())
	}
	return []widgets.Field{
		{Name: "nome", Label: "Name", Required: true},
		{Name: "tipo", Label: "Type", Required: true, Type: widgets.FieldSelect, Options: types},
		{Name: "referencia", Label: "Reference", Required: true},
	}
}

func productInput(values map[string]string) model.ProductInput {
	return model.ProductInput{
		Name:      values["nome"],
		Type:      model.ParseProductType(values["tipo"]),
		Reference: values["referencia"],
	}
}

// showProductForm opens the create dialog, or the edit dialog seeded from
// existing when it is set. A created product opens its specification.
func (a *App) showProductForm(existing *model.Product) {
	title, submit := "New Product", "Create"
	var initial map[string]string
	if existing != nil {
		title, submit = "Edit Product", "Save"
		initial = map[string]string{
			"nome":       existing.Name,
			"tipo":       existing.Type.Label(),
			"referencia": existing.Reference,
		}
	}

	var m *widgets.FormModal
	m = widgets.NewFormModal(title, submit, productFields(), initial, func(values map[string]string) {
		m.SetLoading(true)
		in := productInput(values)
		a.background(func(ctx context.Context) {
			if existing != nil {
				err := a.products.Update(ctx, existing.ID, in)
				fyne.Do(func() {
					m.SetLoading(false)
					if err != nil {
						m.SetError(api.Message(err))
						return
					}
					m.Hide()
					a.refreshProductList()
				})
				return
			}

			p, err := a.products.Create(ctx, in)
			fyne.Do(func() {
				m.SetLoading(false)
				if p.ID == "" {
					m.SetError(api.Message(err))
					return
				}
				m.Hide()
				a.showSpec(p.ID)
			})
		})
	}, a.window)
	m.Show()
}

func (a *App) confirmDeleteProduct(p model.Product) {
	m := widgets.NewConfirmModal("Delete Product",
		fmt.Sprintf("Delete product %q? Its projects must be deleted first.", p.Name),
		"Delete", "Cancel", true, a.window)
	m.OnConfirm = func() {
		m.SetLoading(true)
		a.background(func(ctx context.Context) {
			err := a.products.Delete(ctx, p.ID)
			fyne.Do(func() {
				m.SetLoading(false)
				m.Hide()
				if err == nil {
					a.cfg.RemoveRecentProduct(p.ID)
					a.saveConfig()
					a.SetupMenus()
				}
				a.refreshProductList()
			})
		})
	}
	m.Show()
}
