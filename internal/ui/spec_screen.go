package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/lumispec/internal/api"
	"github.com/piwi3910/lumispec/internal/console"
	"github.com/piwi3910/lumispec/internal/model"
	"github.com/piwi3910/lumispec/internal/ui/widgets"
)

// productTarget is the history target of the product parameter table.
// Measurement tables use the measurement id.
const productTarget = "product"

// Table columns of parameter rows.
const (
	colParam = "parametro"
	colUnit  = "unidade"
	colKey   = "chave"
)

var paramColumns = []widgets.Column{
	{Label: "Parameter", Key: colParam},
	{Label: "Value", Key: widgets.ValueKey},
	{Label: "Unit", Key: colUnit},
}

var projectColumns = []widgets.Column{
	{Label: "Number", Key: "numero"},
	{Label: "Created", Key: "criadoEm"},
	{Label: "Samples", Key: "amostras"},
}

// tableRows converts parameter rows to table rows.
func tableRows(rows []model.ParamRow) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, r := range rows {
		out[i] = map[string]string{
			colParam:         r.Label,
			widgets.ValueKey: r.Value,
			colUnit:          r.Unit,
			colKey:           r.Key,
		}
	}
	return out
}

// paramRows converts table rows back to parameter rows.
func paramRows(rows []map[string]string) []model.ParamRow {
	out := make([]model.ParamRow, len(rows))
	for i, r := range rows {
		out[i] = model.ParamRow{
			Label: r[colParam],
			Key:   r[colKey],
			Value: r[widgets.ValueKey],
			Unit:  r[colUnit],
		}
	}
	return out
}

func projectRows(projects []model.Project) []map[string]string {
	out := make([]map[string]string, len(projects))
	for i, pj := range projects {
		out[i] = map[string]string{
			"id":       pj.ID,
			"numero":   pj.Number,
			"criadoEm": model.FormatDate(pj.CreatedAt),
			"amostras": strconv.Itoa(len(pj.Samples)),
		}
	}
	return out
}

// editTarget picks the table that undo, redo and import act on. The product
// table wins while the specification tab is showing.
func editTarget(st console.State) (string, bool) {
	if st.ProductEdit && (st.Active == console.SpecTab || st.EditingMeasurement == "") {
		return productTarget, true
	}
	if st.EditingMeasurement != "" {
		return st.EditingMeasurement, true
	}
	return "", false
}

// editRows returns the rows typed so far into target.
func editRows(st console.State, target string) ([]model.ParamRow, bool) {
	if target == productTarget {
		return st.ProductRows, st.ProductEdit
	}
	if st.EditingMeasurement != target {
		return nil, false
	}
	return st.MeasurementRows[target], true
}

// signature summarises everything the screen lays out except the rows being
// typed, so keystrokes do not rebuild the tables.
func signature(st console.State) string {
	sel := make(map[string]string, len(st.SelectedSample))
	for k, v := range st.SelectedSample {
		sel[k] = v.ID
	}
	return fmt.Sprintf("%v|%t|%s|%v|%s|%t|%v|%s",
		st.Product, st.NotFound, st.Active, st.Tabs,
		st.EditingMeasurement, st.ProductEdit, sel, st.SelectedProject)
}

// specScreen shows one product: its parameters, its projects and a tab per
// open project.
type specScreen struct {
	a     *App
	coord *console.Coordinator

	root   *fyne.Container
	center *fyne.Container
	title  *widget.Label
	busy   *widget.ProgressBarInfinite

	tabs         *container.DocTabs
	specItem     *container.TabItem
	projectsItem *container.TabItem
	projectItems map[string]*container.TabItem

	specTable     *widgets.SpecTable
	specEditBtn   *widget.Button
	specImportBtn *widget.Button
	projectsTable *widgets.SpecTable
	measTables    map[string]*widgets.SpecTable

	state     console.State
	signature string
	syncing   bool
	closed    bool
}

func newSpecScreen(a *App, productID string) *specScreen {
	s := &specScreen{
		a:            a,
		projectItems: make(map[string]*container.TabItem),
		measTables:   make(map[string]*widgets.SpecTable),
	}
	s.coord = console.NewCoordinator(a.hub, productID,
		console.WithNotifier(a),
		console.WithLogger(a.logger.With(zap.String("product", productID))))
	s.coord.OnChange(func() {
		fyne.Do(s.refresh)
	})
	return s
}

func (s *specScreen) build() fyne.CanvasObject {
	s.title = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	s.busy = widget.NewProgressBarInfinite()
	s.busy.Hide()

	backBtn := widget.NewButtonWithIcon("Products", theme.NavigateBackIcon(), func() {
		s.a.showProductList()
	})
	top := container.NewHBox(
		backBtn,
		s.title,
		layout.NewSpacer(),
		widgets.NewIconButton(theme.DocumentPrintIcon(), "Export specification PDF", func() {
			s.a.exportCurrent(exportPDF)
		}),
		widgets.NewIconButton(theme.GridIcon(), "Export sample labels", func() {
			s.a.exportCurrent(exportLabels)
		}),
		widgets.NewIconButton(theme.DocumentSaveIcon(), "Export workbook", func() {
			s.a.exportCurrent(exportXLSX)
		}),
	)

	// Specification tab
	s.specTable = widgets.NewSpecTable(paramColumns, s.a.window)
	s.specTable.OnChange = func(rows []map[string]string) {
		s.onRowsChanged(productTarget, rows)
	}
	s.specEditBtn = widget.NewButtonWithIcon("Edit Parameters", theme.DocumentCreateIcon(), func() {
		s.toggleProductEdit()
	})
	s.specImportBtn = widget.NewButtonWithIcon("Import Readings", theme.UploadIcon(), func() {
		s.a.importReadings()
	})
	s.specItem = container.NewTabItem("Specification", container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Product Parameters", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			s.specImportBtn,
			s.specEditBtn,
		),
		nil, nil, nil,
		container.NewVScroll(s.specTable.Object()),
	))

	// Projects tab
	s.projectsTable = widgets.NewSpecTable(projectColumns, s.a.window)
	s.projectsTable.OnRowClick = func(row map[string]string) {
		id := row["id"]
		s.a.background(func(ctx context.Context) {
			_ = s.coord.SelectProjectRow(ctx, id)
		})
	}
	s.projectsTable.OnEdit = func(row map[string]string) {
		s.showProjectForm(row["id"], row["numero"])
	}
	s.projectsTable.DeleteTitle = "Delete Project"
	s.projectsTable.DeleteText = func(row map[string]string) string {
		return fmt.Sprintf("Delete project %s? Its samples must be deleted first.", row["numero"])
	}
	s.projectsTable.OnDelete = func(row map[string]string) {
		id := row["id"]
		s.a.background(func(ctx context.Context) {
			_ = s.coord.DeleteProject(ctx, id)
		})
	}
	newProjectBtn := widget.NewButtonWithIcon("New Project", theme.ContentAddIcon(), func() {
		s.showProjectForm("", "")
	})
	s.projectsItem = container.NewTabItem("Projects", container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Projects", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			newProjectBtn,
		),
		nil, nil, nil,
		container.NewVScroll(s.projectsTable.Object()),
	))

	s.tabs = container.NewDocTabs(s.specItem, s.projectsItem)
	s.tabs.SetTabLocation(container.TabLocationTop)
	s.tabs.OnSelected = s.onTabSelected
	s.tabs.CloseIntercept = s.onTabClose

	s.center = container.NewStack(widget.NewLabel("Loading product..."))
	s.root = container.NewBorder(container.NewVBox(top, s.busy), nil, nil, nil, s.center)
	return s.root
}

func (s *specScreen) load() {
	s.a.background(func(ctx context.Context) {
		if err := s.coord.Load(ctx); err != nil {
			s.a.logger.Warn("loading product failed", zap.Error(err))
		}
	})
}

func (s *specScreen) close() {
	s.closed = true
	s.coord.Close()
}

// refresh redraws from the latest state. It runs on the UI goroutine.
func (s *specScreen) refresh() {
	if s.closed {
		return
	}
	st := s.coord.Snapshot()
	s.state = st
	if st.Busy {
		s.busy.Show()
	} else {
		s.busy.Hide()
	}

	sig := signature(st)
	if sig == s.signature {
		return
	}
	s.signature = sig
	s.render(st)
}

func (s *specScreen) setCenter(obj fyne.CanvasObject) {
	if len(s.center.Objects) == 1 && s.center.Objects[0] == obj {
		return
	}
	s.center.RemoveAll()
	s.center.Add(obj)
	s.center.Refresh()
}

func (s *specScreen) render(st console.State) {
	if st.Product == nil {
		if st.NotFound {
			s.title.SetText("")
			s.setCenter(container.NewCenter(container.NewVBox(
				widget.NewLabelWithStyle("Product not found.", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
				widget.NewButtonWithIcon("Back to Products", theme.NavigateBackIcon(), func() {
					s.a.showProductList()
				}),
			)))
		}
		return
	}

	p := st.Product
	s.title.SetText(fmt.Sprintf("%s  ·  %s  ·  %s", p.Name, p.Reference, p.Type.Label()))

	// Specification tab
	if st.ProductEdit {
		s.specEditBtn.SetText("Save Parameters")
		s.specEditBtn.SetIcon(theme.DocumentSaveIcon())
		s.specEditBtn.Importance = widget.HighImportance
		s.specImportBtn.Enable()
	} else {
		s.specEditBtn.SetText("Edit Parameters")
		s.specEditBtn.SetIcon(theme.DocumentCreateIcon())
		s.specEditBtn.Importance = widget.MediumImportance
		s.specImportBtn.Disable()
	}
	s.specEditBtn.Refresh()
	s.specTable.SetEditMode(st.ProductEdit)
	s.specTable.SetRows(tableRows(st.ProductRows))

	// Projects tab
	s.projectsTable.SetRows(projectRows(p.Projects))

	s.syncTabs(st)
	s.setCenter(s.tabs)
}

// syncTabs makes the DocTabs match the open project tabs and the active tab.
func (s *specScreen) syncTabs(st console.State) {
	s.syncing = true
	defer func() { s.syncing = false }()

	items := []*container.TabItem{s.specItem, s.projectsItem}
	open := make(map[string]bool, len(st.Tabs))
	for _, tab := range st.Tabs {
		id := tab.Project.ID
		open[id] = true
		title := "Project " + tab.Project.Number
		content := s.projectContent(st, tab)
		item, ok := s.projectItems[id]
		if !ok {
			item = container.NewTabItem(title, content)
			s.projectItems[id] = item
		} else {
			item.Text = title
			item.Content = content
		}
		items = append(items, item)
	}
	for id := range s.projectItems {
		if !open[id] {
			delete(s.projectItems, id)
		}
	}
	s.pruneMeasurementTables(st)

	s.tabs.SetItems(items)
	if item := s.itemFor(st.Active); item != nil {
		s.tabs.Select(item)
	}
	s.tabs.Refresh()
}

func (s *specScreen) itemFor(ref console.TabRef) *container.TabItem {
	switch ref {
	case console.SpecTab:
		return s.specItem
	case console.ProjectsTab:
		return s.projectsItem
	}
	if id, ok := ref.ProjectID(); ok {
		return s.projectItems[id]
	}
	return nil
}

func (s *specScreen) refFor(item *container.TabItem) (console.TabRef, bool) {
	switch item {
	case s.specItem:
		return console.SpecTab, true
	case s.projectsItem:
		return console.ProjectsTab, true
	}
	for id, it := range s.projectItems {
		if it == item {
			return console.ProjectTabRef(id), true
		}
	}
	return console.TabRef{}, false
}

func (s *specScreen) onTabSelected(item *container.TabItem) {
	if s.syncing {
		return
	}
	ref, ok := s.refFor(item)
	if !ok || ref == s.state.Active {
		return
	}
	s.a.background(func(ctx context.Context) {
		_ = s.coord.SelectTab(ctx, ref)
	})
}

// onTabClose keeps the two fixed tabs open and hands project tabs to the
// coordinator, which picks the tab to show next.
func (s *specScreen) onTabClose(item *container.TabItem) {
	ref, ok := s.refFor(item)
	if !ok || ref.IsFixed() {
		return
	}
	id, _ := ref.ProjectID()
	s.coord.CloseProjectTab(id)
}

// ─── Project Tab ───────────────────────────────────────────

func (s *specScreen) projectContent(st console.State, tab console.ProjectTab) fyne.CanvasObject {
	split := container.NewHSplit(s.samplesPanel(st, tab), s.measurementsPanel(st, tab))
	split.Offset = 0.28
	return split
}

func (s *specScreen) samplesPanel(st console.State, tab console.ProjectTab) fyne.CanvasObject {
	projectID := tab.Project.ID
	selected, hasSelection := st.SelectedSample[projectID]

	addBtn := widgets.NewIconButton(theme.ContentAddIcon(), "New sample", func() {
		s.showSampleForm()
	})
	delBtn := widgets.NewIconButton(theme.DeleteIcon(), "Delete selected sample", func() {
		s.confirmDeleteSample(selected)
	})
	if !hasSelection {
		delBtn.Disable()
	}

	list := container.NewVBox()
	if len(tab.Samples) == 0 {
		list.Add(widget.NewLabel("No samples yet."))
	}
	for _, smp := range tab.Samples {
		sampleID := smp.ID
		btn := widget.NewButton(fmt.Sprintf("%s  (%d)", smp.Code, len(smp.Measurements)), func() {
			_ = s.coord.SelectSample(projectID, sampleID)
		})
		btn.Alignment = widget.ButtonAlignLeading
		if hasSelection && selected.ID == sampleID {
			btn.Importance = widget.HighImportance
		}
		list.Add(btn)
	}

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Samples", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
			delBtn,
		),
		nil, nil, nil,
		container.NewVScroll(list),
	)
}

func (s *specScreen) measurementsPanel(st console.State, tab console.ProjectTab) fyne.CanvasObject {
	projectID := tab.Project.ID
	selected, hasSelection := st.SelectedSample[projectID]

	heading := "Measurements"
	if hasSelection {
		heading += " - " + selected.Code
	}
	addBtn := widget.NewButtonWithIcon("New Measurement", theme.ContentAddIcon(), func() {
		s.showMeasurementForm()
	})
	if !hasSelection {
		addBtn.Disable()
	}

	body := container.NewVBox()
	measurements := st.Measurements(projectID)
	switch {
	case !hasSelection:
		body.Add(widget.NewLabel("Select a sample to see its measurements."))
	case len(measurements) == 0:
		body.Add(widget.NewLabel("No measurements recorded."))
	}
	for _, m := range measurements {
		body.Add(s.measurementCard(st, m))
	}

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle(heading, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(body),
	)
}

func (s *specScreen) measurementCard(st console.State, m model.Measurement) fyne.CanvasObject {
	measurementID := m.ID
	editing := st.EditingMeasurement == measurementID

	tbl, ok := s.measTables[measurementID]
	if !ok {
		tbl = widgets.NewSpecTable(paramColumns, s.a.window)
		tbl.OnChange = func(rows []map[string]string) {
			s.onRowsChanged(measurementID, rows)
		}
		s.measTables[measurementID] = tbl
	}
	tbl.SetEditMode(editing)
	tbl.SetRows(tableRows(st.MeasurementRows[measurementID]))

	editBtn := widget.NewButtonWithIcon("Edit", theme.DocumentCreateIcon(), func() {
		s.toggleMeasurementEdit(measurementID)
	})
	if editing {
		editBtn.SetText("Save")
		editBtn.SetIcon(theme.DocumentSaveIcon())
		editBtn.Importance = widget.HighImportance
	}
	if !st.CanEditMeasurement(measurementID) {
		editBtn.Disable()
	}
	importBtn := widgets.NewIconButton(theme.UploadIcon(), "Import readings", func() {
		s.a.importReadings()
	})
	if !editing {
		importBtn.Disable()
	}
	delBtn := widgets.NewIconButton(theme.DeleteIcon(), "Delete measurement", func() {
		s.confirmDeleteMeasurement(m)
	})

	toolbar := container.NewHBox(layout.NewSpacer(), importBtn, editBtn, delBtn)
	return widget.NewCard(m.Type.Label(), "Created "+model.FormatDate(m.CreatedAt),
		container.NewVBox(toolbar, tbl.Object()))
}

func (s *specScreen) pruneMeasurementTables(st console.State) {
	for id := range s.measTables {
		if _, ok := st.MeasurementRows[id]; !ok {
			delete(s.measTables, id)
		}
	}
}

// ─── Inline Editing ────────────────────────────────────────

func (s *specScreen) tableFor(target string) *widgets.SpecTable {
	if target == productTarget {
		return s.specTable
	}
	return s.measTables[target]
}

func (s *specScreen) setRows(target string, rows []model.ParamRow) error {
	if target == productTarget {
		return s.coord.SetProductRows(rows)
	}
	return s.coord.SetMeasurementRows(target, rows)
}

// onRowsChanged records the previous rows for undo and stores the new ones.
func (s *specScreen) onRowsChanged(target string, rows []map[string]string) {
	prev, ok := editRows(s.coord.Snapshot(), target)
	if !ok {
		return
	}
	s.a.history.Push(MakeSnapshot(target, prev, "Edit value"))
	if err := s.setRows(target, paramRows(rows)); err != nil {
		s.a.logger.Debug("rows changed outside edit mode", zap.String("target", target))
	}
}

// restore applies rows to target and redraws its table.
func (s *specScreen) restore(target string, rows []model.ParamRow) {
	if err := s.setRows(target, rows); err != nil {
		return
	}
	if tbl := s.tableFor(target); tbl != nil {
		tbl.SetRows(tableRows(rows))
	}
}

func (s *specScreen) undo() {
	st := s.coord.Snapshot()
	target, ok := editTarget(st)
	if !ok {
		return
	}
	current, _ := editRows(st, target)
	if snap, ok := s.a.history.Undo(MakeSnapshot(target, current, "")); ok {
		s.restore(target, snap.Rows)
	}
}

func (s *specScreen) redo() {
	st := s.coord.Snapshot()
	target, ok := editTarget(st)
	if !ok {
		return
	}
	current, _ := editRows(st, target)
	if snap, ok := s.a.history.Redo(MakeSnapshot(target, current, "")); ok {
		s.restore(target, snap.Rows)
	}
}

// applyReadings fills the table being edited from imported readings and
// returns how many rows changed.
func (s *specScreen) applyReadings(readings map[string]string, label string) (int, error) {
	st := s.coord.Snapshot()
	target, ok := editTarget(st)
	if !ok {
		return 0, console.ErrNotEditing
	}
	prev, _ := editRows(st, target)
	s.a.history.Push(MakeSnapshot(target, prev, label))

	var (
		n   int
		err error
	)
	if target == productTarget {
		n, err = s.coord.ImportProductRows(readings)
	} else {
		n, err = s.coord.ImportMeasurementRows(target, readings)
	}
	if err != nil {
		return 0, err
	}
	rows, _ := editRows(s.coord.Snapshot(), target)
	if tbl := s.tableFor(target); tbl != nil {
		tbl.SetRows(tableRows(rows))
	}
	return n, nil
}

func (s *specScreen) toggleProductEdit() {
	if s.state.ProductEdit {
		s.a.history.Clear()
	}
	s.a.background(func(ctx context.Context) {
		if err := s.coord.ToggleProductEdit(ctx); err != nil {
			s.a.logger.Warn("saving product parameters failed", zap.Error(err))
		}
	})
}

func (s *specScreen) toggleMeasurementEdit(measurementID string) {
	if s.state.EditingMeasurement == measurementID {
		s.a.history.Clear()
	}
	s.a.background(func(ctx context.Context) {
		err := s.coord.ToggleMeasurementEdit(ctx, measurementID)
		if errors.Is(err, console.ErrEditLocked) {
			s.a.Notify(console.Notice{Severity: console.Failure, Message: "Finish editing the other measurement first."})
			return
		}
		if err != nil {
			s.a.logger.Warn("saving measurement parameters failed",
				zap.String("measurement", measurementID), zap.Error(err))
		}
	})
}

// ─── Dialogs ───────────────────────────────────────────────

// submitModal runs action in the background with the modal in its loading
// state, closing it on success and showing the backend message otherwise.
func (s *specScreen) submitModal(m *widgets.FormModal, action func(ctx context.Context) error) {
	m.SetLoading(true)
	s.a.background(func(ctx context.Context) {
		err := action(ctx)
		fyne.Do(func() {
			m.SetLoading(false)
			if err != nil {
				msg := api.Message(err)
				if errors.Is(err, console.ErrNoProject) || errors.Is(err, console.ErrNoSample) || msg == "" {
					msg = err.Error()
				}
				m.SetError(msg)
				return
			}
			m.Hide()
		})
	})
}

func (s *specScreen) showProjectForm(projectID, number string) {
	title, submit := "New Project", "Create"
	if projectID != "" {
		title, submit = "Edit Project", "Save"
	}
	fields := []widgets.Field{{Name: "numero", Label: "Number", Required: true}}
	var m *widgets.FormModal
	m = widgets.NewFormModal(title, submit, fields, map[string]string{"numero": number}, func(values map[string]string) {
		s.submitModal(m, func(ctx context.Context) error {
			return s.coord.SubmitProject(ctx, projectID, values["numero"])
		})
	}, s.a.window)
	m.Show()
}

func (s *specScreen) showSampleForm() {
	fields := []widgets.Field{{Name: "codigo", Label: "Code", Required: true}}
	var m *widgets.FormModal
	m = widgets.NewFormModal("New Sample", "Create", fields, nil, func(values map[string]string) {
		s.submitModal(m, func(ctx context.Context) error {
			return s.coord.CreateSample(ctx, values["codigo"])
		})
	}, s.a.window)
	m.Show()
}

func (s *specScreen) showMeasurementForm() {
	var types []string
	for _, t := range model.MeasurementTypes {
		types = append(types, t.Label())
	}
	fields := []widgets.Field{{Name: "tipoMedicao", Label: "Type", Required: true, Type: widgets.FieldSelect, Options: types}}
	var m *widgets.FormModal
	m = widgets.NewFormModal("New Measurement", "Create", fields, nil, func(values map[string]string) {
		t := model.ParseMeasurementType(values["tipoMedicao"])
		s.submitModal(m, func(ctx context.Context) error {
			return s.coord.CreateMeasurement(ctx, t)
		})
	}, s.a.window)
	m.Show()
}

func (s *specScreen) confirmDeleteSample(smp model.Sample) {
	m := widgets.NewConfirmModal("Delete Sample",
		fmt.Sprintf("Delete sample %s and its %d measurement(s)?", smp.Code, len(smp.Measurements)),
		"Delete", "Cancel", true, s.a.window)
	m.OnConfirm = func() {
		m.SetLoading(true)
		s.a.background(func(ctx context.Context) {
			err := s.coord.DeleteSelectedSample(ctx)
			if err != nil {
				s.a.logger.Warn("deleting sample failed", zap.String("sample", smp.ID), zap.Error(err))
			}
			fyne.Do(func() {
				m.SetLoading(false)
				m.Hide()
			})
		})
	}
	m.Show()
}

func (s *specScreen) confirmDeleteMeasurement(meas model.Measurement) {
	m := widgets.NewConfirmModal("Delete Measurement",
		fmt.Sprintf("Delete the %s measurement and its parameters?", meas.Type.Label()),
		"Delete", "Cancel", true, s.a.window)
	m.OnConfirm = func() {
		m.SetLoading(true)
		s.a.background(func(ctx context.Context) {
			closeDialog, err := s.coord.DeleteMeasurement(ctx, meas.ID)
			if err != nil {
				s.a.logger.Warn("deleting measurement failed", zap.String("measurement", meas.ID), zap.Error(err))
			}
			fyne.Do(func() {
				m.SetLoading(false)
				if closeDialog {
					m.Hide()
				}
			})
		})
	}
	m.Show()
}

// ─── App hooks ─────────────────────────────────────────────

func (a *App) undoRows() {
	if a.spec != nil {
		a.spec.undo()
	}
}

func (a *App) redoRows() {
	if a.spec != nil {
		a.spec.redo()
	}
}
