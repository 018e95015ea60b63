package widgets

import (
	"regexp"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/lumispec/internal/model"
)

// ValueKey is the column that becomes editable in edit mode.
const ValueKey = "valor"

// EmptyText is shown in place of rows when there are none.
const EmptyText = "No data found."

// Column is one column of a SpecTable.
type Column struct {
	Label string
	Key   string
}

var valuePattern = regexp.MustCompile(`^[0-9.,-]*$`)

// ValidValue reports whether s only holds characters a reading may contain.
func ValidValue(s string) bool { return valuePattern.MatchString(s) }

// FilterValue drops the characters a reading may not contain.
func FilterValue(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DisplayValue renders the unmeasured sentinel as "-".
func DisplayValue(v string) string {
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f == model.Unmeasured {
		return "-"
	}
	return v
}

// CopyRows returns a deep copy of rows.
func CopyRows(rows []map[string]string) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, r := range rows {
		m := make(map[string]string, len(r))
		for k, v := range r {
			m[k] = v
		}
		out[i] = m
	}
	return out
}

// SpecTable renders rows of string cells under labelled columns, with an
// editable value column and optional row actions.
type SpecTable struct {
	OnChange   func(rows []map[string]string)
	OnEdit     func(row map[string]string)
	OnDelete   func(row map[string]string)
	OnRowClick func(row map[string]string)

	// DeleteTitle and DeleteText are shown by the confirmation asked before
	// OnDelete.
	DeleteTitle string
	DeleteText  func(row map[string]string) string

	columns  []Column
	rows     []map[string]string
	editMode bool

	window fyne.Window
	box    *fyne.Container
}

// NewSpecTable creates an empty table.
func NewSpecTable(columns []Column, window fyne.Window) *SpecTable {
	t := &SpecTable{
		columns:     columns,
		window:      window,
		box:         container.NewVBox(),
		DeleteTitle: "Delete",
	}
	t.Refresh()
	return t
}

// Object returns the canvas object to place in a layout.
func (t *SpecTable) Object() fyne.CanvasObject { return t.box }

// SetRows replaces the rows and redraws.
func (t *SpecTable) SetRows(rows []map[string]string) {
	t.rows = CopyRows(rows)
	t.Refresh()
}

// Rows returns a copy of the current rows, edits included.
func (t *SpecTable) Rows() []map[string]string { return CopyRows(t.rows) }

// SetEditMode switches the value column between labels and entries.
func (t *SpecTable) SetEditMode(on bool) {
	if t.editMode == on {
		return
	}
	t.editMode = on
	t.Refresh()
}

func (t *SpecTable) hasActions() bool {
	return t.OnEdit != nil || t.OnDelete != nil || t.OnRowClick != nil
}

// Refresh rebuilds the table from its rows.
func (t *SpecTable) Refresh() {
	t.box.RemoveAll()

	cols := len(t.columns)
	if t.hasActions() {
		cols++
	}

	var header []fyne.CanvasObject
	for _, c := range t.columns {
		header = append(header, widget.NewLabelWithStyle(c.Label, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	}
	if t.hasActions() {
		header = append(header, widget.NewLabel(""))
	}
	t.box.Add(container.NewGridWithColumns(cols, header...))
	t.box.Add(widget.NewSeparator())

	if len(t.rows) == 0 {
		t.box.Add(widget.NewLabelWithStyle(EmptyText, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}))
		return
	}

	for i := range t.rows {
		idx := i
		var cells []fyne.CanvasObject
		for _, c := range t.columns {
			cells = append(cells, t.cell(idx, c))
		}
		if t.hasActions() {
			cells = append(cells, t.actions(idx))
		}
		t.box.Add(container.NewGridWithColumns(cols, cells...))
	}
}

func (t *SpecTable) cell(idx int, c Column) fyne.CanvasObject {
	v := t.rows[idx][c.Key]
	if c.Key != ValueKey || !t.editMode {
		return widget.NewLabel(DisplayValue(v))
	}

	e := widget.NewEntry()
	e.SetPlaceHolder("-")
	if DisplayValue(v) != "-" {
		e.SetText(v)
	}
	e.OnChanged = func(text string) {
		if !ValidValue(text) {
			e.SetText(FilterValue(text))
			return
		}
		t.rows[idx][ValueKey] = text
		if t.OnChange != nil {
			t.OnChange(CopyRows(t.rows))
		}
	}
	return e
}

func (t *SpecTable) actions(idx int) fyne.CanvasObject {
	row := t.rows[idx]
	box := container.NewHBox()
	if t.OnRowClick != nil {
		box.Add(NewIconButton(theme.NavigateNextIcon(), "Open", func() {
			t.OnRowClick(row)
		}))
	}
	if t.OnEdit != nil {
		box.Add(NewIconButton(theme.DocumentCreateIcon(), "Edit", func() {
			t.OnEdit(row)
		}))
	}
	if t.OnDelete != nil {
		box.Add(NewIconButton(theme.DeleteIcon(), "Delete", func() {
			t.confirmDelete(row)
		}))
	}
	return box
}

func (t *SpecTable) confirmDelete(row map[string]string) {
	text := "Are you sure you want to delete this item?"
	if t.DeleteText != nil {
		text = t.DeleteText(row)
	}
	m := NewConfirmModal(t.DeleteTitle, text, "Delete", "Cancel", true, t.window)
	m.OnConfirm = func() {
		m.Hide()
		t.OnDelete(row)
	}
	m.Show()
}
