package widgets

import (
	"errors"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// FieldType selects the input widget of a Field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldSelect
)

// Field describes one input of a FormModal.
type Field struct {
	Name     string
	Label    string
	Required bool
	Type     FieldType
	// Options are the choices of a FieldSelect.
	Options []string
}

// Seed returns the starting value of every field: its initial value, or ""
// when initial has none.
func Seed(fields []Field, initial map[string]string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = initial[f.Name]
	}
	return values
}

// Missing lists the labels of required fields left blank.
func Missing(fields []Field, values map[string]string) []string {
	var out []string
	for _, f := range fields {
		if f.Required && strings.TrimSpace(values[f.Name]) == "" {
			out = append(out, f.Label)
		}
	}
	return out
}

var errRequired = errors.New("required")

// FormModal is a dialog that collects the values of a list of fields.
type FormModal struct {
	fields      []Field
	values      map[string]string
	onSubmit    func(map[string]string)
	submitLabel string

	dlg      dialog.Dialog
	form     *widget.Form
	submit   *widget.Button
	errLabel *widget.Label
	inputs   map[string]fyne.Disableable
}

// NewFormModal builds the dialog. onSubmit receives the values once every
// required field is filled; the dialog stays open until Hide is called so
// the caller can show loading and errors.
func NewFormModal(title, submitLabel string, fields []Field, initial map[string]string,
	onSubmit func(map[string]string), parent fyne.Window) *FormModal {

	m := &FormModal{
		fields:      fields,
		values:      Seed(fields, initial),
		onSubmit:    onSubmit,
		submitLabel: submitLabel,
		inputs:      make(map[string]fyne.Disableable),
	}

	var items []*widget.FormItem
	for _, f := range fields {
		items = append(items, widget.NewFormItem(f.Label, m.input(f)))
	}
	m.form = widget.NewForm(items...)

	m.errLabel = widget.NewLabel("")
	m.errLabel.Importance = widget.DangerImportance
	m.errLabel.Wrapping = fyne.TextWrapWord
	m.errLabel.Hide()

	m.submit = widget.NewButton(submitLabel, m.trySubmit)
	m.submit.Importance = widget.HighImportance
	cancel := widget.NewButton("Cancel", func() { m.dlg.Hide() })

	content := container.NewVBox(
		m.form,
		m.errLabel,
		container.NewHBox(layout.NewSpacer(), cancel, m.submit),
	)
	m.dlg = dialog.NewCustomWithoutButtons(title, content, parent)
	m.dlg.Resize(fyne.NewSize(420, 0))
	return m
}

func (m *FormModal) input(f Field) fyne.CanvasObject {
	name := f.Name
	switch f.Type {
	case FieldSelect:
		sel := widget.NewSelect(f.Options, func(v string) { m.values[name] = v })
		if v := m.values[name]; v != "" {
			sel.SetSelected(v)
		}
		m.inputs[name] = sel
		return sel
	default:
		e := widget.NewEntry()
		e.SetText(m.values[name])
		e.OnChanged = func(v string) { m.values[name] = v }
		if f.Required {
			e.Validator = func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errRequired
				}
				return nil
			}
		}
		e.OnSubmitted = func(string) { m.trySubmit() }
		m.inputs[name] = e
		return e
	}
}

func (m *FormModal) trySubmit() {
	if m.submit.Disabled() {
		return
	}
	values := m.Values()
	if missing := Missing(m.fields, values); len(missing) > 0 {
		m.SetError("Required: " + strings.Join(missing, ", "))
		return
	}
	m.SetError("")
	if m.onSubmit != nil {
		m.onSubmit(values)
	}
}

// Values returns a copy of the current values.
func (m *FormModal) Values() map[string]string {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// SetLoading disables the inputs and the submit button while a request runs.
func (m *FormModal) SetLoading(loading bool) {
	for _, in := range m.inputs {
		if loading {
			in.Disable()
		} else {
			in.Enable()
		}
	}
	if loading {
		m.submit.Disable()
		m.submit.SetText("Saving...")
	} else {
		m.submit.Enable()
		m.submit.SetText(m.submitLabel)
	}
}

// SetSubmitLabel changes the text of the submit button.
func (m *FormModal) SetSubmitLabel(label string) {
	m.submitLabel = label
	m.submit.SetText(label)
}

// SetError shows msg under the form, or hides the error when msg is empty.
func (m *FormModal) SetError(msg string) {
	m.errLabel.SetText(msg)
	if msg == "" {
		m.errLabel.Hide()
	} else {
		m.errLabel.Show()
	}
}

// Show opens the dialog.
func (m *FormModal) Show() { m.dlg.Show() }

// Hide closes the dialog.
func (m *FormModal) Hide() { m.dlg.Hide() }
