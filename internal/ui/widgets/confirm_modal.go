package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// ConfirmModal asks the user to confirm an action. It keeps no state beyond
// its labels and the loading flag.
type ConfirmModal struct {
	OnConfirm func()
	OnClose   func()

	dlg          dialog.Dialog
	confirm      *widget.Button
	cancel       *widget.Button
	confirmLabel string
}

// NewConfirmModal builds a confirmation dialog. A danger modal renders its
// confirm button in the danger colour.
func NewConfirmModal(title, description, confirmLabel, cancelLabel string, danger bool, parent fyne.Window) *ConfirmModal {
	m := &ConfirmModal{confirmLabel: confirmLabel}

	text := widget.NewLabel(description)
	text.Wrapping = fyne.TextWrapWord

	m.confirm = widget.NewButton(confirmLabel, func() {
		if m.OnConfirm != nil {
			m.OnConfirm()
		}
	})
	m.confirm.Importance = widget.HighImportance
	if danger {
		m.confirm.Importance = widget.DangerImportance
	}
	m.cancel = widget.NewButton(cancelLabel, m.Hide)

	content := container.NewVBox(text, container.NewHBox(layout.NewSpacer(), m.cancel, m.confirm))
	m.dlg = dialog.NewCustomWithoutButtons(title, content, parent)
	m.dlg.SetOnClosed(func() {
		if m.OnClose != nil {
			m.OnClose()
		}
	})
	m.dlg.Resize(fyne.NewSize(380, 0))
	return m
}

// SetLoading disables both buttons while the confirmed action runs.
func (m *ConfirmModal) SetLoading(loading bool) {
	if loading {
		m.confirm.Disable()
		m.cancel.Disable()
		m.confirm.SetText("Working...")
		return
	}
	m.confirm.Enable()
	m.cancel.Enable()
	m.confirm.SetText(m.confirmLabel)
}

// Show opens the dialog.
func (m *ConfirmModal) Show() { m.dlg.Show() }

// Hide closes the dialog.
func (m *ConfirmModal) Hide() { m.dlg.Hide() }
