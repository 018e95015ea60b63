package widgets

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// BannerTimeout is how long a banner stays visible.
const BannerTimeout = 4 * time.Second

var (
	successColor = color.NRGBA{R: 46, G: 125, B: 50, A: 230}
	failureColor = color.NRGBA{R: 198, G: 40, B: 40, A: 230}
)

// Banner shows one transient message at a time at the top of a screen.
type Banner struct {
	bg    *canvas.Rectangle
	label *widget.Label
	box   *fyne.Container

	mu  sync.Mutex
	gen int
}

// NewBanner creates a hidden banner.
func NewBanner() *Banner {
	b := &Banner{
		bg:    canvas.NewRectangle(successColor),
		label: widget.NewLabel(""),
	}
	b.label.Wrapping = fyne.TextWrapWord
	b.label.Importance = widget.HighImportance
	b.box = container.NewStack(b.bg, container.NewPadded(b.label))
	b.box.Hide()
	return b
}

// Object returns the canvas object to place in a layout.
func (b *Banner) Object() fyne.CanvasObject { return b.box }

// ShowSuccess shows msg on a green background.
func (b *Banner) ShowSuccess(msg string) { b.show(successColor, msg) }

// ShowError shows msg on a red background.
func (b *Banner) ShowError(msg string) { b.show(failureColor, msg) }

// show must run on the UI goroutine. A newer message restarts the timer.
func (b *Banner) show(c color.Color, msg string) {
	if msg == "" {
		return
	}
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.mu.Unlock()

	b.bg.FillColor = c
	b.bg.Refresh()
	b.label.SetText(msg)
	b.box.Show()

	time.AfterFunc(BannerTimeout, func() {
		fyne.Do(func() { b.expire(gen) })
	})
}

func (b *Banner) expire(gen int) {
	b.mu.Lock()
	current := b.gen == gen
	b.mu.Unlock()
	if current {
		b.box.Hide()
	}
}

// Visible reports whether a message is showing.
func (b *Banner) Visible() bool { return b.box.Visible() }

// Text returns the message last shown.
func (b *Banner) Text() string { return b.label.Text }
