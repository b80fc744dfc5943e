package ui

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// bannerTimeout is how long a banner is shown.
const bannerTimeout = 3 * time.Second

// banner shows short notifications above the tree, which disappear by themselves.
type banner struct {
	widget.BaseWidget

	icon    *widget.Icon
	message *widget.Label

	mu     sync.Mutex
	serial int
}

func newBanner() *banner {
	w := &banner{
		icon:    widget.NewIcon(theme.InfoIcon()),
		message: widget.NewLabel(""),
	}
	w.ExtendBaseWidget(w)
	w.message.Wrapping = fyne.TextWrapWord
	w.Hide()
	return w
}

func (w *banner) showError(text string) {
	w.show(text, theme.ErrorIcon(), widget.DangerImportance)
}

func (w *banner) showInfo(text string) {
	w.show(text, theme.InfoIcon(), widget.MediumImportance)
}

func (w *banner) showSuccess(text string) {
	w.show(text, theme.ConfirmIcon(), widget.SuccessImportance)
}

// show shows a message. A newer message replaces an older one.
func (w *banner) show(text string, icon fyne.Resource, importance widget.Importance) {
	w.mu.Lock()
	w.serial++
	serial := w.serial
	w.mu.Unlock()
	w.icon.SetResource(icon)
	w.message.Importance = importance
	w.message.SetText(text)
	w.Show()
	time.AfterFunc(bannerTimeout, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.serial != serial {
			return
		}
		w.Hide()
	})
}

func (w *banner) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewBorder(nil, nil, w.icon, nil, w.message)
	return widget.NewSimpleRenderer(c)
}
