package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	kxdialog "github.com/ErikKalkoken/fyne-kx/dialog"

	"github.com/ErikKalkoken/jsoneditor/internal/recordeditor"
)

// showRecordDialog shows a form for editing all fields of a record.
// Closing the dialog clears the search, so the record can be found again.
func (u *UI) showRecordDialog(ed *recordeditor.Editor) {
	form := widget.NewForm()
	for _, f := range ed.Fields() {
		label := strings.Repeat("    ", f.Level) + f.Key
		if f.IsGroup {
			l := widget.NewLabel(f.Type.String())
			l.Importance = widget.LowImportance
			form.Append(label, l)
			continue
		}
		var e *widget.Entry
		if f.Multiline {
			e = widget.NewMultiLineEntry()
			e.Wrapping = fyne.TextWrapWord
			e.SetMinRowsVisible(3)
		} else {
			e = widget.NewEntry()
		}
		e.SetText(f.Text)
		if f.ReadOnly {
			e.Disable()
		}
		p := f.Path
		e.OnChanged = func(s string) {
			if err := ed.SetField(p, s); err != nil {
				slog.Warn("Failed to set field", "path", p, "err", err)
			}
		}
		form.Append(label, e)
	}

	var d *dialog.CustomDialog
	save := widget.NewButtonWithIcon("Save", theme.ConfirmIcon(), func() {
		if ed.Changed() {
			if err := u.session.Apply(ed.Save()); err != nil {
				u.showErrorDialog("Failed to update record", err)
				return
			}
		}
		d.Hide()
	})
	save.Importance = widget.HighImportance
	cancel := widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), func() {
		d.Hide()
	})
	title := fmt.Sprintf("Record %s", ed.ID())
	d = dialog.NewCustomWithoutButtons(title, container.NewVScroll(form), u.window)
	d.SetButtons([]fyne.CanvasObject{cancel, save})
	d.SetOnClosed(func() {
		u.searchBar.clear()
		u.session.ClearSearch()
	})
	kxdialog.AddDialogKeyHandler(d, u.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}
