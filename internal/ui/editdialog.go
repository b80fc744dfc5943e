package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	kxdialog "github.com/ErikKalkoken/fyne-kx/dialog"

	"github.com/ErikKalkoken/jsoneditor/internal/editor"
	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

// showEditDialog shows a dialog for editing a node.
// The dialog stays open and shows the error when the input is not valid.
func (u *UI) showEditDialog(vd *editor.ValueDialog) {
	valueEntry := widget.NewMultiLineEntry()
	valueEntry.Wrapping = fyne.TextWrapWord
	valueEntry.SetMinRowsVisible(5)
	valueEntry.SetText(vd.Buffer.Text)
	valueEntry.OnChanged = func(s string) {
		vd.Buffer.Text = s
	}
	typeSelect := widget.NewSelect(typeNames(), nil)
	typeSelect.SetSelected(vd.Buffer.Type.String())
	typeSelect.OnChanged = func(s string) {
		typ, err := jsonvalue.ParseType(s)
		if err != nil {
			slog.Error("Failed to parse type", "type", s, "err", err)
			return
		}
		vd.Buffer.SetType(typ)
		valueEntry.SetText(vd.Buffer.Text)
	}
	errorLabel := widget.NewLabel("")
	errorLabel.Importance = widget.DangerImportance
	errorLabel.Wrapping = fyne.TextWrapWord
	errorLabel.Hide()

	items := make([]*widget.FormItem, 0)
	if vd.EditKey {
		keyEntry := widget.NewEntry()
		keyEntry.SetText(vd.Key)
		keyEntry.OnChanged = func(s string) {
			vd.Key = s
		}
		items = append(items, widget.NewFormItem("Key", keyEntry))
	}
	items = append(
		items,
		widget.NewFormItem("Type", typeSelect),
		widget.NewFormItem("Value", valueEntry),
	)
	c := container.NewVBox(widget.NewForm(items...), errorLabel)

	var d *dialog.CustomDialog
	save := widget.NewButtonWithIcon("Save", theme.ConfirmIcon(), func() {
		if err := vd.Confirm(); err != nil {
			errorLabel.SetText(err.Error())
			errorLabel.Show()
			return
		}
		d.Hide()
	})
	save.Importance = widget.HighImportance
	cancel := widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), func() {
		d.Hide()
	})
	d = dialog.NewCustomWithoutButtons(vd.Title(), c, u.window)
	d.SetButtons([]fyne.CanvasObject{cancel, save})
	kxdialog.AddDialogKeyHandler(d, u.window)
	d.Resize(fyne.NewSize(500, 350))
	d.Show()
	u.window.Canvas().Focus(valueEntry)
}

func typeNames() []string {
	s := make([]string, 0, len(jsonvalue.Types))
	for _, t := range jsonvalue.Types {
		s = append(s, t.String())
	}
	return s
}
