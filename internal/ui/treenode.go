package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

// treeNode represents a node in a JSON document tree.
type treeNode struct {
	widget.BaseWidget

	highlight *canvas.Rectangle
	key       *widget.Label
	typ       *widget.Label
	value     *widget.Label
}

// newTreeNode returns a new instance of the [treeNode] widget.
func newTreeNode() *treeNode {
	w := &treeNode{
		highlight: canvas.NewRectangle(theme.Color(theme.ColorNameSelection)),
		key:       widget.NewLabel(""),
		typ:       widget.NewLabel(""),
		value:     widget.NewLabel(""),
	}
	w.ExtendBaseWidget(w)
	w.highlight.Hide()
	w.typ.Importance = widget.LowImportance
	w.typ.TextStyle.Italic = true
	w.value.Truncation = fyne.TextTruncateEllipsis
	return w
}

func (w *treeNode) set(key string, typ jsonvalue.Type, value string, highlighted bool) {
	w.key.TextStyle.Bold = highlighted
	w.key.SetText(fmt.Sprintf("%s :", key))
	w.typ.SetText(typ.String())
	w.value.Importance = type2importance[typ]
	w.value.Text = strings.ReplaceAll(value, "\n", " ")
	w.value.Refresh()
	if highlighted {
		w.highlight.FillColor = theme.Color(theme.ColorNameSelection)
		w.highlight.Show()
	} else {
		w.highlight.Hide()
	}
}

func (w *treeNode) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewStack(
		w.highlight,
		container.NewBorder(nil, nil, container.NewHBox(w.key, w.typ), nil, w.value),
	)
	return widget.NewSimpleRenderer(c)
}
