package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/ErikKalkoken/jsoneditor/internal/jsondocument"
	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
	"github.com/ErikKalkoken/jsoneditor/internal/locator"
)

// detail shows the full value of the selected node.
type detail struct {
	widget.BaseWidget

	copyButton *ttwidget.Button
	path       *widget.Label
	record     *widget.Label
	summary    *widget.Label
	u          *UI
	value      *widget.RichText
	clip       string
}

func newDetail(u *UI) *detail {
	w := &detail{
		path:    widget.NewLabel(""),
		record:  widget.NewLabel(""),
		summary: widget.NewLabel(""),
		u:       u,
		value:   widget.NewRichText(),
	}
	w.ExtendBaseWidget(w)
	w.path.Truncation = fyne.TextTruncateEllipsis
	w.path.TextStyle.Monospace = true
	w.record.Importance = widget.HighImportance
	w.summary.Importance = widget.LowImportance
	w.value.Wrapping = fyne.TextWrapWord
	w.copyButton = ttwidget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
		u.window.Clipboard().SetContent(w.clip)
	})
	w.copyButton.SetToolTip("Copy value")
	w.copyButton.Disable()
	return w
}

func (w *detail) CreateRenderer() fyne.WidgetRenderer {
	top := container.NewBorder(nil, nil, nil, container.NewHBox(w.record, w.summary), w.path)
	c := container.NewBorder(top, nil, nil, w.copyButton, container.NewScroll(w.value))
	return widget.NewSimpleRenderer(c)
}

func (w *detail) reset() {
	w.clip = ""
	w.path.SetText("")
	w.record.SetText("")
	w.summary.SetText("")
	w.value.ParseMarkdown("")
	w.copyButton.Disable()
}

func (w *detail) set(uid string) {
	node, ok := w.u.document.Node(uid)
	if !ok {
		w.reset()
		return
	}
	w.path.SetText(node.Path.String())
	w.summary.SetText(nodeSummary(node))
	w.record.SetText("")
	if doc, ok := w.u.session.Document(); ok {
		if id, ok := enclosingRecordID(w.u.session.Options().Locator, doc, node.Path); ok {
			w.record.SetText(id)
		}
	}
	text, err := w.u.session.CopyText(node.Path)
	if err != nil {
		text = node.Value.Text()
	}
	w.clip = text
	w.copyButton.Enable()
	shown := text
	if node.Type == jsonvalue.String {
		shown = strconv.Quote(text)
	}
	w.value.ParseMarkdown(fmt.Sprintf("```\n%s\n```", shown))
}

// nodeSummary describes the type and size of a node, e.g. "object, 3 keys".
func nodeSummary(n jsondocument.Node) string {
	switch n.Type {
	case jsonvalue.Object:
		return sprintf("%s, %d keys", n.Type, n.Value.Len())
	case jsonvalue.Array:
		return sprintf("%s, %d items", n.Type, n.Value.Len())
	case jsonvalue.String:
		return sprintf("%s, %d characters", n.Type, len([]rune(n.Value.Text())))
	}
	return n.Type.String()
}

// enclosingRecordID returns the ID of the innermost record containing p.
func enclosingRecordID(cfg locator.Config, doc jsonvalue.Value, p jsonvalue.Path) (string, bool) {
	l := locator.New(cfg)
	for i := len(p); i >= 2; i-- {
		v, err := jsonvalue.Get(doc, p[:i])
		if err != nil || !l.IsRecord(p[:i], v) {
			continue
		}
		id, ok := v.Field(cfg.IDKey)
		if !ok {
			return "", false
		}
		return id.Text(), true
	}
	return "", false
}
