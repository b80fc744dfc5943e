package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	kxdialog "github.com/ErikKalkoken/fyne-kx/dialog"
	kxwidget "github.com/ErikKalkoken/fyne-kx/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/ErikKalkoken/jsoneditor/internal/jsondocument"
	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

// selection shows the currently selected node in the JSON document
// and the actions for that node.
type selection struct {
	widget.BaseWidget

	addArray        *ttwidget.Button
	addObject       *ttwidget.Button
	breadcrumb      *fyne.Container
	copyJSON        *ttwidget.Button
	copyKey         *ttwidget.Button
	deleteNode      *ttwidget.Button
	editValue       *ttwidget.Button
	jumpToSelection *ttwidget.Button
	renameKey       *ttwidget.Button
	selectedUID     widget.TreeNodeID
	u               *UI
}

func newSelection(u *UI) *selection {
	w := &selection{
		breadcrumb: container.New(layout.NewCustomPaddedHBoxLayout(-5)),
		u:          u,
	}
	w.ExtendBaseWidget(w)
	w.jumpToSelection = ttwidget.NewButtonWithIcon("", theme.VisibilityIcon(), func() {
		u.tree.scrollTo(w.selectedUID)
	})
	w.jumpToSelection.SetToolTip("Jump to selection")
	w.copyKey = ttwidget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
		n := u.document.Value(w.selectedUID)
		u.window.Clipboard().SetContent(n.Key)
	})
	w.copyKey.SetToolTip("Copy key to clipboard")
	w.copyJSON = ttwidget.NewButtonWithIcon("", theme.FileTextIcon(), func() {
		s, err := u.session.CopyText(w.selectedPath())
		if err != nil {
			u.showErrorDialog("Failed to copy node", err)
			return
		}
		u.window.Clipboard().SetContent(s)
	})
	w.copyJSON.SetToolTip("Copy JSON to clipboard")
	w.editValue = ttwidget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
		d, err := u.session.RequestEdit(w.selectedPath())
		if err != nil {
			u.showErrorDialog("Failed to edit node", err)
			return
		}
		u.showEditDialog(d)
	})
	w.editValue.SetToolTip("Edit value")
	w.renameKey = ttwidget.NewButton("Key", func() {
		d, err := u.session.RequestRenameKey(w.selectedPath())
		if err != nil {
			u.showErrorDialog("Failed to edit node", err)
			return
		}
		u.showEditDialog(d)
	})
	w.renameKey.SetToolTip("Edit key and value")
	w.addObject = ttwidget.NewButton("{+}", func() {
		w.addChild(jsonvalue.Object)
	})
	w.addObject.SetToolTip("Add object")
	w.addArray = ttwidget.NewButton("[+]", func() {
		w.addChild(jsonvalue.Array)
	})
	w.addArray.SetToolTip("Add array")
	w.deleteNode = ttwidget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		w.confirmDelete()
	})
	w.deleteNode.Importance = widget.DangerImportance
	w.deleteNode.SetToolTip("Delete")
	w.disable()
	return w
}

func (w *selection) buttons() []*ttwidget.Button {
	return []*ttwidget.Button{
		w.jumpToSelection,
		w.copyKey,
		w.copyJSON,
		w.editValue,
		w.renameKey,
		w.addObject,
		w.addArray,
		w.deleteNode,
	}
}

func (w *selection) disable() {
	for _, b := range w.buttons() {
		b.Disable()
	}
}

// enable enables the actions which are valid for node.
func (w *selection) enable(node jsondocument.Node) {
	for _, b := range w.buttons() {
		b.Enable()
	}
	if node.IsRoot() {
		w.copyKey.Disable()
		w.deleteNode.Disable()
	}
	if s, ok := node.Path.Last(); !ok || s.IsIndex() {
		w.renameKey.Disable()
	}
	if !node.Type.IsContainer() {
		w.addObject.Disable()
		w.addArray.Disable()
	}
}

func (w *selection) reset() {
	w.breadcrumb.RemoveAll()
	w.disable()
	w.selectedUID = ""
}

// selectedPath returns the document path of the selected node.
func (w *selection) selectedPath() jsonvalue.Path {
	return w.u.document.Value(w.selectedUID).Path
}

type nodePlus struct {
	jsondocument.Node
	UID string
}

func (n nodePlus) label() string {
	if n.IsRoot() {
		return jsondocument.RootUID
	}
	return n.Key
}

func (w *selection) set(uid string) {
	node, ok := w.u.document.Node(uid)
	if !ok {
		w.reset()
		return
	}
	w.selectedUID = uid
	w.enable(node)
	var path []nodePlus
	for _, uid2 := range w.u.document.Path(uid) {
		path = append(path, nodePlus{Node: w.u.document.Value(uid2), UID: uid2})
	}
	path = append(path, nodePlus{Node: node, UID: uid})
	w.breadcrumb.RemoveAll()
	for i, n := range path {
		isLast := i == len(path)-1
		if !isLast {
			l := kxwidget.NewTappableLabel(n.label(), func() {
				w.u.tree.scrollTo(n.UID)
				w.u.selectElement(n.UID)
			})
			w.breadcrumb.Add(l)
		} else {
			l := widget.NewLabel(n.label())
			l.TextStyle.Bold = true
			w.breadcrumb.Add(l)
		}
		if !isLast {
			l := widget.NewLabel("＞")
			l.Importance = widget.LowImportance
			w.breadcrumb.Add(l)
		}
	}
}

func (w *selection) addChild(kind jsonvalue.Type) {
	parent := w.selectedPath()
	p, err := w.u.session.RequestAddChild(parent, kind)
	if err != nil {
		w.u.showErrorDialog(fmt.Sprintf("Failed to add %s", kind), err)
		return
	}
	w.u.tree.scrollTo(jsondocument.UID(p))
}

func (w *selection) confirmDelete() {
	p := w.selectedPath()
	d := dialog.NewConfirm(
		"Delete",
		fmt.Sprintf("Are you sure you want to delete %s?", p),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := w.u.session.RequestDelete(p); err != nil {
				w.u.showErrorDialog("Failed to delete node", err)
			}
		},
		w.u.window,
	)
	kxdialog.AddDialogKeyHandler(d, w.u.window)
	d.Show()
}

func (w *selection) CreateRenderer() fyne.WidgetRenderer {
	actions := container.NewHBox()
	for _, b := range w.buttons() {
		actions.Add(b)
	}
	c := container.NewBorder(
		nil,
		nil,
		nil,
		actions,
		container.NewHScroll(w.breadcrumb),
	)
	return widget.NewSimpleRenderer(c)
}
