package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/ErikKalkoken/jsoneditor/internal/jsondocument"
)

// jsonTree shows a JSON document in a tree structure.
//
// The expand state of branches is owned by the document,
// so it survives edits which rebuild the tree.
type jsonTree struct {
	widget.Tree
	isSyncing bool
	u         *UI
}

func newJSONTree(u *UI) *jsonTree {
	w := &jsonTree{u: u}
	w.ExtendBaseWidget(w)

	w.ChildUIDs = func(id widget.TreeNodeID) []widget.TreeNodeID {
		return u.document.ChildUIDs(id)
	}
	w.IsBranch = func(id widget.TreeNodeID) bool {
		return u.document.IsBranch(id)
	}
	w.CreateNode = func(branch bool) fyne.CanvasObject {
		return newTreeNode()
	}
	w.UpdateNode = func(uid widget.TreeNodeID, branch bool, co fyne.CanvasObject) {
		node := u.document.Value(uid)
		obj := co.(*treeNode)
		var key string
		if node.IsRoot() {
			key = jsondocument.RootUID
		} else {
			key = node.Key
		}
		text := node.Preview(branch && w.IsBranchOpen(uid))
		obj.set(key, node.Type, text, u.document.IsHighlighted(uid))
	}
	w.OnSelected = func(uid widget.TreeNodeID) {
		u.selectElement(uid)
	}
	w.OnBranchOpened = func(uid widget.TreeNodeID) {
		if w.isSyncing {
			return
		}
		u.document.SetExpanded(uid, true)
		w.RefreshItem(uid)
	}
	w.OnBranchClosed = func(uid widget.TreeNodeID) {
		if w.isSyncing {
			return
		}
		u.document.SetExpanded(uid, false)
		w.RefreshItem(uid)
	}
	return w
}

// syncBranches opens and closes branches to match the expand state of the document.
func (w *jsonTree) syncBranches() {
	w.isSyncing = true
	defer func() {
		w.isSyncing = false
	}()
	w.CloseAllBranches()
	for _, uid := range w.u.document.ExpandedUIDs() {
		w.OpenBranch(uid)
	}
	w.Refresh()
}

// setAllExpanded expands or collapses the whole tree.
func (w *jsonTree) setAllExpanded(expanded bool) {
	w.u.document.SetAllExpanded(expanded)
	w.syncBranches()
}

func (w *jsonTree) scrollTo(uid widget.TreeNodeID) {
	if uid == "" {
		return
	}
	p := w.u.document.Path(uid)
	for _, uid2 := range p {
		w.OpenBranch(uid2)
	}
	w.ScrollTo(uid)
	w.Select(uid)
}
