package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/ErikKalkoken/jsoneditor/internal/jsondocument"
	"github.com/ErikKalkoken/jsoneditor/internal/locator"
)

// searchBar represents the search bar frame in the UI.
type searchBar struct {
	widget.BaseWidget

	clearButton  *ttwidget.Button
	collapseAll  *ttwidget.Button
	expandAll    *ttwidget.Button
	nextMatch    *ttwidget.Button
	saveButton   *ttwidget.Button
	searchButton *ttwidget.Button
	searchEntry  *widget.Entry
	u            *UI
}

func newSearchBar(u *UI) *searchBar {
	w := &searchBar{
		searchEntry: widget.NewEntry(),
		u:           u,
	}
	w.ExtendBaseWidget(w)
	w.searchEntry.SetPlaceHolder("Enter a record number or a text to search for...")
	w.searchEntry.OnSubmitted = func(s string) {
		w.doSearch()
	}
	w.searchEntry.OnChanged = func(s string) {
		if s == "" && !u.session.Query().IsEmpty() {
			u.session.ClearSearch()
		}
	}
	w.searchButton = ttwidget.NewButtonWithIcon("", theme.SearchIcon(), func() {
		w.doSearch()
	})
	w.searchButton.SetToolTip("Search")
	w.nextMatch = ttwidget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), func() {
		w.jumpToNextMatch()
	})
	w.nextMatch.SetToolTip("Jump to next match")
	w.clearButton = ttwidget.NewButtonWithIcon("", theme.ContentClearIcon(), func() {
		w.clear()
		u.session.ClearSearch()
	})
	w.clearButton.SetToolTip("Clear search")
	w.expandAll = ttwidget.NewButtonWithIcon("", theme.MenuDropDownIcon(), func() {
		u.tree.setAllExpanded(true)
	})
	w.expandAll.SetToolTip("Expand all")
	w.collapseAll = ttwidget.NewButtonWithIcon("", theme.MenuDropUpIcon(), func() {
		u.tree.setAllExpanded(false)
	})
	w.collapseAll.SetToolTip("Collapse all")
	w.saveButton = ttwidget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		u.saveDocument()
	})
	w.saveButton.Importance = widget.HighImportance
	w.saveButton.SetToolTip("Save document")
	return w
}

// updateState enables the elements which can be used for the current document.
func (w *searchBar) updateState() {
	if _, ok := w.u.session.Document(); !ok {
		w.searchButton.Disable()
		w.searchEntry.Disable()
		w.clearButton.Disable()
		w.nextMatch.Disable()
		w.expandAll.Disable()
		w.collapseAll.Disable()
		w.saveButton.Disable()
		return
	}
	w.searchButton.Enable()
	w.searchEntry.Enable()
	w.clearButton.Enable()
	w.expandAll.Enable()
	w.collapseAll.Enable()
	if w.u.document.HighlightCount() > 1 {
		w.nextMatch.Enable()
	} else {
		w.nextMatch.Disable()
	}
	if w.u.session.CanSave() {
		w.saveButton.Enable()
	} else {
		w.saveButton.Disable()
	}
}

// setSaving shows whether a save is outstanding.
func (w *searchBar) setSaving(saving bool) {
	if saving {
		w.saveButton.SetText("Saving...")
		w.saveButton.Disable()
		return
	}
	w.saveButton.SetText("Save")
	w.updateState()
}

// clear removes the search text without running a search.
func (w *searchBar) clear() {
	f := w.searchEntry.OnChanged
	w.searchEntry.OnChanged = nil
	w.searchEntry.SetText("")
	w.searchEntry.OnChanged = f
}

func (w *searchBar) doSearch() {
	r, err := w.u.session.Search(w.searchEntry.Text)
	if errors.Is(err, locator.ErrRecordNotFound) {
		w.u.banner.showError(err.Error())
		return
	} else if err != nil {
		w.u.showErrorDialog("Search failed", err)
		return
	}
	switch r.Kind {
	case locator.Found:
		w.u.tree.scrollTo(jsondocument.UID(r.Path))
	case locator.Highlight:
		n := len(r.Highlights)
		if n == 0 {
			w.u.banner.showInfo(fmt.Sprintf("No match for %q", w.u.session.Query().Text))
			return
		}
		w.u.tree.scrollTo(jsondocument.UID(r.Highlights[0]))
		w.u.banner.showInfo(sprintf("%d matches", n))
	}
}

func (w *searchBar) jumpToNextMatch() {
	uid, err := w.u.document.NextHighlight(w.u.selection.selectedUID)
	if errors.Is(err, jsondocument.ErrNotFound) {
		return
	} else if err != nil {
		w.u.showErrorDialog("Failed to find next match", err)
		return
	}
	w.u.tree.scrollTo(uid)
}

func (w *searchBar) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewBorder(
		nil,
		nil,
		w.saveButton,
		container.NewHBox(
			w.searchButton,
			w.nextMatch,
			w.clearButton,
			container.NewPadded(),
			layout.NewSpacer(),
			w.expandAll,
			w.collapseAll,
		),
		w.searchEntry,
	)
	return widget.NewSimpleRenderer(c)
}
