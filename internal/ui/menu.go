package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fynestorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	kxdialog "github.com/ErikKalkoken/fyne-kx/dialog"
)

// file menu items which change state
type fileMenuItems struct {
	openRemote *fyne.MenuItem
	reload     *fyne.MenuItem
	save       *fyne.MenuItem
	saveAs     *fyne.MenuItem
}

func (u *UI) makeMenu() *fyne.MainMenu {
	recentItem := fyne.NewMenuItem("Open Recent", nil)
	recentItem.ChildMenu = fyne.NewMenu("")
	u.menuItems.openRemote = fyne.NewMenuItem("Open Remote...", func() {
		u.showOpenRemoteDialog()
	})
	u.menuItems.save = fyne.NewMenuItem("Save", func() {
		u.saveDocument()
	})
	u.menuItems.saveAs = fyne.NewMenuItem("Save As...", func() {
		u.showSaveAsDialog()
	})
	u.menuItems.reload = fyne.NewMenuItem("Reload", func() {
		u.reloadDocument()
	})
	u.fileMenu = fyne.NewMenu("File",
		fyne.NewMenuItem("Open File...", func() {
			u.showOpenFileDialog()
		}),
		recentItem,
		fyne.NewMenuItem("Open From Data Directory...", func() {
			u.showOpenDataDirDialog()
		}),
		u.menuItems.openRemote,
		fyne.NewMenuItemSeparator(),
		u.menuItems.save,
		u.menuItems.saveAs,
		u.menuItems.reload,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", func() {
			u.showSettingsDialog()
		}),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Expand All", func() {
			u.tree.setAllExpanded(true)
		}),
		fyne.NewMenuItem("Collapse All", func() {
			u.tree.setAllExpanded(false)
		}),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Report a bug", func() {
			url, _ := url.Parse(websiteURL + "/issues")
			_ = u.app.OpenURL(url)
		}),
		fyne.NewMenuItem("Website", func() {
			url, _ := url.Parse(websiteURL)
			_ = u.app.OpenURL(url)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("About...", func() {
			u.showAboutDialog()
		}),
	)
	main := fyne.NewMainMenu(u.fileMenu, viewMenu, helpMenu)
	return main
}

// updateFileMenu enables the file menu items which can be used for the current document.
func (u *UI) updateFileMenu() {
	_, hasDocument := u.session.Document()
	u.menuItems.openRemote.Disabled = u.remote == nil
	u.menuItems.save.Disabled = !u.session.CanSave()
	u.menuItems.saveAs.Disabled = !hasDocument || u.session.IsSaving()
	store, _ := u.session.Source()
	u.menuItems.reload.Disabled = store == nil
	u.fileMenu.Refresh()
}

func (u *UI) showOpenFileDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			u.showErrorDialog("Failed to read folder", err)
			return
		}
		if reader == nil {
			return
		}
		uri := reader.URI()
		reader.Close()
		u.openDocument(u.uriStore, uri.String(), uri.Name())
	}, u.window)
	if u.settings().extensionFilter() {
		d.SetFilter(fynestorage.NewExtensionFileFilter([]string{".json"}))
	}
	d.Show()
}

func (u *UI) showOpenDataDirDialog() {
	names, err := u.dirStore.List(context.Background())
	if err != nil {
		u.showErrorDialog("Failed to read data directory", err)
		return
	}
	if len(names) == 0 {
		d := dialog.NewInformation(
			"Open From Data Directory",
			fmt.Sprintf("There are no documents in %s", u.dirStore.Dir()),
			u.window,
		)
		kxdialog.AddDialogKeyHandler(d, u.window)
		d.Show()
		return
	}
	var d dialog.Dialog
	list := widget.NewList(
		func() int {
			return len(names)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.ListItemID, co fyne.CanvasObject) {
			co.(*widget.Label).SetText(names[id])
		},
	)
	list.OnSelected = func(id widget.ListItemID) {
		d.Hide()
		u.openDocument(u.dirStore, names[id], names[id])
	}
	c := container.NewBorder(widget.NewLabel(u.dirStore.Dir()), nil, nil, nil, list)
	d = dialog.NewCustom("Open From Data Directory", "Cancel", c, u.window)
	kxdialog.AddDialogKeyHandler(d, u.window)
	d.Resize(fyne.NewSize(400, 400))
	d.Show()
}

func (u *UI) showOpenRemoteDialog() {
	if u.remote == nil {
		return
	}
	name := widget.NewEntry()
	name.SetPlaceHolder("e.g. articles.json")
	name.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("name can not be empty")
		}
		return nil
	}
	items := []*widget.FormItem{
		{Text: "Name", Widget: name, HintText: "Name of the document on the server"},
	}
	d := dialog.NewForm("Open Remote", "Open", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		s := strings.TrimSpace(name.Text)
		u.openDocument(u.remote, s, s)
	}, u.window)
	kxdialog.AddDialogKeyHandler(d, u.window)
	d.Resize(fyne.NewSize(400, 150))
	d.Show()
}

func (u *UI) showSaveAsDialog() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			u.showErrorDialog("Failed to open folder", err)
			return
		}
		if writer == nil {
			return
		}
		uri := writer.URI()
		writer.Close()
		u.searchBar.setSaving(true)
		go func() {
			err := u.session.SaveAs(context.Background(), u.uriStore, uri.String())
			u.searchBar.setSaving(false)
			u.updateState()
			if err != nil {
				u.showErrorDialog("Failed to save document", err)
				return
			}
			u.addRecentFile(uri.String())
			u.banner.showSuccess(fmt.Sprintf("Saved %s", uri.Name()))
		}()
	}, u.window)
	d.SetFileName(displayName(u.session.ID()))
	d.Show()
}

func (u *UI) reloadDocument() {
	store, id := u.session.Source()
	if store == nil {
		return
	}
	reload := func() {
		u.openDocument(store, id, displayName(id))
	}
	if !u.session.IsModified() {
		reload()
		return
	}
	d := dialog.NewConfirm(
		"Reload",
		"The document has unsaved changes. Do you want to discard them?",
		func(confirmed bool) {
			if confirmed {
				reload()
			}
		},
		u.window,
	)
	kxdialog.AddDialogKeyHandler(d, u.window)
	d.Show()
}

func (u *UI) addRecentFile(uri string) {
	files := u.app.Preferences().StringList(settingRecentFiles)
	max := u.settings().recentFileCount()
	if max < 1 {
		return
	}
	files = addToListWithRotation(files, uri, max)
	u.app.Preferences().SetStringList(settingRecentFiles, files)
	u.updateRecentFilesMenu()
}

func addToListWithRotation(s []string, v string, max int) []string {
	if max < 1 {
		panic("max must be 1 or higher")
	}
	i := slices.Index(s, v)
	if i != -1 {
		s = slices.Delete(s, i, i+1)
	}
	s = slices.Insert(s, 0, v)
	if len(s) > max {
		s = s[0:max]
	}
	return s
}

func (u *UI) updateRecentFilesMenu() {
	files := u.app.Preferences().StringList(settingRecentFiles)
	if n := u.settings().recentFileCount(); len(files) > n {
		files = files[:max(n, 0)]
	}
	items := make([]*fyne.MenuItem, 0, len(files))
	for _, f := range files {
		uri, err := fynestorage.ParseURI(f)
		if err != nil {
			slog.Error("Failed to parse URI", "URI", f, "err", err)
			continue
		}
		items = append(items, fyne.NewMenuItem(uri.Path(), func() {
			u.openDocument(u.uriStore, uri.String(), uri.Name())
		}))
	}
	u.fileMenu.Items[1].ChildMenu.Items = items
	u.fileMenu.Refresh()
}

// fileURI returns the URI for a path or an URI given on the command line.
func fileURI(s string) (fyne.URI, error) {
	if strings.Contains(s, "://") {
		return fynestorage.ParseURI(s)
	}
	p, err := filepath.Abs(s)
	if err != nil {
		return nil, err
	}
	return fynestorage.NewFileURI(p), nil
}

// displayName returns a short name for a document identifier, e.g. the file name of an URI.
func displayName(id string) string {
	if uri, err := fynestorage.ParseURI(id); err == nil && strings.Contains(id, "://") {
		return uri.Name()
	}
	return filepath.Base(id)
}
