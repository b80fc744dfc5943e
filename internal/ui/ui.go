// Package ui contains the user interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	kxdialog "github.com/ErikKalkoken/fyne-kx/dialog"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/ErikKalkoken/jsoneditor/internal/coerce"
	"github.com/ErikKalkoken/jsoneditor/internal/editor"
	"github.com/ErikKalkoken/jsoneditor/internal/jsondocument"
	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
	"github.com/ErikKalkoken/jsoneditor/internal/locator"
	"github.com/ErikKalkoken/jsoneditor/internal/recordeditor"
	"github.com/ErikKalkoken/jsoneditor/internal/storage"
)

const (
	appTitle    = "JSON Editor"
	githubOwner = "ErikKalkoken"
	githubRepo  = "jsoneditor"
	websiteURL  = "https://github.com/ErikKalkoken/jsoneditor"
)

// setting keys
const (
	settingWindowWidth  = "main-window-width"
	settingWindowHeight = "main-window-height"
	settingRecentFiles  = "recent-files"
)

var type2importance = map[jsonvalue.Type]widget.Importance{
	jsonvalue.Array:   widget.HighImportance,
	jsonvalue.Object:  widget.HighImportance,
	jsonvalue.String:  widget.WarningImportance,
	jsonvalue.Number:  widget.SuccessImportance,
	jsonvalue.Boolean: widget.DangerImportance,
	jsonvalue.Null:    widget.DangerImportance,
}

// Options configure the UI at start.
// Empty values fall back to the settings.
type Options struct {
	// File is a path or URI of a document to open at start.
	File string
	// DataDir is the directory of the data directory store.
	DataDir string
	// RemoteURL is the base URL of a remote file API.
	RemoteURL string
	// Token is sent as bearer token to the remote file API.
	Token string

	ArrayKey      string
	IDPrefix      string
	StrictBoolean bool
}

// UI represents the user interface of this app.
type UI struct {
	app       fyne.App
	banner    *banner
	detail    *detail
	dirStore  *storage.DirStore
	document  *jsondocument.JSONDocument
	fileMenu  *fyne.Menu
	isLoading atomic.Bool
	menuItems fileMenuItems
	opt       Options
	remote    *storage.HTTPStore
	searchBar *searchBar
	selection *selection
	session   *editor.Session
	statusBar *statusBar
	tree      *jsonTree
	uriStore  *storage.URIStore
	welcome   *fyne.Container
	window    fyne.Window
}

// NewUI returns a new UI object.
func NewUI(app fyne.App, opt Options) (*UI, error) {
	u := &UI{
		app:      app,
		document: jsondocument.New(),
		opt:      opt,
		uriStore: storage.NewURIStore(),
	}
	dir := opt.DataDir
	if dir == "" {
		dir = filepath.Join(app.Storage().RootURI().Path(), "documents")
	}
	ds, err := storage.NewDirStore(dir)
	if err != nil {
		return nil, err
	}
	u.dirStore = ds
	if opt.RemoteURL != "" {
		u.remote = storage.NewHTTPStore(nil, opt.RemoteURL, opt.Token)
	}
	u.session = editor.NewSession(u.sessionOptions())
	u.session.OnChange = u.onSessionChange
	u.session.OnRecordMatch = func(ed *recordeditor.Editor) {
		u.showRecordDialog(ed)
	}
	u.window = app.NewWindow(u.appName())
	u.banner = newBanner()
	u.detail = newDetail(u)
	u.searchBar = newSearchBar(u)
	u.selection = newSelection(u)
	u.statusBar = newStatusBar(u)
	u.tree = newJSONTree(u)

	u.welcome = container.NewCenter(container.NewVBox(
		widget.NewLabelWithStyle(
			"Open a JSON document to start editing",
			fyne.TextAlignCenter,
			fyne.TextStyle{Bold: true},
		),
		widget.NewButtonWithIcon("Open File...", theme.FolderOpenIcon(), u.showOpenFileDialog),
	))
	vsplit := container.NewVSplit(u.tree, u.detail)
	vsplit.Offset = 0.8
	c := container.NewBorder(
		container.NewVBox(u.searchBar, u.banner, u.selection, widget.NewSeparator()),
		container.NewVBox(widget.NewSeparator(), u.statusBar),
		nil,
		nil,
		container.NewStack(vsplit, u.welcome),
	)
	u.window.SetContent(fynetooltip.AddWindowToolTipLayer(c, u.window.Canvas()))
	u.window.SetMainMenu(u.makeMenu())
	u.updateRecentFilesMenu()
	u.window.SetMaster()
	s := fyne.Size{
		Width:  float32(app.Preferences().FloatWithFallback(settingWindowWidth, 1000)),
		Height: float32(app.Preferences().FloatWithFallback(settingWindowHeight, 700)),
	}
	u.window.Resize(s)
	u.window.SetOnClosed(func() {
		app.Preferences().SetFloat(settingWindowWidth, float64(u.window.Canvas().Size().Width))
		app.Preferences().SetFloat(settingWindowHeight, float64(u.window.Canvas().Size().Height))
	})
	u.setTheme(u.settings().theme())
	u.reset()
	return u, nil
}

// ShowAndRun shows the main window and runs the app. This method is blocking.
func (u *UI) ShowAndRun() {
	if u.opt.File != "" {
		u.app.Lifecycle().SetOnStarted(func() {
			uri, err := fileURI(u.opt.File)
			if err != nil {
				u.showErrorDialog(fmt.Sprintf("Failed to open %s", u.opt.File), err)
				return
			}
			u.openDocument(u.uriStore, uri.String(), uri.Name())
		})
	}
	u.window.ShowAndRun()
}

// sessionOptions returns the editing options from settings and command line.
func (u *UI) sessionOptions() editor.Options {
	opt := editor.DefaultOptions()
	opt.Locator = locatorConfig(u.app.Preferences(), u.opt)
	opt.Coercer = coerce.Coercer{StrictBoolean: u.opt.StrictBoolean || u.settings().strictBoolean()}
	return opt
}

// locatorConfig returns the record convention. Command line flags win over settings.
func locatorConfig(p fyne.Preferences, opt Options) locator.Config {
	cfg := settings{p: p}.recordConvention()
	if opt.ArrayKey != "" {
		cfg.ArrayKey = opt.ArrayKey
	}
	if opt.IDPrefix != "" {
		cfg.IDPrefix = opt.IDPrefix
	}
	return cfg
}

// openDocument loads a document from a store and shows it.
func (u *UI) openDocument(store storage.Store, id, name string) {
	ctx, cancel := context.WithCancel(context.Background())
	text := widget.NewLabel("")
	pb1 := widget.NewProgressBarInfinite()
	pb2 := widget.NewProgressBar()
	pb2.Hide()
	progressInfo := binding.NewUntyped()
	progressInfo.AddListener(binding.NewDataListener(func() {
		x, err := progressInfo.Get()
		if err != nil {
			slog.Warn("Failed to get progress info", "err", err)
			return
		}
		info, ok := x.(jsondocument.ProgressInfo)
		if !ok {
			return
		}
		step := fmt.Sprintf("%d / %d", info.CurrentStep, info.TotalSteps)
		var t string
		switch info.CurrentStep {
		case 1:
			t = fmt.Sprintf("%s: Calculating size...", step)
		case 2:
			if pb2.Hidden {
				pb1.Stop()
				pb1.Hide()
				pb2.Show()
			}
			t = sprintf("%s: Rendering document with %d elements...", step, info.Size)
		}
		text.SetText(t)
		pb2.SetValue(info.Progress)
	}))
	b := widget.NewButton("Cancel", func() {
		cancel()
	})
	c := container.NewVBox(
		widget.NewLabel(fmt.Sprintf("Loading %s", name)),
		text,
		container.NewStack(pb1, pb2),
		b,
	)
	d := dialog.NewCustomWithoutButtons("Loading", c, u.window)
	kxdialog.AddDialogKeyHandler(d, u.window)
	d.SetOnClosed(func() {
		cancel()
	})
	d.Show()
	go func() {
		defer cancel()
		err := u.loadDocument(ctx, store, id, progressInfo)
		d.Hide()
		if errors.Is(err, jsondocument.ErrCallerCanceled) {
			slog.Info("User aborted loading document", "id", id)
			return
		}
		if err != nil {
			u.showErrorDialog(fmt.Sprintf("Failed to open %s", name), err)
			return
		}
		if store == u.uriStore {
			u.addRecentFile(id)
		}
	}()
}

// loadDocument renders a document and then makes it the current document.
// When loading fails or is canceled the open document stays untouched.
func (u *UI) loadDocument(ctx context.Context, store storage.Store, id string, progress binding.Untyped) error {
	doc, err := editor.LoadDocument(ctx, store, id)
	if err != nil {
		return err
	}
	if err := u.document.Load(ctx, doc, progress); err != nil {
		return err
	}
	u.isLoading.Store(true)
	u.session.Open(store, id, doc)
	u.isLoading.Store(false)
	u.searchBar.clear()
	u.selection.reset()
	u.detail.reset()
	u.welcome.Hide()
	u.tree.syncBranches()
	u.tree.ScrollToTop()
	u.updateState()
	slog.Info("Showing document", "id", id, "size", u.document.Size())
	return nil
}

// onSessionChange updates the UI after the document or the search changed.
func (u *UI) onSessionChange() {
	if u.isLoading.Load() {
		return
	}
	doc, ok := u.session.Document()
	if !ok {
		u.document.Reset()
		u.reset()
		return
	}
	u.document.Set(doc)
	u.document.SetHighlights(u.session.SearchResult().Highlights)
	u.tree.syncBranches()
	uid := u.selection.selectedUID
	if _, found := u.document.Node(uid); uid != "" && found {
		u.selectElement(uid)
	} else {
		u.tree.UnselectAll()
		u.selection.reset()
		u.detail.reset()
	}
	u.updateState()
}

// updateState updates all elements which depend on the state of the session.
func (u *UI) updateState() {
	u.statusBar.set(u.document.Size())
	u.searchBar.updateState()
	u.updateFileMenu()
	var title string
	if id := u.session.ID(); id != "" {
		title = displayName(id)
		if u.session.IsModified() {
			title = "*" + title
		}
	}
	u.setTitle(title)
}

// reset shows the UI without a document.
func (u *UI) reset() {
	u.welcome.Show()
	u.tree.Refresh()
	u.selection.reset()
	u.detail.reset()
	u.statusBar.reset()
	u.searchBar.updateState()
	u.updateFileMenu()
	u.setTitle("")
}

func (u *UI) selectElement(uid widget.TreeNodeID) {
	u.selection.set(uid)
	u.detail.set(uid)
}

func (u *UI) saveDocument() {
	if !u.session.CanSave() {
		return
	}
	id := u.session.ID()
	u.searchBar.setSaving(true)
	go func() {
		err := u.session.Save(context.Background())
		u.searchBar.setSaving(false)
		u.updateState()
		if err != nil {
			u.showErrorDialog("Failed to save document", err)
			return
		}
		u.banner.showSuccess(fmt.Sprintf("Saved %s", id))
	}()
}

func (u *UI) showErrorDialog(message string, err error) {
	if err != nil {
		slog.Error(message, "err", err)
		message = fmt.Sprintf("%s: %s", message, humanizeError(err))
	}
	d := dialog.NewInformation("Error", message, u.window)
	kxdialog.AddDialogKeyHandler(d, u.window)
	d.Show()
}

// humanizeError returns a short explanation of an error for users.
func humanizeError(err error) string {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return "document not found"
	case errors.Is(err, storage.ErrInvalidFormat), errors.Is(err, jsonvalue.ErrInvalidJSON):
		return "not a valid JSON document"
	case errors.Is(err, storage.ErrUnauthorized):
		return "access denied"
	}
	return err.Error()
}

func (u *UI) setTitle(name string) {
	var s string
	if name != "" {
		s = fmt.Sprintf("%s - %s", name, u.appName())
	} else {
		s = u.appName()
	}
	u.window.SetTitle(s)
}

func (u *UI) appName() string {
	info := u.app.Metadata()
	if info.Name != "" {
		return info.Name
	}
	return appTitle
}
