package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	kxwidget "github.com/ErikKalkoken/fyne-kx/widget"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ErikKalkoken/jsoneditor/internal/github"
)

// sprintf formats with English number formatting, e.g. 1,234.
func sprintf(format string, a ...any) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf(format, a...)
}

// statusBar represents the status bar frame in the UI.
type statusBar struct {
	widget.BaseWidget

	modified   *widget.Label
	notifyArea *fyne.Container
	treeSize   *widget.Label
	u          *UI
}

func newStatusBar(u *UI) *statusBar {
	w := &statusBar{
		modified:   widget.NewLabel(""),
		notifyArea: container.NewHBox(),
		treeSize:   widget.NewLabel(""),
		u:          u,
	}
	w.ExtendBaseWidget(w)
	w.modified.Importance = widget.WarningImportance
	if u.settings().notifyUpdates() {
		go w.checkForUpdate()
	}
	return w
}

func (w *statusBar) checkForUpdate() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	releases := github.Releases{Owner: githubOwner, Repo: githubRepo}
	update, err := releases.CheckUpdate(ctx, w.u.app.Metadata().Version)
	if err != nil {
		slog.Warn("Update check failed", "err", err)
		return
	}
	slog.Info("Update check completed", "current", update.Current, "latest", update.Latest.TagName)
	if !update.Available {
		return
	}
	l := kxwidget.NewTappableLabel("Update available", func() {
		w.showReleaseDialog(update)
	})
	l.Importance = widget.HighImportance
	w.notifyArea.Add(l)
}

func (w *statusBar) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewHBox(w.treeSize, w.modified, layout.NewSpacer(), w.notifyArea)
	return widget.NewSimpleRenderer(c)
}

func (w *statusBar) reset() {
	w.treeSize.SetText("")
	w.modified.SetText("")
}

func (w *statusBar) set(size int) {
	w.treeSize.SetText(sprintf("%d elements", size))
	var s string
	if w.u.session.IsSaving() {
		s = "Saving..."
	} else if w.u.session.IsModified() {
		s = "Modified"
	}
	w.modified.SetText(s)
}

func (w *statusBar) showReleaseDialog(update github.Update) {
	rel := update.Latest
	link, err := url.Parse(rel.HTMLURL)
	if err != nil || rel.HTMLURL == "" {
		link, _ = url.Parse(websiteURL + "/releases")
	}
	text := fmt.Sprintf("**%s** is available. You are running %s.", rel.TagName, update.Current)
	if !rel.PublishedAt.IsZero() {
		text += fmt.Sprintf("\n\nPublished on %s.", rel.PublishedAt.Format(time.DateOnly))
	}
	c := container.NewVBox(
		widget.NewRichTextFromMarkdown(text),
		widget.NewHyperlink("Download from the release page", link),
	)
	d := dialog.NewCustom("Update available", "Close", c, w.u.window)
	d.Show()
}
