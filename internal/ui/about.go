package ui

import (
	"fmt"
	"net/url"
	"strings"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	kxdialog "github.com/ErikKalkoken/fyne-kx/dialog"
)

func (u *UI) showAboutDialog() {
	meta := u.app.Metadata()
	site, err := url.Parse(meta.Custom["Website"])
	if err != nil || site.Host == "" {
		site, _ = url.Parse(websiteURL)
	}
	issues, _ := url.Parse(websiteURL + "/issues")
	convention := u.sessionOptions().Locator
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", u.appName())
	fmt.Fprintf(&b, "Edit JSON documents as a tree and jump to records by ID.\n\n")
	fmt.Fprintf(&b, "- **Version:** %s\n", meta.Version)
	fmt.Fprintf(&b, "- **Record IDs:** %s_<n> in %s\n", convention.IDPrefix, convention.ArrayKey)
	fmt.Fprintf(&b, "- **Data directory:** %s\n", u.dirStore.Dir())
	c := container.NewVBox(
		widget.NewRichTextFromMarkdown(b.String()),
		container.NewHBox(
			widget.NewHyperlink("Website", site),
			widget.NewHyperlink("Report a problem", issues),
		),
	)
	d := dialog.NewCustom("About", "Close", c, u.window)
	kxdialog.AddDialogKeyHandler(d, u.window)
	d.Show()
}
