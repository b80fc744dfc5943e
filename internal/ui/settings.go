package ui

import (
	"errors"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	kxdialog "github.com/ErikKalkoken/fyne-kx/dialog"

	"github.com/ErikKalkoken/jsoneditor/internal/locator"
)

const (
	themeAuto  = "auto"
	themeDark  = "dark"
	themeLight = "light"
)

// preference keys
const (
	settingArrayKey        = "record-array-key"
	settingExtensionFilter = "extension-filter"
	settingIDPrefix        = "record-id-prefix"
	settingNotifyUpdates   = "notify-updates"
	settingRecentFileCount = "recent-file-count"
	settingStrictBoolean   = "strict-boolean"
	settingTheme           = "theme"
)

// settings gives typed access to the persisted user preferences.
type settings struct {
	p fyne.Preferences
}

func (s settings) recentFileCount() int {
	return s.p.IntWithFallback(settingRecentFileCount, 5)
}

func (s settings) extensionFilter() bool {
	return s.p.BoolWithFallback(settingExtensionFilter, true)
}

func (s settings) notifyUpdates() bool {
	return s.p.BoolWithFallback(settingNotifyUpdates, true)
}

func (s settings) strictBoolean() bool {
	return s.p.BoolWithFallback(settingStrictBoolean, false)
}

func (s settings) theme() string {
	return s.p.StringWithFallback(settingTheme, themeAuto)
}

// recordConvention returns the stored record convention on top of the defaults.
func (s settings) recordConvention() locator.Config {
	cfg := locator.DefaultConfig()
	cfg.ArrayKey = s.p.StringWithFallback(settingArrayKey, cfg.ArrayKey)
	cfg.IDPrefix = s.p.StringWithFallback(settingIDPrefix, cfg.IDPrefix)
	return cfg
}

func (u *UI) settings() settings {
	return settings{p: u.app.Preferences()}
}

func (u *UI) showSettingsDialog() {
	s := u.settings()
	prefs := u.app.Preferences()
	applyToSession := func() {
		u.session.SetOptions(u.sessionOptions())
	}

	recentCount := widget.NewEntry()
	recentCount.SetText(strconv.Itoa(s.recentFileCount()))
	recentCount.Validator = newPositiveNumberValidator()
	recentCount.OnChanged = func(v string) {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return
		}
		prefs.SetInt(settingRecentFileCount, n)
		u.updateRecentFilesMenu()
	}
	jsonOnly := widget.NewCheck("only *.json", func(v bool) {
		prefs.SetBool(settingExtensionFilter, v)
	})
	jsonOnly.SetChecked(s.extensionFilter())

	convention := s.recordConvention()
	arrayKey := newSettingEntry(convention.ArrayKey, func(v string) {
		prefs.SetString(settingArrayKey, v)
		applyToSession()
	})
	idPrefix := newSettingEntry(convention.IDPrefix, func(v string) {
		prefs.SetString(settingIDPrefix, v)
		applyToSession()
	})
	strict := widget.NewCheck("reject other texts", func(v bool) {
		prefs.SetBool(settingStrictBoolean, v)
		applyToSession()
	})
	strict.SetChecked(s.strictBoolean())
	var overridden *widget.Label
	if u.opt.ArrayKey != "" || u.opt.IDPrefix != "" {
		overridden = widget.NewLabel("Command line flags currently override the record convention.")
		overridden.Importance = widget.WarningImportance
	}

	themes := widget.NewRadioGroup([]string{themeAuto, themeDark, themeLight}, func(v string) {
		prefs.SetString(settingTheme, v)
		u.setTheme(v)
	})
	themes.Horizontal = true
	themes.SetSelected(s.theme())
	notify := widget.NewCheck("check on startup", func(v bool) {
		prefs.SetBool(settingNotifyUpdates, v)
	})
	notify.SetChecked(s.notifyUpdates())

	records := widget.NewForm(
		&widget.FormItem{Text: "Array key", Widget: arrayKey, HintText: "Key of the top-level array holding the records"},
		&widget.FormItem{Text: "ID prefix", Widget: idPrefix, HintText: "Record IDs look like <prefix>_<number>"},
		&widget.FormItem{Text: "Booleans", Widget: strict, HintText: "Only accept true and false when editing booleans"},
	)
	recordsBox := container.NewVBox(records)
	if overridden != nil {
		recordsBox.Add(overridden)
	}
	c := container.NewVBox(
		widget.NewCard("Files", "", widget.NewForm(
			&widget.FormItem{Text: "Recent files", Widget: recentCount, HintText: "How many recently opened files to remember"},
			&widget.FormItem{Text: "File dialog", Widget: jsonOnly, HintText: "Hide files without a .json extension"},
		)),
		widget.NewCard("Records", "", recordsBox),
		widget.NewCard("Application", "", widget.NewForm(
			&widget.FormItem{Text: "Theme", Widget: themes},
			&widget.FormItem{Text: "Updates", Widget: notify, HintText: "Takes effect after a restart"},
		)),
	)
	d := dialog.NewCustom("Settings", "Close", container.NewVScroll(c), u.window)
	kxdialog.AddDialogKeyHandler(d, u.window)
	d.Resize(fyne.NewSize(550, 600))
	d.Show()
}

// newSettingEntry returns an entry which reports trimmed, non-empty texts only.
func newSettingEntry(initial string, onChanged func(string)) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(initial)
	e.Validator = newNotEmptyValidator()
	e.OnChanged = func(v string) {
		if v = strings.TrimSpace(v); v != "" {
			onChanged(v)
		}
	}
	return e
}

func (u *UI) setTheme(name string) {
	var t fyne.Theme
	switch name {
	case themeDark:
		t = theme.DarkTheme()
	case themeLight:
		t = theme.LightTheme()
	default:
		t = theme.DefaultTheme()
	}
	u.app.Settings().SetTheme(t)
}

// newPositiveNumberValidator accepts whole numbers including zero.
func newPositiveNumberValidator() fyne.StringValidator {
	return func(text string) error {
		if n, err := strconv.Atoi(text); err != nil || n < 0 {
			return errors.New("must be a whole number not below zero")
		}
		return nil
	}
}

func newNotEmptyValidator() fyne.StringValidator {
	return func(text string) error {
		if strings.TrimSpace(text) == "" {
			return errors.New("can not be empty")
		}
		return nil
	}
}
