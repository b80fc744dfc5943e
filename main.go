// JSON Editor is a desktop app for viewing and editing JSON documents.
package main

import (
	"log"
	"log/slog"

	"fyne.io/fyne/v2/app"
	"github.com/alecthomas/kong"

	"github.com/ErikKalkoken/jsoneditor/internal/ui"
)

const appID = "io.github.erikkalkoken.jsoneditor"

var cli struct {
	File          string `arg:"" optional:"" help:"JSON file or URI to open at start."`
	Dir           string `help:"Directory of the data directory store." type:"path"`
	Remote        string `help:"Base URL of a remote file API, e.g. https://example.com/api/files."`
	Token         string `help:"Bearer token for the remote file API." env:"JSONEDITOR_TOKEN"`
	ArrayKey      string `help:"Key of the array holding the records."`
	IDPrefix      string `name:"id-prefix" help:"Prefix of record IDs."`
	StrictBoolean bool   `help:"Accept only true and false as booleans."`
	Debug         bool   `help:"Show debug log messages."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("jsoneditor"),
		kong.Description("A desktop app for viewing and editing JSON documents."),
		kong.UsageOnError(),
	)
	if cli.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	a := app.NewWithID(appID)
	u, err := ui.NewUI(a, ui.Options{
		File:          cli.File,
		DataDir:       cli.Dir,
		RemoteURL:     cli.Remote,
		Token:         cli.Token,
		ArrayKey:      cli.ArrayKey,
		IDPrefix:      cli.IDPrefix,
		StrictBoolean: cli.StrictBoolean,
	})
	if err != nil {
		log.Fatal(err)
	}
	u.ShowAndRun()
}
