// Package main provides the entry point for the labelall annotation editor.
package main

import (
	"log"
	"log/slog"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"labelall/internal/annotation"
	"labelall/internal/app"
	"labelall/internal/config"
	"labelall/internal/editor"
	"labelall/internal/version"
	"labelall/ui/mainwindow"
	"labelall/ui/prefs"
)

const appID = "io.github.labelall"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Printf("Starting labelall %s", version.String())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	editor.SetLogger(logger.With("component", "editor"))
	annotation.SetLogger(logger.With("component", "annotation"))

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.LabelAllTheme{})

	appState := app.NewState(cfg)
	win := mainwindow.New(fyneApp, appState, prefs.Load())

	// Handle command line arguments
	if len(os.Args) > 1 {
		win.OpenPath(os.Args[1])
	}

	win.ShowAndRun()
}
