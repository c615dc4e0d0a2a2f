// Package main provides the entry point for the Specview application.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"specview/internal/app"
	"specview/ui/mainwindow"
	"specview/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const (
	appTitle   = "Specview"
	appVersion = "0.1.0"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, appVersion)

	configPath := flag.String("config", defaultConfigPath(), "settings file")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fyneApp := fyneapp.NewWithID("specview")
	fyneApp.Settings().SetTheme(&app.ViewerTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, appState, cfg, appPrefs)
	win.SetTitle(appTitle)

	// Optional positional arguments: cube path, then wavelength path.
	args := flag.Args()
	if len(args) > 0 {
		if err := appState.LoadCube(args[0]); err != nil {
			log.Printf("Failed to load cube %s: %v", args[0], err)
		}
	}
	if len(args) > 1 {
		if err := appState.LoadWavelengths(args[1]); err != nil {
			log.Printf("Failed to load wavelengths %s: %v", args[1], err)
		}
	}

	setupHotReload()

	win.ShowAndRun()
}

func defaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "specview", "settings.yaml")
}

// setupHotReload logs when a newer binary appears during development.
func setupHotReload() {
	watcher := app.WatchBinary(2*time.Second, func() {
		log.Println("Hot reload: newer binary detected, restart to pick it up")
	})
	if watcher == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}
	log.Printf("Hot reload: watching %s (modified %s)",
		watcher.Path(), watcher.ModTime().Format("15:04:05"))
}
