// Package main provides the entry point for the Image Annotator application.
package main

import (
	"log"
	"os"

	"image-annotator/internal/backend"
	"image-annotator/internal/persist"
	"image-annotator/internal/session"
	"image-annotator/internal/store"
	"image-annotator/internal/tools"
	"image-annotator/internal/version"
	"image-annotator/ui/mainwindow"
	"image-annotator/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const appTitle = "Image Annotator"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := app.NewWithID("io.image-annotator")
	appPrefs := prefs.Load()

	st := store.New("editor")
	tm := tools.NewManager(st, tools.Callbacks{})

	var svc backend.Service
	if url := appPrefs.String(prefs.KeyBackendURL, os.Getenv("ANNOTATOR_BACKEND_URL")); url != "" {
		svc = backend.NewClient(url)
	}
	local := persist.NewStore(persist.DefaultDir())
	sess := session.New(st, svc, local)
	defer sess.Close()

	// Open an image passed on the command line
	if len(os.Args) > 1 {
		appPrefs.SetString(prefs.KeyLastImage, os.Args[1])
	}

	win := mainwindow.New(fyneApp, sess, tm, appPrefs)
	win.Resize(fyne.NewSize(
		float32(appPrefs.Float(prefs.KeyWindowW, 1280)),
		float32(appPrefs.Float(prefs.KeyWindowH, 800)),
	))

	win.SetOnClosed(func() {
		sess.Flush()
		size := win.Canvas().Size()
		appPrefs.SetFloat(prefs.KeyWindowW, float64(size.Width))
		appPrefs.SetFloat(prefs.KeyWindowH, float64(size.Height))
		if err := appPrefs.Save(); err != nil {
			log.Printf("save preferences: %v", err)
		}
	})

	win.ShowAndRun()
}
