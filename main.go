// Package main provides the entry point for the image markup editor.
package main

import (
	"log"
	"os"

	"image-markup/internal/image"
	"image-markup/internal/session"
	"image-markup/internal/version"
	"image-markup/ui/mainwindow"
	"image-markup/ui/prefs"

	"fyne.io/fyne/v2/app"
)

const appTitle = "Image Markup"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	if len(os.Args) < 2 {
		log.Println("Usage: image-markup <image.png|jpg>")
		os.Exit(1)
	}

	imagePath := os.Args[1]
	if _, err := os.Stat(imagePath); err != nil {
		log.Printf("File not found: %s", imagePath)
		os.Exit(1)
	}

	fyneApp := app.NewWithID("image-markup")
	appPrefs := prefs.Load()

	src := image.Load(imagePath)
	sess := session.New(src)

	win := mainwindow.New(fyneApp, sess, appPrefs)
	win.ShowAndRun()
}
