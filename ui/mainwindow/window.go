// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"image-markup/internal/annotation"
	"image-markup/internal/session"
	"image-markup/pkg/geometry"
	markupcanvas "image-markup/ui/canvas"
	"image-markup/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyTool      = "lastTool"
	prefKeyThickness = "thickness"
	prefKeyFontSize  = "fontSize"
	prefKeyColorR    = "colorR"
	prefKeyColorG    = "colorG"
	prefKeyColorB    = "colorB"
	prefKeyColorA    = "colorA"
	prefKeyWinWidth  = "windowWidth"
	prefKeyWinHeight = "windowHeight"
)

var toolNames = []string{"Arrow", "Rectangle", "Text", "Select"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *session.Session
	prefs   *prefs.Prefs

	canvas     *markupcanvas.MarkupCanvas
	toolRadio  *widget.RadioGroup
	fontSlider *widget.Slider
	statusBar  *widget.Label
}

// New creates the main window for an open session.
func New(fyneApp fyne.App, s *session.Session, p *prefs.Prefs) *MainWindow {
	title := fmt.Sprintf("Image Markup - %s", filepath.Base(s.Source().Path))
	win := fyneApp.NewWindow(title)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: s,
		prefs:   p,
	}

	mw.restorePrefs()
	mw.setupUI()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	win.SetCloseIntercept(func() {
		mw.savePrefs()
		fyneApp.Quit()
	})
	return mw
}

// setupUI creates the main layout: toolbar over canvas over status bar.
func (mw *MainWindow) setupUI() {
	mw.canvas = markupcanvas.New(mw.session)
	mw.statusBar = widget.NewLabel("Ready")

	content := container.NewBorder(
		mw.createToolbar(),                   // top
		container.NewPadded(mw.statusBar),    // bottom
		nil, nil,
		mw.canvas,
	)
	mw.SetContent(content)

	width := float32(mw.prefs.GetFloat(prefKeyWinWidth, 1200))
	height := float32(mw.prefs.GetFloat(prefKeyWinHeight, 800))
	mw.Resize(fyne.NewSize(width, height))
}

// createToolbar builds the tool selector, swatches, sliders and history
// buttons.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.toolRadio = widget.NewRadioGroup(toolNames, func(name string) {
		for i, n := range toolNames {
			if n == name {
				mw.session.SetTool(session.Tool(i))
				return
			}
		}
	})
	mw.toolRadio.Horizontal = true
	mw.toolRadio.SetSelected(mw.session.Tool().String())

	swatches := newSwatchRow(func(c annotation.Color) {
		mw.session.SetColor(c)
	})

	thickness := widget.NewSlider(1, 20)
	thickness.SetValue(mw.session.Thickness())
	thickness.OnChanged = func(v float64) {
		mw.session.SetThickness(v)
	}

	mw.fontSlider = widget.NewSlider(8, 72)
	mw.fontSlider.SetValue(mw.session.FontSize())
	mw.fontSlider.OnChanged = func(v float64) {
		mw.session.SetFontSize(v)
	}

	undoBtn := widget.NewButton("Undo", mw.session.Undo)
	redoBtn := widget.NewButton("Redo", mw.session.Redo)
	exportBtn := widget.NewButton("Export", mw.session.Save)

	return container.NewHBox(
		mw.toolRadio,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		swatches,
		widget.NewSeparator(),
		widget.NewLabel("Thickness:"),
		newSliderCell(thickness),
		widget.NewLabel("Font:"),
		newSliderCell(mw.fontSlider),
		widget.NewSeparator(),
		undoBtn,
		redoBtn,
		exportBtn,
	)
}

// setupShortcuts wires the keyboard: ctrl+Z / ctrl+shift+Z for history,
// ctrl+S for save+export, Delete/Backspace for deletion.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()

	c.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyZ,
		Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) { mw.session.Undo() })

	c.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyZ,
		Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift,
	}, func(fyne.Shortcut) { mw.session.Redo() })

	c.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyS,
		Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) { mw.session.Save() })

	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.session.DeleteSelected()
		}
	})
}

// setupEventHandlers reacts to session events with UI feedback.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(session.EventTextEntryRequested, func(data interface{}) {
		anchor, ok := data.(geometry.Point2D)
		if !ok {
			return
		}
		mw.promptText(anchor)
	})

	mw.session.On(session.EventViewChanged, func(interface{}) {
		mw.statusBar.SetText(fmt.Sprintf("Zoom: %.0f%%", mw.session.View().Zoom*100))
	})

	mw.session.On(session.EventExported, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.statusBar.SetText(fmt.Sprintf("Exported to %s", path))
		}
	})
}

// promptText opens the text-entry dialog for a pending text annotation.
// An empty or cancelled entry is discarded by the session.
func (mw *MainWindow) promptText(_ geometry.Point2D) {
	entry := widget.NewEntry()
	items := []*widget.FormItem{widget.NewFormItem("Text", entry)}

	form := dialog.NewForm("Add Text", "Add", "Cancel", items, func(confirmed bool) {
		if confirmed {
			mw.session.CommitText(entry.Text)
		} else {
			mw.session.CancelText()
		}
	}, mw.Window)
	form.Resize(fyne.NewSize(300, 120))
	form.Show()
	mw.Canvas().Focus(entry)
}

// restorePrefs applies persisted tool settings to the fresh session.
func (mw *MainWindow) restorePrefs() {
	tool := session.Tool(int(mw.prefs.GetFloat(prefKeyTool, 0)))
	if tool >= session.ToolArrow && tool <= session.ToolSelect {
		mw.session.SetTool(tool)
	}
	mw.session.SetThickness(mw.prefs.GetFloat(prefKeyThickness, session.DefaultThickness))
	mw.session.SetFontSize(mw.prefs.GetFloat(prefKeyFontSize, session.DefaultFontSize))
	mw.session.SetColor(annotation.Color{
		R: mw.prefs.GetFloat(prefKeyColorR, annotation.DefaultStroke.R),
		G: mw.prefs.GetFloat(prefKeyColorG, annotation.DefaultStroke.G),
		B: mw.prefs.GetFloat(prefKeyColorB, annotation.DefaultStroke.B),
		A: mw.prefs.GetFloat(prefKeyColorA, annotation.DefaultStroke.A),
	})
}

// savePrefs persists tool settings and window geometry on close.
func (mw *MainWindow) savePrefs() {
	mw.prefs.SetFloat(prefKeyTool, float64(mw.session.Tool()))
	mw.prefs.SetFloat(prefKeyThickness, mw.session.Thickness())
	mw.prefs.SetFloat(prefKeyFontSize, mw.session.FontSize())

	c := mw.session.Color()
	mw.prefs.SetFloat(prefKeyColorR, c.R)
	mw.prefs.SetFloat(prefKeyColorG, c.G)
	mw.prefs.SetFloat(prefKeyColorB, c.B)
	mw.prefs.SetFloat(prefKeyColorA, c.A)

	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefKeyWinWidth, float64(size.Width))
	mw.prefs.SetFloat(prefKeyWinHeight, float64(size.Height))

	if err := mw.prefs.Save(); err != nil {
		mw.statusBar.SetText("Failed to save preferences")
	}
}

// newSliderCell wraps a slider in a fixed-width cell so the toolbar does
// not collapse it to zero width.
func newSliderCell(s *widget.Slider) fyne.CanvasObject {
	cell := container.NewGridWrap(fyne.NewSize(140, 36), s)
	return cell
}
