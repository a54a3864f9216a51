// Package canvas provides the Fyne widget that displays the session's image
// and annotations and feeds pointer input back into the engine.
package canvas

import (
	"image/color"

	"image-markup/internal/session"
	"image-markup/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

var backgroundColor = color.NRGBA{R: 40, G: 40, B: 40, A: 255}

// MarkupCanvas renders the source image under the current view transform
// with the annotation overlay on top, and translates pointer gestures into
// session operations. All engine state lives in the session; the widget is
// a stateless projection plus input plumbing.
type MarkupCanvas struct {
	widget.BaseWidget

	session *session.Session

	// Pointer bookkeeping: which button started the press, so middle-drag
	// pans while primary drags feed the tool state machine.
	panning bool
	pressed bool
}

var _ fyne.Widget = (*MarkupCanvas)(nil)
var _ fyne.Draggable = (*MarkupCanvas)(nil)
var _ desktop.Mouseable = (*MarkupCanvas)(nil)

// New creates a markup canvas bound to the session.
func New(s *session.Session) *MarkupCanvas {
	mc := &MarkupCanvas{session: s}
	mc.ExtendBaseWidget(mc)

	s.On(session.EventAnnotationsChanged, func(interface{}) { mc.Refresh() })
	s.On(session.EventSelectionChanged, func(interface{}) { mc.Refresh() })
	s.On(session.EventViewChanged, func(interface{}) { mc.Refresh() })
	return mc
}

// MouseDown starts a gesture. The middle button pans; the primary button
// drives the active tool.
func (mc *MarkupCanvas) MouseDown(ev *desktop.MouseEvent) {
	switch ev.Button {
	case desktop.MouseButtonTertiary:
		mc.panning = true
	case desktop.MouseButtonPrimary:
		mc.pressed = true
		mc.session.PointerDown(toPoint(ev.Position))
	}
	mc.Refresh()
}

// MouseUp ends a gesture.
func (mc *MarkupCanvas) MouseUp(ev *desktop.MouseEvent) {
	switch ev.Button {
	case desktop.MouseButtonTertiary:
		mc.panning = false
	case desktop.MouseButtonPrimary:
		if mc.pressed {
			mc.pressed = false
			mc.session.PointerUp(toPoint(ev.Position))
		}
	}
	mc.Refresh()
}

// Dragged continues the active gesture.
func (mc *MarkupCanvas) Dragged(ev *fyne.DragEvent) {
	if mc.panning {
		mc.session.PanBy(geometry.NewPoint2D(float64(ev.Dragged.DX), float64(ev.Dragged.DY)))
		return
	}
	if mc.pressed {
		mc.session.PointerDrag(toPoint(ev.Position))
		mc.Refresh()
	}
}

// DragEnd is part of fyne.Draggable; the gesture is finished in MouseUp,
// which carries the release position and button.
func (mc *MarkupCanvas) DragEnd() {}

// Scrolled zooms at the cursor position.
func (mc *MarkupCanvas) Scrolled(ev *fyne.ScrollEvent) {
	mc.session.Scroll(toPoint(ev.Position), float64(ev.Scrolled.DY))
}

// MouseIn implements desktop.Hoverable alongside Mouseable.
func (mc *MarkupCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (mc *MarkupCanvas) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (mc *MarkupCanvas) MouseOut() {}

// CreateRenderer implements fyne.Widget.
func (mc *MarkupCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &markupRenderer{canvas: mc}
	r.background = fynecanvas.NewRectangle(backgroundColor)

	if img := mc.session.Source().Image; img != nil {
		r.image = fynecanvas.NewImageFromImage(img)
		r.image.FillMode = fynecanvas.ImageFillStretch
		r.image.ScaleMode = fynecanvas.ImageScalePixels
	}
	return r
}

func toPoint(p fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(p.X), float64(p.Y))
}

func toPos(p geometry.Point2D) fyne.Position {
	return fyne.NewPos(float32(p.X), float32(p.Y))
}
