package canvas

import (
	"image/color"

	"image-markup/internal/annotation"
	"image-markup/internal/session"
	"image-markup/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"gonum.org/v1/gonum/spatial/r2"
)

var selectionColor = color.NRGBA{G: 120, B: 255, A: 255}

// markupRenderer projects the session state into Fyne canvas objects. The
// overlay objects are rebuilt from the annotation list on every pass; the
// lists are small, so no caching is attempted.
type markupRenderer struct {
	canvas     *MarkupCanvas
	background *fynecanvas.Rectangle
	image      *fynecanvas.Image // nil when the source failed to decode
}

func (r *markupRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.canvas.session.SetViewport(geometry.NewRect(0, 0, float64(size.Width), float64(size.Height)))
}

func (r *markupRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *markupRenderer) Refresh() {
	fynecanvas.Refresh(r.canvas)
}

func (r *markupRenderer) Destroy() {}

func (r *markupRenderer) Objects() []fyne.CanvasObject {
	s := r.canvas.session
	objects := []fyne.CanvasObject{r.background}

	if r.image != nil {
		frame := s.View().ImageFrame(s.Viewport(), s.Source().Size())
		r.image.Move(fyne.NewPos(float32(frame.X), float32(frame.Y)))
		r.image.Resize(fyne.NewSize(float32(frame.Width), float32(frame.Height)))
		objects = append(objects, r.image)
	}

	zoom := s.View().Zoom
	for i, a := range s.Annotations() {
		objects = append(objects, r.annotationObjects(a, zoom)...)
		if i == s.Selected() {
			objects = append(objects, r.selectionIndicator(a))
		}
	}

	objects = append(objects, r.previewObjects()...)
	return objects
}

// annotationObjects builds the display objects for one annotation under the
// current view transform.
func (r *markupRenderer) annotationObjects(a annotation.Annotation, zoom float64) []fyne.CanvasObject {
	s := r.canvas.session
	c := a.Color.NRGBA()

	switch a.Type {
	case annotation.KindArrow:
		return arrowObjects(s.ImageToView(a.Start), s.ImageToView(a.End), c, float32(a.Thickness*zoom))

	case annotation.KindRectangle:
		return []fyne.CanvasObject{rectObject(
			geometry.RectFromPoints(s.ImageToView(a.Min), s.ImageToView(a.Max)),
			c, float32(a.Thickness*zoom))}

	case annotation.KindText:
		text := fynecanvas.NewText(a.Content, c)
		text.TextSize = float32(a.FontSize * zoom)
		text.Move(toPos(s.ImageToView(a.Pos)))
		return []fyne.CanvasObject{text}
	}
	return nil
}

// previewObjects shows the in-progress drawing gesture; it reads the
// session's live drag positions and never touches the store.
func (r *markupRenderer) previewObjects() []fyne.CanvasObject {
	s := r.canvas.session
	start, current, active := s.Drawing()
	if !active {
		return nil
	}

	c := s.Color().NRGBA()
	width := float32(s.Thickness() * s.View().Zoom)

	switch s.Tool() {
	case session.ToolArrow:
		return arrowObjects(start, current, c, width)
	case session.ToolRectangle:
		return []fyne.CanvasObject{rectObject(geometry.RectFromPoints(start, current), c, width)}
	}
	return nil
}

// selectionIndicator draws the blue halo around the selected annotation.
func (r *markupRenderer) selectionIndicator(a annotation.Annotation) fyne.CanvasObject {
	s := r.canvas.session
	bounds := a.Bounds()
	topLeft := s.ImageToView(geometry.NewPoint2D(bounds.X, bounds.Y))
	botRight := s.ImageToView(geometry.NewPoint2D(bounds.X+bounds.Width, bounds.Y+bounds.Height))

	frame := geometry.RectFromPoints(topLeft, botRight).Expand(4)
	indicator := fynecanvas.NewRectangle(color.Transparent)
	indicator.StrokeColor = selectionColor
	indicator.StrokeWidth = 1.5
	indicator.Move(fyne.NewPos(float32(frame.X), float32(frame.Y)))
	indicator.Resize(fyne.NewSize(float32(frame.Width), float32(frame.Height)))
	return indicator
}

// arrowObjects builds the shaft plus arrowhead strokes in view space. The
// head length scales with the on-screen stroke width, floored at 10 view
// units; a zero-length shaft draws only its degenerate stamp.
func arrowObjects(start, end geometry.Point2D, c color.NRGBA, width float32) []fyne.CanvasObject {
	objects := []fyne.CanvasObject{lineObject(start, end, c, width)}

	shaft := r2.Sub(end.Vec(), start.Vec())
	length := r2.Norm(shaft)
	if length == 0 {
		return objects
	}

	dir := r2.Scale(1/length, shaft)
	perp := r2.Vec{X: -dir.Y, Y: dir.X}
	headLen := float64(width) * 4
	if headLen < 10 {
		headLen = 10
	}

	back := r2.Sub(end.Vec(), r2.Scale(headLen, dir))
	p1 := geometry.FromVec(r2.Add(back, r2.Scale(headLen*0.4, perp)))
	p2 := geometry.FromVec(r2.Sub(back, r2.Scale(headLen*0.4, perp)))

	objects = append(objects,
		lineObject(end, p1, c, width),
		lineObject(end, p2, c, width),
		lineObject(p1, p2, c, width),
	)
	return objects
}

func lineObject(a, b geometry.Point2D, c color.NRGBA, width float32) *fynecanvas.Line {
	line := fynecanvas.NewLine(c)
	line.StrokeWidth = width
	line.Position1 = toPos(a)
	line.Position2 = toPos(b)
	return line
}

func rectObject(r geometry.Rect, c color.NRGBA, width float32) *fynecanvas.Rectangle {
	rect := fynecanvas.NewRectangle(color.Transparent)
	rect.StrokeColor = c
	rect.StrokeWidth = width
	rect.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
	rect.Resize(fyne.NewSize(float32(r.Width), float32(r.Height)))
	return rect
}
