// Package annotation provides the markup data model: the annotation variants,
// the ordered store with its sidecar persistence, and snapshot-based history.
package annotation

import (
	"image/color"
	"unicode/utf8"

	"image-markup/pkg/colorutil"
	"image-markup/pkg/geometry"

	"github.com/google/uuid"
)

// Kind discriminates the annotation variants. The values double as the
// "type" tag in the sidecar file and must stay stable across releases.
type Kind string

const (
	KindArrow     Kind = "Arrow"
	KindRectangle Kind = "Rectangle"
	KindText      Kind = "Text"
)

// Color is a stroke color with normalized channels in [0,1]. Out-of-range
// values are clamped when converted for rendering, not on storage.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// DefaultStroke is the initial tool color (opaque red).
var DefaultStroke = Color{R: 1, A: 1}

// NRGBA converts to an 8-bit color, clamping each channel.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: colorutil.ByteFromUnit(c.R),
		G: colorutil.ByteFromUnit(c.G),
		B: colorutil.ByteFromUnit(c.B),
		A: colorutil.ByteFromUnit(c.A),
	}
}

// ColorFromNRGBA converts an 8-bit color to normalized channels.
func ColorFromNRGBA(c color.NRGBA) Color {
	return Color{
		R: colorutil.UnitFromByte(c.R),
		G: colorutil.UnitFromByte(c.G),
		B: colorutil.UnitFromByte(c.B),
		A: colorutil.UnitFromByte(c.A),
	}
}

// Annotation is a single markup element. Exactly one variant's geometry
// fields are meaningful, selected by Type. All geometry is stored in image
// pixel space so saved files are independent of the last-used view.
type Annotation struct {
	Type Kind   `json:"type"`
	ID   string `json:"id,omitempty"`

	// Arrow geometry.
	Start geometry.Point2D `json:"start,omitzero"`
	End   geometry.Point2D `json:"end,omitzero"`

	// Rectangle corners, stored as dragged; min may exceed max on either axis.
	Min geometry.Point2D `json:"min,omitzero"`
	Max geometry.Point2D `json:"max,omitzero"`

	// Text anchor (top-left of the rendered text) and content.
	Pos      geometry.Point2D `json:"pos,omitzero"`
	Content  string           `json:"content,omitempty"`
	FontSize float64          `json:"font_size,omitempty"`

	Color     Color   `json:"color"`
	Thickness float64 `json:"thickness,omitempty"`
}

// NewArrow creates an arrow annotation from start to end in image space.
func NewArrow(start, end geometry.Point2D, c Color, thickness float64) Annotation {
	return Annotation{
		Type:      KindArrow,
		ID:        uuid.NewString(),
		Start:     start,
		End:       end,
		Color:     c,
		Thickness: thickness,
	}
}

// NewRectangle creates a rectangle annotation spanning two opposite corners.
func NewRectangle(min, max geometry.Point2D, c Color, thickness float64) Annotation {
	return Annotation{
		Type:      KindRectangle,
		ID:        uuid.NewString(),
		Min:       min,
		Max:       max,
		Color:     c,
		Thickness: thickness,
	}
}

// NewText creates a text annotation anchored at pos. The caller is
// responsible for rejecting empty content before committing.
func NewText(pos geometry.Point2D, content string, fontSize float64, c Color) Annotation {
	return Annotation{
		Type:     KindText,
		ID:       uuid.NewString(),
		Pos:      pos,
		Content:  content,
		FontSize: fontSize,
		Color:    c,
	}
}

// Translate moves the annotation's geometry by an image-space delta without
// changing its style.
func (a *Annotation) Translate(delta geometry.Point2D) {
	switch a.Type {
	case KindArrow:
		a.Start = a.Start.Add(delta)
		a.End = a.End.Add(delta)
	case KindRectangle:
		a.Min = a.Min.Add(delta)
		a.Max = a.Max.Add(delta)
	case KindText:
		a.Pos = a.Pos.Add(delta)
	}
}

// Bounds returns the image-space bounding box of the annotation. For text
// this is the same width/height approximation used by hit-testing; no real
// text shaping is available to the engine.
func (a Annotation) Bounds() geometry.Rect {
	switch a.Type {
	case KindArrow:
		return geometry.RectFromPoints(a.Start, a.End)
	case KindRectangle:
		return geometry.RectFromPoints(a.Min, a.Max)
	case KindText:
		w, h := a.TextExtent()
		return geometry.NewRect(a.Pos.X, a.Pos.Y, w, h)
	}
	return geometry.Rect{}
}

// TextExtent returns the approximate width and height of a text annotation
// in image units: 0.6 font heights per character, 1.2 font heights tall.
func (a Annotation) TextExtent() (w, h float64) {
	n := float64(utf8.RuneCountInString(a.Content))
	return n * a.FontSize * 0.6, a.FontSize * 1.2
}
