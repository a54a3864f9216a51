// Package view provides the pan/zoom transform between image space and
// view space. Pan is in view units, zoom is a uniform scale applied around
// the viewport center, and the image is centered in the viewport at zero
// pan and unit zoom.
package view

import (
	"image-markup/pkg/geometry"
)

// Zoom bounds; the factor is clamped after every computation.
const (
	MinZoom = 0.1
	MaxZoom = 10.0
)

// ClampZoom clamps a zoom factor to the configured bounds.
func ClampZoom(zoom float64) float64 {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}

// Transform holds the current pan offset and zoom factor for one document.
// It is not persisted; saved annotations are independent of the last view.
type Transform struct {
	Pan  geometry.Point2D // view-space offset
	Zoom float64
}

// New returns the identity view: no pan, unit zoom.
func New() Transform {
	return Transform{Zoom: 1.0}
}

// Affine returns the image-to-view mapping as a single affine transform:
// translate the image center to the viewport center plus pan, scaling by
// zoom around that center.
func (t Transform) Affine(viewport geometry.Rect, imageSize geometry.Size) geometry.AffineTransform {
	center := viewport.Center()
	return geometry.Translation(center.X+t.Pan.X, center.Y+t.Pan.Y).
		Compose(geometry.Scale(t.Zoom, t.Zoom)).
		Compose(geometry.Translation(-imageSize.Width/2, -imageSize.Height/2))
}

// ImageToView maps an image-space point to view space.
func (t Transform) ImageToView(viewport geometry.Rect, imageSize geometry.Size, p geometry.Point2D) geometry.Point2D {
	return t.Affine(viewport, imageSize).Apply(p)
}

// ViewToImage maps a view-space point to image space. Exact inverse of
// ImageToView for zoom > 0; out-of-canvas results are valid and simply lie
// outside the image.
func (t Transform) ViewToImage(viewport geometry.Rect, imageSize geometry.Size, p geometry.Point2D) geometry.Point2D {
	inv, ok := t.Affine(viewport, imageSize).Inverse()
	if !ok {
		// Zoom is clamped to a positive range, so the forward transform
		// is always invertible; this is unreachable in practice.
		return p
	}
	return inv.Apply(p)
}

// ImageFrame returns the view-space rectangle covered by the image.
func (t Transform) ImageFrame(viewport geometry.Rect, imageSize geometry.Size) geometry.Rect {
	topLeft := t.ImageToView(viewport, imageSize, geometry.Point2D{})
	botRight := t.ImageToView(viewport, imageSize, geometry.Point2D{X: imageSize.Width, Y: imageSize.Height})
	return geometry.RectFromPoints(topLeft, botRight)
}

// ZoomAt scales the zoom by factor while keeping the image-space point under
// the cursor fixed: the pan is adjusted so that the cursor still maps to the
// same image point after the change. The resulting zoom is clamped.
func (t *Transform) ZoomAt(viewport geometry.Rect, cursor geometry.Point2D, factor float64) {
	newZoom := ClampZoom(t.Zoom * factor)
	if newZoom == t.Zoom {
		return
	}

	center := viewport.Center()
	cursorRel := cursor.Sub(center).Sub(t.Pan)
	t.Pan = t.Pan.Sub(cursorRel.Scale(newZoom/t.Zoom - 1))
	t.Zoom = newZoom
}

// PanBy shifts the pan offset by a view-space delta.
func (t *Transform) PanBy(delta geometry.Point2D) {
	t.Pan = t.Pan.Add(delta)
}
