package session

import (
	"image-markup/internal/annotation"
	"image-markup/pkg/geometry"
)

// hitMargin widens every containment test by a fixed number of view units
// so thin strokes remain clickable at any zoom.
const hitMargin = 8.0

// HitTest returns the index of the topmost annotation whose rendered extent
// contains the view-space point, or -1. Candidates are walked from last to
// first so z-order, never proximity, breaks ties.
func (s *Session) HitTest(p geometry.Point2D) int {
	items := s.store.All()
	for i := len(items) - 1; i >= 0; i-- {
		if s.hitAnnotation(items[i], p) {
			return i
		}
	}
	return -1
}

// hitAnnotation tests one annotation against a view-space query point after
// projecting its stored image-space geometry into view space.
func (s *Session) hitAnnotation(a annotation.Annotation, q geometry.Point2D) bool {
	zoom := s.view.Zoom

	switch a.Type {
	case annotation.KindArrow:
		// Thickness-aware capsule around the shaft, not a zero-width line.
		start := s.ImageToView(a.Start)
		end := s.ImageToView(a.End)
		return geometry.SegmentDistance(q, start, end) < a.Thickness*zoom+hitMargin

	case annotation.KindRectangle:
		// The hit region is the stroke border itself: inside the outer
		// boundary but outside the inner one, so the unfilled interior
		// does not select.
		rect := geometry.RectFromPoints(s.ImageToView(a.Min), s.ImageToView(a.Max))
		band := a.Thickness*zoom + hitMargin
		return rect.Expand(band).Contains(q) && !rect.Shrink(band).Contains(q)

	case annotation.KindText:
		// Approximate box from the per-character width heuristic; the
		// engine has no text shaping, so this imprecision is accepted.
		pos := s.ImageToView(a.Pos)
		w, h := a.TextExtent()
		box := geometry.NewRect(pos.X, pos.Y, w*zoom, h*zoom)
		return box.Expand(4).Contains(q)
	}
	return false
}
