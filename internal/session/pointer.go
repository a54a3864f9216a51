package session

import (
	"image-markup/internal/annotation"
	"image-markup/pkg/geometry"
)

// dragState is the interaction state machine driven by the pointer drag
// lifecycle. The active tool selects which transition applies.
type dragState int

const (
	dragIdle dragState = iota
	dragDrawing
	dragMoving
)

// dragThreshold is the minimum view-space displacement for a drawing drag
// to commit; shorter gestures are discarded as accidental clicks.
const dragThreshold = 5.0

// PointerDown begins a drag gesture at a view-space position.
func (s *Session) PointerDown(p geometry.Point2D) {
	if s.drag != dragIdle {
		return
	}

	switch s.tool {
	case ToolArrow, ToolRectangle:
		s.drag = dragDrawing
		s.dragStartView = p
		s.lastDragView = p

	case ToolText:
		anchor := s.ViewToImage(p)
		s.textAnchor = &anchor
		s.Emit(EventTextEntryRequested, anchor)

	case ToolSelect:
		if index := s.HitTest(p); index >= 0 {
			// History is recorded at drag start: the whole move, however
			// long, is one undo step. A click that never moves still
			// records, matching the committed selection behavior.
			s.record()
			s.setSelection(index)
			s.drag = dragMoving
			s.movingIndex = index
			s.lastDragView = p
		} else {
			s.setSelection(-1)
		}
	}
}

// PointerDrag continues a drag gesture. While drawing it only updates the
// live preview; while moving it translates the selected annotation by the
// view delta scaled into image space (pan cancels out of relative motion).
func (s *Session) PointerDrag(p geometry.Point2D) {
	switch s.drag {
	case dragDrawing:
		s.lastDragView = p

	case dragMoving:
		delta := p.Sub(s.lastDragView).Scale(1 / s.view.Zoom)
		s.store.Translate(s.movingIndex, delta)
		s.lastDragView = p
	}
}

// PointerUp ends a drag gesture. Drawing commits a new annotation when the
// gesture exceeded the click-rejection threshold; moving persists the final
// geometry. Either way the machine returns to idle.
func (s *Session) PointerUp(p geometry.Point2D) {
	switch s.drag {
	case dragDrawing:
		if p.Distance(s.dragStartView) > dragThreshold {
			imgStart := s.ViewToImage(s.dragStartView)
			imgEnd := s.ViewToImage(p)

			s.record()
			switch s.tool {
			case ToolArrow:
				s.store.Add(annotation.NewArrow(imgStart, imgEnd, s.color, s.thickness))
			case ToolRectangle:
				s.store.Add(annotation.NewRectangle(imgStart, imgEnd, s.color, s.thickness))
			}
			s.commit()
		}

	case dragMoving:
		s.commit()
	}
	s.drag = dragIdle
}

// Drawing reports the in-progress drawing preview: the gesture's start and
// current positions in view space, and whether a preview should be shown.
func (s *Session) Drawing() (start, current geometry.Point2D, active bool) {
	if s.drag != dragDrawing {
		return geometry.Point2D{}, geometry.Point2D{}, false
	}
	return s.dragStartView, s.lastDragView, true
}

// Moving reports whether a move gesture is in progress.
func (s *Session) Moving() bool {
	return s.drag == dragMoving
}
