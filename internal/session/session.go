// Package session owns the mutable editing state for one open image: the
// annotation store, history stacks, selection, view transform, and the
// drag-gesture state machine. A Session is confined to the event-loop
// goroutine; no operation runs concurrently with another mutation.
package session

import (
	"log"

	"image-markup/internal/annotation"
	"image-markup/internal/export"
	"image-markup/internal/image"
	"image-markup/internal/view"
	"image-markup/pkg/geometry"
)

// Tool is the user-selected interaction mode. It is input to the drag state
// machine, not part of its state.
type Tool int

const (
	ToolArrow Tool = iota
	ToolRectangle
	ToolText
	ToolSelect
)

func (t Tool) String() string {
	switch t {
	case ToolArrow:
		return "Arrow"
	case ToolRectangle:
		return "Rectangle"
	case ToolText:
		return "Text"
	case ToolSelect:
		return "Select"
	default:
		return "Unknown"
	}
}

// EventType identifies session events the UI can observe.
type EventType int

const (
	EventAnnotationsChanged EventType = iota
	EventSelectionChanged
	EventViewChanged
	EventToolChanged
	EventTextEntryRequested
	EventExported
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Default tool settings, matching the toolbar's initial state.
const (
	DefaultThickness = 3.0
	DefaultFontSize  = 20.0
)

// Session ties the annotation engine together for a single document.
type Session struct {
	source  *image.Source
	store   *annotation.Store
	history *annotation.History

	view     view.Transform
	viewport geometry.Rect

	tool      Tool
	color     annotation.Color
	thickness float64
	fontSize  float64

	// Drag state machine.
	drag          dragState
	dragStartView geometry.Point2D
	lastDragView  geometry.Point2D
	movingIndex   int

	// Selection: index into the store, -1 for none. The ID shadows the
	// index so the logical selection survives index shifts and undo/redo.
	selected   int
	selectedID string

	// Pending text entry anchor (image space), nil when none.
	textAnchor *geometry.Point2D

	listeners map[EventType][]EventListener
}

// New creates a session for the given source image, loading any existing
// sidecar annotations.
func New(src *image.Source) *Session {
	s := &Session{
		source:    src,
		store:     annotation.NewStore(src.Path),
		history:   &annotation.History{},
		view:      view.New(),
		tool:      ToolArrow,
		color:     annotation.DefaultStroke,
		thickness: DefaultThickness,
		fontSize:  DefaultFontSize,
		selected:  -1,
		listeners: make(map[EventType][]EventListener),
	}
	s.store.Load()
	return s
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	for _, listener := range s.listeners[event] {
		listener(data)
	}
}

// Source returns the session's source image.
func (s *Session) Source() *image.Source {
	return s.source
}

// Annotations returns the current list in z-order.
func (s *Session) Annotations() []annotation.Annotation {
	return s.store.All()
}

// Store exposes the underlying store (read-only use by the export CLI and
// tests; interactive mutations go through the session operations).
func (s *Session) Store() *annotation.Store {
	return s.store
}

// Selected returns the selected annotation index, or -1.
func (s *Session) Selected() int {
	return s.selected
}

// View returns the current view transform.
func (s *Session) View() view.Transform {
	return s.view
}

// Viewport returns the last view rectangle reported by the display layer.
func (s *Session) Viewport() geometry.Rect {
	return s.viewport
}

// SetViewport records the display surface rectangle used for coordinate
// conversion. Called by the display layer on layout changes.
func (s *Session) SetViewport(r geometry.Rect) {
	s.viewport = r
}

// Tool returns the active tool.
func (s *Session) Tool() Tool {
	return s.tool
}

// SetTool switches the active tool and cancels any pending text entry.
func (s *Session) SetTool(t Tool) {
	if s.tool == t {
		return
	}
	s.tool = t
	s.textAnchor = nil
	s.Emit(EventToolChanged, t)
}

// Color returns the current stroke color.
func (s *Session) Color() annotation.Color {
	return s.color
}

// SetColor sets the stroke color for new annotations.
func (s *Session) SetColor(c annotation.Color) {
	s.color = c
}

// Thickness returns the current stroke thickness.
func (s *Session) Thickness() float64 {
	return s.thickness
}

// SetThickness sets the stroke thickness for new annotations.
func (s *Session) SetThickness(t float64) {
	if t < 0 {
		t = 0
	}
	s.thickness = t
}

// FontSize returns the current text font size.
func (s *Session) FontSize() float64 {
	return s.fontSize
}

// SetFontSize sets the font size for new text annotations.
func (s *Session) SetFontSize(size float64) {
	if size > 0 {
		s.fontSize = size
	}
}

// record pushes the pre-mutation snapshot onto the undo stack. Must run
// before every mutation that is not itself an undo or redo.
func (s *Session) record() {
	s.history.Record(s.store.Snapshot())
}

// commit persists the store and notifies observers after a mutation.
func (s *Session) commit() {
	s.store.Save()
	s.Emit(EventAnnotationsChanged, nil)
}

// setSelection updates the selection index and its shadowing ID.
func (s *Session) setSelection(index int) {
	if index == s.selected {
		return
	}
	s.selected = index
	if a, ok := s.store.At(index); ok {
		s.selectedID = a.ID
	} else {
		s.selected = -1
		s.selectedID = ""
	}
	s.Emit(EventSelectionChanged, s.selected)
}

// reselectByID re-resolves the selection after the list was replaced
// wholesale (undo/redo); the logical selection follows the annotation's ID.
func (s *Session) reselectByID() {
	index := s.store.IndexOf(s.selectedID)
	if index != s.selected {
		s.selected = index
		if index < 0 {
			s.selectedID = ""
		}
		s.Emit(EventSelectionChanged, s.selected)
	}
}

// Undo restores the previous snapshot, if any, and persists.
func (s *Session) Undo() {
	snap, ok := s.history.Undo(s.store.Snapshot())
	if !ok {
		return
	}
	s.store.Restore(snap)
	s.reselectByID()
	s.commit()
}

// Redo restores the next snapshot, if any, and persists.
func (s *Session) Redo() {
	snap, ok := s.history.Redo(s.store.Snapshot())
	if !ok {
		return
	}
	s.store.Restore(snap)
	s.reselectByID()
	s.commit()
}

// CanUndo reports whether an undo step is available.
func (s *Session) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (s *Session) CanRedo() bool {
	return s.history.CanRedo()
}

// DeleteSelected removes the selected annotation. Suppressed while a text
// entry is pending so Backspace edits the text instead.
func (s *Session) DeleteSelected() {
	if s.textAnchor != nil {
		return
	}
	if _, ok := s.store.At(s.selected); !ok {
		return
	}
	s.record()
	s.store.Remove(s.selected)
	s.setSelection(-1)
	s.commit()
}

// Scroll applies a zoom step centered at the cursor position (view space).
func (s *Session) Scroll(cursor geometry.Point2D, deltaY float64) {
	if deltaY == 0 {
		return
	}
	factor := 1.0 + deltaY*0.002
	s.view.ZoomAt(s.viewport, cursor, factor)
	s.Emit(EventViewChanged, s.view)
}

// PanBy shifts the view by a view-space delta (middle-button drag).
func (s *Session) PanBy(delta geometry.Point2D) {
	s.view.PanBy(delta)
	s.Emit(EventViewChanged, s.view)
}

// ImageToView converts an image-space point to view space under the current
// transform and viewport.
func (s *Session) ImageToView(p geometry.Point2D) geometry.Point2D {
	return s.view.ImageToView(s.viewport, s.source.Size(), p)
}

// ViewToImage converts a view-space point to image space.
func (s *Session) ViewToImage(p geometry.Point2D) geometry.Point2D {
	return s.view.ViewToImage(s.viewport, s.source.Size(), p)
}

// TextPending reports whether a text entry is awaiting content.
func (s *Session) TextPending() bool {
	return s.textAnchor != nil
}

// TextAnchor returns the pending text anchor in image space.
func (s *Session) TextAnchor() (geometry.Point2D, bool) {
	if s.textAnchor == nil {
		return geometry.Point2D{}, false
	}
	return *s.textAnchor, true
}

// CommitText finishes a pending text entry. Empty content discards the
// entry without touching the store or history; no empty-content text
// annotation is ever persisted by the interactive flow.
func (s *Session) CommitText(content string) {
	anchor := s.textAnchor
	s.textAnchor = nil
	if anchor == nil || content == "" {
		return
	}
	s.record()
	s.store.Add(annotation.NewText(*anchor, content, s.fontSize, s.color))
	s.commit()
}

// CancelText discards a pending text entry.
func (s *Session) CancelText() {
	s.textAnchor = nil
}

// Save persists the sidecar and exports the flattened image (the save
// shortcut performs both).
func (s *Session) Save() {
	s.store.Save()
	s.ExportTo(export.OutputPath(s.source.Path))
}

// ExportTo writes a flattened copy with the markup burned in. Failures are
// logged, never surfaced; the in-memory state is unaffected.
func (s *Session) ExportTo(path string) {
	if err := export.Export(s.source.Image, s.store.All(), path); err != nil {
		log.Printf("Export failed: %v", err)
		return
	}
	log.Printf("Exported to %s", path)
	s.Emit(EventExported, path)
}
