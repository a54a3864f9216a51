package session

import (
	"math"
	"path/filepath"
	"testing"

	"image-markup/internal/annotation"
	"image-markup/internal/image"
	"image-markup/pkg/geometry"
)

// newTestSession builds a session over a placeholder-sized document with the
// viewport matching the placeholder, so view and image coordinates coincide
// at the initial transform.
func newTestSession(t *testing.T) *Session {
	t.Helper()
	src := &image.Source{Path: filepath.Join(t.TempDir(), "shot.png")}
	s := New(src)
	s.SetViewport(geometry.NewRect(0, 0, image.PlaceholderWidth, image.PlaceholderHeight))
	return s
}

func pt(x, y float64) geometry.Point2D {
	return geometry.NewPoint2D(x, y)
}

// drawArrow runs a full arrow gesture through the pointer state machine.
func drawArrow(s *Session, start, end geometry.Point2D) {
	s.SetTool(ToolArrow)
	s.PointerDown(start)
	s.PointerDrag(end)
	s.PointerUp(end)
}

func TestDrawArrowGesture(t *testing.T) {
	s := newTestSession(t)

	drawArrow(s, pt(100, 100), pt(200, 150))

	anns := s.Annotations()
	if len(anns) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(anns))
	}
	a := anns[0]
	if a.Type != annotation.KindArrow {
		t.Fatalf("type = %s", a.Type)
	}
	if a.Start != pt(100, 100) || a.End != pt(200, 150) {
		t.Errorf("arrow geometry = %+v -> %+v", a.Start, a.End)
	}
	if a.ID == "" {
		t.Error("annotation should get an ID")
	}
	if !s.CanUndo() {
		t.Error("drawing should record history")
	}
}

func TestDrawRectangleKeepsDraggedCorners(t *testing.T) {
	s := newTestSession(t)
	s.SetTool(ToolRectangle)

	// Dragged up-left: corners are stored as dragged, not normalized.
	s.PointerDown(pt(50, 90))
	s.PointerUp(pt(10, 50))

	anns := s.Annotations()
	if len(anns) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(anns))
	}
	if anns[0].Min != pt(50, 90) || anns[0].Max != pt(10, 50) {
		t.Errorf("rectangle corners = %+v / %+v", anns[0].Min, anns[0].Max)
	}
}

func TestClickBelowThresholdDiscards(t *testing.T) {
	s := newTestSession(t)

	s.SetTool(ToolArrow)
	s.PointerDown(pt(100, 100))
	s.PointerUp(pt(102, 103))

	if len(s.Annotations()) != 0 {
		t.Error("sub-threshold gesture should not create an annotation")
	}
	if s.CanUndo() {
		t.Error("discarded gesture should not record history")
	}
}

func TestDrawingPreview(t *testing.T) {
	s := newTestSession(t)

	s.SetTool(ToolArrow)
	s.PointerDown(pt(10, 10))
	s.PointerDrag(pt(80, 60))

	start, current, active := s.Drawing()
	if !active {
		t.Fatal("preview should be active mid-drag")
	}
	if start != pt(10, 10) || current != pt(80, 60) {
		t.Errorf("preview = %+v -> %+v", start, current)
	}
	if len(s.Annotations()) != 0 {
		t.Error("mid-drag must not touch the store")
	}

	s.PointerUp(pt(80, 60))
	if _, _, active := s.Drawing(); active {
		t.Error("preview should end on pointer up")
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	s := newTestSession(t)

	// Two coincident arrows; the later one is on top.
	drawArrow(s, pt(100, 100), pt(200, 100))
	drawArrow(s, pt(100, 100), pt(200, 100))

	if got := s.HitTest(pt(150, 100)); got != 1 {
		t.Errorf("HitTest = %d, want topmost index 1", got)
	}
}

func TestHitTestMiss(t *testing.T) {
	s := newTestSession(t)
	drawArrow(s, pt(100, 100), pt(200, 100))

	if got := s.HitTest(pt(400, 400)); got != -1 {
		t.Errorf("HitTest far away = %d, want -1", got)
	}
}

func TestRectangleBorderHit(t *testing.T) {
	s := newTestSession(t)
	s.SetThickness(2)
	s.SetTool(ToolRectangle)
	s.PointerDown(pt(10, 10))
	s.PointerUp(pt(50, 40))

	tests := []struct {
		name string
		p    geometry.Point2D
		want int
	}{
		{name: "interior misses", p: pt(30, 25), want: -1},
		{name: "left edge hits", p: pt(10, 25), want: 0},
		{name: "corner hits", p: pt(50, 40), want: 0},
		{name: "just outside the band misses", p: pt(70, 25), want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.HitTest(tt.p); got != tt.want {
				t.Errorf("HitTest(%+v) = %d, want %d", tt.p, got, tt.want)
			}
		})
	}
}

func TestTextHit(t *testing.T) {
	s := newTestSession(t)
	s.SetTool(ToolText)
	s.PointerDown(pt(100, 100))
	s.CommitText("hello")

	// Extent at font size 20: 60 wide, 24 tall, plus the fixed 4 expansion.
	if got := s.HitTest(pt(130, 110)); got != 0 {
		t.Errorf("inside text box: HitTest = %d, want 0", got)
	}
	if got := s.HitTest(pt(200, 110)); got != -1 {
		t.Errorf("beyond text box: HitTest = %d, want -1", got)
	}
}

func TestSelectAndMove(t *testing.T) {
	s := newTestSession(t)
	drawArrow(s, pt(100, 100), pt(200, 100))

	s.SetTool(ToolSelect)
	s.PointerDown(pt(150, 100))
	if s.Selected() != 0 {
		t.Fatalf("selection = %d, want 0", s.Selected())
	}
	s.PointerDrag(pt(160, 110))
	s.PointerDrag(pt(170, 120))
	s.PointerUp(pt(170, 120))

	a := s.Annotations()[0]
	if a.Start != pt(120, 120) || a.End != pt(220, 120) {
		t.Errorf("moved arrow = %+v -> %+v, want shifted by (20,20)", a.Start, a.End)
	}

	// The whole move is one undo step.
	s.Undo()
	a = s.Annotations()[0]
	if a.Start != pt(100, 100) || a.End != pt(200, 100) {
		t.Errorf("undo of move = %+v -> %+v", a.Start, a.End)
	}
}

func TestMoveScalesWithZoom(t *testing.T) {
	s := newTestSession(t)
	drawArrow(s, pt(400, 300), pt(500, 300))

	// Zoom in 2x around the viewport center, then drag: the image-space
	// displacement is the view delta divided by zoom.
	for s.View().Zoom < 2 {
		s.Scroll(pt(400, 300), 500)
	}
	zoom := s.View().Zoom

	s.SetTool(ToolSelect)
	hit := s.ImageToView(pt(450, 300))
	s.PointerDown(hit)
	if s.Selected() != 0 {
		t.Fatalf("selection = %d, want 0", s.Selected())
	}
	s.PointerDrag(hit.Add(pt(30, 0)))
	s.PointerUp(hit.Add(pt(30, 0)))

	a := s.Annotations()[0]
	wantX := 400 + 30/zoom
	if math.Abs(a.Start.X-wantX) > 1e-9 || a.Start.Y != 300 {
		t.Errorf("start after zoomed move = %+v, want x=%v", a.Start, wantX)
	}
}

func TestSelectMissClearsSelection(t *testing.T) {
	s := newTestSession(t)
	drawArrow(s, pt(100, 100), pt(200, 100))

	s.SetTool(ToolSelect)
	s.PointerDown(pt(150, 100))
	s.PointerUp(pt(150, 100))
	if s.Selected() != 0 {
		t.Fatalf("selection = %d, want 0", s.Selected())
	}

	s.PointerDown(pt(600, 500))
	s.PointerUp(pt(600, 500))
	if s.Selected() != -1 {
		t.Errorf("selection after miss = %d, want -1", s.Selected())
	}
}

func TestDeleteSelected(t *testing.T) {
	s := newTestSession(t)
	drawArrow(s, pt(100, 100), pt(200, 100))

	s.SetTool(ToolSelect)
	s.PointerDown(pt(150, 100))
	s.PointerUp(pt(150, 100))

	s.DeleteSelected()
	if len(s.Annotations()) != 0 {
		t.Fatal("delete left the annotation in place")
	}
	if s.Selected() != -1 {
		t.Errorf("selection after delete = %d, want -1", s.Selected())
	}

	// Undo brings the annotation back; the deliberate deselection sticks.
	s.Undo()
	if len(s.Annotations()) != 1 {
		t.Fatal("undo did not restore the annotation")
	}
	if s.Selected() != -1 {
		t.Errorf("selection after undo = %d, want -1", s.Selected())
	}
}

func TestDeleteWithoutSelection(t *testing.T) {
	s := newTestSession(t)
	drawArrow(s, pt(100, 100), pt(200, 100))

	s.DeleteSelected()
	if len(s.Annotations()) != 1 {
		t.Error("delete with no selection should be a no-op")
	}
}

func TestUndoPastCreationDropsSelection(t *testing.T) {
	s := newTestSession(t)
	drawArrow(s, pt(100, 100), pt(200, 100))
	drawArrow(s, pt(100, 200), pt(200, 200))

	s.SetTool(ToolSelect)
	s.PointerDown(pt(150, 200))
	s.PointerUp(pt(150, 200))
	if s.Selected() != 1 {
		t.Fatalf("selection = %d, want 1", s.Selected())
	}

	s.Undo() // the selection click's own step, list unchanged
	s.Undo() // second arrow's creation
	if len(s.Annotations()) != 1 {
		t.Fatalf("expected 1 annotation after undo, got %d", len(s.Annotations()))
	}
	if s.Selected() != -1 {
		t.Errorf("selection should clear when its annotation is undone, got %d", s.Selected())
	}
}

func TestTextEntryFlow(t *testing.T) {
	s := newTestSession(t)

	var requested []geometry.Point2D
	s.On(EventTextEntryRequested, func(data interface{}) {
		if p, ok := data.(geometry.Point2D); ok {
			requested = append(requested, p)
		}
	})

	s.SetTool(ToolText)
	s.PointerDown(pt(300, 200))
	if !s.TextPending() {
		t.Fatal("text entry should be pending after click")
	}
	if len(requested) != 1 || requested[0] != pt(300, 200) {
		t.Fatalf("entry request events = %+v", requested)
	}

	s.CommitText("note")
	if s.TextPending() {
		t.Error("commit should clear the pending entry")
	}
	anns := s.Annotations()
	if len(anns) != 1 || anns[0].Type != annotation.KindText {
		t.Fatalf("annotations = %+v", anns)
	}
	if anns[0].Pos != pt(300, 200) || anns[0].Content != "note" {
		t.Errorf("text = %+v", anns[0])
	}
	if anns[0].FontSize != DefaultFontSize {
		t.Errorf("font size = %v, want %v", anns[0].FontSize, DefaultFontSize)
	}
}

func TestEmptyTextDiscarded(t *testing.T) {
	s := newTestSession(t)

	s.SetTool(ToolText)
	s.PointerDown(pt(300, 200))
	s.CommitText("")

	if len(s.Annotations()) != 0 {
		t.Error("empty content should not create an annotation")
	}
	if s.CanUndo() {
		t.Error("discarded entry should not record history")
	}

	s.PointerDown(pt(300, 200))
	s.CancelText()
	if s.TextPending() {
		t.Error("cancel should clear the pending entry")
	}
}

func TestDeleteSuppressedWhileTextPending(t *testing.T) {
	s := newTestSession(t)
	drawArrow(s, pt(100, 100), pt(200, 100))

	s.SetTool(ToolSelect)
	s.PointerDown(pt(150, 100))
	s.PointerUp(pt(150, 100))

	s.SetTool(ToolText)
	s.PointerDown(pt(300, 300))

	// Backspace during text entry edits the text, not the document.
	s.DeleteSelected()
	if len(s.Annotations()) != 1 {
		t.Error("delete should be suppressed while text entry is pending")
	}
}

func TestScrollKeepsCursorPointFixed(t *testing.T) {
	s := newTestSession(t)
	cursor := pt(123, 77)

	before := s.ViewToImage(cursor)
	s.Scroll(cursor, 120)
	after := s.ViewToImage(cursor)

	if math.Abs(after.X-before.X) > 1e-6 || math.Abs(after.Y-before.Y) > 1e-6 {
		t.Errorf("image point under cursor moved from %+v to %+v", before, after)
	}
	if want := 1.0 + 120*0.002; math.Abs(s.View().Zoom-want) > 1e-9 {
		t.Errorf("zoom = %v, want %v", s.View().Zoom, want)
	}
}

func TestScrollZeroIsNoop(t *testing.T) {
	s := newTestSession(t)
	s.Scroll(pt(100, 100), 0)
	if s.View().Zoom != 1 {
		t.Errorf("zoom after zero scroll = %v", s.View().Zoom)
	}
}

func TestSetToolCancelsTextEntry(t *testing.T) {
	s := newTestSession(t)
	s.SetTool(ToolText)
	s.PointerDown(pt(10, 10))
	if !s.TextPending() {
		t.Fatal("text entry should be pending")
	}

	s.SetTool(ToolArrow)
	if s.TextPending() {
		t.Error("switching tools should cancel the pending entry")
	}
}
