package annotation

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"image-markup/pkg/geometry"
)

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		imagePath string
		want      string
	}{
		{"shot.png", "shot.png.annot"},
		{"/tmp/pics/board.jpg", "/tmp/pics/board.jpg.annot"},
		{"noext", "noext.annot"},
	}
	for _, tt := range tests {
		if got := SidecarPath(tt.imagePath); got != tt.want {
			t.Errorf("SidecarPath(%q) = %q, want %q", tt.imagePath, got, tt.want)
		}
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "shot.png")

	s := NewStore(imagePath)
	s.Add(NewArrow(geometry.NewPoint2D(10, 20), geometry.NewPoint2D(110, 20), DefaultStroke, 3))
	s.Add(NewRectangle(geometry.NewPoint2D(50, 50), geometry.NewPoint2D(5, 90), Color{B: 1, A: 1}, 2))
	s.Add(NewText(geometry.NewPoint2D(30, 40), "hello", 20, Color{G: 1, A: 0.5}))
	s.Save()

	loaded := NewStore(imagePath)
	loaded.Load()

	if !reflect.DeepEqual(loaded.All(), s.All()) {
		t.Errorf("loaded annotations differ:\ngot  %+v\nwant %+v", loaded.All(), s.All())
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nothing.png"))
	s.Load()
	if s.Len() != 0 {
		t.Errorf("missing sidecar should load empty, got %d annotations", s.Len())
	}
}

func TestStoreLoadMalformedFile(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(SidecarPath(imagePath), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(imagePath)
	s.Load()
	if s.Len() != 0 {
		t.Errorf("malformed sidecar should load empty, got %d annotations", s.Len())
	}
}

func TestStoreLoadKeepsEmptyTextContent(t *testing.T) {
	// Hand-written files may contain empty text content; the store takes the
	// record as-is instead of dropping it.
	imagePath := filepath.Join(t.TempDir(), "shot.png")
	data := `{
  "version": 1,
  "annotations": [
    {"type": "Text", "pos": {"x": 5, "y": 6}, "content": "", "font_size": 14, "color": {"r": 1, "g": 0, "b": 0, "a": 1}}
  ]
}`
	if err := os.WriteFile(SidecarPath(imagePath), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(imagePath)
	s.Load()
	if s.Len() != 1 {
		t.Fatalf("expected 1 annotation, got %d", s.Len())
	}
	a, _ := s.At(0)
	if a.Type != KindText || a.Content != "" {
		t.Errorf("loaded %+v, want empty-content text", a)
	}
}

func TestStoreSaveEmptyList(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "shot.png")
	s := NewStore(imagePath)
	s.Save()

	loaded := NewStore(imagePath)
	loaded.Load()
	if loaded.Len() != 0 {
		t.Errorf("empty store should round-trip empty, got %d", loaded.Len())
	}
	if _, err := os.Stat(SidecarPath(imagePath)); err != nil {
		t.Errorf("sidecar file should exist after save: %v", err)
	}
}

func TestStoreRemove(t *testing.T) {
	s := NewStore("x.png")
	a := NewArrow(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(1, 1), DefaultStroke, 3)
	b := NewArrow(geometry.NewPoint2D(2, 2), geometry.NewPoint2D(3, 3), DefaultStroke, 3)
	c := NewArrow(geometry.NewPoint2D(4, 4), geometry.NewPoint2D(5, 5), DefaultStroke, 3)
	s.Add(a)
	s.Add(b)
	s.Add(c)

	if !s.Remove(1) {
		t.Fatal("Remove(1) should succeed")
	}
	if s.Len() != 2 {
		t.Fatalf("len after remove = %d", s.Len())
	}
	if got, _ := s.At(1); got.ID != c.ID {
		t.Errorf("later annotation should shift down, got ID %s", got.ID)
	}

	if s.Remove(5) || s.Remove(-1) {
		t.Error("out-of-range remove should be a no-op")
	}
	if s.Len() != 2 {
		t.Errorf("out-of-range remove changed length to %d", s.Len())
	}
}

func TestStoreTranslate(t *testing.T) {
	s := NewStore("x.png")
	s.Add(NewRectangle(geometry.NewPoint2D(10, 10), geometry.NewPoint2D(50, 40), DefaultStroke, 2))

	s.Translate(0, geometry.NewPoint2D(5, -3))

	a, _ := s.At(0)
	if a.Min != geometry.NewPoint2D(15, 7) || a.Max != geometry.NewPoint2D(55, 37) {
		t.Errorf("translated rectangle = %+v", a)
	}

	// Out of range is a no-op.
	s.Translate(7, geometry.NewPoint2D(100, 100))
}

func TestStoreIndexOf(t *testing.T) {
	s := NewStore("x.png")
	a := NewText(geometry.NewPoint2D(0, 0), "a", 12, DefaultStroke)
	b := NewText(geometry.NewPoint2D(1, 1), "b", 12, DefaultStroke)
	s.Add(a)
	s.Add(b)

	if got := s.IndexOf(b.ID); got != 1 {
		t.Errorf("IndexOf(b) = %d, want 1", got)
	}
	if got := s.IndexOf("unknown"); got != -1 {
		t.Errorf("IndexOf(unknown) = %d, want -1", got)
	}
	if got := s.IndexOf(""); got != -1 {
		t.Errorf("IndexOf(empty) = %d, want -1", got)
	}
}

func TestSnapshotRestoreIsolation(t *testing.T) {
	s := NewStore("x.png")
	s.Add(NewArrow(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 0), DefaultStroke, 3))

	snap := s.Snapshot()
	s.Translate(0, geometry.NewPoint2D(100, 100))

	if snap[0].Start != geometry.NewPoint2D(0, 0) {
		t.Error("snapshot mutated by later edit")
	}

	s.Restore(snap)
	a, _ := s.At(0)
	if a.Start != geometry.NewPoint2D(0, 0) {
		t.Errorf("restore did not roll back, got %+v", a.Start)
	}
}
