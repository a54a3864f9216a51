package annotation

import (
	"encoding/json"
	"log"
	"os"

	"image-markup/pkg/geometry"
)

// sidecarSuffix is appended to the full image filename, keeping the original
// extension visible: "shot.png" -> "shot.png.annot".
const sidecarSuffix = ".annot"

// SidecarPath returns the sidecar file path for the given image path.
func SidecarPath(imagePath string) string {
	return imagePath + sidecarSuffix
}

// fileFormat is the JSON structure of a sidecar file.
type fileFormat struct {
	Version     int          `json:"version"`
	Annotations []Annotation `json:"annotations"`
}

// Store holds the ordered annotation list for one image and persists it to
// the image's sidecar file. List order is z-order: later entries draw on top
// and win hit-testing ties.
type Store struct {
	path  string
	items []Annotation
}

// NewStore creates a store bound to the sidecar of the given image path.
// The list starts empty; call Load to read any existing sidecar.
func NewStore(imagePath string) *Store {
	return &Store{path: SidecarPath(imagePath)}
}

// Path returns the sidecar file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the sidecar file. A missing or malformed file yields an empty
// list; corruption is never fatal to opening the document. Records are taken
// as literal: content emptiness is enforced at interactive commit time, not
// re-validated here.
func (s *Store) Load() {
	s.items = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var file fileFormat
	if err := json.Unmarshal(data, &file); err != nil {
		log.Printf("Ignoring unreadable sidecar %s: %v", s.path, err)
		return
	}
	s.items = file.Annotations
}

// Save serializes the full list to the sidecar path, overwriting any
// existing file. Failures are logged and swallowed; the in-memory list is
// the source of truth and a failed save leaves the previous file intact.
func (s *Store) Save() {
	file := fileFormat{Version: 1, Annotations: s.items}
	if file.Annotations == nil {
		file.Annotations = []Annotation{}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		log.Printf("Failed to encode sidecar %s: %v", s.path, err)
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		log.Printf("Failed to write sidecar %s: %v", s.path, err)
	}
}

// Len returns the number of annotations.
func (s *Store) Len() int {
	return len(s.items)
}

// All returns the annotation list in z-order. The slice is the store's own
// backing array; callers must not mutate it directly.
func (s *Store) All() []Annotation {
	return s.items
}

// At returns the annotation at index i, or false if out of range.
func (s *Store) At(i int) (Annotation, bool) {
	if i < 0 || i >= len(s.items) {
		return Annotation{}, false
	}
	return s.items[i], true
}

// Add appends an annotation at the top of the z-order.
func (s *Store) Add(a Annotation) {
	s.items = append(s.items, a)
}

// Remove deletes the annotation at index i, shifting later indices down.
// An out-of-range index is a no-op and returns false.
func (s *Store) Remove(i int) bool {
	if i < 0 || i >= len(s.items) {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Translate moves the annotation at index i by an image-space delta. An
// out-of-range index is a no-op.
func (s *Store) Translate(i int, delta geometry.Point2D) {
	if i < 0 || i >= len(s.items) {
		return
	}
	s.items[i].Translate(delta)
}

// IndexOf returns the index of the annotation with the given ID, or -1.
func (s *Store) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Snapshot returns a copy of the current list suitable for history stacks.
func (s *Store) Snapshot() []Annotation {
	snap := make([]Annotation, len(s.items))
	copy(snap, s.items)
	return snap
}

// Restore replaces the current list with a snapshot.
func (s *Store) Restore(snap []Annotation) {
	s.items = make([]Annotation, len(snap))
	copy(s.items, snap)
}
