// Package image provides tolerant loading of the source image a markup
// session is attached to.
package image

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"image-markup/pkg/geometry"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Placeholder dimensions used when the source image cannot be decoded. The
// session still opens so existing annotations remain editable.
const (
	PlaceholderWidth  = 800
	PlaceholderHeight = 600
)

// Source is the decoded image a session annotates. The pixel data is held
// for the life of the session and read, never mutated; the exporter clones
// it into a fresh buffer.
type Source struct {
	Path  string
	Image image.Image // nil when the file was missing or undecodable
}

// Load opens and decodes the image at path. Decode failures are not fatal:
// the returned Source has no pixel data and reports placeholder dimensions,
// and the failure is logged.
func Load(path string) *Source {
	src := &Source{Path: path}

	file, err := os.Open(path)
	if err != nil {
		log.Printf("Failed to open image %s: %v", path, err)
		return src
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		log.Printf("Failed to decode image %s: %v", path, err)
		return src
	}

	src.Image = img
	return src
}

// Width returns the image width in pixels, or the placeholder width.
func (s *Source) Width() int {
	if s.Image == nil {
		return PlaceholderWidth
	}
	return s.Image.Bounds().Dx()
}

// Height returns the image height in pixels, or the placeholder height.
func (s *Source) Height() int {
	if s.Image == nil {
		return PlaceholderHeight
	}
	return s.Image.Bounds().Dy()
}

// Size returns the image dimensions as a geometry.Size.
func (s *Source) Size() geometry.Size {
	return geometry.NewSize(float64(s.Width()), float64(s.Height()))
}
