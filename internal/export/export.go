// Package export flattens an annotation list onto a copy of the source
// pixel buffer and writes the result as an image file.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"image-markup/internal/annotation"
	"image-markup/pkg/geometry"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/spatial/r2"
)

// OutputPath returns the default export path beside the source image:
// "<stem>_annotated.png".
func OutputPath(imagePath string) string {
	dir := filepath.Dir(imagePath)
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"_annotated.png")
}

// Rasterize draws the annotation list onto a copy of src and returns the
// new buffer. Strokes overwrite pixels with no blending or antialiasing;
// later annotations win where strokes overlap. Text annotations are not
// rasterized: the export path performs no glyph rendering, which is a
// documented limitation rather than a bug.
func Rasterize(src image.Image, annotations []annotation.Annotation) *image.RGBA {
	bounds := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), src, bounds.Min, draw.Src)

	for _, a := range annotations {
		switch a.Type {
		case annotation.KindArrow:
			drawArrow(out, a)
		case annotation.KindRectangle:
			drawRectangle(out, a)
		case annotation.KindText:
			// No glyph rasterization in the export path.
		}
	}
	return out
}

// Export rasterizes the annotations over src and writes the result to path.
// The encoder is chosen by the path's extension; unknown extensions fall
// back to PNG.
func Export(src image.Image, annotations []annotation.Annotation, path string) error {
	if src == nil {
		return fmt.Errorf("no source image to export")
	}

	out := Rasterize(src, annotations)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, out, &jpeg.Options{Quality: 90})
	case ".bmp":
		err = bmp.Encode(file, out)
	case ".tif", ".tiff":
		err = tiff.Encode(file, out, nil)
	default:
		err = png.Encode(file, out)
	}
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// drawArrow draws the shaft plus a three-segment arrowhead at the end
// point. A zero-length shaft has no direction, so the head is skipped.
func drawArrow(img *image.RGBA, a annotation.Annotation) {
	c := a.Color.NRGBA()
	drawThickLine(img, a.Start, a.End, a.Thickness, c)

	shaft := r2.Sub(a.End.Vec(), a.Start.Vec())
	length := r2.Norm(shaft)
	if length == 0 {
		return
	}

	dir := r2.Scale(1/length, shaft)
	perp := r2.Vec{X: -dir.Y, Y: dir.X}
	headLen := math.Max(a.Thickness*4, 10)

	back := r2.Sub(a.End.Vec(), r2.Scale(headLen, dir))
	p1 := geometry.FromVec(r2.Add(back, r2.Scale(headLen*0.4, perp)))
	p2 := geometry.FromVec(r2.Sub(back, r2.Scale(headLen*0.4, perp)))

	drawThickLine(img, a.End, p1, a.Thickness, c)
	drawThickLine(img, a.End, p2, a.Thickness, c)
	drawThickLine(img, p1, p2, a.Thickness, c)
}

// drawRectangle draws the four edges of the rectangle as thick lines.
func drawRectangle(img *image.RGBA, a annotation.Annotation) {
	c := a.Color.NRGBA()
	tl := a.Min
	br := a.Max
	tr := geometry.NewPoint2D(br.X, tl.Y)
	bl := geometry.NewPoint2D(tl.X, br.Y)

	drawThickLine(img, tl, tr, a.Thickness, c)
	drawThickLine(img, tr, br, a.Thickness, c)
	drawThickLine(img, br, bl, a.Thickness, c)
	drawThickLine(img, bl, tl, a.Thickness, c)
}

// drawThickLine stamps square blocks along the segment from a to b. The
// sample count is proportional to the segment length (two samples per
// pixel) with a floor of one step so degenerate segments still stamp once.
func drawThickLine(img *image.RGBA, a, b geometry.Point2D, thickness float64, c color.NRGBA) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)

	steps := int(length * 2)
	denom := steps
	if denom < 1 {
		denom = 1
	}
	half := int(math.Max(thickness/2, 0.5))

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(denom)
		cx := int(a.X + dx*t)
		cy := int(a.Y + dy*t)
		for oy := -half; oy <= half; oy++ {
			for ox := -half; ox <= half; ox++ {
				px := cx + ox
				py := cy + oy
				if px >= 0 && px < w && py >= 0 && py < h {
					img.SetRGBA(px, py, color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
				}
			}
		}
	}
}
