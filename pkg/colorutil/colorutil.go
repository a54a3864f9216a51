// Package colorutil provides shared color utilities for the markup editor.
package colorutil

import (
	"image/color"
)

// Palette colors offered by the toolbar swatches.
var (
	Red     = color.NRGBA{R: 255, A: 255}
	Green   = color.NRGBA{G: 200, A: 255}
	Blue    = color.NRGBA{B: 255, A: 255}
	Yellow  = color.NRGBA{R: 255, G: 220, A: 255}
	Black   = color.NRGBA{A: 255}
	White   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Magenta = color.NRGBA{R: 255, B: 255, A: 255}
)

// Palette is the swatch order shown in the toolbar.
var Palette = []color.NRGBA{Red, Green, Blue, Yellow, Black, White, Magenta}

// Clamp01 clamps a normalized channel value to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ByteFromUnit converts a normalized channel in [0,1] to a byte, clamping
// out-of-range values at conversion time rather than at storage time.
func ByteFromUnit(v float64) uint8 {
	return uint8(Clamp01(v) * 255.0)
}

// UnitFromByte converts a byte channel to a normalized value in [0,1].
func UnitFromByte(b uint8) float64 {
	return float64(b) / 255.0
}
