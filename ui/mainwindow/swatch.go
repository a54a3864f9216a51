package mainwindow

import (
	"image/color"

	"image-markup/internal/annotation"
	"image-markup/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// colorSwatch is a tappable color square for the toolbar palette.
type colorSwatch struct {
	widget.BaseWidget
	color    color.NRGBA
	onTapped func(color.NRGBA)
}

func newColorSwatch(c color.NRGBA, tapped func(color.NRGBA)) *colorSwatch {
	s := &colorSwatch{color: c, onTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := fynecanvas.NewRectangle(s.color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := fynecanvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.onTapped != nil {
		s.onTapped(s.color)
	}
}

// newSwatchRow builds the palette row, reporting picks as normalized colors.
func newSwatchRow(onPick func(annotation.Color)) fyne.CanvasObject {
	row := container.NewHBox()
	for _, c := range colorutil.Palette {
		row.Add(newColorSwatch(c, func(picked color.NRGBA) {
			onPick(annotation.ColorFromNRGBA(picked))
		}))
	}
	return row
}
