package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// viewerPalette holds the panel colors. The status line switches between
// text and failure.
type viewerPalette struct {
	panel    color.RGBA
	list     color.RGBA
	text     color.RGBA
	muted    color.RGBA
	accent   color.RGBA
	selected color.RGBA
	control  color.RGBA
	failure  color.RGBA
}

var palette = viewerPalette{
	panel:    color.RGBA{24, 26, 31, 240},
	list:     color.RGBA{32, 34, 40, 255},
	text:     color.RGBA{230, 232, 236, 255},
	muted:    color.RGBA{128, 132, 140, 255},
	accent:   color.RGBA{255, 214, 102, 255},
	selected: color.RGBA{50, 58, 84, 255},
	control:  color.RGBA{70, 74, 86, 255},
	failure:  color.RGBA{255, 110, 96, 255},
}

// shade moves every channel of c by d, keeping alpha.
func shade(c color.RGBA, d int) color.RGBA {
	ch := func(v uint8) uint8 {
		n := int(v) + d
		if n < 0 {
			return 0
		}
		if n > 255 {
			return 255
		}
		return uint8(n)
	}
	return color.RGBA{ch(c.R), ch(c.G), ch(c.B), c.A}
}

func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func controlImage(c color.RGBA) *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:    solidNineSlice(c),
		Hover:   solidNineSlice(shade(c, 20)),
		Pressed: solidNineSlice(shade(c, -15)),
	}
}

// newViewerTheme styles the level panel: a left-aligned level list with a
// thin scrollbar, a compact button row and a wrapping status line.
func newViewerTheme(fontFace *text.Face) *widget.Theme {
	start := widget.TextPositionStart
	handleSize := 6

	return &widget.Theme{
		DefaultFace:      fontFace,
		DefaultTextColor: palette.text,
		ListTheme: &widget.ListParams{
			EntryFace: fontFace,
			EntryColor: &widget.ListEntryColor{
				Unselected:          palette.text,
				Selected:            palette.accent,
				DisabledUnselected:  palette.muted,
				DisabledSelected:    shade(palette.muted, -32),
				SelectingBackground: shade(palette.selected, 10),
				SelectedBackground:  palette.selected,
				FocusedBackground:   shade(palette.list, 12),
			},
			EntryTextPadding:            &widget.Insets{Left: 6, Right: 6, Top: 3, Bottom: 3},
			EntryTextHorizontalPosition: &start,
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: solidNineSlice(palette.list),
				Mask: solidNineSlice(palette.list),
			},
			Slider: &widget.SliderParams{
				TrackImage: &widget.SliderTrackImage{
					Idle:  solidNineSlice(shade(palette.list, 10)),
					Hover: solidNineSlice(shade(palette.list, 20)),
				},
				HandleImage:     controlImage(shade(palette.control, 30)),
				FixedHandleSize: &handleSize,
			},
		},
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(palette.panel),
		},
		LabelTheme: &widget.LabelParams{
			Face:  fontFace,
			Color: &widget.LabelColor{Idle: palette.accent, Disabled: palette.muted},
		},
		TextTheme: &widget.TextParams{
			Face:  fontFace,
			Color: palette.text,
		},
		ButtonTheme: &widget.ButtonParams{
			Image:       controlImage(palette.control),
			TextFace:    fontFace,
			TextPadding: &widget.Insets{Left: 6, Right: 6, Top: 4, Bottom: 4},
			TextColor: &widget.ButtonTextColor{
				Idle:     palette.text,
				Disabled: palette.muted,
			},
		},
	}
}
