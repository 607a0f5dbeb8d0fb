package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// LabelAllTheme tints the default theme with the annotation red.
type LabelAllTheme struct{}

var _ fyne.Theme = (*LabelAllTheme)(nil)

func (t *LabelAllTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0xC6, G: 0x28, B: 0x28, A: 0xFF}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xC8, G: 0x00, B: 0x00, A: 0x40}
	case theme.ColorNameFocus:
		return color.NRGBA{R: 0xC6, G: 0x28, B: 0x28, A: 0x7F}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *LabelAllTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *LabelAllTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *LabelAllTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 14
	default:
		return theme.DefaultTheme().Size(name)
	}
}
