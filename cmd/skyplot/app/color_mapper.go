package app

import (
	"image/color"
	"math"
)

// ColorTheme represents a predefined color scheme for the track gradient.
// Each theme is optimized for different visualization needs:
// - ClassicTheme: Traditional spectrum display (blue to red)
// - GrayscaleTheme: Monochrome visualization
// - JungleTheme: Nature-inspired colors for better contrast
// - ThermalTheme: Heat map visualization
// - MarineTheme: Water-depth inspired colors
type ColorTheme string

const (
	ClassicTheme   ColorTheme = "classic"   // Blue to red transition
	GrayscaleTheme ColorTheme = "grayscale" // Black to white transition
	JungleTheme    ColorTheme = "jungle"    // Dark green to yellow transition
	ThermalTheme   ColorTheme = "thermal"   // Black to red to yellow to white
	MarineTheme    ColorTheme = "marine"    // Deep blue to cyan to white

	colorMapSize = 256
)

var validThemes = map[ColorTheme]struct{}{
	ClassicTheme:   {},
	GrayscaleTheme: {},
	JungleTheme:    {},
	ThermalTheme:   {},
	MarineTheme:    {},
}

// ColorMapper maps elevation angles to colors through a pre-computed
// gradient. The domain is the fixed [0, 90] degree range: the horizon maps
// to the cold end of the theme, the zenith to the hot end.
type ColorMapper struct {
	colorMap  []color.Color
	themeName ColorTheme
}

// NewColorMapper creates a color mapper for the given theme.
func NewColorMapper(theme ColorTheme) *ColorMapper {
	cm := &ColorMapper{
		colorMap:  make([]color.Color, colorMapSize),
		themeName: theme,
	}

	fn := getColorTheme(theme)
	for i := range cm.colorMap {
		cm.colorMap[i] = fn(float64(i) / float64(colorMapSize-1))
	}
	return cm
}

// GetColor returns a color for the given elevation in degrees.
func (cm *ColorMapper) GetColor(elevation float64) color.Color {
	index := int(elevation / 90 * float64(len(cm.colorMap)-1))

	// Clamp index to valid range
	if index < 0 {
		return cm.colorMap[0]
	}
	if index >= len(cm.colorMap) {
		return cm.colorMap[len(cm.colorMap)-1]
	}
	return cm.colorMap[index]
}

// ThemeName returns the current color theme name
func (cm *ColorMapper) ThemeName() ColorTheme {
	return cm.themeName
}

// HSV represents a color in HSV (Hue, Saturation, Value) color space
type HSV struct {
	H float64 // Hue angle in degrees [0-360]
	S float64 // Saturation [0-1]
	V float64 // Value/Brightness [0-1]
}

// RGB converts HSV to RGB color space efficiently
func (hsv HSV) RGB() color.Color {
	// Fast path for grayscale
	if hsv.S <= 0.0 {
		v := uint8(hsv.V * 255)
		return color.RGBA{R: v, G: v, B: v, A: 255}
	}

	// Normalize hue to [0-6)
	h := hsv.H
	if h >= 360 {
		h -= 360
	}
	h /= 60

	// Calculate color components
	i := int(h)
	f := h - float64(i)

	v := uint8(hsv.V * 255)
	p := uint8((hsv.V * (1 - hsv.S)) * 255)
	q := uint8((hsv.V * (1 - (hsv.S * f))) * 255)
	t := uint8((hsv.V * (1 - (hsv.S * (1 - f)))) * 255)

	switch i {
	case 0:
		return color.RGBA{R: v, G: t, B: p, A: 255}
	case 1:
		return color.RGBA{R: q, G: v, B: p, A: 255}
	case 2:
		return color.RGBA{R: p, G: v, B: t, A: 255}
	case 3:
		return color.RGBA{R: p, G: q, B: v, A: 255}
	case 4:
		return color.RGBA{R: t, G: p, B: v, A: 255}
	default: // case 5:
		return color.RGBA{R: v, G: p, B: q, A: 255}
	}
}

// Color theme implementations
func getColorTheme(theme ColorTheme) func(float64) color.Color {
	switch theme {
	case GrayscaleTheme:
		return func(v float64) color.Color {
			g := uint8(math.Pow(v, 0.7) * 255)
			return color.RGBA{R: g, G: g, B: g, A: 255}
		}

	case JungleTheme:
		return func(v float64) color.Color {
			return HSV{
				H: 120 - (v * 60),
				S: 1.0,
				V: 0.3 + (math.Pow(v, 0.6) * 0.7),
			}.RGB()
		}

	case ThermalTheme:
		return func(v float64) color.Color {
			if v < 0.33 {
				return color.RGBA{
					R: uint8((v * 3) * 255),
					A: 255,
				}
			}
			if v < 0.66 {
				return color.RGBA{
					R: 255,
					G: uint8(((v - 0.33) * 3) * 255),
					A: 255,
				}
			}
			return color.RGBA{
				R: 255,
				G: 255,
				B: uint8(((v - 0.66) * 3) * 255),
				A: 255,
			}
		}

	case MarineTheme:
		return func(v float64) color.Color {
			return HSV{
				H: 240 - (v * 60),
				S: 1.0 - (v * 0.8),
				V: 0.3 + (math.Pow(v, 0.6) * 0.7),
			}.RGB()
		}

	default: // ClassicTheme
		return func(v float64) color.Color {
			return HSV{
				H: 240 - (v * 240),
				S: 0.9 + (v * 0.1),
				V: 0.35 + (math.Pow(v, 0.7) * 0.65),
			}.RGB()
		}
	}
}
