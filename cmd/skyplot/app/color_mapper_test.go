package app

import (
	"image/color"
	"testing"
)

func TestNewColorMapper_Themes(t *testing.T) {
	for theme := range validThemes {
		t.Run(string(theme), func(t *testing.T) {
			cm := NewColorMapper(theme)
			if cm.ThemeName() != theme {
				t.Errorf("ThemeName() = %q, want %q", cm.ThemeName(), theme)
			}

			for _, elevation := range []float64{0, 45, 90} {
				_, _, _, alpha := cm.GetColor(elevation).RGBA()
				if alpha != 0xffff {
					t.Errorf("GetColor(%v) alpha = %#x, want opaque", elevation, alpha)
				}
			}
		})
	}
}

func TestColorMapper_GetColor(t *testing.T) {
	cm := NewColorMapper(GrayscaleTheme)

	if got, want := cm.GetColor(0), (color.RGBA{A: 255}); got != want {
		t.Errorf("GetColor(0) = %v, want %v", got, want)
	}
	if got, want := cm.GetColor(90), (color.RGBA{R: 255, G: 255, B: 255, A: 255}); got != want {
		t.Errorf("GetColor(90) = %v, want %v", got, want)
	}

	// Out of range elevations clamp to the gradient ends
	if got, want := cm.GetColor(-15), cm.GetColor(0); got != want {
		t.Errorf("GetColor(-15) = %v, want %v", got, want)
	}
	if got, want := cm.GetColor(120), cm.GetColor(90); got != want {
		t.Errorf("GetColor(120) = %v, want %v", got, want)
	}
}
