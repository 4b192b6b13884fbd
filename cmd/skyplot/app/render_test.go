package app

import (
	"testing"
	"time"

	"github.com/Choertbaden/sattrack/internal/sat/predict"
)

func testPass() predict.Pass {
	aos := time.Date(2008, 9, 20, 12, 30, 0, 0, time.UTC)

	points := []predict.PassPoint{
		{Time: aos, Azimuth: 200, Elevation: 1, RangeKm: 2100},
		{Time: aos.Add(2 * time.Minute), Azimuth: 240, Elevation: 25, RangeKm: 1200},
		{Time: aos.Add(4 * time.Minute), Azimuth: 280, Elevation: 62, RangeKm: 650},
		{Time: aos.Add(6 * time.Minute), Azimuth: 320, Elevation: 30, RangeKm: 1100},
		{Time: aos.Add(8 * time.Minute), Azimuth: 350, Elevation: 2, RangeKm: 2000},
	}

	return predict.Pass{
		AOS:            aos,
		LOS:            points[len(points)-1].Time,
		MaxElevation:   62,
		MaxElevationAt: points[2].Time,
		Points:         points,
	}
}

func TestPassRenderer_Render(t *testing.T) {
	renderer, err := NewPassRenderer(RenderConfig{
		Size:     400,
		Location: time.UTC,
	})
	if err != nil {
		t.Fatalf("NewPassRenderer: %v", err)
	}

	img, err := renderer.Render("ISS (ZARYA)", 2, testPass())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	wantWidth := 400 + 2*defaultSideBorder
	wantHeight := 400 + defaultTopBorder + defaultBottomBorder
	if got := img.Bounds().Dx(); got != wantWidth {
		t.Errorf("width = %d, want %d", got, wantWidth)
	}
	if got := img.Bounds().Dy(); got != wantHeight {
		t.Errorf("height = %d, want %d", got, wantHeight)
	}

	var colored int
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R != 0xff || c.G != 0xff || c.B != 0xff {
				colored++
			}
		}
	}
	if colored < 1000 {
		t.Errorf("colored %d pixels, want at least 1000", colored)
	}
}

func TestPassRenderer_Render_NoPoints(t *testing.T) {
	renderer, err := NewPassRenderer(RenderConfig{})
	if err != nil {
		t.Fatalf("NewPassRenderer: %v", err)
	}

	if _, err = renderer.Render("ISS (ZARYA)", 1, predict.Pass{}); err == nil {
		t.Fatal("Render accepted a pass without track points")
	}
}

func TestClosestRangeKm(t *testing.T) {
	if got := closestRangeKm(testPass()); got != 650 {
		t.Errorf("closestRangeKm = %v, want 650", got)
	}
}

func TestFormatRange(t *testing.T) {
	tests := []struct {
		km   float64
		want string
	}{
		{650, "650 km"},
		{0.5, "500 m"},
		{1500, "2 Mm"},
	}

	for _, tt := range tests {
		if got := formatRange(tt.km); got != tt.want {
			t.Errorf("formatRange(%v) = %q, want %q", tt.km, got, tt.want)
		}
	}
}
