package app

import (
	"image"
	"image/color"
	"math"
)

// compassNames are the 16 wind directions, clockwise from north.
var compassNames = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// compassName returns the 16-wind compass name for an azimuth in degrees.
func compassName(azimuth float64) string {
	i := int(math.Mod(math.Mod(azimuth, 360)+371.25, 360) / 22.5)
	return compassNames[i%len(compassNames)]
}

// chartPoint projects an azimuth/elevation pair onto chart pixels.
// Azimuth 0 is north (up), increasing clockwise; elevation 90 maps to the
// chart center, elevation 0 to the horizon ring at the given radius.
func chartPoint(azimuth, elevation float64, center image.Point, radius float64) image.Point {
	if elevation < 0 {
		elevation = 0
	} else if elevation > 90 {
		elevation = 90
	}

	r := (90 - elevation) / 90 * radius
	rad := azimuth * math.Pi / 180
	return image.Point{
		X: center.X + int(math.Round(r*math.Sin(rad))),
		Y: center.Y - int(math.Round(r*math.Cos(rad))),
	}
}

// drawCircle draws a one pixel circle outline.
func drawCircle(img *image.RGBA, center image.Point, radius float64, c color.Color) {
	steps := int(2 * math.Pi * radius)
	if steps < 16 {
		steps = 16
	}
	for i := 0; i < steps; i++ {
		theta := float64(i) / float64(steps) * 2 * math.Pi
		x := center.X + int(math.Round(radius*math.Cos(theta)))
		y := center.Y + int(math.Round(radius*math.Sin(theta)))
		img.Set(x, y, c)
	}
}

// drawDisc draws a filled circle.
func drawDisc(img *image.RGBA, center image.Point, radius int, c color.Color) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				img.Set(center.X+dx, center.Y+dy, c)
			}
		}
	}
}

// drawLine draws a straight segment of the given thickness.
func drawLine(img *image.RGBA, from, to image.Point, thickness int, c color.Color) {
	dx := to.X - from.X
	dy := to.Y - from.Y

	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		drawDisc(img, from, thickness/2, c)
		return
	}

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := image.Point{
			X: from.X + int(math.Round(float64(dx)*t)),
			Y: from.Y + int(math.Round(float64(dy)*t)),
		}
		drawDisc(img, p, thickness/2, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
