package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Choertbaden/sattrack/internal/sat/predict"
)

const (
	dpi      = 120.0
	fontSize = 12.0

	trackWidth   = 3
	markerRadius = 5

	// Default border sizes in pixels
	defaultTopBorder    = 60
	defaultSideBorder   = 40
	defaultBottomBorder = 50

	// Space between the horizon ring and the chart edge, reserved for
	// compass labels
	compassMargin = 30.0

	defaultTimeFormat     = "15:04:05"
	defaultDatetimeFormat = time.DateTime
)

var (
	ringColor   = color.RGBA{R: 0xb4, G: 0xb4, B: 0xb4, A: 0xff}
	crossColor  = color.RGBA{R: 0xdc, G: 0xdc, B: 0xdc, A: 0xff}
	markerColor = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
)

// BorderConfig defines the sizes of white space around the chart
type BorderConfig struct {
	Top    int // Space for the title
	Left   int
	Bottom int // Space for information bar
	Right  int
}

// RenderConfig holds all configuration options for sky chart rendering
type RenderConfig struct {
	// Time display configuration
	TimeFormat     string         // Format string for time display (e.g. "15:04:05")
	DatetimeFormat string         // Format string for date/time display
	Location       *time.Location // Timezone for time display

	// Visual configuration
	Size       int        // Chart diameter in pixels
	FontSize   float64    // Font size in points
	ColorTheme ColorTheme // Color scheme for track elevation

	// Border configuration
	BorderConfig BorderConfig
}

// PassRenderer draws satellite passes as polar sky charts: azimuth maps to
// the compass angle and elevation to the radius, with the zenith at the
// chart center and the horizon at the outer ring.
type PassRenderer struct {
	colorMap *ColorMapper
	config   RenderConfig
}

// NewPassRenderer creates a new pass renderer with the given configuration
func NewPassRenderer(config RenderConfig) (*PassRenderer, error) {
	// Set defaults for zero values
	if config.TimeFormat == "" {
		config.TimeFormat = defaultTimeFormat
	}
	if config.DatetimeFormat == "" {
		config.DatetimeFormat = defaultDatetimeFormat
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Size == 0 {
		config.Size = defaultChartSize
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultSideBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultSideBorder
	}

	return &PassRenderer{
		colorMap: NewColorMapper(config.ColorTheme),
		config:   config,
	}, nil
}

// Render creates an image of one pass with annotations
func (r *PassRenderer) Render(satellite string, number int, pass predict.Pass) (*image.RGBA, error) {
	if len(pass.Points) == 0 {
		return nil, fmt.Errorf("pass %d has no track points", number)
	}

	// Create image with space for borders
	fullWidth := r.config.Size + r.config.BorderConfig.Left + r.config.BorderConfig.Right
	fullHeight := r.config.Size + r.config.BorderConfig.Top + r.config.BorderConfig.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	// Fill with white background
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	center := image.Point{
		X: r.config.BorderConfig.Left + r.config.Size/2,
		Y: r.config.BorderConfig.Top + r.config.Size/2,
	}
	radius := float64(r.config.Size)/2 - compassMargin

	r.drawGrid(img, center, radius)
	r.drawTrack(img, center, radius, pass)

	// Create annotator for drawing labels and the info bar
	ann, err := newAnnotator(annotatorConfig{
		TimeFormat:     r.config.TimeFormat,
		DatetimeFormat: r.config.DatetimeFormat,
		Location:       r.config.Location,
		FontSize:       r.config.FontSize,
		Borders:        r.config.BorderConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()

	if err = ann.annotate(img, center, radius, satellite, number, pass); err != nil {
		return nil, fmt.Errorf("drawing annotations: %w", err)
	}

	return img, nil
}

// drawGrid draws the cardinal cross and the 0/30/60 degree elevation rings
func (r *PassRenderer) drawGrid(img *image.RGBA, center image.Point, radius float64) {
	for _, azimuth := range []float64{0, 90, 180, 270} {
		drawLine(img, center, chartPoint(azimuth, 0, center, radius), 1, crossColor)
	}
	for _, elevation := range []float64{0, 30, 60} {
		drawCircle(img, center, (90-elevation)/90*radius, ringColor)
	}
}

// drawTrack draws the pass polyline colored by elevation, a filled disc at
// the acquisition point and an open circle at the loss point
func (r *PassRenderer) drawTrack(img *image.RGBA, center image.Point, radius float64, pass predict.Pass) {
	points := pass.Points

	prev := chartPoint(points[0].Azimuth, points[0].Elevation, center, radius)
	for _, p := range points[1:] {
		cur := chartPoint(p.Azimuth, p.Elevation, center, radius)
		drawLine(img, prev, cur, trackWidth, r.colorMap.GetColor(p.Elevation))
		prev = cur
	}

	first, last := points[0], points[len(points)-1]
	drawDisc(img, chartPoint(first.Azimuth, first.Elevation, center, radius), markerRadius, markerColor)

	los := chartPoint(last.Azimuth, last.Elevation, center, radius)
	drawCircle(img, los, markerRadius, markerColor)
	drawCircle(img, los, markerRadius-1, markerColor)
}

// Internal annotator implementation
type annotatorConfig struct {
	TimeFormat     string
	DatetimeFormat string
	Location       *time.Location
	FontSize       float64
	Borders        BorderConfig
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(config annotatorConfig) (*annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, center image.Point, radius float64, satellite string, number int, pass predict.Pass) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	if err := a.drawTitle(img, satellite, number); err != nil {
		return fmt.Errorf("drawing title: %w", err)
	}
	if err := a.drawCompassLabels(center, radius); err != nil {
		return fmt.Errorf("drawing compass labels: %w", err)
	}
	if err := a.drawElevationLabels(center, radius); err != nil {
		return fmt.Errorf("drawing elevation labels: %w", err)
	}
	if err := a.drawMarkerLabels(center, radius, pass); err != nil {
		return fmt.Errorf("drawing marker labels: %w", err)
	}
	if err := a.drawInfoBar(img, pass); err != nil {
		return fmt.Errorf("drawing info bar: %w", err)
	}

	return nil
}

func (a *annotator) drawTitle(img *image.RGBA, satellite string, number int) error {
	title := fmt.Sprintf("%s, %s pass", satellite, humanize.Ordinal(number))

	// Get actual font height in pixels
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	// Center the title in the top border
	width := font.MeasureString(a.fontFace, title)
	x := (img.Bounds().Dx() - width.Round()) / 2
	y := (a.config.Borders.Top+fontHeight)/2 - metrics.Descent.Round()

	_, err := a.context.DrawString(title, freetype.Pt(x, y))
	return err
}

func (a *annotator) drawCompassLabels(center image.Point, radius float64) error {
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	labels := []struct {
		azimuth float64
		name    string
	}{
		{0, "N"}, {90, "E"}, {180, "S"}, {270, "W"},
	}
	for _, l := range labels {
		// Center the label halfway into the compass margin
		p := chartPoint(l.azimuth, 0, center, radius+compassMargin/2)
		width := font.MeasureString(a.fontFace, l.name)

		x := p.X - width.Round()/2
		y := p.Y + fontHeight/2 - metrics.Descent.Round()
		if _, err := a.context.DrawString(l.name, freetype.Pt(x, y)); err != nil {
			return err
		}
	}
	return nil
}

func (a *annotator) drawElevationLabels(center image.Point, radius float64) error {
	for _, elevation := range []float64{30, 60} {
		p := chartPoint(0, elevation, center, radius)
		label := fmt.Sprintf("%.0f°", elevation)
		if _, err := a.context.DrawString(label, freetype.Pt(p.X+4, p.Y-4)); err != nil {
			return err
		}
	}
	return nil
}

func (a *annotator) drawMarkerLabels(center image.Point, radius float64, pass predict.Pass) error {
	first := pass.Points[0]
	last := pass.Points[len(pass.Points)-1]

	aos := chartPoint(first.Azimuth, first.Elevation, center, radius)
	los := chartPoint(last.Azimuth, last.Elevation, center, radius)

	aosLabel := fmt.Sprintf("AOS %s", pass.AOS.In(a.config.Location).Format(a.config.TimeFormat))
	if _, err := a.context.DrawString(aosLabel, freetype.Pt(aos.X+markerRadius+4, aos.Y+4)); err != nil {
		return err
	}

	losLabel := fmt.Sprintf("LOS %s", pass.LOS.In(a.config.Location).Format(a.config.TimeFormat))
	_, err := a.context.DrawString(losLabel, freetype.Pt(los.X+markerRadius+4, los.Y+4))
	return err
}

func (a *annotator) drawInfoBar(img *image.RGBA, pass predict.Pass) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Time: %s - %s",
		pass.AOS.In(a.config.Location).Format(a.config.DatetimeFormat),
		pass.LOS.In(a.config.Location).Format(a.config.TimeFormat)))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Duration: %s", pass.Duration().Round(time.Second)))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Max: %.0f° at %s",
		pass.MaxElevation,
		pass.MaxElevationAt.In(a.config.Location).Format(a.config.TimeFormat)))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Closest: %s", formatRange(closestRangeKm(pass))))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("%s to %s", compassName(pass.AOSAzimuth()), compassName(pass.LOSAzimuth())))

	// Center text vertically in bottom border
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := img.Bounds().Max.Y - (a.config.Borders.Bottom-fontHeight)/2 - metrics.Descent.Round()

	_, err := a.context.DrawString(sb.String(), freetype.Pt(a.config.Borders.Left, textY))
	return err
}

// Helper functions

func closestRangeKm(pass predict.Pass) float64 {
	closest := pass.Points[0].RangeKm
	for _, p := range pass.Points[1:] {
		if p.RangeKm < closest {
			closest = p.RangeKm
		}
	}
	return closest
}

func formatRange(km float64) string {
	fract, suffix := humanize.ComputeSI(km * 1000)
	return fmt.Sprintf("%.0f %sm", fract, suffix)
}
