package app

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Choertbaden/sattrack/internal/sat"
	"github.com/Choertbaden/sattrack/internal/sat/predict"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	tles, err := predict.LoadFile(config.TLEPath)
	if err != nil {
		return err
	}

	tle, err := predict.Find(tles, config.Satellite, 0)
	if err != nil {
		return err
	}

	observer := sat.Observer{
		Latitude:  config.Latitude,
		Longitude: config.Longitude,
		Altitude:  config.Altitude,
	}
	prop, err := predict.New(tle, observer)
	if err != nil {
		return err
	}

	logger.Info("predicting passes",
		slog.String("satellite", prop.Name()),
		slog.String("start", config.Start.UTC().Format(time.DateTime)),
		slog.Duration("window", config.Window),
		slog.Float64("minElevation", config.MinElevation))

	passes := prop.Passes(config.Start, config.Window, config.MinElevation, config.Step)
	if len(passes) == 0 {
		logger.Info("no passes found in window")
		return nil
	}

	renderer, err := NewPassRenderer(RenderConfig{
		Size:       config.Size,
		ColorTheme: config.Theme,
	})
	if err != nil {
		return fmt.Errorf("creating pass renderer: %w", err)
	}

	if err = os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for i, pass := range passes {
		if err = ctx.Err(); err != nil {
			return err
		}

		logger.Info("pass",
			slog.Int("number", i+1),
			slog.String("aos", pass.AOS.Local().Format(time.DateTime)),
			slog.String("los", pass.LOS.Local().Format(time.DateTime)),
			slog.Duration("duration", pass.Duration().Round(time.Second)),
			slog.String("maxElevation", fmt.Sprintf("%.1f°", pass.MaxElevation)),
			slog.String("direction", fmt.Sprintf("%s to %s",
				compassName(pass.AOSAzimuth()), compassName(pass.LOSAzimuth()))))

		img, err := renderer.Render(prop.Name(), i+1, pass)
		if err != nil {
			return fmt.Errorf("rendering pass %d: %w", i+1, err)
		}

		dest := filepath.Join(config.OutputDir, chartFilename(prop.Name(), i+1, pass.AOS))
		if err = savePNG(dest, img); err != nil {
			return fmt.Errorf("saving pass %d: %w", i+1, err)
		}

		logger.Info("chart saved", slog.String("destination", dest))
	}

	return nil
}

// chartFilename builds a stable output name from the satellite, the pass
// number and the acquisition time, e.g. iss-zarya-pass-02-20080920-1231.png.
func chartFilename(satellite string, number int, aos time.Time) string {
	return fmt.Sprintf("%s-pass-%02d-%s.png", slugify(satellite), number, aos.UTC().Format("20060102-1504"))
}

// slugify lowercases a satellite name and collapses anything outside
// [a-z0-9] into single dashes.
func slugify(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			dash = false
		default:
			if !dash && sb.Len() > 0 {
				sb.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

func savePNG(dest string, img image.Image) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if err = png.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
