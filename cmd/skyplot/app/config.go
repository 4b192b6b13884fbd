package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/Choertbaden/sattrack/internal/sat/predict"
)

const (
	defaultWindow       = 24 * time.Hour
	defaultMinElevation = 10.0
	defaultChartSize    = 800
	minChartSize        = 200
)

type Config struct {
	TLEPath      string
	Satellite    string
	Latitude     float64
	Longitude    float64
	Altitude     float64
	Start        time.Time
	Window       time.Duration
	MinElevation float64
	Step         time.Duration
	Theme        ColorTheme
	Size         int
	OutputDir    string
}

func NewConfig() *Config {
	return &Config{
		Window:       defaultWindow,
		MinElevation: defaultMinElevation,
		Step:         predict.DefaultPassStep,
		Theme:        ClassicTheme,
		Size:         defaultChartSize,
		OutputDir:    ".",
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var theme, start string
	flag.StringVar(&c.TLEPath, "tle", "", "Path to the TLE file")
	flag.StringVar(&c.Satellite, "sat", "", "Satellite name to select from the TLE file (substring match)")
	flag.Float64Var(&c.Latitude, "lat", 0, "Observer latitude in degrees")
	flag.Float64Var(&c.Longitude, "lon", 0, "Observer longitude in degrees")
	flag.Float64Var(&c.Altitude, "alt", 0, "Observer altitude in meters")
	flag.StringVar(&start, "start", "", "Window start in RFC 3339 format (default now)")
	flag.DurationVar(&c.Window, "window", c.Window, "Prediction window length")
	flag.Float64Var(&c.MinElevation, "min-elevation", c.MinElevation, "Drop passes culminating below this elevation in degrees")
	flag.DurationVar(&c.Step, "step", c.Step, "Sampling step along the orbit")
	flag.StringVar(&theme, "theme", string(ClassicTheme), "Color theme. [classic, grayscale, jungle, thermal, marine]")
	flag.IntVar(&c.Size, "size", c.Size, "Chart diameter in pixels")
	flag.StringVar(&c.OutputDir, "o", c.OutputDir, "Output directory for rendered charts")
	flag.Parse()

	theme = strings.ToLower(theme)

	var err error
	if c.TLEPath == "" {
		err = errors.New("tle path is required")
	} else if c.Latitude < -90 || c.Latitude > 90 {
		err = errors.New("latitude must be between -90 and 90")
	} else if c.Longitude < -180 || c.Longitude > 180 {
		err = errors.New("longitude must be between -180 and 180")
	} else if c.Window <= 0 {
		err = errors.New("window must be positive")
	} else if c.MinElevation < 0 || c.MinElevation >= 90 {
		err = errors.New("min elevation must be between 0 and 90")
	} else if c.Step <= 0 {
		err = errors.New("step must be positive")
	} else if c.Size < minChartSize {
		err = fmt.Errorf("size must be at least %d pixels", minChartSize)
	} else if _, ok := validThemes[ColorTheme(theme)]; !ok {
		err = fmt.Errorf("invalid color theme: %s", theme)
	}

	if err == nil {
		if start == "" {
			c.Start = time.Now()
		} else if c.Start, err = time.Parse(time.RFC3339, start); err != nil {
			err = fmt.Errorf("invalid start time '%s', expected RFC 3339", start)
		}
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Theme = ColorTheme(theme)
	return c, nil
}
