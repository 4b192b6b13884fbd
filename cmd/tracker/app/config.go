package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Choertbaden/sattrack/internal/rotator"
	"github.com/Choertbaden/sattrack/internal/sat"
	"github.com/Choertbaden/sattrack/internal/sat/n2yo"
	"github.com/Choertbaden/sattrack/internal/tracker"
)

const (
	SourceN2YO SourceType = "n2yo"
	SourceTLE  SourceType = "tle"
)

type SourceType string

const (
	NotifyLog    NotifyMode = "log"
	NotifyPrompt NotifyMode = "prompt"
)

type NotifyMode string

// Config represents the main application configuration
type Config struct {
	Settings  Settings        `yaml:"settings"`
	Satellite SatelliteConfig `yaml:"satellite"`
	Observer  ObserverConfig  `yaml:"observer"`
	Source    SourceConfig    `yaml:"source"`
	Device    DeviceConfig    `yaml:"device"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	Notify    NotifyConfig    `yaml:"notify"`
	Journal   JournalConfig   `yaml:"journal"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// SatelliteConfig selects the satellite to track. A name known to the
// catalog may stand in for the NORAD id.
type SatelliteConfig struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// ObserverConfig is the ground station location.
type ObserverConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Altitude  float64 `yaml:"altitude"`
}

// SourceConfig selects and configures the position source.
type SourceConfig struct {
	Type SourceType `yaml:"type"`
	N2YO N2YOConfig `yaml:"n2yo"`
	TLE  TLEConfig  `yaml:"tle"`
}

type N2YOConfig struct {
	APIKey         string `yaml:"apiKey"`
	BaseURL        string `yaml:"baseUrl"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

func (c N2YOConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type TLEConfig struct {
	Path string `yaml:"path"`
}

// DeviceConfig represents the rotator serial connection
type DeviceConfig struct {
	Port               string `yaml:"port"`
	BaudRate           int    `yaml:"baudRate"`
	ReadTimeoutSeconds int    `yaml:"readTimeoutSeconds"`
	SettleSeconds      int    `yaml:"settleSeconds"`
}

func (c DeviceConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c DeviceConfig) Settle() time.Duration {
	return time.Duration(c.SettleSeconds) * time.Second
}

// TrackingConfig paces the tracking loop.
type TrackingConfig struct {
	UpdateIntervalSeconds int `yaml:"updateIntervalSeconds"`
	RetryIntervalSeconds  int `yaml:"retryIntervalSeconds"`
	MaxRetries            int `yaml:"maxRetries"`
	RehomeAfterErrors     int `yaml:"rehomeAfterErrors"`
}

func (c TrackingConfig) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalSeconds) * time.Second
}

func (c TrackingConfig) RetryInterval() time.Duration {
	return time.Duration(c.RetryIntervalSeconds) * time.Second
}

// NotifyConfig selects how the operator is notified.
type NotifyConfig struct {
	Mode            NotifyMode `yaml:"mode"`
	MaxPauseSeconds int        `yaml:"maxPauseSeconds"`
}

func (c NotifyConfig) MaxPause() time.Duration {
	return time.Duration(c.MaxPauseSeconds) * time.Second
}

// JournalConfig represents session journal settings
type JournalConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DataDirectory string `yaml:"dataDirectory"`
}

// MetricsConfig represents the metrics endpoint settings
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// LoadConfig reads, defaults and validates the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	config := &Config{}
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	config.applyDefaults()
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = "info"
	}

	if c.Satellite.ID == 0 {
		if s, ok := sat.ByName(c.Satellite.Name); ok {
			c.Satellite.ID = s.NoradID
		} else {
			c.Satellite.ID = sat.DefaultNoradID
		}
	}

	if c.Source.Type == "" {
		c.Source.Type = SourceN2YO
	}
	if c.Source.N2YO.BaseURL == "" {
		c.Source.N2YO.BaseURL = n2yo.DefaultBaseURL
	}
	if c.Source.N2YO.TimeoutSeconds <= 0 {
		c.Source.N2YO.TimeoutSeconds = int(n2yo.DefaultTimeout / time.Second)
	}

	if c.Device.BaudRate <= 0 {
		c.Device.BaudRate = rotator.DefaultBaudRate
	}
	if c.Device.ReadTimeoutSeconds <= 0 {
		c.Device.ReadTimeoutSeconds = int(rotator.DefaultReadTimeout / time.Second)
	}
	if c.Device.SettleSeconds <= 0 {
		c.Device.SettleSeconds = int(rotator.DefaultSettleDelay / time.Second)
	}

	if c.Tracking.UpdateIntervalSeconds <= 0 {
		c.Tracking.UpdateIntervalSeconds = int(tracker.DefaultUpdateInterval / time.Second)
	}
	if c.Tracking.RetryIntervalSeconds <= 0 {
		c.Tracking.RetryIntervalSeconds = int(tracker.DefaultRetryInterval / time.Second)
	}
	if c.Tracking.MaxRetries <= 0 {
		c.Tracking.MaxRetries = tracker.DefaultMaxRetries
	}

	if c.Notify.Mode == "" {
		c.Notify.Mode = NotifyLog
	}
	if c.Notify.MaxPauseSeconds <= 0 {
		c.Notify.MaxPauseSeconds = 300
	}

	if c.Journal.DataDirectory == "" {
		c.Journal.DataDirectory = "data"
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9090"
	}
}

// Validate reports the first configuration problem as a ConfigError.
func (c *Config) Validate() error {
	var level slog.LevelVar
	if err := level.UnmarshalText([]byte(c.Settings.LogLevel)); err != nil {
		return NewConfigError(fmt.Sprintf("invalid log level '%s'", c.Settings.LogLevel))
	}

	if c.Observer.Latitude < -90 || c.Observer.Latitude > 90 {
		return NewConfigError(fmt.Sprintf("observer latitude %f out of range [-90, 90]", c.Observer.Latitude))
	}
	if c.Observer.Longitude < -180 || c.Observer.Longitude > 180 {
		return NewConfigError(fmt.Sprintf("observer longitude %f out of range [-180, 180]", c.Observer.Longitude))
	}

	switch c.Source.Type {
	case SourceN2YO:
		if c.Source.N2YO.APIKey == "" {
			return NewConfigError("source.n2yo.apiKey is required for the n2yo source")
		}
	case SourceTLE:
		if c.Source.TLE.Path == "" {
			return NewConfigError("source.tle.path is required for the tle source")
		}
	default:
		return NewConfigError(fmt.Sprintf("unknown source type '%s'", c.Source.Type))
	}

	if c.Device.Port == "" {
		return NewConfigError("device.port is required")
	}

	if c.Notify.Mode != NotifyLog && c.Notify.Mode != NotifyPrompt {
		return NewConfigError(fmt.Sprintf("unknown notify mode '%s'", c.Notify.Mode))
	}
	return nil
}

// Redacted returns a copy of the configuration safe to persist in the
// journal: secrets are masked.
func (c Config) Redacted() Config {
	if c.Source.N2YO.APIKey != "" {
		c.Source.N2YO.APIKey = "REDACTED"
	}
	return c
}
