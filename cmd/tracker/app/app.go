package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Choertbaden/sattrack/internal/journal"
	"github.com/Choertbaden/sattrack/internal/metrics"
	"github.com/Choertbaden/sattrack/internal/notify"
	"github.com/Choertbaden/sattrack/internal/rotator"
	"github.com/Choertbaden/sattrack/internal/sat"
	"github.com/Choertbaden/sattrack/internal/sat/n2yo"
	"github.com/Choertbaden/sattrack/internal/sat/predict"
	"github.com/Choertbaden/sattrack/internal/tracker"
)

// Run wires the configured source, serial channel, notifier, journal
// and metrics into a tracker and drives it until ctx is cancelled.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	runID := uuid.NewString()
	satName := satelliteName(config)

	logger.Info("starting satellite tracker",
		slog.String("runId", runID),
		slog.String("satellite", satName),
		slog.Int("noradId", config.Satellite.ID),
		slog.String("source", string(config.Source.Type)))

	observer := sat.Observer{
		Latitude:  config.Observer.Latitude,
		Longitude: config.Observer.Longitude,
		Altitude:  config.Observer.Altitude,
	}

	source, err := createSource(config, observer)
	if err != nil {
		return fmt.Errorf("creating position source: %w", err)
	}

	channel, err := openChannel(&config.Device, logger)
	if err != nil {
		return err
	}
	defer channel.Close()

	opts := []func(t *tracker.Tracker){
		tracker.WithLogger(logger),
		tracker.WithNotifier(createNotifier(&config.Notify, logger)),
	}

	if config.Journal.Enabled {
		j, sessionID, err := createJournal(config, runID, satName, logger)
		if err != nil {
			return fmt.Errorf("creating journal: %w", err)
		}
		defer j.Close()
		defer func() {
			if _, err := j.AppendEvent(sessionID, journal.EventSessionEnded, ""); err != nil {
				logger.Warn(fmt.Sprintf("recording session end: %s", err.Error()))
			}
		}()

		opts = append(opts, tracker.WithJournal(j, sessionID))
	}

	if config.Metrics.Enabled {
		collector, err := metrics.NewCollector(nil)
		if err != nil {
			return fmt.Errorf("creating metrics collector: %w", err)
		}
		serveMetrics(ctx, config.Metrics.Listen, collector.Handler(), logger)

		opts = append(opts, tracker.WithMetrics(collector))
	}

	tr := tracker.New(source, channel, observer, tracker.Policy{
		MaxRetries:     config.Tracking.MaxRetries,
		RetryInterval:  config.Tracking.RetryInterval(),
		UpdateInterval: config.Tracking.UpdateInterval(),
		RehomeAfter:    config.Tracking.RehomeAfterErrors,
	}, opts...)

	if err = tr.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("tracker stopped")
	return nil
}

// satelliteName resolves the display name from the configuration or
// the catalog.
func satelliteName(config *Config) string {
	if config.Satellite.Name != "" {
		return config.Satellite.Name
	}
	return sat.DisplayName(config.Satellite.ID)
}

func createSource(config *Config, observer sat.Observer) (sat.Source, error) {
	switch config.Source.Type {
	case SourceN2YO:
		return n2yo.New(n2yo.Config{
			APIKey:   config.Source.N2YO.APIKey,
			NoradID:  config.Satellite.ID,
			Observer: observer,
			BaseURL:  config.Source.N2YO.BaseURL,
			Timeout:  config.Source.N2YO.Timeout(),
		})

	case SourceTLE:
		tles, err := predict.LoadFile(config.Source.TLE.Path)
		if err != nil {
			return nil, err
		}
		t, err := predict.Find(tles, config.Satellite.Name, config.Satellite.ID)
		if err != nil {
			return nil, err
		}
		return predict.New(t, observer)

	default:
		return nil, fmt.Errorf("unknown source type '%s'", config.Source.Type)
	}
}

// openChannel opens the rotator serial port, listing the ports the
// system does expose when the configured one cannot be opened.
func openChannel(config *DeviceConfig, logger *slog.Logger) (rotator.Channel, error) {
	channel, err := rotator.Open(rotator.Config{
		Port:        config.Port,
		BaudRate:    config.BaudRate,
		ReadTimeout: config.ReadTimeout(),
		SettleDelay: config.Settle(),
	})
	if err != nil {
		if ports, listErr := rotator.ListPorts(); listErr == nil && len(ports) > 0 {
			logger.Info("available serial ports", slog.String("ports", strings.Join(ports, ", ")))
		}
		return nil, fmt.Errorf("opening device channel: %w", err)
	}
	return channel, nil
}

func createNotifier(config *NotifyConfig, logger *slog.Logger) notify.Notifier {
	if config.Mode == NotifyPrompt {
		return notify.NewPrompt(os.Stdin, os.Stdout, config.MaxPause())
	}
	return notify.NewLog(logger)
}

func createJournal(config *Config, runID, satName string, logger *slog.Logger) (*journal.Journal, int64, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get current working directory: %w", err)
	}

	dir := filepath.Join(wd, config.Journal.DataDirectory)
	stat, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("journal directory '%s' does not exist: %w", dir, err)
		}
		return nil, 0, fmt.Errorf("checking journal directory '%s': %w", dir, err)
	}
	if !stat.IsDir() {
		return nil, 0, fmt.Errorf("invalid journal directory '%s'", dir)
	}

	j, err := journal.New(filepath.Join(dir, journal.Filename))
	if err != nil {
		return nil, 0, err
	}

	sessionID, err := j.CreateSession(runID, satName, string(config.Source.Type), config.Device.Port, config.Redacted())
	if err != nil {
		_ = j.Close()
		return nil, 0, fmt.Errorf("creating session: %w", err)
	}

	if sessions, err := j.Sessions(); err == nil && len(sessions) > 1 {
		logger.Info("journal opened", slog.Int("previousSessions", len(sessions)-1))
	}
	return j, sessionID, nil
}

// serveMetrics exposes the /metrics endpoint until ctx is cancelled.
func serveMetrics(ctx context.Context, listen string, handler http.Handler, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{Addr: listen, Handler: mux}

	go func() {
		logger.Info("metrics listening", slog.String("address", listen))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(fmt.Sprintf("metrics server: %s", err.Error()))
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
