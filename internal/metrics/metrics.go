// Package metrics bundles Prometheus instrumentation for the tracking
// loop and exposes it as an HTTP handler.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the tracker's Prometheus metrics. All recorder
// methods are nil-safe, so a tracker built without metrics skips
// instrumentation without guarding every call site.
type Collector struct {
	gatherer prometheus.Gatherer

	Fetches      *prometheus.CounterVec
	FetchSeconds prometheus.Histogram

	Feedback      *prometheus.CounterVec
	Notifications *prometheus.CounterVec

	HomeConfirmed prometheus.Gauge
}

// NewCollector registers tracker metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sattrack_fetches_total",
		Help: "Position fetches by result status (ok, empty, error).",
	}, []string{"status"})
	fetches, err := registerCounterVec(reg, fetches, "sattrack_fetches_total")
	if err != nil {
		return nil, err
	}

	fetchSeconds, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sattrack_fetch_duration_seconds",
		Help:    "Position fetch latency in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}), "sattrack_fetch_duration_seconds")
	if err != nil {
		return nil, err
	}

	feedback := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sattrack_feedback_total",
		Help: "Device feedback lines by parse result (ok, malformed).",
	}, []string{"result"})
	feedback, err = registerCounterVec(reg, feedback, "sattrack_feedback_total")
	if err != nil {
		return nil, err
	}

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sattrack_notifications_total",
		Help: "Operator notifications by kind.",
	}, []string{"kind"})
	notifications, err = registerCounterVec(reg, notifications, "sattrack_notifications_total")
	if err != nil {
		return nil, err
	}

	homeConfirmed, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sattrack_home_confirmed",
		Help: "Whether the rotator has confirmed its home position (0 or 1).",
	}), "sattrack_home_confirmed")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		Fetches:       fetches,
		FetchSeconds:  fetchSeconds,
		Feedback:      feedback,
		Notifications: notifications,
		HomeConfirmed: homeConfirmed,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveFetch records one position fetch with its result status and
// duration.
func (c *Collector) ObserveFetch(status string, seconds float64) {
	if c == nil {
		return
	}
	if c.Fetches != nil {
		c.Fetches.WithLabelValues(status).Inc()
	}
	if c.FetchSeconds != nil {
		c.FetchSeconds.Observe(seconds)
	}
}

// CountFeedback records one device feedback line by parse result.
func (c *Collector) CountFeedback(result string) {
	if c == nil || c.Feedback == nil {
		return
	}
	c.Feedback.WithLabelValues(result).Inc()
}

// CountNotification records one operator notification by kind.
func (c *Collector) CountNotification(kind string) {
	if c == nil || c.Notifications == nil {
		return
	}
	c.Notifications.WithLabelValues(kind).Inc()
}

// SetHomeConfirmed reflects whether the device last confirmed its home
// position.
func (c *Collector) SetHomeConfirmed(confirmed bool) {
	if c == nil || c.HomeConfirmed == nil {
		return
	}
	if confirmed {
		c.HomeConfirmed.Set(1)
		return
	}
	c.HomeConfirmed.Set(0)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
