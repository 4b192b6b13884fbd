// Package tracker drives the rotator: it confirms the home position
// with the device, then relays satellite positions at a fixed cadence,
// absorbing transport failures with bounded retries and escalating
// repeated failures to the operator.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Choertbaden/sattrack/internal/journal"
	"github.com/Choertbaden/sattrack/internal/metrics"
	"github.com/Choertbaden/sattrack/internal/notify"
	"github.com/Choertbaden/sattrack/internal/rotator"
	"github.com/Choertbaden/sattrack/internal/sat"
)

// errHomeLost restarts the handshake after repeated channel errors.
var errHomeLost = errors.New("home position lost")

// Tracker owns the session state of one tracking run. It is not safe
// for concurrent use; Run is the single control flow.
type Tracker struct {
	source   sat.Source
	channel  rotator.Channel
	observer sat.Observer
	policy   Policy

	logger   *slog.Logger
	notifier notify.Notifier
	metrics  *metrics.Collector

	journal   *journal.Journal
	sessionID int64

	homeSet       bool
	retries       int
	restoredShown bool
	chanErrs      int
}

// New returns a tracker relaying positions from source to the device on
// channel. The observer fixes the home coordinates sent during the
// handshake.
func New(source sat.Source, channel rotator.Channel, observer sat.Observer, policy Policy, opts ...func(t *Tracker)) *Tracker {
	t := &Tracker{
		source:   source,
		channel:  channel,
		observer: observer,
		policy:   policy.withDefaults(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.notifier == nil {
		t.notifier = notify.NewLog(t.logger)
	}
	return t
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) func(t *Tracker) {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithNotifier sets the operator notifier. The default logs through the
// tracker's logger.
func WithNotifier(n notify.Notifier) func(t *Tracker) {
	return func(t *Tracker) {
		t.notifier = n
	}
}

// WithJournal records notable events against the given session.
func WithJournal(j *journal.Journal, sessionID int64) func(t *Tracker) {
	return func(t *Tracker) {
		t.journal = j
		t.sessionID = sessionID
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(c *metrics.Collector) func(t *Tracker) {
	return func(t *Tracker) {
		t.metrics = c
	}
}

// Run confirms the home position and then tracks until ctx is
// cancelled. Repeated channel errors (policy.RehomeAfter) fall back to
// the handshake; everything else is absorbed by the retry policy, so
// the only returned error is ctx's.
func (t *Tracker) Run(ctx context.Context) error {
	for {
		if !t.homeSet {
			if err := t.runHandshake(ctx); err != nil {
				return err
			}
		}

		err := t.runTracking(ctx)
		if errors.Is(err, errHomeLost) {
			continue
		}
		return err
	}
}

// runHandshake sends the HOME line until the device confirms with
// HOME_OK. Missing and unexpected replies count toward the retry
// threshold; channel errors pause a full interval without counting.
func (t *Tracker) runHandshake(ctx context.Context) error {
	t.retries = 0
	t.logger.Info("confirming home position",
		slog.Float64("latitude", t.observer.Latitude),
		slog.Float64("longitude", t.observer.Longitude))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := t.channel.WriteLine(rotator.HomeLine(t.observer.Latitude, t.observer.Longitude)); err != nil {
			t.logger.Error(fmt.Sprintf("writing home line: %s", err.Error()))
			if err = sleepCtx(ctx, t.policy.RetryInterval); err != nil {
				return err
			}
			continue
		}

		reply, ok, err := t.channel.ReadLine()
		if err != nil {
			t.logger.Error(fmt.Sprintf("reading home reply: %s", err.Error()))
			if err = sleepCtx(ctx, t.policy.RetryInterval); err != nil {
				return err
			}
			continue
		}

		if ok && reply == rotator.HomeOK {
			t.homeSet = true
			t.chanErrs = 0
			t.metrics.SetHomeConfirmed(true)
			t.journalEvent(journal.EventHandshakeConfirmed, "")
			t.logger.Info("home position confirmed")
			return nil
		}
		if ok {
			t.logger.Warn("unexpected home reply", slog.String("reply", reply))
		}

		t.retries++
		if t.retries >= t.policy.MaxRetries {
			t.retries = 0
			t.notifyUser(ctx, journal.EventDeviceUnresponsive, notify.Notification{
				Title:    "Device Error",
				Message:  fmt.Sprintf("device not responding after %d retries", t.policy.MaxRetries),
				Severity: notify.SeverityError,
			})
			continue
		}
		if err = sleepCtx(ctx, t.policy.RetryInterval); err != nil {
			return err
		}
	}
}

// runTracking relays one position per update interval. It returns
// errHomeLost when the channel error budget is spent, otherwise only
// ctx's error.
func (t *Tracker) runTracking(ctx context.Context) error {
	t.logger.Info("tracking started",
		slog.Duration("updateInterval", t.policy.UpdateInterval),
		slog.Int("maxRetries", t.policy.MaxRetries))

	for {
		t.retries = 0
		if err := t.trackOnce(ctx); err != nil {
			return err
		}
		if err := sleepCtx(ctx, t.policy.UpdateInterval); err != nil {
			return err
		}
	}
}

// trackOnce fetches until one position lands on the device, counting
// failures against the retry threshold.
func (t *Tracker) trackOnce(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		res := t.fetchPosition(ctx)
		if res.Status == sat.StatusOK {
			if err := t.relay(res.Position); err != nil {
				return err
			}
			if t.retries > 0 && !t.restoredShown {
				t.restoredShown = true
				t.notifyUser(ctx, journal.EventConnectionRestored, notify.Notification{
					Title:    "Connection Restored",
					Message:  "connection restored",
					Severity: notify.SeverityInfo,
				})
			}
			return nil
		}

		t.logger.Warn("position fetch failed",
			slog.String("status", res.Status.String()),
			slog.Any("error", res.Err))

		t.retries++
		if t.retries >= t.policy.MaxRetries {
			t.retries = 0
			t.restoredShown = false
			t.notifyUser(ctx, journal.EventConnectionFailed, notify.Notification{
				Title:    "Connection Error",
				Message:  fmt.Sprintf("connection failed after %d retries, pausing", t.policy.MaxRetries),
				Severity: notify.SeverityError,
			})
			continue
		}
		if err := sleepCtx(ctx, t.policy.RetryInterval); err != nil {
			return err
		}
	}
}

func (t *Tracker) fetchPosition(ctx context.Context) sat.Result {
	start := time.Now()
	res := t.source.Fetch(ctx)
	t.metrics.ObserveFetch(res.Status.String(), time.Since(start).Seconds())
	return res
}

// relay writes the TRACK line and reads the device's feedback. Channel
// errors and malformed replies are absorbed here; the position counts
// as delivered either way.
func (t *Tracker) relay(pos sat.Position) error {
	line := rotator.TrackLine(pos.Latitude, pos.Longitude, pos.Elevation, time.Now().Unix())
	if err := t.channel.WriteLine(line); err != nil {
		t.logger.Error(fmt.Sprintf("writing track line: %s", err.Error()))
		return t.channelFailed()
	}

	reply, ok, err := t.channel.ReadLine()
	if err != nil {
		t.logger.Error(fmt.Sprintf("reading track reply: %s", err.Error()))
		return t.channelFailed()
	}
	t.chanErrs = 0

	if !ok {
		t.metrics.CountFeedback("none")
		t.logger.Debug("no feedback before read timeout")
		return nil
	}

	fb, err := rotator.ParseFeedback(reply)
	if err != nil {
		t.metrics.CountFeedback("malformed")
		t.journalEvent(journal.EventMalformedFeedback, reply)
		t.logger.Warn(fmt.Sprintf("malformed device feedback: %s", err.Error()), slog.String("reply", reply))
		return nil
	}

	t.metrics.CountFeedback("ok")
	t.logger.Info("device feedback",
		slog.Float64("pan", fb.Pan),
		slog.Float64("tilt", fb.Tilt),
		slog.Float64("elevation", fb.Elevation),
		slog.Int("reverse", fb.Reverse))
	return nil
}

// channelFailed counts a consecutive channel error and decides whether
// the home position should be considered lost.
func (t *Tracker) channelFailed() error {
	t.chanErrs++
	if t.policy.RehomeAfter <= 0 || t.chanErrs < t.policy.RehomeAfter {
		return nil
	}

	t.chanErrs = 0
	t.homeSet = false
	t.metrics.SetHomeConfirmed(false)
	t.journalEvent(journal.EventHomeLost, fmt.Sprintf("%d consecutive channel errors", t.policy.RehomeAfter))
	t.logger.Warn("home position lost, repeating handshake",
		slog.Int("channelErrors", t.policy.RehomeAfter))
	return errHomeLost
}

// notifyUser counts, journals and delivers one operator notification.
// Delivery doubles as the pause after a threshold reset.
func (t *Tracker) notifyUser(ctx context.Context, kind journal.EventKind, n notify.Notification) {
	t.metrics.CountNotification(string(kind))
	t.journalEvent(kind, n.Message)

	if err := t.notifier.Notify(ctx, n); err != nil && ctx.Err() == nil {
		t.logger.Warn(fmt.Sprintf("delivering notification: %s", err.Error()), slog.String("title", n.Title))
	}
}

func (t *Tracker) journalEvent(kind journal.EventKind, detail string) {
	if t.journal == nil {
		return
	}
	if _, err := t.journal.AppendEvent(t.sessionID, kind, detail); err != nil {
		t.logger.Warn(fmt.Sprintf("appending journal event: %s", err.Error()), slog.String("kind", string(kind)))
	}
}

// sleepCtx pauses for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
