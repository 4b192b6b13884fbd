package tracker

import "time"

// Retry and pacing defaults, matching the rotator firmware's expected
// cadence.
const (
	DefaultMaxRetries     = 10
	DefaultRetryInterval  = 30 * time.Second
	DefaultUpdateInterval = 4 * time.Second
)

// Policy paces the tracking loop.
type Policy struct {
	// MaxRetries is the number of consecutive failures before the
	// operator is notified and the counter resets.
	MaxRetries int

	// RetryInterval is the pause after a failure below the threshold.
	RetryInterval time.Duration

	// UpdateInterval is the pause between successful position relays.
	UpdateInterval time.Duration

	// RehomeAfter drops the confirmed home position after this many
	// consecutive channel errors and repeats the handshake. Zero
	// disables re-homing.
	RehomeAfter int
}

// DefaultPolicy returns the standard pacing.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:     DefaultMaxRetries,
		RetryInterval:  DefaultRetryInterval,
		UpdateInterval: DefaultUpdateInterval,
	}
}

func (p Policy) withDefaults() Policy {
	if p.MaxRetries <= 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.RetryInterval <= 0 {
		p.RetryInterval = DefaultRetryInterval
	}
	if p.UpdateInterval <= 0 {
		p.UpdateInterval = DefaultUpdateInterval
	}
	return p
}
