package sat

import "context"

// Status classifies the outcome of a single position fetch.
type Status int

const (
	// StatusOK means a position record was retrieved.
	StatusOK Status = iota

	// StatusEmpty means the source answered but carried no position records.
	StatusEmpty

	// StatusError means the source could not be reached or answered badly.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Position is a single satellite position observation. Latitude and
// Longitude are geodetic degrees; Elevation is the look angle above the
// observer's horizon in degrees, which is what the pointing device steers
// by. A Position is immutable and lives for one tracking cycle.
type Position struct {
	Latitude  float64
	Longitude float64
	Elevation float64
}

// Observer is the fixed ground station coordinate supplied at startup.
// It doubles as the observer for position requests and as the home
// reference sent to the pointing device. Altitude is meters above sea
// level.
type Observer struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// Result is the outcome of one fetch. Position is valid only when Status
// is StatusOK; Err carries the underlying cause when Status is
// StatusError.
type Result struct {
	Status   Status
	Position Position
	Err      error
}

// Source produces satellite positions. Fetch never panics and never
// blocks past the source's configured timeout; failures are reported
// through the Result, not by crashing the caller.
type Source interface {
	Fetch(ctx context.Context) Result
}
