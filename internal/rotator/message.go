package rotator

import (
	"fmt"
	"strconv"
	"strings"
)

// HomeOK is the literal acknowledgment the device sends once it has
// accepted a home message.
const HomeOK = "HOME_OK"

// Feedback is the device's reply to a track message: the angles it
// actually drove to. Reverse is 1 when the mount flipped past the
// meridian to reach the target, 0 otherwise.
type Feedback struct {
	Pan       float64
	Tilt      float64
	Elevation float64
	Reverse   int
}

// HomeLine composes the handshake message for the given home coordinate.
// The wire format is fixed and includes the terminator:
// "{lat},{lon},0,HOME\n".
func HomeLine(lat, lon float64) string {
	return formatCoord(lat) + "," + formatCoord(lon) + ",0,HOME\n"
}

// TrackLine composes a tracking message for a satellite position at the
// given Unix timestamp: "{lat},{lon},{elevation},{unixSeconds}\n".
func TrackLine(lat, lon, elevation float64, unixSeconds int64) string {
	return formatCoord(lat) + "," + formatCoord(lon) + "," + formatCoord(elevation) + "," + strconv.FormatInt(unixSeconds, 10) + "\n"
}

// ParseFeedback parses a tracking reply of exactly four comma-separated
// fields: three floats and an integer flag.
func ParseFeedback(line string) (Feedback, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return Feedback{}, fmt.Errorf("invalid feedback: expected 4 fields, got %d", len(fields))
	}

	pan, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return Feedback{}, fmt.Errorf("invalid pan angle: %w", err)
	}

	tilt, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return Feedback{}, fmt.Errorf("invalid tilt angle: %w", err)
	}

	elevation, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return Feedback{}, fmt.Errorf("invalid elevation angle: %w", err)
	}

	reverse, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return Feedback{}, fmt.Errorf("invalid reverse flag: %w", err)
	}

	return Feedback{Pan: pan, Tilt: tilt, Elevation: elevation, Reverse: reverse}, nil
}

// formatCoord renders a float in the shortest decimal form that still
// carries a decimal point: whole-degree values serialize as "40.0", not
// "40", keeping the wire format the firmware was written against.
func formatCoord(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
