package rotator

import (
	"strings"
	"testing"
)

func TestHomeLine(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{"whole degrees", 40.0, -75.0, "40.0,-75.0,0,HOME\n"},
		{"fractional degrees", 51.4769, -0.0005, "51.4769,-0.0005,0,HOME\n"},
		{"equator", 0, 0, "0.0,0.0,0,HOME\n"},
		{"southern hemisphere", -33.8688, 151.2093, "-33.8688,151.2093,0,HOME\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HomeLine(tt.lat, tt.lon); got != tt.want {
				t.Errorf("HomeLine(%v, %v) = %q, want %q", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestTrackLine(t *testing.T) {
	got := TrackLine(12.3, 45.6, 7.8, 1700000000)
	want := "12.3,45.6,7.8,1700000000\n"
	if got != want {
		t.Errorf("TrackLine = %q, want %q", got, want)
	}

	// Whole-degree positions must keep their decimal point.
	got = TrackLine(-10, 20, 0, 42)
	want = "-10.0,20.0,0.0,42\n"
	if got != want {
		t.Errorf("TrackLine = %q, want %q", got, want)
	}

	if !strings.HasSuffix(got, "\n") {
		t.Error("track line must be newline-terminated")
	}
}

func TestParseFeedback(t *testing.T) {
	fb, err := ParseFeedback("12.3,45.6,7.8,1")
	if err != nil {
		t.Fatalf("ParseFeedback returned error: %v", err)
	}
	if fb.Pan != 12.3 || fb.Tilt != 45.6 || fb.Elevation != 7.8 || fb.Reverse != 1 {
		t.Errorf("unexpected feedback: %+v", fb)
	}
}

func TestParseFeedback_Whitespace(t *testing.T) {
	fb, err := ParseFeedback(" 180.0 , 45.5 , 10.0 , 0 ")
	if err != nil {
		t.Fatalf("ParseFeedback returned error: %v", err)
	}
	if fb.Pan != 180.0 || fb.Tilt != 45.5 || fb.Elevation != 10.0 || fb.Reverse != 0 {
		t.Errorf("unexpected feedback: %+v", fb)
	}
}

func TestParseFeedback_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"garbage", "garbage"},
		{"empty", ""},
		{"too few fields", "1.0,2.0,3.0"},
		{"too many fields", "1.0,2.0,3.0,1,extra"},
		{"non-numeric pan", "x,2.0,3.0,1"},
		{"non-numeric tilt", "1.0,x,3.0,1"},
		{"non-numeric elevation", "1.0,2.0,x,1"},
		{"float reverse flag", "1.0,2.0,3.0,1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFeedback(tt.line); err == nil {
				t.Errorf("ParseFeedback(%q) expected error, got none", tt.line)
			}
		})
	}
}
