package predict

import (
	"testing"
	"time"
)

func TestPropagator_Passes(t *testing.T) {
	p, err := New(issTLE(), testObserver)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	from := time.Date(2008, 9, 20, 0, 0, 0, 0, time.UTC)
	passes := p.Passes(from, 24*time.Hour, 0, 30*time.Second)
	if len(passes) == 0 {
		t.Fatal("Passes() found no passes in 24 hours")
	}

	for i, pass := range passes {
		if len(pass.Points) == 0 {
			t.Fatalf("pass %d has no points", i)
		}
		if pass.AOS.After(pass.LOS) {
			t.Errorf("pass %d: AOS %v after LOS %v", i, pass.AOS, pass.LOS)
		}
		if pass.MaxElevationAt.Before(pass.AOS) || pass.MaxElevationAt.After(pass.LOS) {
			t.Errorf("pass %d: culmination %v outside [%v, %v]", i, pass.MaxElevationAt, pass.AOS, pass.LOS)
		}
		if pass.Duration() >= time.Hour {
			t.Errorf("pass %d: duration %v too long for a low Earth orbit", i, pass.Duration())
		}

		for _, pt := range pass.Points {
			if pt.Elevation <= 0 {
				t.Errorf("pass %d: point at %v below horizon (%f)", i, pt.Time, pt.Elevation)
			}
			if pt.Elevation > pass.MaxElevation {
				t.Errorf("pass %d: point elevation %f exceeds max %f", i, pt.Elevation, pass.MaxElevation)
			}
			if pt.Azimuth < 0 || pt.Azimuth >= 360 {
				t.Errorf("pass %d: azimuth = %f, want within [0, 360)", i, pt.Azimuth)
			}
		}

		if pass.AOSAzimuth() != pass.Points[0].Azimuth {
			t.Errorf("pass %d: AOSAzimuth() = %f, want first point azimuth", i, pass.AOSAzimuth())
		}
		if pass.LOSAzimuth() != pass.Points[len(pass.Points)-1].Azimuth {
			t.Errorf("pass %d: LOSAzimuth() = %f, want last point azimuth", i, pass.LOSAzimuth())
		}
	}
}

func TestPropagator_Passes_MinElevation(t *testing.T) {
	p, err := New(issTLE(), testObserver)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	from := time.Date(2008, 9, 20, 0, 0, 0, 0, time.UTC)
	all := p.Passes(from, 24*time.Hour, 0, 30*time.Second)
	high := p.Passes(from, 24*time.Hour, 30, 30*time.Second)

	if len(high) > len(all) {
		t.Errorf("filtered passes = %d, unfiltered = %d", len(high), len(all))
	}
	for i, pass := range high {
		if pass.MaxElevation < 30 {
			t.Errorf("pass %d: max elevation %f below the 30 degree floor", i, pass.MaxElevation)
		}
	}
}
