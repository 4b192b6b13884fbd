package predict

import (
	"math"
	"time"
)

// DefaultPassStep is the sampling interval for pass prediction.
const DefaultPassStep = 10 * time.Second

// PassPoint is one sample of a pass.
type PassPoint struct {
	Time      time.Time
	Azimuth   float64
	Elevation float64
	RangeKm   float64
}

// Pass is one contiguous span above the horizon.
type Pass struct {
	AOS            time.Time // first sample above the horizon
	LOS            time.Time // last sample above the horizon
	MaxElevation   float64
	MaxElevationAt time.Time
	Points         []PassPoint
}

// Duration returns the time between acquisition and loss of signal.
func (p Pass) Duration() time.Duration {
	return p.LOS.Sub(p.AOS)
}

// AOSAzimuth returns the azimuth at which the satellite rises.
func (p Pass) AOSAzimuth() float64 {
	return p.Points[0].Azimuth
}

// LOSAzimuth returns the azimuth at which the satellite sets.
func (p Pass) LOSAzimuth() float64 {
	return p.Points[len(p.Points)-1].Azimuth
}

// Passes samples the orbit every step over the window starting at from
// and collects spans with positive elevation. Passes culminating below
// minElevation degrees are dropped. A pass still in progress at the end
// of the window is kept as far as sampled.
func (p *Propagator) Passes(from time.Time, window time.Duration, minElevation float64, step time.Duration) []Pass {
	if step <= 0 {
		step = DefaultPassStep
	}

	var passes []Pass
	var cur *Pass

	end := from.Add(window)
	for t := from; !t.After(end); t = t.Add(step) {
		o := p.Observe(t)
		el := o.Position.Elevation

		if math.IsNaN(el) || el <= 0 {
			if cur != nil {
				if cur.MaxElevation >= minElevation {
					passes = append(passes, *cur)
				}
				cur = nil
			}
			continue
		}

		if cur == nil {
			cur = &Pass{AOS: t, MaxElevation: el, MaxElevationAt: t}
		}
		cur.LOS = t
		cur.Points = append(cur.Points, PassPoint{
			Time:      t,
			Azimuth:   o.Azimuth,
			Elevation: el,
			RangeKm:   o.RangeKm,
		})
		if el > cur.MaxElevation {
			cur.MaxElevation = el
			cur.MaxElevationAt = t
		}
	}

	if cur != nil && cur.MaxElevation >= minElevation {
		passes = append(passes, *cur)
	}
	return passes
}
