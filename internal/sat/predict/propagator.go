package predict

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/Choertbaden/sattrack/internal/sat"
)

// Observation is the satellite state seen from the observer at one instant.
type Observation struct {
	Position   sat.Position // subsatellite point plus look-angle elevation
	Azimuth    float64      // degrees clockwise from true north
	RangeKm    float64      // slant range to the satellite
	AltitudeKm float64      // height of the satellite above the ellipsoid
}

// Propagator turns an element set into positions with SGP4. It
// implements sat.Source, so the tracker can run from a TLE file with no
// network at all.
type Propagator struct {
	tle      TLE
	sat      satellite.Satellite
	observer sat.Observer
}

var _ sat.Source = (*Propagator)(nil)

// New initializes SGP4 from the element set. The observer fixes the
// frame for look angles.
func New(t TLE, observer sat.Observer) (*Propagator, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Propagator{
		tle:      t,
		sat:      satellite.TLEToSat(t.Line1, t.Line2, satellite.GravityWGS72),
		observer: observer,
	}, nil
}

// Name returns the element set name, falling back to the catalog entry
// or the raw catalog number.
func (p *Propagator) Name() string {
	if p.tle.Name != "" {
		return p.tle.Name
	}
	id, err := p.tle.NoradID()
	if err != nil {
		return "unknown"
	}
	if s, ok := sat.ByNoradID(id); ok {
		return s.Name
	}
	return "NORAD " + strconv.Itoa(id)
}

// Observe propagates the orbit to at and derives both the subsatellite
// point and the look angles from the observer.
func (p *Propagator) Observe(at time.Time) Observation {
	at = at.UTC()
	year, month, day := at.Date()
	hour, min, sec := at.Clock()

	eci, _ := satellite.Propagate(p.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)

	altKm, _, llRad := satellite.ECIToLLA(eci, gmst)
	geo := satellite.LatLongDeg(llRad)

	obs := satellite.LatLong{
		Latitude:  p.observer.Latitude * satellite.DEG2RAD,
		Longitude: p.observer.Longitude * satellite.DEG2RAD,
	}
	look := satellite.ECIToLookAngles(eci, obs, p.observer.Altitude/1000, jd)

	az := math.Mod(look.Az*satellite.RAD2DEG, 360)
	if az < 0 {
		az += 360
	}

	return Observation{
		Position: sat.Position{
			Latitude:  geo.Latitude,
			Longitude: geo.Longitude,
			Elevation: look.El * satellite.RAD2DEG,
		},
		Azimuth:    az,
		RangeKm:    look.Rg,
		AltitudeKm: altKm,
	}
}

// Fetch propagates to the current time. SGP4 degrades far from the
// element epoch; a diverged solution comes back as an error result
// rather than NaN coordinates on the wire.
func (p *Propagator) Fetch(ctx context.Context) sat.Result {
	if err := ctx.Err(); err != nil {
		return sat.Result{Status: sat.StatusError, Err: err}
	}

	o := p.Observe(time.Now())
	if math.IsNaN(o.Position.Latitude) || math.IsNaN(o.Position.Longitude) || math.IsNaN(o.Position.Elevation) {
		return sat.Result{
			Status: sat.StatusError,
			Err:    fmt.Errorf("propagation diverged for %s", p.Name()),
		}
	}

	return sat.Result{Status: sat.StatusOK, Position: o.Position}
}
