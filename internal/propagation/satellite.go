// Package propagation implements the Plan-13 orbit model: two-body Kepler
// motion with secular J2 precession of the node and perigee plus a linear
// drag correction derived from the mean motion derivative. Accuracy is
// adequate for antenna pointing and Doppler tuning with element sets up to
// a few weeks old. An SGP4 wrapper is included for cross-checking.
package propagation

import (
	"errors"
	"fmt"
	"math"

	"github.com/skytrack/plan13/internal/astrotime"
	"github.com/skytrack/plan13/internal/metrics"
	"github.com/skytrack/plan13/internal/tle"
	"github.com/skytrack/plan13/internal/transform"
)

const (
	// GM is the Earth's gravitational parameter in km^3/s^2.
	GM = 3.986e5
	// J2 is the Earth's second zonal harmonic coefficient.
	J2 = 1.08263e-3

	keplerTolerance     = 1e-5
	keplerMaxIterations = 25
)

// ErrKeplerDiverged is returned when Newton-Raphson iteration on Kepler's
// equation fails to converge within the iteration cap.
var ErrKeplerDiverged = errors.New("propagation: kepler iteration diverged")

// Satellite holds one satellite's orbit model, derived once from its
// element set. Safe for concurrent use; Predict does not mutate it.
type Satellite struct {
	Elements tle.ElementSet

	epoch astrotime.Time

	// Elements converted to radians.
	ecc    float64
	sinInc float64
	cosInc float64
	ma0    float64 // mean anomaly at epoch
	argp0  float64 // argument of perigee at epoch
	raan0  float64 // right ascension of ascending node at epoch

	meanMotion float64 // rad/day
	n0         float64 // rad/s
	a0         float64 // semi-major axis, km
	b0         float64 // semi-minor axis, km

	// Secular rates.
	raanDot float64 // rad/day
	argpDot float64 // rad/day
	drag    float64 // fractional mean motion change per day
}

// NewSatellite derives the orbit model from an element set. Hyperbolic and
// parabolic element sets are rejected: the model solves the elliptic form
// of Kepler's equation only.
func NewSatellite(es tle.ElementSet) (*Satellite, error) {
	if es.Eccentricity < 0 || es.Eccentricity >= 1 {
		return nil, fmt.Errorf("propagation: catalog %d: eccentricity %v outside [0,1)",
			es.CatalogNumber, es.Eccentricity)
	}
	if es.MeanMotion <= 0 {
		return nil, fmt.Errorf("propagation: catalog %d: mean motion %v must be positive",
			es.CatalogNumber, es.MeanMotion)
	}

	s := &Satellite{
		Elements: es,
		epoch:    es.Epoch(),
		ecc:      es.Eccentricity,
		ma0:      es.MeanAnomalyDeg * math.Pi / 180,
		argp0:    es.ArgPerigeeDeg * math.Pi / 180,
		raan0:    es.RAANDeg * math.Pi / 180,
	}

	inc := es.InclinationDeg * math.Pi / 180
	s.sinInc = math.Sin(inc)
	s.cosInc = math.Cos(inc)

	s.meanMotion = es.MeanMotion * 2 * math.Pi
	s.n0 = s.meanMotion / 86400
	s.a0 = math.Cbrt(GM / (s.n0 * s.n0))
	s.b0 = s.a0 * math.Sqrt(1-s.ecc*s.ecc)

	// Secular J2 rates for node and perigee.
	pc := transform.EarthRadiusKm * s.a0 / (s.b0 * s.b0)
	pc = 1.5 * J2 * pc * pc * s.meanMotion
	s.raanDot = -pc * s.cosInc
	s.argpDot = pc * (5*s.cosInc*s.cosInc - 1) / 2

	// Linear drag from the first mean motion derivative (the element field
	// carries half the derivative in rev/day^2).
	m2 := es.MeanMotionDot2 * 2 * math.Pi
	s.drag = -2 * m2 / (3 * s.meanMotion)

	return s, nil
}

// Epoch returns the element set epoch.
func (s *Satellite) Epoch() astrotime.Time {
	return s.epoch
}

// Predict computes the satellite state at t.
func (s *Satellite) Predict(t astrotime.Time) (State, error) {
	days := t.Sub(s.epoch)

	// Drag scales the orbit (kd) and the precession rates (kdp).
	dt := s.drag * days / 2
	kd := 1 + 4*dt
	kdp := 1 - 7*dt

	// Mean anomaly, reduced to one revolution. The discarded whole
	// revolutions advance the orbit number.
	m := s.ma0 + s.meanMotion*days*(1-3*dt)
	revs := int64(m / (2 * math.Pi))
	m -= float64(revs) * 2 * math.Pi
	orbit := s.Elements.RevNumber + revs

	// Solve Kepler's equation M = E - e sin E by Newton-Raphson.
	ea := m
	var cosEA, sinEA, dnom float64
	iters := 0
	for {
		cosEA = math.Cos(ea)
		sinEA = math.Sin(ea)
		dnom = 1 - s.ecc*cosEA
		d := (ea - s.ecc*sinEA - m) / dnom
		ea -= d
		iters++
		if math.Abs(d) <= keplerTolerance {
			break
		}
		if iters >= keplerMaxIterations {
			metrics.RecordPropagationError("kepler_diverged")
			return State{}, fmt.Errorf("propagation: catalog %d at %s: %w",
				s.Elements.CatalogNumber, t, ErrKeplerDiverged)
		}
	}

	a := s.a0 * kd
	b := s.b0 * kd
	radius := a * dnom

	// Position and velocity in the orbit plane.
	px := a * (cosEA - s.ecc)
	py := b * sinEA
	vx := -a * sinEA / dnom * s.n0
	vy := b * cosEA / dnom * s.n0

	// Precessed argument of perigee and node.
	ap := s.argp0 + s.argpDot*days*kdp
	cw, sw := math.Cos(ap), math.Sin(ap)
	raan := s.raan0 + s.raanDot*days*kdp
	cq, sq := math.Cos(raan), math.Sin(raan)

	// Rows of the orbit-plane to celestial rotation. The orbit plane has
	// no Z component, so only the first two columns matter.
	ci, si := s.cosInc, s.sinInc
	cx := transform.Vec3{X: cw*cq - sw*ci*sq, Y: -sw*cq - cw*ci*sq, Z: si * sq}
	cy := transform.Vec3{X: cw*sq + sw*ci*cq, Y: -sw*sq + cw*ci*cq, Z: -si * cq}
	cz := transform.Vec3{X: sw * si, Y: cw * si, Z: ci}

	posCel := transform.Vec3{
		X: px*cx.X + py*cx.Y,
		Y: px*cy.X + py*cy.Y,
		Z: px*cz.X + py*cz.Y,
	}
	velCel := transform.Vec3{
		X: vx*cx.X + vy*cx.Y,
		Y: vx*cy.X + vy*cy.Y,
		Z: vx*cz.X + vy*cz.Y,
	}

	ghaa := astrotime.GHAAries(t)

	metrics.RecordPropagation(iters)

	return State{
		Time:             t,
		PosCelestial:     posCel,
		VelCelestial:     velCel,
		Pos:              transform.CelestialToGeocentric(posCel, ghaa),
		Vel:              transform.CelestialToGeocentric(velCel, ghaa),
		RadiusKm:         radius,
		OrbitNumber:      orbit,
		KeplerIterations: iters,
	}, nil
}
