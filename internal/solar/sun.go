// Package solar computes the Sun's position from its mean longitude and a
// two-term equation of center, referred to a fixed mean obliquity. Good to
// a few hundredths of a degree, which is plenty for terminator rendering
// and visibility checks.
package solar

import (
	"math"

	"github.com/skytrack/plan13/internal/astrotime"
	"github.com/skytrack/plan13/internal/transform"
)

const (
	// Solar mean anomaly at the sidereal reference epoch and its daily
	// rate, in degrees.
	meanAnomalyEpoch = 356.4105
	meanAnomalyRate  = 0.98560028

	// Equation of center coefficients, radians.
	center1 = 0.03340
	center2 = 0.00035

	// Mean obliquity of the ecliptic, degrees.
	obliquityDeg = 23.4375

	// AUKm is the astronomical unit in km.
	AUKm = 149.597870700e6
)

var (
	sinObliquity = math.Sin(obliquityDeg * math.Pi / 180)
	cosObliquity = math.Cos(obliquityDeg * math.Pi / 180)
)

// State is the Sun's apparent direction at an instant.
type State struct {
	Time astrotime.Time

	// DirCelestial and Dir are unit vectors toward the Sun in the
	// celestial and Earth-fixed frames.
	DirCelestial transform.Vec3
	Dir          transform.Vec3
}

// Predict computes the solar state at t.
func Predict(t astrotime.Time) State {
	days := astrotime.SinceGHAEpoch(t)

	// The Sun's mean longitude sits opposite the GHA Aries reference
	// direction and advances one revolution per tropical year.
	meanLon := astrotime.GHAEpochDeg*math.Pi/180 + days*astrotime.SunMeanMotion + math.Pi
	meanAnomaly := (meanAnomalyEpoch + days*meanAnomalyRate) * math.Pi / 180
	trueLon := meanLon + center1*math.Sin(meanAnomaly) + center2*math.Sin(2*meanAnomaly)

	c, s := math.Cos(trueLon), math.Sin(trueLon)
	dirCel := transform.Vec3{X: c, Y: s * cosObliquity, Z: s * sinObliquity}

	return State{
		Time:         t,
		DirCelestial: dirCel,
		Dir:          transform.CelestialToGeocentric(dirCel, astrotime.GHAAries(t)),
	}
}

// SubPoint returns the sub-solar latitude and longitude in degrees.
func (st State) SubPoint() (latDeg, lonDeg float64) {
	latDeg = math.Asin(st.Dir.Z) * 180 / math.Pi
	lonDeg = math.Atan2(st.Dir.Y, st.Dir.X) * 180 / math.Pi
	return latDeg, lonDeg
}

// Topocentric resolves the Sun into look angles for an observer. The range
// rate is zero: solar radial motion is far below what Doppler tuning cares
// about.
func (st State) Topocentric(obs *transform.Observer) (transform.Topo, error) {
	return transform.LookAngles(obs, st.Dir.Scale(AUKm))
}

// AngularRadius returns the geocentric angular radius of the sunlit
// hemisphere, for drawing the day/night terminator. At one AU this is a
// shade under 90 degrees.
func (st State) AngularRadius() float64 {
	return math.Acos(transform.EarthRadiusKm / AUKm)
}
