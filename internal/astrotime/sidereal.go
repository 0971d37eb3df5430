package astrotime

import "math"

// Earth rotation and solar motion rates. The rotation rate is sidereal: one
// extra turn per tropical year on top of the solar day.
const (
	TropicalYearDays = 365.2421896698
	SunMeanMotion    = 2 * math.Pi / TropicalYearDays // rad/day
	EarthRotation    = 2*math.Pi + SunMeanMotion      // rad/day, relative to the stars
	OmegaEarth       = EarthRotation / 86400.0        // rad/s
)

// GHA Aries reference: 99.5828 degrees at 2014 Jan 0.0 UTC. Against the
// IAU-82 GMST model this stays within 0.0001 degrees through 2030. The
// solar ephemeris shares the same reference angle, so it is exported.
const (
	ghaEpochYear = 2014
	GHAEpochDeg  = 99.5828
)

var ghaEpochDN = DayNumber(ghaEpochYear, 1, 0)

// SinceGHAEpoch returns the days elapsed from the GHA Aries reference epoch.
func SinceGHAEpoch(t Time) float64 {
	return float64(t.DN-ghaEpochDN) + t.TN
}

// GHAAries returns the Greenwich Hour Angle of Aries in radians at t.
// The angle is not normalized; callers that need [0,2pi) must reduce it.
func GHAAries(t Time) float64 {
	return GHAEpochDeg*math.Pi/180.0 + SinceGHAEpoch(t)*EarthRotation
}
