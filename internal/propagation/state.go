package propagation

import (
	"math"

	"github.com/skytrack/plan13/internal/astrotime"
	"github.com/skytrack/plan13/internal/transform"
)

// State is the result of one propagation.
type State struct {
	Time astrotime.Time

	// PosCelestial and VelCelestial are in the celestial frame of the
	// element set (km, km/s).
	PosCelestial transform.Vec3
	VelCelestial transform.Vec3

	// Pos and Vel are the same vectors rotated into the Earth-fixed frame
	// by the Greenwich hour angle of Aries. Vel keeps the celestial
	// magnitude; the observer's own rotation velocity is subtracted when
	// range rate is resolved.
	Pos transform.Vec3
	Vel transform.Vec3

	RadiusKm         float64 // geocentric distance
	OrbitNumber      int64
	KeplerIterations int
}

// SubPoint returns the geocentric latitude and longitude of the point
// directly beneath the satellite, in degrees. Longitude is in (-180, 180].
func (st State) SubPoint() (latDeg, lonDeg float64) {
	latDeg = math.Asin(st.Pos.Z/st.RadiusKm) * 180 / math.Pi
	lonDeg = math.Atan2(st.Pos.Y, st.Pos.X) * 180 / math.Pi
	return latDeg, lonDeg
}

// AltitudeKm returns the height above the spherical Earth.
func (st State) AltitudeKm() float64 {
	return st.RadiusKm - transform.EarthRadiusKm
}

// AngularRadius returns the footprint's angular radius in radians, the
// geocentric angle from the sub-point to the edge of visibility. Zero when
// the satellite is at or below the surface.
func (st State) AngularRadius() float64 {
	if st.RadiusKm <= transform.EarthRadiusKm {
		return 0
	}
	return math.Acos(transform.EarthRadiusKm / st.RadiusKm)
}

// Topocentric resolves the state into look angles and range rate for an
// observer.
func (st State) Topocentric(obs *transform.Observer) (transform.Topo, error) {
	return transform.LookAnglesWithRate(obs, st.Pos, st.Vel)
}
