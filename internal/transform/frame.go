package transform

import "math"

// CelestialToGeocentric rotates a vector from the celestial frame into the
// rotating geocentric frame, given the hour angle of Aries in radians.
//
// Velocities go through the same rotation without subtracting omega x r, so a
// rotated velocity is still inertial, just expressed on geocentric axes. The
// range-rate computation relies on this: it subtracts the observer's site
// velocity instead.
func CelestialToGeocentric(v Vec3, ghaa float64) Vec3 {
	cg := math.Cos(-ghaa)
	sg := math.Sin(-ghaa)
	return Vec3{
		X: v.X*cg - v.Y*sg,
		Y: v.X*sg + v.Y*cg,
		Z: v.Z,
	}
}
