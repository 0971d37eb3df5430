package transform

import "math"

// Topo holds azimuth, elevation, range and range rate from an observer to a
// target.
type Topo struct {
	AzimuthDeg   float64 // 0 = North, clockwise, [0, 360)
	ElevationDeg float64 // 0 = horizon, 90 = zenith
	RangeKm      float64
	RangeRateKmS float64 // negative = approaching
}

// LookAngles resolves a geocentric target position into azimuth, elevation
// and range as seen from the observer. The range rate is zero; use
// LookAnglesWithRate when a target velocity is available.
func LookAngles(obs *Observer, pos Vec3) (Topo, error) {
	return lookAngles(obs, pos, obs.Vel)
}

// LookAnglesWithRate is LookAngles plus the range rate, resolved from the
// target's geocentric velocity in km/s. The velocity is rotated but not
// derotated; subtracting the site velocity here accounts for Earth rotation.
func LookAnglesWithRate(obs *Observer, pos, vel Vec3) (Topo, error) {
	return lookAngles(obs, pos, vel)
}

func lookAngles(obs *Observer, pos, vel Vec3) (Topo, error) {
	r := pos.Sub(obs.Pos)
	dist := r.Norm()
	if dist == 0 {
		return Topo{}, ErrGeometryDegenerate
	}
	r = r.Scale(1 / dist)

	du := r.Dot(obs.Up)
	de := r.Dot(obs.East)
	dn := r.Dot(obs.North)

	// Guard asin against rounding just past +/-1 when r is parallel to up.
	if du > 1 {
		du = 1
	} else if du < -1 {
		du = -1
	}

	az := math.Atan2(de, dn) * 180.0 / math.Pi
	if az < 0 {
		az += 360.0
	}

	return Topo{
		AzimuthDeg:   az,
		ElevationDeg: math.Asin(du) * 180.0 / math.Pi,
		RangeKm:      dist,
		RangeRateKmS: vel.Sub(obs.Vel).Dot(r),
	}, nil
}
