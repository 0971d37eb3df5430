// Package mapproj projects latitude/longitude onto equirectangular map
// pixels and generates footprint circles in pixel space.
package mapproj

import "math"

// Point is a pixel position. X grows east from 180W, Y grows south from
// the north pole.
type Point struct {
	X, Y int
}

// LatLonToXY projects a coordinate onto a width-by-height map. The result
// is truncated, not clamped: latitude -90 and longitude +180 land one
// pixel past the map edge, which callers drawing wrapped tracks rely on.
func LatLonToXY(latDeg, lonDeg float64, width, height int) Point {
	return Point{
		X: int((180 + lonDeg) / 360 * float64(width)),
		Y: int((90 - latDeg) / 180 * float64(height)),
	}
}

// FootprintCircle fills dst with the projected circle of the given angular
// radius around a sub-point, one point per equal arc step starting at the
// northernmost point and proceeding clockwise as seen from above. The
// circle is not closed: the last point stops one step short of the first.
// Returns the number of points written, which is len(dst).
func FootprintCircle(dst []Point, subLatDeg, subLonDeg, angularRadius float64, width, height int) int {
	n := len(dst)
	if n == 0 {
		return 0
	}

	cr, sr := math.Cos(angularRadius), math.Sin(angularRadius)
	cla, sla := math.Cos(subLatDeg*math.Pi/180), math.Sin(subLatDeg*math.Pi/180)
	clo, slo := math.Cos(subLonDeg*math.Pi/180), math.Sin(subLonDeg*math.Pi/180)

	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)

		// Circle around the X axis, then tilted up to the sub-latitude,
		// then swung around to the sub-longitude.
		x0 := cr
		y0 := sr * math.Sin(a)
		z0 := sr * math.Cos(a)

		x := x0*cla - z0*sla
		y := y0
		z := x0*sla + z0*cla

		gx := x*clo - y*slo
		gy := x*slo + y*clo

		lat := math.Asin(z) * 180 / math.Pi
		lon := math.Atan2(gy, gx) * 180 / math.Pi
		dst[i] = LatLonToXY(lat, lon, width, height)
	}
	return n
}
