package mapproj

import (
	"math"
	"testing"
)

func TestLatLonToXY(t *testing.T) {
	// One pixel per degree makes the expectations readable.
	const w, h = 360, 180

	tests := []struct {
		name     string
		lat, lon float64
		want     Point
	}{
		{"origin", 0, 0, Point{180, 90}},
		{"north pole", 90, 0, Point{180, 0}},
		{"south pole maps one past the edge", -90, 0, Point{180, 180}},
		{"date line west", 0, -180, Point{0, 90}},
		{"date line east maps one past the edge", 0, 180, Point{360, 90}},
		{"greenwich mid-north", 45, 0, Point{180, 45}},
		{"tokyo-ish", 35.68, 139.69, Point{319, 54}},
	}
	for _, tt := range tests {
		if got := LatLonToXY(tt.lat, tt.lon, w, h); got != tt.want {
			t.Errorf("%s: LatLonToXY(%v, %v) = %v, want %v", tt.name, tt.lat, tt.lon, got, tt.want)
		}
	}
}

func TestLatLonToXYMonotonic(t *testing.T) {
	const w, h = 1024, 512
	prevX := -1
	for lon := -180.0; lon < 180; lon += 5 {
		p := LatLonToXY(0, lon, w, h)
		if p.X <= prevX {
			t.Fatalf("x not increasing at lon %v: %d after %d", lon, p.X, prevX)
		}
		prevX = p.X
	}
	prevY := -1
	for lat := 90.0; lat > -90; lat -= 5 {
		p := LatLonToXY(lat, 0, w, h)
		if p.Y <= prevY {
			t.Fatalf("y not increasing at lat %v: %d after %d", lat, p.Y, prevY)
		}
		prevY = p.Y
	}
}

func TestFootprintCircleEquator(t *testing.T) {
	const w, h = 360, 180
	dst := make([]Point, 64)

	n := FootprintCircle(dst, 0, 0, 10*math.Pi/180, w, h)
	if n != len(dst) {
		t.Fatalf("n = %d, want %d", n, len(dst))
	}

	near := func(p Point, x, y int) bool {
		dx, dy := p.X-x, p.Y-y
		return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
	}

	// Starts at the northernmost point and the opposite index is the
	// southernmost.
	if !near(dst[0], 180, 80) {
		t.Errorf("north point = %v, want near {180 80}", dst[0])
	}
	if !near(dst[32], 180, 100) {
		t.Errorf("south point = %v, want near {180 100}", dst[32])
	}
	// Quarter way round is the eastern extreme.
	if !near(dst[16], 190, 90) {
		t.Errorf("east point = %v, want near {190 90}", dst[16])
	}

	for i, p := range dst {
		if p.X < 169 || p.X > 191 || p.Y < 79 || p.Y > 101 {
			t.Fatalf("point %d = %v escapes the 10 degree circle box", i, p)
		}
	}
}

// TestFootprintCircleConstantRadius recovers each point's coordinate from
// a fine pixel grid and checks it sits at the requested angular distance
// from the sub-point.
func TestFootprintCircleConstantRadius(t *testing.T) {
	const w, h = 36000, 18000 // 0.01 degree per pixel

	tests := []struct {
		name      string
		lat, lon  float64
		radiusDeg float64
	}{
		{"equator", 0, 0, 10},
		{"mid latitude", 48.66, 9.78, 19.96},
		{"southern", -30, 150, 25},
		{"polar cap", 80, -60, 15},
	}
	for _, tt := range tests {
		dst := make([]Point, 96)
		FootprintCircle(dst, tt.lat, tt.lon, tt.radiusDeg*math.Pi/180, w, h)

		for i, p := range dst {
			lat := 90 - float64(p.Y)*180/float64(h)
			lon := float64(p.X)*360/float64(w) - 180
			d := angularDistanceDeg(tt.lat, tt.lon, lat, lon)
			if math.Abs(d-tt.radiusDeg) > 0.05 {
				t.Errorf("%s: point %d at (%.2f, %.2f) is %.3f degrees out, want %.3f",
					tt.name, i, lat, lon, d, tt.radiusDeg)
			}
		}
	}
}

func angularDistanceDeg(lat1, lon1, lat2, lon2 float64) float64 {
	const rad = math.Pi / 180
	c := math.Sin(lat1*rad)*math.Sin(lat2*rad) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Cos((lon1-lon2)*rad)
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c) / rad
}

// TestFootprintCircleDateline checks that a circle straddling 180 degrees
// longitude produces pixels on both map edges rather than clamping.
func TestFootprintCircleDateline(t *testing.T) {
	const w, h = 360, 180
	dst := make([]Point, 90)
	FootprintCircle(dst, 0, 175, 10*math.Pi/180, w, h)

	var west, east bool
	for _, p := range dst {
		if p.X <= 15 {
			west = true
		}
		if p.X >= 345 {
			east = true
		}
	}
	if !west || !east {
		t.Errorf("dateline circle missing an edge: west=%v east=%v", west, east)
	}
}

// TestFootprintCirclePole checks a circle enclosing the north pole: points
// beyond the pole come back down the far meridian.
func TestFootprintCirclePole(t *testing.T) {
	const w, h = 360, 180
	dst := make([]Point, 36)
	FootprintCircle(dst, 80, 0, 15*math.Pi/180, w, h)

	// The a=0 point crosses the pole to latitude 85 on the far side.
	if dst[0].Y < 4 || dst[0].Y > 5 {
		t.Errorf("over-the-pole point = %v, want y near 5", dst[0])
	}
	if dst[0].X != 0 && dst[0].X != 360 {
		t.Errorf("over-the-pole point = %v, want far meridian", dst[0])
	}
	for i, p := range dst {
		if p.Y < 0 || p.Y > 25 {
			t.Errorf("point %d = %v outside polar cap band", i, p)
		}
	}
}

func TestFootprintCircleEmpty(t *testing.T) {
	if n := FootprintCircle(nil, 0, 0, 0.5, 360, 180); n != 0 {
		t.Errorf("n = %d, want 0 for empty buffer", n)
	}
}

// TestFootprintCircleTerminator exercises the near-90-degree radius used
// for the day/night boundary: the circle spans the whole longitude range.
func TestFootprintCircleTerminator(t *testing.T) {
	const w, h = 720, 360
	dst := make([]Point, 360)
	FootprintCircle(dst, 23.4, 30, 89.9976*math.Pi/180, w, h)

	minX, maxX := w, 0
	for _, p := range dst {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
	}
	if minX > 10 || maxX < w-10 {
		t.Errorf("terminator spans x %d..%d, want nearly full width", minX, maxX)
	}
}
