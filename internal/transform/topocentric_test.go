package transform

import (
	"errors"
	"math"
	"testing"
)

func mustObserver(t *testing.T, lat, lon, alt float64) *Observer {
	t.Helper()
	obs, err := NewObserver("test", lat, lon, alt)
	if err != nil {
		t.Fatalf("NewObserver(%v, %v, %v) failed: %v", lat, lon, alt, err)
	}
	return obs
}

func TestLookAnglesOverhead(t *testing.T) {
	obs := mustObserver(t, 0, 0, 0)

	// Target 400 km straight up.
	pos := obs.Pos.Add(obs.Up.Scale(400))
	topo, err := LookAngles(obs, pos)
	if err != nil {
		t.Fatalf("LookAngles failed: %v", err)
	}

	if math.Abs(topo.ElevationDeg-90.0) > 1e-6 {
		t.Errorf("overhead elevation = %.8f deg, want 90", topo.ElevationDeg)
	}
	if math.Abs(topo.RangeKm-400.0) > 1e-9 {
		t.Errorf("overhead range = %.9f km, want 400", topo.RangeKm)
	}
}

func TestLookAnglesCardinalDirections(t *testing.T) {
	obs := mustObserver(t, stnLat, stnLon, stnAlt)

	tests := []struct {
		name   string
		offset Vec3
		wantAz float64
	}{
		{"north", obs.North.Scale(500), 0},
		{"east", obs.East.Scale(500), 90},
		{"south", obs.North.Scale(-500), 180},
		{"west", obs.East.Scale(-500), 270},
		{"northeast", obs.North.Scale(500).Add(obs.East.Scale(500)), 45},
		{"southwest", obs.North.Scale(-500).Add(obs.East.Scale(-500)), 225},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo, err := LookAngles(obs, obs.Pos.Add(tt.offset))
			if err != nil {
				t.Fatalf("LookAngles failed: %v", err)
			}

			// Fold the 0/360 seam before comparing.
			diff := math.Abs(topo.AzimuthDeg - tt.wantAz)
			if diff > 180 {
				diff = 360 - diff
			}
			if diff > 1e-6 {
				t.Errorf("azimuth = %.8f deg, want %g", topo.AzimuthDeg, tt.wantAz)
			}
			if math.Abs(topo.ElevationDeg) > 1e-6 {
				t.Errorf("horizontal target elevation = %.8f deg, want 0", topo.ElevationDeg)
			}
		})
	}
}

func TestLookAnglesRangeRate(t *testing.T) {
	obs := mustObserver(t, stnLat, stnLon, stnAlt)
	pos := obs.Pos.Add(obs.Up.Scale(1000))

	tests := []struct {
		name string
		vel  Vec3
		want float64
	}{
		{"receding", obs.Vel.Add(obs.Up.Scale(3)), 3},
		{"approaching", obs.Vel.Add(obs.Up.Scale(-2)), -2},
		{"transverse", obs.Vel.Add(obs.East.Scale(5)), 0},
		{"co-rotating", obs.Vel, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo, err := LookAnglesWithRate(obs, pos, tt.vel)
			if err != nil {
				t.Fatalf("LookAnglesWithRate failed: %v", err)
			}
			if math.Abs(topo.RangeRateKmS-tt.want) > 1e-9 {
				t.Errorf("range rate = %.12f km/s, want %g", topo.RangeRateKmS, tt.want)
			}
		})
	}
}

// TestLookAnglesWithoutRate checks that the rate-free variant reports zero.
func TestLookAnglesWithoutRate(t *testing.T) {
	obs := mustObserver(t, 10, 20, 0)
	topo, err := LookAngles(obs, obs.Pos.Add(obs.Up.Scale(700)))
	if err != nil {
		t.Fatalf("LookAngles failed: %v", err)
	}
	if topo.RangeRateKmS != 0 {
		t.Errorf("range rate = %g, want exactly 0", topo.RangeRateKmS)
	}
}

func TestLookAnglesZeroRange(t *testing.T) {
	obs := mustObserver(t, stnLat, stnLon, stnAlt)
	_, err := LookAngles(obs, obs.Pos)
	if !errors.Is(err, ErrGeometryDegenerate) {
		t.Errorf("coincident target error = %v, want ErrGeometryDegenerate", err)
	}
}

// TestLookAnglesRanges sweeps target sites around the globe and checks the
// output stays in the documented ranges.
func TestLookAnglesRanges(t *testing.T) {
	obs := mustObserver(t, stnLat, stnLon, stnAlt)

	for lat := -80.0; lat <= 80.0; lat += 20 {
		for lon := -180.0; lon < 180.0; lon += 30 {
			target := mustObserver(t, lat, lon, 400000)
			topo, err := LookAngles(obs, target.Pos)
			if err != nil {
				t.Fatalf("LookAngles(%v, %v) failed: %v", lat, lon, err)
			}
			if topo.AzimuthDeg < 0 || topo.AzimuthDeg >= 360 {
				t.Errorf("azimuth %.6f outside [0,360) at lat=%v lon=%v", topo.AzimuthDeg, lat, lon)
			}
			if topo.ElevationDeg < -90 || topo.ElevationDeg > 90 {
				t.Errorf("elevation %.6f outside [-90,90] at lat=%v lon=%v", topo.ElevationDeg, lat, lon)
			}
			if topo.RangeKm <= 0 {
				t.Errorf("range %.6f not positive at lat=%v lon=%v", topo.RangeKm, lat, lon)
			}
		}
	}
}
