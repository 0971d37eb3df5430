package transform

import (
	"errors"
	"math"
	"testing"
)

// Reference station used across the packages' tests.
const (
	stnLat = 48.661563
	stnLon = 9.779416
	stnAlt = 386.0
)

func TestNewObserverFrameOrthonormal(t *testing.T) {
	obs, err := NewObserver("test", stnLat, stnLon, stnAlt)
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	const tol = 1e-12

	for _, v := range []struct {
		name string
		vec  Vec3
	}{
		{"up", obs.Up}, {"east", obs.East}, {"north", obs.North},
	} {
		if d := math.Abs(v.vec.Norm() - 1); d > tol {
			t.Errorf("%s vector norm off unit by %.2e", v.name, d)
		}
	}

	if d := math.Abs(obs.Up.Dot(obs.East)); d > tol {
		t.Errorf("up.east = %.2e, want 0", d)
	}
	if d := math.Abs(obs.Up.Dot(obs.North)); d > tol {
		t.Errorf("up.north = %.2e, want 0", d)
	}
	if d := math.Abs(obs.East.Dot(obs.North)); d > tol {
		t.Errorf("east.north = %.2e, want 0", d)
	}

	// Right-handed: up x east = north.
	n := obs.Up.Cross(obs.East)
	if d := n.Sub(obs.North).Norm(); d > tol {
		t.Errorf("up x east differs from north by %.2e", d)
	}
}

func TestNewObserverPositionMagnitude(t *testing.T) {
	obs, err := NewObserver("test", stnLat, stnLon, stnAlt)
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	mag := obs.Pos.Norm()
	if mag < PolarRadiusKm || mag > EarthRadiusKm+stnAlt/1000.0+0.5 {
		t.Errorf("site position magnitude %.3f km outside [%.3f, %.3f]", mag, PolarRadiusKm, EarthRadiusKm+0.9)
	}
	if obs.Pos.Z <= 0 {
		t.Errorf("northern site has non-positive z: %.3f", obs.Pos.Z)
	}
}

func TestNewObserverEquator(t *testing.T) {
	obs, err := NewObserver("equator", 0, 0, 0)
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	// Sea-level site on the equator at the prime meridian sits exactly on the
	// geocentric x axis at the equatorial radius.
	if math.Abs(obs.Pos.X-EarthRadiusKm) > 1e-9 || math.Abs(obs.Pos.Y) > 1e-9 || math.Abs(obs.Pos.Z) > 1e-9 {
		t.Errorf("equator site position = %+v, want (%.3f, 0, 0)", obs.Pos, EarthRadiusKm)
	}

	// Rotation carries the site eastward at ~0.465 km/s.
	if math.Abs(obs.Vel.Y-0.4651) > 1e-3 || math.Abs(obs.Vel.X) > 1e-12 || obs.Vel.Z != 0 {
		t.Errorf("equator site velocity = %+v, want (0, ~0.4651, 0)", obs.Vel)
	}
}

func TestNewObserverVelocity(t *testing.T) {
	obs, err := NewObserver("test", stnLat, stnLon, stnAlt)
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	if obs.Vel.Z != 0 {
		t.Errorf("site velocity has vertical component %.2e", obs.Vel.Z)
	}
	// Velocity is perpendicular to the position's projection on the equator.
	if d := math.Abs(obs.Vel.Dot(obs.Pos)); d > 1e-9 {
		t.Errorf("vel.pos = %.2e, want 0", d)
	}
	// Magnitude is omega times the distance from the axis.
	rho := math.Hypot(obs.Pos.X, obs.Pos.Y)
	want := rho * 7.2921158e-5
	if d := math.Abs(obs.Vel.Norm() - want); d > 1e-6 {
		t.Errorf("site speed = %.6f km/s, want %.6f", obs.Vel.Norm(), want)
	}
}

func TestNewObserverRejectsPoles(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
	}{
		{"north pole", 90},
		{"south pole", -90},
		{"beyond north", 90.0001},
		{"beyond south", -123},
		{"nan", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewObserver("bad", tt.lat, 0, 0)
			if err == nil {
				t.Fatalf("NewObserver(lat=%v) succeeded, want error", tt.lat)
			}
			if !errors.Is(err, ErrGeometryDegenerate) {
				t.Errorf("error = %v, want ErrGeometryDegenerate", err)
			}
		})
	}
}

func TestNewObserverAltitude(t *testing.T) {
	low, err := NewObserver("low", 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	high, err := NewObserver("high", 0, 0, 1000)
	if err != nil {
		t.Fatal(err)
	}

	diff := high.Pos.Norm() - low.Pos.Norm()
	if math.Abs(diff-1.0) > 1e-9 {
		t.Errorf("1000 m of altitude moved the site by %.6f km, want 1.0", diff)
	}
}
