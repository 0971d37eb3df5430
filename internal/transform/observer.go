package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/skytrack/plan13/internal/astrotime"
)

// Oblate Earth figure.
const (
	EarthRadiusKm = 6378.137                          // equatorial radius
	Flattening    = 1.0 / 298.257224                  // WGS-84 flattening
	PolarRadiusKm = EarthRadiusKm * (1.0 - Flattening)
)

// ErrGeometryDegenerate is returned when look angles are undefined: a site at
// a pole (the east direction degenerates) or a target coincident with the
// observer (zero range).
var ErrGeometryDegenerate = errors.New("transform: degenerate geometry")

// Observer is a ground station. The site position and velocity and the
// topocentric unit vectors are precomputed once and reused for every lookup.
type Observer struct {
	Name   string
	LatDeg float64
	LonDeg float64
	AltM   float64

	Pos Vec3 // geocentric site position, km
	Vel Vec3 // site velocity from Earth rotation, km/s

	// Topocentric frame unit vectors (geocentric components).
	Up    Vec3
	East  Vec3
	North Vec3
}

// NewObserver creates an Observer from geodetic coordinates. Latitude and
// longitude are in degrees, altitude in meters above sea level. Latitudes at
// or beyond the poles are rejected.
func NewObserver(name string, latDeg, lonDeg, altMeters float64) (*Observer, error) {
	if !(math.Abs(latDeg) < 90) { // also rejects NaN
		return nil, fmt.Errorf("transform: observer latitude %v deg: %w", latDeg, ErrGeometryDegenerate)
	}

	lat := latDeg * math.Pi / 180.0
	lon := lonDeg * math.Pi / 180.0
	alt := altMeters / 1000.0

	cosLat := math.Cos(lat)
	sinLat := math.Sin(lat)
	cosLon := math.Cos(lon)
	sinLon := math.Sin(lon)

	obs := &Observer{
		Name:   name,
		LatDeg: latDeg,
		LonDeg: lonDeg,
		AltM:   altMeters,
		Up:     Vec3{cosLat * cosLon, cosLat * sinLon, sinLat},
		East:   Vec3{-sinLon, cosLon, 0},
		North:  Vec3{-sinLat * cosLon, -sinLat * sinLon, cosLat},
	}

	// Distance from the Earth's axis and the equatorial plane for the oblate
	// figure, then the site position along the up direction.
	d := math.Sqrt(EarthRadiusKm*EarthRadiusKm*cosLat*cosLat + PolarRadiusKm*PolarRadiusKm*sinLat*sinLat)
	rx := EarthRadiusKm*EarthRadiusKm/d + alt
	rz := PolarRadiusKm*PolarRadiusKm/d + alt

	obs.Pos = Vec3{rx * obs.Up.X, rx * obs.Up.Y, rz * obs.Up.Z}
	obs.Vel = Vec3{-obs.Pos.Y * astrotime.OmegaEarth, obs.Pos.X * astrotime.OmegaEarth, 0}

	return obs, nil
}
