package propagation

import (
	"fmt"
	"math"
	"strings"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/skytrack/plan13/internal/astrotime"
	"github.com/skytrack/plan13/internal/tle"
	"github.com/skytrack/plan13/internal/transform"
)

// SGP4 wraps github.com/joshuaferrara/go-satellite so the Plan-13 model can
// be compared against the full SGP4 theory. It is not on the tracking path.
//
// The library's Propagate takes its Satellite by value, so SGP4 error codes
// never reach the caller; failures are detected from the output instead.
type SGP4 struct {
	sat     satellite.Satellite
	catalog int
}

// NewSGP4 initializes an SGP4 model from the raw element lines.
//
// Lines are pre-validated because go-satellite calls log.Fatal on malformed
// input, which would kill the process.
func NewSGP4(es tle.ElementSet) (*SGP4, error) {
	if err := validateLines(es.Line1, es.Line2); err != nil {
		return nil, fmt.Errorf("invalid element lines for catalog %d: %w", es.CatalogNumber, err)
	}

	sat := satellite.TLEToSat(es.Line1, es.Line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("sgp4 init failed for catalog %d: code=%d %s",
			es.CatalogNumber, sat.Error, sat.ErrorStr)
	}
	return &SGP4{sat: sat, catalog: es.CatalogNumber}, nil
}

func validateLines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 {
		return fmt.Errorf("line 1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line 2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line 1 must start with '1', got %q", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line 2 must start with '2', got %q", line2[0])
	}
	return nil
}

// Propagate returns the TEME position and velocity (km, km/s) at t.
func (p *SGP4) Propagate(t astrotime.Time) (pos, vel transform.Vec3, err error) {
	year, month, day, hour, min, sec := t.Civil()
	pv, vv := satellite.Propagate(p.sat, year, month, day, hour, min, sec)

	if math.IsNaN(pv.X) || math.IsNaN(pv.Y) || math.IsNaN(pv.Z) ||
		math.IsInf(pv.X, 0) || math.IsInf(pv.Y, 0) || math.IsInf(pv.Z, 0) {
		return transform.Vec3{}, transform.Vec3{},
			fmt.Errorf("sgp4 propagation failed for catalog %d: output is NaN/Inf", p.catalog)
	}

	pos = transform.Vec3{X: pv.X, Y: pv.Y, Z: pv.Z}
	mag := pos.Norm()
	if mag < 6200.0 || mag > 50000.0 {
		return transform.Vec3{}, transform.Vec3{},
			fmt.Errorf("sgp4 propagation failed for catalog %d: unreasonable position magnitude %.1f km", p.catalog, mag)
	}

	vel = transform.Vec3{X: vv.X, Y: vv.Y, Z: vv.Z}
	return pos, vel, nil
}
