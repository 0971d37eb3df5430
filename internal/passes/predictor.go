// Package passes predicts satellite passes over a ground station.
//
// The predictor scans the look-ahead window in coarse steps until the
// satellite clears the horizon, then backs up one coarse step and walks
// the pass at one second resolution to fix the rise, culmination and
// set times.
package passes

import (
	"errors"
	"math"
	"time"

	"github.com/skytrack/plan13/internal/astrotime"
	"github.com/skytrack/plan13/internal/metrics"
	"github.com/skytrack/plan13/internal/propagation"
	"github.com/skytrack/plan13/internal/transform"
)

const (
	coarseStepSec = 30
	fineStepSec   = 1

	coarseStep = coarseStepSec / 86400.0
	fineStep   = fineStepSec / 86400.0

	// Passes shorter than this are scan artifacts, not usable passes.
	minPassSeconds = 10.0

	defaultHorizonHours = 24.0
)

var errBadRequest = errors.New("passes: observer and satellite are required")

// Pass is one interval during which the satellite stays above the
// requested minimum elevation.
type Pass struct {
	// AOS and LOS bound the pass; TCA is the moment of peak elevation.
	AOS time.Time
	TCA time.Time
	LOS time.Time

	DurationSeconds float64

	AOSAzimuthDeg float64
	LOSAzimuthDeg float64

	MaxElevationDeg   float64
	MaxElevationAzDeg float64

	// MaxRangeRateKmS is the largest absolute range rate seen during
	// the pass, which bounds the Doppler swing.
	MaxRangeRateKmS float64

	// OrbitNumber is the revolution number at culmination.
	OrbitNumber int64
}

// Request describes a pass search for a single satellite.
type Request struct {
	Observer  *transform.Observer
	Satellite *propagation.Satellite

	// Start of the search window. The scan begins at the next whole
	// coarse step after this time.
	Start astrotime.Time

	// HorizonHours is the window length; zero means 24 hours.
	HorizonHours float64

	// MinElevationDeg is the elevation a pass must reach. AOS and LOS
	// are the crossings of this elevation, not of the horizon.
	MinElevationDeg float64

	// MaxPasses caps the number of passes returned; zero means no cap.
	MaxPasses int
}

// Predict scans the request window and returns the passes found, in
// time order. A satellite that never drops below the minimum elevation
// yields a single pass spanning the whole window.
func Predict(req Request) ([]Pass, error) {
	if req.Observer == nil || req.Satellite == nil {
		return nil, errBadRequest
	}
	horizon := req.HorizonHours
	if horizon <= 0 {
		horizon = defaultHorizonHours
	}

	start := req.Start.RoundUp(coarseStep)
	end := start.Add(horizon / 24)

	// The coarse scan watches for the satellite clearing the horizon
	// rather than the minimum elevation, so short peaks just above the
	// threshold are not stepped over.
	coarseFloor := math.Min(0, req.MinElevationDeg)

	var passes []Pass
	t := start
	for t.Before(end) {
		if req.MaxPasses > 0 && len(passes) >= req.MaxPasses {
			break
		}
		_, topo, ok := sampleAt(req, t)
		if !ok || topo.ElevationDeg <= coarseFloor {
			t = t.Add(coarseStep)
			continue
		}
		pass, resume, found := refinePass(req, t, start, end)
		if found && pass.DurationSeconds >= minPassSeconds {
			passes = append(passes, pass)
		}
		t = resume.Add(coarseStep)
	}

	metrics.RecordPassesFound(len(passes))
	return passes, nil
}

// refinePass walks the window at fine resolution starting one coarse
// step before the hit, and returns the first complete pass along with
// the time the outer scan should resume from.
func refinePass(req Request, coarseHit, windowStart, windowEnd astrotime.Time) (Pass, astrotime.Time, bool) {
	t := coarseHit.Add(-coarseStep)
	if t.Before(windowStart) {
		t = windowStart
	}

	var (
		pass          Pass
		aos, tca, los astrotime.Time
		foundRise     bool
		foundSet      bool
		wasAbove      bool
	)

	for t.Before(windowEnd) {
		st, topo, ok := sampleAt(req, t)
		if !ok {
			t = t.Add(fineStep)
			continue
		}
		above := topo.ElevationDeg >= req.MinElevationDeg

		if above && !wasAbove {
			foundRise = true
			aos = t
			pass.AOSAzimuthDeg = topo.AzimuthDeg
			tca = t
			pass.MaxElevationDeg = topo.ElevationDeg
			pass.MaxElevationAzDeg = topo.AzimuthDeg
			pass.OrbitNumber = st.OrbitNumber
			pass.MaxRangeRateKmS = math.Abs(topo.RangeRateKmS)
		}
		if above && foundRise {
			if topo.ElevationDeg > pass.MaxElevationDeg {
				tca = t
				pass.MaxElevationDeg = topo.ElevationDeg
				pass.MaxElevationAzDeg = topo.AzimuthDeg
				pass.OrbitNumber = st.OrbitNumber
			}
			if rr := math.Abs(topo.RangeRateKmS); rr > pass.MaxRangeRateKmS {
				pass.MaxRangeRateKmS = rr
			}
		}
		if !above && wasAbove && foundRise {
			los = t
			pass.LOSAzimuthDeg = topo.AzimuthDeg
			foundSet = true
			break
		}

		wasAbove = above
		t = t.Add(fineStep)
	}

	// Still above at the end of the window: close the pass there.
	if foundRise && !foundSet && wasAbove {
		los = t
		if _, topo, ok := sampleAt(req, t); ok {
			pass.LOSAzimuthDeg = topo.AzimuthDeg
		}
		foundSet = true
	}

	if !foundRise || !foundSet {
		return Pass{}, t, false
	}

	pass.AOS = aos.ToTime()
	pass.TCA = tca.ToTime()
	pass.LOS = los.ToTime()
	pass.DurationSeconds = los.Sub(aos) * 86400
	return pass, los, true
}

func sampleAt(req Request, t astrotime.Time) (propagation.State, transform.Topo, bool) {
	st, err := req.Satellite.Predict(t)
	if err != nil {
		return propagation.State{}, transform.Topo{}, false
	}
	topo, err := st.Topocentric(req.Observer)
	if err != nil {
		return propagation.State{}, transform.Topo{}, false
	}
	return st, topo, true
}
