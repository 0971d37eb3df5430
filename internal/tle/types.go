package tle

import (
	"strings"
	"time"

	"github.com/skytrack/plan13/internal/astrotime"
)

// ElementSet holds one satellite's orbital elements as read from a two-line
// element set. Angles stay in degrees and rates in revolutions per day at
// this layer; the propagator converts on construction.
type ElementSet struct {
	Name          string
	CatalogNumber int

	EpochYear int     // full year
	EpochDay  float64 // day of year with fraction, 1-based

	MeanMotionDot2 float64 // first derivative of mean motion / 2, rev/day^2
	InclinationDeg float64
	RAANDeg        float64
	Eccentricity   float64
	ArgPerigeeDeg  float64
	MeanAnomalyDeg float64
	MeanMotion     float64 // rev/day
	RevNumber      int64   // revolution number at epoch

	// Raw lines, kept verbatim for handing off to SGP4 tooling.
	Line1 string
	Line2 string
}

// Epoch returns the element set epoch on the day-number time scale.
func (es *ElementSet) Epoch() astrotime.Time {
	whole := int64(es.EpochDay)
	return astrotime.Time{
		DN: astrotime.DayNumber(es.EpochYear, 1, 0) + whole,
		TN: es.EpochDay - float64(whole),
	}
}

// Dataset is a parsed collection of element sets from one source.
type Dataset struct {
	Source   string
	LoadedAt time.Time
	Sets     []ElementSet
}

// Find returns the element set whose name matches (case-insensitive), or nil.
func (d *Dataset) Find(name string) *ElementSet {
	for i := range d.Sets {
		if strings.EqualFold(d.Sets[i].Name, name) {
			return &d.Sets[i]
		}
	}
	return nil
}

// FindCatalog returns the element set with the given catalog number, or nil.
func (d *Dataset) FindCatalog(num int) *ElementSet {
	for i := range d.Sets {
		if d.Sets[i].CatalogNumber == num {
			return &d.Sets[i]
		}
	}
	return nil
}
