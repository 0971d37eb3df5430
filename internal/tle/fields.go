package tle

import (
	"fmt"
	"strconv"
	"strings"
)

// field is a fixed-column slice of a TLE line (0-indexed, half-open).
// No checksum verification is done anywhere: the columns below are the only
// parts of the lines this package interprets.
type field struct {
	start, end int
	name       string
}

// Line 1 fields.
var (
	fCatalog   = field{2, 7, "catalog number"}
	fEpochYear = field{18, 20, "epoch year"}
	fEpochDay  = field{20, 32, "epoch day"}
	fMMDot2    = field{33, 43, "mean motion derivative"}
)

// Line 2 fields.
var (
	fInclination = field{8, 16, "inclination"}
	fRAAN        = field{17, 25, "right ascension"}
	fEcc         = field{26, 33, "eccentricity"}
	fArgPerigee  = field{34, 42, "argument of perigee"}
	fMeanAnomaly = field{43, 51, "mean anomaly"}
	fMeanMotion  = field{52, 63, "mean motion"}
	fRevNumber   = field{63, 68, "revolution number"}
)

func (f field) cut(line string) (string, error) {
	if len(line) < f.end {
		return "", fmt.Errorf("tle: line too short for %s (%d < %d)", f.name, len(line), f.end)
	}
	return strings.TrimSpace(line[f.start:f.end]), nil
}

func (f field) float(line string) (float64, error) {
	s, err := f.cut(line)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("tle: invalid %s %q", f.name, s)
	}
	return v, nil
}

func (f field) int(line string) (int64, error) {
	s, err := f.cut(line)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("tle: invalid %s %q", f.name, s)
	}
	return v, nil
}
