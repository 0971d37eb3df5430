package tle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ErrNoElements is returned when parsing yields no usable element sets.
var ErrNoElements = errors.New("tle: no element sets found")

// ParseLines parses a single element set. The name may be empty; lines must
// be the classic fixed-column format. Errors name the offending field.
func ParseLines(name, line1, line2 string) (ElementSet, error) {
	var es ElementSet

	if !strings.HasPrefix(line1, "1 ") {
		return es, fmt.Errorf("tle: line 1 must start with %q", "1 ")
	}
	if !strings.HasPrefix(line2, "2 ") {
		return es, fmt.Errorf("tle: line 2 must start with %q", "2 ")
	}

	name = strings.TrimSpace(name)
	// Some catalogs prefix name lines with "0 " (3LE format).
	name = strings.TrimPrefix(name, "0 ")

	catalog, err := fCatalog.int(line1)
	if err != nil {
		return es, err
	}
	year, err := fEpochYear.int(line1)
	if err != nil {
		return es, err
	}
	// Two-digit year: 57 and below is the 2000s, 58 and up the 1900s.
	if year < 58 {
		year += 2000
	} else {
		year += 1900
	}
	epochDay, err := fEpochDay.float(line1)
	if err != nil {
		return es, err
	}
	mmdot2, err := fMMDot2.float(line1)
	if err != nil {
		return es, err
	}

	inc, err := fInclination.float(line2)
	if err != nil {
		return es, err
	}
	raan, err := fRAAN.float(line2)
	if err != nil {
		return es, err
	}
	eccRaw, err := fEcc.float(line2)
	if err != nil {
		return es, err
	}
	argp, err := fArgPerigee.float(line2)
	if err != nil {
		return es, err
	}
	ma, err := fMeanAnomaly.float(line2)
	if err != nil {
		return es, err
	}
	mm, err := fMeanMotion.float(line2)
	if err != nil {
		return es, err
	}
	rev, err := fRevNumber.int(line2)
	if err != nil {
		return es, err
	}

	es = ElementSet{
		Name:           name,
		CatalogNumber:  int(catalog),
		EpochYear:      int(year),
		EpochDay:       epochDay,
		MeanMotionDot2: mmdot2,
		InclinationDeg: inc,
		RAANDeg:        raan,
		Eccentricity:   eccRaw / 1e7, // field has an implied leading decimal
		ArgPerigeeDeg:  argp,
		MeanAnomalyDeg: ma,
		MeanMotion:     mm,
		RevNumber:      rev,
		Line1:          line1,
		Line2:          line2,
	}
	return es, nil
}

// Parse reads element sets from r. Both the 3-line form (name, line 1,
// line 2) and the bare 2-line form are accepted, mixed freely. Malformed
// groups are skipped with a warning log. An input with no usable sets is an
// error.
func Parse(r io.Reader, logger *slog.Logger) ([]ElementSet, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading TLE data: %w", err)
	}

	var sets []ElementSet
	for i := 0; i < len(lines); {
		// Bare element set without a name line.
		if strings.HasPrefix(lines[i], "1 ") {
			if i+1 >= len(lines) || !strings.HasPrefix(lines[i+1], "2 ") {
				logger.Warn("skipping dangling TLE line 1", "line_index", i)
				i++
				continue
			}
			es, err := ParseLines("", lines[i], lines[i+1])
			if err != nil {
				logger.Warn("skipping malformed TLE entry", "line_index", i, "error", err)
				i += 2
				continue
			}
			sets = append(sets, es)
			i += 2
			continue
		}

		// Named element set.
		if i+2 >= len(lines) || !strings.HasPrefix(lines[i+1], "1 ") || !strings.HasPrefix(lines[i+2], "2 ") {
			logger.Warn("skipping malformed TLE entry", "line_index", i, "name", lines[i])
			i++
			continue
		}
		es, err := ParseLines(lines[i], lines[i+1], lines[i+2])
		if err != nil {
			logger.Warn("skipping malformed TLE entry", "line_index", i, "name", lines[i], "error", err)
			i += 3
			continue
		}
		sets = append(sets, es)
		i += 3
	}

	if len(sets) == 0 {
		return nil, ErrNoElements
	}
	return sets, nil
}

// LoadFile reads and parses a TLE file.
func LoadFile(path string, logger *slog.Logger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening TLE file: %w", err)
	}
	defer f.Close()

	sets, err := Parse(f, logger)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &Dataset{Source: path, LoadedAt: time.Now(), Sets: sets}, nil
}
