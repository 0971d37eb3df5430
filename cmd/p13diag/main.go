// p13diag prints a station diagnostic: the loaded element sets, the
// current look angles for one satellite, its upcoming passes, and a
// cross-check of the orbit model against SGP4 when raw element lines
// are available.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/skytrack/plan13/internal/astrotime"
	"github.com/skytrack/plan13/internal/config"
	"github.com/skytrack/plan13/internal/passes"
	"github.com/skytrack/plan13/internal/propagation"
	"github.com/skytrack/plan13/internal/tle"
	"github.com/skytrack/plan13/internal/transform"
)

func main() {
	configPath := flag.String("config", "", "station configuration TOML file")
	satName := flag.String("sat", "", "satellite name (default: first configured)")
	hours := flag.Float64("hours", 0, "pass look-ahead hours (default: configured horizon)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath, logger)
	if err != nil {
		fmt.Println("ERROR loading configuration:", err)
		os.Exit(1)
	}
	obs, err := cfg.Observer()
	if err != nil {
		fmt.Println("ERROR building observer:", err)
		os.Exit(1)
	}

	var ds *tle.Dataset
	if cfg.ElementsURL != "" {
		ds, err = tle.NewFetcher(cfg.ElementsURL, logger).FetchDataset(context.Background())
	} else {
		ds, err = tle.LoadFile(cfg.ElementsFile, logger)
	}
	if err != nil {
		fmt.Println("ERROR loading elements:", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d element sets from %s\n", len(ds.Sets), ds.Source)

	name := *satName
	if name == "" && len(cfg.Satellites) > 0 {
		name = cfg.Satellites[0]
	}
	es := ds.Find(name)
	if es == nil {
		fmt.Printf("ERROR satellite %q not in dataset\n", name)
		os.Exit(1)
	}

	sat, err := propagation.NewSatellite(*es)
	if err != nil {
		fmt.Println("ERROR building orbit model:", err)
		os.Exit(1)
	}

	epoch := sat.Epoch()
	fmt.Printf("\nStation:   %s (%.4f, %.4f, %.0fm)\n", obs.Name, obs.LatDeg, obs.LonDeg, obs.AltM)
	fmt.Printf("Satellite: %s (catalog %d)\n", es.Name, es.CatalogNumber)
	fmt.Printf("Epoch:     %s (orbit %d)\n", epoch.ToTime().Format(time.RFC3339), es.RevNumber)

	now := astrotime.FromTime(time.Now().UTC())
	printCurrent(sat, obs, now)

	horizon := cfg.HorizonHours
	if *hours > 0 {
		horizon = *hours
	}
	printPasses(sat, obs, now, horizon, cfg.MinElevationDeg)

	printComparison(sat, *es)
}

func printCurrent(sat *propagation.Satellite, obs *transform.Observer, now astrotime.Time) {
	st, err := sat.Predict(now)
	if err != nil {
		fmt.Println("\nPrediction failed:", err)
		return
	}
	topo, err := st.Topocentric(obs)
	if err != nil {
		fmt.Println("\nLook angles failed:", err)
		return
	}
	subLat, subLon := st.SubPoint()

	fmt.Printf("\nNow (%s):\n", now.ToTime().Format(time.RFC3339))
	fmt.Printf("  azimuth %7.2f°  elevation %7.2f°  range %8.1f km  rate %+6.2f km/s\n",
		topo.AzimuthDeg, topo.ElevationDeg, topo.RangeKm, topo.RangeRateKmS)
	fmt.Printf("  sub-point %+8.3f°, %+9.3f°  altitude %7.1f km  orbit %d\n",
		subLat, subLon, st.AltitudeKm(), st.OrbitNumber)
	fmt.Printf("  footprint radius %.1f° (%s)\n",
		st.AngularRadius()*180/math.Pi, visibility(topo.ElevationDeg))
}

func visibility(elevationDeg float64) string {
	if elevationDeg > 0 {
		return "above the horizon"
	}
	return "below the horizon"
}

func printPasses(sat *propagation.Satellite, obs *transform.Observer, now astrotime.Time, horizonHours, minElevation float64) {
	found, err := passes.Predict(passes.Request{
		Observer:        obs,
		Satellite:       sat,
		Start:           now,
		HorizonHours:    horizonHours,
		MinElevationDeg: minElevation,
	})
	if err != nil {
		fmt.Println("\nPass prediction failed:", err)
		return
	}

	fmt.Printf("\nPasses in the next %.0fh above %.0f°:\n", horizonHours, minElevation)
	if len(found) == 0 {
		fmt.Println("  none")
		return
	}
	fmt.Println("  AOS                   LOS        max el   az@max    dur  orbit")
	for _, p := range found {
		fmt.Printf("  %s   %s  %6.1f°  %6.1f°  %4.0fs  %d\n",
			p.AOS.Format("2006-01-02 15:04:05"),
			p.LOS.Format("15:04:05"),
			p.MaxElevationDeg,
			p.MaxElevationAzDeg,
			p.DurationSeconds,
			p.OrbitNumber,
		)
	}
}

// printComparison propagates the same elements through SGP4 and reports
// the position disagreement over two hours around the epoch. The two
// models interpret mean elements differently, so tens of kilometres is
// the expected order.
func printComparison(sat *propagation.Satellite, es tle.ElementSet) {
	sgp4, err := propagation.NewSGP4(es)
	if err != nil {
		fmt.Printf("\nSGP4 cross-check skipped: %v\n", err)
		return
	}

	fmt.Println("\nSGP4 cross-check (celestial frame):")
	fmt.Println("  offset     |Δr| km")
	worst := 0.0
	for k := 0; k <= 8; k++ {
		t := sat.Epoch().Add(float64(k) * 15 * 60 / 86400)
		st, err := sat.Predict(t)
		if err != nil {
			fmt.Printf("  +%3dm   prediction failed: %v\n", k*15, err)
			continue
		}
		refPos, _, err := sgp4.Propagate(t)
		if err != nil {
			fmt.Printf("  +%3dm   sgp4 failed: %v\n", k*15, err)
			continue
		}
		diff := st.PosCelestial.Sub(refPos).Norm()
		if diff > worst {
			worst = diff
		}
		fmt.Printf("  +%3dm   %7.2f\n", k*15, diff)
	}
	fmt.Printf("  worst   %7.2f\n", worst)
	if worst > 100 {
		fmt.Println("  WARNING: disagreement above 100 km, check the element set age")
	}
}
