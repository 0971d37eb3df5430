// p13map renders an equirectangular world map PNG with the satellite
// ground track for one orbit, the coverage footprint, the day/night
// terminator and the station location.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/skytrack/plan13/internal/astrotime"
	"github.com/skytrack/plan13/internal/config"
	"github.com/skytrack/plan13/internal/mapproj"
	"github.com/skytrack/plan13/internal/propagation"
	"github.com/skytrack/plan13/internal/solar"
	"github.com/skytrack/plan13/internal/tle"
)

var (
	ocean      = color.RGBA{R: 10, G: 28, B: 54, A: 255}
	grid       = color.RGBA{R: 34, G: 58, B: 92, A: 255}
	trackColor = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	footColor  = color.RGBA{R: 0, G: 230, B: 130, A: 255}
	nightColor = color.RGBA{R: 120, G: 120, B: 150, A: 255}
	sunColor   = color.RGBA{R: 255, G: 220, B: 60, A: 255}
	stnColor   = color.RGBA{R: 255, G: 80, B: 80, A: 255}
	satColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func main() {
	configPath := flag.String("config", "", "station configuration TOML file")
	satName := flag.String("sat", "", "satellite name (default: first configured)")
	outPath := flag.String("out", "map.png", "output PNG path")
	width := flag.Int("width", 1024, "map width in pixels (height is width/2)")
	at := flag.String("t", "", "map time, RFC3339 (default: now)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath, logger)
	if err != nil {
		fmt.Println("ERROR loading configuration:", err)
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

	when := time.Now().UTC()
	if *at != "" {
		when, err = time.Parse(time.RFC3339, *at)
		if err != nil {
			fmt.Println("ERROR parsing -t:", err)
			os.Exit(1)
		}
	}
	t := astrotime.FromTime(when)

	w := *width
	if w < 64 {
		w = 64
	}
	h := w / 2
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	drawBackground(img, w, h)
	drawTerminator(img, t, w, h)
	drawGroundTrack(img, sat, t, w, h)
	drawFootprint(img, sat, t, w, h)
	drawStation(img, cfg.LatitudeDeg, cfg.LongitudeDeg, w, h)

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Println("ERROR creating output:", err)
		os.Exit(1)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		fmt.Println("ERROR encoding PNG:", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Println("ERROR closing output:", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%dx%d) for %s at %s\n", *outPath, w, h, es.Name, when.Format(time.RFC3339))
}

// drawBackground fills the ocean and a 30 degree graticule.
func drawBackground(img *image.RGBA, w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, ocean)
		}
	}
	for lon := -180; lon <= 180; lon += 30 {
		x := clampX(mapproj.LatLonToXY(0, float64(lon), w, h).X, w)
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, grid)
		}
	}
	for lat := -60; lat <= 60; lat += 30 {
		y := mapproj.LatLonToXY(float64(lat), 0, w, h).Y
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, grid)
		}
	}
}

// drawTerminator plots the day/night boundary and the sub-solar point.
func drawTerminator(img *image.RGBA, t astrotime.Time, w, h int) {
	sun := solar.Predict(t)
	lat, lon := sun.SubPoint()

	ring := make([]mapproj.Point, 2*w)
	n := mapproj.FootprintCircle(ring, lat, lon, sun.AngularRadius(), w, h)
	for _, p := range ring[:n] {
		plot(img, p, nightColor, w, h)
	}
	disc(img, mapproj.LatLonToXY(lat, lon, w, h), 3, sunColor, w, h)
}

// drawGroundTrack plots one orbital period of sub-satellite points
// starting at t, breaking the line at the dateline.
func drawGroundTrack(img *image.RGBA, sat *propagation.Satellite, t astrotime.Time, w, h int) {
	periodDays := 1.0 / sat.Elements.MeanMotion
	const stepSec = 10.0

	steps := int(periodDays * 86400 / stepSec)
	prev := mapproj.Point{X: -1, Y: -1}
	havePrev := false
	for i := 0; i <= steps; i++ {
		st, err := sat.Predict(t.Add(float64(i) * stepSec / 86400))
		if err != nil {
			havePrev = false
			continue
		}
		lat, lon := st.SubPoint()
		p := mapproj.LatLonToXY(lat, lon, w, h)
		if havePrev && abs(p.X-prev.X) <= w/2 {
			line(img, prev, p, trackColor, w, h)
		} else {
			plot(img, p, trackColor, w, h)
		}
		prev = p
		havePrev = true
	}

	// Satellite marker at t.
	if st, err := sat.Predict(t); err == nil {
		lat, lon := st.SubPoint()
		disc(img, mapproj.LatLonToXY(lat, lon, w, h), 2, satColor, w, h)
	}
}

// drawFootprint plots the coverage circle at t.
func drawFootprint(img *image.RGBA, sat *propagation.Satellite, t astrotime.Time, w, h int) {
	st, err := sat.Predict(t)
	if err != nil {
		return
	}
	lat, lon := st.SubPoint()
	ring := make([]mapproj.Point, 360)
	n := mapproj.FootprintCircle(ring, lat, lon, st.AngularRadius(), w, h)
	for _, p := range ring[:n] {
		plot(img, p, footColor, w, h)
	}
}

// drawStation marks the ground station with a small cross.
func drawStation(img *image.RGBA, latDeg, lonDeg float64, w, h int) {
	c := mapproj.LatLonToXY(latDeg, lonDeg, w, h)
	for d := -3; d <= 3; d++ {
		plot(img, mapproj.Point{X: c.X + d, Y: c.Y}, stnColor, w, h)
		plot(img, mapproj.Point{X: c.X, Y: c.Y + d}, stnColor, w, h)
	}
}

func plot(img *image.RGBA, p mapproj.Point, c color.RGBA, w, h int) {
	x := clampX(p.X, w)
	if p.Y < 0 || p.Y >= h {
		return
	}
	img.SetRGBA(x, p.Y, c)
}

// disc fills a small circle of radius r pixels.
func disc(img *image.RGBA, center mapproj.Point, r int, c color.RGBA, w, h int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				plot(img, mapproj.Point{X: center.X + dx, Y: center.Y + dy}, c, w, h)
			}
		}
	}
}

// line draws a straight segment between two nearby track points.
func line(img *image.RGBA, a, b mapproj.Point, c color.RGBA, w, h int) {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	steps := dx
	if dy > steps {
		steps = dy
	}
	if steps == 0 {
		plot(img, a, c, w, h)
		return
	}
	for i := 0; i <= steps; i++ {
		x := a.X + (b.X-a.X)*i/steps
		y := a.Y + (b.Y-a.Y)*i/steps
		plot(img, mapproj.Point{X: x, Y: y}, c, w, h)
	}
}

// clampX folds the one-past-the-edge pixel from longitude 180 back
// onto the map.
func clampX(x, w int) int {
	if x >= w {
		return w - 1
	}
	if x < 0 {
		return 0
	}
	return x
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
