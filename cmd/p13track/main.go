// p13track is the station tracking daemon. It loads a two-line element
// file (or fetches one), then logs look angles, Doppler-corrected
// frequencies and sub-satellite points for the configured satellites at
// a fixed interval. SIGHUP reloads the element sets.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skytrack/plan13/internal/astrotime"
	"github.com/skytrack/plan13/internal/catalog"
	"github.com/skytrack/plan13/internal/config"
	"github.com/skytrack/plan13/internal/metrics"
	"github.com/skytrack/plan13/internal/passes"
	"github.com/skytrack/plan13/internal/propagation"
	"github.com/skytrack/plan13/internal/tle"
	"github.com/skytrack/plan13/internal/transform"
)

func main() {
	configPath := flag.String("config", "", "station configuration TOML file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load(*configPath, logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	obs, err := cfg.Observer()
	if err != nil {
		logger.Error("invalid station coordinates", "error", err)
		os.Exit(1)
	}

	store := tle.NewStore()
	var fetcher *tle.Fetcher
	if cfg.ElementsURL != "" {
		fetcher = tle.NewFetcher(cfg.ElementsURL, logger)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loadElements(ctx, cfg, store, fetcher, logger); err != nil {
		logger.Error("loading elements failed", "error", err)
		os.Exit(1)
	}

	tracker := propagation.NewTracker(store, logger)
	logNextPasses(cfg, obs, tracker, logger)

	// Reload element sets on SIGHUP.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-hup:
				logger.Info("reloading element sets")
				if err := loadElements(ctx, cfg, store, fetcher, logger); err != nil {
					logger.Warn("element reload failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Background goroutine to update the element age gauge.
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if age := store.AgeSeconds(); age >= 0 {
					metrics.SetElementsAge(age)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	var metricsSrv *http.Server
	if cfg.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsListen, Handler: mux}
		go func() {
			logger.Info("metrics server listening", "addr", cfg.MetricsListen)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
				os.Exit(1)
			}
		}()
	}

	logger.Info("tracking started",
		"station", obs.Name,
		"satellites", cfg.Satellites,
		"step", cfg.Step.String(),
	)

	ticker := time.NewTicker(cfg.Step)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			trackOnce(cfg, obs, tracker, logger)
		case <-ctx.Done():
			logger.Info("shutting down")
			if metricsSrv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
					logger.Error("metrics server shutdown error", "error", err)
				}
			}
			logger.Info("stopped")
			return
		}
	}
}

// loadElements replaces the store contents from the configured source.
func loadElements(ctx context.Context, cfg *config.Config, store *tle.Store, fetcher *tle.Fetcher, logger *slog.Logger) error {
	var (
		ds  *tle.Dataset
		err error
	)
	if fetcher != nil {
		ds, err = fetcher.FetchDataset(ctx)
	} else {
		ds, err = tle.LoadFile(cfg.ElementsFile, logger)
	}
	if err != nil {
		return err
	}
	store.Set(ds)
	logger.Info("elements loaded",
		"source", ds.Source,
		"sets", len(ds.Sets),
	)
	return nil
}

// trackOnce predicts every configured satellite at the current time and
// logs one record per satellite.
func trackOnce(cfg *config.Config, obs *transform.Observer, tracker *propagation.Tracker, logger *slog.Logger) {
	now := astrotime.FromTime(time.Now().UTC())

	for _, name := range cfg.Satellites {
		sat, err := tracker.SatelliteByName(name)
		if err != nil {
			logger.Warn("satellite not available", "satellite", name, "error", err)
			continue
		}
		st, err := sat.Predict(now)
		if err != nil {
			logger.Warn("prediction failed", "satellite", name, "error", err)
			continue
		}
		topo, err := st.Topocentric(obs)
		if err != nil {
			logger.Warn("look angles failed", "satellite", name, "error", err)
			continue
		}
		subLat, subLon := st.SubPoint()

		attrs := []any{
			"satellite", name,
			"azimuth", topo.AzimuthDeg,
			"elevation", topo.ElevationDeg,
			"range_km", topo.RangeKm,
			"range_rate_kms", topo.RangeRateKmS,
			"sub_lat", subLat,
			"sub_lon", subLon,
			"altitude_km", st.AltitudeKm(),
			"orbit", st.OrbitNumber,
			"visible", topo.ElevationDeg > 0,
		}
		if down, up := frequencies(cfg, sat); down > 0 {
			attrs = append(attrs,
				"downlink_mhz", propagation.Doppler(down, topo.RangeRateKmS, propagation.Downlink),
			)
			if up > 0 {
				attrs = append(attrs,
					"uplink_mhz", propagation.Doppler(up, topo.RangeRateKmS, propagation.Uplink),
				)
			}
		}
		logger.Info("track", attrs...)
	}

	metrics.RecordTrackerUpdate()
}

// logNextPasses reports the next pass for each tracked satellite so an
// operator sees at startup when to expect activity.
func logNextPasses(cfg *config.Config, obs *transform.Observer, tracker *propagation.Tracker, logger *slog.Logger) {
	start := astrotime.FromTime(time.Now().UTC())
	for _, name := range cfg.Satellites {
		sat, err := tracker.SatelliteByName(name)
		if err != nil {
			continue
		}
		found, err := passes.Predict(passes.Request{
			Observer:        obs,
			Satellite:       sat,
			Start:           start,
			HorizonHours:    cfg.HorizonHours,
			MinElevationDeg: cfg.MinElevationDeg,
			MaxPasses:       1,
		})
		if err != nil || len(found) == 0 {
			logger.Info("no pass in horizon", "satellite", name, "horizon_hours", cfg.HorizonHours)
			continue
		}
		p := found[0]
		logger.Info("next pass",
			"satellite", name,
			"aos", p.AOS.Format(time.RFC3339),
			"los", p.LOS.Format(time.RFC3339),
			"max_elevation", p.MaxElevationDeg,
			"aos_azimuth", p.AOSAzimuthDeg,
			"duration_seconds", p.DurationSeconds,
		)
	}
}

// frequencies picks the transponder pair: config overrides win, then
// the built-in catalog, then silence.
func frequencies(cfg *config.Config, sat *propagation.Satellite) (downMHz, upMHz float64) {
	if cfg.DownlinkMHz > 0 {
		return cfg.DownlinkMHz, cfg.UplinkMHz
	}
	if tr := catalog.ByCatalogNumber(sat.Elements.CatalogNumber); tr != nil {
		return tr.DownlinkMHz, tr.UplinkMHz
	}
	if tr := catalog.ByName(sat.Elements.Name); tr != nil {
		return tr.DownlinkMHz, tr.UplinkMHz
	}
	return 0, 0
}
