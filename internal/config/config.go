// Package config loads ground station settings from a TOML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/skytrack/plan13/internal/transform"
)

// Config holds everything the tracking programs need: where the station
// is, which elements to load, and how to scan for passes.
type Config struct {
	StationName  string
	LatitudeDeg  float64
	LongitudeDeg float64
	AltitudeM    float64

	// ElementsFile is the two-line element file to load and watch.
	ElementsFile string

	// ElementsURL, when set, is fetched instead of reading ElementsFile.
	// Reloads re-fetch the same URL.
	ElementsURL string

	// Satellites lists the names to track, matched case-insensitively
	// against the loaded element sets.
	Satellites []string

	// Step is the tracking loop interval.
	Step time.Duration

	HorizonHours    float64
	MinElevationDeg float64
	MaxPasses       int

	// DownlinkMHz and UplinkMHz override the transponder catalog when
	// non-zero.
	DownlinkMHz float64
	UplinkMHz   float64

	// MetricsListen is the Prometheus listen address; empty disables
	// the metrics server.
	MetricsListen string
}

// Observer builds the station observer from the configured coordinates.
func (c *Config) Observer() (*transform.Observer, error) {
	return transform.NewObserver(c.StationName, c.LatitudeDeg, c.LongitudeDeg, c.AltitudeM)
}

// Load reads the configuration at path, or searches the working
// directory for station.toml when path is empty. Every key can be
// overridden through the environment with a P13_ prefix, for example
// P13_STATION_LATITUDE.
func Load(path string, logger *slog.Logger) (*Config, error) {
	v := viper.New()

	v.SetDefault("station.name", "station")
	v.SetDefault("station.latitude", 48.661563)
	v.SetDefault("station.longitude", 9.779416)
	v.SetDefault("station.altitude", 386.0)
	v.SetDefault("elements.file", "tle.txt")
	v.SetDefault("elements.url", "")
	v.SetDefault("tracking.satellites", []string{"ISS (ZARYA)"})
	v.SetDefault("tracking.step", "5s")
	v.SetDefault("passes.horizon_hours", 24.0)
	v.SetDefault("passes.min_elevation", 0.0)
	v.SetDefault("passes.max", 10)
	v.SetDefault("radio.downlink_mhz", 0.0)
	v.SetDefault("radio.uplink_mhz", 0.0)
	v.SetDefault("metrics.listen", "")

	v.SetEnvPrefix("P13")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("station")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
			logger.Info("no station.toml found, using defaults")
		}
	}

	cfg := &Config{
		StationName:     v.GetString("station.name"),
		LatitudeDeg:     v.GetFloat64("station.latitude"),
		LongitudeDeg:    v.GetFloat64("station.longitude"),
		AltitudeM:       v.GetFloat64("station.altitude"),
		ElementsFile:    v.GetString("elements.file"),
		ElementsURL:     v.GetString("elements.url"),
		Satellites:      v.GetStringSlice("tracking.satellites"),
		Step:            v.GetDuration("tracking.step"),
		HorizonHours:    v.GetFloat64("passes.horizon_hours"),
		MinElevationDeg: v.GetFloat64("passes.min_elevation"),
		MaxPasses:       v.GetInt("passes.max"),
		DownlinkMHz:     v.GetFloat64("radio.downlink_mhz"),
		UplinkMHz:       v.GetFloat64("radio.uplink_mhz"),
		MetricsListen:   v.GetString("metrics.listen"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	source := v.ConfigFileUsed()
	if source == "" {
		source = "defaults"
	}
	logger.Info("configuration loaded",
		slog.String("source", source),
		slog.String("station", cfg.StationName),
		slog.Float64("latitude", cfg.LatitudeDeg),
		slog.Float64("longitude", cfg.LongitudeDeg),
		slog.Int("satellites", len(cfg.Satellites)),
	)
	return cfg, nil
}

func (c *Config) validate() error {
	if c.LatitudeDeg < -90 || c.LatitudeDeg > 90 {
		return fmt.Errorf("config: station latitude %.4f out of range", c.LatitudeDeg)
	}
	if c.LongitudeDeg < -180 || c.LongitudeDeg > 180 {
		return fmt.Errorf("config: station longitude %.4f out of range", c.LongitudeDeg)
	}
	if c.ElementsFile == "" && c.ElementsURL == "" {
		return fmt.Errorf("config: an elements file or url must be set")
	}
	if c.Step <= 0 {
		return fmt.Errorf("config: tracking step %v must be positive", c.Step)
	}
	if c.HorizonHours <= 0 || c.HorizonHours > 14*24 {
		return fmt.Errorf("config: pass horizon %.1fh out of range", c.HorizonHours)
	}
	if c.MinElevationDeg < -90 || c.MinElevationDeg >= 90 {
		return fmt.Errorf("config: minimum elevation %.1f out of range", c.MinElevationDeg)
	}
	if c.MaxPasses < 0 {
		return fmt.Errorf("config: max passes %d must not be negative", c.MaxPasses)
	}
	if c.DownlinkMHz < 0 || c.UplinkMHz < 0 {
		return fmt.Errorf("config: frequencies must not be negative")
	}
	return nil
}
