package propagation

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skytrack/plan13/internal/metrics"
	"github.com/skytrack/plan13/internal/tle"
)

// ErrNoState is returned when no orbital state can be produced: either no
// element data has been loaded yet, or the requested satellite is not in
// the current dataset.
var ErrNoState = errors.New("propagation: no state available")

// modelCache holds orbit models derived from one dataset. Immutable after
// construction; safe for concurrent reads.
type modelCache struct {
	byCatalog map[int]*Satellite
	byName    map[string]*Satellite // keyed by lowercased name
	loadedAt  time.Time
}

// Tracker derives and caches orbit models for the current element dataset.
// The cache is rebuilt whenever the store holds a newer dataset, so element
// reloads are picked up without restarting.
type Tracker struct {
	store  *tle.Store
	logger *slog.Logger
	cache  atomic.Pointer[modelCache]
	mu     sync.Mutex // serializes cache rebuilds
}

// NewTracker creates a tracker reading element data from store.
func NewTracker(store *tle.Store, logger *slog.Logger) *Tracker {
	return &Tracker{store: store, logger: logger}
}

// models returns the orbit models for the given dataset, rebuilding the
// cache if the dataset has changed (double-checked locking).
func (tr *Tracker) models(ds *tle.Dataset) *modelCache {
	if c := tr.cache.Load(); c != nil && c.loadedAt.Equal(ds.LoadedAt) {
		return c
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()

	if c := tr.cache.Load(); c != nil && c.loadedAt.Equal(ds.LoadedAt) {
		return c
	}

	c := &modelCache{
		byCatalog: make(map[int]*Satellite, len(ds.Sets)),
		byName:    make(map[string]*Satellite, len(ds.Sets)),
		loadedAt:  ds.LoadedAt,
	}
	var skipped int
	for _, es := range ds.Sets {
		if _, ok := c.byCatalog[es.CatalogNumber]; ok {
			continue
		}
		sat, err := NewSatellite(es)
		if err != nil {
			tr.logger.Warn("orbit model init failed",
				"catalog", es.CatalogNumber, "name", es.Name, "error", err)
			skipped++
			continue
		}
		c.byCatalog[es.CatalogNumber] = sat
		if es.Name != "" {
			c.byName[strings.ToLower(es.Name)] = sat
		}
	}

	tr.logger.Info("orbit model cache rebuilt",
		"models", len(c.byCatalog),
		"skipped", skipped,
		"dataset_loaded_at", ds.LoadedAt.UTC().Format(time.RFC3339),
	)
	metrics.SetTrackedSatellites(len(c.byCatalog))
	tr.cache.Store(c)
	return c
}

// Satellite returns the orbit model for a catalog number.
func (tr *Tracker) Satellite(catalog int) (*Satellite, error) {
	ds := tr.store.Get()
	if ds == nil {
		return nil, fmt.Errorf("no element data loaded: %w", ErrNoState)
	}
	sat := tr.models(ds).byCatalog[catalog]
	if sat == nil {
		return nil, fmt.Errorf("catalog %d not in %s: %w", catalog, ds.Source, ErrNoState)
	}
	return sat, nil
}

// SatelliteByName returns the orbit model for a satellite name. Matching is
// case-insensitive.
func (tr *Tracker) SatelliteByName(name string) (*Satellite, error) {
	ds := tr.store.Get()
	if ds == nil {
		return nil, fmt.Errorf("no element data loaded: %w", ErrNoState)
	}
	sat := tr.models(ds).byName[strings.ToLower(name)]
	if sat == nil {
		return nil, fmt.Errorf("satellite %q not in %s: %w", name, ds.Source, ErrNoState)
	}
	return sat, nil
}

// Names returns the names of all satellites with a usable orbit model,
// sorted.
func (tr *Tracker) Names() []string {
	ds := tr.store.Get()
	if ds == nil {
		return nil
	}
	c := tr.models(ds)
	names := make([]string, 0, len(c.byCatalog))
	for _, sat := range c.byCatalog {
		if sat.Elements.Name != "" {
			names = append(names, sat.Elements.Name)
		}
	}
	sort.Strings(names)
	return names
}
