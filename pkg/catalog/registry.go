package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/matst80/compare-finder/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	catalogRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "comparefinder_catalog_records",
		Help: "Number of records in the current catalog",
	}, []string{"category"})
	catalogReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comparefinder_catalog_reloads_total",
		Help: "Catalog reloads by outcome",
	}, []string{"category", "status"})
)

// Source is the data layer, it returns the raw records of one category.
type Source interface {
	Fetch(ctx context.Context, category string) ([]map[string]any, error)
}

type SourceFunc func(ctx context.Context, category string) ([]map[string]any, error)

func (f SourceFunc) Fetch(ctx context.Context, category string) ([]map[string]any, error) {
	return f(ctx, category)
}

// Registry holds the current catalog of each configured category. Catalogs are
// immutable, a reload swaps the pointer.
type Registry struct {
	mu         sync.RWMutex
	source     Source
	logger     *zap.Logger
	categories map[string]types.Category
	order      []string
	catalogs   map[string]*types.Catalog
}

func NewRegistry(source Source, logger *zap.Logger, categories ...types.Category) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		source:     source,
		logger:     logger,
		categories: make(map[string]types.Category, len(categories)),
		catalogs:   make(map[string]*types.Catalog, len(categories)),
	}
	for _, c := range categories {
		if err := c.Schema.Validate(); err != nil {
			return nil, fmt.Errorf("category %s: %w", c.Name, err)
		}
		if _, ok := r.categories[c.Name]; ok {
			return nil, fmt.Errorf("category %s declared twice", c.Name)
		}
		r.categories[c.Name] = c
		r.order = append(r.order, c.Name)
	}
	return r, nil
}

func (r *Registry) Categories() []types.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]types.Category, 0, len(r.order))
	for _, name := range r.order {
		ret = append(ret, r.categories[name])
	}
	return ret
}

func (r *Registry) HasCategory(category string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.categories[category]
	return ok
}

// Get returns the current catalog. A configured category that has not been
// loaded yet returns false, callers must not run the engine without one.
func (r *Registry) Get(category string) (*types.Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.catalogs[category]
	return c, ok
}

// Reload fetches and loads a category. On any error the previous catalog stays.
// The version is derived from the content, reloading unchanged data keeps it.
func (r *Registry) Reload(ctx context.Context, category string) (*types.Catalog, error) {
	r.mu.RLock()
	cat, ok := r.categories[category]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	raw, err := r.source.Fetch(ctx, category)
	if err != nil {
		catalogReloads.WithLabelValues(category, "fetch_error").Inc()
		return nil, fmt.Errorf("fetch %s: %w", category, err)
	}

	version, err := ContentVersion(category, cat.Schema, raw)
	if err != nil {
		catalogReloads.WithLabelValues(category, "invalid").Inc()
		return nil, fmt.Errorf("version %s: %w", category, err)
	}
	loaded, err := Load(category, cat.Schema, raw, version)
	if err != nil {
		catalogReloads.WithLabelValues(category, "invalid").Inc()
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs[category] = loaded
	catalogRecords.WithLabelValues(category).Set(float64(loaded.Len()))
	catalogReloads.WithLabelValues(category, "ok").Inc()
	r.logger.Info("catalog loaded",
		zap.String("category", category),
		zap.Int("records", loaded.Len()),
		zap.Uint64("version", version))
	return loaded, nil
}

// LoadAll loads every category, categories that fail are logged and keep
// their previous catalog. The first error is returned.
func (r *Registry) LoadAll(ctx context.Context) error {
	var first error
	for _, name := range slices.Clone(r.order) {
		if _, err := r.Reload(ctx, name); err != nil {
			r.logger.Error("catalog load failed", zap.String("category", name), zap.Error(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}
