// Package planner wires the recommendation engine to its collaborators:
// the catalog store, the response cache, search history, metrics and logging.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/budget"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/cache"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/database"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/metrics"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/recommend"
)

// ErrNoCatalog is returned before a catalog has been loaded
var ErrNoCatalog = errors.New("no catalog loaded")

// Store persists the catalog and saved searches
type Store interface {
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
	ReplaceCatalog(ctx context.Context, seed *catalog.Seed, source string) (*database.CatalogInfo, error)
	GetCatalogInfo(ctx context.Context) (*database.CatalogInfo, error)
	ListStartLocations(ctx context.Context) ([]catalog.StartLocationInfo, error)
	ListLocations(ctx context.Context, category *catalog.Category) ([]catalog.TouristLocation, error)
	CreateSearch(ctx context.Context, s *database.Search) error
	ListSearches(ctx context.Context, opts database.SearchListOptions) ([]database.Search, error)
	PruneSearches(ctx context.Context, keep int) (int64, error)
	GetSearchStats(ctx context.Context, since *time.Time) (*database.SearchStats, error)
}

// HistoryOptions controls saved searches
type HistoryOptions struct {
	Enabled bool
	Keep    int // newest searches to retain; 0 keeps all
}

// Options configures a Planner
type Options struct {
	Store   Store
	Engine  *recommend.Engine // nil means recommend.DefaultOptions()
	Cache   cache.Cache       // nil disables caching
	Metrics *metrics.Metrics  // nil creates a private set
	Logger  *zap.Logger       // nil discards logs
	History HistoryOptions
}

// Planner serves recommendation operations against the current catalog
// snapshot. It is safe for concurrent use.
type Planner struct {
	store   Store
	engine  *recommend.Engine
	cache   cache.Cache
	metrics *metrics.Metrics
	logger  *zap.Logger
	history HistoryOptions

	catalog atomic.Pointer[catalog.Catalog]
}

// New creates a Planner. Call Start or Reload before serving requests.
func New(opts Options) *Planner {
	if opts.Engine == nil {
		opts.Engine = recommend.NewEngine(recommend.DefaultOptions())
	}
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Planner{
		store:   opts.Store,
		engine:  opts.Engine,
		cache:   opts.Cache,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		history: opts.History,
	}
}

// SeedFunc supplies a seed and a description of where it came from
type SeedFunc func() (*catalog.Seed, string, error)

// Start loads the stored catalog. When the store is empty and seed is not
// nil, the catalog is seeded from it first.
func (p *Planner) Start(ctx context.Context, seed SeedFunc) error {
	err := p.Reload(ctx)
	if !errors.Is(err, database.ErrEmptyCatalog) || seed == nil {
		return err
	}

	s, source, err := seed()
	if err != nil {
		return fmt.Errorf("failed to load seed: %w", err)
	}
	p.logger.Info("seeding empty catalog", zap.String("source", source))

	_, err = p.Seed(ctx, s, source)
	return err
}

// Reload swaps in the catalog currently held by the store
func (p *Planner) Reload(ctx context.Context) error {
	cat, err := p.store.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	p.swap(cat)
	return nil
}

// Seed replaces the stored catalog and swaps it in
func (p *Planner) Seed(ctx context.Context, seed *catalog.Seed, source string) (*database.CatalogInfo, error) {
	info, err := p.store.ReplaceCatalog(ctx, seed, source)
	if err != nil {
		return nil, err
	}
	if err := p.Reload(ctx); err != nil {
		return nil, err
	}
	p.logger.Info("catalog seeded",
		zap.String("source", source),
		zap.Int("combinations", info.Combinations),
		zap.String("fingerprint", info.Fingerprint),
	)
	return info, nil
}

func (p *Planner) swap(cat *catalog.Catalog) {
	p.catalog.Store(cat)
	p.metrics.SetCatalogSize(cat.Len())
	p.logger.Debug("catalog loaded",
		zap.Int("combinations", cat.Len()),
		zap.String("fingerprint", cat.Fingerprint()),
	)
}

// Catalog returns the current catalog snapshot
func (p *Planner) Catalog() (*catalog.Catalog, error) {
	cat := p.catalog.Load()
	if cat == nil {
		return nil, ErrNoCatalog
	}
	return cat, nil
}

// Engine returns the recommendation engine
func (p *Planner) Engine() *recommend.Engine {
	return p.engine
}

// Metrics returns the planner's metrics
func (p *Planner) Metrics() *metrics.Metrics {
	return p.metrics
}

// Recommend answers a recommendation request, consulting the cache and
// recording the search in history.
func (p *Planner) Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
	cat, err := p.Catalog()
	if err != nil {
		return nil, err
	}

	if err := p.engine.Validate(&req); err != nil {
		p.metrics.ObserveRecommend(metrics.OutcomeInvalid, 0, 0)
		return nil, err
	}

	log := p.logger.With(
		zap.Stringer("styles", req.StyleSet()),
		zap.Int("days", req.Days),
		zap.String("start", string(req.StartLocation)),
		zap.Int("budget", req.Budget),
	)

	key := cache.Key("recommend", cat.Fingerprint(), p.engine.Fingerprint(), p.engine.CacheKey(req))
	resp, hit := p.cached(ctx, key, log)
	if !hit {
		resp, err = p.engine.Recommend(cat, req)
		if err != nil {
			p.metrics.ObserveRecommend(metrics.OutcomeError, 0, 0)
			log.Error("recommendation failed", zap.Error(err))
			return nil, err
		}
		p.remember(ctx, key, resp, log)
	}

	outcome, top := metrics.OutcomeEmpty, 0.0
	if len(resp.Recommendations) > 0 {
		outcome, top = metrics.OutcomeOK, resp.Recommendations[0].Score
	}
	p.metrics.ObserveRecommend(outcome, resp.TotalResults, top)
	log.Debug("recommendations served", zap.Int("results", resp.TotalResults), zap.Bool("cached", hit))

	p.record(ctx, req, resp, log)
	return resp, nil
}

func (p *Planner) cached(ctx context.Context, key string, log *zap.Logger) (*recommend.Response, bool) {
	data, err := p.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn("cache read failed", zap.Error(err))
		}
		p.metrics.ObserveCache(false)
		return nil, false
	}

	var resp recommend.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		log.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		p.metrics.ObserveCache(false)
		return nil, false
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []recommend.Recommendation{}
	}
	p.metrics.ObserveCache(true)
	return &resp, true
}

func (p *Planner) remember(ctx context.Context, key string, resp *recommend.Response, log *zap.Logger) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Warn("failed to encode response for cache", zap.Error(err))
		return
	}
	if err := p.cache.Set(ctx, key, data); err != nil {
		log.Warn("cache write failed", zap.Error(err))
	}
}

// record saves the search. Failures are logged and never fail the request.
func (p *Planner) record(ctx context.Context, req recommend.Request, resp *recommend.Response, log *zap.Logger) {
	if !p.history.Enabled {
		return
	}

	s := &database.Search{
		TravelStyles:   resp.FiltersApplied.TravelStyles,
		Days:           req.Days,
		StartLocation:  req.StartLocation,
		Budget:         req.Budget,
		BudgetCategory: resp.FiltersApplied.BudgetCategory,
		TotalResults:   resp.TotalResults,
	}
	if len(resp.Recommendations) > 0 {
		top := resp.Recommendations[0]
		s.TopCombinationID = &top.ID
		s.TopScore = &top.Score
	}

	if err := p.store.CreateSearch(ctx, s); err != nil {
		log.Warn("failed to save search", zap.Error(err))
		return
	}

	if p.history.Keep > 0 {
		if n, err := p.store.PruneSearches(ctx, p.history.Keep); err != nil {
			log.Warn("failed to prune search history", zap.Error(err))
		} else if n > 0 {
			log.Debug("pruned search history", zap.Int64("deleted", n))
		}
	}
}

// Explain reports the filter decision and score breakdown for every
// combination against req.
func (p *Planner) Explain(ctx context.Context, req recommend.Request) ([]recommend.Explanation, error) {
	cat, err := p.Catalog()
	if err != nil {
		return nil, err
	}
	return p.engine.Explain(cat, req)
}

// Combination returns one combination outside any request context
func (p *Planner) Combination(ctx context.Context, id int) (*recommend.Recommendation, error) {
	cat, err := p.Catalog()
	if err != nil {
		return nil, err
	}

	rec, err := p.engine.GetByID(cat, id)
	switch {
	case recommend.IsNotFound(err):
		p.metrics.ObserveLookup(metrics.OutcomeNotFound)
	case err != nil:
		p.metrics.ObserveLookup(metrics.OutcomeError)
	default:
		p.metrics.ObserveLookup(metrics.OutcomeOK)
	}
	return rec, err
}

// BudgetTiers returns the tier table keyed by tier key
func (p *Planner) BudgetTiers() map[string]budget.Range {
	return p.engine.Tiers().Tiers()
}

// OrderedBudgetTiers returns the tiers in ascending order
func (p *Planner) OrderedBudgetTiers() []budget.Tier {
	return p.engine.Tiers().Ordered()
}

// Classification is the result of a single budget lookup
type Classification struct {
	Budget  int    `json:"budget"`
	Tier    string `json:"tier"`
	Label   string `json:"label"`
	InRange bool   `json:"inRange"`
}

// ClassifyBudget labels an amount. Out-of-range amounts are clamped and
// flagged with InRange false.
func (p *Planner) ClassifyBudget(amount int) Classification {
	tiers := p.engine.Tiers()
	tier := tiers.Lookup(amount)
	return Classification{
		Budget:  amount,
		Tier:    tier.Key,
		Label:   tier.Label,
		InRange: tiers.InRange(amount),
	}
}

// TravelStyles lists the accepted travel styles
func (p *Planner) TravelStyles() []catalog.Style {
	return append([]catalog.Style(nil), catalog.AllStyles...)
}

// StartLocations lists the accepted start locations with coordinates when
// the store has them.
func (p *Planner) StartLocations(ctx context.Context) ([]catalog.StartLocationInfo, error) {
	stored, err := p.store.ListStartLocations(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[catalog.StartLocation]*catalog.Coordinates, len(stored))
	for _, sl := range stored {
		byName[sl.Name] = sl.Coordinates
	}

	out := make([]catalog.StartLocationInfo, len(catalog.AllStartLocations))
	for i, name := range catalog.AllStartLocations {
		out[i] = catalog.StartLocationInfo{Name: name, Coordinates: byName[name]}
	}
	return out, nil
}

// Locations lists tourist locations; an empty category lists all of them
func (p *Planner) Locations(ctx context.Context, category string) ([]catalog.TouristLocation, error) {
	var filter *catalog.Category
	if category != "" {
		c, err := catalog.ParseCategory(category)
		if err != nil {
			return nil, recommend.NewValidationError("category", err.Error())
		}
		filter = &c
	}
	return p.store.ListLocations(ctx, filter)
}

// RecentSearches returns saved searches, newest first
func (p *Planner) RecentSearches(ctx context.Context, opts database.SearchListOptions) ([]database.Search, error) {
	return p.store.ListSearches(ctx, opts)
}

// CatalogInfo describes the stored catalog
func (p *Planner) CatalogInfo(ctx context.Context) (*database.CatalogInfo, error) {
	return p.store.GetCatalogInfo(ctx)
}

// Stats summarizes the catalog, saved searches and process metrics
type Stats struct {
	Catalog  *database.CatalogInfo `json:"catalog"`
	Searches *database.SearchStats `json:"searches"`
	Metrics  []metrics.Sample      `json:"metrics"`
}

// Stats collects statistics, optionally limiting searches to those since
func (p *Planner) Stats(ctx context.Context, since *time.Time) (*Stats, error) {
	info, err := p.store.GetCatalogInfo(ctx)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	searches, err := p.store.GetSearchStats(ctx, since)
	if err != nil {
		return nil, err
	}

	samples, err := p.metrics.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	return &Stats{Catalog: info, Searches: searches, Metrics: samples}, nil
}
