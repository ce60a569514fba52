package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/budget"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/cache"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/database"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/metrics"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/recommend"
)

func openDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func defaultSeed() (*catalog.Seed, string, error) {
	s, err := catalog.DefaultSeed()
	return s, "embedded", err
}

func startPlanner(t *testing.T, opts Options) *Planner {
	t.Helper()
	if opts.Store == nil {
		opts.Store = openDB(t)
	}
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	p := New(opts)
	require.NoError(t, p.Start(context.Background(), defaultSeed))
	return p
}

func redisCache(t *testing.T) (*miniredis.Miniredis, *cache.Redis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := cache.NewRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, "test")
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func sample(t *testing.T, m *metrics.Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	samples, err := m.Snapshot()
	require.NoError(t, err)
	for _, s := range samples {
		if s.Name != name {
			continue
		}
		match := true
		for k, v := range labels {
			if s.Labels[k] != v {
				match = false
			}
		}
		if match {
			return s.Value
		}
	}
	return 0
}

func culturalAdventure() recommend.Request {
	return recommend.Request{
		TravelStyles:  []catalog.Style{catalog.StyleCultural, catalog.StyleAdventure},
		Days:          3,
		StartLocation: catalog.StartColomboPort,
		Budget:        150000,
	}
}

func ids(recs []recommend.Recommendation) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

// failingStore refuses to save searches
type failingStore struct {
	*database.DB
}

func (failingStore) CreateSearch(context.Context, *database.Search) error {
	return errors.New("disk full")
}

func TestPlanner_NotStarted(t *testing.T) {
	p := New(Options{Store: openDB(t)})

	_, err := p.Recommend(context.Background(), culturalAdventure())
	assert.ErrorIs(t, err, ErrNoCatalog)

	_, err = p.Combination(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoCatalog)
}

func TestPlanner_Start_SeedsEmptyStore(t *testing.T) {
	db := openDB(t)
	m := metrics.New()
	p := startPlanner(t, Options{Store: db, Metrics: m})

	cat, err := p.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 16, cat.Len())

	info, err := db.GetCatalogInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "embedded", info.Source)
	assert.Equal(t, cat.Fingerprint(), info.Fingerprint)

	assert.Equal(t, 16.0, sample(t, m, "tripfinder_catalog_combinations", nil))
}

func TestPlanner_Start_WithoutSeed(t *testing.T) {
	p := New(Options{Store: openDB(t)})
	err := p.Start(context.Background(), nil)
	assert.ErrorIs(t, err, database.ErrEmptyCatalog)
}

func TestPlanner_Start_KeepsStoredCatalog(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	seed := &catalog.Seed{Combinations: []catalog.Combination{{
		ID:            42,
		TravelStyles:  []catalog.Style{catalog.StyleSpiritual},
		Days:          1,
		StartLocation: catalog.StartKandy,
		Itinerary:     catalog.Itinerary{1: {Locations: []string{"Temple of the Tooth"}}},
		EstimatedCost: catalog.EstimatedCost{EntranceFees: 2000, Meals: 1500, Transport: 500, Total: 4000},
	}}}
	_, err := db.ReplaceCatalog(ctx, seed, "test")
	require.NoError(t, err)

	called := false
	p := New(Options{Store: db})
	require.NoError(t, p.Start(ctx, func() (*catalog.Seed, string, error) {
		called = true
		return defaultSeed()
	}))

	assert.False(t, called)
	cat, err := p.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())
}

func TestPlanner_Recommend(t *testing.T) {
	db := openDB(t)
	m := metrics.New()
	p := startPlanner(t, Options{Store: db, Metrics: m, History: HistoryOptions{Enabled: true}})
	ctx := context.Background()

	resp, err := p.Recommend(ctx, culturalAdventure())
	require.NoError(t, err)
	assert.Equal(t, []int{13, 11}, ids(resp.Recommendations))

	searches, err := db.ListSearches(ctx, database.SearchListOptions{})
	require.NoError(t, err)
	require.Len(t, searches, 1)

	s := searches[0]
	assert.Equal(t, []catalog.Style{catalog.StyleAdventure, catalog.StyleCultural}, s.TravelStyles)
	assert.Equal(t, "Moderate", s.BudgetCategory)
	assert.Equal(t, 2, s.TotalResults)
	require.NotNil(t, s.TopCombinationID)
	assert.Equal(t, 13, *s.TopCombinationID)
	require.NotNil(t, s.TopScore)
	assert.InDelta(t, 100.0, *s.TopScore, 1e-9)

	assert.Equal(t, 1.0, sample(t, m, "tripfinder_recommend_requests_total", map[string]string{"outcome": "ok"}))
}

func TestPlanner_Recommend_Empty(t *testing.T) {
	db := openDB(t)
	m := metrics.New()
	p := startPlanner(t, Options{Store: db, Metrics: m, History: HistoryOptions{Enabled: true}})
	ctx := context.Background()

	req := culturalAdventure()
	req.StartLocation = catalog.StartAnuradhapura

	resp, err := p.Recommend(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Recommendations)
	assert.Empty(t, resp.Recommendations)

	searches, err := db.ListSearches(ctx, database.SearchListOptions{})
	require.NoError(t, err)
	require.Len(t, searches, 1)
	assert.Nil(t, searches[0].TopCombinationID)

	assert.Equal(t, 1.0, sample(t, m, "tripfinder_recommend_requests_total", map[string]string{"outcome": "empty"}))
}

func TestPlanner_Recommend_Invalid(t *testing.T) {
	db := openDB(t)
	m := metrics.New()
	p := startPlanner(t, Options{Store: db, Metrics: m, History: HistoryOptions{Enabled: true}})
	ctx := context.Background()

	req := culturalAdventure()
	req.Days = 0

	_, err := p.Recommend(ctx, req)
	require.Error(t, err)
	assert.True(t, recommend.IsValidation(err))

	searches, err := db.ListSearches(ctx, database.SearchListOptions{})
	require.NoError(t, err)
	assert.Empty(t, searches)

	assert.Equal(t, 1.0, sample(t, m, "tripfinder_recommend_requests_total", map[string]string{"outcome": "invalid"}))
}

func TestPlanner_Recommend_StrictBudget(t *testing.T) {
	tiers, err := budget.NewTable(budget.DefaultTiers(), budget.StrictPolicy)
	require.NoError(t, err)

	opts := recommend.DefaultOptions()
	opts.Tiers = tiers
	p := startPlanner(t, Options{Engine: recommend.NewEngine(opts)})

	req := culturalAdventure()
	req.Budget = 10000

	_, err = p.Recommend(context.Background(), req)
	var ve *recommend.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"budget"}, ve.Fields())
}

func TestPlanner_Recommend_Cache(t *testing.T) {
	mr, c := redisCache(t)
	m := metrics.New()
	p := startPlanner(t, Options{Cache: c, Metrics: m})
	ctx := context.Background()

	first, err := p.Recommend(ctx, culturalAdventure())
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 1)

	// same request with styles reordered and repeated hits the same entry
	req := culturalAdventure()
	req.TravelStyles = []catalog.Style{catalog.StyleAdventure, catalog.StyleCultural, catalog.StyleAdventure}
	second, err := p.Recommend(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, mr.Keys(), 1)
	assert.Equal(t, 1.0, sample(t, m, "tripfinder_cache_lookups_total", map[string]string{"result": "miss"}))
	assert.Equal(t, 1.0, sample(t, m, "tripfinder_cache_lookups_total", map[string]string{"result": "hit"}))
}

func TestPlanner_Recommend_CacheKeyedByEngine(t *testing.T) {
	mr, c := redisCache(t)
	ctx := context.Background()

	tiers, err := budget.NewTable([]budget.Tier{
		{Key: "cheap", Min: 1, Max: 200000, Label: "Cheap"},
		{Key: "dear", Min: 200001, Max: 1000000, Label: "Dear"},
	}, budget.ClampPolicy)
	require.NoError(t, err)

	standard := startPlanner(t, Options{Cache: c})
	custom := startPlanner(t, Options{Cache: c, Engine: recommend.NewEngine(recommend.Options{
		Tiers:        tiers,
		DefaultLimit: 1,
	})})

	first, err := standard.Recommend(ctx, culturalAdventure())
	require.NoError(t, err)
	assert.Equal(t, "Moderate", first.FiltersApplied.BudgetCategory)
	assert.Equal(t, 2, first.TotalResults)

	second, err := custom.Recommend(ctx, culturalAdventure())
	require.NoError(t, err)
	assert.Equal(t, "Cheap", second.FiltersApplied.BudgetCategory)
	assert.Equal(t, 1, second.TotalResults)
	assert.Len(t, mr.Keys(), 2)
}

func TestPlanner_Recommend_CacheKeyUsesResolvedLimit(t *testing.T) {
	mr, c := redisCache(t)
	m := metrics.New()
	p := startPlanner(t, Options{Cache: c, Metrics: m})
	ctx := context.Background()

	// no limit resolves to the default of 10, same as asking for 10
	_, err := p.Recommend(ctx, culturalAdventure())
	require.NoError(t, err)

	req := culturalAdventure()
	req.Limit = 10
	_, err = p.Recommend(ctx, req)
	require.NoError(t, err)

	assert.Len(t, mr.Keys(), 1)
	assert.Equal(t, 1.0, sample(t, m, "tripfinder_cache_lookups_total", map[string]string{"result": "hit"}))
}

func TestPlanner_Recommend_CachedEmpty(t *testing.T) {
	_, c := redisCache(t)
	p := startPlanner(t, Options{Cache: c})

	req := culturalAdventure()
	req.StartLocation = catalog.StartAnuradhapura

	for i := 0; i < 2; i++ {
		resp, err := p.Recommend(context.Background(), req)
		require.NoError(t, err)
		assert.NotNil(t, resp.Recommendations)
		assert.Empty(t, resp.Recommendations)
	}
}

func TestPlanner_Recommend_CacheDown(t *testing.T) {
	mr, c := redisCache(t)
	p := startPlanner(t, Options{Cache: c})
	mr.Close()

	resp, err := p.Recommend(context.Background(), culturalAdventure())
	require.NoError(t, err)
	assert.Equal(t, []int{13, 11}, ids(resp.Recommendations))
}

func TestPlanner_Recommend_HistoryFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := startPlanner(t, Options{
		Store:   failingStore{openDB(t)},
		Logger:  zap.New(core),
		History: HistoryOptions{Enabled: true},
	})

	resp, err := p.Recommend(context.Background(), culturalAdventure())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalResults)

	entries := logs.FilterMessage("failed to save search").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "disk full", entries[0].ContextMap()["error"])
}

func TestPlanner_Recommend_PrunesHistory(t *testing.T) {
	db := openDB(t)
	p := startPlanner(t, Options{Store: db, History: HistoryOptions{Enabled: true, Keep: 2}})
	ctx := context.Background()

	for _, b := range []int{100000, 120000, 140000, 160000} {
		req := culturalAdventure()
		req.Budget = b
		_, err := p.Recommend(ctx, req)
		require.NoError(t, err)
	}

	searches, err := db.ListSearches(ctx, database.SearchListOptions{})
	require.NoError(t, err)
	assert.Len(t, searches, 2)
}

func TestPlanner_Combination(t *testing.T) {
	m := metrics.New()
	p := startPlanner(t, Options{Metrics: m})
	ctx := context.Background()

	rec, err := p.Combination(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 9350, rec.Budget)
	assert.Equal(t, "Budget", rec.BudgetCategory)
	assert.Zero(t, rec.Score)

	_, err = p.Combination(ctx, 999)
	assert.True(t, recommend.IsNotFound(err))

	assert.Equal(t, 1.0, sample(t, m, "tripfinder_combination_lookups_total", map[string]string{"outcome": "ok"}))
	assert.Equal(t, 1.0, sample(t, m, "tripfinder_combination_lookups_total", map[string]string{"outcome": "not_found"}))
}

func TestPlanner_Reload(t *testing.T) {
	db := openDB(t)
	p := startPlanner(t, Options{Store: db})
	ctx := context.Background()

	before, err := p.Catalog()
	require.NoError(t, err)

	seed, _, err := defaultSeed()
	require.NoError(t, err)
	trimmed := &catalog.Seed{
		StartLocations: seed.StartLocations,
		Locations:      seed.Locations,
		Combinations:   seed.Combinations[:3],
	}
	info, err := p.Seed(ctx, trimmed, "trimmed")
	require.NoError(t, err)
	assert.Equal(t, 3, info.Combinations)

	after, err := p.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 3, after.Len())
	assert.NotEqual(t, before.Fingerprint(), after.Fingerprint())

	// the old snapshot is untouched
	assert.Equal(t, 16, before.Len())
}

func TestPlanner_Enumerations(t *testing.T) {
	p := startPlanner(t, Options{})
	ctx := context.Background()

	assert.Equal(t, catalog.AllStyles, p.TravelStyles())

	starts, err := p.StartLocations(ctx)
	require.NoError(t, err)
	require.Len(t, starts, 4)
	for i, s := range starts {
		assert.Equal(t, catalog.AllStartLocations[i], s.Name)
		assert.NotNil(t, s.Coordinates)
	}

	tiers := p.BudgetTiers()
	assert.Len(t, tiers, 4)
	assert.Equal(t, budget.Range{Min: 25000, Max: 100000, Label: "Budget"}, tiers["budget"])
	assert.Len(t, p.OrderedBudgetTiers(), 4)

	locs, err := p.Locations(ctx, "Nature/Wildlife")
	require.NoError(t, err)
	require.NotEmpty(t, locs)
	for _, l := range locs {
		assert.Equal(t, catalog.CategoryNatureWildlife, l.Category)
	}

	all, err := p.Locations(ctx, "")
	require.NoError(t, err)
	assert.Greater(t, len(all), len(locs))

	_, err = p.Locations(ctx, "beach")
	assert.True(t, recommend.IsValidation(err))
}

func TestPlanner_ClassifyBudget(t *testing.T) {
	p := startPlanner(t, Options{})

	tests := []struct {
		amount  int
		label   string
		inRange bool
	}{
		{25000, "Budget", true},
		{100001, "Moderate", true},
		{350000, "Comfort", true},
		{500000, "Luxury", true},
		{10000, "Budget", false},
		{900000, "Luxury", false},
	}
	for _, tt := range tests {
		got := p.ClassifyBudget(tt.amount)
		assert.Equal(t, tt.label, got.Label, "amount %d", tt.amount)
		assert.Equal(t, tt.inRange, got.InRange, "amount %d", tt.amount)
	}
}

func TestPlanner_Stats(t *testing.T) {
	p := startPlanner(t, Options{History: HistoryOptions{Enabled: true}})
	ctx := context.Background()

	_, err := p.Recommend(ctx, culturalAdventure())
	require.NoError(t, err)

	stats, err := p.Stats(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, stats.Catalog)
	assert.Equal(t, 16, stats.Catalog.Combinations)
	assert.Equal(t, 1, stats.Searches.TotalSearches)
	assert.NotEmpty(t, stats.Metrics)

	recent, err := p.RecentSearches(ctx, database.SearchListOptions{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestPlanner_Explain(t *testing.T) {
	p := startPlanner(t, Options{})

	exps, err := p.Explain(context.Background(), culturalAdventure())
	require.NoError(t, err)
	assert.Len(t, exps, 16)

	matched := 0
	for _, e := range exps {
		if e.Result.Include {
			matched++
			assert.NotNil(t, e.Breakdown)
		}
	}
	assert.Equal(t, 2, matched)
}
