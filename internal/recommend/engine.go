// Package recommend filters a catalog against a request, scores the
// survivors and ranks them.
//
// Everything here is pure: no I/O, no shared mutable state. An Engine may be
// used from many goroutines against the same catalog.
package recommend

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/budget"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
)

// Options configures an Engine
type Options struct {
	Tiers        *budget.Table // nil means budget.Default()
	Scorer       ScorerConfig  // zero value means DefaultScorerConfig()
	DefaultLimit int           // applied when a request has no limit; 0 means unlimited
	MaxLimit     int           // upper bound on any limit; 0 means no cap
}

// DefaultOptions returns the standard engine options
func DefaultOptions() Options {
	return Options{
		Tiers:        budget.Default(),
		Scorer:       DefaultScorerConfig(),
		DefaultLimit: 10,
		MaxLimit:     50,
	}
}

// Engine runs the filter, score and rank pipeline
type Engine struct {
	tiers        *budget.Table
	scorer       *Scorer
	defaultLimit int
	maxLimit     int
	fingerprint  string
}

// NewEngine creates an Engine
func NewEngine(opts Options) *Engine {
	if opts.Tiers == nil {
		opts.Tiers = budget.Default()
	}
	if opts.Scorer == (ScorerConfig{}) {
		opts.Scorer = DefaultScorerConfig()
	}
	e := &Engine{
		tiers:        opts.Tiers,
		scorer:       NewScorer(opts.Scorer),
		defaultLimit: opts.DefaultLimit,
		maxLimit:     opts.MaxLimit,
	}
	e.fingerprint = fingerprint(opts)
	return e
}

// fingerprint hashes every option that changes a response for a given
// catalog and request.
func fingerprint(opts Options) string {
	state := struct {
		Tiers        []budget.Tier `json:"tiers"`
		Policy       budget.Policy `json:"policy"`
		Scorer       ScorerConfig  `json:"scorer"`
		DefaultLimit int           `json:"defaultLimit"`
		MaxLimit     int           `json:"maxLimit"`
	}{
		Tiers:        opts.Tiers.Ordered(),
		Policy:       opts.Tiers.Policy(),
		Scorer:       opts.Scorer,
		DefaultLimit: opts.DefaultLimit,
		MaxLimit:     opts.MaxLimit,
	}
	data, err := json.Marshal(state)
	if err != nil {
		// Only plain values above, so this cannot happen.
		panic(fmt.Sprintf("recommend: fingerprint options: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// Fingerprint identifies the engine configuration. Two engines with the
// same fingerprint return the same response for the same catalog and request.
func (e *Engine) Fingerprint() string {
	return e.fingerprint
}

// CacheKey returns req's key with the limit resolved, so requests that end
// up with the same effective limit share a key.
func (e *Engine) CacheKey(req Request) string {
	req.Limit = e.Limit(req.Limit)
	return req.Key()
}

// Tiers returns the budget table used for classification
func (e *Engine) Tiers() *budget.Table {
	return e.tiers
}

// Scorer returns the engine's scorer
func (e *Engine) Scorer() *Scorer {
	return e.scorer
}

// FiltersApplied echoes the normalized request back to the caller.
//
// TravelStyles is the requested set, not the list as sent: duplicates are
// dropped and styles appear in catalog order. Responses are cached per set,
// so echoing the caller's ordering would leak one caller's input to another.
// Limit is the resolved limit after defaults and caps.
type FiltersApplied struct {
	TravelStyles   []catalog.Style       `json:"travelStyles"`
	Days           int                   `json:"days"`
	StartLocation  catalog.StartLocation `json:"startLocation"`
	Budget         int                   `json:"budget"`
	BudgetCategory string                `json:"budgetCategory"`
	Limit          int                   `json:"limit,omitempty"`
}

// Response is the result of a recommendation request
type Response struct {
	Success         bool             `json:"success"`
	TotalResults    int              `json:"totalResults"`
	Recommendations []Recommendation `json:"recommendations"`
	FiltersApplied  FiltersApplied   `json:"filtersApplied"`
}

// Validate checks req against the field contract and, under the strict
// budget policy, against the tier table bounds.
func (e *Engine) Validate(req *Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if e.tiers.Policy() == budget.StrictPolicy && !e.tiers.InRange(req.Budget) {
		lo, hi := e.tiers.Bounds()
		return NewValidationError("budget", fmt.Sprintf("must be between %d and %d", lo, hi))
	}
	return nil
}

// Limit resolves the number of results for a requested limit
func (e *Engine) Limit(requested int) int {
	limit := requested
	if limit == 0 {
		limit = e.defaultLimit
	}
	if e.maxLimit > 0 && (limit == 0 || limit > e.maxLimit) {
		limit = e.maxLimit
	}
	return limit
}

// Recommend validates req, filters the catalog, scores and ranks the
// matches. No matches is a successful, empty response.
func (e *Engine) Recommend(cat *catalog.Catalog, req Request) (*Response, error) {
	if err := e.Validate(&req); err != nil {
		return nil, err
	}

	matched, err := Filter(cat.Combinations(), &req)
	if err != nil {
		return nil, err
	}

	scored := make([]Scored, len(matched))
	for i := range matched {
		scored[i] = Scored{
			Combination: matched[i],
			Score:       e.scorer.Score(&matched[i], &req),
		}
	}

	recs := Rank(scored, &req, e.tiers)
	limit := e.Limit(req.Limit)
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}

	return &Response{
		Success:         true,
		TotalResults:    len(recs),
		Recommendations: recs,
		FiltersApplied: FiltersApplied{
			TravelStyles:   req.StyleSet().Styles(),
			Days:           req.Days,
			StartLocation:  req.StartLocation,
			Budget:         req.Budget,
			BudgetCategory: e.tiers.Classify(req.Budget),
			Limit:          limit,
		},
	}, nil
}

// Explain validates req and reports the filter decision and score breakdown
// for every combination in the catalog.
func (e *Engine) Explain(cat *catalog.Catalog, req Request) ([]Explanation, error) {
	if err := e.Validate(&req); err != nil {
		return nil, err
	}

	combos := cat.Combinations()
	decisions, err := Explain(combos, &req)
	if err != nil {
		return nil, err
	}
	out := make([]Explanation, len(decisions))
	for i, d := range decisions {
		out[i] = Explanation{ID: d.ID, Result: d.Result}
		if d.Result.Include {
			b := e.scorer.Breakdown(&combos[i], &req)
			out[i].Breakdown = &b
		}
	}
	return out, nil
}

// Explanation is one combination's filter decision plus, when it matched,
// its score breakdown.
type Explanation struct {
	ID        int        `json:"id"`
	Result    Result     `json:"result"`
	Breakdown *Breakdown `json:"breakdown,omitempty"`
}

// GetByID returns a single combination outside any request context. Its
// score is 0, and its budget and budget category come from its own total.
func (e *Engine) GetByID(cat *catalog.Catalog, id int) (*Recommendation, error) {
	c, ok := cat.ByID(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	total := c.EstimatedCost.Total
	rec := Project(c, total, e.tiers.Classify(total), 0)
	return &rec, nil
}
