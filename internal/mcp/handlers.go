package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/database"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/output"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/recommend"
)

func (s *Server) registerHandlers() {
	s.handlers["recommend_trips"] = s.handleRecommendTrips
	s.handlers["get_combination"] = s.handleGetCombination
	s.handlers["list_budget_tiers"] = s.handleListBudgetTiers
	s.handlers["classify_budget"] = s.handleClassifyBudget
	s.handlers["list_travel_styles"] = s.handleListTravelStyles
	s.handlers["list_start_locations"] = s.handleListStartLocations
	s.handlers["list_locations"] = s.handleListLocations
	s.handlers["recent_searches"] = s.handleRecentSearches
	s.handlers["get_stats"] = s.handleGetStats
}

// toolError is the body of a failed tool call
type toolError struct {
	Success  bool                     `json:"success"`
	Error    string                   `json:"error"`
	Problems []recommend.FieldProblem `json:"problems,omitempty"`
	ID       *int                     `json:"id,omitempty"`
}

func errorText(err error) string {
	body := toolError{Error: err.Error()}

	var ve *recommend.ValidationError
	var nf *recommend.NotFoundError
	switch {
	case errors.As(err, &ve):
		body.Problems = ve.Problems
	case errors.As(err, &nf):
		body.ID = &nf.ID
	}

	data, mErr := json.Marshal(body)
	if mErr != nil {
		return err.Error()
	}
	return string(data)
}

func decode(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

type recommendTripsParams struct {
	recommend.Request
	Explain bool `json:"explain"`
}

func (s *Server) handleRecommendTrips(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p recommendTripsParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	if p.Explain {
		return s.planner.Explain(ctx, p.Request)
	}
	return s.planner.Recommend(ctx, p.Request)
}

type getCombinationParams struct {
	ID *int `json:"id"`
}

func (s *Server) handleGetCombination(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p getCombinationParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.ID == nil {
		return nil, recommend.NewValidationError("id", "is required")
	}
	return s.planner.Combination(ctx, *p.ID)
}

func (s *Server) handleListBudgetTiers(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return s.planner.BudgetTiers(), nil
}

type classifyBudgetParams struct {
	Budget *int `json:"budget"`
}

func (s *Server) handleClassifyBudget(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p classifyBudgetParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Budget == nil {
		return nil, recommend.NewValidationError("budget", "is required")
	}
	return s.planner.ClassifyBudget(*p.Budget), nil
}

func (s *Server) handleListTravelStyles(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return s.planner.TravelStyles(), nil
}

func (s *Server) handleListStartLocations(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return s.planner.StartLocations(ctx)
}

type listLocationsParams struct {
	Category string `json:"category"`
}

func (s *Server) handleListLocations(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p listLocationsParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	locs, err := s.planner.Locations(ctx, p.Category)
	if err != nil {
		return nil, err
	}
	if locs == nil {
		locs = []catalog.TouristLocation{}
	}
	return locs, nil
}

type recentSearchesParams struct {
	StartLocation string `json:"start_location"`
	Limit         int    `json:"limit"`
}

func (s *Server) handleRecentSearches(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p recentSearchesParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	opts := database.SearchListOptions{Limit: 20}
	if p.Limit > 0 {
		opts.Limit = p.Limit
	}
	if p.StartLocation != "" {
		loc, err := catalog.ParseStartLocation(p.StartLocation)
		if err != nil {
			return nil, recommend.NewValidationError("start_location", err.Error())
		}
		opts.StartLocation = &loc
	}

	searches, err := s.planner.RecentSearches(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if searches == nil {
		searches = []database.Search{}
	}
	return searches, nil
}

type getStatsParams struct {
	SinceDays int `json:"since_days"`
}

func (s *Server) handleGetStats(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p getStatsParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	var since *time.Time
	if p.SinceDays > 0 {
		t := time.Now().AddDate(0, 0, -p.SinceDays)
		since = &t
	}

	return s.planner.Stats(ctx, since)
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	var data interface{}

	switch uri {
	case ResourceStyles:
		data = s.planner.TravelStyles()
	case ResourceStartLocations:
		locs, err := s.planner.StartLocations(ctx)
		if err != nil {
			return "", err
		}
		data = locs
	case ResourceBudgetTiers:
		data = s.planner.OrderedBudgetTiers()
	case ResourceCatalog:
		info, err := s.planner.CatalogInfo(ctx)
		if errors.Is(err, database.ErrNotFound) {
			return "No catalog loaded.\n", nil
		}
		if err != nil {
			return "", err
		}
		data = info
	case ResourceHistory:
		searches, err := s.planner.RecentSearches(ctx, database.SearchListOptions{Limit: 10})
		if err != nil {
			return "", err
		}
		data = searches
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}

	var buf bytes.Buffer
	if err := output.TableTo(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
