package database

import (
	"database/sql"
	"time"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
)

// CatalogInfo describes the catalog currently stored
type CatalogInfo struct {
	Fingerprint  string    `json:"fingerprint"`
	Source       string    `json:"source"`
	Combinations int       `json:"combinations"`
	SeededAt     time.Time `json:"seeded_at"`
}

// Search is one saved recommendation request and a summary of its outcome
type Search struct {
	ID               string                `json:"id"`
	TravelStyles     []catalog.Style       `json:"travel_styles"`
	Days             int                   `json:"days"`
	StartLocation    catalog.StartLocation `json:"start_location"`
	Budget           int                   `json:"budget"`
	BudgetCategory   string                `json:"budget_category"`
	TotalResults     int                   `json:"total_results"`
	TopCombinationID *int                  `json:"top_combination_id,omitempty"`
	TopScore         *float64              `json:"top_score,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

// Age returns how long ago the search was made
func (s *Search) Age() time.Duration {
	return time.Since(s.CreatedAt)
}

// SearchListOptions contains options for listing searches
type SearchListOptions struct {
	StartLocation *catalog.StartLocation
	Since         *time.Time
	Limit         int
	Offset        int
}

// CombinationCount counts how often a combination topped a search
type CombinationCount struct {
	ID    int `json:"id"`
	Count int `json:"count"`
}

// SearchStats represents aggregate statistics over saved searches
type SearchStats struct {
	TotalSearches    int                `json:"total_searches"`
	EmptySearches    int                `json:"empty_searches"`
	AvgResults       float64            `json:"avg_results"`
	AvgBudget        float64            `json:"avg_budget"`
	ByStartLocation  map[string]int     `json:"by_start_location"`
	ByBudgetCategory map[string]int     `json:"by_budget_category"`
	TopCombinations  []CombinationCount `json:"top_combinations"`
}

// NullInt64 is a helper to convert *int to sql.NullInt64
func NullInt64(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// NullFloat64 is a helper to convert *float64 to sql.NullFloat64
func NullFloat64(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// IntPtr converts sql.NullInt64 to *int
func IntPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

// Float64Ptr converts sql.NullFloat64 to *float64
func Float64Ptr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}

func coordinates(lat, lng sql.NullFloat64) *catalog.Coordinates {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &catalog.Coordinates{lat.Float64, lng.Float64}
}

func latLng(c *catalog.Coordinates) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lat(), Valid: true}, sql.NullFloat64{Float64: c.Lng(), Valid: true}
}
