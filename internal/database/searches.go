package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// CreateSearch inserts a saved search
func (db *DB) CreateSearch(ctx context.Context, s *Search) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	styles, err := json.Marshal(s.TravelStyles)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO search_history (
			id, travel_styles, days, start_location, budget, budget_category,
			total_results, top_combination_id, top_score, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID, string(styles), s.Days, s.StartLocation, s.Budget, s.BudgetCategory,
		s.TotalResults, NullInt64(s.TopCombinationID), NullFloat64(s.TopScore), s.CreatedAt,
	)
	return err
}

const searchColumns = `
	id, travel_styles, days, start_location, budget, budget_category,
	total_results, top_combination_id, top_score, created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSearch(row rowScanner) (*Search, error) {
	s := &Search{}
	var styles string
	var topID sql.NullInt64
	var topScore sql.NullFloat64

	if err := row.Scan(
		&s.ID, &styles, &s.Days, &s.StartLocation, &s.Budget, &s.BudgetCategory,
		&s.TotalResults, &topID, &topScore, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(styles), &s.TravelStyles); err != nil {
		return nil, fmt.Errorf("search %s: failed to decode travel_styles: %w", s.ID, err)
	}
	s.TopCombinationID = IntPtr(topID)
	s.TopScore = Float64Ptr(topScore)
	return s, nil
}

// GetSearch retrieves a saved search by ID
func (db *DB) GetSearch(ctx context.Context, id string) (*Search, error) {
	s, err := scanSearch(db.QueryRowContext(ctx, `SELECT `+searchColumns+` FROM search_history WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// ListSearches retrieves saved searches, newest first
func (db *DB) ListSearches(ctx context.Context, opts SearchListOptions) ([]Search, error) {
	query := `SELECT ` + searchColumns + ` FROM search_history WHERE 1=1`
	args := []interface{}{}

	if opts.StartLocation != nil {
		query += " AND start_location = ?"
		args = append(args, *opts.StartLocation)
	}
	if opts.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, opts.Since.UTC())
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var searches []Search
	for rows.Next() {
		s, err := scanSearch(rows)
		if err != nil {
			return nil, err
		}
		searches = append(searches, *s)
	}
	return searches, rows.Err()
}

// PruneSearches keeps the newest keep searches and deletes the rest.
// keep <= 0 deletes nothing.
func (db *DB) PruneSearches(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	result, err := db.ExecContext(ctx, `
		DELETE FROM search_history WHERE id NOT IN (
			SELECT id FROM search_history ORDER BY created_at DESC, rowid DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GetSearchStats returns aggregate statistics over saved searches
func (db *DB) GetSearchStats(ctx context.Context, since *time.Time) (*SearchStats, error) {
	stats := &SearchStats{
		ByStartLocation:  make(map[string]int),
		ByBudgetCategory: make(map[string]int),
	}

	where := ""
	args := []interface{}{}
	if since != nil {
		where = " WHERE created_at >= ?"
		args = append(args, since.UTC())
	}

	var avgResults, avgBudget sql.NullFloat64
	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN total_results = 0 THEN 1 ELSE 0 END), 0),
			AVG(total_results),
			AVG(budget)
		FROM search_history`+where, args...,
	).Scan(&stats.TotalSearches, &stats.EmptySearches, &avgResults, &avgBudget)
	if err != nil {
		return nil, err
	}
	stats.AvgResults = avgResults.Float64
	stats.AvgBudget = avgBudget.Float64

	if err := db.countBy(ctx, "start_location", where, args, stats.ByStartLocation); err != nil {
		return nil, err
	}
	if err := db.countBy(ctx, "budget_category", where, args, stats.ByBudgetCategory); err != nil {
		return nil, err
	}

	topWhere := " WHERE top_combination_id IS NOT NULL"
	if since != nil {
		topWhere += " AND created_at >= ?"
	}
	rows, err := db.QueryContext(ctx, `
		SELECT top_combination_id, COUNT(*) FROM search_history`+topWhere+`
		GROUP BY top_combination_id
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cc CombinationCount
		if err := rows.Scan(&cc.ID, &cc.Count); err != nil {
			return nil, err
		}
		stats.TopCombinations = append(stats.TopCombinations, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(stats.TopCombinations, func(i, j int) bool {
		a, b := stats.TopCombinations[i], stats.TopCombinations[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.ID < b.ID
	})

	return stats, nil
}

// countBy fills counts with row counts grouped by column
func (db *DB) countBy(ctx context.Context, column, where string, args []interface{}, counts map[string]int) error {
	rows, err := db.QueryContext(ctx, `SELECT `+column+`, COUNT(*) FROM search_history`+where+` GROUP BY `+column, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		counts[key] = n
	}
	return rows.Err()
}
