package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
)

// ReplaceCatalog validates seed and swaps it in for the stored catalog in a
// single transaction. Reseeding the same data is a no-op apart from the
// seeded_at timestamp.
func (db *DB) ReplaceCatalog(ctx context.Context, seed *catalog.Seed, source string) (*CatalogInfo, error) {
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	cat, err := seed.Catalog()
	if err != nil {
		return nil, err
	}

	info := &CatalogInfo{
		Fingerprint:  cat.Fingerprint(),
		Source:       source,
		Combinations: cat.Len(),
		SeededAt:     time.Now().UTC(),
	}

	err = db.Transaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"combinations", "start_locations", "tourist_locations"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for i, c := range cat.Combinations() {
			if err := insertCombination(ctx, tx, i, &c, info.SeededAt); err != nil {
				return err
			}
		}

		for i, sl := range seed.StartLocations {
			lat, lng := latLng(sl.Coordinates)
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO start_locations (name, position, lat, lng) VALUES (?, ?, ?, ?)
			`, sl.Name, i, lat, lng); err != nil {
				return fmt.Errorf("failed to insert start location %s: %w", sl.Name, err)
			}
		}

		for i, loc := range seed.Locations {
			category, _ := catalog.ParseCategory(string(loc.Category))
			lat, lng := latLng(loc.Coordinates)
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tourist_locations (
					id, position, name, category, district, time_required,
					entrance_fee, description, lat, lng
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				loc.ID, i, loc.Name, category, loc.District, loc.TimeRequired,
				loc.EntranceFee, loc.Description, lat, lng,
			); err != nil {
				return fmt.Errorf("failed to insert location %s: %w", loc.ID, err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_meta (id, fingerprint, source, combinations, seeded_at)
			VALUES (1, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				fingerprint = excluded.fingerprint,
				source = excluded.source,
				combinations = excluded.combinations,
				seeded_at = excluded.seeded_at
		`, info.Fingerprint, info.Source, info.Combinations, info.SeededAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace catalog: %w", err)
	}

	return info, nil
}

func insertCombination(ctx context.Context, tx *sql.Tx, position int, c *catalog.Combination, now time.Time) error {
	styles, err := json.Marshal(c.TravelStyles)
	if err != nil {
		return err
	}
	itinerary, err := json.Marshal(c.Itinerary)
	if err != nil {
		return err
	}
	cost, err := json.Marshal(c.EstimatedCost)
	if err != nil {
		return err
	}
	highlights, err := json.Marshal(c.Highlights)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO combinations (
			id, position, travel_styles, days, start_location,
			itinerary, estimated_cost, total_cost, highlights, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID, position, string(styles), c.Days, c.StartLocation,
		string(itinerary), string(cost), c.EstimatedCost.Total, string(highlights), now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert combination %d: %w", c.ID, err)
	}
	return nil
}

// LoadCatalog reads every combination in catalog order and builds a
// validated catalog. An unseeded database yields ErrEmptyCatalog.
func (db *DB) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, travel_styles, days, start_location, itinerary, estimated_cost, highlights
		FROM combinations ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var combos []catalog.Combination
	for rows.Next() {
		var c catalog.Combination
		var styles, itinerary, cost, highlights string
		if err := rows.Scan(&c.ID, &styles, &c.Days, &c.StartLocation, &itinerary, &cost, &highlights); err != nil {
			return nil, err
		}
		if err := decodeCombination(&c, styles, itinerary, cost, highlights); err != nil {
			return nil, err
		}
		combos = append(combos, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(combos) == 0 {
		return nil, ErrEmptyCatalog
	}
	return catalog.New(combos)
}

func decodeCombination(c *catalog.Combination, styles, itinerary, cost, highlights string) error {
	if err := json.Unmarshal([]byte(styles), &c.TravelStyles); err != nil {
		return fmt.Errorf("combination %d: failed to decode travel_styles: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(itinerary), &c.Itinerary); err != nil {
		return fmt.Errorf("combination %d: failed to decode itinerary: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(cost), &c.EstimatedCost); err != nil {
		return fmt.Errorf("combination %d: failed to decode estimated_cost: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(highlights), &c.Highlights); err != nil {
		return fmt.Errorf("combination %d: failed to decode highlights: %w", c.ID, err)
	}
	return nil
}

// CatalogCount returns the number of stored combinations
func (db *DB) CatalogCount(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM combinations`).Scan(&n)
	return n, err
}

// GetCatalogInfo returns metadata about the stored catalog
func (db *DB) GetCatalogInfo(ctx context.Context) (*CatalogInfo, error) {
	info := &CatalogInfo{}
	err := db.QueryRowContext(ctx, `
		SELECT fingerprint, source, combinations, seeded_at FROM catalog_meta WHERE id = 1
	`).Scan(&info.Fingerprint, &info.Source, &info.Combinations, &info.SeededAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

// ListStartLocations returns the start locations in seed order
func (db *DB) ListStartLocations(ctx context.Context) ([]catalog.StartLocationInfo, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name, lat, lng FROM start_locations ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.StartLocationInfo
	for rows.Next() {
		var sl catalog.StartLocationInfo
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&sl.Name, &lat, &lng); err != nil {
			return nil, err
		}
		sl.Coordinates = coordinates(lat, lng)
		out = append(out, sl)
	}
	return out, rows.Err()
}

// ListLocations returns tourist locations in seed order, optionally limited
// to one category.
func (db *DB) ListLocations(ctx context.Context, category *catalog.Category) ([]catalog.TouristLocation, error) {
	query := `
		SELECT id, name, category, district, time_required, entrance_fee, description, lat, lng
		FROM tourist_locations WHERE 1=1
	`
	args := []interface{}{}

	if category != nil {
		query += " AND category = ?"
		args = append(args, *category)
	}

	query += " ORDER BY position"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.TouristLocation
	for rows.Next() {
		var loc catalog.TouristLocation
		var lat, lng sql.NullFloat64
		if err := rows.Scan(
			&loc.ID, &loc.Name, &loc.Category, &loc.District, &loc.TimeRequired,
			&loc.EntranceFee, &loc.Description, &lat, &lng,
		); err != nil {
			return nil, err
		}
		loc.Coordinates = coordinates(lat, lng)
		out = append(out, loc)
	}
	return out, rows.Err()
}
