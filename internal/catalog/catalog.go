// Package catalog holds the immutable set of pre-authored itineraries
// ("combinations") and the reference data that goes with them.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalid is returned when catalog data breaks a structural invariant
var ErrInvalid = errors.New("invalid catalog")

// Catalog is an ordered, read-only snapshot of combinations.
// It is safe for concurrent use; nothing mutates it after New returns.
type Catalog struct {
	combinations []Combination
	byID         map[int]int
	fingerprint  string
}

// New validates the combinations and builds a catalog preserving their order
func New(combinations []Combination) (*Catalog, error) {
	var errs []error
	byID := make(map[int]int, len(combinations))

	for i := range combinations {
		c := &combinations[i]
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
		if prev, dup := byID[c.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate combination id %d (positions %d and %d)", c.ID, prev, i))
			continue
		}
		byID[c.ID] = i
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	owned := make([]Combination, len(combinations))
	for i, c := range combinations {
		owned[i] = c.Clone()
	}

	fp, err := fingerprint(owned)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		combinations: owned,
		byID:         byID,
		fingerprint:  fp,
	}, nil
}

// Len returns the number of combinations
func (c *Catalog) Len() int {
	return len(c.combinations)
}

// Combinations returns the combinations in catalog order. The slice is a
// copy; nested slices and maps are shared and must be treated as read-only.
func (c *Catalog) Combinations() []Combination {
	out := make([]Combination, len(c.combinations))
	copy(out, c.combinations)
	return out
}

// ByID looks up a combination by its identifier
func (c *Catalog) ByID(id int) (Combination, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Combination{}, false
	}
	return c.combinations[idx], true
}

// Fingerprint identifies the catalog content. Two catalogs with the same
// combinations in the same order share a fingerprint.
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

func fingerprint(combinations []Combination) (string, error) {
	data, err := json.Marshal(combinations)
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}
