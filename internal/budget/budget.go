// Package budget maps a spend amount to a named budget tier.
package budget

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOutOfRange is returned by ClassifyStrict for budgets outside the tier table
var ErrOutOfRange = errors.New("budget outside tier table")

// Policy decides what happens to budgets outside the tier table
type Policy string

const (
	// ClampPolicy assigns out-of-range budgets to the nearest tier
	ClampPolicy Policy = "clamp"
	// StrictPolicy rejects out-of-range budgets in ClassifyStrict
	StrictPolicy Policy = "strict"
)

// ParsePolicy resolves a policy name; empty means ClampPolicy
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case "", ClampPolicy:
		return ClampPolicy, nil
	case StrictPolicy:
		return StrictPolicy, nil
	default:
		return "", fmt.Errorf("unknown budget policy %q (valid: clamp, strict)", name)
	}
}

// Tier is one row of the tier table. Min and Max are inclusive.
type Tier struct {
	Key   string `json:"key" toml:"key"`
	Min   int    `json:"min" toml:"min"`
	Max   int    `json:"max" toml:"max"`
	Label string `json:"label" toml:"label"`
}

// Contains reports whether amount falls inside the tier
func (t Tier) Contains(amount int) bool {
	return amount >= t.Min && amount <= t.Max
}

// Range is the {min, max, label} shape exposed by tier listings
type Range struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Label string `json:"label"`
}

// DefaultTiers returns the standard four-tier table in LKR
func DefaultTiers() []Tier {
	return []Tier{
		{Key: "budget", Min: 25000, Max: 100000, Label: "Budget"},
		{Key: "moderate", Min: 100001, Max: 200000, Label: "Moderate"},
		{Key: "comfort", Min: 200001, Max: 350000, Label: "Comfort"},
		{Key: "luxury", Min: 350001, Max: 500000, Label: "Luxury"},
	}
}

// Table is an ordered, contiguous set of tiers
type Table struct {
	tiers  []Tier
	policy Policy
}

// NewTable validates the tiers and returns a table sorted by Min.
// Tiers must not overlap and must leave no gaps between them.
func NewTable(tiers []Tier, policy Policy) (*Table, error) {
	if len(tiers) == 0 {
		return nil, errors.New("budget: at least one tier is required")
	}
	if policy != ClampPolicy && policy != StrictPolicy {
		return nil, fmt.Errorf("budget: unknown policy %q", policy)
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	var errs []error
	seen := make(map[string]bool, len(sorted))
	for i, t := range sorted {
		if t.Key == "" {
			errs = append(errs, fmt.Errorf("tier %d: key is required", i))
		} else if seen[t.Key] {
			errs = append(errs, fmt.Errorf("duplicate tier key %q", t.Key))
		}
		seen[t.Key] = true

		if t.Label == "" {
			errs = append(errs, fmt.Errorf("tier %q: label is required", t.Key))
		}
		if t.Min > t.Max {
			errs = append(errs, fmt.Errorf("tier %q: min %d is greater than max %d", t.Key, t.Min, t.Max))
		}
		if i > 0 {
			prev := sorted[i-1]
			if t.Min != prev.Max+1 {
				errs = append(errs, fmt.Errorf("tier %q must start at %d, got %d", t.Key, prev.Max+1, t.Min))
			}
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("budget: invalid tiers: %w", errors.Join(errs...))
	}

	return &Table{tiers: sorted, policy: policy}, nil
}

// Default returns the default tier table with the clamp policy
func Default() *Table {
	t, err := NewTable(DefaultTiers(), ClampPolicy)
	if err != nil {
		panic(err)
	}
	return t
}

// Policy returns the table's out-of-range policy
func (t *Table) Policy() Policy {
	return t.policy
}

// Lookup returns the tier for amount, clamping to the lowest or highest tier
// when amount is outside the table.
func (t *Table) Lookup(amount int) Tier {
	for _, tier := range t.tiers {
		if tier.Contains(amount) {
			return tier
		}
	}
	if amount < t.tiers[0].Min {
		return t.tiers[0]
	}
	return t.tiers[len(t.tiers)-1]
}

// Classify returns the tier label for amount. Every integer gets a label.
func (t *Table) Classify(amount int) string {
	return t.Lookup(amount).Label
}

// InRange reports whether amount is covered by the table without clamping
func (t *Table) InRange(amount int) bool {
	return amount >= t.tiers[0].Min && amount <= t.tiers[len(t.tiers)-1].Max
}

// ClassifyStrict is Classify honoring the policy: under StrictPolicy an
// out-of-range amount yields ErrOutOfRange.
func (t *Table) ClassifyStrict(amount int) (Tier, error) {
	if t.policy == StrictPolicy && !t.InRange(amount) {
		lo, hi := t.Bounds()
		return Tier{}, fmt.Errorf("%w: %d is not within %d-%d", ErrOutOfRange, amount, lo, hi)
	}
	return t.Lookup(amount), nil
}

// Bounds returns the lowest min and highest max of the table
func (t *Table) Bounds() (int, int) {
	return t.tiers[0].Min, t.tiers[len(t.tiers)-1].Max
}

// Ordered returns the tiers in ascending order
func (t *Table) Ordered() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// Tiers returns the table keyed by tier key
func (t *Table) Tiers() map[string]Range {
	out := make(map[string]Range, len(t.tiers))
	for _, tier := range t.tiers {
		out[tier.Key] = Range{Min: tier.Min, Max: tier.Max, Label: tier.Label}
	}
	return out
}
