package recommend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
)

func combo(id int, start catalog.StartLocation, days, total int, styles ...catalog.Style) catalog.Combination {
	it := make(catalog.Itinerary, days)
	for d := 1; d <= days; d++ {
		it[d] = catalog.DayPlan{Locations: []string{fmt.Sprintf("place %d-%d", id, d)}}
	}
	return catalog.Combination{
		ID:            id,
		TravelStyles:  styles,
		Days:          days,
		StartLocation: start,
		Itinerary:     it,
		EstimatedCost: catalog.EstimatedCost{EntranceFees: total, Total: total},
		Highlights:    []string{fmt.Sprintf("highlight %d", id)},
	}
}

func newCatalog(t *testing.T, combos ...catalog.Combination) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(combos)
	require.NoError(t, err)
	return cat
}

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	seed, err := catalog.DefaultSeed()
	require.NoError(t, err)
	cat, err := seed.Catalog()
	require.NoError(t, err)
	return cat
}

// styleSubsets returns every non-empty combination of the known styles
func styleSubsets() [][]catalog.Style {
	var out [][]catalog.Style
	n := len(catalog.AllStyles)
	for mask := 1; mask < 1<<n; mask++ {
		var styles []catalog.Style
		for i, s := range catalog.AllStyles {
			if mask&(1<<i) != 0 {
				styles = append(styles, s)
			}
		}
		out = append(out, styles)
	}
	return out
}

func ids(recs []Recommendation) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
