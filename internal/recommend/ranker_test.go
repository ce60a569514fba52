package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/budget"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
)

func TestRank_DescendingAndStable(t *testing.T) {
	scored := []Scored{
		{Combination: combo(1, catalog.StartKandy, 1, 100, catalog.StyleCultural), Score: 65},
		{Combination: combo(2, catalog.StartKandy, 1, 100, catalog.StyleCultural), Score: 100},
		{Combination: combo(3, catalog.StartKandy, 1, 100, catalog.StyleCultural), Score: 65},
		{Combination: combo(4, catalog.StartKandy, 1, 100, catalog.StyleCultural), Score: 50},
		{Combination: combo(5, catalog.StartKandy, 1, 100, catalog.StyleCultural), Score: 65},
	}
	req := &Request{Budget: 150000}

	first := Rank(scored, req, budget.Default())
	assert.Equal(t, []int{2, 1, 3, 5, 4}, ids(first))

	second := Rank(scored, req, budget.Default())
	assert.Equal(t, ids(first), ids(second))

	// input untouched
	assert.Equal(t, 1, scored[0].Combination.ID)
}

func TestRank_Projection(t *testing.T) {
	c := combo(13, catalog.StartColomboPort, 3, 100530, catalog.StyleCultural, catalog.StyleAdventure)
	req := &Request{
		TravelStyles:  []catalog.Style{catalog.StyleCultural, catalog.StyleAdventure, catalog.StyleSpiritual},
		Budget:        150000,
		Days:          3,
		StartLocation: catalog.StartColomboPort,
	}

	recs := Rank([]Scored{{Combination: c, Score: 76.66}}, req, budget.Default())
	require.Len(t, recs, 1)

	r := recs[0]
	assert.Equal(t, 13, r.ID)
	assert.Equal(t, c.TravelStyles, r.TravelStyles)
	assert.Equal(t, 150000, r.Budget)
	assert.Equal(t, "Moderate", r.BudgetCategory)
	assert.Equal(t, 100530, r.EstimatedCost.Total)
	assert.Equal(t, c.Highlights, r.Highlights)
	assert.Len(t, r.Itinerary, 3)
	assert.Equal(t, 76.66, r.Score)
}

func TestRank_Empty(t *testing.T) {
	recs := Rank(nil, &Request{Budget: 1}, budget.Default())
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

type fixedClassifier string

func (f fixedClassifier) Classify(int) string { return string(f) }

func TestRank_UsesClassifier(t *testing.T) {
	recs := Rank([]Scored{{Combination: combo(1, catalog.StartKandy, 1, 1, catalog.StyleCultural)}}, &Request{Budget: 1}, fixedClassifier("Custom"))
	require.Len(t, recs, 1)
	assert.Equal(t, "Custom", recs[0].BudgetCategory)
}
