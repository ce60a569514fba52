package recommend

import (
	"sort"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
)

// Classifier labels a budget amount
type Classifier interface {
	Classify(amount int) string
}

// Scored is a filtered combination with its score
type Scored struct {
	Combination catalog.Combination
	Score       float64
}

// Recommendation is a combination projected for one request. BudgetCategory
// and Score belong to the request and never live on the combination.
type Recommendation struct {
	ID             int                   `json:"id"`
	TravelStyles   []catalog.Style       `json:"travelStyles"`
	Days           int                   `json:"days"`
	StartLocation  catalog.StartLocation `json:"startLocation"`
	Budget         int                   `json:"budget"`
	BudgetCategory string                `json:"budgetCategory"`
	Itinerary      catalog.Itinerary     `json:"itinerary"`
	EstimatedCost  catalog.EstimatedCost `json:"estimatedCost"`
	Highlights     []string              `json:"highlights"`
	Score          float64               `json:"score"`
}

// Project builds a Recommendation from a combination. The combination is
// deep-copied so the result can be handed out freely.
func Project(c catalog.Combination, budget int, category string, score float64) Recommendation {
	c = c.Clone()
	return Recommendation{
		ID:             c.ID,
		TravelStyles:   c.TravelStyles,
		Days:           c.Days,
		StartLocation:  c.StartLocation,
		Budget:         budget,
		BudgetCategory: category,
		Itinerary:      c.Itinerary,
		EstimatedCost:  c.EstimatedCost,
		Highlights:     c.Highlights,
		Score:          score,
	}
}

// Rank orders scored combinations by descending score and projects them for
// req. Equal scores keep their input order. The input slice is not modified.
func Rank(scored []Scored, req *Request, tiers Classifier) []Recommendation {
	ordered := make([]Scored, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	category := tiers.Classify(req.Budget)
	out := make([]Recommendation, len(ordered))
	for i, s := range ordered {
		out[i] = Project(s.Combination, req.Budget, category, s.Score)
	}
	return out
}
