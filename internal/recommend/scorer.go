package recommend

import "github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"

// ScorerConfig configures the match score
type ScorerConfig struct {
	StyleWeight         float64 // Points for covering every requested style
	BudgetWeight        float64 // Points for a total at or under budget
	PartialBudgetCredit float64 // Points for a total within the tolerance
	OverBudgetTolerance int     // Percent over budget that still earns partial credit
}

// DefaultScorerConfig returns the standard 70/30 weighting
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		StyleWeight:         70,
		BudgetWeight:        30,
		PartialBudgetCredit: 15,
		OverBudgetTolerance: 20,
	}
}

// Scorer computes match scores for combinations that passed filtering
type Scorer struct {
	config ScorerConfig
}

// NewScorer creates a new Scorer with the given configuration
func NewScorer(config ScorerConfig) *Scorer {
	return &Scorer{config: config}
}

// Config returns the scorer configuration
func (s *Scorer) Config() ScorerConfig {
	return s.config
}

// StyleScore is the share of requested styles the combination covers,
// scaled to StyleWeight. The denominator is the request's style count.
func (s *Scorer) StyleScore(c *catalog.Combination, req *Request) float64 {
	requested := req.StyleSet()
	if requested.Len() == 0 {
		return 0
	}
	common := c.StyleSet().Intersect(requested).Len()
	return float64(common) / float64(requested.Len()) * s.config.StyleWeight
}

// BudgetScore awards full credit at or under budget and partial credit up to
// the tolerance over it.
func (s *Scorer) BudgetScore(total, budget int) float64 {
	switch {
	case total <= budget:
		return s.config.BudgetWeight
	case s.withinTolerance(total, budget):
		return s.config.PartialBudgetCredit
	default:
		return 0
	}
}

// withinTolerance compares in integers: total*100 <= budget*(100+tolerance)
func (s *Scorer) withinTolerance(total, budget int) bool {
	return int64(total)*100 <= int64(budget)*int64(100+s.config.OverBudgetTolerance)
}

// Score returns the combined match score
func (s *Scorer) Score(c *catalog.Combination, req *Request) float64 {
	return s.StyleScore(c, req) + s.BudgetScore(c.EstimatedCost.Total, req.Budget)
}

// Breakdown explains how a score was put together
type Breakdown struct {
	StyleScore      float64 `json:"styleScore"`
	BudgetScore     float64 `json:"budgetScore"`
	Total           float64 `json:"total"`
	MatchedStyles   int     `json:"matchedStyles"`
	RequestedStyles int     `json:"requestedStyles"`
	Cost            int     `json:"cost"`
	Budget          int     `json:"budget"`
}

// Breakdown returns the score components for c against req
func (s *Scorer) Breakdown(c *catalog.Combination, req *Request) Breakdown {
	requested := req.StyleSet()
	b := Breakdown{
		StyleScore:      s.StyleScore(c, req),
		BudgetScore:     s.BudgetScore(c.EstimatedCost.Total, req.Budget),
		MatchedStyles:   c.StyleSet().Intersect(requested).Len(),
		RequestedStyles: requested.Len(),
		Cost:            c.EstimatedCost.Total,
		Budget:          req.Budget,
	}
	b.Total = b.StyleScore + b.BudgetScore
	return b
}

var defaultScorer = NewScorer(DefaultScorerConfig())

// Score scores c against req with the default weighting
func Score(c *catalog.Combination, req *Request) float64 {
	return defaultScorer.Score(c, req)
}
