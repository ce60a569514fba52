package recommend

import (
	"fmt"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
)

// Stage identifies which filtering stage made the decision
type Stage string

const (
	StageStartLocation Stage = "start_location"
	StageDays          Stage = "days"
	StageStyles        Stage = "styles"
	StageMatched       Stage = "matched"
)

// Result represents the outcome of filtering one combination
type Result struct {
	Include bool   `json:"include"` // Whether the combination survives
	Stage   Stage  `json:"stage"`   // Which stage made the decision
	Reason  string `json:"reason"`  // Human-readable reason
}

// Decision pairs a combination id with its filter result
type Decision struct {
	ID     int
	Result Result
}

// Check runs a combination through the filter stages. Stages are applied in
// order and the first failing stage decides.
func Check(c *catalog.Combination, req *Request) Result {
	// Stage 1: exact start location
	if result := checkStartLocation(c, req); result != nil {
		return *result
	}

	// Stage 2: exact day count
	if result := checkDays(c, req); result != nil {
		return *result
	}

	// Stage 3: no style outside the request
	if result := checkStyles(c, req.StyleSet()); result != nil {
		return *result
	}

	return Result{
		Include: true,
		Stage:   StageMatched,
		Reason:  "matches start location, days and styles",
	}
}

func checkStartLocation(c *catalog.Combination, req *Request) *Result {
	if c.StartLocation == req.StartLocation {
		return nil
	}
	return &Result{
		Stage:  StageStartLocation,
		Reason: fmt.Sprintf("starts at %s, not %s", c.StartLocation, req.StartLocation),
	}
}

func checkDays(c *catalog.Combination, req *Request) *Result {
	if c.Days == req.Days {
		return nil
	}
	return &Result{
		Stage:  StageDays,
		Reason: fmt.Sprintf("%d day(s), not %d", c.Days, req.Days),
	}
}

func checkStyles(c *catalog.Combination, requested catalog.StyleSet) *Result {
	styles := c.StyleSet()
	if styles.SubsetOf(requested) {
		return nil
	}
	extra := styles &^ requested
	return &Result{
		Stage:  StageStyles,
		Reason: fmt.Sprintf("includes unrequested style(s): %s", extra),
	}
}

// Filter returns the combinations that pass every stage, in input order.
// A structurally invalid combination aborts the whole call.
func Filter(combinations []catalog.Combination, req *Request) ([]catalog.Combination, error) {
	matched := make([]catalog.Combination, 0)

	for i := range combinations {
		c := &combinations[i]
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCombination, err)
		}
		if Check(c, req).Include {
			matched = append(matched, *c)
		}
	}

	return matched, nil
}

// Explain returns the filter decision for every combination in input order.
// It rejects invalid combinations the same way Filter does.
func Explain(combinations []catalog.Combination, req *Request) ([]Decision, error) {
	decisions := make([]Decision, 0, len(combinations))
	for i := range combinations {
		c := &combinations[i]
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCombination, err)
		}
		decisions = append(decisions, Decision{
			ID:     c.ID,
			Result: Check(c, req),
		})
	}
	return decisions, nil
}

// FilterStats counts decisions per stage
type FilterStats struct {
	Total         int `json:"total"`
	Matched       int `json:"matched"`
	StartLocation int `json:"rejectedStartLocation"`
	Days          int `json:"rejectedDays"`
	Styles        int `json:"rejectedStyles"`
}

// GetStats returns statistics about filter decisions
func GetStats(decisions []Decision) FilterStats {
	stats := FilterStats{Total: len(decisions)}

	for _, d := range decisions {
		switch d.Result.Stage {
		case StageMatched:
			stats.Matched++
		case StageStartLocation:
			stats.StartLocation++
		case StageDays:
			stats.Days++
		case StageStyles:
			stats.Styles++
		}
	}

	return stats
}
