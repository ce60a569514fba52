package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// DayPlan is a single day of an itinerary
type DayPlan struct {
	Locations     []string `json:"locations" yaml:"locations"`
	Description   string   `json:"description" yaml:"description"`
	Meals         string   `json:"meals" yaml:"meals"`
	Accommodation *string  `json:"accommodation" yaml:"accommodation"` // nil on day trips and final days
	Transport     string   `json:"transport" yaml:"transport"`
}

// Itinerary maps day number (1-based) to the plan for that day
type Itinerary map[int]DayPlan

// DayNumbers returns the day keys in ascending order
func (it Itinerary) DayNumbers() []int {
	days := make([]int, 0, len(it))
	for d := range it {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// EstimatedCost is the precomputed cost breakdown of a combination
type EstimatedCost struct {
	EntranceFees  int  `json:"entranceFees" yaml:"entranceFees"`
	Meals         int  `json:"meals" yaml:"meals"`
	Transport     int  `json:"transport" yaml:"transport"`
	Accommodation *int `json:"accommodation" yaml:"accommodation"`
	Guide         *int `json:"guide" yaml:"guide"`
	Total         int  `json:"total" yaml:"total"`
}

// Sum adds up the individual cost components
func (c EstimatedCost) Sum() int {
	sum := c.EntranceFees + c.Meals + c.Transport
	if c.Accommodation != nil {
		sum += *c.Accommodation
	}
	if c.Guide != nil {
		sum += *c.Guide
	}
	return sum
}

// Validate checks component signs and the total invariant
func (c EstimatedCost) Validate() error {
	var errs []error

	if c.EntranceFees < 0 || c.Meals < 0 || c.Transport < 0 {
		errs = append(errs, errors.New("cost components must be non-negative"))
	}
	if c.Accommodation != nil && *c.Accommodation < 0 {
		errs = append(errs, errors.New("accommodation cost must be non-negative"))
	}
	if c.Guide != nil && *c.Guide < 0 {
		errs = append(errs, errors.New("guide cost must be non-negative"))
	}
	if sum := c.Sum(); sum != c.Total {
		errs = append(errs, fmt.Errorf("cost total %d does not match component sum %d", c.Total, sum))
	}

	return errors.Join(errs...)
}

// Combination is a pre-authored multi-day itinerary
type Combination struct {
	ID            int           `json:"id" yaml:"id"`
	TravelStyles  []Style       `json:"travelStyles" yaml:"travelStyles"`
	Days          int           `json:"days" yaml:"days"`
	StartLocation StartLocation `json:"startLocation" yaml:"startLocation"`
	Itinerary     Itinerary     `json:"itinerary" yaml:"itinerary"`
	EstimatedCost EstimatedCost `json:"estimatedCost" yaml:"estimatedCost"`
	Highlights    []string      `json:"highlights" yaml:"highlights"`
}

// StyleSet returns the combination's styles as a set
func (c *Combination) StyleSet() StyleSet {
	return NewStyleSet(c.TravelStyles...)
}

// Validate checks the structural invariants of a combination
func (c *Combination) Validate() error {
	var errs []error

	if c.ID < 1 {
		errs = append(errs, fmt.Errorf("id must be positive, got %d", c.ID))
	}

	if len(c.TravelStyles) == 0 {
		errs = append(errs, errors.New("travelStyles must not be empty"))
	}
	for _, s := range c.TravelStyles {
		if !s.Valid() {
			errs = append(errs, fmt.Errorf("unknown travel style %q", s))
		}
	}

	if !c.StartLocation.Valid() {
		errs = append(errs, fmt.Errorf("unknown start location %q", c.StartLocation))
	}

	if c.Days < 1 {
		errs = append(errs, fmt.Errorf("days must be positive, got %d", c.Days))
	}
	if len(c.Itinerary) != c.Days {
		errs = append(errs, fmt.Errorf("days is %d but itinerary has %d entries", c.Days, len(c.Itinerary)))
	}
	for day := 1; day <= c.Days; day++ {
		plan, ok := c.Itinerary[day]
		if !ok {
			errs = append(errs, fmt.Errorf("itinerary is missing day %d", day))
			continue
		}
		if len(plan.Locations) == 0 {
			errs = append(errs, fmt.Errorf("day %d has no locations", day))
		}
	}

	if err := c.EstimatedCost.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("combination %d: %w", c.ID, errors.Join(errs...))
	}
	return nil
}

// Clone returns a deep copy so callers can hand the result out without
// exposing catalog internals.
func (c Combination) Clone() Combination {
	out := c
	out.TravelStyles = append([]Style(nil), c.TravelStyles...)
	out.Highlights = append([]string(nil), c.Highlights...)

	if c.Itinerary != nil {
		out.Itinerary = make(Itinerary, len(c.Itinerary))
		for day, plan := range c.Itinerary {
			p := plan
			p.Locations = append([]string(nil), plan.Locations...)
			if plan.Accommodation != nil {
				acc := *plan.Accommodation
				p.Accommodation = &acc
			}
			out.Itinerary[day] = p
		}
	}

	if c.EstimatedCost.Accommodation != nil {
		v := *c.EstimatedCost.Accommodation
		out.EstimatedCost.Accommodation = &v
	}
	if c.EstimatedCost.Guide != nil {
		v := *c.EstimatedCost.Guide
		out.EstimatedCost.Guide = &v
	}
	return out
}
