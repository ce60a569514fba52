package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/recommend"
)

var csvHeader = []string{
	"id", "travel_styles", "days", "start_location", "budget", "budget_category",
	"entrance_fees", "meals", "transport", "accommodation", "guide", "total",
	"score", "highlights",
}

// RecommendationsCSV writes recommendations as CSV with a header row.
// Multi-valued fields are joined with ";".
func RecommendationsCSV(w io.Writer, recs []recommend.Recommendation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range recs {
		styles := make([]string, len(r.TravelStyles))
		for i, s := range r.TravelStyles {
			styles[i] = string(s)
		}
		c := r.EstimatedCost

		record := []string{
			strconv.Itoa(r.ID),
			strings.Join(styles, ";"),
			strconv.Itoa(r.Days),
			string(r.StartLocation),
			strconv.Itoa(r.Budget),
			r.BudgetCategory,
			strconv.Itoa(c.EntranceFees),
			strconv.Itoa(c.Meals),
			strconv.Itoa(c.Transport),
			optionalInt(c.Accommodation),
			optionalInt(c.Guide),
			strconv.Itoa(c.Total),
			strconv.FormatFloat(r.Score, 'f', -1, 64),
			strings.Join(r.Highlights, ";"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
