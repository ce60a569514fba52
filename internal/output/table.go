package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/budget"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/database"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/planner"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/recommend"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case *recommend.Response:
		return recommendationsTable(w, v)
	case *recommend.Recommendation:
		return recommendationDetail(w, v)
	case []recommend.Explanation:
		return explanationTable(w, v)
	case []budget.Tier:
		return tiersTable(w, v)
	case planner.Classification:
		return classificationLine(w, v)
	case []catalog.Style:
		return stylesList(w, v)
	case []catalog.StartLocationInfo:
		return startLocationsTable(w, v)
	case []catalog.TouristLocation:
		return locationsTable(w, v)
	case []database.Search:
		return searchesTable(w, v)
	case *database.CatalogInfo:
		return catalogInfo(w, v)
	case *planner.Stats:
		return statsTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func render(w io.Writer, header []string, rows [][]string) error {
	cols := make([]any, len(header))
	for i, h := range header {
		cols[i] = h
	}

	table := tablewriter.NewWriter(w)
	table.Header(cols...)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func recommendationsTable(w io.Writer, resp *recommend.Response) error {
	f := resp.FiltersApplied
	if len(resp.Recommendations) == 0 {
		fmt.Fprintf(w, "No trips match %s, %d day(s) from %s.\n", joinStyles(f.TravelStyles), f.Days, f.StartLocation)
		return nil
	}

	rows := make([][]string, len(resp.Recommendations))
	for i, r := range resp.Recommendations {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(r.ID),
			joinStyles(r.TravelStyles),
			strconv.Itoa(r.Days),
			FormatLKR(r.EstimatedCost.Total),
			fmt.Sprintf("%.1f", r.Score),
			truncate(strings.Join(r.Highlights, ", "), 40),
		}
	}
	if err := render(w, []string{"#", "ID", "STYLES", "DAYS", "COST", "SCORE", "HIGHLIGHTS"}, rows); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d result(s) from %s for %s (%s)\n",
		resp.TotalResults, f.StartLocation, FormatLKR(f.Budget), f.BudgetCategory)
	return nil
}

func recommendationDetail(w io.Writer, r *recommend.Recommendation) error {
	fmt.Fprintf(w, "Combination: %d\n", r.ID)
	fmt.Fprintf(w, "Styles:      %s\n", joinStyles(r.TravelStyles))
	fmt.Fprintf(w, "Start:       %s\n", r.StartLocation)
	fmt.Fprintf(w, "Days:        %d\n", r.Days)
	fmt.Fprintf(w, "Budget:      %s (%s)\n", FormatLKR(r.Budget), r.BudgetCategory)
	if r.Score > 0 {
		fmt.Fprintf(w, "Score:       %.1f\n", r.Score)
	}
	if len(r.Highlights) > 0 {
		fmt.Fprintf(w, "Highlights:  %s\n", strings.Join(r.Highlights, ", "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Itinerary:")
	for _, day := range r.Itinerary.DayNumbers() {
		plan := r.Itinerary[day]
		fmt.Fprintf(w, "  Day %d  %s\n", day, strings.Join(plan.Locations, ", "))
		if plan.Description != "" {
			fmt.Fprintf(w, "         %s\n", plan.Description)
		}
		stay := "-"
		if plan.Accommodation != nil {
			stay = *plan.Accommodation
		}
		fmt.Fprintf(w, "         meals: %s | stay: %s | transport: %s\n", plan.Meals, stay, plan.Transport)
	}

	c := r.EstimatedCost
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated cost:")
	fmt.Fprintf(w, "  Entrance fees:  %s\n", FormatLKR(c.EntranceFees))
	fmt.Fprintf(w, "  Meals:          %s\n", FormatLKR(c.Meals))
	fmt.Fprintf(w, "  Transport:      %s\n", FormatLKR(c.Transport))
	if c.Accommodation != nil {
		fmt.Fprintf(w, "  Accommodation:  %s\n", FormatLKR(*c.Accommodation))
	}
	if c.Guide != nil {
		fmt.Fprintf(w, "  Guide:          %s\n", FormatLKR(*c.Guide))
	}
	fmt.Fprintf(w, "  Total:          %s\n", FormatLKR(c.Total))

	return nil
}

func explanationTable(w io.Writer, exps []recommend.Explanation) error {
	rows := make([][]string, len(exps))
	for i, e := range exps {
		style, cost, total := "", "", ""
		if b := e.Breakdown; b != nil {
			style = fmt.Sprintf("%.1f (%d/%d)", b.StyleScore, b.MatchedStyles, b.RequestedStyles)
			cost = fmt.Sprintf("%.1f", b.BudgetScore)
			total = fmt.Sprintf("%.1f", b.Total)
		}
		rows[i] = []string{strconv.Itoa(e.ID), string(e.Result.Stage), e.Result.Reason, style, cost, total}
	}
	return render(w, []string{"ID", "STAGE", "REASON", "STYLE", "BUDGET", "SCORE"}, rows)
}

func tiersTable(w io.Writer, tiers []budget.Tier) error {
	rows := make([][]string, len(tiers))
	for i, t := range tiers {
		rows[i] = []string{t.Key, t.Label, FormatLKR(t.Min), FormatLKR(t.Max)}
	}
	return render(w, []string{"KEY", "LABEL", "MIN", "MAX"}, rows)
}

func classificationLine(w io.Writer, c planner.Classification) error {
	fmt.Fprintf(w, "%s: %s", FormatLKR(c.Budget), c.Label)
	if !c.InRange {
		fmt.Fprint(w, " (outside tier range)")
	}
	fmt.Fprintln(w)
	return nil
}

func stylesList(w io.Writer, styles []catalog.Style) error {
	for _, s := range styles {
		fmt.Fprintln(w, s)
	}
	return nil
}

func startLocationsTable(w io.Writer, locs []catalog.StartLocationInfo) error {
	rows := make([][]string, len(locs))
	for i, l := range locs {
		rows[i] = []string{string(l.Name), formatCoordinates(l.Coordinates)}
	}
	return render(w, []string{"NAME", "COORDINATES"}, rows)
}

func locationsTable(w io.Writer, locs []catalog.TouristLocation) error {
	if len(locs) == 0 {
		fmt.Fprintln(w, "No locations found.")
		return nil
	}

	rows := make([][]string, len(locs))
	for i, l := range locs {
		rows[i] = []string{
			l.ID,
			truncate(l.Name, 30),
			string(l.Category),
			l.District,
			fmt.Sprintf("%dh", l.TimeRequired),
			FormatLKR(l.EntranceFee),
		}
	}
	return render(w, []string{"ID", "NAME", "CATEGORY", "DISTRICT", "TIME", "ENTRANCE"}, rows)
}

func searchesTable(w io.Writer, searches []database.Search) error {
	if len(searches) == 0 {
		fmt.Fprintln(w, "No searches recorded.")
		return nil
	}

	rows := make([][]string, len(searches))
	for i, s := range searches {
		top := "-"
		if s.TopCombinationID != nil {
			top = strconv.Itoa(*s.TopCombinationID)
			if s.TopScore != nil {
				top += fmt.Sprintf(" (%.1f)", *s.TopScore)
			}
		}
		rows[i] = []string{
			s.CreatedAt.Local().Format("Jan 02 15:04"),
			joinStyles(s.TravelStyles),
			strconv.Itoa(s.Days),
			string(s.StartLocation),
			FormatLKR(s.Budget),
			strconv.Itoa(s.TotalResults),
			top,
		}
	}
	return render(w, []string{"WHEN", "STYLES", "DAYS", "FROM", "BUDGET", "RESULTS", "TOP"}, rows)
}

func catalogInfo(w io.Writer, info *database.CatalogInfo) error {
	fmt.Fprintf(w, "Combinations:  %d\n", info.Combinations)
	fmt.Fprintf(w, "Source:        %s\n", info.Source)
	fmt.Fprintf(w, "Fingerprint:   %s\n", info.Fingerprint)
	fmt.Fprintf(w, "Seeded:        %s\n", info.SeededAt.Local().Format("Jan 02, 2006 15:04"))
	return nil
}

func statsTable(w io.Writer, s *planner.Stats) error {
	fmt.Fprintln(w, "Trip Finder Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))

	if s.Catalog != nil {
		fmt.Fprintf(w, "Catalog combinations:   %d\n", s.Catalog.Combinations)
		fmt.Fprintf(w, "Catalog fingerprint:    %s\n", s.Catalog.Fingerprint)
	}

	if q := s.Searches; q != nil {
		fmt.Fprintf(w, "Total searches:         %d\n", q.TotalSearches)
		fmt.Fprintf(w, "Empty searches:         %d\n", q.EmptySearches)
		if q.TotalSearches > 0 {
			fmt.Fprintf(w, "Avg results:            %.1f\n", q.AvgResults)
			fmt.Fprintf(w, "Avg budget:             %s\n", FormatLKR(int(q.AvgBudget)))
		}

		if len(q.ByBudgetCategory) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "By budget category:")
			for _, k := range sortedKeys(q.ByBudgetCategory) {
				fmt.Fprintf(w, "  %-20s %d\n", k, q.ByBudgetCategory[k])
			}
		}
		if len(q.ByStartLocation) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "By start location:")
			for _, k := range sortedKeys(q.ByStartLocation) {
				fmt.Fprintf(w, "  %-20s %d\n", k, q.ByStartLocation[k])
			}
		}
		if len(q.TopCombinations) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Most recommended:")
			for _, c := range q.TopCombinations {
				fmt.Fprintf(w, "  #%-19d %d\n", c.ID, c.Count)
			}
		}
	}

	return nil
}

// FormatLKR renders an amount in rupees with thousands separators
func FormatLKR(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	if neg {
		return "LKR -" + b.String()
	}
	return "LKR " + b.String()
}

func formatCoordinates(c *catalog.Coordinates) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f, %.4f", c.Lat(), c.Lng())
}

func joinStyles(styles []catalog.Style) string {
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
