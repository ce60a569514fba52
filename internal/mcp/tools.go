package mcp

import (
	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/recommend"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func styleEnum() []string {
	out := make([]string, len(catalog.AllStyles))
	for i, s := range catalog.AllStyles {
		out[i] = string(s)
	}
	return out
}

func startLocationEnum() []string {
	out := make([]string, len(catalog.AllStartLocations))
	for i, l := range catalog.AllStartLocations {
		out[i] = string(l)
	}
	return out
}

func categoryEnum() []string {
	out := make([]string, len(catalog.AllCategories))
	for i, c := range catalog.AllCategories {
		out[i] = string(c)
	}
	return out
}

var noArguments = map[string]interface{}{
	"type":       "object",
	"properties": map[string]interface{}{},
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "recommend_trips",
		Description: "Recommend pre-planned Sri Lanka itineraries for a starting point, trip length, travel styles and budget in LKR. Results are ranked by style match and budget fit.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"travelStyles": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string", "enum": styleEnum()},
					"minItems":    1,
					"description": "Travel styles the trip must stay within",
				},
				"days": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"maximum":     recommend.MaxDays,
					"description": "Exact trip length in days",
				},
				"startLocation": map[string]interface{}{
					"type":        "string",
					"enum":        startLocationEnum(),
					"description": "Where the trip starts",
				},
				"budget": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"description": "Total budget in LKR",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"description": "Maximum number of recommendations (default: 10)",
				},
				"explain": map[string]interface{}{
					"type":        "boolean",
					"description": "Return the filter decision and score breakdown for every combination instead of recommendations",
				},
			},
			"required": []string{"travelStyles", "days", "startLocation", "budget"},
		},
	},
	{
		Name:        "get_combination",
		Description: "Get one itinerary by id, with its day-by-day plan and cost breakdown. Budget and category come from the itinerary's own total.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "integer",
					"description": "Combination id",
				},
			},
			"required": []string{"id"},
		},
	},
	{
		Name:        "list_budget_tiers",
		Description: "List budget categories keyed by tier with their LKR ranges.",
		InputSchema: noArguments,
	},
	{
		Name:        "classify_budget",
		Description: "Return the budget category for an amount in LKR.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"budget": map[string]interface{}{
					"type":        "integer",
					"description": "Amount in LKR",
				},
			},
			"required": []string{"budget"},
		},
	},
	{
		Name:        "list_travel_styles",
		Description: "List the accepted travel styles.",
		InputSchema: noArguments,
	},
	{
		Name:        "list_start_locations",
		Description: "List the accepted starting points with coordinates.",
		InputSchema: noArguments,
	},
	{
		Name:        "list_locations",
		Description: "List tourist locations that appear in itineraries, optionally by category.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"category": map[string]interface{}{
					"type":        "string",
					"enum":        categoryEnum(),
					"description": "Only list locations in this category",
				},
			},
		},
	},
	{
		Name:        "recent_searches",
		Description: "List recent recommendation requests, newest first.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"start_location": map[string]interface{}{
					"type":        "string",
					"enum":        startLocationEnum(),
					"description": "Only list searches from this starting point",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of searches to return (default: 20)",
				},
			},
		},
	},
	{
		Name:        "get_stats",
		Description: "Get catalog details, aggregate search statistics and process counters.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"since_days": map[string]interface{}{
					"type":        "integer",
					"description": "Calculate search stats for the last N days only",
				},
			},
		},
	},
}
