package mcp

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Resource URIs
const (
	ResourceStyles         = "tripfinder://styles"
	ResourceStartLocations = "tripfinder://start-locations"
	ResourceBudgetTiers    = "tripfinder://budget-tiers"
	ResourceCatalog        = "tripfinder://catalog"
	ResourceHistory        = "tripfinder://history"
)

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         ResourceStyles,
		Name:        "Travel Styles",
		Description: "Accepted travel style values",
		MimeType:    "text/plain",
	},
	{
		URI:         ResourceStartLocations,
		Name:        "Start Locations",
		Description: "Accepted starting points with coordinates",
		MimeType:    "text/plain",
	},
	{
		URI:         ResourceBudgetTiers,
		Name:        "Budget Tiers",
		Description: "Budget categories and their LKR ranges",
		MimeType:    "text/plain",
	},
	{
		URI:         ResourceCatalog,
		Name:        "Catalog",
		Description: "Size, source and fingerprint of the loaded itinerary catalog",
		MimeType:    "text/plain",
	},
	{
		URI:         ResourceHistory,
		Name:        "Recent Searches",
		Description: "Last 10 recommendation requests and their top result",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}
