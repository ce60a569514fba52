package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/database"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/planner"
)

func newServer(t *testing.T) *Server {
	t.Helper()

	db, err := database.Open(database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zaptest.NewLogger(t)
	p := planner.New(planner.Options{
		Store:   db,
		Logger:  logger,
		History: planner.HistoryOptions{Enabled: true},
	})
	require.NoError(t, p.Start(context.Background(), func() (*catalog.Seed, string, error) {
		s, err := catalog.DefaultSeed()
		return s, "embedded", err
	}))

	return New(p, logger, "test")
}

type rawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// exchange sends each message on its own line and returns the responses
func exchange(t *testing.T, s *Server, messages ...string) []rawResponse {
	t.Helper()

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(messages, "\n") + "\n")
	require.NoError(t, s.Serve(context.Background(), in, &out))

	var responses []rawResponse
	scanner := bufio.NewScanner(&out)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var r rawResponse
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r), scanner.Text())
		responses = append(responses, r)
	}
	require.NoError(t, scanner.Err())
	return responses
}

func callTool(t *testing.T, s *Server, name string, args interface{}) callToolResult {
	t.Helper()

	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	require.NoError(t, err)
	msg := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":` + string(params) + `}`

	responses := exchange(t, s, msg)
	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	var result callToolResult
	require.NoError(t, json.Unmarshal(responses[0].Result, &result))
	require.Len(t, result.Content, 1)
	return result
}

func TestServer_Initialize(t *testing.T) {
	s := newServer(t)

	responses := exchange(t, s,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	)
	require.Len(t, responses, 2)

	var init initializeResult
	require.NoError(t, json.Unmarshal(responses[0].Result, &init))
	assert.Equal(t, ProtocolVersion, init.ProtocolVersion)
	assert.Equal(t, "tripfinder-mcp", init.ServerInfo.Name)
	assert.Equal(t, "test", init.ServerInfo.Version)

	assert.JSONEq(t, "2", string(responses[1].ID))
}

func TestServer_Errors(t *testing.T) {
	s := newServer(t)

	responses := exchange(t, s,
		`not json`,
		`{"jsonrpc":"2.0","id":1,"method":"bogus"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"nope"}}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/read","params":{"uri":"tripfinder://nope"}}`,
	)
	require.Len(t, responses, 4)

	assert.Equal(t, codeParseError, responses[0].Error.Code)
	assert.Equal(t, codeMethodNotFound, responses[1].Error.Code)
	assert.Equal(t, codeInvalidParams, responses[2].Error.Code)
	assert.Contains(t, responses[2].Error.Message, "Unknown tool: nope")
	assert.Equal(t, codeInvalidParams, responses[3].Error.Code)
}

func TestServer_ToolsList(t *testing.T) {
	s := newServer(t)

	responses := exchange(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	require.Len(t, responses, 1)

	var list toolsListResult
	require.NoError(t, json.Unmarshal(responses[0].Result, &list))

	names := make(map[string]bool)
	for _, tool := range list.Tools {
		names[tool.Name] = true
		_, registered := s.handlers[tool.Name]
		assert.True(t, registered, "tool %s has no handler", tool.Name)
	}
	assert.Len(t, names, len(s.handlers))
}

func TestServer_RecommendTrips(t *testing.T) {
	s := newServer(t)

	result := callTool(t, s, "recommend_trips", map[string]interface{}{
		"travelStyles":  []string{"Cultural", "Adventure"},
		"days":          3,
		"startLocation": "Colombo Port",
		"budget":        150000,
	})
	assert.False(t, result.IsError)

	var resp struct {
		Success         bool `json:"success"`
		TotalResults    int  `json:"totalResults"`
		Recommendations []struct {
			ID             int     `json:"id"`
			Score          float64 `json:"score"`
			BudgetCategory string  `json:"budgetCategory"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.TotalResults)
	assert.Equal(t, 13, resp.Recommendations[0].ID)
	assert.Equal(t, "Moderate", resp.Recommendations[0].BudgetCategory)
}

func TestServer_RecommendTrips_Explain(t *testing.T) {
	s := newServer(t)

	result := callTool(t, s, "recommend_trips", map[string]interface{}{
		"travelStyles":  []string{"Cultural"},
		"days":          1,
		"startLocation": "Anuradhapura",
		"budget":        20000,
		"explain":       true,
	})
	assert.False(t, result.IsError)

	var exps []struct {
		ID     int `json:"id"`
		Result struct {
			Include bool   `json:"include"`
			Stage   string `json:"stage"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &exps))
	assert.Len(t, exps, 16)
}

func TestServer_RecommendTrips_Invalid(t *testing.T) {
	s := newServer(t)

	result := callTool(t, s, "recommend_trips", map[string]interface{}{
		"travelStyles":  []string{"Beach"},
		"days":          0,
		"startLocation": "Colombo Port",
		"budget":        150000,
	})
	assert.True(t, result.IsError)

	var body toolError
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &body))
	assert.False(t, body.Success)

	fields := make([]string, len(body.Problems))
	for i, p := range body.Problems {
		fields[i] = p.Field
	}
	assert.ElementsMatch(t, []string{"travelStyles[0]", "days"}, fields)
}

func TestServer_GetCombination(t *testing.T) {
	s := newServer(t)

	result := callTool(t, s, "get_combination", map[string]interface{}{"id": 5})
	assert.False(t, result.IsError)

	var rec struct {
		ID             int     `json:"id"`
		Budget         int     `json:"budget"`
		BudgetCategory string  `json:"budgetCategory"`
		Score          float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &rec))
	assert.Equal(t, 5, rec.ID)
	assert.Equal(t, 9350, rec.Budget)
	assert.Equal(t, "Budget", rec.BudgetCategory)
	assert.Zero(t, rec.Score)

	result = callTool(t, s, "get_combination", map[string]interface{}{"id": 999})
	assert.True(t, result.IsError)

	var body toolError
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &body))
	require.NotNil(t, body.ID)
	assert.Equal(t, 999, *body.ID)

	result = callTool(t, s, "get_combination", map[string]interface{}{})
	assert.True(t, result.IsError)
}

func TestServer_Enumerations(t *testing.T) {
	s := newServer(t)

	var tiers map[string]struct {
		Min   int    `json:"min"`
		Max   int    `json:"max"`
		Label string `json:"label"`
	}
	result := callTool(t, s, "list_budget_tiers", nil)
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &tiers))
	assert.Equal(t, 350001, tiers["luxury"].Min)
	assert.Equal(t, "Comfort", tiers["comfort"].Label)

	var styles []string
	result = callTool(t, s, "list_travel_styles", nil)
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &styles))
	assert.Equal(t, []string{"Adventure", "Cultural", "Spiritual", "Nature/Wildlife"}, styles)

	var starts []struct {
		Name string `json:"name"`
	}
	result = callTool(t, s, "list_start_locations", nil)
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &starts))
	assert.Len(t, starts, 4)

	var class struct {
		Label   string `json:"label"`
		InRange bool   `json:"inRange"`
	}
	result = callTool(t, s, "classify_budget", map[string]interface{}{"budget": 150000})
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &class))
	assert.Equal(t, "Moderate", class.Label)
	assert.True(t, class.InRange)

	result = callTool(t, s, "list_locations", map[string]interface{}{"category": "spiritual"})
	assert.False(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, `"category": "spiritual"`)
}

func TestServer_HistoryAndStats(t *testing.T) {
	s := newServer(t)

	callTool(t, s, "recommend_trips", map[string]interface{}{
		"travelStyles":  []string{"Cultural"},
		"days":          3,
		"startLocation": "Colombo Port",
		"budget":        120000,
	})

	var searches []struct {
		StartLocation string `json:"start_location"`
		TotalResults  int    `json:"total_results"`
	}
	result := callTool(t, s, "recent_searches", map[string]interface{}{"start_location": "Colombo Port"})
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &searches))
	require.Len(t, searches, 1)
	assert.Equal(t, "Colombo Port", searches[0].StartLocation)

	result = callTool(t, s, "recent_searches", map[string]interface{}{"start_location": "Jaffna"})
	assert.True(t, result.IsError)

	var stats struct {
		Catalog struct {
			Combinations int `json:"combinations"`
		} `json:"catalog"`
		Searches struct {
			TotalSearches int `json:"total_searches"`
		} `json:"searches"`
	}
	result = callTool(t, s, "get_stats", map[string]interface{}{"since_days": 1})
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &stats))
	assert.Equal(t, 16, stats.Catalog.Combinations)
	assert.Equal(t, 1, stats.Searches.TotalSearches)
}

func TestServer_Resources(t *testing.T) {
	s := newServer(t)

	responses := exchange(t, s, `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`)
	var list resourcesListResult
	require.NoError(t, json.Unmarshal(responses[0].Result, &list))
	require.Len(t, list.Resources, len(ResourceDefinitions))

	for _, r := range ResourceDefinitions {
		t.Run(r.URI, func(t *testing.T) {
			responses := exchange(t, s, `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"`+r.URI+`"}}`)
			require.Len(t, responses, 1)
			require.Nil(t, responses[0].Error)

			var read readResourceResult
			require.NoError(t, json.Unmarshal(responses[0].Result, &read))
			require.Len(t, read.Contents, 1)
			assert.Equal(t, r.URI, read.Contents[0].URI)
			if r.URI != ResourceHistory {
				assert.NotEmpty(t, read.Contents[0].Text)
			}
		})
	}
}
