package config

import (
	"time"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/budget"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Budget    BudgetConfig    `toml:"budget"`
	Recommend RecommendConfig `toml:"recommend"`
	History   HistoryConfig   `toml:"history"`
	Cache     CacheConfig     `toml:"cache"`
	Log       LogConfig       `toml:"log"`
	MCP       MCPConfig       `toml:"mcp"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// CatalogConfig controls where combinations come from
type CatalogConfig struct {
	SeedPath string `toml:"seed_path"` // empty uses the bundled catalog
	AutoSeed bool   `toml:"auto_seed"` // seed an empty database on first use
}

// BudgetConfig contains the tier table and out-of-range policy
type BudgetConfig struct {
	Policy string        `toml:"policy"`
	Tiers  []budget.Tier `toml:"tiers"`
}

// Table builds the budget table described by the config
func (b BudgetConfig) Table() (*budget.Table, error) {
	policy, err := budget.ParsePolicy(b.Policy)
	if err != nil {
		return nil, err
	}
	return budget.NewTable(b.Tiers, policy)
}

// RecommendConfig contains result limits
type RecommendConfig struct {
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`
}

// HistoryConfig controls saved searches
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
	Keep    int  `toml:"keep"` // newest searches to retain; 0 keeps all
}

// CacheConfig contains Redis response cache settings
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Address    string `toml:"address"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL returns the cache expiry as a duration
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/tripfinder/tripfinder.db",
		},
		Catalog: CatalogConfig{
			AutoSeed: true,
		},
		Budget: BudgetConfig{
			Policy: string(budget.ClampPolicy),
			Tiers:  budget.DefaultTiers(),
		},
		Recommend: RecommendConfig{
			DefaultLimit: 10,
			MaxLimit:     50,
		},
		History: HistoryConfig{
			Enabled: true,
			Keep:    500,
		},
		Cache: CacheConfig{
			Enabled:    false,
			Address:    "localhost:6379",
			TTLSeconds: 600,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}

// DefaultTOML is written by 'tripfinder config init'
const DefaultTOML = `# Tripfinder configuration

[database]
path = "~/.local/share/tripfinder/tripfinder.db"

[catalog]
# YAML file with startLocations, locations and travelCombinations.
# Leave empty to use the catalog bundled with the binary.
seed_path = ""
auto_seed = true

[budget]
# clamp: budgets outside the table take the nearest tier
# strict: recommend rejects budgets outside the table
policy = "clamp"

[[budget.tiers]]
key = "budget"
min = 25000
max = 100000
label = "Budget"

[[budget.tiers]]
key = "moderate"
min = 100001
max = 200000
label = "Moderate"

[[budget.tiers]]
key = "comfort"
min = 200001
max = 350000
label = "Comfort"

[[budget.tiers]]
key = "luxury"
min = 350001
max = 500000
label = "Luxury"

[recommend]
default_limit = 10
max_limit = 50

[history]
enabled = true
keep = 500  # 0 keeps every search

[cache]
enabled = false
address = "localhost:6379"
password = ""
db = 0
ttl_seconds = 600

[log]
level = "info"     # debug, info, warn, error
format = "console" # console or json

[mcp]
enabled = true
transport = "stdio"
`
