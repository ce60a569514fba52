package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/logging"
)

// ErrNotFound is returned by Load when the config file does not exist
var ErrNotFound = errors.New("config file not found")

// DefaultPath returns the default config file location
func DefaultPath() string {
	return "~/.config/tripfinder/config.toml"
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand path
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	// Read file
	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run 'tripfinder config init' to create)", ErrNotFound, expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes TOML over the defaults, expands paths and validates
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	// An explicit tier list replaces the defaults rather than merging into them
	cfg.Budget.Tiers = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Budget.Tiers) == 0 {
		cfg.Budget.Tiers = Default().Budget.Tiers
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when the file is
// missing. Any other error is returned.
func LoadOrDefault(path string) (cfg *Config, fromFile bool, err error) {
	cfg, err = Load(path)
	if err == nil {
		return cfg, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	cfg = Default()
	if err := cfg.expandPaths(); err != nil {
		return nil, false, fmt.Errorf("failed to expand paths: %w", err)
	}
	return cfg, false, nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// ExpandPath expands ~ in a user supplied path
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	c.Catalog.SeedPath, err = expandPath(c.Catalog.SeedPath)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	// Budget validation
	if _, err := c.Budget.Table(); err != nil {
		errs = append(errs, fmt.Errorf("budget: %w", err))
	}

	// Recommend validation
	if c.Recommend.DefaultLimit < 0 {
		errs = append(errs, errors.New("recommend.default_limit must not be negative"))
	}
	if c.Recommend.MaxLimit < 0 {
		errs = append(errs, errors.New("recommend.max_limit must not be negative"))
	}
	if c.Recommend.MaxLimit > 0 && c.Recommend.DefaultLimit > c.Recommend.MaxLimit {
		errs = append(errs, fmt.Errorf("recommend.default_limit (%d) exceeds max_limit (%d)", c.Recommend.DefaultLimit, c.Recommend.MaxLimit))
	}

	// History validation
	if c.History.Keep < 0 {
		errs = append(errs, errors.New("history.keep must not be negative"))
	}

	// Cache validation
	if c.Cache.Enabled {
		if c.Cache.Address == "" {
			errs = append(errs, errors.New("cache.address is required when the cache is enabled"))
		}
		if c.Cache.TTLSeconds < 0 {
			errs = append(errs, errors.New("cache.ttl_seconds must not be negative"))
		}
		if c.Cache.DB < 0 || c.Cache.DB > 15 {
			errs = append(errs, errors.New("cache.db must be between 0 and 15"))
		}
	}

	// Log validation
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be 'console' or 'json', got '%s'", c.Log.Format))
	}

	// MCP validation
	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureDirectories creates necessary directories for the database
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
