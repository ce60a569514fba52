package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultSeedData []byte

// Seed is the on-disk catalog format: combinations plus the reference data
// (start locations and tourist locations) loaded alongside them.
type Seed struct {
	StartLocations []StartLocationInfo `yaml:"startLocations" json:"startLocations"`
	Locations      []TouristLocation   `yaml:"locations" json:"locations"`
	Combinations   []Combination       `yaml:"travelCombinations" json:"travelCombinations"`
}

var (
	defaultSeed     *Seed
	defaultSeedErr  error
	defaultSeedOnce sync.Once
)

// DefaultSeed returns the catalog bundled with the binary, parsed on first use
func DefaultSeed() (*Seed, error) {
	defaultSeedOnce.Do(func() {
		defaultSeed, defaultSeedErr = ParseSeed(defaultSeedData)
	})
	return defaultSeed, defaultSeedErr
}

// LoadSeedFile reads and validates a YAML seed file
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes YAML seed data and validates it
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the reference data and every combination
func (s *Seed) Validate() error {
	var errs []error

	seenStart := make(map[StartLocation]bool)
	for _, sl := range s.StartLocations {
		if !sl.Name.Valid() {
			errs = append(errs, fmt.Errorf("unknown start location %q", sl.Name))
		}
		if seenStart[sl.Name] {
			errs = append(errs, fmt.Errorf("duplicate start location %q", sl.Name))
		}
		seenStart[sl.Name] = true
	}

	seenLoc := make(map[string]bool)
	for _, loc := range s.Locations {
		if loc.ID == "" {
			errs = append(errs, fmt.Errorf("location %q has no id", loc.Name))
		}
		if seenLoc[loc.ID] {
			errs = append(errs, fmt.Errorf("duplicate location id %q", loc.ID))
		}
		seenLoc[loc.ID] = true
		if _, err := ParseCategory(string(loc.Category)); err != nil {
			errs = append(errs, fmt.Errorf("location %q: %w", loc.ID, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	_, err := New(s.Combinations)
	return err
}

// Catalog builds the combination catalog from the seed
func (s *Seed) Catalog() (*Catalog, error) {
	return New(s.Combinations)
}
