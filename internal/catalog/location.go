package catalog

import (
	"fmt"
	"strings"
)

// StartLocation is a supported trip starting point
type StartLocation string

const (
	StartColomboPort  StartLocation = "Colombo Port"
	StartGallePort    StartLocation = "Galle Port"
	StartKandy        StartLocation = "Kandy"
	StartAnuradhapura StartLocation = "Anuradhapura"
)

// AllStartLocations lists every supported starting point
var AllStartLocations = []StartLocation{
	StartColomboPort,
	StartGallePort,
	StartKandy,
	StartAnuradhapura,
}

// Valid reports whether l is a supported starting point
func (l StartLocation) Valid() bool {
	for _, known := range AllStartLocations {
		if l == known {
			return true
		}
	}
	return false
}

// ParseStartLocation resolves a starting point name (case-sensitive)
func ParseStartLocation(name string) (StartLocation, error) {
	l := StartLocation(name)
	if !l.Valid() {
		names := make([]string, len(AllStartLocations))
		for i, known := range AllStartLocations {
			names[i] = string(known)
		}
		return "", fmt.Errorf("unknown start location %q (valid: %s)", name, strings.Join(names, ", "))
	}
	return l, nil
}

// Coordinates is a [latitude, longitude] pair
type Coordinates [2]float64

// Lat returns the latitude
func (c Coordinates) Lat() float64 { return c[0] }

// Lng returns the longitude
func (c Coordinates) Lng() float64 { return c[1] }

// StartLocationInfo describes a starting point with its map position
type StartLocationInfo struct {
	Name        StartLocation `json:"name" yaml:"name"`
	Coordinates *Coordinates  `json:"coordinates" yaml:"coordinates"`
}

// Category groups tourist locations
type Category string

const (
	CategoryCultural       Category = "cultural"
	CategorySpiritual      Category = "spiritual"
	CategoryAdventure      Category = "adventure"
	CategoryNatureWildlife Category = "nature_wildlife"
)

// AllCategories lists the tourist location categories
var AllCategories = []Category{
	CategoryCultural,
	CategorySpiritual,
	CategoryAdventure,
	CategoryNatureWildlife,
}

// ParseCategory accepts category keys as well as style spellings such as
// "Nature/Wildlife" or "nature-wildlife".
func ParseCategory(name string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("/", "_", "-", "_", " ", "_").Replace(key)

	for _, c := range AllCategories {
		if Category(key) == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown location category %q", name)
}

// TouristLocation is a place that may appear in an itinerary
type TouristLocation struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Category     Category     `json:"category" yaml:"category"`
	District     string       `json:"district" yaml:"district"`
	TimeRequired int          `json:"timeRequired" yaml:"timeRequired"` // hours
	EntranceFee  int          `json:"entranceFee" yaml:"entranceFee"`
	Description  string       `json:"description" yaml:"description"`
	Coordinates  *Coordinates `json:"coordinates" yaml:"coordinates"`
}
