package catalog

import (
	"fmt"
	"math/bits"
	"strings"
)

// Style is a travel style tag attached to combinations and requests
type Style string

const (
	StyleAdventure      Style = "Adventure"
	StyleCultural       Style = "Cultural"
	StyleSpiritual      Style = "Spiritual"
	StyleNatureWildlife Style = "Nature/Wildlife"
)

// AllStyles lists every supported travel style in canonical order
var AllStyles = []Style{
	StyleAdventure,
	StyleCultural,
	StyleSpiritual,
	StyleNatureWildlife,
}

// Valid reports whether s is one of the supported styles
func (s Style) Valid() bool {
	return s.bit() != 0
}

func (s Style) bit() StyleSet {
	switch s {
	case StyleAdventure:
		return 1 << 0
	case StyleCultural:
		return 1 << 1
	case StyleSpiritual:
		return 1 << 2
	case StyleNatureWildlife:
		return 1 << 3
	default:
		return 0
	}
}

// ParseStyle resolves a style name. Matching is exact; the enumeration
// values are the only accepted spellings.
func ParseStyle(name string) (Style, error) {
	s := Style(name)
	if !s.Valid() {
		return "", fmt.Errorf("unknown travel style %q (valid: %s)", name, joinStyles(AllStyles))
	}
	return s, nil
}

// StyleSet is a set of styles stored as a bitmask
type StyleSet uint8

// NewStyleSet builds a set from the given styles. Unknown styles are ignored.
func NewStyleSet(styles ...Style) StyleSet {
	var set StyleSet
	for _, s := range styles {
		set |= s.bit()
	}
	return set
}

// Has reports whether the set contains s
func (s StyleSet) Has(style Style) bool {
	b := style.bit()
	return b != 0 && s&b == b
}

// SubsetOf reports whether every style in s is also in other
func (s StyleSet) SubsetOf(other StyleSet) bool {
	return s&^other == 0
}

// Intersect returns the styles present in both sets
func (s StyleSet) Intersect(other StyleSet) StyleSet {
	return s & other
}

// Len returns the number of styles in the set
func (s StyleSet) Len() int {
	return bits.OnesCount8(uint8(s))
}

// Styles returns the members of the set in canonical order
func (s StyleSet) Styles() []Style {
	out := make([]Style, 0, s.Len())
	for _, style := range AllStyles {
		if s.Has(style) {
			out = append(out, style)
		}
	}
	return out
}

// String renders the set as a comma separated list
func (s StyleSet) String() string {
	return joinStyles(s.Styles())
}

func joinStyles(styles []Style) string {
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
