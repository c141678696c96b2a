package enums

import (
	"fmt"
	"strings"
)

// PlaceCategory is a map filter on the places screen.
type PlaceCategory string

const (
	PlaceCategoryRecycling     PlaceCategory = "recycling"
	PlaceCategoryDermatologist PlaceCategory = "dermatologist"
	PlaceCategoryDumping       PlaceCategory = "dumping"
)

var placeKeywords = map[PlaceCategory]string{
	PlaceCategoryRecycling:     "waste management facility",
	PlaceCategoryDermatologist: "dermatologist",
	PlaceCategoryDumping:       "dump yard",
}

// String implements fmt.Stringer.
func (p PlaceCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PlaceCategory.
func (p PlaceCategory) IsValid() bool {
	_, ok := placeKeywords[p]
	return ok
}

// Keyword is the search term sent to the places provider.
func (p PlaceCategory) Keyword() string {
	return placeKeywords[p]
}

// ParsePlaceCategory converts raw input into a PlaceCategory. Blank input
// selects recycling, the keyword lookups used to fall back to. Any other
// unrecognized value is an error instead of a silent recycling search, so a
// typo in the category never shows the wrong kind of place.
func ParsePlaceCategory(value string) (PlaceCategory, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return PlaceCategoryRecycling, nil
	}
	candidate := PlaceCategory(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid place category %q", value)
	}
	return candidate, nil
}
