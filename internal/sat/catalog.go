package sat

import (
	"strconv"
	"strings"
)

// Satellite is a catalog entry for a well-known spacecraft.
type Satellite struct {
	Name    string
	NoradID int
}

// DefaultNoradID is the ISS, the catalog number most trackers point at.
const DefaultNoradID = 25544

// Catalog lists spacecraft commonly tracked from the ground. It is a
// convenience for configuration and display names, not a completeness
// claim; any NORAD ID works with the tracker.
var Catalog = []Satellite{
	{Name: "ISS (ZARYA)", NoradID: 25544},
	{Name: "CSS (TIANHE)", NoradID: 48274},
	{Name: "HST", NoradID: 20580},
	{Name: "NOAA 15", NoradID: 25338},
	{Name: "NOAA 18", NoradID: 28654},
	{Name: "NOAA 19", NoradID: 33591},
	{Name: "METEOR-M 2", NoradID: 40069},
	{Name: "SO-50", NoradID: 27607},
}

// ByNoradID returns the catalog entry for the given catalog number.
func ByNoradID(id int) (Satellite, bool) {
	for _, s := range Catalog {
		if s.NoradID == id {
			return s, true
		}
	}
	return Satellite{}, false
}

// ByName returns the first catalog entry whose name matches, ignoring
// case.
func ByName(name string) (Satellite, bool) {
	for _, s := range Catalog {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Satellite{}, false
}

// DisplayName resolves a human-readable name for the given catalog
// number, falling back to the number itself.
func DisplayName(id int) string {
	if s, ok := ByNoradID(id); ok {
		return s.Name
	}
	return "NORAD " + strconv.Itoa(id)
}
