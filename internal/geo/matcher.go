// Package geo resolves free-text location strings to a country and
// continent. The upstream has no location schema, so resolution layers
// the most reliable signals first: exact short-circuits, then fuzzy
// country matching, then positional fallback, then a curated override
// table for region names fuzzy matching cannot handle.
package geo

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/pariz/gountries"
)

// Country is the matcher's view of one country.
type Country struct {
	Name      string
	Alpha2    string
	Continent string
}

// Matcher finds the country a candidate string most likely names.
// Implementations decide the matching algorithm; callers only depend
// on the resolved outputs.
type Matcher interface {
	Match(candidate string) (Country, bool)
}

// maxEditDistance bounds the fuzzy fallback. Two edits cover the
// misspellings seen in practice without matching unrelated names.
const maxEditDistance = 2

// fuzzyMatcher matches against the bundled gountries dataset using
// exact name/code lookup first and bounded edit distance as a fallback.
type fuzzyMatcher struct {
	query *gountries.Query
}

// NewMatcher builds the default country matcher.
func NewMatcher() Matcher {
	return &fuzzyMatcher{query: gountries.New()}
}

func (m *fuzzyMatcher) Match(candidate string) (Country, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return Country{}, false
	}

	if c, err := m.query.FindCountryByName(candidate); err == nil {
		return toCountry(c), true
	}
	if n := len(candidate); n == 2 || n == 3 {
		if c, err := m.query.FindCountryByAlpha(candidate); err == nil {
			return toCountry(c), true
		}
	}

	return m.closest(candidate)
}

// closest scans every country name and keeps the one within the edit
// distance bound. Ties go to the first name found at the lower distance.
func (m *fuzzyMatcher) closest(candidate string) (Country, bool) {
	// Short tokens are codes or abbreviations; edit distance on them
	// produces junk matches.
	if len(candidate) < 4 {
		return Country{}, false
	}
	folded := strings.ToLower(candidate)
	best := Country{}
	bestDistance := maxEditDistance + 1

	for _, c := range m.query.FindAllCountries() {
		for _, name := range []string{c.Name.Common, c.Name.Official} {
			if name == "" {
				continue
			}
			d := levenshtein.ComputeDistance(folded, strings.ToLower(name))
			if d < bestDistance {
				bestDistance = d
				best = toCountry(c)
			}
		}
	}

	if bestDistance > maxEditDistance {
		return Country{}, false
	}
	return best, true
}

func toCountry(c gountries.Country) Country {
	return Country{
		Name:      c.Name.Common,
		Alpha2:    c.Alpha2,
		Continent: c.Continent,
	}
}
