package geo

import (
	"strings"

	"github.com/pariz/gountries"
	"go.uber.org/zap"
)

// Resolver maps free-text locations to (country, continent) using a
// fixed US state table, a pluggable country matcher, and the curated
// exception table.
type Resolver struct {
	matcher    Matcher
	continents map[string]string
	logger     *zap.Logger
}

// NewResolver builds a Resolver with the default matcher.
func NewResolver(logger *zap.Logger) *Resolver {
	return NewResolverWithMatcher(NewMatcher(), logger)
}

// NewResolverWithMatcher allows injecting a custom matcher.
func NewResolverWithMatcher(matcher Matcher, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		matcher:    matcher,
		continents: buildContinentTable(),
		logger:     logger,
	}
}

// buildContinentTable maps alpha-2 codes to continent names from the
// bundled dataset.
func buildContinentTable() map[string]string {
	table := make(map[string]string)
	for _, c := range gountries.New().FindAllCountries() {
		if c.Alpha2 != "" && c.Continent != "" {
			table[strings.ToUpper(c.Alpha2)] = c.Continent
		}
	}
	return table
}

// Resolve returns the country and continent for a location string, or
// two empty strings when the location is ambiguous or unidentifiable.
// Ambiguous inputs ("remote", "unknown", empty) are not errors.
func (r *Resolver) Resolve(location string) (string, string) {
	trimmed := strings.TrimSpace(location)
	switch strings.ToLower(trimmed) {
	case "", "remote", "unknown":
		return "", ""
	}

	country, ok := r.findCountry(trimmed)
	if !ok {
		r.logger.Debug("no country identified for location", zap.String("location", location))
		return "", ""
	}

	continent, ok := r.continents[strings.ToUpper(country.Alpha2)]
	if !ok {
		// Known country with an unmapped code; keep the country.
		r.logger.Warn("no continent for country",
			zap.String("country", country.Name),
			zap.String("alpha2", country.Alpha2),
		)
		return country.Name, ""
	}
	return country.Name, continent
}

func (r *Resolver) findCountry(location string) (Country, bool) {
	segments := splitSegments(location)
	if len(segments) == 0 {
		return Country{}, false
	}

	country, found := r.matchSegments(segments)

	// The exception table keys on the entire original string and
	// overrides whatever the segment scan produced.
	if name, ok := exceptions[location]; ok {
		if c, matched := r.matcher.Match(name); matched {
			return c, true
		}
		return Country{Name: name}, true
	}

	return country, found
}

// matchSegments tries the last segment first, then the remaining
// segments right to left. Locations are usually "City, Region, Country"
// but metro qualifiers sometimes match better on an earlier segment.
func (r *Resolver) matchSegments(segments []string) (Country, bool) {
	primary := segments[len(segments)-1]

	if _, ok := usStates[primary]; ok {
		c, matched := r.matcher.Match("United States")
		if !matched {
			c = Country{Name: "United States", Alpha2: "US"}
		}
		return c, true
	}

	if c, ok := r.matcher.Match(primary); ok {
		return c, true
	}
	for i := len(segments) - 2; i >= 0; i-- {
		if c, ok := r.matcher.Match(segments[i]); ok {
			return c, true
		}
	}
	return Country{}, false
}

func splitSegments(location string) []string {
	parts := strings.Split(location, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
