package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingMatcher counts calls so tests can assert the state-code
// short circuit skipped fuzzy matching for the location itself.
type recordingMatcher struct {
	inner      Matcher
	candidates []string
}

func (m *recordingMatcher) Match(candidate string) (Country, bool) {
	m.candidates = append(m.candidates, candidate)
	return m.inner.Match(candidate)
}

func TestResolveAmbiguousInputs(t *testing.T) {
	t.Parallel()

	r := NewResolver(zap.NewNop())
	for _, loc := range []string{"", "Remote", "remote", "UNKNOWN", "  "} {
		country, continent := r.Resolve(loc)
		assert.Empty(t, country, "location %q", loc)
		assert.Empty(t, continent, "location %q", loc)
	}
}

func TestResolveUSStateCode(t *testing.T) {
	t.Parallel()

	m := &recordingMatcher{inner: NewMatcher()}
	r := NewResolverWithMatcher(m, zap.NewNop())

	country, continent := r.Resolve("Austin, TX")
	assert.Equal(t, "United States", country)
	assert.Equal(t, "North America", continent)

	// Only the fixed-name lookup runs; "TX" and "Austin" never reach
	// the fuzzy matcher.
	assert.NotContains(t, m.candidates, "TX")
	assert.NotContains(t, m.candidates, "Austin")
}

func TestResolveCountryLastSegment(t *testing.T) {
	t.Parallel()

	r := NewResolver(zap.NewNop())

	cases := []struct {
		location  string
		country   string
		continent string
	}{
		{"Paris, Île-de-France, France", "France", "Europe"},
		{"Berlin, Germany", "Germany", "Europe"},
		{"Tokyo, Japan", "Japan", "Asia"},
		{"Buenos Aires, Argentina", "Argentina", "South America"},
		{"Lagos, Nigeria", "Nigeria", "Africa"},
		{"Sydney, New South Wales, Australia", "Australia", "Oceania"},
	}
	for _, tc := range cases {
		country, continent := r.Resolve(tc.location)
		assert.Equal(t, tc.country, country, "location %q", tc.location)
		assert.Equal(t, tc.continent, continent, "location %q", tc.location)
	}
}

func TestResolveFallsBackToEarlierSegments(t *testing.T) {
	t.Parallel()

	r := NewResolver(zap.NewNop())

	// Last segment is a metro qualifier; an earlier segment names the
	// country.
	country, continent := r.Resolve("Toronto, Canada, Metropolitan Area")
	assert.Equal(t, "Canada", country)
	assert.Equal(t, "North America", continent)
}

func TestResolveExceptionTable(t *testing.T) {
	t.Parallel()

	r := NewResolver(zap.NewNop())

	cases := []struct {
		location  string
		country   string
		continent string
	}{
		{"Greater Paris Metropolitan Region", "France", "Europe"},
		{"Greater Tokyo Area", "Japan", "Asia"},
		{"Greater São Paulo Area", "Brazil", "South America"},
		{"Mumbai Metropolitan Region", "India", "Asia"},
		{"London Area, United Kingdom", "United Kingdom", "Europe"},
		{"Greater Buenos Aires", "Argentina", "South America"},
	}
	for _, tc := range cases {
		country, continent := r.Resolve(tc.location)
		assert.Equal(t, tc.country, country, "location %q", tc.location)
		assert.Equal(t, tc.continent, continent, "location %q", tc.location)
	}
}

func TestResolveUnidentifiable(t *testing.T) {
	t.Parallel()

	r := NewResolver(zap.NewNop())
	country, continent := r.Resolve("Floop Qwxzyblat Zone")
	assert.Empty(t, country)
	assert.Empty(t, continent)
}

func TestMatcherExactAndFuzzy(t *testing.T) {
	t.Parallel()

	m := NewMatcher()

	c, ok := m.Match("France")
	require.True(t, ok)
	assert.Equal(t, "FR", c.Alpha2)

	c, ok = m.Match("frnce") // one deletion
	require.True(t, ok)
	assert.Equal(t, "France", c.Name)

	_, ok = m.Match("")
	assert.False(t, ok)

	_, ok = m.Match("not a country anyone has heard of")
	assert.False(t, ok)
}
