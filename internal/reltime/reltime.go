// Package reltime converts the upstream's relative posting-time phrases
// ("16 hours ago") into absolute timestamps.
package reltime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the second-precision format used for resolved timestamps.
const Layout = "2006-01-02 15:04:05"

// The upstream renders relative times against its own civil clock, not
// UTC, so the default reference lives in a fixed zone kept consistent
// across a run.
const defaultZone = "Europe/Paris"

var phrasePattern = regexp.MustCompile(`^(\d+)\s*(minute|minutes|hour|hours|day|days|week|weeks)\s*ago`)

var unitSeconds = map[string]int64{
	"minute": 60,
	"hour":   3600,
	"day":    86400,
	"week":   604800,
}

// Resolver converts relative-time phrases using a fixed reference zone.
type Resolver struct {
	loc *time.Location
	now func() time.Time
}

// NewResolver builds a Resolver anchored to the default zone. If the
// zone database is unavailable the resolver falls back to local time.
func NewResolver() *Resolver {
	loc, err := time.LoadLocation(defaultZone)
	if err != nil {
		loc = time.Local
	}
	return &Resolver{loc: loc, now: time.Now}
}

// Now returns the resolver's current reference instant.
func (r *Resolver) Now() time.Time {
	return r.now().In(r.loc)
}

// Resolve converts a phrase of the form "<N> <unit> ago" into an
// absolute timestamp relative to ref, formatted with second precision.
// It returns ("", false) for any phrase that does not match, including
// empty input and unknown units.
func (r *Resolver) Resolve(phrase string, ref time.Time) (string, bool) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return "", false
	}

	m := phrasePattern.FindStringSubmatch(phrase)
	if m == nil {
		return "", false
	}

	value, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return "", false
	}
	secs, ok := unitSeconds[strings.TrimSuffix(m[2], "s")]
	if !ok {
		return "", false
	}

	exact := ref.Add(-time.Duration(value*secs) * time.Second)
	return exact.Format(Layout), true
}
