// Package reconcile canonicalizes record URLs and merges fetched
// batches against a previously persisted set so that each canonical URL
// is stored at most once no matter how often the pipeline reruns.
package reconcile

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/jobs"
)

// ErrInvalidURL reports a URL that cannot serve as a record identity.
var ErrInvalidURL = errors.New("invalid record url")

// Canonical reduces a URL to scheme+host+path, stripping the query
// string, fragment, and any trailing path separator. Canonical is
// idempotent: applying it to its own output is a no-op.
func Canonical(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: missing scheme or host in %q", ErrInvalidURL, raw)
	}
	return u.Scheme + "://" + u.Host + strings.TrimRight(u.Path, "/"), nil
}

// Engine performs batch normalization and merge.
type Engine struct {
	logger *zap.Logger
}

// NewEngine builds an Engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Normalize canonicalizes every record's URL. Records whose identity
// cannot be resolved are dropped and counted, never silently lost.
func (e *Engine) Normalize(batch []jobs.Record) (valid []jobs.Record, invalid int) {
	valid = make([]jobs.Record, 0, len(batch))
	for _, record := range batch {
		canonical, err := Canonical(record.URL)
		if err != nil {
			invalid++
			e.logger.Warn("dropping record with unresolvable identity",
				zap.String("url", record.URL),
				zap.String("title", record.Title),
			)
			continue
		}
		record.URL = canonical
		valid = append(valid, record)
	}
	return valid, invalid
}

// Merge implements append-only reconciliation: existing records are
// re-tagged old and kept in order, and each normalized batch record is
// admitted once, first occurrence wins, whether the duplicate lives in
// the existing set or earlier in the same batch. Newly admitted records
// are tagged new and appended.
func (e *Engine) Merge(existing, batch []jobs.Record) ([]jobs.Record, jobs.SaveReport) {
	merged := make([]jobs.Record, 0, len(existing)+len(batch))
	seen := make(map[string]struct{}, len(existing))
	var report jobs.SaveReport

	for _, record := range existing {
		record.State = jobs.StateOld
		merged = append(merged, record)
		seen[record.URL] = struct{}{}
	}

	for _, record := range batch {
		if _, ok := seen[record.URL]; ok {
			report.Duplicates++
			continue
		}
		record.State = jobs.StateNew
		seen[record.URL] = struct{}{}
		merged = append(merged, record)
		report.Added++
	}

	return merged, report
}
