// Package memory provides an in-memory record store for development and testing.
package memory

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/jobs"
	"github.com/redson/jobradar/internal/reconcile"
)

// Store keeps records keyed by canonical URL. Writes follow the same
// insert-or-ignore contract as the relational store.
type Store struct {
	mu      sync.RWMutex
	records map[string]jobs.Record
	engine  *reconcile.Engine
	logger  *zap.Logger
}

// New constructs a Store.
func New(engine *reconcile.Engine, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		records: make(map[string]jobs.Record),
		engine:  engine,
		logger:  logger,
	}
}

// SaveAll inserts records not yet present; existing keys are left untouched.
func (s *Store) SaveAll(_ context.Context, records []jobs.Record) (jobs.SaveReport, error) {
	valid, invalid := s.engine.Normalize(records)
	report := jobs.SaveReport{Invalid: invalid}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range valid {
		key, err := reconcile.Canonical(rec.URL)
		if err != nil {
			report.Invalid++
			continue
		}
		if _, exists := s.records[key]; exists {
			report.Duplicates++
			continue
		}
		rec.State = jobs.StateNew
		s.records[key] = rec
		report.Added++
	}
	return report, nil
}

// ListUnenriched returns records missing a country or continent, in key order.
func (s *Store) ListUnenriched(_ context.Context) ([]jobs.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []jobs.StoredRecord
	for key, rec := range s.records {
		if rec.Country == "" || rec.Continent == "" {
			out = append(out, jobs.StoredRecord{Key: key, Record: rec})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// UpdateGeo sets the geographic fields for a stored record.
func (s *Store) UpdateGeo(_ context.Context, key, country, continent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return fmt.Errorf("no record with key %s", key)
	}
	rec.Country = country
	rec.Continent = continent
	s.records[key] = rec
	return nil
}

// DeleteByTitlePatterns removes records whose titles match any pattern,
// case-insensitively. Empty patterns are skipped.
func (s *Store) DeleteByTitlePatterns(_ context.Context, patterns []string) (int64, error) {
	var compiled []*regexp.Regexp
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return 0, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key, rec := range s.records {
		for _, re := range compiled {
			if re.MatchString(rec.Title) {
				delete(s.records, key)
				deleted++
				break
			}
		}
	}
	return deleted, nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }
