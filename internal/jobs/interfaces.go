package jobs

import "context"

// SaveReport summarizes the outcome of persisting one batch.
type SaveReport struct {
	Added      int
	Duplicates int
	Invalid    int
}

// Store persists reconciled records keyed by canonical URL. Saving the
// same batch twice must add zero records the second time.
type Store interface {
	// SaveAll reconciles the batch against the existing set and
	// persists the result. Records with unresolvable URLs are counted
	// in the report, never silently lost.
	SaveAll(ctx context.Context, records []Record) (SaveReport, error)

	// Close releases the store's resources.
	Close() error
}

// StoredRecord pairs a persisted record with its primary key so an
// enrichment pass can write back to the right row.
type StoredRecord struct {
	Key    string
	Record Record
}

// EnrichableStore is implemented by keyed stores that support the
// separate geographic enrichment and cleanup passes.
type EnrichableStore interface {
	Store

	// ListUnenriched returns records missing country or continent.
	ListUnenriched(ctx context.Context) ([]StoredRecord, error)

	// UpdateGeo sets only the country and continent fields of an
	// existing record.
	UpdateGeo(ctx context.Context, key, country, continent string) error

	// DeleteByTitlePatterns removes records whose title matches any of
	// the given case-insensitive patterns and returns the count removed.
	DeleteByTitlePatterns(ctx context.Context, patterns []string) (int64, error)
}

// Fetcher retrieves one page of raw listing markup for a query.
type Fetcher interface {
	Fetch(ctx context.Context, query SearchQuery) (string, error)
}

// GeoResolver maps a free-text location to a country and continent.
// Both results are empty when the location is ambiguous or unknown.
type GeoResolver interface {
	Resolve(location string) (country, continent string)
}
