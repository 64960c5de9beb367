// Package jobs defines core types shared across subsystems.
package jobs

import "time"

// State tags whether a record was first seen during the current run.
type State string

// State values persisted alongside each record.
const (
	StateNew State = "new"
	StateOld State = "old"
)

// Record is one job posting extracted from the upstream listing.
// URL is the identity key; after reconciliation it is always in
// canonical form (scheme+host+path, no query, fragment, or trailing
// slash). All other fields are best-effort and may be empty.
type Record struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	PostingTime string `json:"posting_time,omitempty"`
	Status      string `json:"status,omitempty"`
	State       State  `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	Continent   string `json:"continent,omitempty"`
}

// SearchQuery captures one page request against the upstream endpoint.
// Immutable once constructed; one instance per page attempt.
type SearchQuery struct {
	Keyword  string
	Location string
	Start    int
	Days     int
	Hours    int
	WorkType string
}

// RunStats tracks per-run skip and success counters. The pipeline
// degrades at the smallest granularity it can and accumulates a count
// for each reason instead of failing the run.
type RunStats struct {
	PagesFetched     int `json:"pages_fetched"`
	RecordsParsed    int `json:"records_parsed"`
	RecordsAdded     int `json:"records_added"`
	Duplicates       int `json:"duplicates"`
	Invalid          int `json:"invalid"`
	Enriched         int `json:"enriched"`
	EnrichmentFailed int `json:"enrichment_failed"`
}

// RunResult aggregates one pipeline execution. It exists only for the
// duration of the run; only its records are persisted.
type RunResult struct {
	RunID      string
	Records    []Record
	Stats      RunStats
	StartedAt  time.Time
	FinishedAt time.Time
}
