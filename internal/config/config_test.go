package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
search:
  keyword: data engineer
  location: France
  work_type: remote
  hours: 16
  max_jobs: 120
  pacing_seconds: 2
fetcher:
  user_agent: radar-agent
  timeout_seconds: 20
  attempts: 4
  backoff_ms: 500
  proxy:
    host: proxy.internal:8080
    username: scraper
    password: s3cret
storage:
  type: postgres
  postgres:
    host: db.internal
    port: 5433
    user: jobs
    password: hunter2
    database: radar
    sslmode: require
    table: postings
    max_conns: 8
cleanup:
  title_patterns:
    - senior
    - principal
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Search.Keyword != "data engineer" || cfg.Search.Location != "France" {
		t.Fatalf("expected search overrides to apply: %+v", cfg.Search)
	}
	if cfg.Search.Hours != 16 || cfg.Search.MaxJobs != 120 {
		t.Fatalf("expected recency and cap overrides to apply: %+v", cfg.Search)
	}
	if cfg.Fetcher.Proxy.Host != "proxy.internal:8080" || cfg.Fetcher.Proxy.Username != "scraper" {
		t.Fatalf("expected proxy settings to be loaded: %+v", cfg.Fetcher.Proxy)
	}
	if cfg.Storage.Type != "postgres" || cfg.Storage.Postgres.Port != 5433 {
		t.Fatalf("expected postgres storage overrides: %+v", cfg.Storage)
	}
	if len(cfg.Cleanup.TitlePatterns) != 2 || cfg.Cleanup.TitlePatterns[0] != "senior" {
		t.Fatalf("expected cleanup patterns to be loaded: %+v", cfg.Cleanup)
	}
	if cfg.Logging.Development {
		t.Fatalf("expected development logging to be disabled")
	}
	if got := cfg.FetchTimeout(); got != 20*time.Second {
		t.Fatalf("expected fetch timeout 20s, got %v", got)
	}
	if got := cfg.Backoff(); got != 500*time.Millisecond {
		t.Fatalf("expected backoff 500ms, got %v", got)
	}
	if got := cfg.Pacing(); got != 2*time.Second {
		t.Fatalf("expected pacing 2s, got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Search.Days != 1 || cfg.Search.MaxJobs != 50 {
		t.Fatalf("expected search defaults, got %+v", cfg.Search)
	}
	if cfg.Storage.Type != "csv" || cfg.Storage.CSV.Path != "jobs.csv" {
		t.Fatalf("expected csv storage defaults, got %+v", cfg.Storage)
	}
	if cfg.Fetcher.Attempts != 3 {
		t.Fatalf("expected 3 attempts by default, got %d", cfg.Fetcher.Attempts)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Search:  SearchConfig{Keyword: "engineer", Days: 1, MaxJobs: 50},
		Fetcher: FetcherConfig{TimeoutSeconds: 10, Attempts: 3},
		Storage: StorageConfig{Type: "csv", CSV: CSVConfig{Path: "jobs.csv"}},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "missing keyword",
			cfg: func() Config {
				c := base
				c.Search.Keyword = ""
				return c
			}(),
			want: "search.keyword",
		},
		{
			name: "hours out of range",
			cfg: func() Config {
				c := base
				c.Search.Hours = 721
				return c
			}(),
			want: "search.hours",
		},
		{
			name: "days out of range",
			cfg: func() Config {
				c := base
				c.Search.Days = 31
				return c
			}(),
			want: "search.days",
		},
		{
			name: "invalid max jobs",
			cfg: func() Config {
				c := base
				c.Search.MaxJobs = 0
				return c
			}(),
			want: "search.max_jobs",
		},
		{
			name: "invalid timeout",
			cfg: func() Config {
				c := base
				c.Fetcher.TimeoutSeconds = 0
				return c
			}(),
			want: "fetcher.timeout_seconds",
		},
		{
			name: "invalid attempts",
			cfg: func() Config {
				c := base
				c.Fetcher.Attempts = 0
				return c
			}(),
			want: "fetcher.attempts",
		},
		{
			name: "missing csv path",
			cfg: func() Config {
				c := base
				c.Storage.CSV.Path = ""
				return c
			}(),
			want: "storage.csv.path",
		},
		{
			name: "postgres missing host",
			cfg: func() Config {
				c := base
				c.Storage.Type = "postgres"
				return c
			}(),
			want: "storage.postgres.host",
		},
		{
			name: "unknown storage type",
			cfg: func() Config {
				c := base
				c.Storage.Type = "mongo"
				return c
			}(),
			want: "storage.type",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
