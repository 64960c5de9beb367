// Package postgres provides the keyed record store backed by Postgres.
// The canonical URL is the primary key; batch insertion ignores
// conflicts so reruns against the same upstream state converge to one
// row per posting.
package postgres

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/jobs"
	"github.com/redson/jobradar/internal/reconcile"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// StoreConfig controls the Postgres connection. Credentials are
// structured fields; a DSN is assembled internally.
type StoreConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Table    string
	MaxConns int32
}

func (c StoreConfig) dsn() string {
	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		port,
		c.Database,
		sslMode,
	)
}

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// Store implements jobs.EnrichableStore on Postgres.
type Store struct {
	pool   pgxPool
	table  string
	engine *reconcile.Engine
	now    func() time.Time
	logger *zap.Logger
}

// NewStore connects a pool and builds a Store.
func NewStore(ctx context.Context, cfg StoreConfig, engine *reconcile.Engine, logger *zap.Logger) (*Store, error) {
	if cfg.Host == "" || cfg.Database == "" {
		return nil, fmt.Errorf("db.host and db.database are required")
	}
	pool, err := pgxpool.New(ctx, cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return NewStoreWithPool(pool, cfg.Table, engine, logger)
}

// NewStoreWithPool constructs a Store from an existing pool (primarily
// for testing).
func NewStoreWithPool(pool pgxPool, table string, engine *reconcile.Engine, logger *zap.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "jobs"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		pool:   pool,
		table:  table,
		engine: engine,
		now:    time.Now,
		logger: logger,
	}, nil
}

// EnsureSchema creates the jobs table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			url TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			posting_time TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT 'new',
			country TEXT NOT NULL DEFAULT '',
			continent TEXT NOT NULL DEFAULT '',
			first_seen_at TIMESTAMPTZ NOT NULL
		);`, s.table)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveAll inserts the normalized batch, skipping canonical URLs that
// already exist. Conflicts are expected duplicates, counted and never
// escalated; first_seen_at is attached only at first insert.
func (s *Store) SaveAll(ctx context.Context, records []jobs.Record) (jobs.SaveReport, error) {
	batch, invalid := s.engine.Normalize(records)
	report := jobs.SaveReport{Invalid: invalid}
	if invalid > 0 {
		s.logger.Warn("skipped records with missing or invalid urls", zap.Int("count", invalid))
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (url, title, company, location, posting_time, status, state, first_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (url) DO NOTHING;`, s.table)

	firstSeen := s.now().UTC()
	for _, r := range batch {
		tag, err := s.pool.Exec(ctx, query,
			r.URL, r.Title, r.Company, r.Location, r.PostingTime, r.Status, string(jobs.StateNew), firstSeen,
		)
		if err != nil {
			return report, fmt.Errorf("insert record %s: %w", r.URL, err)
		}
		if tag.RowsAffected() == 0 {
			report.Duplicates++
			continue
		}
		report.Added++
	}

	s.logger.Info("postgres store updated",
		zap.String("table", s.table),
		zap.Int("added", report.Added),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("invalid", report.Invalid),
	)
	return report, nil
}

// ListUnenriched returns stored records still missing a country or
// continent.
func (s *Store) ListUnenriched(ctx context.Context) ([]jobs.StoredRecord, error) {
	query := fmt.Sprintf(`
		SELECT url, title, company, location, posting_time, status, state, country, continent
		FROM %s
		WHERE country = '' OR continent = ''
		ORDER BY url;`, s.table)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list unenriched: %w", err)
	}
	defer rows.Close()

	var out []jobs.StoredRecord
	for rows.Next() {
		var r jobs.Record
		var state string
		if err := rows.Scan(
			&r.URL, &r.Title, &r.Company, &r.Location,
			&r.PostingTime, &r.Status, &state, &r.Country, &r.Continent,
		); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		r.State = jobs.State(state)
		out = append(out, jobs.StoredRecord{Key: r.URL, Record: r})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record rows: %w", err)
	}
	return out, nil
}

// UpdateGeo sets only the country and continent of an existing record.
func (s *Store) UpdateGeo(ctx context.Context, key, country, continent string) error {
	query := fmt.Sprintf(`UPDATE %s SET country = $1, continent = $2 WHERE url = $3;`, s.table)
	tag, err := s.pool.Exec(ctx, query, country, continent, key)
	if err != nil {
		return fmt.Errorf("update geo for %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no record with url %s", key)
	}
	return nil
}

// DeleteByTitlePatterns removes records whose title matches any of the
// case-insensitive regex patterns and reports the count removed.
func (s *Store) DeleteByTitlePatterns(ctx context.Context, patterns []string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE title ~* $1;`, s.table)

	var removed int64
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		tag, err := s.pool.Exec(ctx, query, pattern)
		if err != nil {
			return removed, fmt.Errorf("delete by pattern %q: %w", pattern, err)
		}
		removed += tag.RowsAffected()
	}
	return removed, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
