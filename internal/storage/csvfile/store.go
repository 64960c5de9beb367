// Package csvfile implements the append-only record store as a tabular
// file. The file is read once as an immutable snapshot at save time and
// replaced wholesale by a freshly written file, so a failed write never
// leaves a half-mutated store behind.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/jobs"
	"github.com/redson/jobradar/internal/reconcile"
)

// Fixed column order of the store file.
var columns = []string{"url", "title", "company", "location", "posting_time", "status", "state"}

// Store persists records to a single CSV file keyed by canonical URL.
type Store struct {
	path   string
	engine *reconcile.Engine
	logger *zap.Logger
}

// New builds a Store writing to path.
func New(path string, engine *reconcile.Engine, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, engine: engine, logger: logger}
}

// SaveAll reconciles the batch against the current file contents and
// rewrites the file. Existing rows are preserved in order and re-tagged
// old; genuinely new canonical URLs are appended tagged new.
func (s *Store) SaveAll(ctx context.Context, records []jobs.Record) (jobs.SaveReport, error) {
	if err := ctx.Err(); err != nil {
		return jobs.SaveReport{}, err
	}

	batch, invalid := s.engine.Normalize(records)
	if invalid > 0 {
		s.logger.Warn("skipped records with missing or invalid urls", zap.Int("count", invalid))
	}

	existing, err := s.readExisting()
	if err != nil {
		return jobs.SaveReport{}, err
	}

	merged, report := s.engine.Merge(existing, batch)
	report.Invalid = invalid

	if err := s.writeAll(merged); err != nil {
		return jobs.SaveReport{}, err
	}

	s.logger.Info("csv store updated",
		zap.String("file", s.path),
		zap.Int("added", report.Added),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("invalid", report.Invalid),
	)
	return report, nil
}

// Close implements jobs.Store; the file handle is not held open.
func (s *Store) Close() error { return nil }

// readExisting loads the current snapshot. A missing file is an empty
// existing set; rows whose URL fails canonicalization are skipped and
// logged.
func (s *Store) readExisting() ([]jobs.Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]jobs.Record, 0, len(rows)-1)
	for i, row := range rows[1:] { // skip header
		if len(row) < len(columns) {
			s.logger.Warn("skipping malformed row", zap.Int("line", i+2))
			continue
		}
		canonical, err := reconcile.Canonical(row[0])
		if err != nil {
			s.logger.Warn("skipping row with invalid url", zap.String("url", row[0]))
			continue
		}
		records = append(records, jobs.Record{
			URL:         canonical,
			Title:       row[1],
			Company:     row[2],
			Location:    row[3],
			PostingTime: row[4],
			Status:      row[5],
			State:       jobs.State(row[6]),
		})
	}
	return records, nil
}

// writeAll writes the merged set to a temporary file and renames it
// over the store path, keeping the previous snapshot intact on failure.
func (s *Store) writeAll(records []jobs.Record) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{r.URL, r.Title, r.Company, r.Location, r.PostingTime, r.Status, string(r.State)}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
