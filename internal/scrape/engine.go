package scrape

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/jobs"
)

// pageSize matches the upstream's pagination granularity.
const pageSize = 10

// EngineConfig controls the pagination loop.
type EngineConfig struct {
	// MaxRecords is a soft stopping trigger checked after each full
	// page is added; the batch is not truncated to it.
	MaxRecords int

	// Pacing is the delay observed between page fetches.
	Pacing time.Duration
}

// Engine drives the fetcher across successive page offsets and
// accumulates extracted records.
type Engine struct {
	cfg       EngineConfig
	fetcher   jobs.Fetcher
	extractor *Extractor
	now       func() time.Time
	logger    *zap.Logger
}

// NewEngine builds an Engine.
func NewEngine(cfg EngineConfig, fetcher jobs.Fetcher, extractor *Extractor, logger *zap.Logger) *Engine {
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = 50
	}
	if cfg.Pacing == 0 {
		cfg.Pacing = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		now:       extractor.times.Now,
		logger:    logger,
	}
}

// Run fetches pages at increasing offsets until the upstream runs dry,
// a page yields no records, or the record cap is reached. Fetch
// failures end the run with whatever was accumulated; they are never
// escalated as a crash.
func (e *Engine) Run(ctx context.Context, query jobs.SearchQuery) ([]jobs.Record, jobs.RunStats) {
	var (
		all   []jobs.Record
		stats jobs.RunStats
	)

	for start := 0; ; start += pageSize {
		page := query
		page.Start = start

		e.logger.Info("fetching page", zap.Int("start", start))
		markup, err := e.fetcher.Fetch(ctx, page)
		if err != nil {
			e.logger.Warn("no more data or fetch failed", zap.Int("start", start), zap.Error(err))
			break
		}
		stats.PagesFetched++

		records := e.extractor.Extract(markup, e.now())
		if len(records) == 0 {
			e.logger.Info("no more records found", zap.Int("start", start))
			break
		}

		all = append(all, records...)
		stats.RecordsParsed += len(records)
		e.logger.Info("page extracted",
			zap.Int("page_records", len(records)),
			zap.Int("total_records", len(all)),
		)

		if len(all) >= e.cfg.MaxRecords {
			e.logger.Info("record cap reached", zap.Int("cap", e.cfg.MaxRecords))
			break
		}

		if err := pace(ctx, e.cfg.Pacing); err != nil {
			e.logger.Warn("pagination canceled", zap.Error(err))
			break
		}
	}

	return all, stats
}

func pace(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
