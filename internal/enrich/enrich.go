// Package enrich runs the geographic enrichment pass over the keyed
// store. The pass is idempotent: it only touches records still missing
// country or continent and only ever writes those two fields.
package enrich

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/jobs"
)

// Report aggregates one enrichment pass.
type Report struct {
	Scanned  int
	Enriched int
	Failed   int
	Skipped  int
}

// Enricher resolves locations for stored records.
type Enricher struct {
	store  jobs.EnrichableStore
	geo    jobs.GeoResolver
	logger *zap.Logger
}

// New builds an Enricher.
func New(store jobs.EnrichableStore, geo jobs.GeoResolver, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{store: store, geo: geo, logger: logger}
}

// Run resolves every unenriched record. Records that cannot be resolved
// are left unset and reported in aggregate, never deleted for that
// reason alone.
func (e *Enricher) Run(ctx context.Context) (Report, error) {
	records, err := e.store.ListUnenriched(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list unenriched records: %w", err)
	}

	report := Report{Scanned: len(records)}
	for _, stored := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		location := stored.Record.Location
		if location == "" {
			report.Skipped++
			continue
		}

		country, continent := e.geo.Resolve(location)
		if country == "" {
			report.Failed++
			e.logger.Debug("location did not resolve",
				zap.String("url", stored.Key),
				zap.String("location", location),
			)
			continue
		}

		if err := e.store.UpdateGeo(ctx, stored.Key, country, continent); err != nil {
			report.Failed++
			e.logger.Warn("geo update failed", zap.String("url", stored.Key), zap.Error(err))
			continue
		}
		report.Enriched++
	}

	e.logger.Info("enrichment pass finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("enriched", report.Enriched),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}
