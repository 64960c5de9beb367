package cmd

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/enrich"
	"github.com/redson/jobradar/internal/geo"
	"github.com/redson/jobradar/internal/logging"
	"github.com/redson/jobradar/internal/metrics"
)

// newEnrichCmd creates and configures the 'enrich' subcommand.
func newEnrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Backfills country and continent on stored postings",
		Long: `Scans the store for postings missing geographic fields, resolves
each raw location string to a country and continent, and writes the
result back. Postings whose location cannot be resolved are left
untouched.`,

		RunE: runEnrichCommand,
	}
	return cmd
}

func runEnrichCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	store, err := appInstance.EnrichableStore()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := logging.ForRun(appInstance.Logger(), runID)

	enricher := enrich.New(store, geo.NewResolver(logger), logger)
	report, err := enricher.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("enrich records: %w", err)
	}

	metrics.ObserveEnrichment("enriched", report.Enriched)
	metrics.ObserveEnrichment("failed", report.Failed)
	metrics.ObserveEnrichment("skipped", report.Skipped)

	logger.Info("enrichment run finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("enriched", report.Enriched),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped))

	cmd.Println("enriched " + strconv.Itoa(report.Enriched) + " postings")
	return nil
}
