package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/fetch"
	"github.com/redson/jobradar/internal/jobs"
	"github.com/redson/jobradar/internal/logging"
	"github.com/redson/jobradar/internal/metrics"
	"github.com/redson/jobradar/internal/reltime"
	"github.com/redson/jobradar/internal/scrape"
)

// newScrapeCmd creates and configures the 'scrape' subcommand.
func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs one discovery pass and saves new postings",
		Long: `Paginates through the configured search, extracts posting records
from each page, and reconciles them into the configured store. Records
already present are never rewritten; only newly discovered postings are
added.`,

		RunE: runScrapeCommand,
	}
	return cmd
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	cfg := appInstance.Config()
	runID := uuid.NewString()
	logger := logging.ForRun(appInstance.Logger(), runID)

	fetcher := fetch.New(fetch.Config{
		UserAgent:     cfg.Fetcher.UserAgent,
		Timeout:       cfg.FetchTimeout(),
		Attempts:      cfg.Fetcher.Attempts,
		BackoffUnit:   cfg.Backoff(),
		ProxyHost:     cfg.Fetcher.Proxy.Host,
		ProxyUsername: cfg.Fetcher.Proxy.Username,
		ProxyPassword: cfg.Fetcher.Proxy.Password,
	}, logger)

	extractor := scrape.NewExtractor(reltime.NewResolver(), logger)
	engine := scrape.NewEngine(scrape.EngineConfig{
		MaxRecords: cfg.Search.MaxJobs,
		Pacing:     cfg.Pacing(),
	}, fetcher, extractor, logger)

	query := jobs.SearchQuery{
		Keyword:  cfg.Search.Keyword,
		Location: cfg.Search.Location,
		Hours:    cfg.Search.Hours,
		Days:     cfg.Search.Days,
		WorkType: cfg.Search.WorkType,
	}

	startedAt := time.Now()
	logger.Info("starting discovery run",
		zap.String("keyword", query.Keyword),
		zap.String("location", query.Location))

	records, stats := engine.Run(cmd.Context(), query)
	metrics.ObserveRecords("parsed", stats.RecordsParsed)
	metrics.ObservePages("fetched", stats.PagesFetched)

	report, err := appInstance.Store().SaveAll(cmd.Context(), records)
	if err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	stats.RecordsAdded = report.Added
	stats.Duplicates = report.Duplicates
	stats.Invalid = report.Invalid
	metrics.ObserveRecords("added", report.Added)
	metrics.ObserveRecords("duplicate", report.Duplicates)
	metrics.ObserveRecords("invalid", report.Invalid)

	logger.Info("discovery run finished",
		zap.Int("pages_fetched", stats.PagesFetched),
		zap.Int("records_parsed", stats.RecordsParsed),
		zap.Int("records_added", stats.RecordsAdded),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("invalid", stats.Invalid),
		zap.Duration("elapsed", time.Since(startedAt)))

	cmd.Println("added " + strconv.Itoa(report.Added) + " new postings")
	return nil
}
