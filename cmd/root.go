// Package cmd defines and implements the CLI commands for the jobradar executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/app"
	"github.com/redson/jobradar/internal/config"
	"github.com/redson/jobradar/internal/jobs"
	"github.com/redson/jobradar/internal/metrics"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application surface commands depend on. Using an
// interface lets tests inject a mock app via the factory below.
type App interface {
	Close()
	Config() config.Config
	Logger() *zap.Logger
	Store() jobs.Store
	EnrichableStore() (jobs.EnrichableStore, error)
}

// newApp is the application factory. It is a variable so tests can
// replace it with a mock factory.
var newApp = func(ctx context.Context, cfg config.Config) (App, error) {
	return app.New(ctx, cfg)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobradar",
		Short: "Discovers and reconciles job postings from public listing pages.",
		Long: `jobradar paginates through public job listing results, extracts the
posting records they contain, and reconciles them against a persistent
store so repeated runs only ever append newly discovered postings.`,

		// Runs after flags are parsed but before the subcommand's RunE;
		// builds the service container and injects it into the context.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			metrics.Init()

			appInstance, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults plus JOBRADAR_* env vars)")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newEnrichCmd())
	cmd.AddCommand(newCleanCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
