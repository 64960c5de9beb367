package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/metrics"
)

// newCleanCmd creates and configures the 'clean' subcommand.
func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Deletes stored postings whose titles match configured patterns",
		Long: `Removes postings whose titles match any of the case-insensitive
patterns under cleanup.title_patterns in the configuration. With no
patterns configured the command is a no-op.`,

		RunE: runCleanCommand,
	}
	return cmd
}

func runCleanCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	store, err := appInstance.EnrichableStore()
	if err != nil {
		return err
	}

	patterns := appInstance.Config().Cleanup.TitlePatterns
	if len(patterns) == 0 {
		appInstance.Logger().Info("no cleanup patterns configured; nothing to do")
		cmd.Println("deleted 0 postings")
		return nil
	}

	deleted, err := store.DeleteByTitlePatterns(cmd.Context(), patterns)
	if err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	metrics.ObserveCleanup(deleted)

	appInstance.Logger().Info("cleanup run finished",
		zap.Int64("deleted", deleted),
		zap.Int("patterns", len(patterns)))

	cmd.Println("deleted " + strconv.FormatInt(deleted, 10) + " postings")
	return nil
}
