package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

var (
	syncMaxPages          int
	syncStopAfterComplete int
)

var syncCmd = &cobra.Command{
	Use:   "sync [source-id]",
	Short: "Synchronise records from sources",
	Long: `Crawls configured sources, stores new and changed records and indexes
them into their vector collections. If a source ID is provided, only that
source is synchronised. Otherwise, all sources are synchronised in turn.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncMaxPages, "max-pages", 0, "maximum list pages to scan (0 = source default)")
	syncCmd.Flags().IntVar(&syncStopAfterComplete, "stop-after", 0,
		"stop after N consecutive already-complete records (0 = source default)")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	ctx := commandContext(cmd)
	syncOpts := domain.SyncOptions{
		MaxPages:          syncMaxPages,
		StopAfterComplete: syncStopAfterComplete,
	}

	if len(args) > 0 {
		sourceID := args[0]
		cmd.Printf("Synchronising source: %s...\n", sourceID)

		result, err := syncWithProgress(ctx, cmd, syncOrchestrator, sourceID, syncOpts)
		if result != nil {
			printSyncResult(cmd, *result)
		}
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		cmd.Printf("Source %s synchronised successfully.\n", sourceID)
		return nil
	}

	cmd.Println("Synchronising all sources...")
	results, err := syncOrchestrator.SyncAll(ctx, syncOpts)
	for i := range results {
		printSyncResult(cmd, results[i])
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	cmd.Println("All sources synchronised successfully.")
	return nil
}

func printSyncResult(cmd *cobra.Command, r domain.SyncResult) {
	cmd.Printf("  %s: %d new, %d updated, %d unchanged, %d indexed (%d pages",
		r.SourceID, r.NewCount, r.UpdatedCount, r.SkippedCount, r.Indexed, r.PagesScanned)
	if r.StoppedEarly {
		cmd.Print(", stopped early")
	}
	cmd.Println(")")
	if r.DetailFailures > 0 {
		cmd.Printf("  %s: %d detail pages could not be fetched\n", r.SourceID, r.DetailFailures)
	}
}

// syncWithProgress runs sync while displaying progress updates.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	syncOrch driving.SyncOrchestrator,
	sourceID string,
	syncOpts domain.SyncOptions,
) (*domain.SyncResult, error) {
	type outcome struct {
		result *domain.SyncResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := syncOrch.Sync(ctx, sourceID, syncOpts)
		done <- outcome{r, err}
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case o := <-done:
			if lastCount > 0 {
				cmd.Println()
			}
			return o.result, o.err
		case <-ticker.C:
			status, statusErr := syncOrch.Status(ctx, sourceID)
			if statusErr == nil && status != nil && status.RecordsProcessed > lastCount {
				cmd.Printf("\rPage %d: %d records checked", status.Page, status.RecordsProcessed)
				lastCount = status.RecordsProcessed
			}
		}
	}
}
