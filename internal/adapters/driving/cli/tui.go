package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexbrief/internal/adapters/driving/tui"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface for lexbrief.

The TUI walks through composing a newsletter, searches the consultation
archive and syncs sources. When the scheduler is enabled it keeps
synchronising sources in the background while the TUI is open.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Send / Select
  Space    - Toggle a policy announcement
  Esc      - Back
  ?        - Help
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if sessions == nil {
		return errors.New("newsletter workflow not configured")
	}

	ctx := commandContext(cmd)

	// The TUI is long-running, so background tasks run alongside it.
	if schedulerConfig.Enabled && scheduler != nil {
		schedCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		go func() {
			if err := scheduler.Start(schedCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("scheduler stopped: %v", err)
			}
		}()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				logger.Warn("scheduler stop error: %v", err)
			}
		}()
	}

	ports := tui.NewPorts(sessions, retriever, sourceService, syncOrchestrator)
	app, err := tui.NewApp(ports, tui.Config{
		SearchCollections: retrievalConfig.ConsultCollections,
		TopK:              retrievalConfig.TopK,
		Sync:              tuiSyncOptions,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
