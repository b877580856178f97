package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// taskLister is implemented by schedulers that persist their tasks.
type taskLister interface {
	Tasks(ctx context.Context) ([]domain.ScheduledTask, error)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run scheduled syncs in the foreground",
	Long: `Runs the background scheduler until interrupted. All sources are synced
on the configured interval (scheduler.sync_interval_minutes) and old task
history is pruned daily. Enable it with 'lexbrief settings set scheduler.enabled true'.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

var scheduleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scheduled task state",
	Args:  cobra.NoArgs,
	RunE:  runScheduleStatus,
}

func init() {
	scheduleCmd.AddCommand(scheduleStatusCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}
	if !schedulerConfig.Enabled {
		cmd.Println("Scheduler is disabled. Enable it with 'lexbrief settings set scheduler.enabled true'.")
		return nil
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")
	err := scheduler.Start(ctx)
	if stopErr := scheduler.Stop(); stopErr != nil {
		return fmt.Errorf("stopping scheduler: %w", stopErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler stopped: %w", err)
	}
	cmd.Println("Scheduler stopped.")
	return nil
}

func runScheduleStatus(cmd *cobra.Command, _ []string) error {
	lister, ok := scheduler.(taskLister)
	if !ok {
		return errors.New("scheduler not configured")
	}

	tasks, err := lister.Tasks(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		cmd.Println("No scheduled tasks yet. Run 'lexbrief schedule' to create them.")
		return nil
	}

	for i := range tasks {
		t := &tasks[i]
		state := "enabled"
		if !t.Enabled {
			state = "disabled"
		}
		cmd.Printf("%s (%s, every %s)\n", t.Name, state, t.Interval)
		cmd.Printf("  Last run: %s\n", formatTaskTime(t.LastRun))
		cmd.Printf("  Next run: %s\n", formatTaskTime(t.NextRun))
		if t.LastError != "" {
			cmd.Printf("  Last error: %s\n", t.LastError)
		}
	}
	return nil
}

func formatTaskTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}
