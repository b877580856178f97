// Package cli implements the lexbrief command line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Options are the global flags, passed to the Initializer.
type Options struct {
	Verbose   bool
	DataDir   string
	ConfigDir string
}

// Services holds the driving ports used by the commands.
type Services struct {
	Source            driving.SourceService
	ConnectorRegistry driving.ConnectorRegistry
	Sync              driving.SyncOrchestrator
	Records           driving.RecordService
	Retriever         driving.Retriever
	Sessions          driving.WorkflowSessions
	Opinion           driving.OpinionWriter
	Settings          driving.SettingsService
	Scheduler         driving.Scheduler
	SchedulerConfig   domain.SchedulerConfig

	// Retrieval scopes archive search in the TUI.
	Retrieval domain.RetrievalSettings

	// SyncOptions bound syncs started from the TUI.
	SyncOptions domain.SyncOptions
}

// Initializer builds the services once global flags are parsed.
// The returned cleanup function is called after the command finishes.
type Initializer func(ctx context.Context, opts Options) (*Services, func() error, error)

var (
	opts        Options
	initializer Initializer
	cleanup     func() error

	sourceService     driving.SourceService
	connectorRegistry driving.ConnectorRegistry
	syncOrchestrator  driving.SyncOrchestrator
	recordService     driving.RecordService
	retriever         driving.Retriever
	sessions          driving.WorkflowSessions
	opinionWriter     driving.OpinionWriter
	settingsService   driving.SettingsService
	scheduler         driving.Scheduler
	schedulerConfig   domain.SchedulerConfig
	retrievalConfig   domain.RetrievalSettings
	tuiSyncOptions    domain.SyncOptions
)

var rootCmd = &cobra.Command{
	Use:   "lexbrief",
	Short: "Labor-law newsletter assistant",
	Long: `lexbrief mirrors Ministry of Employment and Labor consultation archives
into local vector collections and walks you through composing a weekly
HR newsletter from news, consultation cases and policy announcements.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "data directory (default ~/.lexbrief/data)")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "config directory (default ~/.lexbrief)")
}

// SetInitializer registers the function that wires services.
func SetInitializer(fn Initializer) {
	initializer = fn
}

// SetServices installs already-built services.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	sourceService = s.Source
	connectorRegistry = s.ConnectorRegistry
	syncOrchestrator = s.Sync
	recordService = s.Records
	retriever = s.Retriever
	sessions = s.Sessions
	opinionWriter = s.Opinion
	settingsService = s.Settings
	scheduler = s.Scheduler
	schedulerConfig = s.SchedulerConfig
	retrievalConfig = s.Retrieval
	tuiSyncOptions = s.SyncOptions
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cleanup != nil {
		if cerr := cleanup(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		cleanup = nil
	}
	return err
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)
	if initializer == nil || cleanup != nil {
		return nil
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svcs, done, err := initializer(ctx, opts)
	if err != nil {
		return err
	}
	SetServices(svcs)
	cleanup = done
	return nil
}

// commandContext returns the command's context, falling back to Background
// when the command is executed without one (as in tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
