package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change lexbrief settings. Settings are stored in config.toml in
the config directory; API keys are read from the environment or a .env file
and are never written to disk.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting by its dotted key. List values are comma separated.

Examples:
  lexbrief settings set retrieval.top_k 8
  lexbrief settings set news.sources labortoday,worklaw,naver
  lexbrief settings set newsletter.format markdown
  lexbrief settings set llm.provider anthropic`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Sync]")
	cmd.Printf("  Max pages: %s\n", unbounded(settings.Sync.MaxPages))
	cmd.Printf("  Request delay: %s\n", settings.Sync.DetailDelay)
	cmd.Printf("  Stop after complete: %s\n", orDefault(settings.Sync.StopAfterComplete))
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Consultation collections: %s\n", strings.Join(settings.Retrieval.ConsultCollections, ", "))
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider)
	if settings.LLM.Model != "" {
		cmd.Printf("  Model: %s\n", settings.LLM.Model)
	}
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
	}
	llmStatus := "disabled"
	if settings.LLM.IsEnabled() {
		llmStatus = "enabled"
	}
	cmd.Printf("  Status: %s\n", llmStatus)
	cmd.Println()

	cmd.Println("[News]")
	cmd.Printf("  Sources: %s\n", strings.Join(settings.News.Sources, ", "))
	cmd.Printf("  Per source: %d\n", settings.News.PerSource)
	cmd.Printf("  Max pages: %d\n", settings.News.MaxPages)
	if len(settings.News.RSSFeeds) > 0 {
		cmd.Printf("  RSS feeds: %s\n", strings.Join(settings.News.RSSFeeds, ", "))
	}
	cmd.Printf("  Naver client ID: %s\n", maskAPIKey(settings.News.NaverClientID))
	cmd.Printf("  Google CSE key: %s\n", maskAPIKey(settings.News.GoogleAPIKey))
	cmd.Println()

	cmd.Println("[Newsletter]")
	cmd.Printf("  Brand: %s\n", settings.Newsletter.Brand)
	cmd.Printf("  Format: %s\n", settings.Newsletter.Format)
	outputDir := settings.Newsletter.OutputDir
	if outputDir == "" {
		outputDir = "(current directory)"
	}
	cmd.Printf("  Output dir: %s\n", outputDir)
	cmd.Printf("  Policy pages: %d\n", settings.Policy.MaxPages)
	cmd.Println()

	cmd.Println("[Scheduler]")
	if settings.Scheduler.Enabled {
		cmd.Printf("  Enabled: yes\n")
		cmd.Printf("  Sync interval: %s\n", settings.Scheduler.SyncInterval)
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func unbounded(n int) string {
	if n <= 0 {
		return "unbounded"
	}
	return fmt.Sprint(n)
}

func orDefault(n int) string {
	if n <= 0 {
		return "connector default"
	}
	return fmt.Sprint(n)
}

func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
