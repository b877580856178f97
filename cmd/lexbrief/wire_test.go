package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/cli"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

func TestNewEmbedder(t *testing.T) {
	tests := []struct {
		name      string
		settings  domain.EmbeddingSettings
		wantNil   bool
		wantModel string
	}{
		{
			name:     "openai without key",
			settings: domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI},
			wantNil:  true,
		},
		{
			name:     "unknown provider",
			settings: domain.EmbeddingSettings{Provider: "cohere"},
			wantNil:  true,
		},
		{
			name:      "openai",
			settings:  domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk-test"},
			wantModel: "text-embedding-3-small",
		},
		{
			name:      "ollama",
			settings:  domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "bge-m3"},
			wantModel: "bge-m3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := newEmbedder(tt.settings)
			if tt.wantNil {
				assert.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestNewNewsSearchers(t *testing.T) {
	st := domain.NewsSettings{
		Sources:   []string{"labortoday", "worklaw", "naver", "google", "rss", "bogus"},
		PerSource: 3,
	}

	searchers, closers := newNewsSearchers(context.Background(), st, "")

	names := make([]string, len(searchers))
	for i, s := range searchers {
		names[i] = s.Name()
	}
	// naver, google and rss lack credentials or feeds.
	assert.Equal(t, []string{"labortoday", "worklaw"}, names)
	assert.Len(t, closers, 1)
}

func TestNewNewsSearchers_Credentials(t *testing.T) {
	st := domain.NewsSettings{
		Sources:           []string{"naver", "google", "rss"},
		NaverClientID:     "id",
		NaverClientSecret: "secret",
		GoogleAPIKey:      "key",
		GoogleCX:          "cx",
		RSSFeeds:          []string{"https://example.com/feed.xml"},
	}

	searchers, closers := newNewsSearchers(context.Background(), st, "")

	names := make([]string, len(searchers))
	for i, s := range searchers {
		names[i] = s.Name()
	}
	assert.Equal(t, []string{"naver", "google", "rss"}, names)
	assert.Empty(t, closers)
}

func TestNewLLM(t *testing.T) {
	tests := []struct {
		name      string
		settings  domain.LLMSettings
		wantErr   bool
		wantModel string
	}{
		{name: "disabled", settings: domain.LLMSettings{Provider: domain.LLMProviderNone}},
		{name: "unset", settings: domain.LLMSettings{}},
		{
			name:     "anthropic without key",
			settings: domain.LLMSettings{Provider: domain.LLMProviderAnthropic},
			wantErr:  true,
		},
		{
			name:     "unknown provider",
			settings: domain.LLMSettings{Provider: "gemini"},
			wantErr:  true,
		},
		{
			name:      "openai",
			settings:  domain.LLMSettings{Provider: domain.LLMProviderOpenAI, APIKey: "sk-test"},
			wantModel: "gpt-4o",
		},
		{
			name:      "anthropic",
			settings:  domain.LLMSettings{Provider: domain.LLMProviderAnthropic, APIKey: "ak", Model: "claude-3-5-haiku-latest"},
			wantModel: "claude-3-5-haiku-latest",
		},
		{
			name:      "ollama",
			settings:  domain.LLMSettings{Provider: domain.LLMProviderOllama, Model: "qwen2.5"},
			wantModel: "qwen2.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := newLLM(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			if tt.wantModel == "" {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestNewRenderer(t *testing.T) {
	r, err := newRenderer(domain.NewsletterSettings{Format: domain.OutputFormatMarkdown})
	require.NoError(t, err)
	assert.NotNil(t, r)

	_, err = newRenderer(domain.NewsletterSettings{Format: "pdf"})
	assert.Error(t, err)
}

func TestSchedulerConfig(t *testing.T) {
	cfg := schedulerConfig(domain.SchedulerSettings{Enabled: true, SyncInterval: 15 * time.Minute})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.GetTaskConfig(domain.TaskIDRecordSync).Interval)
	assert.True(t, cfg.GetTaskConfig(domain.TaskIDHistoryPrune).Enabled)

	cfg = schedulerConfig(domain.SchedulerSettings{})
	assert.False(t, cfg.Enabled)
	assert.Equal(t, time.Hour, cfg.GetTaskConfig(domain.TaskIDRecordSync).Interval)
}

func TestBuildServices(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("NAVER_CLIENT_ID", "")
	t.Cleanup(func() { logger.SetLogFile("") })

	svcs, cleanup, err := buildServices(context.Background(), cli.Options{
		ConfigDir: dir,
		DataDir:   filepath.Join(dir, "data"),
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, cleanup()) }()

	assert.NotNil(t, svcs.Source)
	assert.NotNil(t, svcs.Sync)
	assert.NotNil(t, svcs.Retriever)
	assert.NotNil(t, svcs.Sessions)
	assert.NotNil(t, svcs.Scheduler)
	assert.Nil(t, svcs.Opinion, "opinions need a chat model")
	assert.Equal(t, 5, svcs.Retrieval.TopK)
	assert.False(t, svcs.SchedulerConfig.Enabled)

	sources, err := svcs.Source.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, sources, 2, "default sources are seeded")

	_, err = os.Stat(filepath.Join(dir, "data"))
	assert.NoError(t, err)

	// Nothing has been synced yet.
	_, err = svcs.Retriever.Search(context.Background(), nil, "연차", 3)
	assert.ErrorIs(t, err, domain.ErrNoSearchableCollection)
}

func TestBuildServices_WithChatModel(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OPENAI_API_KEY", "")
	t.Cleanup(func() { logger.SetLogFile("") })

	store, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.provider", "ollama"))

	svcs, cleanup, err := buildServices(context.Background(), cli.Options{ConfigDir: dir})
	require.NoError(t, err)
	defer func() { assert.NoError(t, cleanup()) }()

	assert.NotNil(t, svcs.Opinion)
}
