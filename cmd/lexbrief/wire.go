package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/lexbrief/internal/adapters/driven/article"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/llm/anthropic"
	llmollama "github.com/custodia-labs/lexbrief/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/custodia-labs/lexbrief/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/news"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/news/googlecse"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/news/labortoday"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/news/naver"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/news/rss"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/news/worklaw"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/policy/moelpress"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/render"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexbrief/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/cli"
	"github.com/custodia-labs/lexbrief/internal/connectors"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/core/services"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

// EnvBrowserBin names a Chrome binary for the worklaw searcher.
const EnvBrowserBin = "LEXBRIEF_BROWSER"

// articleTimeout bounds a single article download.
const articleTimeout = 20 * time.Second

// buildServices wires every adapter into the services used by the CLI.
func buildServices(ctx context.Context, opts cli.Options) (*cli.Services, func() error, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, nil, err
		}
		configDir = dir
	}

	if err := file.LoadEnv(".", configDir); err != nil {
		logger.Warn("%v", err)
	}
	logger.SetLogFile(filepath.Join(configDir, "logs", "lexbrief.log"))

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	var closers []io.Closer
	cleanup := func() error {
		errs := make([]error, 0, len(closers)+1)
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i].Close())
		}
		errs = append(errs, store.Close())
		return errors.Join(errs...)
	}

	factory := connectors.NewDefaultFactory()
	registry := services.NewConnectorRegistry(factory)
	sourceService := services.NewSourceService(store.SourceStore(), store.RecordStore(), registry)
	if err := sourceService.EnsureDefaults(ctx); err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("seeding sources: %w", err)
	}

	embedder, err := newEmbedder(settings.Embedding)
	if err != nil {
		logger.Warn("embedding disabled: %v", err)
	}
	if embedder != nil {
		closers = append(closers, embedder)
	}

	vectors := store.VectorStore()
	indexer := services.NewIndexer(embedder, vectors)
	syncOrch := services.NewSyncOrchestrator(
		store.SourceStore(), store.RecordStore(), factory, indexer, settings.Sync.DetailDelay)
	retriever := services.NewRetriever(embedder, vectors, settings.Retrieval.TopK)
	recordService := services.NewRecordService(store.RecordStore(), store.SourceStore())

	searchers, searcherClosers := newNewsSearchers(ctx, settings.News, os.Getenv(EnvBrowserBin))
	closers = append(closers, searcherClosers...)

	renderer, err := newRenderer(settings.Newsletter)
	if err != nil {
		_ = cleanup()
		return nil, nil, err
	}

	llm, err := newLLM(settings.LLM)
	if err != nil {
		logger.Warn("chat model disabled: %v", err)
	}

	workflow := services.NewWorkflow(
		news.NewComposite(settings.News.PerSource, searchers...),
		article.New(articleTimeout),
		retriever,
		moelpress.New(moelpress.Config{Delay: settings.Sync.DetailDelay}),
		renderer,
		services.WorkflowConfig{
			ConsultCollections: settings.Retrieval.ConsultCollections,
			TopK:               settings.Retrieval.TopK,
			PolicyMaxPages:     settings.Policy.MaxPages,
			Brand:              settings.Newsletter.Brand,
		},
	)
	var opinions *services.OpinionService
	if llm != nil {
		closers = append(closers, llm)
		workflow.WithSectionWriter(services.NewSectionWriter(llm))
		opinions = services.NewOpinionService(retriever, llm, renderer, services.DefaultOpinionTopK)
	}
	sessions := services.NewSessionManager(workflow, memory.NewSessionStore(0))

	syncOpts := domain.SyncOptions{
		MaxPages:          settings.Sync.MaxPages,
		StopAfterComplete: settings.Sync.StopAfterComplete,
	}
	schedCfg := schedulerConfig(settings.Scheduler)
	scheduler := services.NewScheduler(schedCfg, store.SchedulerStore(), syncOrch, syncOpts)

	svcs := &cli.Services{
		Source:            sourceService,
		ConnectorRegistry: registry,
		Sync:              syncOrch,
		Records:           recordService,
		Retriever:         retriever,
		Sessions:          sessions,
		Settings:          settingsService,
		Scheduler:         scheduler,
		SchedulerConfig:   schedCfg,
		Retrieval:         settings.Retrieval,
		SyncOptions:       syncOpts,
	}
	if opinions != nil {
		svcs.Opinion = opinions
	}
	return svcs, cleanup, nil
}

// newEmbedder returns nil when no provider is configured; indexing and
// search then fail with ErrEmbeddingUnavailable.
func newEmbedder(st domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !st.IsConfigured() {
		if st.Provider.RequiresAPIKey() {
			return nil, fmt.Errorf("%s is not set", services.EnvOpenAIAPIKey)
		}
		return nil, fmt.Errorf("unknown embedding provider %q", st.Provider)
	}

	switch st.Provider {
	case domain.AIProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: st.BaseURL,
			Model:   st.Model,
		}), nil
	case domain.AIProviderOpenAI:
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:  st.APIKey,
			BaseURL: st.BaseURL,
			Model:   st.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", st.Provider)
	}
}

// newLLM returns nil without error when no chat provider is selected.
// Newsletters then keep the source text and opinions are unavailable.
func newLLM(st domain.LLMSettings) (driven.LLMService, error) {
	if st.Provider == domain.LLMProviderNone || st.Provider == "" {
		return nil, nil
	}
	if !st.IsEnabled() {
		if st.Provider.RequiresAPIKey() {
			return nil, fmt.Errorf("API key for %s is not set", st.Provider)
		}
		return nil, fmt.Errorf("unknown llm provider %q", st.Provider)
	}

	switch st.Provider {
	case domain.LLMProviderOllama:
		return llmollama.NewLLMService(llmollama.Config{
			BaseURL: st.BaseURL,
			Model:   st.Model,
		}), nil
	case domain.LLMProviderOpenAI:
		svc, err := llmopenai.NewLLMService(llmopenai.Config{
			APIKey:  st.APIKey,
			BaseURL: st.BaseURL,
			Model:   st.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	case domain.LLMProviderAnthropic:
		svc, err := anthropic.NewLLMService(anthropic.Config{
			APIKey:  st.APIKey,
			BaseURL: st.BaseURL,
			Model:   st.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", st.Provider)
	}
}

// newNewsSearchers builds the searchers named in st.Sources, in order.
// Searchers missing credentials are skipped with a warning.
func newNewsSearchers(ctx context.Context, st domain.NewsSettings, browserBin string) ([]driven.NewsSearcher, []io.Closer) {
	var (
		searchers []driven.NewsSearcher
		closers   []io.Closer
	)
	for _, name := range st.Sources {
		switch name {
		case "labortoday":
			searchers = append(searchers, labortoday.New(labortoday.Config{
				Limit:    st.PerSource,
				MaxPages: st.MaxPages,
			}))
		case "worklaw":
			s := worklaw.New(worklaw.Config{
				Limit:    st.PerSource,
				MaxPages: st.MaxPages,
			}, worklaw.NewBrowser(browserBin))
			searchers = append(searchers, s)
			closers = append(closers, s)
		case "naver":
			s, err := naver.New(naver.Config{
				ClientID:     st.NaverClientID,
				ClientSecret: st.NaverClientSecret,
			})
			if err != nil {
				logger.Warn("news: skipping naver: %v", err)
				continue
			}
			searchers = append(searchers, s)
		case "google":
			s, err := googlecse.New(ctx, googlecse.Config{
				APIKey:   st.GoogleAPIKey,
				CX:       st.GoogleCX,
				Limit:    st.PerSource,
				MaxPages: st.MaxPages,
			})
			if err != nil {
				logger.Warn("news: skipping google: %v", err)
				continue
			}
			searchers = append(searchers, s)
		case "rss":
			if len(st.RSSFeeds) == 0 {
				logger.Warn("news: skipping rss: news.rss_feeds is empty")
				continue
			}
			searchers = append(searchers, rss.New(rss.Config{
				Feeds: st.RSSFeeds,
				Limit: st.PerSource,
			}))
		default:
			logger.Warn("news: unknown source %q", name)
		}
	}
	return searchers, closers
}

func newRenderer(st domain.NewsletterSettings) (*render.FileRenderer, error) {
	base, err := render.New(st.Format)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	dir := st.OutputDir
	if dir == "" {
		dir = "."
	}
	return render.NewFileRenderer(base, dir), nil
}

// schedulerConfig maps settings onto the scheduler's task table.
func schedulerConfig(st domain.SchedulerSettings) domain.SchedulerConfig {
	cfg := domain.DefaultSchedulerConfig()
	cfg.Enabled = st.Enabled
	if st.SyncInterval > 0 {
		cfg.TaskConfigs[domain.TaskIDRecordSync] = domain.TaskConfig{
			Enabled:  true,
			Interval: st.SyncInterval,
		}
	}
	return cfg
}
