package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySyncMaxPages          = "sync.max_pages"
	keySyncDetailDelayMS     = "sync.detail_delay_ms"
	keySyncStopAfterComplete = "sync.stop_after_complete"
	keyRetrievalTopK         = "retrieval.top_k"
	keyRetrievalConsult      = "retrieval.consult_collections"
	keyEmbedProvider         = "embedding.provider"
	keyEmbedModel            = "embedding.model"
	keyEmbedBaseURL          = "embedding.base_url"
	keyLLMProvider           = "llm.provider"
	keyLLMModel              = "llm.model"
	keyLLMBaseURL            = "llm.base_url"
	keyNewsSources           = "news.sources"
	keyNewsPerSource         = "news.per_source"
	keyNewsMaxPages          = "news.max_pages"
	keyNewsRSSFeeds          = "news.rss_feeds"
	keyPolicyMaxPages        = "policy.max_pages"
	keyNewsletterBrand       = "newsletter.brand"
	keyNewsletterOutputDir   = "newsletter.output_dir"
	keyNewsletterFormat      = "newsletter.format"
	keySchedulerEnabled      = "scheduler.enabled"
	keySchedulerIntervalMin  = "scheduler.sync_interval_minutes"
)

// Environment variables holding secrets. They are never written to the
// config file.
//
//nolint:gosec // G101: variable names, not credentials.
const (
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
	EnvAnthropicAPIKey   = "ANTHROPIC_API_KEY"
	EnvNaverClientID     = "NAVER_CLIENT_ID"
	EnvNaverClientSecret = "NAVER_CLIENT_SECRET"
	EnvGoogleAPIKey      = "GOOGLE_CSE_API_KEY"
	EnvGoogleCX          = "GOOGLE_CSE_CX"
)

// KnownNewsSources are the accepted news.sources values.
var KnownNewsSources = []string{"labortoday", "worklaw", "naver", "google", "rss"}

type settingKind int

const (
	kindInt settingKind = iota
	kindString
	kindBool
	kindList
)

type settingSpec struct {
	kind     settingKind
	validate func(string) error
}

var settingSpecs = map[string]settingSpec{
	keySyncMaxPages:          {kind: kindInt},
	keySyncDetailDelayMS:     {kind: kindInt},
	keySyncStopAfterComplete: {kind: kindInt},
	keyRetrievalTopK:         {kind: kindInt, validate: positive},
	keyRetrievalConsult:      {kind: kindList},
	keyEmbedProvider:         {kind: kindString, validate: validProvider},
	keyEmbedModel:            {kind: kindString},
	keyEmbedBaseURL:          {kind: kindString},
	keyLLMProvider:           {kind: kindString, validate: validLLMProvider},
	keyLLMModel:              {kind: kindString},
	keyLLMBaseURL:            {kind: kindString},
	keyNewsSources:           {kind: kindList, validate: validNewsSources},
	keyNewsPerSource:         {kind: kindInt, validate: positive},
	keyNewsMaxPages:          {kind: kindInt, validate: positive},
	keyNewsRSSFeeds:          {kind: kindList},
	keyPolicyMaxPages:        {kind: kindInt, validate: positive},
	keyNewsletterBrand:       {kind: kindString},
	keyNewsletterOutputDir:   {kind: kindString},
	keyNewsletterFormat:      {kind: kindString, validate: validFormat},
	keySchedulerEnabled:      {kind: kindBool},
	keySchedulerIntervalMin:  {kind: kindInt, validate: positive},
}

// SettingsService maps the flat config store onto typed settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore, getenv: os.Getenv}
}

// Get returns current settings with defaults for unset keys and secrets
// from the environment.
func (s *SettingsService) Get() (*domain.Settings, error) {
	st := domain.DefaultSettings()

	st.Sync.MaxPages = s.getInt(keySyncMaxPages, st.Sync.MaxPages)
	st.Sync.DetailDelay = time.Duration(s.getInt(keySyncDetailDelayMS, int(st.Sync.DetailDelay/time.Millisecond))) * time.Millisecond
	st.Sync.StopAfterComplete = s.getInt(keySyncStopAfterComplete, st.Sync.StopAfterComplete)

	st.Retrieval.TopK = s.getInt(keyRetrievalTopK, st.Retrieval.TopK)
	st.Retrieval.ConsultCollections = s.getList(keyRetrievalConsult, st.Retrieval.ConsultCollections)

	st.Embedding.Provider = domain.AIProvider(s.getString(keyEmbedProvider, st.Embedding.Provider.String()))
	st.Embedding.Model = s.getString(keyEmbedModel, st.Embedding.Model)
	st.Embedding.BaseURL = s.getString(keyEmbedBaseURL, st.Embedding.BaseURL)
	st.Embedding.APIKey = s.getenv(EnvOpenAIAPIKey)

	st.LLM.Provider = domain.LLMProvider(s.getString(keyLLMProvider, st.LLM.Provider.String()))
	st.LLM.Model = s.getString(keyLLMModel, st.LLM.Model)
	st.LLM.BaseURL = s.getString(keyLLMBaseURL, st.LLM.BaseURL)
	switch st.LLM.Provider {
	case domain.LLMProviderOpenAI:
		st.LLM.APIKey = s.getenv(EnvOpenAIAPIKey)
	case domain.LLMProviderAnthropic:
		st.LLM.APIKey = s.getenv(EnvAnthropicAPIKey)
	}

	st.News.Sources = s.getList(keyNewsSources, st.News.Sources)
	st.News.PerSource = s.getInt(keyNewsPerSource, st.News.PerSource)
	st.News.MaxPages = s.getInt(keyNewsMaxPages, st.News.MaxPages)
	st.News.RSSFeeds = s.getList(keyNewsRSSFeeds, st.News.RSSFeeds)
	st.News.NaverClientID = s.getenv(EnvNaverClientID)
	st.News.NaverClientSecret = s.getenv(EnvNaverClientSecret)
	st.News.GoogleAPIKey = s.getenv(EnvGoogleAPIKey)
	st.News.GoogleCX = s.getenv(EnvGoogleCX)

	st.Policy.MaxPages = s.getInt(keyPolicyMaxPages, st.Policy.MaxPages)

	st.Newsletter.Brand = s.getString(keyNewsletterBrand, st.Newsletter.Brand)
	st.Newsletter.OutputDir = s.getString(keyNewsletterOutputDir, st.Newsletter.OutputDir)
	st.Newsletter.Format = domain.OutputFormat(s.getString(keyNewsletterFormat, st.Newsletter.Format.String()))

	st.Scheduler.Enabled = s.getBool(keySchedulerEnabled, st.Scheduler.Enabled)
	st.Scheduler.SyncInterval = time.Duration(s.getInt(keySchedulerIntervalMin, int(st.Scheduler.SyncInterval/time.Minute))) * time.Minute

	return &st, nil
}

// Set parses and stores one setting by its dotted key.
func (s *SettingsService) Set(key, value string) error {
	spec, ok := settingSpecs[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)
	if spec.validate != nil {
		if err := spec.validate(value); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
	}

	var parsed any
	switch spec.kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindList:
		parsed = splitList(value)
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the settable keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingSpecs))
	for k := range settingSpecs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	st, err := s.Get()
	if err != nil {
		return err
	}
	if !st.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", domain.ErrInvalidInput, st.Embedding.Provider)
	}
	if !st.Embedding.IsConfigured() {
		return fmt.Errorf("%w: %s is not set", domain.ErrEmbeddingUnavailable, EnvOpenAIAPIKey)
	}
	if !st.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: llm provider %q", domain.ErrInvalidInput, st.LLM.Provider)
	}
	if st.LLM.Provider != domain.LLMProviderNone && !st.LLM.IsEnabled() {
		return fmt.Errorf("%w: API key for llm provider %s is not set", domain.ErrInvalidInput, st.LLM.Provider)
	}
	if !st.Newsletter.Format.IsValid() {
		return fmt.Errorf("%w: newsletter format %q", domain.ErrInvalidInput, st.Newsletter.Format)
	}
	if err := validNewsSources(strings.Join(st.News.Sources, ",")); err != nil {
		return fmt.Errorf("%w: news.sources: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, def bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getList(key string, def []string) []string {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetStringSlice(key)
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func positive(value string) error {
	if n, err := strconv.Atoi(value); err != nil || n < 1 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func validProvider(value string) error {
	if !domain.AIProvider(value).IsValid() {
		return fmt.Errorf("unknown provider %q (want %s or %s)", value, domain.AIProviderOpenAI, domain.AIProviderOllama)
	}
	return nil
}

func validLLMProvider(value string) error {
	if !domain.LLMProvider(value).IsValid() {
		return fmt.Errorf("unknown provider %q (want %s, %s, %s or %s)", value,
			domain.LLMProviderNone, domain.LLMProviderOpenAI, domain.LLMProviderOllama, domain.LLMProviderAnthropic)
	}
	return nil
}

func validFormat(value string) error {
	if !domain.OutputFormat(value).IsValid() {
		return fmt.Errorf("unknown format %q (want %s or %s)", value, domain.OutputFormatHTML, domain.OutputFormatMarkdown)
	}
	return nil
}

func validNewsSources(value string) error {
	known := make(map[string]bool, len(KnownNewsSources))
	for _, k := range KnownNewsSources {
		known[k] = true
	}
	sources := splitList(value)
	if len(sources) == 0 {
		return fmt.Errorf("at least one news source is required")
	}
	for _, src := range sources {
		if !known[src] {
			return fmt.Errorf("unknown news source %q", src)
		}
	}
	return nil
}
