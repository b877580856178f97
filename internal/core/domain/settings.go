package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// LLMProvider identifies the chat model used to write newsletter sections
// and legal opinions.
type LLMProvider string

// Available LLM providers.
const (
	// LLMProviderNone disables written sections and opinions.
	LLMProviderNone      LLMProvider = "none"
	LLMProviderOpenAI    LLMProvider = "openai"
	LLMProviderOllama    LLMProvider = "ollama"
	LLMProviderAnthropic LLMProvider = "anthropic"
)

// IsValid returns true if the LLM provider is recognised.
func (p LLMProvider) IsValid() bool {
	switch p {
	case LLMProviderNone, LLMProviderOpenAI, LLMProviderOllama, LLMProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p LLMProvider) RequiresAPIKey() bool {
	return p == LLMProviderOpenAI || p == LLMProviderAnthropic
}

// String returns the string representation.
func (p LLMProvider) String() string {
	return string(p)
}

// OutputFormat selects the newsletter renderer.
type OutputFormat string

// Available output formats.
const (
	OutputFormatHTML     OutputFormat = "html"
	OutputFormatMarkdown OutputFormat = "markdown"
)

// IsValid returns true if the format is recognised.
func (f OutputFormat) IsValid() bool {
	return f == OutputFormatHTML || f == OutputFormatMarkdown
}

// Extension returns the file extension for documents in this format.
func (f OutputFormat) Extension() string {
	if f == OutputFormatMarkdown {
		return ".md"
	}
	return ".html"
}

// String returns the string representation.
func (f OutputFormat) String() string {
	return string(f)
}

// SyncSettings controls ingestion runs.
type SyncSettings struct {
	// MaxPages caps list pages per run. Zero means unbounded.
	MaxPages int

	// DetailDelay is the minimum gap between remote requests.
	DetailDelay time.Duration

	// StopAfterComplete overrides the connector's early-stop threshold
	// when positive.
	StopAfterComplete int
}

// RetrievalSettings controls multi-collection search.
type RetrievalSettings struct {
	TopK int

	// ConsultCollections are searched for consultation candidates.
	ConsultCollections []string
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds chat model configuration.
type LLMSettings struct {
	Provider LLMProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// IsEnabled returns true if a usable chat provider is configured.
func (l LLMSettings) IsEnabled() bool {
	if !l.Provider.IsValid() || l.Provider == LLMProviderNone {
		return false
	}
	return !l.Provider.RequiresAPIKey() || l.APIKey != ""
}

// DefaultNewsPerSource is the number of candidates kept from each news searcher.
const DefaultNewsPerSource = 5

// NewsSettings selects and configures news searchers.
type NewsSettings struct {
	// Sources lists enabled searchers by name
	// ("labortoday", "worklaw", "naver", "google", "rss").
	Sources []string

	// PerSource caps candidates taken from each searcher.
	PerSource int

	// MaxPages caps result pages scanned per searcher.
	MaxPages int

	RSSFeeds []string

	NaverClientID     string
	NaverClientSecret string
	GoogleAPIKey      string
	GoogleCX          string
}

// PolicySettings controls the policy announcement search.
type PolicySettings struct {
	MaxPages int
}

// NewsletterSettings controls document assembly and output.
type NewsletterSettings struct {
	Brand     string
	OutputDir string
	Format    OutputFormat
}

// SchedulerSettings controls background syncs.
type SchedulerSettings struct {
	Enabled      bool
	SyncInterval time.Duration
}

// Settings is the complete typed application configuration.
type Settings struct {
	Sync       SyncSettings
	Retrieval  RetrievalSettings
	Embedding  EmbeddingSettings
	LLM        LLMSettings
	News       NewsSettings
	Policy     PolicySettings
	Newsletter NewsletterSettings
	Scheduler  SchedulerSettings
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Sync: SyncSettings{
			DetailDelay: 200 * time.Millisecond,
		},
		Retrieval: RetrievalSettings{
			TopK:               5,
			ConsultCollections: []string{"iqrs"},
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    "text-embedding-3-small",
		},
		LLM: LLMSettings{
			Provider: LLMProviderNone,
		},
		News: NewsSettings{
			Sources:   []string{"labortoday", "worklaw"},
			PerSource: DefaultNewsPerSource,
			MaxPages:  10,
		},
		Policy: PolicySettings{
			MaxPages: 3,
		},
		Newsletter: NewsletterSettings{
			Brand:  DefaultBrand,
			Format: OutputFormatHTML,
		},
		Scheduler: SchedulerSettings{
			Enabled:      false,
			SyncInterval: time.Hour,
		},
	}
}
