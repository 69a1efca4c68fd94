package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderLangChain is any OpenAI-compatible endpoint driven through langchaingo.
	AIProviderLangChain AIProvider = "langchain"

	// AIProviderNone disables the provider.
	AIProviderNone AIProvider = "none"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini, AIProviderLangChain:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini || p == AIProviderLangChain
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
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
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderLangChain:
		return "OpenAI-compatible (langchaingo)"
	case AIProviderNone:
		return "Disabled"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
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

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic/Gemini).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ScraperSettings configures page scraping.
type ScraperSettings struct {
	// FirecrawlAPIKey enables the Firecrawl scraper when set.
	FirecrawlAPIKey string

	// FirecrawlBaseURL is the Firecrawl API endpoint.
	FirecrawlBaseURL string

	// UserAgent is sent by the raw HTML fetcher.
	UserAgent string

	// Timeout bounds a raw HTML fetch.
	Timeout time.Duration
}

// WebSearchSettings configures competitor discovery.
type WebSearchSettings struct {
	// SerpAPIKey enables SerpAPI search when set.
	SerpAPIKey string

	// BaseURL is the SerpAPI endpoint.
	BaseURL string
}

// IsConfigured returns true if web search can be used.
func (w WebSearchSettings) IsConfigured() bool {
	return w.SerpAPIKey != ""
}

// CacheBackend selects the cache implementation.
type CacheBackend string

// Available cache backends.
const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendSQLite CacheBackend = "sqlite"
	CacheBackendRedis  CacheBackend = "redis"
	CacheBackendNone   CacheBackend = "none"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheBackendMemory, CacheBackendSQLite, CacheBackendRedis, CacheBackendNone:
		return true
	default:
		return false
	}
}

// CacheSettings configures the advisory cache.
type CacheSettings struct {
	Backend  CacheBackend
	RedisURL string
	TTL      time.Duration
}

// StorageBackend selects the report store implementation.
type StorageBackend string

// Available storage backends.
const (
	StorageBackendSQLite   StorageBackend = "sqlite"
	StorageBackendPostgres StorageBackend = "postgres"
	StorageBackendMemory   StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendSQLite, StorageBackendPostgres, StorageBackendMemory:
		return true
	default:
		return false
	}
}

// StorageSettings configures report persistence.
type StorageSettings struct {
	Backend StorageBackend

	// DSN is the Postgres connection string.
	DSN string
}

// AnalysisSettings tunes the analysis pipeline.
type AnalysisSettings struct {
	// Threshold is the similarity at which a query counts as matched.
	Threshold float64

	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// MaxQueries caps generated queries.
	MaxQueries int

	// MaxCompetitors caps discovered competitors.
	MaxCompetitors int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds the primary LLM provider settings.
	LLM LLMSettings

	// FallbackLLM is tried when the primary LLM fails.
	FallbackLLM LLMSettings

	Scraper   ScraperSettings
	WebSearch WebSearchSettings
	Cache     CacheSettings
	Storage   StorageSettings
	Analysis  AnalysisSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty; they come from config or the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
		},
		LLM: LLMSettings{
			Provider: AIProviderGemini,
			Model:    DefaultLLMModels()[AIProviderGemini],
		},
		FallbackLLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModels()[AIProviderOpenAI],
		},
		Scraper: ScraperSettings{
			FirecrawlBaseURL: "https://api.firecrawl.dev",
			UserAgent:        "Mozilla/5.0 (compatible; topicgap/1.0)",
			Timeout:          30 * time.Second,
		},
		WebSearch: WebSearchSettings{
			BaseURL: "https://serpapi.com",
		},
		Cache: CacheSettings{
			Backend: CacheBackendMemory,
			TTL:     time.Hour,
		},
		Storage: StorageSettings{
			Backend: StorageBackendSQLite,
		},
		Analysis: AnalysisSettings{
			Threshold:      DefaultSimilarityThreshold,
			ChunkSize:      1000,
			MaxQueries:     20,
			MaxCompetitors: 3,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderLangChain,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
		AIProviderLangChain,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "nomic-embed-text",
		AIProviderOpenAI:    "text-embedding-3-small",
		AIProviderLangChain: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-1.5-flash",
		AIProviderLangChain: "gpt-4o-mini",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds chunk pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": 1000,
				"min_size":   50,
			},
		},
	}
}
