package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyFallbackProvider  = "llm.fallback_provider"
	keyFallbackModel     = "llm.fallback_model"
	keyFallbackAPIKey    = "llm.fallback_api_key"
	keyFirecrawlAPIKey   = "scraper.firecrawl_api_key"
	keyFirecrawlBaseURL  = "scraper.firecrawl_base_url"
	keyUserAgent         = "scraper.user_agent"
	keyScraperTimeout    = "scraper.timeout_seconds"
	keySerpAPIKey        = "search.serpapi_api_key"
	keySerpAPIBaseURL    = "search.serpapi_base_url"
	keyCacheBackend      = "cache.backend"
	keyCacheRedisURL     = "cache.redis_url"
	keyCacheTTL          = "cache.ttl_seconds"
	keyStorageBackend    = "storage.backend"
	keyStorageDSN        = "storage.dsn"
	keyThreshold         = "analysis.threshold"
	keyChunkSize         = "analysis.chunk_size"
	keyMaxQueries        = "analysis.max_queries"
	keyMaxCompetitors    = "analysis.max_competitors"
	keyPipelineProcessor = "pipeline.processors"
)

// Environment variables consulted when an API key or URL is not configured.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvFirecrawlKey = "FIRECRAWL_API_KEY"
	EnvSerpAPIKey   = "SERPAPI_API_KEY"
	EnvRedisURL     = "REDIS_URL"
	EnvDatabaseURL  = "DATABASE_URL"
)

const defaultOllamaURL = "http://localhost:11434"

// settingKey describes one key accepted by Set.
type settingKey struct {
	name  string
	parse func(string) (any, error)
}

// settableKeys lists every key accepted by Set, in display order.
var settableKeys = []settingKey{
	{keyEmbedProvider, parseEmbeddingProvider},
	{keyEmbedModel, parseText},
	{keyEmbedBaseURL, parseText},
	{keyEmbedAPIKey, parseText},
	{keyLLMProvider, parseLLMProvider},
	{keyLLMModel, parseText},
	{keyLLMBaseURL, parseText},
	{keyLLMAPIKey, parseText},
	{keyFallbackProvider, parseLLMProvider},
	{keyFallbackModel, parseText},
	{keyFallbackAPIKey, parseText},
	{keyFirecrawlAPIKey, parseText},
	{keyFirecrawlBaseURL, parseText},
	{keyUserAgent, parseText},
	{keyScraperTimeout, parsePositiveInt},
	{keySerpAPIKey, parseText},
	{keySerpAPIBaseURL, parseText},
	{keyCacheBackend, parseCacheBackend},
	{keyCacheRedisURL, parseText},
	{keyCacheTTL, parsePositiveInt},
	{keyStorageBackend, parseStorageBackend},
	{keyStorageDSN, parseText},
	{keyThreshold, parseThreshold},
	{keyChunkSize, parsePositiveInt},
	{keyMaxQueries, parsePositiveInt},
	{keyMaxCompetitors, parsePositiveInt},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup used for API key fallbacks.
func (s *SettingsService) SetEnvLookup(getenv func(string) string) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	s.getenv = getenv
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	embedProvider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider, false)
	llmProvider := s.getProvider(keyLLMProvider, defaults.LLM.Provider, true)
	fallbackProvider := s.getProvider(keyFallbackProvider, defaults.FallbackLLM.Provider, true)

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: embedProvider,
			Model:    s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.getSecret(keyEmbedAPIKey, providerEnv(embedProvider)),
		},
		LLM: domain.LLMSettings{
			Provider: llmProvider,
			Model:    s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.getSecret(keyLLMAPIKey, providerEnv(llmProvider)),
		},
		FallbackLLM: domain.LLMSettings{
			Provider: fallbackProvider,
			Model:    s.getString(keyFallbackModel, domain.DefaultLLMModels()[fallbackProvider]),
			APIKey:   s.getSecret(keyFallbackAPIKey, providerEnv(fallbackProvider)),
		},
		Scraper: domain.ScraperSettings{
			FirecrawlAPIKey:  s.getSecret(keyFirecrawlAPIKey, EnvFirecrawlKey),
			FirecrawlBaseURL: s.getString(keyFirecrawlBaseURL, defaults.Scraper.FirecrawlBaseURL),
			UserAgent:        s.getString(keyUserAgent, defaults.Scraper.UserAgent),
			Timeout:          s.getSeconds(keyScraperTimeout, defaults.Scraper.Timeout),
		},
		WebSearch: domain.WebSearchSettings{
			SerpAPIKey: s.getSecret(keySerpAPIKey, EnvSerpAPIKey),
			BaseURL:    s.getString(keySerpAPIBaseURL, defaults.WebSearch.BaseURL),
		},
		Cache: domain.CacheSettings{
			Backend:  s.getCacheBackend(defaults.Cache.Backend),
			RedisURL: s.getSecret(keyCacheRedisURL, EnvRedisURL),
			TTL:      s.getSeconds(keyCacheTTL, defaults.Cache.TTL),
		},
		Storage: domain.StorageSettings{
			Backend: s.getStorageBackend(defaults.Storage.Backend),
			DSN:     s.getSecret(keyStorageDSN, EnvDatabaseURL),
		},
		Analysis: domain.AnalysisSettings{
			Threshold:      s.getFloat(keyThreshold, defaults.Analysis.Threshold),
			ChunkSize:      s.getInt(keyChunkSize, defaults.Analysis.ChunkSize),
			MaxQueries:     s.getInt(keyMaxQueries, defaults.Analysis.MaxQueries),
			MaxCompetitors: s.getInt(keyMaxCompetitors, defaults.Analysis.MaxCompetitors),
		},
	}

	return settings, nil
}

// Save persists application settings. API keys that are empty, or that
// only came from the environment, are not written.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyFallbackProvider, settings.FallbackLLM.Provider.String()},
		{keyFallbackModel, settings.FallbackLLM.Model},
		{keyFirecrawlBaseURL, settings.Scraper.FirecrawlBaseURL},
		{keyUserAgent, settings.Scraper.UserAgent},
		{keyScraperTimeout, int(settings.Scraper.Timeout / time.Second)},
		{keySerpAPIBaseURL, settings.WebSearch.BaseURL},
		{keyCacheBackend, string(settings.Cache.Backend)},
		{keyCacheTTL, int(settings.Cache.TTL / time.Second)},
		{keyStorageBackend, string(settings.Storage.Backend)},
		{keyThreshold, settings.Analysis.Threshold},
		{keyChunkSize, settings.Analysis.ChunkSize},
		{keyMaxQueries, settings.Analysis.MaxQueries},
		{keyMaxCompetitors, settings.Analysis.MaxCompetitors},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := []struct {
		key, value, env string
	}{
		{keyEmbedAPIKey, settings.Embedding.APIKey, providerEnv(settings.Embedding.Provider)},
		{keyLLMAPIKey, settings.LLM.APIKey, providerEnv(settings.LLM.Provider)},
		{keyFallbackAPIKey, settings.FallbackLLM.APIKey, providerEnv(settings.FallbackLLM.Provider)},
		{keyFirecrawlAPIKey, settings.Scraper.FirecrawlAPIKey, EnvFirecrawlKey},
		{keySerpAPIKey, settings.WebSearch.SerpAPIKey, EnvSerpAPIKey},
		{keyCacheRedisURL, settings.Cache.RedisURL, EnvRedisURL},
		{keyStorageDSN, settings.Storage.DSN, EnvDatabaseURL},
	}
	for _, sec := range secrets {
		if sec.value == "" {
			continue
		}
		if s.configStore.GetString(sec.key) == "" && sec.env != "" && sec.value == s.getenv(sec.env) {
			continue
		}
		if err := s.configStore.Set(sec.key, sec.value); err != nil {
			return fmt.Errorf("save %s: %w", sec.key, err)
		}
	}

	return nil
}

// Set updates a single setting by its dotted key.
func (s *SettingsService) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, k := range settableKeys {
		if k.name != key {
			continue
		}
		parsed, err := k.parse(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return s.configStore.Set(key, parsed)
	}
	return fmt.Errorf("%w: %s", domain.ErrConfigNotFound, key)
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settableKeys))
	for i, k := range settableKeys {
		keys[i] = k.name
	}
	return keys
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !isOneOf(provider, domain.AllEmbeddingProviders()) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if apiKey == "" {
		apiKey = s.getenv(providerEnv(provider))
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider. AIProviderNone disables it.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if provider != domain.AIProviderNone && !isOneOf(provider, domain.AllLLMProviders()) {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if apiKey == "" {
		apiKey = s.getenv(providerEnv(provider))
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks if current settings are usable for an analysis.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("%w: %s needs an API key (set %s or %s)",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider, keyEmbedAPIKey, providerEnv(settings.Embedding.Provider)))
	}
	if t := settings.Analysis.Threshold; t <= 0 || t > 1 {
		errs = append(errs, fmt.Errorf("%s must be in (0, 1], got %g", keyThreshold, t))
	}
	if settings.Cache.Backend == domain.CacheBackendRedis && settings.Cache.RedisURL == "" {
		errs = append(errs, fmt.Errorf("cache backend redis requires %s or %s", keyCacheRedisURL, EnvRedisURL))
	}
	if settings.Storage.Backend == domain.StorageBackendPostgres && settings.Storage.DSN == "" {
		errs = append(errs, fmt.Errorf("storage backend postgres requires %s or %s", keyStorageDSN, EnvDatabaseURL))
	}
	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// GetPipelineConfig returns the chunk pipeline configuration. The chunker's
// size follows analysis.chunk_size.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	cfg := domain.DefaultPipelineConfig()

	if processors := s.configStore.GetStringSlice(keyPipelineProcessor); len(processors) > 0 {
		cfg.Processors = processors
	}
	if size := s.configStore.GetInt(keyChunkSize); size > 0 {
		chunker := cfg.ProcessorConfigs["chunker"]
		if chunker == nil {
			chunker = make(map[string]any)
		}
		chunker["chunk_size"] = size
		cfg.ProcessorConfigs["chunker"] = chunker
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSecret(key, env string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	if env == "" {
		return ""
	}
	return s.getenv(env)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider, allowNone bool) domain.AIProvider {
	val := domain.AIProvider(s.configStore.GetString(key))
	if allowNone && val == domain.AIProviderNone {
		return val
	}
	if !val.IsValid() {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getCacheBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	val := domain.CacheBackend(s.configStore.GetString(keyCacheBackend))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStorageBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}

// providerEnv returns the environment variable holding provider's API key.
func providerEnv(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderOpenAI, domain.AIProviderLangChain:
		return EnvOpenAIKey
	case domain.AIProviderAnthropic:
		return EnvAnthropicKey
	case domain.AIProviderGemini:
		return EnvGeminiKey
	default:
		return ""
	}
}

// baseURLFor keeps a custom base URL for local and OpenAI-compatible
// providers and clears it for the hosted ones.
func baseURLFor(p domain.AIProvider, current string) string {
	switch {
	case p.IsLocal() && current == "":
		return defaultOllamaURL
	case p.IsLocal(), p == domain.AIProviderLangChain:
		return current
	default:
		return ""
	}
}

func isOneOf(p domain.AIProvider, list []domain.AIProvider) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

func parseText(v string) (any, error) {
	return v, nil
}

func parsePositiveInt(v string) (any, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%w: want a positive integer, got %q", domain.ErrInvalidInput, v)
	}
	return n, nil
}

func parseThreshold(v string) (any, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || f > 1 {
		return nil, fmt.Errorf("%w: want a number in (0, 1], got %q", domain.ErrInvalidInput, v)
	}
	return f, nil
}

func parseEmbeddingProvider(v string) (any, error) {
	p := domain.AIProvider(strings.ToLower(v))
	if !isOneOf(p, domain.AllEmbeddingProviders()) {
		return nil, fmt.Errorf("%w: %q does not support embeddings", domain.ErrUnsupportedProvider, v)
	}
	return string(p), nil
}

func parseLLMProvider(v string) (any, error) {
	p := domain.AIProvider(strings.ToLower(v))
	if p != domain.AIProviderNone && !isOneOf(p, domain.AllLLMProviders()) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, v)
	}
	return string(p), nil
}

func parseCacheBackend(v string) (any, error) {
	b := domain.CacheBackend(strings.ToLower(v))
	if !b.IsValid() {
		return nil, fmt.Errorf("%w: cache backend %q", domain.ErrUnsupportedProvider, v)
	}
	return string(b), nil
}

func parseStorageBackend(v string) (any, error) {
	b := domain.StorageBackend(strings.ToLower(v))
	if !b.IsValid() {
		return nil, fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedProvider, v)
	}
	return string(b), nil
}
