// Package app builds the core services from settings. It is the only
// package that knows about every adapter.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/custodia-labs/topicgap/internal/adapters/driven/ai"
	memorycache "github.com/custodia-labs/topicgap/internal/adapters/driven/cache/memory"
	"github.com/custodia-labs/topicgap/internal/adapters/driven/cache/noop"
	rediscache "github.com/custodia-labs/topicgap/internal/adapters/driven/cache/redis"
	"github.com/custodia-labs/topicgap/internal/adapters/driven/config/file"
	cachedembed "github.com/custodia-labs/topicgap/internal/adapters/driven/embedding/cached"
	cachedscraper "github.com/custodia-labs/topicgap/internal/adapters/driven/scraper/cached"
	"github.com/custodia-labs/topicgap/internal/adapters/driven/scraper/chain"
	"github.com/custodia-labs/topicgap/internal/adapters/driven/scraper/fetch"
	"github.com/custodia-labs/topicgap/internal/adapters/driven/scraper/firecrawl"
	"github.com/custodia-labs/topicgap/internal/adapters/driven/search/serpapi"
	memorystore "github.com/custodia-labs/topicgap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/topicgap/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/topicgap/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/core/services"
	"github.com/custodia-labs/topicgap/internal/logger"
	"github.com/custodia-labs/topicgap/internal/postprocessors"
)

// Options configures New.
type Options struct {
	// ConfigDir holds config.toml, prompts/ and data/.
	// Empty means ~/.topicgap.
	ConfigDir string

	// ConfigStore overrides the file-backed config store.
	ConfigStore driven.ConfigStore

	// Getenv overrides the environment lookup for API key fallbacks.
	Getenv func(string) string

	// Now is the clock handed to caches and services. Defaults to time.Now.
	Now func() time.Time
}

// App holds the wired services and the resources behind them.
type App struct {
	Settings *services.SettingsService
	Topics   *services.TopicService
	Reports  *services.ReportService

	// Analysis is nil when no embedding provider is usable;
	// AnalysisErr then says why.
	Analysis    *services.AnalysisService
	AnalysisErr error

	// Warnings are non-fatal setup problems, such as a disabled LLM.
	Warnings []string

	closers []func() error
}

// New loads settings and wires every service. Only failures that leave
// the settings or reports unusable are returned; a missing embedding
// provider is reported through AnalysisErr so settings commands still work.
func New(ctx context.Context, opts Options) (*App, error) {
	dir := opts.ConfigDir
	if dir == "" {
		d, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	configStore := opts.ConfigStore
	if configStore == nil {
		fileStore, err := file.NewConfigStore(dir)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		configStore = fileStore
	}

	a := &App{Settings: services.NewSettingsService(configStore, ai.NewConfigValidator())}
	if opts.Getenv != nil {
		a.Settings.SetEnvLookup(opts.Getenv)
	}
	settings, err := a.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if err := a.build(ctx, dir, settings, now); err != nil {
		_ = a.Close() //nolint:errcheck // Already failing
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context, dir string, settings *domain.AppSettings, now func() time.Time) error {
	dataDir := filepath.Join(dir, "data")

	var db *sqlite.Store
	openSQLite := func() (*sqlite.Store, error) {
		if db != nil {
			return db, nil
		}
		s, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.closers = append(a.closers, s.Close)
		db = s
		return db, nil
	}

	reports, err := a.reportStore(ctx, settings.Storage, openSQLite)
	if err != nil {
		return err
	}
	a.Reports = services.NewReportService(reports)

	cache, err := a.cache(ctx, settings.Cache, openSQLite, now)
	if err != nil {
		// The cache is advisory, so analysis carries on without it.
		logger.Warn("cache %s unavailable, continuing without: %v", settings.Cache.Backend, err)
		a.Warnings = append(a.Warnings, fmt.Sprintf("cache disabled: %v", err))
		cache = noop.Cache{}
	}

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	pipeline, err := postprocessors.BuildPipeline(postprocessors.NewDefaultRegistry(), a.Settings.GetPipelineConfig())
	if err != nil {
		return err
	}

	scraper := cachedscraper.New(newScraper(settings.Scraper), cache, settings.Cache.TTL)

	search, err := newSearch(settings.WebSearch)
	if err != nil {
		a.Warnings = append(a.Warnings, fmt.Sprintf("competitor discovery disabled: %v", err))
	}

	aiResult, err := ai.Initialise(settings)
	if err != nil {
		a.AnalysisErr = err
		a.Topics = services.NewTopicService(scraper, nil, prompts)
		return nil
	}
	a.closers = append(a.closers, func() error {
		aiResult.Close()
		return nil
	})
	a.Warnings = append(a.Warnings, aiResult.Warnings...)

	analysis := services.AnalysisConfig{
		Scraper:   scraper,
		Embedding: cachedembed.New(aiResult.EmbeddingService, cache, settings.Cache.TTL),
		Chunks:    pipeline,
		LLM:       aiResult.LLMService,
		Reports:   reports,
		Prompts:   prompts,
		Search:    search,
		Settings:  settings.Analysis,
		Now:       func() time.Time { return now().UTC() },
	}
	a.Analysis = services.NewAnalysisService(analysis)
	a.Topics = services.NewTopicService(scraper, aiResult.LLMService, prompts)
	return nil
}

func (a *App) reportStore(
	ctx context.Context,
	cfg domain.StorageSettings,
	openSQLite func() (*sqlite.Store, error),
) (driven.ReportStore, error) {
	switch cfg.Backend {
	case domain.StorageBackendMemory:
		return memorystore.NewReportStore(), nil
	case domain.StorageBackendPostgres:
		store, err := postgres.Open(postgres.Config{DSN: cfg.DSN, Verbose: logger.IsVerbose()})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		if err := store.Init(ctx); err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return store, nil
	default:
		db, err := openSQLite()
		if err != nil {
			return nil, err
		}
		return db.ReportStore(), nil
	}
}

func (a *App) cache(
	ctx context.Context,
	cfg domain.CacheSettings,
	openSQLite func() (*sqlite.Store, error),
	now func() time.Time,
) (driven.Cache, error) {
	switch cfg.Backend {
	case domain.CacheBackendNone:
		return noop.Cache{}, nil
	case domain.CacheBackendRedis:
		c, err := rediscache.New(ctx, rediscache.Config{URL: cfg.RedisURL, TTL: cfg.TTL})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, c.Close)
		return c, nil
	case domain.CacheBackendSQLite:
		db, err := openSQLite()
		if err != nil {
			return nil, err
		}
		c := db.Cache(sqlite.CacheConfig{TTL: cfg.TTL, Now: now})
		if n, err := c.Purge(ctx); err == nil && n > 0 {
			logger.Debug("purged %d expired cache entries", n)
		}
		return c, nil
	default:
		c := memorycache.New(memorycache.Config{TTL: cfg.TTL, Now: now})
		c.Start()
		a.closers = append(a.closers, func() error {
			c.Stop()
			return nil
		})
		return c, nil
	}
}

// newScraper prefers Firecrawl when a key is configured and falls back
// to a plain HTTP fetch.
func newScraper(cfg domain.ScraperSettings) driven.Scraper {
	raw := fetch.New(fetch.Config{UserAgent: cfg.UserAgent, Timeout: cfg.Timeout})
	if cfg.FirecrawlAPIKey == "" {
		return raw
	}
	fc, err := firecrawl.New(firecrawl.Config{APIKey: cfg.FirecrawlAPIKey, BaseURL: cfg.FirecrawlBaseURL})
	if err != nil {
		logger.Warn("firecrawl disabled: %v", err)
		return raw
	}
	return chain.New(fc, raw)
}

// newSearch returns nil without error when search is not configured.
func newSearch(cfg domain.WebSearchSettings) (driven.SearchProvider, error) {
	if !cfg.IsConfigured() {
		return nil, nil
	}
	p, err := serpapi.New(serpapi.Config{APIKey: cfg.SerpAPIKey, BaseURL: cfg.BaseURL})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
