package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/core/ports/driving"
	"github.com/custodia-labs/topicgap/internal/core/scoring"
	"github.com/custodia-labs/topicgap/internal/core/topic"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisConfig holds the collaborators of an AnalysisService.
// Embedding and Chunks are required for any analysis; Scraper is required
// for Analyze. Everything else is optional.
type AnalysisConfig struct {
	Scraper   driven.Scraper
	Embedding driven.EmbeddingService
	Chunks    driven.PostProcessorPipeline

	// LLM enables topic, query and recommendation generation.
	LLM driven.LLMService

	// Search enables competitor discovery.
	Search driven.SearchProvider

	// Reports persists results when set.
	Reports driven.ReportStore

	Prompts  driven.PromptStore
	Settings domain.AnalysisSettings

	// Sleep, Now and NewID default to real time and random UUIDs.
	Sleep SleepFunc
	Now   func() time.Time
	NewID func() string
}

// AnalysisService runs the scrape, score and compare pipeline.
type AnalysisService struct {
	scraper     driven.Scraper
	embedding   driven.EmbeddingService
	detector    *topic.Detector
	analyzer    *SimilarityAnalyzer
	queries     *QueryGenerator
	finder      *CompetitorFinder
	recommender *Recommender
	gaps        *scoring.GapIdentifier
	reports     driven.ReportStore
	settings    domain.AnalysisSettings
	scrapes     batcher
	now         func() time.Time
	newID       func() string
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(cfg AnalysisConfig) *AnalysisService {
	s := &AnalysisService{
		scraper:     cfg.Scraper,
		embedding:   cfg.Embedding,
		detector:    topic.NewDetector(topic.Config{LLM: cfg.LLM, Prompts: cfg.Prompts}),
		analyzer:    NewSimilarityAnalyzer(NewEmbedder(cfg.Embedding), cfg.Chunks, nil, cfg.Sleep),
		queries:     NewQueryGenerator(cfg.Settings.MaxQueries, DefaultQueryStrategies(cfg.LLM, cfg.Prompts)...),
		recommender: NewRecommender(cfg.LLM, cfg.Prompts),
		gaps:        scoring.NewGapIdentifier(nil),
		reports:     cfg.Reports,
		settings:    cfg.Settings,
		scrapes:     newBatcher(ScrapeBatchSize, ScrapeBatchDelay, cfg.Sleep),
		now:         cfg.Now,
		newID:       cfg.NewID,
	}
	if cfg.Search != nil {
		s.finder = NewCompetitorFinder(cfg.Search, cfg.Settings.MaxCompetitors)
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Analyze scrapes the request's pages and runs a full analysis.
func (s *AnalysisService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	if _, err := domain.ValidatePageURL(req.TargetURL); err != nil {
		return nil, err
	}
	if s.scraper == nil {
		return nil, domain.ErrScraperUnavailable
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	logger.Section("Analysis")
	started := s.now()

	logger.Info("Scraping target %s", req.TargetURL)
	target, err := s.scraper.Scrape(ctx, req.TargetURL)
	if err != nil {
		return nil, fmt.Errorf("scrape target: %w", err)
	}

	pt := s.detector.DetectSafe(ctx, target)
	logger.Info("Primary topic: %s (%s, %.2f)", pt.Entity, pt.EntityType, pt.Confidence)

	queries := NormaliseQueries(req.Queries, 0)
	if len(queries) == 0 {
		if queries, err = s.queries.Generate(ctx, target, pt); err != nil {
			return nil, err
		}
	}

	urls := s.competitorURLs(ctx, req, pt)
	competitors := s.scrapeCompetitors(ctx, urls)

	return s.run(ctx, runInput{
		target:      target,
		competitors: competitors,
		queries:     queries,
		threshold:   req.Threshold,
		topic:       pt,
		started:     started,
	})
}

// AnalyzeDocuments runs the analysis over already scraped documents.
// Nil competitor documents are ignored.
func (s *AnalysisService) AnalyzeDocuments(
	ctx context.Context,
	target *domain.ScrapedDocument,
	competitors []*domain.ScrapedDocument,
	queries []string,
) (*domain.AnalysisResult, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: target document is nil", domain.ErrInvalidInput)
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	queries = NormaliseQueries(queries, 0)
	if len(queries) == 0 {
		return nil, domain.ErrNoQueries
	}

	var docs []*domain.ScrapedDocument
	for _, c := range competitors {
		if c != nil {
			docs = append(docs, c)
		}
	}

	return s.run(ctx, runInput{
		target:      target,
		competitors: docs,
		queries:     queries,
		started:     s.now(),
	})
}

func (s *AnalysisService) ready() error {
	if s.embedding == nil {
		return domain.ErrEmbeddingUnavailable
	}
	if s.analyzer.chunks == nil {
		return fmt.Errorf("%w: no chunk pipeline configured", domain.ErrInvalidInput)
	}
	return nil
}

type runInput struct {
	target      *domain.ScrapedDocument
	competitors []*domain.ScrapedDocument
	queries     []string
	threshold   float64
	topic       *domain.PrimaryTopic
	started     time.Time
}

// inQueryOrder returns a copy of matches ordered as queries were given.
// The analyzer ranks matches by similarity; gap reports list missing
// queries in the caller's order.
func inQueryOrder(matches []domain.QueryMatch, queries []string) []domain.QueryMatch {
	pos := make(map[string]int, len(queries))
	for i, q := range queries {
		if _, ok := pos[q]; !ok {
			pos[q] = i
		}
	}
	ordered := slices.Clone(matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return pos[ordered[i].Query] < pos[ordered[j].Query]
	})
	return ordered
}

func (s *AnalysisService) run(ctx context.Context, in runInput) (*domain.AnalysisResult, error) {
	threshold := in.threshold
	if threshold <= 0 {
		threshold = s.settings.Threshold
	}

	matches, err := s.analyzer.Analyze(ctx, in.target, in.queries, threshold)
	if err != nil {
		return nil, fmt.Errorf("analyze target: %w", err)
	}
	scores := scoring.AggregateCategoryScores(matches)
	if len(scores) == 0 {
		return nil, domain.ErrNoCategories
	}
	targetScore := scoring.OverallScore(matches)
	logger.Info("Target score: %d/100 over %d categories", targetScore, len(scores))

	competitors := make([]domain.CompetitorResult, 0, len(in.competitors))
	for _, doc := range in.competitors {
		cm, err := s.analyzer.Analyze(ctx, doc, in.queries, threshold)
		if err != nil {
			var dim *domain.DimensionMismatchError
			if errors.As(err, &dim) || ctx.Err() != nil {
				return nil, fmt.Errorf("analyze competitor %s: %w", doc.URL, err)
			}
			logger.Warn("Dropping competitor %s: %v", doc.URL, err)
			continue
		}
		competitors = append(competitors, domain.CompetitorResult{
			URL:            doc.URL,
			Title:          doc.Title,
			OverallScore:   scoring.OverallScore(cm),
			CategoryScores: scoring.AggregateCategoryScores(cm),
			Matches:        cm,
		})
	}

	gaps := s.gaps.Identify(scores, competitors, inQueryOrder(matches, in.queries))
	if gaps == nil {
		gaps = []domain.CoverageGap{}
	}

	pt := in.topic
	if pt == nil {
		pt = s.detector.DetectSafe(ctx, in.target)
	}

	result := &domain.AnalysisResult{
		ID:              s.newID(),
		TargetURL:       in.target.URL,
		TargetTitle:     in.target.Title,
		TargetScore:     targetScore,
		TargetMatches:   matches,
		CategoryScores:  scores,
		Competitors:     competitors,
		Gaps:            gaps,
		Recommendations: s.recommender.Recommend(ctx, in.target.URL, targetScore, gaps, scores),
		PrimaryTopic:    pt,
		Queries:         in.queries,
		StartedAt:       in.started,
		CompletedAt:     s.now(),
	}

	if s.reports != nil {
		if err := s.reports.Save(ctx, result); err != nil {
			logger.Warn("Failed to save report %s: %v", result.ID, err)
		}
	}
	return result, nil
}

// competitorURLs returns the request's competitors, or discovered ones when
// none were given and discovery is enabled.
func (s *AnalysisService) competitorURLs(ctx context.Context, req domain.AnalysisRequest, pt *domain.PrimaryTopic) []string {
	urls := make([]string, 0, len(req.CompetitorURLs))
	seen := map[string]bool{strings.TrimSpace(req.TargetURL): true}
	for _, u := range req.CompetitorURLs {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	if len(urls) > 0 || !req.Discover {
		return urls
	}

	if s.finder == nil {
		logger.Warn("Competitor discovery requested but no search provider is configured")
		return nil
	}
	found, err := s.finder.Find(ctx, req.TargetURL, pt)
	if err != nil {
		logger.Warn("Competitor discovery failed: %v", err)
		return nil
	}
	return found
}

// scrapeCompetitors scrapes urls in throttled batches, dropping failures.
func (s *AnalysisService) scrapeCompetitors(ctx context.Context, urls []string) []*domain.ScrapedDocument {
	if len(urls) == 0 {
		return nil
	}
	docs := make([]*domain.ScrapedDocument, len(urls))
	err := s.scrapes.run(ctx, len(urls), func(ctx context.Context, i int) error {
		if _, err := domain.ValidatePageURL(urls[i]); err != nil {
			logger.Warn("Skipping competitor: %v", err)
			return nil
		}
		doc, err := s.scraper.Scrape(ctx, urls[i])
		if err != nil {
			logger.Warn("Dropping competitor %s: %v", urls[i], err)
			return nil
		}
		docs[i] = doc
		return nil
	})
	if err != nil {
		logger.Warn("Competitor scraping stopped: %v", err)
	}

	out := make([]*domain.ScrapedDocument, 0, len(docs))
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	logger.Info("Scraped %d of %d competitors", len(out), len(urls))
	return out
}
