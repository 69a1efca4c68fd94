package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/core/scoring"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// contextLength is the number of characters of the best chunk kept as
// a match's context.
const contextLength = 200

// SimilarityAnalyzer scores how well a document answers a set of queries.
type SimilarityAnalyzer struct {
	embedder    *Embedder
	chunks      driven.PostProcessorPipeline
	categorizer *scoring.Categorizer
	batch       batcher
}

// NewSimilarityAnalyzer creates an analyzer. A nil categorizer uses the
// default category rules; a nil sleep uses real time.
func NewSimilarityAnalyzer(
	embedder *Embedder,
	chunks driven.PostProcessorPipeline,
	categorizer *scoring.Categorizer,
	sleep SleepFunc,
) *SimilarityAnalyzer {
	if categorizer == nil {
		categorizer = scoring.NewCategorizer(nil)
	}
	return &SimilarityAnalyzer{
		embedder:    embedder,
		chunks:      chunks,
		categorizer: categorizer,
		batch:       newBatcher(QueryBatchSize, QueryBatchDelay, sleep),
	}
}

type chunkVector struct {
	chunk  domain.ContentChunk
	vector domain.EmbeddingVector
}

// Analyze returns one QueryMatch per query, most similar first.
//
// Chunks that fail to embed are skipped. A query that fails to embed is
// recorded as an unmatched General query with zero similarity. The call
// fails when the document has no chunks, no chunk could be embedded, or
// vectors of different dimensions are compared.
func (a *SimilarityAnalyzer) Analyze(
	ctx context.Context,
	doc *domain.ScrapedDocument,
	queries []string,
	threshold float64,
) ([]domain.QueryMatch, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}
	if threshold <= 0 {
		threshold = domain.DefaultSimilarityThreshold
	}

	chunks, err := a.chunks.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", doc.URL, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", doc.URL, domain.ErrNoContent)
	}
	logger.Debug("Analyzing %s: %d chunks, %d queries", doc.URL, len(chunks), len(queries))

	vectors, err := a.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%s: %w", doc.URL, domain.ErrNoEmbeddings)
	}

	matches := make([]domain.QueryMatch, len(queries))
	err = a.batch.run(ctx, len(queries), func(ctx context.Context, i int) error {
		m, err := a.match(ctx, queries[i], vectors, threshold)
		if err != nil {
			return err
		}
		matches[i] = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches, nil
}

// embedChunks embeds every chunk, keeping chunk order and dropping failures.
func (a *SimilarityAnalyzer) embedChunks(ctx context.Context, chunks []domain.ContentChunk) ([]chunkVector, error) {
	results := make([]*chunkVector, len(chunks))
	err := a.batch.run(ctx, len(chunks), func(ctx context.Context, i int) error {
		v, err := a.embedder.Embed(ctx, chunks[i].Content)
		if err != nil {
			logger.Warn("Skipping chunk %d: %v", chunks[i].Index, err)
			return nil
		}
		results[i] = &chunkVector{chunk: chunks[i], vector: v}
		return nil
	})
	if err != nil {
		return nil, err
	}

	vectors := make([]chunkVector, 0, len(results))
	for _, r := range results {
		if r != nil {
			vectors = append(vectors, *r)
		}
	}
	return vectors, nil
}

// match scores one query against the embedded chunks. Only a dimension
// mismatch is returned as an error.
func (a *SimilarityAnalyzer) match(
	ctx context.Context,
	query string,
	vectors []chunkVector,
	threshold float64,
) (domain.QueryMatch, error) {
	qv, err := a.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query %q failed to embed: %v", query, err)
		return domain.QueryMatch{
			Query:          query,
			Category:       domain.CategoryGeneral,
			BestChunkIndex: -1,
		}, nil
	}

	best, bestIdx := 0.0, -1
	for i, cv := range vectors {
		sim, err := scoring.CosineSimilarity(qv.Values, cv.vector.Values)
		if err != nil {
			var dim *domain.DimensionMismatchError
			if errors.As(err, &dim) {
				logger.Error("Embedding dimensions disagree for query %q: %v", query, err)
			}
			return domain.QueryMatch{}, err
		}
		if bestIdx < 0 || sim > best {
			best, bestIdx = sim, i
		}
	}

	// Similarity is reported in [0, 1].
	best = max(best, 0)

	m := domain.QueryMatch{
		Query:          query,
		Similarity:     best,
		Category:       a.categorizer.Categorize(query),
		Matched:        best >= threshold,
		BestChunkIndex: -1,
	}
	if bestIdx >= 0 {
		m.BestChunkIndex = vectors[bestIdx].chunk.Index
		m.Context = strings.TrimSpace(truncate(vectors[bestIdx].chunk.Content, contextLength))
	}
	return m, nil
}
