package vector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"mizan/internal/constants"
)

var ErrEmptyQuery = errors.New("empty query")

type Searcher interface {
	Search(ctx context.Context, embedding []float32, limit uint64) ([]constants.HadithEmbeddingResponse, error)
}

type HadithFinder interface {
	FindHadith(ctx context.Context, ref constants.HadithRef) (constants.HadithMatch, bool)
}

// SemanticMatch - a hadith found by meaning rather than by substring
type SemanticMatch struct {
	constants.HadithMatch
	Score float32 `json:"score"`
}

// Semantic - Similarity search: embed the query, ask the vector db, then resolve hits against the volumes
type Semantic struct {
	embedder Embedder
	searcher Searcher
	finder   HadithFinder
	logger   *zap.Logger
}

func NewSemantic(embedder Embedder, searcher Searcher, finder HadithFinder, logger *zap.Logger) *Semantic {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Semantic{embedder: embedder, searcher: searcher, finder: finder, logger: logger}
}

// Search - Best matches first. Hits that no longer exist in the volumes are dropped.
func (s *Semantic) Search(ctx context.Context, query string, limit uint64) ([]SemanticMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	hits, err := s.searcher.Search(ctx, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("searching vector db: %w", err)
	}

	matches := make([]SemanticMatch, 0, len(hits))
	for _, hit := range hits {
		match, ok := s.finder.FindHadith(ctx, hit.HadithRef)
		if !ok {
			s.logger.Debug("Vector hit not found in volumes", zap.Any("ref", hit.HadithRef))
			continue
		}
		matches = append(matches, SemanticMatch{HadithMatch: match, Score: hit.Score})
	}
	return matches, nil
}
