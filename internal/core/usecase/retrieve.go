package usecase

import (
	"context"
	"fmt"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
	"github.com/sitebrain/vectorsearch/internal/core/ports"
)

// hybridRetriever runs both retrieval stages for an already embedded query
// and fuses their rankings.
type hybridRetriever struct {
	repo      ports.ContentRepository
	sanitizer ports.TextSanitizer

	keywordCandidates int
}

func (r *hybridRetriever) Retrieve(ctx context.Context, query string, queryVector []float64) ([]domain.FusedResult, error) {
	docs, err := r.repo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published documents: %w", err)
	}
	semantic := scanSemantic(queryVector, docs, r.sanitizer)

	keyword, err := r.repo.SearchKeyword(ctx, query, r.keywordCandidates)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	return fuseRRF(semantic, keyword), nil
}
