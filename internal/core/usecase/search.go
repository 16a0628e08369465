package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
	"github.com/sitebrain/vectorsearch/internal/core/ports"
)

type SearchUseCase struct {
	embedder  ports.Embedder
	generator ports.AnswerGenerator
	retriever hybridRetriever
	assembler contextAssembler
}

func NewSearchUseCase(
	embedder ports.Embedder,
	repo ports.ContentRepository,
	sanitizer ports.TextSanitizer,
	generator ports.AnswerGenerator,
	keywordCandidates int,
) *SearchUseCase {
	if keywordCandidates <= 0 {
		keywordCandidates = 20
	}
	return &SearchUseCase{
		embedder:  embedder,
		generator: generator,
		retriever: hybridRetriever{
			repo:              repo,
			sanitizer:         sanitizer,
			keywordCandidates: keywordCandidates,
		},
		assembler: contextAssembler{repo: repo, sanitizer: sanitizer},
	}
}

// Search answers a free-text query from the corpus: embed the query, scan
// stored vectors, run keyword search, fuse both rankings and ground the
// generator on the top fused documents. An empty fused ranking is a defined
// terminal state; the generator is never invoked for it.
func (uc *SearchUseCase) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search", errors.New("query is required"))
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	fused, err := uc.retriever.Retrieve(ctx, query, queryVector)
	if err != nil {
		return nil, err
	}
	if len(fused) == 0 {
		return &domain.SearchResult{NoResults: true}, nil
	}

	contextText, sources, err := uc.assembler.Build(ctx, fused, searchContextLimit)
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	answer, genErr := uc.generator.Generate(ctx, query, contextText)
	if genErr != nil {
		return &domain.SearchResult{
			Answer:           answerForGenerationError(genErr),
			Sources:          sources,
			GenerationFailed: true,
		}, nil
	}

	return &domain.SearchResult{Answer: answer, Sources: sources}, nil
}

// answerForGenerationError flattens a typed generation failure to the fixed
// user-facing string; the always-respond policy shows it as the answer.
func answerForGenerationError(err error) string {
	if domain.IsKind(err, domain.ErrGenerationEmpty) {
		return domain.GenerationEmptyMessage
	}
	return domain.GenerationUnavailableMessage
}
