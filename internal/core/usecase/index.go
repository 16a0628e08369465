package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
	"github.com/sitebrain/vectorsearch/internal/core/ports"
)

type IndexUseCase struct {
	settings  ports.SettingsStore
	repo      ports.ContentRepository
	sanitizer ports.TextSanitizer
	embedder  ports.Embedder
}

func NewIndexUseCase(
	settings ports.SettingsStore,
	repo ports.ContentRepository,
	sanitizer ports.TextSanitizer,
	embedder ports.Embedder,
) *IndexUseCase {
	return &IndexUseCase{
		settings:  settings,
		repo:      repo,
		sanitizer: sanitizer,
		embedder:  embedder,
	}
}

// IndexAll embeds every published document and persists the vector as
// document metadata, reporting per-document progress through report. A
// failed document keeps its previous vector and does not stop the run; the
// returned count is the number of successes. Re-running overwrites all
// vectors, so an interrupted run is resumed by running again from the start.
func (uc *IndexUseCase) IndexAll(ctx context.Context, report func(ports.IndexProgress)) (int, error) {
	if report == nil {
		report = func(ports.IndexProgress) {}
	}

	key, err := uc.settings.APIKey(ctx)
	if err != nil {
		return 0, fmt.Errorf("load api credential: %w", err)
	}
	if key == "" {
		return 0, domain.WrapError(domain.ErrNotConfigured, "run indexer", errors.New("no api key found"))
	}

	docs, err := uc.repo.ListPublished(ctx)
	if err != nil {
		return 0, fmt.Errorf("list published documents: %w", err)
	}

	count := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if err := uc.indexOne(ctx, doc); err != nil {
			report(ports.IndexProgress{DocumentID: doc.ID, Title: doc.Title, Type: doc.Type, Err: err})
			continue
		}
		count++
		report(ports.IndexProgress{DocumentID: doc.ID, Title: doc.Title, Type: doc.Type})
	}
	return count, nil
}

func (uc *IndexUseCase) indexOne(ctx context.Context, doc domain.Document) error {
	text := uc.sanitizer.Strip(doc.Title + " " + doc.Body)

	vector, err := uc.embedder.EmbedDocument(ctx, text)
	if err != nil {
		return fmt.Errorf("embed document: %w", err)
	}

	serialized, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("serialize vector: %w", err)
	}
	if err := uc.repo.SaveEmbedding(ctx, doc.ID, string(serialized)); err != nil {
		return fmt.Errorf("persist vector: %w", err)
	}
	return nil
}
