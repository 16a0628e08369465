package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
	"github.com/sitebrain/vectorsearch/internal/core/ports"
)

const (
	// Context caps bound prompt size. Chat uses the smaller cap because
	// conversation history shares the prompt budget.
	searchContextLimit = 5
	chatContextLimit   = 3
)

// contextAssembler turns a fused ranking into a bounded prompt context plus
// the parallel citation list. Documents that vanished between retrieval and
// assembly are skipped.
type contextAssembler struct {
	repo      ports.ContentRepository
	sanitizer ports.TextSanitizer
}

func (a *contextAssembler) Build(ctx context.Context, fused []domain.FusedResult, limit int) (string, []domain.Source, error) {
	if limit < len(fused) {
		fused = fused[:limit]
	}

	var b strings.Builder
	sources := make([]domain.Source, 0, len(fused))
	for _, result := range fused {
		doc, err := a.repo.GetByID(ctx, result.DocumentID)
		if err != nil {
			if domain.IsKind(err, domain.ErrDocumentNotFound) {
				continue
			}
			return "", nil, fmt.Errorf("load document %s: %w", result.DocumentID, err)
		}

		b.WriteString("=== ")
		b.WriteString(doc.Title)
		b.WriteString(" ===\n")
		b.WriteString(a.sanitizer.Strip(doc.Body))
		b.WriteString("\n\n")

		sources = append(sources, domain.Source{
			Title:     doc.Title,
			Permalink: doc.Permalink,
			Type:      doc.Type,
		})
	}
	return b.String(), sources, nil
}

// renderHistory renders chat turns as "role: message" lines in chronological
// order, for placement ahead of the document context.
func renderHistory(turns []domain.ChatTurn) string {
	var b strings.Builder
	for _, turn := range turns {
		b.WriteString(string(turn.Role))
		b.WriteString(": ")
		b.WriteString(turn.Message)
		b.WriteString("\n")
	}
	return b.String()
}
