package usecase

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
	"github.com/sitebrain/vectorsearch/internal/core/ports"
)

// relevanceThreshold separates relevant documents from noise: anything at or
// below it is discarded, not merely ranked lower.
const relevanceThreshold = 0.55

const excerptWordLimit = 15

// scanSemantic walks every indexed document, scores its stored vector
// against the query vector and returns the retained hits ranked by
// descending similarity. Documents without a stored vector, or whose stored
// vector does not decode as a numeric sequence, are skipped; one bad record
// never aborts the scan.
func scanSemantic(queryVector []float64, docs []domain.Document, sanitizer ports.TextSanitizer) []domain.SemanticResult {
	out := make([]domain.SemanticResult, 0, len(docs))
	for _, doc := range docs {
		if doc.Embedding == "" {
			continue
		}
		var stored []float64
		if err := json.Unmarshal([]byte(doc.Embedding), &stored); err != nil {
			continue
		}

		score := cosineSimilarity(queryVector, stored)
		if score <= relevanceThreshold {
			continue
		}
		out = append(out, domain.SemanticResult{
			DocumentID: doc.ID,
			Score:      score,
			Title:      doc.Title,
			Excerpt:    excerptWords(sanitizer.Strip(doc.Body), excerptWordLimit),
		})
	}

	// Stable: equal scores keep corpus retrieval order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func excerptWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ") + "…"
}
