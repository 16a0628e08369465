package usecase

import (
	"sort"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
)

// rrfK dampens the weight gap between adjacent ranks; 60 is the standard
// constant for reciprocal rank fusion.
const rrfK = 60

// fuseRRF merges a semantic ranking and a keyword ranking into one list.
// Each appearance at 0-based rank r contributes 1/(rrfK+r+1); a document in
// both lists accumulates both contributions, so consensus hits outrank
// single-source hits. RRF is rank-based, which lets it fuse cosine scores
// and text-search relevance without normalizing either scale.
//
// The semantic ranking is walked first, so when both stages surface the same
// document the semantic payload is kept. Ties keep first-insertion order.
func fuseRRF(semantic []domain.SemanticResult, keyword []domain.KeywordResult) []domain.FusedResult {
	type slot struct {
		result domain.FusedResult
		order  int
	}

	acc := make(map[string]*slot, len(semantic)+len(keyword))
	order := make([]string, 0, len(semantic)+len(keyword))

	for rank, r := range semantic {
		entry, ok := acc[r.DocumentID]
		if !ok {
			entry = &slot{
				result: domain.FusedResult{
					DocumentID: r.DocumentID,
					Origin:     domain.OriginSemantic,
					Title:      r.Title,
					Excerpt:    r.Excerpt,
				},
				order: len(order),
			}
			acc[r.DocumentID] = entry
			order = append(order, r.DocumentID)
		}
		entry.result.Score += 1.0 / float64(rrfK+rank+1)
	}

	for _, r := range keyword {
		entry, ok := acc[r.DocumentID]
		if !ok {
			entry = &slot{
				result: domain.FusedResult{
					DocumentID: r.DocumentID,
					Origin:     domain.OriginKeyword,
					Title:      r.Title,
					Excerpt:    r.Excerpt,
				},
				order: len(order),
			}
			acc[r.DocumentID] = entry
			order = append(order, r.DocumentID)
		}
		entry.result.Score += 1.0 / float64(rrfK+r.Rank)
	}

	out := make([]domain.FusedResult, 0, len(order))
	for _, id := range order {
		out = append(out, acc[id].result)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
