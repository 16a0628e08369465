package domain

// ResultOrigin records which retrieval stage first surfaced a fused result.
type ResultOrigin string

const (
	OriginSemantic ResultOrigin = "semantic"
	OriginKeyword  ResultOrigin = "keyword"
)

type SemanticResult struct {
	DocumentID string  `json:"document_id"`
	Score      float64 `json:"score"`
	Title      string  `json:"title"`
	Excerpt    string  `json:"excerpt"`
}

// KeywordResult carries the host full-text ranking. Rank is 1-based, in the
// order the search backend returned it.
type KeywordResult struct {
	DocumentID string `json:"document_id"`
	Rank       int    `json:"rank"`
	Title      string `json:"title"`
	Excerpt    string `json:"excerpt"`
}

type FusedResult struct {
	DocumentID string       `json:"document_id"`
	Score      float64      `json:"score"`
	Origin     ResultOrigin `json:"origin"`
	Title      string       `json:"title"`
	Excerpt    string       `json:"excerpt"`
}

// Source is one citation record shown next to a search answer.
type Source struct {
	Title     string      `json:"title"`
	Permalink string      `json:"permalink"`
	Type      ContentType `json:"type"`
}

type SearchResult struct {
	Answer           string   `json:"answer"`
	Sources          []Source `json:"sources"`
	NoResults        bool     `json:"no_results"`
	GenerationFailed bool     `json:"-"`
}

type ChatReply struct {
	SessionID        string `json:"session_id"`
	Message          string `json:"message"`
	GenerationFailed bool   `json:"-"`
}

// User-facing fixed strings. The generator failure strings are presentation
// only: inside the module those states stay typed errors (see errors.go).
const (
	NoInformationMessage         = "I couldn't find any relevant information in the website content to answer your question."
	EmbeddingFailedMessage       = "Error: Could not generate vector."
	GenerationUnavailableMessage = "Error: Could not generate answer."
	GenerationEmptyMessage       = "Error: No response from AI."
)
