package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
)

type settingsFake struct {
	key string
}

func (f *settingsFake) APIKey(context.Context) (string, error)  { return f.key, nil }
func (f *settingsFake) SetAPIKey(context.Context, string) error { return errors.New("not implemented") }

func TestEmbedQuerySendsQueryTaskType(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "text-embed:embedContent") {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("key"); got != "secret" {
			t.Errorf("expected credential in query string, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"embedding":{"values":[0.1,0.2,0.3]}}`))
	}))
	defer server.Close()

	client := New(server.URL, "text-embed", "gen", &settingsFake{key: "secret"}, nil)
	embedder := NewEmbedder(client)

	vector, err := embedder.EmbedQuery(context.Background(), "opening hours")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if len(vector) != 3 || vector[1] != 0.2 {
		t.Fatalf("unexpected vector %v", vector)
	}
	if captured["task_type"] != "RETRIEVAL_QUERY" {
		t.Fatalf("expected query task type, got %v", captured["task_type"])
	}
	if captured["model"] != "models/text-embed" {
		t.Fatalf("unexpected model %v", captured["model"])
	}
}

func TestEmbedDocumentTruncatesOversizedInput(t *testing.T) {
	var sent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		sent = payload.Content.Parts[0].Text
		_, _ = w.Write([]byte(`{"embedding":{"values":[0.5]}}`))
	}))
	defer server.Close()

	client := New(server.URL, "text-embed", "gen", &settingsFake{key: "secret"}, nil)
	embedder := NewEmbedder(client)

	oversized := strings.Repeat("é", maxEmbedChars+500)
	if _, err := embedder.EmbedDocument(context.Background(), oversized); err != nil {
		t.Fatalf("EmbedDocument() error = %v", err)
	}
	got := []rune(sent)
	if len(got) != maxEmbedChars {
		t.Fatalf("expected %d runes, got %d", maxEmbedChars, len(got))
	}
}

func TestEmbedRefusesWithoutCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request may be sent without a credential")
	}))
	defer server.Close()

	client := New(server.URL, "text-embed", "gen", &settingsFake{}, nil)
	embedder := NewEmbedder(client)

	_, err := embedder.EmbedQuery(context.Background(), "q")
	if !domain.IsKind(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestEmbedReportsMissingValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":{}}`))
	}))
	defer server.Close()

	client := New(server.URL, "text-embed", "gen", &settingsFake{key: "secret"}, nil)
	embedder := NewEmbedder(client)

	_, err := embedder.EmbedQuery(context.Background(), "q")
	if !domain.IsKind(err, domain.ErrEmbeddingFailed) {
		t.Fatalf("expected ErrEmbeddingFailed, got %v", err)
	}
}

func TestGenerateBuildsGroundedPrompt(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gen:generateContent") {
			http.NotFound(w, r)
			return
		}
		var payload struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
			GenerationConfig struct {
				Temperature     float64 `json:"temperature"`
				MaxOutputTokens int     `json:"maxOutputTokens"`
			} `json:"generationConfig"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		prompt = payload.Contents[0].Parts[0].Text
		if payload.GenerationConfig.MaxOutputTokens != 2048 {
			t.Errorf("unexpected token limit %d", payload.GenerationConfig.MaxOutputTokens)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  We open at nine.  "}]}}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "text-embed", "gen", &settingsFake{key: "secret"}, nil)
	gen := NewGenerator(client)

	answer, err := gen.Generate(context.Background(), "When do you open?", "=== Hours ===\nNine to five.\n\n")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if answer != "We open at nine." {
		t.Fatalf("unexpected answer %q", answer)
	}
	if !strings.Contains(prompt, "based ONLY on the context") {
		t.Fatalf("prompt missing grounding directive: %s", prompt)
	}
	if !strings.Contains(prompt, "=== Hours ===") || !strings.Contains(prompt, "Question: When do you open?") {
		t.Fatalf("prompt missing context or question: %s", prompt)
	}
	if !strings.HasSuffix(prompt, "Answer:") {
		t.Fatalf("prompt must end with the answer cue: %s", prompt)
	}
}

func TestGenerateMapsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "text-embed", "gen", &settingsFake{key: "secret"}, nil)
	gen := NewGenerator(client)

	_, err := gen.Generate(context.Background(), "q", "c")
	if !domain.IsKind(err, domain.ErrGenerationUnavailable) {
		t.Fatalf("expected ErrGenerationUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestGenerateMapsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := New(server.URL, "text-embed", "gen", &settingsFake{key: "secret"}, nil)
	gen := NewGenerator(client)

	_, err := gen.Generate(context.Background(), "q", "c")
	if !domain.IsKind(err, domain.ErrGenerationEmpty) {
		t.Fatalf("expected ErrGenerationEmpty, got %v", err)
	}
}
