package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
	"github.com/sitebrain/vectorsearch/internal/core/ports"
	"github.com/sitebrain/vectorsearch/internal/infrastructure/resilience"
)

const (
	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"

	// Input beyond this many runes is cut before the embed call.
	maxEmbedChars = 9000
)

// Client talks to the Generative Language API. The credential is read from
// the settings store on every call, so rotating the key needs no restart.
type Client struct {
	baseURL    string
	embedModel string
	genModel   string
	settings   ports.SettingsStore
	executor   *resilience.Executor

	embedHTTP *http.Client
	genHTTP   *http.Client
}

func New(baseURL, embedModel, genModel string, settings ports.SettingsStore, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		embedModel: embedModel,
		genModel:   genModel,
		settings:   settings,
		executor:   executor,
		embedHTTP:  &http.Client{Timeout: 15 * time.Second},
		genHTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) apiKey(ctx context.Context, operation string) (string, error) {
	key, err := c.settings.APIKey(ctx)
	if err != nil {
		return "", fmt.Errorf("load api credential: %w", err)
	}
	if key == "" {
		return "", domain.WrapError(domain.ErrNotConfigured, operation, errors.New("no api key found"))
	}
	return key, nil
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) EmbedDocument(ctx context.Context, text string) ([]float64, error) {
	return e.client.embed(ctx, text, taskTypeDocument)
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	return e.client.embed(ctx, text, taskTypeQuery)
}

func (c *Client) embed(ctx context.Context, text, taskType string) ([]float64, error) {
	const operation = "embed"

	key, err := c.apiKey(ctx, operation)
	if err != nil {
		return nil, err
	}

	request := map[string]any{
		"model": "models/" + c.embedModel,
		"content": map[string]any{
			"parts": []map[string]any{{"text": truncateRunes(text, maxEmbedChars)}},
		},
		"task_type": taskType,
	}

	var response struct {
		Embedding struct {
			Values []float64 `json:"values"`
		} `json:"embedding"`
	}
	err = c.execute(ctx, operation, func(ctx context.Context) error {
		return c.postJSON(ctx, c.embedHTTP, c.embedModel, "embedContent", key, request, &response, operation)
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbeddingFailed, operation, err)
	}
	if len(response.Embedding.Values) == 0 {
		return nil, domain.WrapError(domain.ErrEmbeddingFailed, operation, errors.New("response carried no embedding values"))
	}
	return response.Embedding.Values, nil
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, query, docContext string) (string, error) {
	const operation = "generate"

	key, err := g.client.apiKey(ctx, operation)
	if err != nil {
		return "", err
	}

	request := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": buildGroundedPrompt(query, docContext)}}},
		},
		"generationConfig": map[string]any{
			"temperature":     0.7,
			"maxOutputTokens": 2048,
		},
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	err = g.client.execute(ctx, operation, func(ctx context.Context) error {
		return g.client.postJSON(ctx, g.client.genHTTP, g.client.genModel, "generateContent", key, request, &response, operation)
	})
	if err != nil {
		return "", domain.WrapError(domain.ErrGenerationUnavailable, operation, err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", domain.WrapError(domain.ErrGenerationEmpty, operation, errors.New("response carried no candidates"))
	}
	answer := strings.TrimSpace(response.Candidates[0].Content.Parts[0].Text)
	if answer == "" {
		return "", domain.WrapError(domain.ErrGenerationEmpty, operation, errors.New("candidate text is empty"))
	}
	return answer, nil
}

func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return fn(ctx)
	}
	return c.executor.Execute(ctx, operation, fn, classifyGeminiError)
}

func truncateRunes(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
