package bootstrap

import (
	"context"
	"fmt"

	"github.com/sitebrain/vectorsearch/internal/config"
	"github.com/sitebrain/vectorsearch/internal/core/ports"
	"github.com/sitebrain/vectorsearch/internal/core/usecase"
	"github.com/sitebrain/vectorsearch/internal/infrastructure/llm/gemini"
	"github.com/sitebrain/vectorsearch/internal/infrastructure/markup"
	"github.com/sitebrain/vectorsearch/internal/infrastructure/queue/nats"
	"github.com/sitebrain/vectorsearch/internal/infrastructure/repository/postgres"
	"github.com/sitebrain/vectorsearch/internal/infrastructure/resilience"
	sessionmemory "github.com/sitebrain/vectorsearch/internal/infrastructure/session/memory"
)

type App struct {
	Config config.Config

	Queue    ports.MessageQueue
	Repo     ports.ContentRepository
	Settings ports.SettingsStore

	SearchUC  ports.SearchService
	ChatUC    ports.ChatService
	ContentUC ports.ContentWriter
	IndexUC   ports.ContentIndexer

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	repo := postgres.NewContentRepository(db)
	settings := postgres.NewSettingsRepository(db)

	var sessions ports.SessionStore
	if cfg.SessionBackend == "memory" {
		sessions = sessionmemory.New()
	} else {
		sessions = postgres.NewSessionRepository(db)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	geminiClient := gemini.New(cfg.GeminiBaseURL, cfg.GeminiEmbedModel, cfg.GeminiGenModel, settings, executor)
	embedder := gemini.NewEmbedder(geminiClient)
	generator := gemini.NewGenerator(geminiClient)

	sanitizer := markup.New()

	searchUC := usecase.NewSearchUseCase(embedder, repo, sanitizer, generator, cfg.KeywordCandidates)
	chatUC := usecase.NewChatUseCase(sessions, embedder, repo, sanitizer, generator, cfg.KeywordCandidates)
	contentUC := usecase.NewContentUseCase(repo, queue)
	indexUC := usecase.NewIndexUseCase(settings, repo, sanitizer, embedder)

	return &App{
		Config:   cfg,
		Queue:    queue,
		Repo:     repo,
		Settings: settings,

		SearchUC:  searchUC,
		ChatUC:    chatUC,
		ContentUC: contentUC,
		IndexUC:   indexUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
