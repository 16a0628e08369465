package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
	"github.com/sitebrain/vectorsearch/internal/core/ports"
)

type ChatUseCase struct {
	sessions  ports.SessionStore
	embedder  ports.Embedder
	generator ports.AnswerGenerator
	retriever hybridRetriever
	assembler contextAssembler
}

func NewChatUseCase(
	sessions ports.SessionStore,
	embedder ports.Embedder,
	repo ports.ContentRepository,
	sanitizer ports.TextSanitizer,
	generator ports.AnswerGenerator,
	keywordCandidates int,
) *ChatUseCase {
	if keywordCandidates <= 0 {
		keywordCandidates = 20
	}
	return &ChatUseCase{
		sessions:  sessions,
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

// Chat runs one conversational turn: record the user message, retrieve and
// fuse as in one-shot search, fold the bounded session history into the
// prompt ahead of the document context, and record the assistant reply.
// Both turns are persisted even when generation degrades to a fixed failure
// message, mirroring what the user saw.
func (uc *ChatUseCase) Chat(ctx context.Context, sessionID, message string) (*domain.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chat", errors.New("message is required"))
	}
	if strings.TrimSpace(sessionID) == "" {
		sessionID = uuid.NewString()
	}

	if err := uc.sessions.Append(ctx, sessionID, domain.ChatTurn{Role: domain.RoleUser, Message: message}); err != nil {
		return nil, fmt.Errorf("append user turn: %w", err)
	}
	history, err := uc.sessions.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session history: %w", err)
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("embed chat message: %w", err)
	}

	fused, err := uc.retriever.Retrieve(ctx, message, queryVector)
	if err != nil {
		return nil, err
	}
	if len(fused) == 0 {
		return uc.reply(ctx, sessionID, domain.NoInformationMessage, false)
	}

	docContext, _, err := uc.assembler.Build(ctx, fused, chatContextLimit)
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}
	fullContext := renderHistory(history) + "\n\nRelevant website content:\n" + docContext

	answer, genErr := uc.generator.Generate(ctx, message, fullContext)
	if genErr != nil {
		return uc.reply(ctx, sessionID, answerForGenerationError(genErr), true)
	}
	return uc.reply(ctx, sessionID, answer, false)
}

func (uc *ChatUseCase) reply(ctx context.Context, sessionID, answer string, failed bool) (*domain.ChatReply, error) {
	if err := uc.sessions.Append(ctx, sessionID, domain.ChatTurn{Role: domain.RoleAssistant, Message: answer}); err != nil {
		return nil, fmt.Errorf("append assistant turn: %w", err)
	}
	return &domain.ChatReply{
		SessionID:        sessionID,
		Message:          answer,
		GenerationFailed: failed,
	}, nil
}
