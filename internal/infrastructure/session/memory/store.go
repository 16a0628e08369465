package memory

import (
	"context"
	"sync"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
)

// Store keeps chat history in process memory. History is lost on restart,
// which suits single-instance deployments that run without a database-backed
// session table.
type Store struct {
	mu       sync.Mutex
	sessions map[string][]domain.ChatTurn
}

func New() *Store {
	return &Store{sessions: make(map[string][]domain.ChatTurn)}
}

func (s *Store) Append(_ context.Context, sessionID string, turn domain.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.sessions[sessionID], turn)
	if len(turns) > domain.HistoryLimit {
		turns = turns[len(turns)-domain.HistoryLimit:]
	}
	s.sessions[sessionID] = turns
	return nil
}

func (s *Store) History(_ context.Context, sessionID string) ([]domain.ChatTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.sessions[sessionID]
	out := make([]domain.ChatTurn, len(turns))
	copy(out, turns)
	return out, nil
}
