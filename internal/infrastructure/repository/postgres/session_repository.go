package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
)

// SessionRepository keeps per-session chat history in Postgres, pruned to
// the domain history cap on every append.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Append(ctx context.Context, sessionID string, turn domain.ChatTurn) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO chat_messages (session_id, role, message, created_at)
VALUES ($1,$2,$3,$4)
`, sessionID, string(turn.Role), turn.Message, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("append chat turn: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
DELETE FROM chat_messages
WHERE session_id = $1
  AND seq NOT IN (
	SELECT seq FROM chat_messages
	WHERE session_id = $1
	ORDER BY seq DESC
	LIMIT $2
  )
`, sessionID, domain.HistoryLimit)
	if err != nil {
		return fmt.Errorf("prune chat history: %w", err)
	}
	return nil
}

func (r *SessionRepository) History(ctx context.Context, sessionID string) ([]domain.ChatTurn, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT role, message
FROM chat_messages
WHERE session_id = $1
ORDER BY seq DESC
LIMIT $2
`, sessionID, domain.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ChatTurn, 0, domain.HistoryLimit)
	for rows.Next() {
		var role string
		var turn domain.ChatTurn
		if err := rows.Scan(&role, &turn.Message); err != nil {
			return nil, fmt.Errorf("scan chat turn: %w", err)
		}
		turn.Role = domain.ChatRole(role)
		out = append(out, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat history: %w", err)
	}

	// Returned in descending order from SQL; reverse to keep chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
