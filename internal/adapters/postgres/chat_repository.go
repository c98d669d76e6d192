package postgres_adapter

import (
	"context"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) (*ChatRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ChatRepository{pool: pool}, nil
}

func (r *ChatRepository) Save(ctx context.Context, msg *domain.ChatMessage) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_messages (id, session_id, message, is_ai, created_at) VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.SessionID, msg.Message, msg.IsAI, msg.CreatedAt)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to save chat message", err, port.Fields{
			"component":  "ChatRepository",
			"session_id": msg.SessionID,
		})
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

// History берет последние limit реплик и отдает их в хронологическом порядке
func (r *ChatRepository) History(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{"component": "ChatRepository", "method": "History", "session_id": sessionID})

	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, message, is_ai, created_at FROM (
			SELECT id, session_id, message, is_ai, created_at FROM chat_messages
			WHERE session_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2
		) last ORDER BY created_at ASC, id ASC`, sessionID, limit)
	if err != nil {
		repoLogger.Error("Failed to load chat history", err, nil)
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer rows.Close()

	history := make([]domain.ChatMessage, 0, limit)
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Message, &m.IsAI, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		history = append(history, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat history: %w", err)
	}
	return history, nil
}
