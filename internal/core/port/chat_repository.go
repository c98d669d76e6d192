package port

import (
	"context"
	"showcase-service/internal/core/domain"
)

type ChatRepositoryPort interface {
	Save(ctx context.Context, msg *domain.ChatMessage) error
	// History возвращает последние limit сообщений сессии по возрастанию created_at
	History(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error)
}

// ChatAssistantPort отвечает на вопрос посетителя с учетом истории
type ChatAssistantPort interface {
	Reply(ctx context.Context, history []domain.ChatMessage, question string) (string, error)
}
