package usecases_port

import (
	"context"
	"showcase-service/internal/core/domain"
)

type SendChatMessageUseCasePort interface {
	// Возвращает сохраненный вопрос и ответ консультанта
	Execute(ctx context.Context, sessionID, message string) (*domain.ChatMessage, *domain.ChatMessage, error)
}

type GetChatHistoryUseCasePort interface {
	Execute(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
}
