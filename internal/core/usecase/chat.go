package usecase

import (
	"context"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// сколько последних реплик передается консультанту и отдается виджету
const chatHistoryLimit = 50
const chatContextLimit = 20

type SendChatMessageUseCase struct {
	chats     port.ChatRepositoryPort
	assistant port.ChatAssistantPort
	clock     func() time.Time
}

func NewSendChatMessageUseCase(chats port.ChatRepositoryPort, assistant port.ChatAssistantPort) *SendChatMessageUseCase {
	return &SendChatMessageUseCase{chats: chats, assistant: assistant, clock: time.Now}
}

func (uc *SendChatMessageUseCase) Execute(ctx context.Context, sessionID, message string) (*domain.ChatMessage, *domain.ChatMessage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "SendChatMessage", "session_id": sessionID})
	ucLogger.Info("Use case started", nil)

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, nil, domain.ErrEmptyMessage
	}
	vErr := &domain.ValidationError{}
	if _, err := uuid.Parse(sessionID); err != nil {
		vErr.Add("session_id", "must be a UUID")
	}
	if utf8.RuneCountInString(message) > domain.MaxChatMessageLength {
		vErr.Add("message", "is too long")
	}
	if err := vErr.OrNil(); err != nil {
		return nil, nil, err
	}

	// история до нового вопроса
	history, err := uc.chats.History(ctx, sessionID, chatContextLimit)
	if err != nil {
		ucLogger.Error("Failed to load chat history", err, nil)
		return nil, nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	question := &domain.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Message:   message,
		IsAI:      false,
		CreatedAt: uc.clock().UTC(),
	}
	if err := uc.chats.Save(ctx, question); err != nil {
		ucLogger.Error("Failed to save visitor message", err, nil)
		return nil, nil, fmt.Errorf("failed to save chat message: %w", err)
	}

	reply, err := uc.assistant.Reply(ctx, history, message)
	if err != nil {
		ucLogger.Error("Assistant failed to reply", err, nil)
		return question, nil, fmt.Errorf("failed to get assistant reply: %w", err)
	}

	answer := &domain.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Message:   reply,
		IsAI:      true,
		CreatedAt: uc.clock().UTC(),
	}
	if !answer.CreatedAt.After(question.CreatedAt) {
		answer.CreatedAt = question.CreatedAt.Add(time.Millisecond)
	}
	if err := uc.chats.Save(ctx, answer); err != nil {
		ucLogger.Error("Failed to save assistant reply", err, nil)
		return question, nil, fmt.Errorf("failed to save assistant reply: %w", err)
	}

	ucLogger.Info("Use case finished", nil)
	return question, answer, nil
}

type GetChatHistoryUseCase struct {
	chats port.ChatRepositoryPort
}

func NewGetChatHistoryUseCase(chats port.ChatRepositoryPort) *GetChatHistoryUseCase {
	return &GetChatHistoryUseCase{chats: chats}
}

func (uc *GetChatHistoryUseCase) Execute(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetChatHistory", "session_id": sessionID})
	logger.Info("Use case started", nil)

	// у посетителя без сессии истории нет
	if _, err := uuid.Parse(sessionID); err != nil {
		return []domain.ChatMessage{}, nil
	}

	history, err := uc.chats.History(ctx, sessionID, chatHistoryLimit)
	if err != nil {
		logger.Error("Failed to load chat history", err, nil)
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	logger.Info("Use case finished", port.Fields{"count": len(history)})
	return history, nil
}
