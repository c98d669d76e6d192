package assistant

import (
	"context"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
)

// FallbackAssistant спрашивает основной сервис, а при ошибке отвечает запасным
type FallbackAssistant struct {
	primary  port.ChatAssistantPort
	fallback port.ChatAssistantPort
}

func NewFallbackAssistant(primary, fallback port.ChatAssistantPort) *FallbackAssistant {
	return &FallbackAssistant{primary: primary, fallback: fallback}
}

func (a *FallbackAssistant) Reply(ctx context.Context, history []domain.ChatMessage, question string) (string, error) {
	answer, err := a.primary.Reply(ctx, history, question)
	if err == nil {
		return answer, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	contextkeys.LoggerFromContext(ctx).Warn("Primary chat assistant failed, using fallback", port.Fields{
		"component": "FallbackAssistant",
		"error":     err.Error(),
	})
	return a.fallback.Reply(ctx, history, question)
}
