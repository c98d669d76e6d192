package assistant

import (
	"context"
	"errors"
	"testing"

	"showcase-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCannedReply(t *testing.T) {
	assert.Contains(t, CannedReply("Какие документы нужны для покупки?"), "NIE")
	assert.Contains(t, CannedReply("  Подскажите, КАК ПОЛУЧИТЬ ВНЖ ПРИ ПОКУПКЕ НЕДВИЖИМОСТИ? Спасибо"), "Золотую визу")
	// вопрос - часть заготовки
	assert.Contains(t, CannedReply("содержание недвижимости"), "IBI")

	generic := CannedReply("Есть ли парковка у виллы?")
	assert.Contains(t, generic, `"Есть ли парковка у виллы?"`)
	assert.Contains(t, generic, "связаться с нашими специалистами")
}

type failingAssistant struct{ calls int }

func (f *failingAssistant) Reply(ctx context.Context, history []domain.ChatMessage, question string) (string, error) {
	f.calls++
	return "", errors.New("openai: 429")
}

func TestFallbackAssistant(t *testing.T) {
	primary := &failingAssistant{}
	a := NewFallbackAssistant(primary, NewCannedAssistant())

	answer, err := a.Reply(context.Background(), nil, "Какие документы нужны для покупки?")
	require.NoError(t, err)
	assert.Contains(t, answer, "NIE")
	assert.Equal(t, 1, primary.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Reply(ctx, nil, "Вопрос")
	assert.ErrorIs(t, err, context.Canceled)
}
