package openai_adapter

import (
	"context"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const systemPrompt = `Ты - консультант агентства недвижимости SpainEstates на побережье Испании (Коста-Бланка, Коста-дель-Соль).
Отвечай на языке вопроса, кратко и по делу: покупка, документы (NIE, счет в банке), налоги, ВНЖ, содержание жилья, районы.
Не выдумывай конкретные объекты и цены из каталога. Если нужна точная информация, предложи связаться со специалистом.`

// ChatAssistant отвечает посетителю через Chat Completions API
type ChatAssistant struct {
	client    openai.Client
	model     shared.ChatModel
	maxTokens int64
}

// NewChatAssistant - opts нужны тестам (option.WithBaseURL)
func NewChatAssistant(apiKey, model string, opts ...option.RequestOption) (*ChatAssistant, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if model == "" {
		model = shared.ChatModelGPT4oMini
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &ChatAssistant{client: client, model: shared.ChatModel(model), maxTokens: 600}, nil
}

func (a *ChatAssistant) Reply(ctx context.Context, history []domain.ChatMessage, question string) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "OpenAIChatAssistant", "model": a.model})

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               a.model,
		Messages:            buildMessages(history, question),
		MaxCompletionTokens: openai.Int(a.maxTokens),
		Temperature:         openai.Float(0.4),
	})
	if err != nil {
		logger.Error("Chat completion request failed", err, nil)
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("openai: empty answer")
	}
	logger.Debug("Chat completion received", port.Fields{"total_tokens": resp.Usage.TotalTokens})
	return answer, nil
}

func buildMessages(history []domain.ChatMessage, question string) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, m := range history {
		if m.IsAI {
			messages = append(messages, openai.AssistantMessage(m.Message))
		} else {
			messages = append(messages, openai.UserMessage(m.Message))
		}
	}
	return append(messages, openai.UserMessage(question))
}
