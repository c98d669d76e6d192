package openai_adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"showcase-service/internal/core/domain"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatAssistant_SendsHistoryAndReturnsAnswer(t *testing.T) {
	var request struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  Нужен NIE.  "}}],
			"usage":{"prompt_tokens":10,"completion_tokens":3,"total_tokens":13}}`))
	}))
	defer srv.Close()

	a, err := NewChatAssistant("sk-test", "", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	require.NoError(t, err)

	history := []domain.ChatMessage{
		{Message: "Здравствуйте"},
		{Message: "Добрый день! Чем помочь?", IsAI: true},
	}
	answer, err := a.Reply(context.Background(), history, "Какие документы нужны?")
	require.NoError(t, err)
	assert.Equal(t, "Нужен NIE.", answer)

	assert.Equal(t, "gpt-4o-mini", request.Model)
	require.Len(t, request.Messages, 4)
	assert.Equal(t, "system", request.Messages[0].Role)
	assert.Equal(t, "user", request.Messages[1].Role)
	assert.Equal(t, "assistant", request.Messages[2].Role)
	assert.Equal(t, "Какие документы нужны?", request.Messages[3].Content)
}

func TestChatAssistant_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	a, err := NewChatAssistant("sk-test", "gpt-4o", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	require.NoError(t, err)
	_, err = a.Reply(context.Background(), nil, "Вопрос")
	assert.Error(t, err)

	_, err = NewChatAssistant("", "")
	assert.Error(t, err)
}
