package domain

import "time"

// ChatMessage - реплика в чате ИИ-консультанта.
// SessionID - анонимная сессия посетителя, созданная браузером.
type ChatMessage struct {
	ID        string
	SessionID string
	Message   string
	IsAI      bool
	CreatedAt time.Time
}

// MaxChatMessageLength ограничивает длину вопроса посетителя
const MaxChatMessageLength = 2000
