package models

import "time"

// Роли сообщений чата, совпадают с ролями chat-completions API.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatConversation диалог поддержки, привязанный к анонимной сессии клиента.
type ChatConversation struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage одно сообщение диалога.
type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"-"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ScoredProduct товар с оценкой релевантности текстового поиска.
type ScoredProduct struct {
	Product
	Score int `json:"-"`
}
