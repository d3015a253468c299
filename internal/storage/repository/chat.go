package repository

import (
	"context"
	"fmt"

	"github.com/velotech/storefront/internal/models"
)

// CreateConversation создает новый диалог чат-бота для сессии клиента.
func (s *Storage) CreateConversation(ctx context.Context, sessionID string) (*models.ChatConversation, error) {
	const op = "storage.CreateConversation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO chat_conversations (session_id)
			  VALUES ($1)
			  RETURNING id, session_id, created_at`
	var conv models.ChatConversation
	if err := s.DB.QueryRowContext(ctx, query, sessionID).Scan(
		&conv.ID, &conv.SessionID, &conv.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &conv, nil
}

// SaveChatMessage сохраняет сообщение диалога.
func (s *Storage) SaveChatMessage(ctx context.Context, conversationID, role, content string) error {
	const op = "storage.SaveChatMessage"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO chat_messages (conversation_id, role, content)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query, conversationID, role, content); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListChatMessages возвращает последние limit сообщений диалога от старых к новым.
func (s *Storage) ListChatMessages(ctx context.Context, conversationID string, limit int) ([]models.ChatMessage, error) {
	const op = "storage.ListChatMessages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, conversation_id, role, content, created_at
			  FROM (
			      SELECT id, conversation_id, role, content, created_at
			      FROM chat_messages
			      WHERE conversation_id = $1
			      ORDER BY created_at DESC
			      LIMIT $2
			  ) last
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err = rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
