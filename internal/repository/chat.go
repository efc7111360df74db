package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"settlr/internal/model"
)

const chatColumns = `id, property_id, tenant_id, owner_id, created_at, updated_at`

// StartChat returns the chat for (property, tenant), creating it if needed
func (r *PostgresRepository) StartChat(ctx context.Context, propertyID, tenantID, ownerID string) (*model.Chat, error) {
	query := fmt.Sprintf(`
		INSERT INTO chats (id, property_id, tenant_id, owner_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (property_id, tenant_id) DO UPDATE SET property_id = EXCLUDED.property_id
		RETURNING %s
	`, chatColumns)

	var chat model.Chat
	if err := r.db.GetContext(ctx, &chat, query, uuid.NewString(), propertyID, tenantID, ownerID); err != nil {
		return nil, fmt.Errorf("failed to start chat: %w", err)
	}

	messages, err := r.chatMessages(ctx, chat.ID)
	if err != nil {
		return nil, err
	}
	chat.Messages = messages
	return &chat, nil
}

// GetChat loads a chat with its messages, nil when absent
func (r *PostgresRepository) GetChat(ctx context.Context, id string) (*model.Chat, error) {
	var chat model.Chat
	query := fmt.Sprintf(`SELECT %s FROM chats WHERE id = $1`, chatColumns)
	if err := r.db.GetContext(ctx, &chat, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	messages, err := r.chatMessages(ctx, chat.ID)
	if err != nil {
		return nil, err
	}
	chat.Messages = messages
	return &chat, nil
}

// AppendChatMessage stores a message and bumps the chat's updated_at
func (r *PostgresRepository) AppendChatMessage(ctx context.Context, chatID, senderID, text string) (*model.ChatMessage, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var msg model.ChatMessage
	err = tx.GetContext(ctx, &msg, `
		INSERT INTO chat_messages (chat_id, sender_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, chat_id, sender_id, text, sent_at
	`, chatID, senderID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to append chat message: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE chats SET updated_at = NOW() WHERE id = $1`, chatID); err != nil {
		return nil, fmt.Errorf("failed to touch chat: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &msg, nil
}

func (r *PostgresRepository) chatMessages(ctx context.Context, chatID string) ([]model.ChatMessage, error) {
	messages := []model.ChatMessage{}
	err := r.db.SelectContext(ctx, &messages, `
		SELECT id, chat_id, sender_id, text, sent_at
		FROM chat_messages
		WHERE chat_id = $1
		ORDER BY sent_at ASC, id ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat messages: %w", err)
	}
	return messages, nil
}
