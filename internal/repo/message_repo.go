// Package repo implements the conversation storage backends. This file
// provides GORM repository functions for the Message model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/morena-chat/internal/domain"
)

// CreateMessage inserts a new message row.
func CreateMessage(ctx context.Context, db *gorm.DB, conversationID, content string, role domain.Role, language string) (*domain.Message, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	m := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Content:        content,
		Role:           role,
		Language:       domain.NormalizeLanguage(language),
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns a conversation's messages oldest first, with
// insertion order (rowid) breaking timestamp ties.
func ListMessages(ctx context.Context, db *gorm.DB, conversationID string) ([]domain.Message, error) {
	out := []domain.Message{}
	err := db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Order("rowid ASC").
		Find(&out).Error
	return out, err
}
