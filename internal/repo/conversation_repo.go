// Package repo implements the conversation storage backends. This file
// provides GORM repository functions for the Conversation model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only persistence and query composition.
//
// Error semantics:
//   - When a conversation is not found, functions return ErrNotFound.
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/morena-chat/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so both backends report absence the
// same way.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrInvalidRole is returned when a message role is neither user nor assistant.
var ErrInvalidRole = errors.New("invalid message role")

// CreateConversation inserts a new conversation with a random UUID and a
// UTC creation timestamp. An empty language defaults to domain.DefaultLanguage.
func CreateConversation(ctx context.Context, db *gorm.DB, title, language string) (*domain.Conversation, error) {
	c := &domain.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		Language:  domain.NormalizeLanguage(language),
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetConversation fetches a conversation by id, or ErrNotFound.
func GetConversation(ctx context.Context, db *gorm.DB, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListConversations returns all conversations newest first. Rows sharing a
// timestamp are ordered by insertion, most recent first (SQLite rowid).
func ListConversations(ctx context.Context, db *gorm.DB) ([]domain.Conversation, error) {
	out := []domain.Conversation{}
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Order("rowid DESC").
		Find(&out).Error
	return out, err
}

// DeleteConversation removes the conversation and all of its messages in a
// single transaction. Deleting an unknown id is not an error.
func DeleteConversation(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Conversation{}).Error
	})
}
