package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/morena-chat/internal/domain"
)

// GormStore is the durable conversation store. It adapts the repository
// functions in this package to the method set the services expect.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore returns a store backed by db. The schema must already be
// migrated (see AutoMigrate).
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// CreateConversation proxies CreateConversation.
func (s *GormStore) CreateConversation(ctx context.Context, title, language string) (*domain.Conversation, error) {
	return CreateConversation(ctx, s.DB, title, language)
}

// GetConversation proxies GetConversation.
func (s *GormStore) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	return GetConversation(ctx, s.DB, id)
}

// ListConversations proxies ListConversations.
func (s *GormStore) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	return ListConversations(ctx, s.DB)
}

// CreateMessage proxies CreateMessage. The messages table carries a
// foreign key, so an unknown conversation id fails here.
func (s *GormStore) CreateMessage(ctx context.Context, conversationID, content string, role domain.Role, language string) (*domain.Message, error) {
	return CreateMessage(ctx, s.DB, conversationID, content, role, language)
}

// ListMessages proxies ListMessages.
func (s *GormStore) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	return ListMessages(ctx, s.DB, conversationID)
}

// DeleteConversation proxies DeleteConversation.
func (s *GormStore) DeleteConversation(ctx context.Context, id string) error {
	return DeleteConversation(ctx, s.DB, id)
}
