package services

import (
	"context"

	"github.com/tbourn/morena-chat/internal/domain"
)

// ConversationStore is the persistence contract the services depend on.
// repo.MemoryStore and repo.GormStore both satisfy it.
//
// GetConversation reports an unknown id with repo.ErrNotFound. ListMessages
// and DeleteConversation treat unknown ids as empty/no-op.
type ConversationStore interface {
	CreateConversation(ctx context.Context, title, language string) (*domain.Conversation, error)
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)
	ListConversations(ctx context.Context) ([]domain.Conversation, error)
	CreateMessage(ctx context.Context, conversationID, content string, role domain.Role, language string) (*domain.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
	DeleteConversation(ctx context.Context, id string) error
}
