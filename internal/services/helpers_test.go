package services

import (
	"context"
	"errors"

	"github.com/tbourn/morena-chat/internal/domain"
	"github.com/tbourn/morena-chat/internal/repo"
)

var errBoom = errors.New("boom")

// flakyStore wraps a MemoryStore and fails selected operations.
type flakyStore struct {
	*repo.MemoryStore

	failCreateConversation bool
	failGet                bool
	failList               bool
	failCreateMessage      bool
	failListMessages       bool
	failDelete             bool
}

func newFlakyStore() *flakyStore { return &flakyStore{MemoryStore: repo.NewMemoryStore()} }

func (s *flakyStore) CreateConversation(ctx context.Context, title, language string) (*domain.Conversation, error) {
	if s.failCreateConversation {
		return nil, errBoom
	}
	return s.MemoryStore.CreateConversation(ctx, title, language)
}

func (s *flakyStore) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	if s.failGet {
		return nil, errBoom
	}
	return s.MemoryStore.GetConversation(ctx, id)
}

func (s *flakyStore) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	if s.failList {
		return nil, errBoom
	}
	return s.MemoryStore.ListConversations(ctx)
}

func (s *flakyStore) CreateMessage(ctx context.Context, conversationID, content string, role domain.Role, language string) (*domain.Message, error) {
	if s.failCreateMessage {
		return nil, errBoom
	}
	return s.MemoryStore.CreateMessage(ctx, conversationID, content, role, language)
}

func (s *flakyStore) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if s.failListMessages {
		return nil, errBoom
	}
	return s.MemoryStore.ListMessages(ctx, conversationID)
}

func (s *flakyStore) DeleteConversation(ctx context.Context, id string) error {
	if s.failDelete {
		return errBoom
	}
	return s.MemoryStore.DeleteConversation(ctx, id)
}
