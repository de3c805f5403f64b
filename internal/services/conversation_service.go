package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/morena-chat/internal/domain"
	"github.com/tbourn/morena-chat/internal/repo"
)

// ConversationService exposes conversation-level operations: create, list,
// point lookup, message history and cascading delete.
type ConversationService struct {
	Store ConversationStore

	// TitleMaxLen caps stored titles by rune length (0 = unlimited).
	TitleMaxLen int

	// Locks is taken by Delete; see ChatOrchestrator.Locks.
	Locks *KeyedMutex
}

// NewConversationService constructs a ConversationService with default title limits.
func NewConversationService(store ConversationStore) *ConversationService {
	return &ConversationService{Store: store, TitleMaxLen: 255, Locks: &KeyedMutex{}}
}

// Create stores a new conversation. Titles are trimmed and whitespace runs
// collapsed; a blank title yields ErrTitleRequired. An empty language
// defaults to "en".
func (s *ConversationService) Create(ctx context.Context, title, lang string) (*domain.Conversation, error) {
	ctx, span := otel.Tracer("services/ConversationService").Start(ctx, "Create",
		trace.WithAttributes(attribute.String("conversation.language", lang)),
	)
	defer span.End()

	title = normalizeTitle(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	c, err := s.Store.CreateConversation(ctx, s.clip(title), domain.NormalizeLanguage(lang))
	if err != nil {
		return nil, storeErr("create conversation", err)
	}
	return c, nil
}

// List returns all conversations, newest first.
func (s *ConversationService) List(ctx context.Context) ([]domain.Conversation, error) {
	ctx, span := otel.Tracer("services/ConversationService").Start(ctx, "List")
	defer span.End()

	out, err := s.Store.ListConversations(ctx)
	if err != nil {
		return nil, storeErr("list conversations", err)
	}
	span.SetAttributes(attribute.Int("conversation.count", len(out)))
	return out, nil
}

// Get returns one conversation or ErrConversationNotFound.
func (s *ConversationService) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	ctx, span := otel.Tracer("services/ConversationService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("conversation.id", id)),
	)
	defer span.End()

	return lookupConversation(ctx, s.Store, id)
}

// Messages returns the conversation's messages oldest first. Unknown
// conversations yield ErrConversationNotFound.
func (s *ConversationService) Messages(ctx context.Context, id string) ([]domain.Message, error) {
	ctx, span := otel.Tracer("services/ConversationService").Start(ctx, "Messages",
		trace.WithAttributes(attribute.String("conversation.id", id)),
	)
	defer span.End()

	if _, err := lookupConversation(ctx, s.Store, id); err != nil {
		return nil, err
	}
	msgs, err := s.Store.ListMessages(ctx, id)
	if err != nil {
		return nil, storeErr("list messages", err)
	}
	span.SetAttributes(attribute.Int("message.count", len(msgs)))
	return msgs, nil
}

// Delete removes the conversation and all of its messages. Unknown ids
// succeed silently. A chat turn in flight on the same conversation finishes
// first, so its reply is removed with the rest.
func (s *ConversationService) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("services/ConversationService").Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("conversation.id", id)),
	)
	defer span.End()

	unlock := s.Locks.Lock(id)
	defer unlock()

	if err := s.Store.DeleteConversation(ctx, id); err != nil {
		return storeErr("delete conversation", err)
	}
	return nil
}

func (s *ConversationService) clip(title string) string {
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		return string([]rune(title)[:s.TitleMaxLen])
	}
	return title
}

func lookupConversation(ctx context.Context, store ConversationStore, id string) (*domain.Conversation, error) {
	c, err := store.GetConversation(ctx, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, ErrConversationNotFound
	case err != nil:
		return nil, storeErr("get conversation", err)
	}
	return c, nil
}

// normalizeTitle trims whitespace and collapses multiple spaces to one.
func normalizeTitle(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

var whitespaceRE = regexp.MustCompile(`\s+`)
