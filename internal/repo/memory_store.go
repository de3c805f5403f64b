package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/morena-chat/internal/domain"
)

// MemoryStore keeps conversations and messages in process memory for the
// lifetime of the process. It is safe for concurrent use: every method runs
// under a single RWMutex, so a cascading delete is observed atomically.
//
// Each record carries an insertion sequence number that breaks CreatedAt
// ties, keeping both listings total and stable.
type MemoryStore struct {
	mu            sync.RWMutex
	now           func() time.Time
	seq           uint64
	conversations map[string]memConversation
	messages      map[string][]memMessage // keyed by conversation id
}

type memConversation struct {
	rec domain.Conversation
	seq uint64
}

type memMessage struct {
	rec domain.Message
	seq uint64
}

// MemoryOption customizes a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source used to stamp CreatedAt.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		now:           func() time.Time { return time.Now().UTC() },
		conversations: make(map[string]memConversation),
		messages:      make(map[string][]memMessage),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateConversation stores a new conversation. An empty language defaults
// to domain.DefaultLanguage.
func (s *MemoryStore) CreateConversation(ctx context.Context, title, language string) (*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	c := domain.Conversation{
		ID:        s.freshConversationID(),
		Title:     title,
		Language:  domain.NormalizeLanguage(language),
		CreatedAt: s.now(),
	}
	s.conversations[c.ID] = memConversation{rec: c, seq: s.seq}
	return &c, nil
}

// GetConversation returns a copy of the conversation, or ErrNotFound.
func (s *MemoryStore) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := c.rec
	return &out, nil
}

// ListConversations returns all conversations newest first; ties on
// CreatedAt go to the most recently inserted.
func (s *MemoryStore) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	all := make([]memConversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		all = append(all, c)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.rec.CreatedAt.Equal(b.rec.CreatedAt) {
			return a.rec.CreatedAt.After(b.rec.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]domain.Conversation, len(all))
	for i, c := range all {
		out[i] = c.rec
	}
	return out, nil
}

// CreateMessage stores a new message. It does not check that the
// conversation exists; callers own that check. Unknown roles yield
// ErrInvalidRole.
func (s *MemoryStore) CreateMessage(ctx context.Context, conversationID, content string, role domain.Role, language string) (*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	m := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Content:        content,
		Role:           role,
		Language:       domain.NormalizeLanguage(language),
		CreatedAt:      s.now(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], memMessage{rec: m, seq: s.seq})
	return &m, nil
}

// ListMessages returns the conversation's messages oldest first; ties on
// CreatedAt keep insertion order. Unknown ids yield an empty slice.
func (s *MemoryStore) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	src := s.messages[conversationID]
	all := make([]memMessage, len(src))
	copy(all, src)
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.rec.CreatedAt.Equal(b.rec.CreatedAt) {
			return a.rec.CreatedAt.Before(b.rec.CreatedAt)
		}
		return a.seq < b.seq
	})

	out := make([]domain.Message, len(all))
	for i, m := range all {
		out[i] = m.rec
	}
	return out, nil
}

// DeleteConversation removes the conversation and its messages under one
// write lock. Unknown ids are a no-op.
func (s *MemoryStore) DeleteConversation(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, id)
	delete(s.messages, id)
	return nil
}

// freshConversationID draws UUIDs until one is unused. Caller holds mu.
func (s *MemoryStore) freshConversationID() string {
	for {
		id := uuid.NewString()
		if _, taken := s.conversations[id]; !taken {
			return id
		}
	}
}
