// Package domain defines the persistence models for conversations and
// messages. These types are mapped with GORM when the SQLite backend is in
// use and are shared by the in-memory store, the services and the handlers.
package domain

import (
	"encoding/json"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known speaker roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Conversation is a titled, language-tagged thread of messages. It is
// created once and never mutated; deleting it removes all of its messages.
//
// Fields:
//   - ID: UUID primary key (char(36)), generated at creation.
//   - Title: short label, usually derived from the first user message.
//   - Language: language code (see Languages); "en" when not supplied.
//   - CreatedAt: creation timestamp (UTC); newest-first listing key.
type Conversation struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title"     gorm:"type:text;not null"`
	Language  string    `json:"language"  gorm:"type:varchar(16);not null;default:'en'"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;index:idx_conversations_created"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }

// Message is one turn of a conversation, authored either by the user or by
// the assistant. Messages are immutable and only removed through the
// cascade of their conversation.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - ConversationID: owning conversation (indexed together with CreatedAt).
//   - Content: message text.
//   - Role: "user" or "assistant" (enforced by DB constraint).
//   - Language: language code the turn was sent in.
//   - CreatedAt: creation timestamp (UTC); chronological read order.
//   - Conversation: FK association, ensures cascade delete/update.
type Message struct {
	ID             string    `json:"id"             gorm:"type:char(36);primaryKey"`
	ConversationID string    `json:"conversationId" gorm:"type:char(36);not null;index:idx_conversation_msgs,priority:1"`
	Content        string    `json:"content"        gorm:"type:text;not null"`
	Role           Role      `json:"role"           gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Language       string    `json:"language"       gorm:"type:varchar(16);not null;default:'en'"`
	CreatedAt      time.Time `json:"createdAt"      gorm:"not null;index:idx_conversation_msgs,priority:2"`

	Conversation *Conversation `json:"-" gorm:"foreignKey:ConversationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// IsUser reports whether the message was written by the human user.
func (m Message) IsUser() bool { return m.Role == RoleUser }

// MarshalJSON adds the derived "isUser" flag the browser client reads.
func (m Message) MarshalJSON() ([]byte, error) {
	type plain Message
	return json.Marshal(struct {
		plain
		IsUser bool `json:"isUser"`
	}{plain(m), m.IsUser()})
}
