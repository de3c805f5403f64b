package domain

import (
	"encoding/json"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// PRAGMA foreign_keys is per connection; pin the pool to one so the
	// cascade below runs on the connection that has it enabled.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	if (Conversation{}).TableName() != "conversations" {
		t.Fatalf("Conversation.TableName() = %q; want %q", (Conversation{}).TableName(), "conversations")
	}
	if (Message{}).TableName() != "messages" {
		t.Fatalf("Message.TableName() = %q; want %q", (Message{}).TableName(), "messages")
	}
}

func TestRole_Valid(t *testing.T) {
	if !RoleUser.Valid() || !RoleAssistant.Valid() {
		t.Fatalf("known roles must be valid")
	}
	if Role("system").Valid() || Role("").Valid() {
		t.Fatalf("unknown roles must be invalid")
	}
}

func TestMigrations_Indexes_AndCascade(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&Conversation{}, &Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	if !m.HasIndex(&Conversation{}, "idx_conversations_created") {
		t.Fatalf("expected index idx_conversations_created on conversations")
	}
	if !m.HasIndex(&Message{}, "idx_conversation_msgs") {
		t.Fatalf("expected index idx_conversation_msgs on messages")
	}

	now := time.Now().UTC()
	if err := db.Create(&Conversation{ID: "c1", Title: "T", Language: "zu", CreatedAt: now}).Error; err != nil {
		t.Fatalf("insert conversation: %v", err)
	}
	m1 := &Message{ID: "m1", ConversationID: "c1", Role: RoleUser, Content: "hello", Language: "zu", CreatedAt: now}
	m2 := &Message{ID: "m2", ConversationID: "c1", Role: RoleAssistant, Content: "sawubona", Language: "zu", CreatedAt: now.Add(time.Second)}
	for _, msg := range []*Message{m1, m2} {
		if err := db.Create(msg).Error; err != nil {
			t.Fatalf("insert %s: %v", msg.ID, err)
		}
	}

	// Role check constraint rejects unknown roles.
	bad := &Message{ID: "m3", ConversationID: "c1", Role: "system", Content: "x", Language: "en", CreatedAt: now}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected CHECK violation for role=system")
	}

	// CASCADE: deleting the conversation removes its messages.
	if err := db.Delete(&Conversation{}, "id = ?", "c1").Error; err != nil {
		t.Fatalf("delete conversation: %v", err)
	}
	var cnt int64
	if err := db.Model(&Message{}).Where("conversation_id = ?", "c1").Count(&cnt).Error; err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected messages to cascade-delete, got count=%d", cnt)
	}
}

func TestMessage_MarshalJSON_IncludesIsUser(t *testing.T) {
	ts := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		role Role
		want bool
	}{
		{RoleUser, true},
		{RoleAssistant, false},
	}
	for _, tc := range cases {
		b, err := json.Marshal(Message{ID: "m", ConversationID: "c", Content: "hi", Role: tc.role, Language: "xh", CreatedAt: ts})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var got map[string]any
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got["isUser"] != tc.want {
			t.Fatalf("role %s: isUser = %v, want %v (%s)", tc.role, got["isUser"], tc.want, b)
		}
		if got["conversationId"] != "c" || got["role"] != string(tc.role) || got["language"] != "xh" {
			t.Fatalf("unexpected payload: %s", b)
		}
		if _, leaked := got["Conversation"]; leaked {
			t.Fatalf("association must not be serialized: %s", b)
		}
	}

	// Pointers marshal the same way.
	b, err := json.Marshal(&Message{Role: RoleUser})
	if err != nil {
		t.Fatalf("marshal ptr: %v", err)
	}
	var got map[string]any
	_ = json.Unmarshal(b, &got)
	if got["isUser"] != true {
		t.Fatalf("pointer marshal lost isUser: %s", b)
	}
}
