package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/tbourn/morena-chat/internal/domain"
	"github.com/tbourn/morena-chat/internal/llm"
)

func TestPostChat_NewConversation(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/chat", `{"message":"Hello","language":"zu"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	turn := decode[wireTurn](t, w)
	if turn.ConversationID == "" {
		t.Fatal("expected a conversation id")
	}
	u, ai := turn.UserMessage, turn.AIMessage
	if u.Content != "Hello" || !u.IsUser || u.Language != "zu" || u.ConversationID != turn.ConversationID {
		t.Fatalf("unexpected user message: %+v", u)
	}
	if ai.IsUser || ai.Language != "zu" || ai.Content != "reply to Hello" || ai.ConversationID != turn.ConversationID {
		t.Fatalf("unexpected ai message: %+v", ai)
	}
	if got := w.Header().Get("Content-Language"); got != "zu" {
		t.Fatalf("Content-Language = %q", got)
	}
}

func TestPostChat_ContinuesConversation(t *testing.T) {
	a := newTestAPI(t)

	first := decode[wireTurn](t, a.do(t, http.MethodPost, "/api/chat", `{"message":"one"}`))
	w := a.do(t, http.MethodPost, "/api/chat", `{"message":"two","conversationId":"`+first.ConversationID+`"}`)
	second := decode[wireTurn](t, w)
	if second.ConversationID != first.ConversationID {
		t.Fatalf("conversation changed: %s vs %s", second.ConversationID, first.ConversationID)
	}

	calls := a.llm.Calls()
	if len(calls[1].History) != 2 {
		t.Fatalf("second turn should see 2 prior turns, got %+v", calls[1].History)
	}
}

func TestPostChat_EmptyMessage(t *testing.T) {
	a := newTestAPI(t)

	for _, body := range []string{`{"message":""}`, `{"message":"   "}`, `{}`} {
		w := a.do(t, http.MethodPost, "/api/chat", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", body, w.Code)
		}
		if er := decode[ErrorResponse](t, w); er.Code != ErrCodeBadRequest || er.Message != "message is required" {
			t.Fatalf("%s: unexpected envelope %+v", body, er)
		}
	}
	list, _ := a.store.ListConversations(context.Background())
	if len(list) != 0 {
		t.Fatalf("empty messages created %d conversations", len(list))
	}
}

func TestPostChat_InvalidJSON(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(t, http.MethodPost, "/api/chat", `{"message":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if er := decode[ErrorResponse](t, w); er.Message != "invalid JSON body" {
		t.Fatalf("unexpected envelope %+v", er)
	}
}

func TestPostChat_OversizedFieldsNamed(t *testing.T) {
	a := newTestAPI(t)

	cases := []struct {
		body string
		want string
	}{
		{`{"message":"hi","language":"` + strings.Repeat("x", 17) + `"}`, "language must be at most 16 characters"},
		{`{"message":"hi","conversationId":"` + strings.Repeat("c", 65) + `"}`, "conversationId must be at most 64 characters"},
	}
	for _, tc := range cases {
		w := a.do(t, http.MethodPost, "/api/chat", tc.body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		if er := decode[ErrorResponse](t, w); er.Code != ErrCodeBadRequest || er.Message != tc.want {
			t.Fatalf("unexpected envelope %+v, want message %q", er, tc.want)
		}
	}

	list, _ := a.store.ListConversations(context.Background())
	if len(list) != 0 {
		t.Fatalf("rejected requests created %d conversations", len(list))
	}
	if n := len(a.llm.Calls()); n != 0 {
		t.Fatalf("completer called %d times", n)
	}
}

func TestPostChat_UnknownConversation(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(t, http.MethodPost, "/api/chat", `{"message":"hi","conversationId":"nope"}`)
	if w.Code != http.StatusNotFound || decode[ErrorResponse](t, w).Code != ErrCodeNotFound {
		t.Fatalf("expected 404, got %d %s", w.Code, w.Body.String())
	}
}

func TestPostChat_CompletionFailure(t *testing.T) {
	a := newTestAPI(t)
	a.llm.Reply = func(context.Context, llm.Call) (string, error) {
		return "", errors.New("upstream 503 with sk-secret")
	}

	w := a.do(t, http.MethodPost, "/api/chat", `{"message":"Molo","language":"xh"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	er := decode[ErrorResponse](t, w)
	if er.Code != ErrCodeCompletionFailed || er.Error != "failed to generate response" {
		t.Fatalf("unexpected envelope %+v", er)
	}
	if strings.Contains(w.Body.String(), "sk-secret") {
		t.Fatal("upstream error leaked to client")
	}

	list, _ := a.store.ListConversations(context.Background())
	if len(list) != 1 {
		t.Fatalf("expected the new conversation to remain, got %d", len(list))
	}
	msgs, _ := a.store.ListMessages(context.Background(), list[0].ID)
	if len(msgs) != 1 || msgs[0].Role != domain.RoleUser {
		t.Fatalf("expected only the user message, got %+v", msgs)
	}
}
