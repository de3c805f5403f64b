package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/morena-chat/internal/domain"
	"github.com/tbourn/morena-chat/internal/llm"
	"github.com/tbourn/morena-chat/internal/repo"
	"github.com/tbourn/morena-chat/internal/services"
)

var timeZero time.Time

type testAPI struct {
	r     *gin.Engine
	store *repo.MemoryStore
	llm   *llm.MockClient
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repo.NewMemoryStore()
	mock := &llm.MockClient{Reply: func(_ context.Context, c llm.Call) (string, error) {
		return "reply to " + c.UserMessage, nil
	}}
	h := New(services.NewChatServices(store, mock))

	r := gin.New()
	mount(r, h)
	return &testAPI{r: r, store: store, llm: mock}
}

func mount(r *gin.Engine, h *Handlers) {
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-test")
		c.Next()
	})
	api := r.Group("/api")
	api.POST("/conversations", h.CreateConversation)
	api.GET("/conversations", h.ListConversations)
	api.GET("/conversations/:id", h.GetConversation)
	api.GET("/conversations/:id/messages", h.ListMessages)
	api.DELETE("/conversations/:id", h.DeleteConversation)
	api.POST("/chat", h.PostChat)
	api.GET("/languages", h.ListLanguages)
}

func (a *testAPI) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(a.r, method, path, body, headers...)
}

func serve(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %T: %v (body=%s)", out, err, w.Body.String())
	}
	return out
}

// wireMessage mirrors the JSON shape of domain.Message.
type wireMessage struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
	IsUser         bool   `json:"isUser"`
	Role           string `json:"role"`
	Language       string `json:"language"`
	CreatedAt      string `json:"createdAt"`
}

type wireTurn struct {
	ConversationID string      `json:"conversationId"`
	UserMessage    wireMessage `json:"userMessage"`
	AIMessage      wireMessage `json:"aiMessage"`
}

// errConvSvc fails every call with err.
type errConvSvc struct{ err error }

func (s errConvSvc) Create(context.Context, string, string) (*domain.Conversation, error) {
	return nil, s.err
}
func (s errConvSvc) List(context.Context) ([]domain.Conversation, error) { return nil, s.err }
func (s errConvSvc) Get(context.Context, string) (*domain.Conversation, error) {
	return nil, s.err
}
func (s errConvSvc) Messages(context.Context, string) ([]domain.Message, error) {
	return nil, s.err
}
func (s errConvSvc) Delete(context.Context, string) error { return s.err }
