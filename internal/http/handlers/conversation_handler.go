// Conversation HTTP handlers.
//
// This file exposes REST endpoints for conversation resources:
//   - POST   /conversations                (create)
//   - GET    /conversations                (list newest first, ETag support)
//   - GET    /conversations/{id}           (point lookup)
//   - GET    /conversations/{id}/messages  (history oldest first, ETag support)
//   - DELETE /conversations/{id}           (cascading delete)
//
// Handlers are transport-thin: they bind input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/morena-chat/internal/domain"
	"github.com/tbourn/morena-chat/internal/services"
)

//
// Service contracts (context-aware)
//

// ConversationService defines conversation operations consumed by handlers.
type ConversationService interface {
	Create(ctx context.Context, title, language string) (*domain.Conversation, error)
	List(ctx context.Context) ([]domain.Conversation, error)
	Get(ctx context.Context, id string) (*domain.Conversation, error)
	Messages(ctx context.Context, id string) ([]domain.Message, error)
	Delete(ctx context.Context, id string) error
}

// ChatService runs one chat turn.
type ChatService interface {
	HandleTurn(ctx context.Context, req services.ChatTurnRequest) (*services.ChatTurn, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for conversations, chat and languages.
type Handlers struct {
	convSvc ConversationService
	chatSvc ChatService
}

// New constructs a Handlers instance bound to the given services.
func New(convSvc ConversationService, chatSvc ChatService) *Handlers {
	return &Handlers{convSvc: convSvc, chatSvc: chatSvc}
}

//
// DTOs
//

// CreateConversationRequest is the JSON payload for creating a conversation.
type CreateConversationRequest struct {
	// Title labels the conversation (1–255 chars).
	Title string `json:"title" binding:"required,max=255" example:"Ubuntu philosophy"`
	// Language is one of the catalog codes; defaults to "en".
	Language string `json:"language" binding:"omitempty,max=16" example:"zu"`
}

//
// Handlers
//

// CreateConversation godoc
// @ID          createConversation
// @Summary     Create a conversation
// @Description Creates an empty conversation with the given title and language.
// @Tags        Conversations
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreateConversationRequest  true  "Create conversation payload"
// @Success     200   {object}  domain.Conversation
// @Failure     400   {object}  handlers.ErrorResponse  "Invalid conversation data"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations [post]
func (h *Handlers) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid conversation data")
		return
	}

	conv, err := h.convSvc.Create(c.Request.Context(), req.Title, req.Language)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, conv)
}

// ListConversations godoc
// @ID          listConversations
// @Summary     List conversations
// @Description Returns every conversation, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Conversations
// @Produce     json
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {array}   domain.Conversation
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations [get]
func (h *Handlers) ListConversations(c *gin.Context) {
	items, err := h.convSvc.List(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}

	etag := weakETag("conversations", "all", 0, "", time.Time{})
	if len(items) > 0 {
		etag = weakETag("conversations", "all", len(items), items[0].ID, items[0].CreatedAt)
	}
	if notModified(c, etag) {
		c.Status(http.StatusNotModified)
		return
	}
	ok(c, http.StatusOK, items)
}

// GetConversation godoc
// @ID          getConversation
// @Summary     Get a conversation
// @Tags        Conversations
// @Produce     json
// @Param       id   path      string  true  "Conversation ID"  format(uuid)
// @Success     200  {object}  domain.Conversation
// @Failure     404  {object}  handlers.ErrorResponse  "Conversation not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations/{id} [get]
func (h *Handlers) GetConversation(c *gin.Context) {
	conv, err := h.convSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, conv)
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List a conversation's messages
// @Description Returns the conversation's messages in chronological order. Supports weak ETag via If-None-Match.
// @Tags        Messages
// @Produce     json
// @Param       id             path    string  true   "Conversation ID"  format(uuid)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {array}   domain.Message
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     404  {object}  handlers.ErrorResponse  "Conversation not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	id := c.Param("id")
	msgs, err := h.convSvc.Messages(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}

	etag := weakETag("messages", id, 0, "", time.Time{})
	if n := len(msgs); n > 0 {
		etag = weakETag("messages", id, n, msgs[n-1].ID, msgs[n-1].CreatedAt)
	}
	if notModified(c, etag) {
		c.Status(http.StatusNotModified)
		return
	}
	ok(c, http.StatusOK, msgs)
}

// DeleteConversation godoc
// @ID          deleteConversation
// @Summary     Delete a conversation
// @Description Deletes the conversation and all of its messages. Unknown ids succeed.
// @Tags        Conversations
// @Produce     json
// @Param       id   path      string  true  "Conversation ID"  format(uuid)
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations/{id} [delete]
func (h *Handlers) DeleteConversation(c *gin.Context) {
	if err := h.convSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, SuccessResponse{Success: true})
}
