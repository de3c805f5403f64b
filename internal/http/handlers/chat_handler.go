package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/morena-chat/internal/domain"
	"github.com/tbourn/morena-chat/internal/services"
)

// ChatRequest is the JSON payload for sending a chat message.
type ChatRequest struct {
	// Message is the user's text; it must not be blank.
	Message string `json:"message" example:"Sawubona! Ungangitshela ngoNelson Mandela?"`
	// ConversationID continues an existing conversation; omit to start one.
	ConversationID string `json:"conversationId,omitempty" binding:"omitempty,max=64" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// Language is the reply language code; defaults to "en".
	Language string `json:"language,omitempty" binding:"omitempty,max=16" example:"zu"`
}

// PostChat godoc
// @ID          postChat
// @Summary     Send a chat message
// @Description Stores the user message, asks the assistant for a reply in the requested language, and stores the reply.
// @Description A new conversation is created when conversationId is omitted. On completion failure the user message stays stored.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.ChatRequest  true  "Chat payload"
// @Success     200   {object}  services.ChatTurn
// @Header      200   {string}  Content-Language  "BCP-47 tag of the reply language"
// @Failure     400   {object}  handlers.ErrorResponse  "Empty message, oversized field or invalid JSON"
// @Failure     404   {object}  handlers.ErrorResponse  "Conversation not found"
// @Failure     500   {object}  handlers.ErrorResponse  "Completion or store failure"
// @Router      /chat [post]
func (h *Handlers) PostChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, chatBindMessage(err))
		return
	}

	turn, err := h.chatSvc.HandleTurn(c.Request.Context(), services.ChatTurnRequest{
		Message:        req.Message,
		ConversationID: req.ConversationID,
		Language:       req.Language,
	})
	if err != nil {
		failService(c, err)
		return
	}

	c.Header("Content-Language", domain.ContentLanguage(turn.AIMessage.Language))
	ok(c, http.StatusOK, turn)
}

var chatRequestFields = map[string]string{
	"ConversationID": "conversationId",
	"Language":       "language",
}

// chatBindMessage names the offending field for validation failures and
// falls back to a generic message for malformed JSON.
func chatBindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid JSON body"
	}
	fe := verrs[0]
	name, ok := chatRequestFields[fe.Field()]
	if !ok {
		name = fe.Field()
	}
	if fe.Tag() == "max" {
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	}
	return name + " is invalid"
}
