package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/morena-chat/internal/domain"
	"github.com/tbourn/morena-chat/internal/llm"
)

// Completer is the text-completion collaborator. *llm.Client and
// *llm.MockClient satisfy it.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []llm.Turn, userMessage string) (string, error)
}

// ChatTurnRequest is one incoming user message.
type ChatTurnRequest struct {
	Message        string
	ConversationID string // empty starts a new conversation
	Language       string // empty means "en"
}

// ChatTurn is the result of a completed turn.
type ChatTurn struct {
	ConversationID string          `json:"conversationId"`
	UserMessage    *domain.Message `json:"userMessage"`
	AIMessage      *domain.Message `json:"aiMessage"`
}

// ChatOrchestrator runs the chat turn: resolve the conversation, persist the
// user message, assemble history, call the completion service and persist the
// reply. Turns on the same conversation are serialized.
type ChatOrchestrator struct {
	Store ConversationStore
	LLM   Completer

	// HistoryLimit caps the number of prior turns sent to the model; the most
	// recent ones are kept. 0 sends the whole conversation.
	HistoryLimit int

	// TitleRunes is the implicit-title prefix length (default 50).
	TitleRunes int

	// Locks is held for the whole turn. Share it with the ConversationService
	// so deletes wait for in-flight turns on the same conversation.
	Locks *KeyedMutex
}

// NewChatOrchestrator constructs a ChatOrchestrator with default settings and
// its own lock table.
func NewChatOrchestrator(store ConversationStore, completer Completer) *ChatOrchestrator {
	return &ChatOrchestrator{
		Store:      store,
		LLM:        completer,
		TitleRunes: DefaultTitleRunes,
		Locks:      &KeyedMutex{},
	}
}

// NewChatServices builds the conversation service and the chat orchestrator
// over one store and one lock table.
func NewChatServices(store ConversationStore, completer Completer) (*ConversationService, *ChatOrchestrator) {
	convs := NewConversationService(store)
	chat := NewChatOrchestrator(store, completer)
	chat.Locks = convs.Locks
	return convs, chat
}

// HandleTurn processes one chat turn.
//
// A blank message yields ErrEmptyMessage and touches nothing. A supplied
// ConversationID that does not exist yields ErrConversationNotFound. When the
// completion service fails, the user message stays stored and the returned
// error wraps ErrCompletionFailed.
func (o *ChatOrchestrator) HandleTurn(ctx context.Context, req ChatTurnRequest) (*ChatTurn, error) {
	lang := domain.NormalizeLanguage(req.Language)

	tr := otel.Tracer("services/ChatOrchestrator")
	ctx, span := tr.Start(ctx, "HandleTurn",
		trace.WithAttributes(
			attribute.String("conversation.id", req.ConversationID),
			attribute.String("chat.language", lang),
			attribute.Bool("conversation.new", req.ConversationID == ""),
		),
	)
	defer span.End()

	turn, outcome, err := o.handleTurn(ctx, req.Message, req.ConversationID, lang)
	chatTurns.WithLabelValues(outcome).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}
	span.SetAttributes(attribute.String("conversation.id", turn.ConversationID))
	return turn, nil
}

func (o *ChatOrchestrator) handleTurn(ctx context.Context, message, conversationID, lang string) (*ChatTurn, string, error) {
	log := zerolog.Ctx(ctx)

	if strings.TrimSpace(message) == "" {
		return nil, outcomeRejected, ErrEmptyMessage
	}

	if conversationID == "" {
		conv, err := o.Store.CreateConversation(ctx, DeriveTitle(message, o.TitleRunes), lang)
		if err != nil {
			return nil, outcomeStoreFailed, storeErr("create conversation", err)
		}
		conversationID = conv.ID
		log.Debug().Str("conversation_id", conv.ID).Msg("conversation started")
	}

	unlock := o.Locks.Lock(conversationID)
	defer unlock()

	if _, err := lookupConversation(ctx, o.Store, conversationID); err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			return nil, outcomeRejected, err
		}
		return nil, outcomeStoreFailed, err
	}

	o.noteLanguage(ctx, message, lang)

	userMsg, err := o.Store.CreateMessage(ctx, conversationID, message, domain.RoleUser, lang)
	if err != nil {
		return nil, outcomeStoreFailed, storeErr("create user message", err)
	}

	all, err := o.Store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, outcomeStoreFailed, storeErr("list messages", err)
	}
	history := BuildHistory(all, userMsg.ID, o.HistoryLimit)
	historyTurns.Observe(float64(len(history)))

	start := time.Now()
	reply, err := o.LLM.Complete(ctx, SystemPrompt(lang), history, message)
	if err != nil {
		completionLatency.WithLabelValues("error").Observe(time.Since(start).Seconds())
		log.Error().Err(err).
			Str("conversation_id", conversationID).
			Str("user_message_id", userMsg.ID).
			Msg("completion failed; user message kept")
		return nil, outcomeCompletionFailed, fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}
	completionLatency.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	outcome := outcomeOK
	if strings.TrimSpace(reply) == "" {
		reply = FallbackReply
		outcome = outcomeFallback
		log.Warn().Str("conversation_id", conversationID).Msg("empty completion; using fallback reply")
	}

	aiMsg, err := o.Store.CreateMessage(ctx, conversationID, reply, domain.RoleAssistant, lang)
	if err != nil {
		return nil, outcomeStoreFailed, storeErr("create assistant message", err)
	}

	return &ChatTurn{
		ConversationID: conversationID,
		UserMessage:    userMsg,
		AIMessage:      aiMsg,
	}, outcome, nil
}

// noteLanguage records when the message looks like a different language than
// the one requested. It never changes the turn.
func (o *ChatOrchestrator) noteLanguage(ctx context.Context, message, lang string) {
	hint := detectLanguage(message)
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("chat.detected_language", hint.Code),
		attribute.String("chat.detected_language_name", hint.Name),
		attribute.Float64("chat.detected_confidence", hint.Confidence),
	)
	if !hint.mismatches(lang) {
		return
	}

	requested := lang
	if _, known := domain.LookupLanguage(lang); !known {
		requested = "other"
	}
	languageMismatch.WithLabelValues(requested, hint.Code).Inc()
	zerolog.Ctx(ctx).Debug().
		Str("requested", lang).
		Str("detected", hint.Code).
		Str("detected_name", hint.Name).
		Float64("confidence", hint.Confidence).
		Msg("message language differs from requested language")
}

// BuildHistory projects stored messages (oldest first) into completion turns,
// dropping the message with id exclude. A positive limit keeps only the most
// recent limit turns.
func BuildHistory(msgs []domain.Message, exclude string, limit int) []llm.Turn {
	prior := lo.Filter(msgs, func(m domain.Message, _ int) bool { return m.ID != exclude })
	if limit > 0 && len(prior) > limit {
		prior = prior[len(prior)-limit:]
	}
	return lo.Map(prior, func(m domain.Message, _ int) llm.Turn {
		return llm.Turn{Content: m.Content, IsUser: m.IsUser()}
	})
}
