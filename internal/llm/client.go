// Package llm talks to an OpenAI-compatible chat-completions endpoint.
//
// The Client is deliberately thin: it turns a persona prompt, the prior turns
// of a conversation and the current user message into one completion request
// and returns the generated text. Retries, streaming and tool calls are not
// supported.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second

	// maxErrorBody bounds how much of a failed response body is kept on StatusError.
	maxErrorBody = 512
)

// Turn is one prior message of a conversation as seen by the model.
type Turn struct {
	Content string
	IsUser  bool
}

// Role maps the turn to a chat-completions role.
func (t Turn) Role() string {
	if t.IsUser {
		return "user"
	}
	return "assistant"
}

// ErrEmptyAPIKey is returned by Complete when the client has no credentials.
var ErrEmptyAPIKey = errors.New("llm: api key is empty")

// StatusError reports a non-2xx answer from the provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: provider returned status %d", e.StatusCode)
}

// APIError is an error object embedded in an otherwise successful response.
type APIError struct {
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("llm: %s: %s", e.Type, e.Message)
	}
	return "llm: " + e.Message
}

// Options configures a Client. Empty BaseURL, Model, MaxTokens and Timeout
// fall back to the Default* constants; Temperature is sent as given.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration

	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is an OpenAI-compatible completion client. It is safe for
// concurrent use.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	http        *http.Client
}

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:     base,
		apiKey:      opts.APIKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: opts.Temperature,
		http:        hc,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Complete sends systemPrompt, history (oldest first) and userMessage as one
// chat-completions request. A response without a usable choice yields
// ("", nil); callers decide what to substitute.
func (c *Client) Complete(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error) {
	tr := otel.Tracer("llm/Client")
	ctx, span := tr.Start(ctx, "Complete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.model", c.model),
			attribute.Int("llm.history_len", len(history)),
			attribute.Int("llm.max_tokens", c.maxTokens),
		),
	)
	defer span.End()

	out, err := c.complete(ctx, systemPrompt, history, userMessage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("llm.reply_len", len(out)))
	return out, nil
}

func (c *Client) complete(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error) {
	if c.apiKey == "" {
		return "", ErrEmptyAPIKey
	}

	msgs := make([]chatMessage, 0, len(history)+2)
	msgs = append(msgs, chatMessage{Role: "system", Content: systemPrompt})
	msgs = append(msgs, lo.Map(history, func(t Turn, _ int) chatMessage {
		return chatMessage{Role: t.Role(), Content: t.Content}
	})...)
	msgs = append(msgs, chatMessage{Role: "user", Content: userMessage})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    msgs,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response: %w", err)
	}

	log := zerolog.Ctx(ctx)
	log.Debug().
		Str("model", c.model).
		Int("status", resp.StatusCode).
		Int("messages", len(msgs)).
		Dur("latency", time.Since(start)).
		Msg("llm completion")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(raw)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return "", &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if cr.Error != nil {
		return "", &APIError{Type: cr.Error.Type, Message: cr.Error.Message}
	}
	if len(cr.Choices) == 0 {
		return "", nil
	}
	return cr.Choices[0].Message.Content, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
