package llm

import (
	"context"
	"sync"
)

// Call captures the arguments of one MockClient.Complete invocation.
type Call struct {
	SystemPrompt string
	History      []Turn
	UserMessage  string
}

// MockClient is a scripted completer for tests and local runs without a
// provider. Reply, when set, takes precedence over Response.
type MockClient struct {
	Response string
	Err      error
	Reply    func(ctx context.Context, c Call) (string, error)

	mu    sync.Mutex
	calls []Call
}

func (m *MockClient) Complete(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error) {
	c := Call{
		SystemPrompt: systemPrompt,
		History:      append([]Turn(nil), history...),
		UserMessage:  userMessage,
	}
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()

	if m.Reply != nil {
		return m.Reply(ctx, c)
	}
	return m.Response, m.Err
}

// Calls returns a copy of the recorded invocations.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}
