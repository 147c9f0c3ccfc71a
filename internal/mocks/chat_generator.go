package mocks

import (
	"context"
	"slices"
	"sync"

	"github.com/phrazzld/instarag/internal/generation"
)

// MockChatGenerator implements generation.ChatGenerator for testing.
type MockChatGenerator struct {
	// ChatFn overrides the default behavior when set.
	ChatFn func(ctx context.Context, messages []generation.Message) (string, error)

	// Default response values
	Reply string
	Err   error

	mu    sync.Mutex
	calls [][]generation.Message
}

// NewMockChatGenerator returns a mock that answers every call with reply.
func NewMockChatGenerator(reply string) *MockChatGenerator {
	return &MockChatGenerator{Reply: reply}
}

// Chat implements generation.ChatGenerator.
func (m *MockChatGenerator) Chat(ctx context.Context, messages []generation.Message) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, slices.Clone(messages))
	m.mu.Unlock()

	if m.ChatFn != nil {
		return m.ChatFn(ctx, messages)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// CallCount returns the number of Chat calls.
func (m *MockChatGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastMessages returns the conversation of the most recent call, or nil.
func (m *MockChatGenerator) LastMessages() []generation.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return slices.Clone(m.calls[len(m.calls)-1])
}

// Reset clears the recorded calls.
func (m *MockChatGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

var _ generation.ChatGenerator = (*MockChatGenerator)(nil)
