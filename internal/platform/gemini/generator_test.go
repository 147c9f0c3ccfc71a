package gemini

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/instarag/internal/config"
	"github.com/phrazzld/instarag/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeModels records requests and replays scripted responses.
type fakeModels struct {
	mu        sync.Mutex
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     int
	model     string
	contents  []*genai.Content
	config    *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls
	f.calls++
	f.model, f.contents, f.config = model, contents, cfg

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var resp *genai.GenerateContentResponse
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	return resp, err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content}},
	}
}

func testGenerator(models contentGenerator) *Generator {
	return newGenerator(slog.New(slog.DiscardHandler), models, "test-model", WithRetry(2, time.Millisecond))
}

var userTurn = []generation.Message{{Role: generation.RoleUser, Content: "What is RAG?"}}

// TestNewGeneratorValidation verifies constructor checks on the model spec.
func TestNewGeneratorValidation(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name    string
		logger  *slog.Logger
		spec    config.ModelSpec
		wantErr error
	}{
		{
			name:    "missing API key",
			logger:  logger,
			spec:    config.ModelSpec{Provider: "gemini"},
			wantErr: generation.ErrInvalidConfig,
		},
		{
			name:    "missing provider",
			logger:  logger,
			spec:    config.ModelSpec{Credentials: config.Credentials{APIKey: "sk-openai"}},
			wantErr: generation.ErrUnsupportedProvider,
		},
		{
			name:    "other provider",
			logger:  logger,
			spec:    config.ModelSpec{Provider: "openai", Credentials: config.Credentials{APIKey: "k"}},
			wantErr: generation.ErrUnsupportedProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGenerator(ctx, tt.logger, tt.spec)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("nil logger", func(t *testing.T) {
		g, err := NewGenerator(ctx, nil, config.ModelSpec{Provider: "gemini", Credentials: config.Credentials{APIKey: "k"}})
		assert.Nil(t, g)
		assert.ErrorContains(t, err, "logger cannot be nil")
	})

	t.Run("valid spec uses default model", func(t *testing.T) {
		g, err := NewGenerator(ctx, logger, config.ModelSpec{
			Provider:    "Gemini",
			Credentials: config.Credentials{APIKey: "test-key"},
		})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, g.Model())
	})
}

func TestSupports(t *testing.T) {
	assert.False(t, Supports(config.ModelSpec{}), "an empty provider must be explicit")
	assert.False(t, Supports(config.ModelSpec{Provider: "  "}))
	assert.True(t, Supports(config.ModelSpec{Provider: " GEMINI "}))
	assert.False(t, Supports(config.ModelSpec{Provider: "openai"}))
}

// TestChatReturnsReply verifies a successful exchange and request shape.
func TestChatReturnsReply(t *testing.T) {
	models := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("Retrieval ", "augmented generation.")}}
	g := testGenerator(models)

	reply, err := g.Chat(context.Background(), []generation.Message{
		{Role: generation.RoleSystem, Content: "Answer briefly."},
		{Role: generation.RoleUser, Content: "Hi"},
		{Role: generation.RoleAssistant, Content: "Hello!"},
		{Role: generation.RoleUser, Content: "What is RAG?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Retrieval augmented generation.", reply)

	assert.Equal(t, 1, models.calls)
	assert.Equal(t, "test-model", models.model)
	require.Len(t, models.contents, 3)
	assert.Equal(t, "user", models.contents[0].Role)
	assert.Equal(t, "model", models.contents[1].Role)
	assert.Equal(t, "What is RAG?", models.contents[2].Parts[0].Text)

	require.NotNil(t, models.config)
	require.NotNil(t, models.config.SystemInstruction)
	assert.Equal(t, "Answer briefly.", models.config.SystemInstruction.Parts[0].Text)
}

// TestChatRejectsInvalidConversation verifies that nothing is sent for an
// invalid conversation.
func TestChatRejectsInvalidConversation(t *testing.T) {
	models := &fakeModels{}
	_, err := testGenerator(models).Chat(context.Background(), nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConversation)
	assert.Zero(t, models.calls)
}

// TestChatRetriesTransientErrors verifies the retry loop.
func TestChatRetriesTransientErrors(t *testing.T) {
	t.Run("recovers after failures", func(t *testing.T) {
		models := &fakeModels{
			errs:      []error{errors.New("503"), errors.New("503"), nil},
			responses: []*genai.GenerateContentResponse{nil, nil, textResponse("ok")},
		}
		reply, err := testGenerator(models).Chat(context.Background(), userTurn)
		require.NoError(t, err)
		assert.Equal(t, "ok", reply)
		assert.Equal(t, 3, models.calls)
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		models := &fakeModels{errs: []error{errors.New("a"), errors.New("b"), errors.New("c"), errors.New("d")}}
		_, err := testGenerator(models).Chat(context.Background(), userTurn)
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
		assert.ErrorContains(t, err, "exceeded maximum retry attempts (2)")
		assert.Equal(t, 3, models.calls)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		models := &fakeModels{errs: []error{errors.New("a")}}
		g := newGenerator(slog.New(slog.DiscardHandler), models, "m", WithRetry(5, time.Hour))

		done := make(chan error, 1)
		go func() {
			_, err := g.Chat(ctx, userTurn)
			done <- err
		}()
		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, generation.ErrTransientFailure)
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("Chat did not return after cancellation")
		}
	})
}

// TestChatPermanentFailures verifies responses that are not retried.
func TestChatPermanentFailures(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		wantErr error
	}{
		{
			name:    "nil response",
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name: "blocked by safety filters",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonSafety,
			}}},
			wantErr: generation.ErrContentBlocked,
		},
		{
			name:    "blank text",
			resp:    textResponse("  "),
			wantErr: generation.ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			models := &fakeModels{responses: []*genai.GenerateContentResponse{tt.resp}}
			_, err := testGenerator(models).Chat(context.Background(), userTurn)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, models.calls)
		})
	}
}

func TestBackoffGrowsExponentially(t *testing.T) {
	g := newGenerator(slog.New(slog.DiscardHandler), &fakeModels{}, "m", WithRetry(3, 100*time.Millisecond))
	for attempt, base := range []time.Duration{100, 200, 400} {
		d := g.backoff(attempt)
		assert.GreaterOrEqual(t, d, base*time.Millisecond/2)
		assert.Less(t, d, base*time.Millisecond)
	}
}
