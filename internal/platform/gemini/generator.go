package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/phrazzld/instarag/internal/config"
	"github.com/phrazzld/instarag/internal/generation"
	"google.golang.org/genai"
)

// ProviderName is the chat model provider served by this package.
const ProviderName = "gemini"

// Defaults applied when the configuration leaves them out.
const (
	DefaultModel      = "gemini-2.0-flash"
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// Gemini roles. The API knows only "user" and "model" turns; system
// messages travel as the system instruction.
const (
	roleUser  = "user"
	roleModel = "model"
)

// contentGenerator is the subset of *genai.Models used by Generator.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Generator answers chat conversations with a Gemini model.
type Generator struct {
	logger     *slog.Logger
	models     contentGenerator
	model      string
	maxRetries int
	retryDelay time.Duration
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRetry sets the retry budget and the base backoff delay.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(g *Generator) {
		g.maxRetries = maxRetries
		g.retryDelay = baseDelay
	}
}

// NewGenerator creates a Generator for the chat model spec.
//
// The spec must name the gemini provider and carry an API key. An
// empty model name selects DefaultModel.
func NewGenerator(ctx context.Context, logger *slog.Logger, spec config.ModelSpec, opts ...Option) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  spec.Credentials.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, client.Models, modelName(spec), opts...), nil
}

func newGenerator(logger *slog.Logger, models contentGenerator, model string, opts ...Option) *Generator {
	g := &Generator{
		logger:     logger.With("component", "gemini", "model", model),
		models:     models,
		model:      model,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.maxRetries < 0 {
		g.maxRetries = DefaultMaxRetries
	}
	if g.retryDelay <= 0 {
		g.retryDelay = DefaultRetryDelay
	}
	return g
}

// Supports reports whether spec explicitly selects this provider. A model
// without a provider is not assumed to be a Gemini model.
func Supports(spec config.ModelSpec) bool {
	return strings.EqualFold(strings.TrimSpace(spec.Provider), ProviderName)
}

func validateSpec(spec config.ModelSpec) error {
	if !Supports(spec) {
		return fmt.Errorf("%w: %q", generation.ErrUnsupportedProvider, spec.Provider)
	}
	if strings.TrimSpace(spec.Credentials.APIKey) == "" {
		return fmt.Errorf("%w: API key cannot be empty", generation.ErrInvalidConfig)
	}
	return nil
}

func modelName(spec config.ModelSpec) string {
	if name := strings.TrimSpace(spec.ModelName); name != "" {
		return name
	}
	return DefaultModel
}

// Model returns the model name requests are sent to.
func (g *Generator) Model() string { return g.model }

// Chat implements generation.ChatGenerator.
func (g *Generator) Chat(ctx context.Context, messages []generation.Message) (string, error) {
	if err := generation.ValidateConversation(messages); err != nil {
		return "", err
	}
	contents, cfg := buildRequest(messages)

	for attempt := 0; ; attempt++ {
		g.logger.DebugContext(ctx, "calling Gemini API",
			"attempt", attempt+1,
			"max_attempts", g.maxRetries+1,
			"turns", len(contents))

		reply, err := g.generate(ctx, contents, cfg)
		if err == nil {
			return reply, nil
		}
		if !errors.Is(err, generation.ErrTransientFailure) {
			g.logger.WarnContext(ctx, "permanent error from Gemini API, not retrying", "error", err)
			return "", err
		}
		if attempt >= g.maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, g.maxRetries, err)
		}

		delay := g.backoff(attempt)
		g.logger.InfoContext(ctx, "retrying Gemini API call after delay",
			"attempt", attempt+1,
			"delay", delay,
			"error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// generate performs one API call and classifies its failure.
func (g *Generator) generate(
	ctx context.Context,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %w", generation.ErrGenerationFailed, ctx.Err())
		}
		return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}
	return extractReply(resp)
}

// backoff returns baseDelay * 2^attempt scaled by a jitter factor in [0.5, 1).
func (g *Generator) backoff(attempt int) time.Duration {
	exp := float64(g.retryDelay) * math.Pow(2, float64(attempt))
	return time.Duration(exp * (0.5 + rand.Float64()*0.5))
}

// buildRequest converts a conversation into Gemini contents and config.
func buildRequest(messages []generation.Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	var system []*genai.Part
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		part := &genai.Part{Text: m.Content}
		switch m.Role {
		case generation.RoleSystem:
			system = append(system, part)
		case generation.RoleAssistant:
			contents = append(contents, &genai.Content{Role: roleModel, Parts: []*genai.Part{part}})
		default:
			contents = append(contents, &genai.Content{Role: roleUser, Parts: []*genai.Part{part}})
		}
	}

	if len(system) == 0 {
		return contents, nil
	}
	return contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: system},
	}
}

// extractReply returns the text of the first candidate.
func extractReply(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: no text in response", generation.ErrInvalidResponse)
	}
	return b.String(), nil
}
