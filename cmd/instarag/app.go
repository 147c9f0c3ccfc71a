package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/instarag/internal/config"
	"github.com/phrazzld/instarag/internal/generation"
	"github.com/phrazzld/instarag/internal/platform/gemini"
	"github.com/phrazzld/instarag/internal/ui"
)

// application holds the dependencies shared by the HTTP handlers.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	generator generation.ChatGenerator
	chatModel string
	page      *ui.Renderer
}

// newApplication wires the loaded configuration into handler dependencies.
// A chat model from an unsupported provider leaves chat disabled.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	page, err := ui.NewRenderer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare chat page: %w", err)
	}

	app := &application{
		config: cfg,
		logger: logger,
		page:   page,
	}

	chat := cfg.Models().Chat
	switch {
	case chat == nil:
		logger.Info("no chat model configured, chat endpoint disabled")
	case gemini.Supports(*chat):
		generator, err := gemini.NewGenerator(ctx, logger.With("component", "chat_generator"), *chat)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat generator: %w", err)
		}
		app.generator = generator
		app.chatModel = generator.Model()
	case strings.TrimSpace(chat.Provider) == "":
		logger.Warn("chat model has no provider, set provider: gemini to enable chat",
			"model", chat.ModelName)
	default:
		logger.Warn("chat provider not supported, chat endpoint disabled",
			"provider", chat.Provider,
			"model", chat.ModelName)
	}

	return app, nil
}
