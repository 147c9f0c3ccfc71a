package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/instarag/internal/api/shared"
	"github.com/phrazzld/instarag/internal/generation"
)

// ChatHandler handles chat requests.
type ChatHandler struct {
	generator generation.ChatGenerator
	model     string
	logger    *slog.Logger
}

// NewChatHandler creates a ChatHandler. A nil generator makes every request
// answer 501 Not Implemented.
func NewChatHandler(generator generation.ChatGenerator, model string, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		generator: generator,
		model:     model,
		logger:    logger.With("handler", "chat"),
	}
}

// Chat handles POST /api/chat requests.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		HandleAPIError(w, r, ErrChatUnavailable, "")
		return
	}

	var req ChatRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	messages := make([]generation.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = generation.Message{Role: generation.Role(m.Role), Content: m.Content}
	}

	reply, err := h.generator.Chat(r.Context(), messages)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.logger.DebugContext(r.Context(), "chat reply generated",
		"trace_id", shared.GetTraceID(r.Context()),
		"turns", len(messages),
		"reply_length", len(reply))

	shared.RespondWithJSON(w, r, http.StatusOK, ChatResponse{
		Message: ChatMessage{Role: string(generation.RoleAssistant), Content: reply},
		Model:   h.model,
	})
}
