package api

import "github.com/phrazzld/instarag/internal/config"

// MessageResponse is the body of the API root.
type MessageResponse map[string]string

// HealthResponse is the body of the health and readiness probes.
type HealthResponse struct {
	Result string `json:"result"`
}

// ModelSummary describes a configured model without its credentials.
type ModelSummary struct {
	// Kind is chat, embeddings or image_generation.
	Kind      string `json:"kind"`
	Provider  string `json:"provider,omitempty"`
	ModelName string `json:"model_name,omitempty"`
}

// AppDetailsResponse is the public view of the application configuration.
type AppDetailsResponse struct {
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Version     string          `json:"version"`
	Authors     []config.Author `json:"authors"`
	Tags        []string        `json:"tags"`
	Theme       config.Theme    `json:"theme"`
	Models      []ModelSummary  `json:"models"`
	Sources     []config.Source `json:"sources"`
}

// ChatMessage is one turn of a chat request or reply.
type ChatMessage struct {
	Role    string `json:"role"    validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest defines the payload of POST /api/chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

// ChatResponse is the reply of POST /api/chat.
type ChatResponse struct {
	Message ChatMessage `json:"message"`
	Model   string      `json:"model,omitempty"`
}
