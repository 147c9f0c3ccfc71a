package api

import (
	"net/http"

	"github.com/phrazzld/instarag/internal/api/shared"
	"github.com/phrazzld/instarag/internal/config"
)

// AppHandler serves views of the application configuration.
type AppHandler struct {
	details AppDetailsResponse
	openapi map[string]any
}

// NewAppHandler precomputes the responses for cfg, which never changes.
func NewAppHandler(cfg *config.Config) *AppHandler {
	return &AppHandler{
		details: newAppDetails(cfg),
		openapi: BuildOpenAPI(cfg),
	}
}

// Details handles GET /api/app/details.
func (h *AppHandler) Details(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.details)
}

// OpenAPI handles GET /api/openapi.json.
func (h *AppHandler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.openapi)
}

func newAppDetails(cfg *config.Config) AppDetailsResponse {
	masker := cfg.SecretMasker()
	sources := cfg.Sources()
	for i := range sources {
		sources[i].Data = masker.Mask(sources[i].Data)
	}

	tags := cfg.Tags()
	if tags == nil {
		tags = []string{}
	}

	return AppDetailsResponse{
		Name:        cfg.Name(),
		Title:       cfg.Title(),
		Description: cfg.Description(),
		Version:     cfg.Version(),
		Authors:     cfg.Authors(),
		Tags:        tags,
		Theme:       cfg.Theme(),
		Models:      SummarizeModels(cfg.Models()),
		Sources:     sources,
	}
}

// SummarizeModels lists the configured models in chat, embeddings,
// image_generation order.
func SummarizeModels(m config.Models) []ModelSummary {
	summaries := make([]ModelSummary, 0, 3)
	if m.Chat != nil {
		summaries = append(summaries, summarize("chat", *m.Chat))
	}
	summaries = append(summaries, summarize("embeddings", m.Embeddings))
	if m.ImageGeneration != nil {
		summaries = append(summaries, summarize("image_generation", *m.ImageGeneration))
	}
	return summaries
}

func summarize(kind string, spec config.ModelSpec) ModelSummary {
	return ModelSummary{Kind: kind, Provider: spec.Provider, ModelName: spec.ModelName}
}
