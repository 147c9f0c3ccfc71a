// Package ui renders the HTML landing page of a configured application.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/phrazzld/instarag/internal/config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// ModelOption is one entry of the model selection list.
type ModelOption struct {
	Kind     string
	Label    string
	Selected bool
}

// Page is the data rendered into the landing page.
type Page struct {
	Title       string
	Description string
	Version     string
	Theme       config.ThemeMode
	Logo        string
	Readme      string
	Authors     []config.Author
	Tags        []string
	Models      []ModelOption
	ChatEnabled bool
}

// Renderer serves the landing page for one configuration.
type Renderer struct {
	page Page
	html []byte
}

// NewRenderer prepares the page for cfg. The configuration is immutable, so
// the HTML is rendered once.
func NewRenderer(cfg *config.Config) (*Renderer, error) {
	page := NewPage(cfg)
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return &Renderer{page: page, html: buf.Bytes()}, nil
}

// NewPage builds the page data for cfg.
func NewPage(cfg *config.Config) Page {
	theme := cfg.Theme()
	models := cfg.Models()
	return Page{
		Title:       cfg.Title(),
		Description: cfg.Description(),
		Version:     cfg.Version(),
		Theme:       theme.Mode,
		Logo:        theme.Logo,
		Readme:      theme.Readme,
		Authors:     cfg.Authors(),
		Tags:        cfg.Tags(),
		Models:      modelOptions(models),
		ChatEnabled: models.Chat != nil,
	}
}

// Page returns the data the HTML was rendered from.
func (r *Renderer) Page() Page { return r.page }

// ServeHTTP writes the landing page.
func (r *Renderer) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(r.html)
}

// modelOptions lists the configured models; the chat model, when present,
// is selected.
func modelOptions(m config.Models) []ModelOption {
	var opts []ModelOption
	if m.Chat != nil {
		opts = append(opts, ModelOption{Kind: "chat", Label: label("Chat", *m.Chat), Selected: true})
	}
	opts = append(opts, ModelOption{Kind: "embeddings", Label: label("Embeddings", m.Embeddings)})
	if m.ImageGeneration != nil {
		opts = append(opts, ModelOption{Kind: "image_generation", Label: label("Image generation", *m.ImageGeneration)})
	}
	return opts
}

func label(kind string, spec config.ModelSpec) string {
	switch {
	case spec.Provider != "" && spec.ModelName != "":
		return fmt.Sprintf("%s: %s (%s)", kind, spec.ModelName, spec.Provider)
	case spec.ModelName != "":
		return fmt.Sprintf("%s: %s", kind, spec.ModelName)
	case spec.Provider != "":
		return fmt.Sprintf("%s (%s)", kind, spec.Provider)
	default:
		return kind
	}
}
