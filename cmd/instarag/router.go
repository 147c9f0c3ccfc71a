package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/instarag/internal/api"
	apiMiddleware "github.com/phrazzld/instarag/internal/api/middleware"
)

// setupRouter registers the API, the OpenAPI document and the chat page.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	appHandler := api.NewAppHandler(app.config)
	chatHandler := api.NewChatHandler(app.generator, app.chatModel, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", api.Hello)
		r.Get("/healthz", api.Healthz)
		r.Get("/readz", api.Readz)
		r.Get("/app/details", appHandler.Details)
		r.Get("/openapi.json", appHandler.OpenAPI)
		r.Post("/chat", chatHandler.Chat)
	})

	r.Method(http.MethodGet, "/", app.page)

	return r
}
