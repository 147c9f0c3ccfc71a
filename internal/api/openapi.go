package api

import (
	"github.com/phrazzld/instarag/internal/config"
)

// OpenAPIVersion is the version of the generated document format.
const OpenAPIVersion = "3.0.3"

// BuildOpenAPI returns a minimal OpenAPI document describing the routes of
// the server, with the info section taken from cfg.
func BuildOpenAPI(cfg *config.Config) map[string]any {
	info := map[string]any{
		"title":       cfg.Title(),
		"description": cfg.Description(),
		"version":     cfg.Version(),
	}
	if authors := cfg.Authors(); len(authors) > 0 {
		info["contact"] = map[string]any{"name": authors[0].Name, "email": authors[0].Email}
	}

	return map[string]any{
		"openapi": OpenAPIVersion,
		"info":    info,
		"paths": map[string]any{
			"/api/": map[string]any{
				"get": operation("Greeting", "Greeting message"),
			},
			"/api/healthz": map[string]any{
				"get": operation("Liveness probe", "Server is alive"),
			},
			"/api/readz": map[string]any{
				"get": operation("Readiness probe", "Server is ready"),
			},
			"/api/app/details": map[string]any{
				"get": operation("Application details", "Public application configuration"),
			},
			"/api/chat": map[string]any{
				"post": map[string]any{
					"summary": "Answer a conversation with the configured chat model",
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{
								"schema": map[string]any{"$ref": "#/components/schemas/ChatRequest"},
							},
						},
					},
					"responses": map[string]any{
						"200": map[string]any{"description": "Assistant reply"},
						"400": map[string]any{"description": "Malformed request"},
						"501": map[string]any{"description": "No chat model configured"},
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"ChatMessage": map[string]any{
					"type":     "object",
					"required": []string{"role", "content"},
					"properties": map[string]any{
						"role":    map[string]any{"type": "string", "enum": []string{"system", "user", "assistant"}},
						"content": map[string]any{"type": "string"},
					},
				},
				"ChatRequest": map[string]any{
					"type":     "object",
					"required": []string{"messages"},
					"properties": map[string]any{
						"messages": map[string]any{
							"type":     "array",
							"minItems": 1,
							"items":    map[string]any{"$ref": "#/components/schemas/ChatMessage"},
						},
					},
				},
			},
		},
	}
}

func operation(summary, description string) map[string]any {
	return map[string]any{
		"summary": summary,
		"responses": map[string]any{
			"200": map[string]any{"description": description},
		},
	}
}
