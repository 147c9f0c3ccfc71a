package api

import (
	"net/http"

	"github.com/phrazzld/instarag/internal/api/shared"
)

// Hello handles GET /api/.
func Hello(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{"Hello": "World"})
}

// Healthz handles GET /api/healthz. The process is alive when it can answer.
func Healthz(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Result: "ok"})
}

// Readz handles GET /api/readz. The server only starts once the
// configuration is Ready, so answering means ready.
func Readz(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Result: "ok"})
}
