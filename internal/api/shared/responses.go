// Package shared holds the request and response helpers used by every HTTP
// handler: JSON encoding, the error envelope and trace ID propagation.
package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/instarag/internal/platform/logger"
	"github.com/phrazzld/instarag/internal/redact"
)

// ErrorResponse is the JSON envelope of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	// Code mirrors the HTTP status for logging; it is not serialized.
	Code    int    `json:"-"`
	TraceID string `json:"trace_id,omitempty"`
}

// RespondWithJSON encodes data as the response body with the given status.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode JSON response",
			"error", err)
	}
}

// RespondWithError replies with the error envelope carrying message and the
// request's trace ID.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logger.FromContext(r.Context()).DebugContext(r.Context(), "sending error response",
		requestAttrs(r, status)...)
	writeError(w, r, status, message)
}

// RespondWithErrorAndLog replies like RespondWithError and logs err in
// redacted form. The raw error string never reaches the client. Server
// errors are logged at ERROR level, client errors at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	attrs := append(requestAttrs(r, status), slog.String("user_message", userMessage))
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(), level, "API error response", attrs...)

	writeError(w, r, status, userMessage)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   message,
		Code:    status,
		TraceID: GetTraceID(r.Context()),
	})
}

func requestAttrs(r *http.Request, status int) []slog.Attr {
	return []slog.Attr{
		slog.String("trace_id", GetTraceID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status_code", status),
	}
}
