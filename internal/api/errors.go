package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/instarag/internal/api/shared"
	"github.com/phrazzld/instarag/internal/generation"
)

// ErrChatUnavailable is returned when no chat generator is configured.
var ErrChatUnavailable = errors.New("chat model not configured")

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, generation.ErrInvalidConversation):
		return http.StatusBadRequest

	case errors.Is(err, ErrChatUnavailable),
		errors.Is(err, generation.ErrUnsupportedProvider):
		return http.StatusNotImplemented

	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-friendly error message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, generation.ErrInvalidConversation):
		return "Invalid conversation"
	case errors.Is(err, ErrChatUnavailable):
		return "Chat is not available for this application"
	case errors.Is(err, generation.ErrUnsupportedProvider):
		return "The configured chat provider is not supported"
	case errors.Is(err, generation.ErrContentBlocked):
		return "The request was blocked by the model's safety filters"
	case errors.Is(err, generation.ErrTransientFailure):
		return "The chat model is temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return "The chat model did not answer in time"
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return "The chat model returned an invalid response"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a short message
// naming the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	field := fe.Namespace()
	// Drop the root struct name, e.g. "ChatRequest.messages[0].role".
	for i := 0; i < len(field); i++ {
		if field[i] == '.' {
			field = field[i+1:]
			break
		}
	}
	return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error envelope for err. An empty userMessage is
// replaced by GetSafeErrorMessage(err).
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), userMessage, err)
}
