package generation

import "errors"

// Common errors returned by chat generators.
var (
	// ErrGenerationFailed is returned when a reply could not be produced for
	// any general reason.
	ErrGenerationFailed = errors.New("failed to generate chat reply")

	// ErrInvalidResponse is returned when the model response is empty or malformed.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due to
	// safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry.
	ErrTransientFailure = errors.New("transient error during chat generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrUnsupportedProvider is returned for a chat model provider without a
	// generator implementation.
	ErrUnsupportedProvider = errors.New("unsupported chat model provider")

	// ErrInvalidConversation is returned when the messages of a chat request
	// cannot be sent to a model.
	ErrInvalidConversation = errors.New("invalid conversation")
)
