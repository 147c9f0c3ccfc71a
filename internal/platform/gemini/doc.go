// Package gemini implements generation.ChatGenerator on top of Google's
// Gemini API through the google.golang.org/genai client.
//
// A Generator is built from the chat model of the application configuration.
// Transient API failures are retried with exponential backoff and jitter;
// blocked or empty responses are returned immediately.
package gemini
