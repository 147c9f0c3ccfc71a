// Package logger configures structured logging for the launcher.
//
// It uses the standard library log/slog package with JSON or text output and
// a configurable level. MaskingHandler wraps any handler so that known secret
// values never reach the log output.
package logger
