// Package config loads the application configuration document, resolves the
// secret placeholders embedded in it, validates it against the configuration
// schema and freezes the result into an immutable Config value.
//
// The pipeline runs once per process:
//
//	file -> Parse -> ResolveSecrets -> Validate -> *Config
//
// Every failure is reported as a *Error whose Kind identifies the stage that
// failed. Schema failures list every violated constraint with its field path.
//
// The package also holds ServerConfig, the launcher settings (listen address,
// logging) read from flags and INSTARAG_ environment variables.
package config
