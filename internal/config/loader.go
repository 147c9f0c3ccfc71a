package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFilename is the configuration file used when no path is given.
const DefaultFilename = "instarag.config.yaml"

// State is the position of a Loader in its load cycle.
type State int

// Load cycle states. Ready and Failed are terminal.
const (
	StateUnloaded State = iota
	StateParsing
	StateSecretResolving
	StateValidating
	StateReady
	StateFailed
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateParsing:
		return "parsing"
	case StateSecretResolving:
		return "secret_resolving"
	case StateValidating:
		return "validating"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loader runs one configuration load cycle:
// Unloaded -> Parsing -> SecretResolving -> Validating -> Ready | Failed.
//
// A Loader is single use: once a cycle has started, further calls to Load
// return ErrLoaderUsed. Retrying with a corrected file needs a new Loader.
type Loader struct {
	logger *slog.Logger
	opts   []ValidateOption

	mu    sync.Mutex
	state State
	path  string
	cfg   *Config
	err   error
}

// Config returns the loaded configuration once the Loader is Ready.
func (l *Loader) Config() (*Config, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg, l.state == StateReady
}

// Err returns the failure of a Loader in the Failed state.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// NewLoader creates a Loader. A nil logger discards log output.
func NewLoader(logger *slog.Logger, opts ...ValidateOption) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		logger: logger,
		opts:   opts,
		state:  StateUnloaded,
	}
}

// Load reads, resolves and validates the configuration file at path. The
// path may be absolute or relative to the working directory.
func (l *Loader) Load(path string) (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateUnloaded {
		return nil, fmt.Errorf("%w: state %s", ErrLoaderUsed, l.state)
	}
	l.path = path

	cfg, err := l.run(path)
	if err != nil {
		l.err = err
		l.transition(StateFailed)
		return nil, err
	}
	l.cfg = cfg
	l.transition(StateReady)
	return cfg, nil
}

// State returns the current load cycle state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loader) run(path string) (*Config, error) {
	l.transition(StateParsing)
	resolved, data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, &Error{Kind: KindDocumentParse, Path: resolved, Err: err}
	}

	l.transition(StateSecretResolving)
	secrets := ExtractSecrets(doc)
	l.logger.Debug("resolving secret placeholders", "secrets", secrets.Len())
	out, err := ResolveSecrets(doc, secrets)
	if err != nil {
		var cfgErr *Error
		if errors.As(err, &cfgErr) {
			cfgErr.Path = resolved
			return nil, cfgErr
		}
		return nil, &Error{Kind: KindSecretReplacement, Path: resolved, Err: err}
	}

	l.transition(StateValidating)
	cfg, err := Validate(out.(*MapNode), l.opts...)
	if err != nil {
		var cfgErr *Error
		if errors.As(err, &cfgErr) {
			cfgErr.Path = resolved
			return nil, cfgErr
		}
		return nil, &Error{Kind: KindSchemaValidation, Path: resolved, Err: err}
	}
	return cfg, nil
}

func (l *Loader) transition(next State) {
	l.logger.Debug("configuration load state changed",
		"from", l.state.String(),
		"to", next.String(),
		"path", l.path)
	l.state = next
}

// readFile resolves path against the working directory and reads it.
func readFile(path string) (string, []byte, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return path, nil, &Error{Kind: KindFileAccess, Path: path, Err: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return resolved, nil, &Error{Kind: KindFileAccess, Path: resolved, Err: err}
	}
	if !info.Mode().IsRegular() {
		return resolved, nil, &Error{
			Kind: KindFileAccess,
			Path: resolved,
			Err:  errors.New("not a regular file"),
		}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return resolved, nil, &Error{Kind: KindFileAccess, Path: resolved, Err: err}
	}
	return resolved, data, nil
}

// Load runs a full load cycle for path with a fresh Loader.
func Load(path string, opts ...ValidateOption) (*Config, error) {
	return NewLoader(nil, opts...).Load(path)
}
