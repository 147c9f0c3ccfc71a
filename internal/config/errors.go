package config

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a configuration failure by the pipeline stage it came from.
type Kind int

const (
	// KindFileAccess means the configuration path is not a readable file.
	KindFileAccess Kind = iota + 1
	// KindDocumentParse means the file is not a well-formed YAML mapping.
	KindDocumentParse
	// KindSecretReplacement means a placeholder could not be substituted.
	KindSecretReplacement
	// KindSchemaValidation means one or more fields violate the schema.
	KindSchemaValidation
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindFileAccess:
		return "file_access"
	case KindDocumentParse:
		return "document_parse"
	case KindSecretReplacement:
		return "secret_replacement"
	case KindSchemaValidation:
		return "schema_validation"
	default:
		return "unknown"
	}
}

// Sentinel errors matched by errors.Is against a *Error of the same Kind.
var (
	ErrFileAccess        = errors.New("configuration file not accessible")
	ErrDocumentParse     = errors.New("configuration document malformed")
	ErrSecretReplacement = errors.New("secret placeholder replacement failed")
	ErrSchemaValidation  = errors.New("configuration schema validation failed")

	// ErrLoaderUsed is returned when Load is called on a Loader that already
	// ran its load cycle.
	ErrLoaderUsed = errors.New("configuration loader already used")
)

// Violation is a single failed schema constraint.
type Violation struct {
	// Field is the dotted/indexed path of the offending value,
	// e.g. "authors[0].email".
	Field string `json:"field"`
	// Rule names the constraint, e.g. "required", "enum", "invalid_type".
	Rule string `json:"rule"`
	// Message is a human readable description.
	Message string `json:"message"`
}

// String renders the violation as "field: message".
func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}
	return v.Field + ": " + v.Message
}

// Error is the single error type produced by the configuration pipeline.
type Error struct {
	Kind Kind
	// Path is the configuration file involved, when known.
	Path string
	// Field is the document location of a secret replacement failure.
	Field string
	// Placeholder is the offending token of a secret replacement failure.
	Placeholder string
	// Violations lists every schema violation of a validation failure.
	Violations []Violation
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	switch e.Kind {
	case KindFileAccess:
		fmt.Fprintf(&b, "configuration file not found: %s", e.Path)
	case KindDocumentParse:
		b.WriteString("error parsing YAML file")
		if e.Path != "" {
			fmt.Fprintf(&b, " %s", e.Path)
		}
	case KindSecretReplacement:
		fmt.Fprintf(&b, "failed to replace placeholder %s", e.Placeholder)
		if e.Field != "" {
			fmt.Fprintf(&b, " at %s", e.Field)
		}
	case KindSchemaValidation:
		if len(e.Violations) == 0 {
			b.WriteString("schema validation failed")
			break
		}
		fmt.Fprintf(&b, "schema validation failed with %d violation(s)", len(e.Violations))
		for _, v := range e.Violations {
			b.WriteString("\n  - ")
			b.WriteString(v.String())
		}
		return b.String()
	default:
		b.WriteString("configuration error")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause to
// errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (k Kind) sentinel() error {
	switch k {
	case KindFileAccess:
		return ErrFileAccess
	case KindDocumentParse:
		return ErrDocumentParse
	case KindSecretReplacement:
		return ErrSecretReplacement
	case KindSchemaValidation:
		return ErrSchemaValidation
	default:
		return nil
	}
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var cfgErr *Error
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}
