package config

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrorMessages verifies the message format of each error kind.
func TestErrorMessages(t *testing.T) {
	testCases := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "file access",
			err:  &Error{Kind: KindFileAccess, Path: "/etc/instarag.config.yaml", Err: fs.ErrNotExist},
			want: "configuration file not found: /etc/instarag.config.yaml: file does not exist",
		},
		{
			name: "document parse",
			err:  &Error{Kind: KindDocumentParse, Path: "/a.yaml", Err: errors.New("yaml: line 2: bad")},
			want: "error parsing YAML file /a.yaml: yaml: line 2: bad",
		},
		{
			name: "secret replacement",
			err: &Error{
				Kind:        KindSecretReplacement,
				Field:       "models.chat.credentials.api_key",
				Placeholder: "$KEY",
				Err:         errors.New("secret value is map, expected a scalar"),
			},
			want: "failed to replace placeholder $KEY at models.chat.credentials.api_key: secret value is map, expected a scalar",
		},
		{
			name: "schema validation",
			err: &Error{
				Kind: KindSchemaValidation,
				Violations: []Violation{
					{Field: "name", Rule: "required", Message: "is required"},
					{Field: "theme.mode", Rule: "enum", Message: "must be one of: light, dark, system"},
				},
			},
			want: "schema validation failed with 2 violation(s)\n" +
				"  - name: is required\n" +
				"  - theme.mode: must be one of: light, dark, system",
		},
		{
			name: "schema validation without violations",
			err:  &Error{Kind: KindSchemaValidation, Err: errors.New("loader failed")},
			want: "schema validation failed: loader failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

// TestErrorUnwrap verifies matching against both kind sentinels and causes.
func TestErrorUnwrap(t *testing.T) {
	err := error(&Error{Kind: KindFileAccess, Path: "/x", Err: fs.ErrNotExist})

	assert.True(t, errors.Is(err, ErrFileAccess))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, errors.Is(err, ErrDocumentParse))

	wrapped := errors.Join(errors.New("startup"), err)
	cfgErr, ok := AsError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindFileAccess, cfgErr.Kind)

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
}

// TestKindString verifies the kind names used in logs.
func TestKindString(t *testing.T) {
	assert.Equal(t, "file_access", KindFileAccess.String())
	assert.Equal(t, "document_parse", KindDocumentParse.String())
	assert.Equal(t, "secret_replacement", KindSecretReplacement.String())
	assert.Equal(t, "schema_validation", KindSchemaValidation.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestViolationString(t *testing.T) {
	assert.Equal(t, "name: is required", Violation{Field: "name", Message: "is required"}.String())
	assert.Equal(t, "bad document", Violation{Message: "bad document"}.String())
}
