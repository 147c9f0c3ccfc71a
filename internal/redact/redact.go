// Package redact removes credentials from strings before they are logged,
// printed as diagnostics or returned in error responses.
//
// String applies a fixed set of credential patterns. SecretMasker replaces
// the exact values declared in a configuration's secrets mapping.
package redact

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
)

// Redaction placeholders.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedSecretPlaceholder     = "[REDACTED_SECRET]"
)

var (
	// Connection strings with embedded user info.
	connStringRegex = regexp.MustCompile(
		`(?i)(postgres|postgresql|mysql|mongodb|redis|amqp|db|database|connection)://[^@\s]+@`,
	)

	// Credentials and tokens
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`)
	apiKeyRegex   = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|key|access|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)
	// Model provider keys: OpenAI style "sk-" and Google API keys.
	providerKeyRegex = regexp.MustCompile(`\b(sk-[A-Za-z0-9_\-]{16,}|AIza[0-9A-Za-z_\-]{35})`)
	awsKeyRegex      = regexp.MustCompile(`(AKIA|AccessKey(Id)?)([^a-zA-Z0-9])?[A-Z0-9]{8,}`)
	jwtTokenRegex    = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	patterns = []struct {
		re          *regexp.Regexp
		placeholder string
	}{
		{connStringRegex, RedactedCredentialPlaceholder},
		{passwordRegex, RedactedCredentialPlaceholder},
		{apiKeyRegex, RedactedKeyPlaceholder},
		{providerKeyRegex, RedactedKeyPlaceholder},
		{awsKeyRegex, RedactedKeyPlaceholder},
		{jwtTokenRegex, "[REDACTED_JWT]"},
	}
)

// String redacts credential-like substrings from input.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, p := range patterns {
		result = p.re.ReplaceAllString(result, p.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// MinSecretLength is the shortest value a SecretMasker will mask. Shorter
// values such as "1" or "on" would corrupt unrelated text.
const MinSecretLength = 4

// SecretMasker replaces known secret values with RedactedSecretPlaceholder.
// The zero value and a nil *SecretMasker mask nothing.
type SecretMasker struct {
	replacer *strings.Replacer
	count    int
}

// NewSecretMasker builds a masker for values. Empty, duplicate and too short
// values are ignored. When one value contains another, the longer one is
// masked as a whole.
func NewSecretMasker(values ...string) *SecretMasker {
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if len(v) < MinSecretLength || slices.Contains(unique, v) {
			continue
		}
		unique = append(unique, v)
	}
	if len(unique) == 0 {
		return &SecretMasker{}
	}

	// strings.Replacer tries old strings in argument order at each position.
	slices.SortStableFunc(unique, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	oldnew := make([]string, 0, 2*len(unique))
	for _, v := range unique {
		oldnew = append(oldnew, v, RedactedSecretPlaceholder)
	}
	return &SecretMasker{replacer: strings.NewReplacer(oldnew...), count: len(unique)}
}

// Len reports how many distinct values are masked.
func (m *SecretMasker) Len() int {
	if m == nil {
		return 0
	}
	return m.count
}

// Mask replaces every known secret value in s.
func (m *SecretMasker) Mask(s string) string {
	if m == nil || m.replacer == nil || s == "" {
		return s
	}
	return m.replacer.Replace(s)
}

// Error masks the output of err.Error().
func (m *SecretMasker) Error(err error) string {
	if err == nil {
		return ""
	}
	return m.Mask(err.Error())
}
