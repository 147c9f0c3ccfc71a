package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *MapNode {
	t.Helper()
	doc, err := Parse([]byte(src))
	require.NoError(t, err, "fixture should parse")
	return doc
}

// collectStrings returns every string scalar of the tree.
func collectStrings(n Node) []string {
	switch v := n.(type) {
	case *MapNode:
		var out []string
		for _, e := range v.Entries {
			out = append(out, collectStrings(e.Value)...)
		}
		return out
	case *SequenceNode:
		var out []string
		for _, item := range v.Items {
			out = append(out, collectStrings(item)...)
		}
		return out
	case *ScalarNode:
		if s, ok := v.Value.(string); ok {
			return []string{s}
		}
	}
	return nil
}

// TestExtractSecrets verifies how the secret table is built from the
// "secrets" mapping.
func TestExtractSecrets(t *testing.T) {
	t.Run("scalar values keep declaration order", func(t *testing.T) {
		doc := mustParse(t, `
secrets:
  OPENAI_KEY: sk-test
  PORT: 5432
  DEBUG: true
`)
		table := ExtractSecrets(doc)
		assert.Equal(t, []string{"OPENAI_KEY", "PORT", "DEBUG"}, table.Names())
		assert.Equal(t, []string{"sk-test", "5432", "true"}, table.Values())

		value, ok := table.Lookup("PORT")
		require.True(t, ok)
		assert.Equal(t, "5432", value)
	})

	t.Run("missing secrets key yields empty table", func(t *testing.T) {
		table := ExtractSecrets(mustParse(t, "name: demo\n"))
		assert.Zero(t, table.Len())
	})

	t.Run("non-mapping secrets yields empty table", func(t *testing.T) {
		table := ExtractSecrets(mustParse(t, "secrets: [a, b]\n"))
		assert.Zero(t, table.Len())
	})

	t.Run("structured values are not usable", func(t *testing.T) {
		table := ExtractSecrets(mustParse(t, `
secrets:
  NESTED:
    inner: value
  EMPTY:
  OK: fine
`))
		assert.Equal(t, []string{"NESTED", "EMPTY", "OK"}, table.Names())
		assert.Equal(t, []string{"fine"}, table.Values())
		_, ok := table.Lookup("NESTED")
		assert.False(t, ok)
	})
}

// TestResolveSecretsKeepsLiteralText verifies that number-like and boolean
// secrets are inserted exactly as written in the document.
func TestResolveSecretsKeepsLiteralText(t *testing.T) {
	doc := mustParse(t, `
secrets:
  A: 0x1F
  B: 1.0
  C: 007
  D: yes
  E: True
x: $A-$B-$C-$D-$E
`)
	table := ExtractSecrets(doc)
	assert.Equal(t, []string{"0x1F", "1.0", "007", "yes", "True"}, table.Values())

	out, err := ResolveSecrets(doc, table)
	require.NoError(t, err)
	x, ok := out.(*MapNode).Get("x")
	require.True(t, ok)
	assert.Equal(t, "0x1F-1.0-007-yes-True", x.Interface())
}

// TestResolveSecretsWithoutPlaceholdersIsIdentity verifies that a document
// without placeholders resolves to an equal tree.
func TestResolveSecretsWithoutPlaceholdersIsIdentity(t *testing.T) {
	doc := mustParse(t, `
name: demo
price: 12.5
enabled: false
nothing: ~
list: [a, {b: [c, 1]}]
secrets:
  KEY: value
`)
	out, err := ResolveSecrets(doc, ExtractSecrets(doc))
	require.NoError(t, err)
	assert.Equal(t, doc.Interface(), out.Interface())

	out, err = ResolveSecrets(doc, SecretTable{})
	require.NoError(t, err)
	assert.Equal(t, doc.Interface(), out.Interface())
}

// TestResolveSecretsReplacesEveryOccurrence verifies substitution at any
// depth, several placeholders per string and repeated use across the tree.
func TestResolveSecretsReplacesEveryOccurrence(t *testing.T) {
	doc := mustParse(t, `
secrets:
  OPENAI_KEY: sk-test
  HOST: db.internal
models:
  embeddings:
    credentials:
      api_key: $OPENAI_KEY
pipelines:
  - stages:
      - name: fetch
        args: ["--key=$OPENAI_KEY", "--host=$HOST", ["$OPENAI_KEY/$OPENAI_KEY"]]
  - - url: postgres://$HOST:5432/$HOST
`)
	out, err := ResolveSecrets(doc, ExtractSecrets(doc))
	require.NoError(t, err)

	for _, s := range collectStrings(out) {
		assert.NotContains(t, s, "$OPENAI_KEY")
		assert.NotContains(t, s, "$HOST")
	}

	data := out.Interface().(map[string]any)
	assert.Equal(t, "sk-test",
		data["models"].(map[string]any)["embeddings"].(map[string]any)["credentials"].(map[string]any)["api_key"])

	stages := data["pipelines"].([]any)[0].(map[string]any)["stages"].([]any)
	args := stages[0].(map[string]any)["args"].([]any)
	assert.Equal(t, "--key=sk-test", args[0])
	assert.Equal(t, "--host=db.internal", args[1])
	assert.Equal(t, []any{"sk-test/sk-test"}, args[2])

	url := data["pipelines"].([]any)[1].([]any)[0].(map[string]any)["url"]
	assert.Equal(t, "postgres://db.internal:5432/db.internal", url)
}

// TestResolveSecretsLeavesUndeclaredPlaceholders verifies that placeholders
// without a declared secret pass through verbatim.
func TestResolveSecretsLeavesUndeclaredPlaceholders(t *testing.T) {
	doc := mustParse(t, `
secrets:
  KNOWN: k
value: "$KNOWN $UNKNOWN $ $$ cost: 5$"
`)
	out, err := ResolveSecrets(doc, ExtractSecrets(doc))
	require.NoError(t, err)

	value, ok := out.(*MapNode).Get("value")
	require.True(t, ok)
	assert.Equal(t, "k $UNKNOWN $ $$ cost: 5$", value.Interface())
}

// TestResolveSecretsPrefersLongestName verifies the policy for secret names
// that prefix each other: the longest declared name matching at a position
// wins, whatever the declaration order.
func TestResolveSecretsPrefersLongestName(t *testing.T) {
	testCases := []struct {
		name    string
		secrets []Secret
	}{
		{
			name:    "short name declared first",
			secrets: []Secret{{Name: "DB", Value: "d"}, {Name: "DB_HOST", Value: "h"}},
		},
		{
			name:    "long name declared first",
			secrets: []Secret{{Name: "DB_HOST", Value: "h"}, {Name: "DB", Value: "d"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := NewMap(
				Entry("a", NewScalar("$DB_HOST:$DB")),
				Entry("b", NewScalar("$DB_HOSTNAME")),
				Entry("c", NewScalar("$DBX")),
			)
			out, err := ResolveSecrets(doc, NewSecretTable(tc.secrets...))
			require.NoError(t, err)
			assert.Equal(t, map[string]any{
				"a": "h:d",
				"b": "hNAME",
				"c": "dX",
			}, out.Interface())
		})
	}
}

// TestResolveSecretsDoesNotRescanSubstitutions verifies that a secret value
// containing another placeholder is inserted literally.
func TestResolveSecretsDoesNotRescanSubstitutions(t *testing.T) {
	table := NewSecretTable(Secret{Name: "A", Value: "$B"}, Secret{Name: "B", Value: "b"})
	out, err := ResolveSecrets(NewMap(Entry("v", NewScalar("$A-$B"))), table)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"v": "$B-b"}, out.Interface())
}

// TestResolveSecretsScansSecretsMapping verifies that the "secrets" mapping
// is rewritten like every other key.
func TestResolveSecretsScansSecretsMapping(t *testing.T) {
	doc := mustParse(t, `
secrets:
  USER: admin
  DSN: postgres://$USER@localhost
`)
	out, err := ResolveSecrets(doc, ExtractSecrets(doc))
	require.NoError(t, err)

	secrets, ok := out.(*MapNode).Get("secrets")
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"USER": "admin",
		"DSN":  "postgres://admin@localhost",
	}, secrets.Interface())
}

// TestResolveSecretsDoesNotModifyInput verifies that resolution is a pure
// transformation.
func TestResolveSecretsDoesNotModifyInput(t *testing.T) {
	doc := mustParse(t, `
secrets:
  KEY: sk-test
list:
  - $KEY
  - nested:
      key: $KEY
`)
	before := doc.Interface()

	out, err := ResolveSecrets(doc, ExtractSecrets(doc))
	require.NoError(t, err)
	assert.NotEqual(t, before, out.Interface())
	assert.Equal(t, before, doc.Interface())

	again, err := ResolveSecrets(doc, ExtractSecrets(doc))
	require.NoError(t, err)
	assert.Equal(t, out.Interface(), again.Interface())
}

// TestResolveSecretsRejectsStructuredSecrets verifies that referencing a
// secret whose value is not a scalar aborts the whole resolution.
func TestResolveSecretsRejectsStructuredSecrets(t *testing.T) {
	doc := mustParse(t, `
secrets:
  GOOD: fine
  NESTED:
    inner: value
first: $GOOD
models:
  chat:
    credentials:
      api_key: $NESTED
last: $GOOD
`)
	out, err := ResolveSecrets(doc, ExtractSecrets(doc))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, ErrSecretReplacement))

	cfgErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindSecretReplacement, cfgErr.Kind)
	assert.Equal(t, "$NESTED", cfgErr.Placeholder)
	assert.Equal(t, "models.chat.credentials.api_key", cfgErr.Field)
	assert.True(t, strings.Contains(cfgErr.Error(), "map"))
}

// TestResolveSecretsIgnoresUnreferencedStructuredSecrets verifies that an
// unusable secret is only an error when it is referenced.
func TestResolveSecretsIgnoresUnreferencedStructuredSecrets(t *testing.T) {
	doc := mustParse(t, `
secrets:
  NESTED: [a, b]
  EMPTY:
value: plain
`)
	_, err := ResolveSecrets(doc, ExtractSecrets(doc))
	assert.NoError(t, err)
}
