package config

import (
	"fmt"
	"sort"
	"strings"
)

// SecretsKey is the reserved top-level key holding the secret table.
const SecretsKey = "secrets"

// PlaceholderPrefix starts every secret placeholder, as in "$OPENAI_KEY".
const PlaceholderPrefix = "$"

// Secret is one declared secret.
type Secret struct {
	Name  string
	Value string

	// invalid records the node kind of a value that cannot be substituted
	// (null, map or sequence). Zero for usable values.
	invalid string
}

// Placeholder returns the token that references the secret.
func (s Secret) Placeholder() string {
	return PlaceholderPrefix + s.Name
}

// SecretTable is the ordered set of secrets declared by a document.
type SecretTable struct {
	secrets []Secret
}

// NewSecretTable builds a table from name/value pairs, keeping their order.
// Later duplicates replace earlier values.
func NewSecretTable(secrets ...Secret) SecretTable {
	t := SecretTable{}
	for _, s := range secrets {
		t.put(s)
	}
	return t
}

func (t *SecretTable) put(s Secret) {
	for i := range t.secrets {
		if t.secrets[i].Name == s.Name {
			t.secrets[i] = s
			return
		}
	}
	t.secrets = append(t.secrets, s)
}

// Len returns the number of declared secrets.
func (t SecretTable) Len() int { return len(t.secrets) }

// Names returns the declared secret names in declaration order.
func (t SecretTable) Names() []string {
	names := make([]string, len(t.secrets))
	for i, s := range t.secrets {
		names[i] = s.Name
	}
	return names
}

// Values returns the usable secret values in declaration order.
func (t SecretTable) Values() []string {
	values := make([]string, 0, len(t.secrets))
	for _, s := range t.secrets {
		if s.invalid == "" {
			values = append(values, s.Value)
		}
	}
	return values
}

// Lookup returns the value of the named secret.
func (t SecretTable) Lookup(name string) (string, bool) {
	for _, s := range t.secrets {
		if s.Name == name && s.invalid == "" {
			return s.Value, true
		}
	}
	return "", false
}

// ExtractSecrets reads the secret table from the top-level "secrets" mapping
// of doc. A missing or non-mapping "secrets" value yields an empty table; the
// schema validator reports that shape separately.
//
// Numbers and booleans are used with the text they were written as, so "007"
// and "0x1F" stay as written rather than becoming 7 and 31. Null, mapping and
// sequence values are kept as unusable entries so that referencing them fails
// with a SecretReplacementError.
func ExtractSecrets(doc *MapNode) SecretTable {
	t := SecretTable{}
	if doc == nil {
		return t
	}
	raw, ok := doc.Get(SecretsKey)
	if !ok {
		return t
	}
	m, ok := raw.(*MapNode)
	if !ok {
		return t
	}

	for _, e := range m.Entries {
		s := Secret{Name: e.Key}
		switch v := e.Value.(type) {
		case *ScalarNode:
			if v.Value == nil {
				s.invalid = describe(v)
			} else {
				s.Value = secretText(v)
			}
		default:
			s.invalid = describe(v)
		}
		t.put(s)
	}
	return t
}

// secretText returns the source text of a non-null scalar secret.
func secretText(v *ScalarNode) string {
	if str, ok := v.Value.(string); ok {
		return str
	}
	if v.Text != "" {
		return v.Text
	}
	return scalarText(v.Value)
}

// ResolveSecrets returns a copy of doc in which every placeholder of a
// declared secret is replaced with the secret's value. The input tree is not
// modified.
//
// Placeholders are matched in a single left-to-right scan of each string. At
// each "$" the longest declared secret name that matches wins, so "$DB_HOST"
// resolves to DB_HOST even when DB is also declared. Text produced by a
// substitution is never rescanned. Placeholders that match no declared
// secret are left untouched.
//
// The "secrets" mapping is scanned like every other key.
func ResolveSecrets(doc Node, table SecretTable) (Node, error) {
	if doc == nil {
		return nil, nil
	}
	r := newResolver(table)
	if len(r.placeholders) == 0 {
		return doc, nil
	}
	return r.resolve(doc, "")
}

type placeholder struct {
	token   string
	value   string
	invalid string
}

type resolver struct {
	// placeholders sorted longest token first.
	placeholders []placeholder
}

func newResolver(table SecretTable) *resolver {
	r := &resolver{placeholders: make([]placeholder, 0, table.Len())}
	for _, s := range table.secrets {
		if s.Name == "" {
			continue
		}
		r.placeholders = append(r.placeholders, placeholder{
			token:   s.Placeholder(),
			value:   s.Value,
			invalid: s.invalid,
		})
	}
	sort.SliceStable(r.placeholders, func(i, j int) bool {
		return len(r.placeholders[i].token) > len(r.placeholders[j].token)
	})
	return r
}

func (r *resolver) resolve(n Node, path string) (Node, error) {
	switch v := n.(type) {
	case *MapNode:
		out := &MapNode{Entries: make([]MapEntry, len(v.Entries))}
		for i, e := range v.Entries {
			value, err := r.resolve(e.Value, childPath(path, e.Key))
			if err != nil {
				return nil, err
			}
			out.Entries[i] = MapEntry{Key: e.Key, Value: value}
		}
		return out, nil
	case *SequenceNode:
		out := &SequenceNode{Items: make([]Node, len(v.Items))}
		for i, item := range v.Items {
			value, err := r.resolve(item, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out.Items[i] = value
		}
		return out, nil
	case *ScalarNode:
		s, ok := v.Value.(string)
		if !ok {
			return &ScalarNode{Value: v.Value, Text: v.Text}, nil
		}
		replaced, err := r.replace(s, path)
		if err != nil {
			return nil, err
		}
		return &ScalarNode{Value: replaced, Text: replaced}, nil
	default:
		return nil, &Error{
			Kind:  KindSecretReplacement,
			Field: path,
			Err:   fmt.Errorf("unsupported node type %T", n),
		}
	}
}

func (r *resolver) replace(s, path string) (string, error) {
	next := strings.Index(s, PlaceholderPrefix)
	if next < 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for next >= 0 {
		b.WriteString(s[:next])
		s = s[next:]

		p := r.match(s)
		if p == nil {
			b.WriteString(PlaceholderPrefix)
			s = s[len(PlaceholderPrefix):]
		} else {
			if p.invalid != "" {
				return "", &Error{
					Kind:        KindSecretReplacement,
					Field:       path,
					Placeholder: p.token,
					Err:         fmt.Errorf("secret value is %s, expected a scalar", p.invalid),
				}
			}
			b.WriteString(p.value)
			s = s[len(p.token):]
		}
		next = strings.Index(s, PlaceholderPrefix)
	}
	b.WriteString(s)
	return b.String(), nil
}

// match returns the longest placeholder that prefixes s.
func (r *resolver) match(s string) *placeholder {
	for i := range r.placeholders {
		if strings.HasPrefix(s, r.placeholders[i].token) {
			return &r.placeholders[i]
		}
	}
	return nil
}
