package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// rootContext is the schema context name of the document root.
const rootContext = "(root)"

// ValidateOption customizes schema validation.
type ValidateOption func(*validateOptions)

type validateOptions struct {
	requireChatModel bool
}

// WithChatModelRequired makes models.chat a required field.
func WithChatModelRequired() ValidateOption {
	return func(opts *validateOptions) {
		opts.requireChatModel = true
	}
}

var (
	schemaOnce    sync.Once
	schemaDefault *gojsonschema.Schema
	schemaChat    *gojsonschema.Schema
	schemaErr     error
)

// compiledSchema returns the compiled schema for the given options.
func compiledSchema(opts validateOptions) (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schemaDefault, schemaErr = compileSchema(false)
		if schemaErr != nil {
			return
		}
		schemaChat, schemaErr = compileSchema(true)
	})
	if schemaErr != nil {
		return nil, schemaErr
	}
	if opts.requireChatModel {
		return schemaChat, nil
	}
	return schemaDefault, nil
}

func compileSchema(requireChat bool) (*gojsonschema.Schema, error) {
	var raw map[string]any
	if err := json.Unmarshal(schemaJSON, &raw); err != nil {
		return nil, fmt.Errorf("decoding embedded schema: %w", err)
	}
	if requireChat {
		models := raw["properties"].(map[string]any)["models"].(map[string]any)
		models["required"] = append(models["required"].([]any), "chat")
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compiling embedded schema: %w", err)
	}
	return schema, nil
}

// Validate checks a secret-resolved document against the configuration
// schema and returns the frozen Config.
//
// Validation is total: on failure the returned *Error of kind
// KindSchemaValidation lists every violated constraint, sorted by field path.
// No Config is returned alongside an error.
func Validate(doc *MapNode, opts ...ValidateOption) (*Config, error) {
	var o validateOptions
	for _, opt := range opts {
		opt(&o)
	}

	schema, err := compiledSchema(o)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = &MapNode{}
	}

	var nonFinite []Violation
	data := schemaValue(doc, "", &nonFinite)
	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, &Error{Kind: KindSchemaValidation, Err: err}
	}
	if !result.Valid() || len(nonFinite) > 0 {
		return nil, &Error{
			Kind:       KindSchemaValidation,
			Violations: mergeViolations(violations(result.Errors()), nonFinite),
		}
	}

	var d document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &d,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, &Error{
			Kind:       KindSchemaValidation,
			Violations: []Violation{{Rule: "decode", Message: err.Error()}},
			Err:        err,
		}
	}

	return d.freeze(ExtractSecrets(doc)), nil
}

// violations converts schema results into path-tagged violations.
func violations(errs []gojsonschema.ResultError) []Violation {
	out := make([]Violation, 0, len(errs))
	seen := make(map[Violation]bool, len(errs))
	for _, e := range errs {
		v := toViolation(e)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Field < out[j].Field
	})
	return out
}

// schemaValue converts n into plain values for the schema. JSON has no
// infinity or NaN, so such numbers become null and are reported in bad.
func schemaValue(n Node, path string, bad *[]Violation) any {
	switch v := n.(type) {
	case *MapNode:
		out := make(map[string]any, len(v.Entries))
		for _, e := range v.Entries {
			out[e.Key] = schemaValue(e.Value, childPath(path, e.Key), bad)
		}
		return out
	case *SequenceNode:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = schemaValue(item, indexPath(path, i), bad)
		}
		return out
	case *ScalarNode:
		if f, ok := v.Value.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
			*bad = append(*bad, Violation{
				Field:   path,
				Rule:    "invalid_type",
				Message: fmt.Sprintf("expected a finite value, got %s", v.Text),
			})
			return nil
		}
		return v.Value
	default:
		return nil
	}
}

// mergeViolations adds the non-finite number violations to the schema ones.
// A schema violation at the same field only restates the null substitute and
// is dropped.
func mergeViolations(schemaViolations, nonFinite []Violation) []Violation {
	if len(nonFinite) == 0 {
		return schemaViolations
	}
	replaced := make(map[string]bool, len(nonFinite))
	for _, v := range nonFinite {
		replaced[v.Field] = true
	}
	out := make([]Violation, 0, len(schemaViolations)+len(nonFinite))
	for _, v := range schemaViolations {
		if !replaced[v.Field] {
			out = append(out, v)
		}
	}
	out = append(out, nonFinite...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Field < out[j].Field
	})
	return out
}

func toViolation(e gojsonschema.ResultError) Violation {
	field := fieldPath(e.Field())
	rule := e.Type()
	message := e.Description()

	switch rule {
	case "required":
		if prop, ok := e.Details()["property"].(string); ok {
			field = childPath(field, prop)
		}
		message = "is required"
	case "pattern":
		message = "must not be blank"
	case "invalid_type":
		message = fmt.Sprintf("expected %v, got %v", e.Details()["expected"], e.Details()["given"])
	case "enum":
		if allowed, ok := e.Details()["allowed"].(string); ok {
			message = "must be one of: " + allowed
		}
	case "array_min_items":
		message = fmt.Sprintf("must contain at least %v item(s)", e.Details()["min"])
	}

	return Violation{Field: field, Rule: rule, Message: message}
}

// fieldPath turns a schema context such as "authors.0.email" into
// "authors[0].email". The document root becomes "".
func fieldPath(ctx string) string {
	if ctx == "" || ctx == rootContext {
		return ""
	}
	ctx = strings.TrimPrefix(ctx, rootContext+".")

	var b strings.Builder
	for i, part := range strings.Split(ctx, ".") {
		if _, err := strconv.Atoi(part); err == nil && i > 0 {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
