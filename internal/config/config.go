package config

import (
	"log/slog"
	"slices"

	"github.com/phrazzld/instarag/internal/redact"
)

// ThemeMode is the UI colour scheme.
type ThemeMode string

// Theme modes accepted by the schema.
const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// Author identifies a maintainer of the application.
type Author struct {
	Name  string `mapstructure:"name" json:"name"`
	Email string `mapstructure:"email" json:"email"`
}

// Theme holds the presentation settings of the chat UI.
type Theme struct {
	Logo   string    `mapstructure:"logo" json:"logo,omitempty"`
	Readme string    `mapstructure:"readme" json:"readme,omitempty"`
	Mode   ThemeMode `mapstructure:"mode" json:"mode"`
	Type   string    `mapstructure:"type" json:"type,omitempty"`
}

// Credentials holds the secret material needed to call a model.
type Credentials struct {
	APIKey string `mapstructure:"api_key" json:"-"`
}

// ModelSpec describes one configured model.
type ModelSpec struct {
	// Provider names the backend serving the model, e.g. "gemini". Optional.
	Provider    string      `mapstructure:"provider" json:"provider,omitempty"`
	Credentials Credentials `mapstructure:"credentials" json:"-"`
	ModelName   string      `mapstructure:"model_name" json:"model_name,omitempty"`
}

// Models groups the models used by the application.
type Models struct {
	Chat            *ModelSpec `json:"chat,omitempty"`
	Embeddings      ModelSpec  `json:"embeddings"`
	ImageGeneration *ModelSpec `json:"image_generation,omitempty"`
}

// Source is one ingestion input.
type Source struct {
	Type string `mapstructure:"type" json:"type"`
	Data string `mapstructure:"data" json:"data"`
}

// Config is the validated application configuration.
//
// A Config is immutable: it has no mutating methods and every accessor
// returns a copy, so a single value can be shared by concurrent readers for
// the lifetime of the process.
type Config struct {
	name        string
	title       string
	description string
	version     string
	authors     []Author
	tags        []string
	theme       Theme
	models      Models
	sources     []Source
	secretNames []string
	masker      *redact.SecretMasker
}

// Name returns the application name.
func (c *Config) Name() string { return c.name }

// Title returns the display title, which defaults to the name.
func (c *Config) Title() string { return c.title }

// Description returns the application description.
func (c *Config) Description() string { return c.description }

// Version returns the application version.
func (c *Config) Version() string { return c.version }

// Authors returns the declared authors.
func (c *Config) Authors() []Author { return slices.Clone(c.authors) }

// Tags returns the declared tags.
func (c *Config) Tags() []string { return slices.Clone(c.tags) }

// Theme returns the UI theme settings.
func (c *Config) Theme() Theme { return c.theme }

// Models returns the configured models.
func (c *Config) Models() Models {
	m := c.models
	m.Chat = cloneSpec(c.models.Chat)
	m.ImageGeneration = cloneSpec(c.models.ImageGeneration)
	return m
}

// Sources returns the ingestion inputs in document order.
func (c *Config) Sources() []Source { return slices.Clone(c.sources) }

// SecretNames returns the names of the declared secrets. Secret values are
// only reachable through the fields that referenced them.
func (c *Config) SecretNames() []string { return slices.Clone(c.secretNames) }

// SecretMasker returns a masker for the declared secret values, for use on
// diagnostics and log output.
func (c *Config) SecretMasker() *redact.SecretMasker { return c.masker }

// LogValue implements slog.LogValuer. Credentials are never logged.
func (c *Config) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("name", c.name),
		slog.String("title", c.title),
		slog.String("version", c.version),
		slog.Int("authors", len(c.authors)),
		slog.Int("sources", len(c.sources)),
		slog.String("theme_mode", string(c.theme.Mode)),
		slog.Any("embeddings", c.models.Embeddings),
		slog.Int("secrets", len(c.secretNames)),
	}
	if c.models.Chat != nil {
		attrs = append(attrs, slog.Any("chat", *c.models.Chat))
	}
	if c.models.ImageGeneration != nil {
		attrs = append(attrs, slog.Any("image_generation", *c.models.ImageGeneration))
	}
	return slog.GroupValue(attrs...)
}

// LogValue implements slog.LogValuer, reporting only whether a key is set.
func (m ModelSpec) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", m.Provider),
		slog.String("model_name", m.ModelName),
		slog.Bool("api_key_present", m.Credentials.APIKey != ""),
	)
}

func cloneSpec(s *ModelSpec) *ModelSpec {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// document mirrors the YAML layout for decoding.
type document struct {
	Name        string         `mapstructure:"name"`
	Title       string         `mapstructure:"title"`
	Description string         `mapstructure:"description"`
	Version     string         `mapstructure:"version"`
	Authors     []Author       `mapstructure:"authors"`
	Tags        []string       `mapstructure:"tags"`
	Theme       *Theme         `mapstructure:"theme"`
	Secrets     map[string]any `mapstructure:"secrets"`
	Models      struct {
		Chat            *ModelSpec `mapstructure:"chat"`
		Embeddings      ModelSpec  `mapstructure:"embeddings"`
		ImageGeneration *ModelSpec `mapstructure:"image_generation"`
	} `mapstructure:"models"`
	Source []Source `mapstructure:"source"`
}

// freeze copies a decoded document into an immutable Config.
func (d *document) freeze(secrets SecretTable) *Config {
	cfg := &Config{
		name:        d.Name,
		title:       d.Title,
		description: d.Description,
		version:     d.Version,
		authors:     slices.Clone(d.Authors),
		tags:        slices.Clone(d.Tags),
		theme:       Theme{Mode: ThemeSystem},
		models: Models{
			Chat:            cloneSpec(d.Models.Chat),
			Embeddings:      d.Models.Embeddings,
			ImageGeneration: cloneSpec(d.Models.ImageGeneration),
		},
		sources:     slices.Clone(d.Source),
		secretNames: secrets.Names(),
		masker:      redact.NewSecretMasker(secrets.Values()...),
	}
	if cfg.title == "" {
		cfg.title = cfg.name
	}
	if d.Theme != nil {
		cfg.theme = *d.Theme
		if cfg.theme.Mode == "" {
			cfg.theme.Mode = ThemeSystem
		}
	}
	return cfg
}
