package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every launcher environment variable, e.g. INSTARAG_PORT.
const EnvPrefix = "INSTARAG"

// ServerConfig holds the launcher settings: where the HTTP server listens and
// how the process logs. These come from flags, INSTARAG_* environment
// variables and defaults, never from the application configuration file.
type ServerConfig struct {
	// ConfigPath is the application configuration file to load.
	ConfigPath string `mapstructure:"filepath" validate:"required"`
	Host       string `mapstructure:"host" validate:"required"`
	// Port 0 selects the first free port from DefaultPort upwards.
	Port             int    `mapstructure:"port" validate:"gte=0,lt=65536"`
	LogLevel         string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat        string `mapstructure:"log_format" validate:"required,oneof=json text"`
	RequireChatModel bool   `mapstructure:"require_chat_model"`
}

// Launcher defaults.
const (
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 8112
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// SetServerDefaults registers the launcher defaults on v.
func SetServerDefaults(v *viper.Viper) {
	v.SetDefault("filepath", DefaultFilename)
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", 0)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("require_chat_model", false)
}

// LoadServerConfig reads launcher settings from v, with INSTARAG_ environment
// variables taking precedence over defaults, and validates them. Flags bound
// to v with BindPFlag take precedence over both.
func LoadServerConfig(v *viper.Viper) (*ServerConfig, error) {
	if v == nil {
		v = viper.New()
	}
	SetServerDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal server config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("server config validation failed: %w", err)
	}
	return &cfg, nil
}

// ValidateOptions returns the schema options implied by the launcher settings.
func (c *ServerConfig) ValidateOptions() []ValidateOption {
	var opts []ValidateOption
	if c.RequireChatModel {
		opts = append(opts, WithChatModelRequired())
	}
	return opts
}
