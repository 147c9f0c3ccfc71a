package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadServerConfigDefaults verifies the launcher defaults.
func TestLoadServerConfigDefaults(t *testing.T) {
	cfg, err := LoadServerConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, &ServerConfig{
		ConfigPath: DefaultFilename,
		Host:       DefaultHost,
		Port:       0,
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
	}, cfg)
	assert.Empty(t, cfg.ValidateOptions())
}

// TestLoadServerConfigFromEnvironment verifies INSTARAG_ variables.
func TestLoadServerConfigFromEnvironment(t *testing.T) {
	t.Setenv("INSTARAG_PORT", "9000")
	t.Setenv("INSTARAG_HOST", "127.0.0.1")
	t.Setenv("INSTARAG_LOG_LEVEL", "DEBUG")
	t.Setenv("INSTARAG_FILEPATH", "/srv/app.yaml")
	t.Setenv("INSTARAG_REQUIRE_CHAT_MODEL", "true")

	cfg, err := LoadServerConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/srv/app.yaml", cfg.ConfigPath)
	assert.True(t, cfg.RequireChatModel)
	assert.Len(t, cfg.ValidateOptions(), 1)
}

// TestLoadServerConfigExplicitValuesWin verifies that values set on the viper
// instance, as bound flags are, override the environment.
func TestLoadServerConfigExplicitValuesWin(t *testing.T) {
	t.Setenv("INSTARAG_PORT", "9000")

	v := viper.New()
	v.Set("port", 7000)

	cfg, err := LoadServerConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
}

// TestLoadServerConfigValidation verifies rejected launcher settings.
func TestLoadServerConfigValidation(t *testing.T) {
	testCases := []struct {
		name           string
		key            string
		value          any
		errorSubstring string
	}{
		{name: "port too large", key: "port", value: 70000, errorSubstring: "Port"},
		{name: "negative port", key: "port", value: -1, errorSubstring: "Port"},
		{name: "unknown log level", key: "log_level", value: "verbose", errorSubstring: "LogLevel"},
		{name: "unknown log format", key: "log_format", value: "xml", errorSubstring: "LogFormat"},
		{name: "empty config path", key: "filepath", value: "", errorSubstring: "ConfigPath"},
		{name: "port not a number", key: "port", value: "http", errorSubstring: "unmarshal"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tc.key, tc.value)

			cfg, err := LoadServerConfig(v)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.errorSubstring)
		})
	}
}
