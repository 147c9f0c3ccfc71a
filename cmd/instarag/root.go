package main

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/phrazzld/instarag/internal/config"
	"github.com/phrazzld/instarag/internal/platform/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names and the viper keys they bind to.
var flagKeys = map[string]string{
	"filepath":     "filepath",
	"host":         "host",
	"port":         "port",
	"log-level":    "log_level",
	"log-format":   "log_format",
	"require-chat": "require_chat_model",
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "instarag",
		Short:         "Serve a retrieval-augmented chat application from one YAML file",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(envFile, cmd.Flags().Changed("env-file"))
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded into the environment before reading settings")

	root.AddCommand(newRunCmd(), newValidateCmd())
	return root
}

// loadEnvFile loads KEY=VALUE pairs without overriding variables that are
// already set. A missing default file is not an error.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if explicit {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// addConfigFlags registers the flags shared by run and validate.
func addConfigFlags(flags *pflag.FlagSet) {
	flags.StringP("filepath", "f", config.DefaultFilename, "path to the application configuration file")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	flags.String("log-format", config.DefaultLogFormat, "log format: json or text")
	flags.Bool("require-chat", false, "fail validation when no chat model is configured")
}

// loadSettings reads the launcher settings with bound flags taking
// precedence over INSTARAG_* variables and defaults.
func loadSettings(flags *pflag.FlagSet) (*config.ServerConfig, error) {
	v := viper.New()
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}
	return config.LoadServerConfig(v)
}

// setupLogger configures the process logger from the launcher settings.
func setupLogger(cmd *cobra.Command, srv *config.ServerConfig) (*slog.Logger, error) {
	return logger.Setup(logger.LoggerConfig{
		Level:  srv.LogLevel,
		Format: srv.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
}
