package main

import (
	"log/slog"
	"net"
	"strconv"

	"github.com/phrazzld/instarag/internal/config"
	"github.com/phrazzld/instarag/internal/platform/logger"
	"github.com/phrazzld/instarag/internal/platform/netutil"
	"github.com/phrazzld/instarag/internal/redact"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load the configuration file and serve the application",
		Long: `Run loads the application configuration, resolves its secrets and
validates it, then serves the API and chat page. Any configuration error is
reported and the process exits with status 1.

With --port 0 the first free port from 8112 upwards is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd)
		},
	}

	addConfigFlags(cmd.Flags())
	cmd.Flags().String("host", config.DefaultHost, "interface to listen on")
	cmd.Flags().IntP("port", "p", 0, "port to listen on, 0 picks a free port")
	return cmd
}

func runServer(cmd *cobra.Command) error {
	srv, err := loadSettings(cmd.Flags())
	if err != nil {
		return err
	}
	base, err := setupLogger(cmd, srv)
	if err != nil {
		return err
	}

	out := newConsole(cmd.OutOrStdout())
	cfg, err := loadConfig(out, base, srv)
	if err != nil {
		return err
	}

	// From here on every log line is masked with the resolved secret values.
	appLogger := slog.New(logger.NewMaskingHandler(base.Handler(), cfg.SecretMasker()))
	slog.SetDefault(appLogger)

	var port int
	err = out.task("Finding Available Port", func() error {
		var err error
		port, err = netutil.ResolvePort(srv.Host, srv.Port)
		return err
	}, redact.Error)
	if err != nil {
		return err
	}

	app, err := newApplication(cmd.Context(), cfg, appLogger)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(srv.Host, strconv.Itoa(port))
	out.detail("Application", cfg.Title())
	out.detail("Listening", "http://"+addr)
	return app.startHTTPServer(cmd.Context(), addr)
}

// loadConfig runs the configuration pipeline as a console task. Diagnostics
// are redacted since the resolved secrets are unknown when loading fails.
func loadConfig(out *console, log *slog.Logger, srv *config.ServerConfig) (*config.Config, error) {
	var cfg *config.Config
	err := out.task("Parsing Configuration", func() error {
		var err error
		cfg, err = config.NewLoader(log, srv.ValidateOptions()...).Load(srv.ConfigPath)
		return err
	}, redact.Error)
	return cfg, err
}
