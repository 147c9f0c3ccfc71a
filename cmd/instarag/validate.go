package main

import (
	"strings"

	"github.com/phrazzld/instarag/internal/api"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file without serving it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd)
		},
	}
	addConfigFlags(cmd.Flags())
	return cmd
}

func validateConfig(cmd *cobra.Command) error {
	srv, err := loadSettings(cmd.Flags())
	if err != nil {
		return err
	}
	log, err := setupLogger(cmd, srv)
	if err != nil {
		return err
	}

	out := newConsole(cmd.OutOrStdout())
	cfg, err := loadConfig(out, log, srv)
	if err != nil {
		return err
	}

	out.detail("Application", cfg.Name()+" "+cfg.Version())
	for _, m := range api.SummarizeModels(cfg.Models()) {
		out.detail("Model "+m.Kind, describeModel(m))
	}
	out.detail("Sources", len(cfg.Sources()))
	if names := cfg.SecretNames(); len(names) > 0 {
		out.detail("Secrets", strings.Join(names, ", "))
	}
	return nil
}

func describeModel(m api.ModelSummary) string {
	provider, name := m.Provider, m.ModelName
	if provider == "" {
		provider = "default provider"
	}
	if name == "" {
		return provider
	}
	return provider + "/" + name
}
