// Package cmd provides the CLI commands for helpsek.
package cmd

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/helpsek/helpsek/internal/config"
	"github.com/helpsek/helpsek/internal/logging"
	"github.com/helpsek/helpsek/pkg/version"
)

var (
	configPath string
	debugMode  bool
)

// NewRootCmd creates the root command for the helpsek CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "helpsek",
		Short: "Question answering for ASN recruitment data",
		Long: `Helpsek answers Indonesian questions about civil service (ASN)
job vacancies and recruitment regulations. It retrieves relevant
passages from the formasi and faq collections and asks Gemini to
compose a grounded answer.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("helpsek version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default helpsek.yaml)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig resolves the configuration and installs the logger.
// A .env file in the working directory is loaded first so GEMINI_API_KEY
// can live there during development.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logCfg := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if debugMode {
		logCfg.Level = "debug"
	}
	logging.Setup(logCfg)

	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		return err
	}
	return nil
}
