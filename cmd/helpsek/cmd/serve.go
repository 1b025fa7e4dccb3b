package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/helpsek/helpsek/internal/server"
)

// newServeCmd creates the serve command.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Build or load the indexes and serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApp(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer app.Close()

			slog.Info("warming up indexes")
			if err := app.manager.WarmUp(ctx); err != nil {
				return err
			}

			srv := server.New(app.service, server.Options{
				Addr:            cfg.ListenAddr(),
				ShutdownTimeout: cfg.Server.ShutdownTimeoutDuration(),
			})
			return srv.Run(ctx)
		},
	}
}
