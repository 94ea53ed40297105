package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-telemetry/internal/config"
	"github.com/ironsheep/photo-telemetry/internal/server"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: "Run the MCP server on stdin/stdout.\n\n" +
			"Configure it in your MCP client; logs go to stderr.",
		Args: cobra.NoArgs,
		RunE: runServe,
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("version", Version).
		WithField("commit", GitCommit).
		Info("starting MCP server")

	srv := server.New(server.Options{
		Loader:        config.Config.LoaderOptions(),
		Telemetry:     config.Config.TelemetryOptions(),
		ClipThreshold: config.Config.Analysis.ClipThreshold,
		Version:       Version,
	})
	if err := srv.Run(ctx); err != nil && err != context.Canceled {
		return err
	}

	log.WithField("analyses", srv.History().Len()).Info("server stopped")
	return nil
}
