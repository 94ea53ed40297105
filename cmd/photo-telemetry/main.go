// Command photo-telemetry analyses photographs and camera RAW files.
//
// It runs as an MCP server over stdio (serve) or as a batch tool printing
// telemetry tables (analyze, compare, extract).
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-telemetry/internal/config"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:               "photo-telemetry",
	Short:             "Photometric diagnostics for photos and camera RAW files",
	SilenceUsage:      true,
	PersistentPreRunE: appPersistentPreRun,
}

var (
	configPath string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c",
		"", "Configuration file",
	)
	rootCmd.PersistentFlags().StringVarP(
		&logLevel, "level", "l",
		"", "Log level (overrides configuration)",
	)
}

func appPersistentPreRun(cmd *cobra.Command, _ []string) error {
	if err := config.LoadConfiguration(configPath); err != nil {
		return fmt.Errorf("error loading configuration (%s)", err)
	}
	if cmd.Flags().Changed("level") {
		config.Config.Main.LogLevel = logLevel
	}

	// stdout carries the MCP stream and command output.
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	lvl, err := log.ParseLevel(config.Config.Main.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.WithField("log_level", lvl).Debug()

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
