package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-telemetry/internal/config"
	"github.com/ironsheep/photo-telemetry/internal/container"
)

var extractOutput string

func init() {
	cmd := &cobra.Command{
		Use:   "extract <raw-file>",
		Short: "Write the largest embedded JPEG preview of a RAW file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtract,
	}
	cmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output file (default <name>.preview.jpg)")
	rootCmd.AddCommand(cmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	opts := config.Config.LoaderOptions().Container
	preview, ok := container.FindPreview(data, opts)
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), warningColor("no embedded preview found"))
		return fmt.Errorf("no embedded preview in %s", args[0])
	}

	out := extractOutput
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".preview.jpg"
	}
	if err := os.WriteFile(out, preview.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}

	log.WithField("start", preview.Start).
		WithField("end", preview.End).
		Debug("preview span")
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes at offset %d -> %s\n",
		filepath.Base(args[0]), preview.Size, preview.Start, out)
	return nil
}
