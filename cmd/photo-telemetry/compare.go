package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-telemetry/internal/config"
	"github.com/ironsheep/photo-telemetry/internal/imaging"
	"github.com/ironsheep/photo-telemetry/internal/telemetry"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "compare <original> <processed>",
		Short: "Compare telemetry of an original and a processed rendition",
		Args:  cobra.ExactArgs(2),
		RunE:  runCompare,
	})
}

func runCompare(cmd *cobra.Command, args []string) error {
	loader := imaging.NewLoader(config.Config.LoaderOptions())

	orig, err := loader.Load(args[0])
	if err != nil {
		return fmt.Errorf("original: %w", err)
	}
	proc, err := loader.Load(args[1])
	if err != nil {
		return fmt.Errorf("processed: %w", err)
	}

	res, err := telemetry.Compare(cmd.Context(), orig.Image, proc.Image, config.Config.TelemetryOptions())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderComparison(out, res)

	fmt.Fprintln(out)
	for _, c := range res.Resolved {
		fmt.Fprintf(out, "  %s %s\n", infoColor("resolved"), c)
	}
	for _, c := range res.Introduced {
		fmt.Fprintf(out, "  %s %s\n", warningColor("introduced"), c)
	}

	d := res.Diff
	fmt.Fprintf(out, "\n%s %d/%d pixels differ, MSE %.3f, mean channel diff %.2f\n",
		mutedColor("diff"), d.PixelsDifferent, d.TotalPixels, d.MSE, d.AverageColorDiff)
	if !d.SameSize {
		fmt.Fprintf(out, "%s sizes differ (%dx%d vs %dx%d); compared the common area\n",
			warningColor("note"), d.Size1.X, d.Size1.Y, d.Size2.X, d.Size2.Y)
	}
	return nil
}

func renderComparison(w io.Writer, res *telemetry.Comparison) {
	a, b := res.Original, res.Processed

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"METRIC", "ORIGINAL", "PROCESSED"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("  ")

	table.AppendBulk([][]string{
		{"exposure", a.Exposure, b.Exposure},
		{"mean luma", fmt.Sprintf("%.1f", a.Means.Luma), fmt.Sprintf("%.1f", b.Means.Luma)},
		{"tonal span", strconv.Itoa(a.TonalSpan), strconv.Itoa(b.TonalSpan)},
		{"dynamic range", fmt.Sprintf("%.2f st", a.Signal.DynamicRangeStops), fmt.Sprintf("%.2f st", b.Signal.DynamicRangeStops)},
		{"snr proxy", fmt.Sprintf("%.1f", a.Signal.SNRProxy), fmt.Sprintf("%.1f", b.Signal.SNRProxy)},
		{"highlights", fmt.Sprintf("%.1f%%", a.Zones.Highlight*100), fmt.Sprintf("%.1f%%", b.Zones.Highlight*100)},
		{"shadows", fmt.Sprintf("%.1f%%", a.Zones.Shadow*100), fmt.Sprintf("%.1f%%", b.Zones.Shadow*100)},
		{"average color", a.AverageColor.Hex, b.AverageColor.Hex},
		{"sharpness", fmt.Sprintf("%.2f", a.Sharpness), fmt.Sprintf("%.2f", b.Sharpness)},
		{"score", strconv.Itoa(a.GradingScore), fmt.Sprintf("%d (%+d)", b.GradingScore, res.ScoreDelta)},
	})
	table.Render()
}
