package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/gammazero/workerpool"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-telemetry/internal/config"
	"github.com/ironsheep/photo-telemetry/internal/diagnose"
	"github.com/ironsheep/photo-telemetry/internal/imaging"
	"github.com/ironsheep/photo-telemetry/internal/telemetry"
)

var (
	criticalColor = color.New(color.FgRed, color.Bold).SprintFunc()
	warningColor  = color.New(color.FgYellow).SprintFunc()
	infoColor     = color.New(color.FgCyan).SprintFunc()
	mutedColor    = color.New(color.Faint).SprintFunc()
)

var analyzeJSON bool

func init() {
	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Print telemetry for one or more photos",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalyze,
	}
	cmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print full telemetry records as JSON")
	rootCmd.AddCommand(cmd)
}

// analysis is the outcome for one input file.
type analysis struct {
	Path      string               `json:"path"`
	Source    *imaging.Source      `json:"source,omitempty"`
	Telemetry *telemetry.Telemetry `json:"telemetry,omitempty"`
	Error     string               `json:"error,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	results := analyzeFiles(args, config.Config.Workers.Count)

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	renderTable(out, results)
	renderFindings(out, results)

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// analyzeFiles runs the pipeline on each path using a pool of workers and
// returns results in argument order.
func analyzeFiles(paths []string, workers int) []analysis {
	if workers < 1 {
		workers = 1
	}
	loader := imaging.NewLoader(config.Config.LoaderOptions())
	opts := config.Config.TelemetryOptions()

	results := make([]analysis, len(paths))
	var mu sync.Mutex

	wp := workerpool.New(workers)
	for i, p := range paths {
		i, p := i, p
		wp.Submit(func() {
			r := analyzeOne(loader, p, opts)
			mu.Lock()
			results[i] = r
			mu.Unlock()
		})
	}
	wp.StopWait()

	return results
}

func analyzeOne(loader *imaging.Loader, path string, opts telemetry.Options) analysis {
	logger := log.WithField("path", path)

	src, err := loader.Load(path)
	if err != nil {
		logger.WithError(err).Error("load failed")
		return analysis{Path: path, Error: err.Error()}
	}
	if src.Placeholder {
		logger.Warn("analysing placeholder")
	}

	tel, err := telemetry.Analyze(src.Image, opts)
	if err != nil {
		logger.WithError(err).Error("analysis failed")
		return analysis{Path: path, Source: src, Error: err.Error()}
	}
	logger.WithField("score", tel.GradingScore).Debug("analysed")
	return analysis{Path: path, Source: src, Telemetry: tel}
}

func renderTable(w io.Writer, results []analysis) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"FILE", "SIZE", "SOURCE", "EXPOSURE", "LUMA", "SPAN", "STOPS", "SNR", "CLIP H/S", "SCORE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("  ")

	for _, r := range results {
		name := filepath.Base(r.Path)
		if r.Telemetry == nil {
			table.Append([]string{name, "-", "-", "error", "-", "-", "-", "-", "-", "-"})
			continue
		}
		t := r.Telemetry
		table.Append([]string{
			name,
			fmt.Sprintf("%dx%d", r.Source.Width, r.Source.Height),
			sourceKind(r.Source),
			t.Exposure,
			fmt.Sprintf("%.0f", t.Means.Luma),
			strconv.Itoa(t.TonalSpan),
			fmt.Sprintf("%.2f", t.Signal.DynamicRangeStops),
			fmt.Sprintf("%.1f", t.Signal.SNRProxy),
			fmt.Sprintf("%.1f%%/%.1f%%", t.Zones.Highlight*100, t.Zones.Shadow*100),
			strconv.Itoa(t.GradingScore),
		})
	}
	table.Render()
}

func sourceKind(src *imaging.Source) string {
	switch {
	case src.Placeholder:
		return "placeholder"
	case src.Raw:
		return "raw preview"
	}
	return src.Format
}

func renderFindings(w io.Writer, results []analysis) {
	for _, r := range results {
		fmt.Fprintln(w)
		fmt.Fprintln(w, filepath.Base(r.Path))
		if r.Error != "" {
			fmt.Fprintf(w, "  %s\n", criticalColor(r.Error))
			continue
		}
		if len(r.Telemetry.Findings) == 0 {
			fmt.Fprintf(w, "  %s\n", mutedColor("no findings"))
		}
		for _, f := range r.Telemetry.Findings {
			fmt.Fprintf(w, "  %s\n", colorFinding(f))
		}
		fmt.Fprintf(w, "  %s %s\n", mutedColor("curve"), formatCurve(r.Telemetry.SuggestedCurve))
	}
}

func colorFinding(f diagnose.Finding) string {
	switch {
	case f.Critical:
		return criticalColor(f.Message)
	case f.Code == diagnose.CodeHighlightClipping || f.Code == diagnose.CodeCrushedBlacks:
		return warningColor(f.Message)
	}
	return infoColor(f.Message)
}

func formatCurve(c diagnose.Curve) string {
	parts := make([]string, len(c))
	for i, p := range c {
		parts[i] = fmt.Sprintf("(%d,%d)", p.In, p.Out)
	}
	return strings.Join(parts, " ")
}
