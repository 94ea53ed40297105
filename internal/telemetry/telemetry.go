package telemetry

import (
	"fmt"
	"image"

	"github.com/ironsheep/photo-telemetry/internal/diagnose"
	"github.com/ironsheep/photo-telemetry/internal/imaging"
	"github.com/ironsheep/photo-telemetry/internal/stats"
)

// Options tunes Analyze.
type Options struct {
	// Buckets is the number of display histogram buckets. Zero means
	// stats.DefaultBuckets.
	Buckets int

	// WaveformColumns is passed through to the statistics pass.
	WaveformColumns int

	// SkipSharpness leaves Telemetry.Sharpness at zero. The sharpness proxy
	// runs a separate convolution pass and dominates cost on large images.
	SkipSharpness bool
}

// Telemetry is the aggregate diagnostic record for one image state.
//
// It carries no timestamps or identifiers: analysing the same pixels with the
// same options always yields an identical value.
type Telemetry struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Histogram is the decimated per-channel histogram, each channel scaled
	// to 0-100 against its own tallest bucket.
	Histogram stats.DisplayHistogram `json:"histogram"`

	Signal       stats.SignalMetrics    `json:"signal"`
	Zones        stats.ZoneDistribution `json:"zones"`
	IsMonochrome bool                   `json:"is_monochrome"`
	Means        stats.ChannelMeans     `json:"means"`
	TonalSpan    int                    `json:"tonal_span"`

	// AverageColor is the mean image color as hex, RGB and HSL.
	AverageColor imaging.ColorResult `json:"average_color"`

	// Exposure is the classification driving the suggested curve.
	Exposure string `json:"exposure"`

	// Suggestions are the finding messages in rule order; Findings carries
	// the same entries with their codes.
	Suggestions    []string           `json:"suggestions"`
	Findings       []diagnose.Finding `json:"findings"`
	SuggestedCurve diagnose.Curve     `json:"suggested_curve"`
	GradingScore   int                `json:"grading_score"`

	// Waveform is the peak luma per column bucket on a 0-100 IRE scale.
	Waveform []float64 `json:"waveform"`

	// Sharpness is a 0-100 detail proxy from Sobel gradient magnitude.
	Sharpness float64 `json:"sharpness_proxy"`
}

// Has reports whether a finding with code c was raised.
func (t *Telemetry) Has(c diagnose.Code) bool {
	for _, f := range t.Findings {
		if f.Code == c {
			return true
		}
	}
	return false
}

// Analyze runs the statistics pass and the diagnostic synthesizer over img.
//
// Parameters:
//   - img: decoded pixels, ideally already clamped with imaging.Clamp.
//   - opts: display and waveform tuning.
//
// Returns:
//   - *Telemetry: the complete record.
//   - error: stats.ErrEmptyImage (wrapped) for a nil or zero-area image.
func Analyze(img image.Image, opts Options) (*Telemetry, error) {
	res, err := stats.Compute(img, stats.Options{WaveformColumns: opts.WaveformColumns})
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	report := diagnose.Synthesize(diagnose.InputFromResult(res))

	buckets := opts.Buckets
	if buckets <= 0 {
		buckets = stats.DefaultBuckets
	}

	t := &Telemetry{
		Width:          res.Width,
		Height:         res.Height,
		Histogram:      res.Histogram.Display(buckets),
		Signal:         res.Signal,
		Zones:          res.Zones,
		IsMonochrome:   res.IsMonochrome,
		Means:          res.Means,
		TonalSpan:      res.TonalSpan,
		AverageColor:   imaging.AverageColor(res.Means.R, res.Means.G, res.Means.B),
		Exposure:       report.Exposure.String(),
		Suggestions:    report.Suggestions(),
		Findings:       report.Findings,
		SuggestedCurve: report.SuggestedCurve,
		GradingScore:   report.GradingScore,
		Waveform:       res.Waveform,
	}
	if !opts.SkipSharpness {
		t.Sharpness = imaging.SharpnessProxy(img)
	}
	return t, nil
}
