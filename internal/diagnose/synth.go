package diagnose

import (
	"fmt"
	"math"

	"github.com/ironsheep/photo-telemetry/internal/stats"
)

// Rule thresholds.
const (
	UnderexposedLuma   = 60
	OverexposedLuma    = 200
	FlatSpan           = 120
	MidtoneCompression = 0.8
	CastRatio          = 1.15
	ShadowTintSpread   = 8
	HighlightClipLimit = 0.05
	CrushedShadowLimit = 0.15
	CrushedGuardLuma   = 50
)

// Code identifies a finding independently of its wording.
type Code string

const (
	CodeUnderexposed       Code = "underexposed"
	CodeOverexposed        Code = "overexposed"
	CodeFlatRange          Code = "flat_dynamic_range"
	CodeMidtoneCompression Code = "midtone_compression"
	CodeWarmCast           Code = "warm_cast"
	CodeCoolCast           Code = "cool_cast"
	CodeShadowTint         Code = "shadow_tint"
	CodeMonochromeZones    Code = "monochrome_zones"
	CodeHighlightClipping  Code = "highlight_clipping"
	CodeCrushedBlacks      Code = "crushed_blacks"
)

// Exposure classifies overall brightness.
type Exposure int

const (
	ExposureNormal Exposure = iota
	ExposureUnder
	ExposureOver
)

func (e Exposure) String() string {
	switch e {
	case ExposureUnder:
		return "under"
	case ExposureOver:
		return "over"
	default:
		return "normal"
	}
}

// Input is everything the synthesizer looks at.
type Input struct {
	Signal       stats.SignalMetrics
	Zones        stats.ZoneDistribution
	IsMonochrome bool
	Means        stats.ChannelMeans

	// TonalSpan is the occupied histogram span on the 0-255 scale.
	TonalSpan   int
	ShadowCount int
	ShadowMeans stats.ChannelMeans
}

// InputFromResult builds an Input from a statistics pass.
func InputFromResult(r *stats.Result) Input {
	return Input{
		Signal:       r.Signal,
		Zones:        r.Zones,
		IsMonochrome: r.IsMonochrome,
		Means:        r.Means,
		TonalSpan:    r.TonalSpan,
		ShadowCount:  r.ShadowCount,
		ShadowMeans:  r.ShadowMeans,
	}
}

// Finding is one piece of advice.
type Finding struct {
	Code     Code   `json:"code"`
	Critical bool   `json:"critical"`
	Message  string `json:"message"`
}

// Report is the synthesizer output.
type Report struct {
	Findings       []Finding `json:"findings"`
	Exposure       Exposure  `json:"-"`
	SuggestedCurve Curve     `json:"suggested_curve"`
	GradingScore   int       `json:"grading_score"`
}

// Suggestions returns the finding messages in order.
func (r Report) Suggestions() []string {
	out := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		out[i] = f.Message
	}
	return out
}

// Has reports whether a finding with code c is present.
func (r Report) Has(c Code) bool {
	for _, f := range r.Findings {
		if f.Code == c {
			return true
		}
	}
	return false
}

// ClassifyExposure applies the exposure rule to a mean luma.
func ClassifyExposure(meanLuma float64) Exposure {
	switch {
	case meanLuma < UnderexposedLuma:
		return ExposureUnder
	case meanLuma > OverexposedLuma:
		return ExposureOver
	default:
		return ExposureNormal
	}
}

// Synthesize evaluates every rule against in.
func Synthesize(in Input) Report {
	findings := make([]Finding, 0, 6)
	add := func(code Code, critical bool, format string, args ...interface{}) {
		findings = append(findings, Finding{Code: code, Critical: critical, Message: fmt.Sprintf(format, args...)})
	}

	luma := clamp(in.Means.Luma, 0, 255)

	exposure := ClassifyExposure(luma)
	switch exposure {
	case ExposureUnder:
		add(CodeUnderexposed, true, "CRITICAL: Underexposed (avg luma %.0f/255). Subject sits in Zone II; raise exposure about +1.2 EV.", luma)
	case ExposureOver:
		add(CodeOverexposed, true, "CRITICAL: Overexposed (avg luma %.0f/255). Subject sits in Zone VIII; recover highlights or lower exposure.", luma)
	}

	if in.TonalSpan < FlatSpan {
		add(CodeFlatRange, false, "CURVE: Flat dynamic range (span %d/255). Apply contrast expansion with an S-curve.", in.TonalSpan)
	} else if in.Zones.Mid > MidtoneCompression {
		add(CodeMidtoneCompression, false, "CURVE: Midtone compression (%.0f%% midtones). Anchor the black and white points.", in.Zones.Mid*100)
	}

	if !in.IsMonochrome {
		if luma > 0 {
			rRatio := in.Means.R / luma
			bRatio := in.Means.B / luma
			if rRatio > CastRatio {
				add(CodeWarmCast, false, "COLOR: Warm cast detected (R/luma %.2f). Cool the white balance for neutral skin.", rRatio)
			} else if bRatio > CastRatio {
				add(CodeCoolCast, false, "COLOR: Cool cast detected (B/luma %.2f). Warm the white balance.", bRatio)
			}
		}

		if in.ShadowCount > 0 {
			sm := in.ShadowMeans
			spread := math.Max(sm.R, math.Max(sm.G, sm.B)) - math.Min(sm.R, math.Min(sm.G, sm.B))
			if spread > ShadowTintSpread {
				add(CodeShadowTint, false, "GRADING: Shadows are not neutral (channel spread %.1f). Possible tint or sensor noise; desaturate the shadows.", spread)
			}
		}
	} else {
		add(CodeMonochromeZones, false, "MONOCHROME: Inspect zone frequencies and anchor Zone 0 to pure black.")
	}

	if in.Zones.Highlight > HighlightClipLimit {
		add(CodeHighlightClipping, false, "WARNING: Highlight clipping (%.1f%% above luma %d). Enable highlight recovery.", in.Zones.Highlight*100, stats.HighlightLuma)
	}
	if in.Zones.Shadow > CrushedShadowLimit && luma > CrushedGuardLuma {
		add(CodeCrushedBlacks, false, "WARNING: Crushed blacks (%.1f%% in shadows). Shadow detail lost; lift the curve toe.", in.Zones.Shadow*100)
	}

	return Report{
		Findings:       findings,
		Exposure:       exposure,
		SuggestedCurve: SuggestCurve(exposure, luma),
		GradingScore:   GradingScore(in.TonalSpan),
	}
}

// GradingScore maps tonal span to 0-100 as min(100, span/2.5), rounded.
func GradingScore(span int) int {
	return int(math.Round(clamp(float64(span)/2.5, 0, 100)))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
