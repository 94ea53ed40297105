package diagnose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/photo-telemetry/internal/stats"
)

// balanced returns an Input that triggers no rule.
func balanced() Input {
	return Input{
		Zones:       stats.ZoneDistribution{Shadow: 0.15, Mid: 0.8, Highlight: 0.05},
		Means:       stats.ChannelMeans{R: 120, G: 120, B: 120, Luma: 120},
		TonalSpan:   230,
		ShadowCount: 10,
		ShadowMeans: stats.ChannelMeans{R: 20, G: 21, B: 22},
	}
}

func codes(r Report) []Code {
	out := make([]Code, 0, len(r.Findings))
	for _, f := range r.Findings {
		out = append(out, f.Code)
	}
	return out
}

func TestSynthesize_Balanced(t *testing.T) {
	r := Synthesize(balanced())
	assert.Empty(t, r.Findings)
	assert.Equal(t, ExposureNormal, r.Exposure)
	assert.Equal(t, 92, r.GradingScore)
}

func TestSynthesize_Exposure(t *testing.T) {
	tests := []struct {
		name string
		luma float64
		want Code
	}{
		{"under", 40, CodeUnderexposed},
		{"over", 220, CodeOverexposed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := balanced()
			in.Means = stats.ChannelMeans{R: tt.luma, G: tt.luma, B: tt.luma, Luma: tt.luma}
			r := Synthesize(in)
			require.NotEmpty(t, r.Findings)
			assert.Equal(t, tt.want, r.Findings[0].Code)
			assert.True(t, r.Findings[0].Critical)
			assert.False(t, r.Has(CodeUnderexposed) && r.Has(CodeOverexposed))
		})
	}
}

func TestSynthesize_TonalSpan(t *testing.T) {
	in := balanced()
	in.TonalSpan = 100
	in.Zones.Mid = 0.95
	r := Synthesize(in)
	assert.Equal(t, []Code{CodeFlatRange}, codes(r))

	in.TonalSpan = 200
	r = Synthesize(in)
	assert.Equal(t, []Code{CodeMidtoneCompression}, codes(r))
}

func TestSynthesize_ColorCast(t *testing.T) {
	warm := balanced()
	warm.Means = stats.ChannelMeans{R: 160, G: 110, B: 90, Luma: 118}
	assert.True(t, Synthesize(warm).Has(CodeWarmCast))
	assert.False(t, Synthesize(warm).Has(CodeCoolCast))

	cool := balanced()
	cool.Means = stats.ChannelMeans{R: 90, G: 115, B: 170, Luma: 113}
	assert.True(t, Synthesize(cool).Has(CodeCoolCast))

	mono := warm
	mono.IsMonochrome = true
	r := Synthesize(mono)
	assert.False(t, r.Has(CodeWarmCast))
	assert.True(t, r.Has(CodeMonochromeZones))
}

func TestSynthesize_ShadowTint(t *testing.T) {
	in := balanced()
	in.ShadowMeans = stats.ChannelMeans{R: 10, G: 20, B: 30}
	assert.True(t, Synthesize(in).Has(CodeShadowTint))

	in.ShadowCount = 0
	assert.False(t, Synthesize(in).Has(CodeShadowTint))

	in.ShadowCount = 5
	in.IsMonochrome = true
	assert.False(t, Synthesize(in).Has(CodeShadowTint))
}

func TestSynthesize_Clipping(t *testing.T) {
	in := balanced()
	in.Zones = stats.ZoneDistribution{Shadow: 0.2, Mid: 0.6, Highlight: 0.2}
	r := Synthesize(in)
	assert.True(t, r.Has(CodeHighlightClipping))
	assert.True(t, r.Has(CodeCrushedBlacks))

	// Low-key images keep their shadows.
	in.Means = stats.ChannelMeans{R: 45, G: 45, B: 45, Luma: 45}
	r = Synthesize(in)
	assert.False(t, r.Has(CodeCrushedBlacks))
}

func TestSynthesize_Order(t *testing.T) {
	in := Input{
		Zones:       stats.ZoneDistribution{Shadow: 0.3, Mid: 0.5, Highlight: 0.2},
		Means:       stats.ChannelMeans{R: 240, G: 10, B: 10, Luma: 58},
		TonalSpan:   60,
		ShadowCount: 30,
		ShadowMeans: stats.ChannelMeans{R: 40, G: 0, B: 0},
	}
	r := Synthesize(in)
	assert.Equal(t, []Code{
		CodeUnderexposed,
		CodeFlatRange,
		CodeWarmCast,
		CodeShadowTint,
		CodeHighlightClipping,
		CodeCrushedBlacks,
	}, codes(r))
	assert.Len(t, r.Suggestions(), 6)
}

func TestSynthesize_Deterministic(t *testing.T) {
	in := balanced()
	in.TonalSpan = 90
	in.Means.Luma = 30
	assert.Equal(t, Synthesize(in), Synthesize(in))
}

func TestSynthesize_ZeroLuma(t *testing.T) {
	in := Input{
		Zones:       stats.ZoneDistribution{Shadow: 1},
		ShadowCount: 4,
	}
	r := Synthesize(in)
	assert.Equal(t, []Code{CodeUnderexposed, CodeFlatRange}, codes(r))
	assert.Equal(t, 0, r.GradingScore)
}

func TestGradingScore(t *testing.T) {
	tests := []struct {
		span int
		want int
	}{
		{0, 0},
		{-5, 0},
		{100, 40},
		{250, 100},
		{255, 100},
		{1000, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradingScore(tt.span), "span %d", tt.span)
	}
}
