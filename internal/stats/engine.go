package stats

import (
	"errors"
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
)

// Zone and clipping thresholds on the 0-255 luma scale.
const (
	ShadowLuma         = 50
	HighlightLuma      = 250
	ShadowClipLuma     = 5
	MonochromeMaxDev   = 10
	ClippedFraction    = 0.01
	DefaultWaveColumns = 100
)

// ErrEmptyImage is returned for nil or zero-area images.
var ErrEmptyImage = errors.New("image has no pixels")

// Options tunes Compute.
type Options struct {
	// WaveformColumns is the number of waveform buckets across the image
	// width. Zero means DefaultWaveColumns.
	WaveformColumns int
}

// Histogram holds 256-bin counts for each color channel. The bins of any
// channel sum to the number of sampled pixels.
type Histogram struct {
	R [256]int `json:"r"`
	G [256]int `json:"g"`
	B [256]int `json:"b"`
}

// ZoneDistribution is the fraction of pixels in each tonal zone.
// The three fields sum to 1.
type ZoneDistribution struct {
	Shadow    float64 `json:"shadow_fraction"`
	Mid       float64 `json:"mid_fraction"`
	Highlight float64 `json:"highlight_fraction"`
}

// SignalMetrics are heuristic noise and range indicators. See the package
// documentation for how each proxy is derived.
type SignalMetrics struct {
	RMSNoiseProxy     float64 `json:"rms_noise_proxy"`
	SNRProxy          float64 `json:"snr_proxy"`
	DynamicRangeStops float64 `json:"dynamic_range_stops"`
	HighlightClipped  bool    `json:"highlight_clipped"`
	ShadowClipped     bool    `json:"shadow_clipped"`
}

// ChannelMeans holds average channel values on the 0-255 scale.
type ChannelMeans struct {
	R    float64 `json:"r"`
	G    float64 `json:"g"`
	B    float64 `json:"b"`
	Luma float64 `json:"luma"`
}

// Result is everything Compute derives from one pass over an image.
type Result struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Pixels int `json:"pixels"`

	Histogram    Histogram        `json:"-"`
	Zones        ZoneDistribution `json:"zones"`
	Signal       SignalMetrics    `json:"signal"`
	Means        ChannelMeans     `json:"means"`
	IsMonochrome bool             `json:"is_monochrome"`

	// MaxChromaDeviation is the largest |R-G|+|G-B|+|B-R| seen.
	MaxChromaDeviation int `json:"max_chroma_deviation"`

	// TonalSpan is last minus first occupied bin of the green histogram.
	TonalSpan int `json:"tonal_span"`

	// ShadowCount is the number of pixels with luma below ShadowLuma and
	// ShadowMeans their average channel values (Luma unset).
	ShadowCount int          `json:"shadow_count"`
	ShadowMeans ChannelMeans `json:"shadow_means"`

	// Clip counts use luma < ShadowClipLuma and luma > HighlightLuma.
	ShadowClipCount    int `json:"shadow_clip_count"`
	HighlightClipCount int `json:"highlight_clip_count"`

	// Waveform is the peak luma per column bucket on a 0-100 IRE scale.
	Waveform []float64 `json:"waveform"`
}

// Luma returns Rec.709 luma for 8-bit components.
func Luma(r, g, b uint8) float64 {
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}

// pixels exposes img as a packed 4-byte-per-pixel buffer. NRGBA and RGBA
// buffers are read in place; anything else goes through bild, which yields
// premultiplied RGBA. RGBA values are premultiplied too, so a semi-transparent
// pixel reads darker than its straight color. Decoded photos are opaque.
func pixels(img image.Image) (pix []uint8, stride int, rect image.Rectangle) {
	switch m := img.(type) {
	case *image.NRGBA:
		return m.Pix, m.Stride, m.Rect
	case *image.RGBA:
		return m.Pix, m.Stride, m.Rect
	}
	m := clone.AsRGBA(img)
	return m.Pix, m.Stride, m.Rect
}

// Compute runs the statistics pass over img.
//
// Parameters:
//   - img: decoded pixels of any image.Image type
//   - opts: waveform resolution; the zero value uses defaults
//
// Returns:
//   - *Result: histograms, zones, signal metrics, means and the waveform
//   - error: ErrEmptyImage for a nil or zero-area image
//
// # Algorithm
//
// Every pixel is visited exactly once. Each visit updates the three channel
// histograms, the luma zone counters, the clip counters, running channel and
// luma sums, the shadow-tint sums, the largest chroma deviation and the peak
// luma of the pixel's waveform column. Tonal span and dynamic-range stops are
// derived afterwards from the green histogram, and the noise proxy from the
// chroma deviation.
//
// Alpha is ignored. Cost is linear in pixel count, so callers wanting
// bounded cost should clamp the image dimensions first.
func Compute(img image.Image, opts Options) (*Result, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	cols := opts.WaveformColumns
	if cols <= 0 {
		cols = DefaultWaveColumns
	}

	pix, stride, rect := pixels(img)
	w, h := rect.Dx(), rect.Dy()
	if cols > w {
		cols = w
	}

	res := &Result{Width: w, Height: h, Pixels: w * h}
	peaks := make([]float64, cols)

	var (
		totalLuma, totalR, totalG, totalB float64
		shadowR, shadowG, shadowB         float64
		highlights, maxDev                int
	)

	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+w*4]
		for x := 0; x < w; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]

			res.Histogram.R[r]++
			res.Histogram.G[g]++
			res.Histogram.B[b]++

			luma := Luma(r, g, b)
			totalLuma += luma
			totalR += float64(r)
			totalG += float64(g)
			totalB += float64(b)

			if dev := absDiff(r, g) + absDiff(g, b) + absDiff(b, r); dev > maxDev {
				maxDev = dev
			}

			switch {
			case luma < ShadowLuma:
				res.ShadowCount++
				shadowR += float64(r)
				shadowG += float64(g)
				shadowB += float64(b)
				if luma < ShadowClipLuma {
					res.ShadowClipCount++
				}
			case luma > HighlightLuma:
				highlights++
			}

			if col := x * cols / w; luma > peaks[col] {
				peaks[col] = luma
			}
		}
	}

	n := float64(res.Pixels)
	res.HighlightClipCount = highlights
	res.MaxChromaDeviation = maxDev
	res.IsMonochrome = maxDev < MonochromeMaxDev
	res.Means = ChannelMeans{R: totalR / n, G: totalG / n, B: totalB / n, Luma: totalLuma / n}

	if res.ShadowCount > 0 {
		sc := float64(res.ShadowCount)
		res.ShadowMeans = ChannelMeans{R: shadowR / sc, G: shadowG / sc, B: shadowB / sc}
	}

	res.Zones = ZoneDistribution{
		Shadow:    float64(res.ShadowCount) / n,
		Highlight: float64(highlights) / n,
		Mid:       float64(res.Pixels-res.ShadowCount-highlights) / n,
	}

	res.TonalSpan = Span(res.Histogram.G)
	rms := float64(maxDev) / 100
	res.Signal = SignalMetrics{
		RMSNoiseProxy:     rms,
		SNRProxy:          res.Means.Luma / (rms + 1) * 10,
		DynamicRangeStops: math.Log2(float64(res.TonalSpan + 1)),
		HighlightClipped:  res.Zones.Highlight > ClippedFraction,
		ShadowClipped:     res.Zones.Shadow > ClippedFraction,
	}

	res.Waveform = make([]float64, cols)
	for i, p := range peaks {
		res.Waveform[i] = p / 255 * 100
	}

	return res, nil
}

// Span returns the distance between the first and last occupied bins, or 0
// for an empty histogram.
func Span(bins [256]int) int {
	first, last := 0, 255
	for first < 255 && bins[first] == 0 {
		first++
	}
	for last > 0 && bins[last] == 0 {
		last--
	}
	if last < first {
		return 0
	}
	return last - first
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
