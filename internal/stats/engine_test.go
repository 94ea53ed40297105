package stats

import (
	"image"
	"image/color"
	"math"
	"reflect"
	"testing"
)

// createInMemoryImage creates a uniformly colored RGBA image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant.
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255}
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255}
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255}
			} else {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// createCheckerboard creates a black and white checkerboard.
func createCheckerboard(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.RGBA{0, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

func sum(bins [256]int) int {
	total := 0
	for _, v := range bins {
		total += v
	}
	return total
}

func mustCompute(t *testing.T, img image.Image) *Result {
	t.Helper()
	res, err := Compute(img, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	return res
}

func TestCompute_HistogramSumsToPixelCount(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{"uniform", createInMemoryImage(37, 11, color.RGBA{12, 200, 99, 255})},
		{"pattern", createPatternImage(64, 48)},
		{"checkerboard", createCheckerboard(9, 7)},
		{"gray", image.NewGray(image.Rect(0, 0, 13, 5))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustCompute(t, tt.img)
			want := tt.img.Bounds().Dx() * tt.img.Bounds().Dy()
			if res.Pixels != want {
				t.Errorf("Pixels: got %d, want %d", res.Pixels, want)
			}
			for name, bins := range map[string][256]int{"R": res.Histogram.R, "G": res.Histogram.G, "B": res.Histogram.B} {
				if got := sum(bins); got != want {
					t.Errorf("%s histogram sum: got %d, want %d", name, got, want)
				}
			}
		})
	}
}

func TestCompute_UniformGray(t *testing.T) {
	res := mustCompute(t, createInMemoryImage(20, 20, color.RGBA{128, 128, 128, 255}))

	if !res.IsMonochrome {
		t.Error("uniform gray should be monochrome")
	}
	for i := 0; i < 256; i++ {
		want := 0
		if i == 128 {
			want = 400
		}
		if res.Histogram.R[i] != want || res.Histogram.G[i] != want || res.Histogram.B[i] != want {
			t.Fatalf("bin %d: got (%d,%d,%d), want %d", i, res.Histogram.R[i], res.Histogram.G[i], res.Histogram.B[i], want)
		}
	}
	if res.TonalSpan != 0 {
		t.Errorf("TonalSpan: got %d, want 0", res.TonalSpan)
	}
	if res.Signal.DynamicRangeStops != 0 {
		t.Errorf("DynamicRangeStops: got %v, want 0", res.Signal.DynamicRangeStops)
	}
	if res.Zones.Mid != 1 {
		t.Errorf("Mid: got %v, want 1", res.Zones.Mid)
	}
}

func TestCompute_PureRed(t *testing.T) {
	res := mustCompute(t, createInMemoryImage(10, 10, color.RGBA{255, 0, 0, 255}))

	if res.IsMonochrome {
		t.Error("pure red should not be monochrome")
	}
	if res.MaxChromaDeviation != 510 {
		t.Errorf("MaxChromaDeviation: got %d, want 510", res.MaxChromaDeviation)
	}
	if math.Abs(res.Signal.RMSNoiseProxy-5.1) > 1e-9 {
		t.Errorf("RMSNoiseProxy: got %v, want 5.1", res.Signal.RMSNoiseProxy)
	}
	wantSNR := res.Means.Luma / (5.1 + 1) * 10
	if math.Abs(res.Signal.SNRProxy-wantSNR) > 1e-9 {
		t.Errorf("SNRProxy: got %v, want %v", res.Signal.SNRProxy, wantSNR)
	}
}

func TestCompute_HighlightFraction(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{128, 128, 128, 255})
	for y := 0; y < 2; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	res := mustCompute(t, img)
	if res.Zones.Highlight != 0.2 {
		t.Errorf("Highlight: got %v, want 0.2", res.Zones.Highlight)
	}
	if res.Zones.Shadow != 0 {
		t.Errorf("Shadow: got %v, want 0", res.Zones.Shadow)
	}
	if !res.Signal.HighlightClipped {
		t.Error("HighlightClipped should be true")
	}
	if res.Signal.ShadowClipped {
		t.Error("ShadowClipped should be false")
	}
	if res.HighlightClipCount != 20 {
		t.Errorf("HighlightClipCount: got %d, want 20", res.HighlightClipCount)
	}
}

func TestCompute_Checkerboard(t *testing.T) {
	res := mustCompute(t, createCheckerboard(4, 4))

	if res.Zones.Shadow != 0.5 || res.Zones.Highlight != 0.5 || res.Zones.Mid != 0 {
		t.Errorf("Zones: got %+v, want 0.5/0/0.5", res.Zones)
	}
	if !res.IsMonochrome {
		t.Error("achromatic checkerboard should be classed monochrome")
	}
	if res.TonalSpan != 255 {
		t.Errorf("TonalSpan: got %d, want 255", res.TonalSpan)
	}
	if res.Signal.DynamicRangeStops != 8 {
		t.Errorf("DynamicRangeStops: got %v, want 8", res.Signal.DynamicRangeStops)
	}
	if res.ShadowClipCount != 8 {
		t.Errorf("ShadowClipCount: got %d, want 8", res.ShadowClipCount)
	}
	if res.ShadowMeans.R != 0 || res.ShadowMeans.G != 0 || res.ShadowMeans.B != 0 {
		t.Errorf("ShadowMeans: got %+v, want zeros", res.ShadowMeans)
	}
}

func TestCompute_ZonesSumToOne(t *testing.T) {
	imgs := []image.Image{
		createPatternImage(31, 17),
		createCheckerboard(5, 3),
		createInMemoryImage(3, 3, color.RGBA{20, 30, 40, 255}),
	}
	for i, img := range imgs {
		res := mustCompute(t, img)
		total := res.Zones.Shadow + res.Zones.Mid + res.Zones.Highlight
		if math.Abs(total-1) > 1e-9 {
			t.Errorf("image %d: zones sum to %v", i, total)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	img := createPatternImage(50, 30)
	a := mustCompute(t, img)
	b := mustCompute(t, img)
	if !reflect.DeepEqual(a, b) {
		t.Error("two passes over the same image differ")
	}
}

func TestCompute_PixelFormatsAgree(t *testing.T) {
	rgba := createPatternImage(16, 16)
	nrgba := image.NewNRGBA(rgba.Bounds())
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			nrgba.Set(x, y, rgba.At(x, y))
		}
	}
	sub := createPatternImage(32, 32).SubImage(image.Rect(8, 8, 24, 24))

	a := mustCompute(t, rgba)
	b := mustCompute(t, nrgba)
	if !reflect.DeepEqual(a, b) {
		t.Error("RGBA and NRGBA inputs produce different results")
	}

	c := mustCompute(t, sub)
	if c.Pixels != 256 || sum(c.Histogram.R) != 256 {
		t.Errorf("sub-image: got %d pixels", c.Pixels)
	}
}

func TestCompute_Waveform(t *testing.T) {
	img := createInMemoryImage(8, 4, color.RGBA{0, 0, 0, 255})
	for y := 0; y < 4; y++ {
		for x := 4; x < 8; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	res, err := Compute(img, Options{WaveformColumns: 4})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(res.Waveform) != 4 {
		t.Fatalf("Waveform length: got %d, want 4", len(res.Waveform))
	}
	for i, v := range res.Waveform {
		want := 0.0
		if i >= 2 {
			want = 100
		}
		if math.Abs(v-want) > 1e-6 {
			t.Errorf("Waveform[%d]: got %v, want %v", i, v, want)
		}
	}

	// Columns never exceed the image width.
	narrow := mustCompute(t, createInMemoryImage(3, 3, color.White))
	if len(narrow.Waveform) != 3 {
		t.Errorf("narrow Waveform length: got %d, want 3", len(narrow.Waveform))
	}
}

func TestCompute_EmptyImage(t *testing.T) {
	if _, err := Compute(nil, Options{}); err != ErrEmptyImage {
		t.Errorf("nil image: got %v, want ErrEmptyImage", err)
	}
	if _, err := Compute(image.NewRGBA(image.Rect(0, 0, 0, 10)), Options{}); err != ErrEmptyImage {
		t.Errorf("zero-width image: got %v, want ErrEmptyImage", err)
	}
}

func TestSpan(t *testing.T) {
	var bins [256]int
	if got := Span(bins); got != 0 {
		t.Errorf("empty: got %d, want 0", got)
	}
	bins[10] = 1
	bins[130] = 4
	if got := Span(bins); got != 120 {
		t.Errorf("got %d, want 120", got)
	}
}

func TestCompute_PixelBufferAlpha(t *testing.T) {
	straight := color.NRGBA{R: 200, G: 200, B: 200, A: 128}

	nrgba := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			nrgba.SetNRGBA(x, y, straight)
			rgba.Set(x, y, straight)
		}
	}

	// NRGBA holds straight color; RGBA holds it premultiplied by alpha.
	if got := mustCompute(t, nrgba).Means.G; got != 200 {
		t.Errorf("NRGBA mean: got %v, want 200", got)
	}
	if got := mustCompute(t, rgba).Means.G; math.Abs(got-100) > 1 {
		t.Errorf("RGBA mean: got %v, want ~100", got)
	}

	// Opaque pixels read the same through either layout.
	opaque := color.NRGBA{R: 30, G: 140, B: 220, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			nrgba.SetNRGBA(x, y, opaque)
			rgba.Set(x, y, opaque)
		}
	}
	if a, b := mustCompute(t, nrgba).Means, mustCompute(t, rgba).Means; a != b {
		t.Errorf("opaque means differ: NRGBA %+v, RGBA %+v", a, b)
	}
}
