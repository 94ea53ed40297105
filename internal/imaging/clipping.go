package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"
)

// DefaultClipThreshold is the channel level at or above which a pixel is
// flagged as blown.
const DefaultClipThreshold = 253

// ShadowClipLevel is the level at or below which all three channels must sit
// for a pixel to be flagged as crushed.
const ShadowClipLevel = 5

var (
	highlightMark = color.NRGBA{255, 0, 255, 255} // magenta
	shadowMark    = color.NRGBA{0, 0, 255, 255}   // blue
)

// ClippingMapResult is a soft-proofing overlay plus the counts behind it.
type ClippingMapResult struct {
	EncodedImage

	Threshold       int     `json:"threshold"`
	HighlightPixels int     `json:"highlight_pixels"`
	ShadowPixels    int     `json:"shadow_pixels"`
	HighlightPct    float64 `json:"highlight_percent"`
	ShadowPct       float64 `json:"shadow_percent"`
}

// ClippingMap builds an overlay marking clipped pixels.
//
// A pixel with any channel >= threshold is painted magenta. A pixel whose
// three channels are all <= ShadowClipLevel is painted blue. Everything else
// is fully transparent, so the map can be laid over the source image.
// A threshold outside 1-255 means DefaultClipThreshold.
func ClippingMap(img image.Image, threshold int) (*image.NRGBA, int, int) {
	if threshold <= 0 || threshold > 255 {
		threshold = DefaultClipThreshold
	}
	t := uint8(threshold)

	src := clone.AsRGBA(img)
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	highlights, shadows := 0, 0
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < b.Dx(); x++ {
			r, g, bl := row[x*4], row[x*4+1], row[x*4+2]
			switch {
			case r >= t || g >= t || bl >= t:
				out.SetNRGBA(x, y, highlightMark)
				highlights++
			case r <= ShadowClipLevel && g <= ShadowClipLevel && bl <= ShadowClipLevel:
				out.SetNRGBA(x, y, shadowMark)
				shadows++
			}
		}
	}
	return out, highlights, shadows
}

// RenderClippingMap builds the overlay and encodes it as PNG.
func RenderClippingMap(img image.Image, threshold int) (*ClippingMapResult, error) {
	if threshold <= 0 || threshold > 255 {
		threshold = DefaultClipThreshold
	}
	overlay, highlights, shadows := ClippingMap(img, threshold)

	enc, err := EncodePNG(overlay)
	if err != nil {
		return nil, err
	}

	total := float64(enc.Width * enc.Height)
	res := &ClippingMapResult{
		EncodedImage:    *enc,
		Threshold:       threshold,
		HighlightPixels: highlights,
		ShadowPixels:    shadows,
	}
	if total > 0 {
		res.HighlightPct = float64(highlights) / total * 100
		res.ShadowPct = float64(shadows) / total * 100
	}
	return res, nil
}
