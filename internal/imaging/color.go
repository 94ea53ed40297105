package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// NewColorResult describes an 8-bit-scale color. Components are clamped to
// 0-255 and rounded.
func NewColorResult(r, g, b float64) ColorResult {
	c := colorful.Color{R: unit(r), G: unit(g), B: unit(b)}
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	r8, g8, b8 := c.RGB255()
	return ColorResult{
		Hex: strings.ToUpper(c.Hex()),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		HSL: HSLColor{H: int(math.Round(h)) % 360, S: int(math.Round(s * 100)), L: int(math.Round(l * 100))},
	}
}

// AverageColor describes the mean color of an image from its channel means.
func AverageColor(meanR, meanG, meanB float64) ColorResult {
	return NewColorResult(meanR, meanG, meanB)
}

// SampleColor returns the color at pixel (x, y).
//
// Coordinates are 0-based relative to the image bounds' origin. An error is
// returned when the point lies outside the image.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	b := img.Bounds()
	px, py := b.Min.X+x, b.Min.Y+y
	if !(image.Point{px, py}).In(b) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c, _ := colorful.MakeColor(img.At(px, py))
	r8, g8, b8 := c.RGB255()
	res := NewColorResult(float64(r8), float64(g8), float64(b8))
	return &res, nil
}

func unit(v float64) float64 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 1
	}
	return math.Round(v) / 255
}
