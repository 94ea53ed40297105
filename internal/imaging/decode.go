package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WEBP format decoder
)

// DefaultDecodeLimit is the largest pixel count Decode accepts (30 Mpx).
const DefaultDecodeLimit = 30000000

var (
	// ErrDecode wraps every failure to turn bytes into pixels. It is terminal
	// for the call that produced it.
	ErrDecode = errors.New("failed to decode image")

	// ErrTooLarge is returned when an image header reports more pixels than
	// the decoder's limit.
	ErrTooLarge = errors.New("image is too big")
)

// Decoder turns encoded image bytes into a pixel buffer.
//
// Supported formats are JPEG, PNG, GIF, BMP, TIFF and WEBP. A Decoder holds no
// mutable state and is safe for concurrent use.
type Decoder struct {
	limit int
}

// NewDecoder returns a Decoder rejecting images above limit pixels. A
// non-positive limit means DefaultDecodeLimit.
func NewDecoder(limit int) *Decoder {
	if limit <= 0 {
		limit = DefaultDecodeLimit
	}
	return &Decoder{limit: limit}
}

// Decode decodes data and returns the image with its format name.
//
// The header is checked against the pixel limit before the full decode so
// oversized inputs fail fast.
//
// # Errors
//
//   - ErrTooLarge if width*height exceeds the limit
//   - ErrDecode (wrapped) for unknown formats or corrupt data
func (d *Decoder) Decode(data []byte) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width*cfg.Height > d.limit {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, d.limit)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, format, nil
}

// Clamp downsamples img so its longest edge is at most maxDim, keeping the
// aspect ratio. Images already within bounds, or a non-positive maxDim, are
// returned unchanged.
func Clamp(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Box)
}
