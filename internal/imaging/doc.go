// Package imaging ingests photographs and renders the image-space views the
// analysis tools return.
//
// # Ingestion
//
// A Loader reads a file, decodes standard formats (JPEG, PNG, GIF, BMP, TIFF,
// WEBP) and routes RAW containers through the embedded preview scanner in the
// container package. Candidates are tried from largest to smallest until one
// decodes; a RAW file with no decodable preview yields a mid-gray placeholder
// rather than an error. Decoded images are clamped to a maximum edge length so
// analysis cost stays bounded.
//
// # Rendering
//
// ClippingMap marks blown highlights (magenta) and crushed shadows (blue) on a
// transparent overlay. SharpnessProxy scores fine detail from Sobel gradient
// magnitude. CameraSummary extracts capture settings from EXIF metadata.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the image
// bounds' origin: X increases rightward and Y increases downward.
//
// # Color Representation
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Thread Safety
//
// Loader and Decoder are safe for concurrent use. The remaining functions are
// stateless and never mutate their input images.
package imaging
