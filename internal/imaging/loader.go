package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/photo-telemetry/internal/container"
)

// PlaceholderSize is the edge length of the neutral image substituted for a
// RAW file without a usable embedded preview.
const PlaceholderSize = 64

// rawExtensions lists vendor RAW container extensions routed through the
// preview scanner instead of the decoder.
var rawExtensions = map[string]bool{
	".3fr": true, ".arw": true, ".cr2": true, ".cr3": true, ".crw": true,
	".dcr": true, ".dng": true, ".erf": true, ".iiq": true, ".k25": true,
	".kdc": true, ".mef": true, ".mos": true, ".mrw": true, ".nef": true,
	".nrw": true, ".orf": true, ".pef": true, ".raf": true, ".raw": true,
	".rw2": true, ".rwl": true, ".sr2": true, ".srf": true, ".srw": true,
	".x3f": true,
}

// IsRawExtension reports whether path names a known RAW container format.
func IsRawExtension(path string) bool {
	return rawExtensions[strings.ToLower(filepath.Ext(path))]
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// Decoder turns encoded bytes into pixels. Nil means NewDecoder(0).
	Decoder *Decoder

	// Container tunes the embedded preview scanner.
	Container container.Options

	// MaxDimension clamps the longest edge of loaded images. Zero keeps the
	// decoded size.
	MaxDimension int
}

// Source is an ingested asset ready for analysis.
type Source struct {
	// Path is the file path or name the asset was loaded under.
	Path string `json:"path"`

	// Format is the decoded format ("jpeg", "png", ...) or "placeholder".
	Format string `json:"format"`

	// Raw is true when the asset was treated as a RAW container.
	Raw bool `json:"raw"`

	// Placeholder is true when no preview could be recovered from a RAW
	// container and a neutral stand-in image was substituted.
	Placeholder bool `json:"placeholder"`

	// Preview is the embedded span that was decoded, if any.
	Preview *container.Candidate `json:"preview,omitempty"`

	// Width and Height are the decoded dimensions before clamping.
	Width  int `json:"width"`
	Height int `json:"height"`

	// FileSizeBytes is the size of the input buffer.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// ColorDepth ("8-bit" or "16-bit") and HasAlpha describe the decoded
	// image before clamping.
	ColorDepth string `json:"color_depth"`
	HasAlpha   bool   `json:"has_alpha"`

	// Encoded is the byte stream handed to the decoder: the extracted
	// preview for RAW input, the input itself otherwise.
	Encoded []byte `json:"-"`

	// Image is the decoded and clamped pixel buffer.
	Image image.Image `json:"-"`
}

// Loader ingests image files, extracting embedded previews from RAW
// containers, and caches the result per path.
//
// A cached entry is only reused while the file's modification time and size
// are unchanged, so a file rewritten in place is decoded again.
//
// Loader is safe for concurrent use by multiple goroutines.
type Loader struct {
	opts LoaderOptions

	mu      sync.RWMutex
	sources map[string]cacheEntry
}

type cacheEntry struct {
	src     *Source
	modTime time.Time
	size    int64
}

// NewLoader creates a Loader with an empty cache.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.Decoder == nil {
		opts.Decoder = NewDecoder(0)
	}
	return &Loader{
		opts:    opts,
		sources: make(map[string]cacheEntry),
	}
}

// Load returns the cached Source for path, reading and decoding the file on
// first use and again whenever its modification time or size changes.
//
// # Errors
//
//   - Returns error if the file cannot be stat'ed or read
//   - Returns ErrDecode or ErrTooLarge (wrapped) if a standard image cannot be
//     decoded
//
// A RAW file without a decodable preview is not an error; see Source.Placeholder.
func (l *Loader) Load(path string) (*Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		l.Evict(path)
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	l.mu.RLock()
	e, ok := l.sources[path]
	l.mu.RUnlock()
	if ok && e.size == fi.Size() && e.modTime.Equal(fi.ModTime()) {
		return e.src, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	src, err := l.LoadBytes(path, data)
	if err != nil {
		l.Evict(path)
		return nil, err
	}

	l.mu.Lock()
	l.sources[path] = cacheEntry{src: src, modTime: fi.ModTime(), size: fi.Size()}
	l.mu.Unlock()

	return src, nil
}

// LoadBytes ingests an in-memory asset without caching it. name is used for
// RAW detection by extension and reported back in Source.Path.
//
// Files with a RAW extension go straight to the preview scanner. Other files
// are decoded directly and only scanned when decoding fails, which covers RAW
// containers with unfamiliar extensions.
func (l *Loader) LoadBytes(name string, data []byte) (*Source, error) {
	src := &Source{Path: name, FileSizeBytes: int64(len(data))}

	if IsRawExtension(name) {
		l.fromContainer(src, data)
		return src, nil
	}

	img, format, err := l.opts.Decoder.Decode(data)
	if err == nil {
		l.finish(src, img, format, data)
		return src, nil
	}
	if errors.Is(err, ErrTooLarge) {
		return nil, err
	}

	if l.decodePreview(src, data) {
		return src, nil
	}
	return nil, err
}

// Evict removes a cached path. Unknown paths are ignored.
func (l *Loader) Evict(path string) {
	l.mu.Lock()
	delete(l.sources, path)
	l.mu.Unlock()
}

// Clear empties the cache.
func (l *Loader) Clear() {
	l.mu.Lock()
	l.sources = make(map[string]cacheEntry)
	l.mu.Unlock()
}

// fromContainer fills src from the best decodable embedded preview, or with a
// placeholder when there is none.
func (l *Loader) fromContainer(src *Source, data []byte) {
	if l.decodePreview(src, data) {
		return
	}

	log.WithField("path", src.Path).Warn("no embedded preview found, using placeholder")
	src.Raw = true
	src.Placeholder = true
	src.Format = "placeholder"
	src.Width, src.Height = PlaceholderSize, PlaceholderSize
	src.ColorDepth = "8-bit"
	src.Image = Placeholder(PlaceholderSize, PlaceholderSize)
}

// decodePreview tries embedded candidates from largest to smallest and keeps
// the first one the decoder accepts. Marker pairs inside compressed payloads
// produce candidates that fail to decode; those are skipped.
func (l *Loader) decodePreview(src *Source, data []byte) bool {
	cands := container.Candidates(data, l.opts.Container)
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Size > cands[j].Size
	})

	for i := range cands {
		c := cands[i]
		span := data[c.Start:c.End]
		img, format, err := l.opts.Decoder.Decode(span)
		if err != nil {
			log.WithField("path", src.Path).WithField("offset", c.Start).WithError(err).Debug("skipping embedded candidate")
			continue
		}

		log.WithField("path", src.Path).
			WithField("offset", c.Start).
			WithField("size", c.Size).
			Debug("extracted embedded preview")

		src.Raw = true
		src.Preview = &c
		l.finish(src, img, format, span)
		return true
	}
	return false
}

func (l *Loader) finish(src *Source, img image.Image, format string, encoded []byte) {
	b := img.Bounds()
	src.Format = format
	src.Width, src.Height = b.Dx(), b.Dy()
	src.ColorDepth, src.HasAlpha = pixelLayout(img)
	src.Encoded = encoded
	src.Image = Clamp(img, l.opts.MaxDimension)
}

// pixelLayout reports the channel depth and alpha presence of a decoded
// image. Formats without an alpha channel (JPEG, paletted GIF, gray) report
// false; NRGBA and RGBA buffers report true only when a pixel is not opaque.
func pixelLayout(img image.Image) (depth string, alpha bool) {
	depth = "8-bit"
	switch m := img.(type) {
	case *image.RGBA:
		alpha = !m.Opaque()
	case *image.NRGBA:
		alpha = !m.Opaque()
	case *image.RGBA64:
		depth = "16-bit"
		alpha = !m.Opaque()
	case *image.NRGBA64:
		depth = "16-bit"
		alpha = !m.Opaque()
	case *image.Gray16:
		depth = "16-bit"
	case *image.Paletted:
		alpha = !m.Opaque()
	}
	return depth, alpha
}

// Placeholder returns a uniform mid-gray image of the given size.
func Placeholder(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	gray := color.NRGBA{128, 128, 128, 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, gray)
		}
	}
	return img
}

// ImageInfo contains metadata about a loaded asset.
type ImageInfo struct {
	// Width is the decoded image width in pixels.
	Width int `json:"width"`

	// Height is the decoded image height in pixels.
	Height int `json:"height"`

	// Format is the decoded format of the analysed pixels.
	Format string `json:"format"`

	// Raw and Placeholder mirror the Source fields.
	Raw         bool `json:"raw"`
	Placeholder bool `json:"placeholder"`

	// Preview is the embedded span used for RAW input.
	Preview *container.Candidate `json:"preview,omitempty"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded image has an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the input in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through the loader and describes the result.
//
// Color depth and alpha describe the decoded pixels before clamping; for RAW
// files that is the embedded preview, not the sensor data.
func LoadImageInfo(l *Loader, path string) (*ImageInfo, error) {
	src, err := l.Load(path)
	if err != nil {
		return nil, err
	}

	return &ImageInfo{
		Width:         src.Width,
		Height:        src.Height,
		Format:        src.Format,
		Raw:           src.Raw,
		Placeholder:   src.Placeholder,
		Preview:       src.Preview,
		ColorDepth:    src.ColorDepth,
		HasAlpha:      src.HasAlpha,
		FileSizeBytes: src.FileSizeBytes,
	}, nil
}
