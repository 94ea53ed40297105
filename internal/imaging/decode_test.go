package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestDecoder_Decode(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		wantFormat string
	}{
		{"png", nil, "png"},
		{"jpeg", nil, "jpeg"},
	}
	tests[0].data = pngBytes(t, createInMemoryImage(12, 7, color.White))
	tests[1].data = jpegBytes(t, 12, 7, color.White)

	d := NewDecoder(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, format, err := d.Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if format != tt.wantFormat {
				t.Errorf("format: got %q, want %q", format, tt.wantFormat)
			}
			if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
				t.Errorf("dimensions: got %dx%d, want 12x7", b.Dx(), b.Dy())
			}
		})
	}
}

func TestDecoder_Decode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		limit   int
		wantErr error
	}{
		{"empty", nil, 0, ErrDecode},
		{"garbage", []byte("definitely not pixels"), 0, ErrDecode},
		{"truncated jpeg", []byte{0xFF, 0xD8, 0xFF, 0xD9}, 0, ErrDecode},
		{"over limit", nil, 99, ErrTooLarge},
	}
	tests[3].data = pngBytes(t, createInMemoryImage(10, 10, color.Black))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewDecoder(tt.limit).Decode(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewDecoder_DefaultLimit(t *testing.T) {
	if got := NewDecoder(-1).limit; got != DefaultDecodeLimit {
		t.Errorf("limit: got %d, want %d", got, DefaultDecodeLimit)
	}
}

func TestClamp(t *testing.T) {
	img := createInMemoryImage(300, 120, color.White)

	tests := []struct {
		name         string
		maxDim       int
		wantW, wantH int
	}{
		{"disabled", 0, 300, 120},
		{"already within", 500, 300, 120},
		{"landscape", 150, 150, 60},
		{"tight", 30, 30, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Clamp(img, tt.maxDim).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestClamp_ReturnsSameImageWhenSmall(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if Clamp(img, 10) != image.Image(img) {
		t.Error("Clamp should not copy images already within bounds")
	}
}
