package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/photo-telemetry/internal/diagnose"
)

func writePNG(t *testing.T, dir, name string, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	return p
}

func TestAnalyzeFiles(t *testing.T) {
	dir := t.TempDir()
	dark := writePNG(t, dir, "dark.png", color.RGBA{20, 20, 20, 255})
	bright := writePNG(t, dir, "bright.png", color.RGBA{240, 240, 240, 255})
	missing := filepath.Join(dir, "missing.png")

	results := analyzeFiles([]string{dark, missing, bright}, 2)
	require.Len(t, results, 3)

	assert.Equal(t, dark, results[0].Path)
	require.NotNil(t, results[0].Telemetry)
	assert.Equal(t, "under", results[0].Telemetry.Exposure)

	assert.Equal(t, missing, results[1].Path)
	assert.NotEmpty(t, results[1].Error)
	assert.Nil(t, results[1].Telemetry)

	require.NotNil(t, results[2].Telemetry)
	assert.Equal(t, "over", results[2].Telemetry.Exposure)
}

func TestRenderOutput(t *testing.T) {
	dir := t.TempDir()
	p := writePNG(t, dir, "grey.png", color.RGBA{128, 128, 128, 255})
	results := analyzeFiles([]string{p}, 1)

	var buf bytes.Buffer
	renderTable(&buf, results)
	renderFindings(&buf, results)

	out := buf.String()
	assert.Contains(t, out, "grey.png")
	assert.Contains(t, out, "32x24")
}

func TestFormatCurve(t *testing.T) {
	c := diagnose.Curve{
		{In: 0, Out: 0},
		{In: 64, Out: 70},
		{In: 128, Out: 140},
		{In: 192, Out: 200},
		{In: 255, Out: 255},
	}
	assert.Equal(t, "(0,0) (64,70) (128,140) (192,200) (255,255)", formatCurve(c))
}
