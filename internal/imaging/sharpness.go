package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
)

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// maxSobel is the gradient magnitude of a full black-to-white step.
var maxSobel = 4 * math.Sqrt2

// SharpnessProxy estimates how much fine detail an image carries.
//
// The image is converted to BT.601 luminance, smoothed with a 5x5 Gaussian to
// suppress sensor noise, and run through a Sobel operator. The score is the
// mean gradient magnitude scaled to 0-100, rounded to two decimals. A uniform
// image scores 0. Scores are only comparable between images of similar size.
func SharpnessProxy(img image.Image) float64 {
	gray, width, height := luminance(img)
	if width == 0 || height == 0 {
		return 0
	}
	blurred := gaussianBlur(gray, width, height)

	var sum float64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := blurred[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			sum += math.Sqrt(gx*gx + gy*gy)
		}
	}

	score := sum / float64(width*height) / maxSobel * 100
	return math.Round(score*100) / 100
}

// luminance returns the BT.601 luma of img as rows of values in 0-1.
func luminance(img image.Image) ([][]float64, int, int) {
	src := clone.AsRGBA(img)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()

	gray := make([][]float64, height)
	for y := 0; y < height; y++ {
		gray[y] = make([]float64, width)
		row := src.Pix[y*src.Stride:]
		for x := 0; x < width; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]
			gray[y][x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
		}
	}
	return gray, width, height
}

// gaussianBlur applies a 5x5 Gaussian kernel (sigma ~1.4, sum 273).
// Border pixels use replicated edge values.
func gaussianBlur(img [][]float64, width, height int) [][]float64 {
	kernel := [5][5]float64{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	const kernelSum = 273.0

	result := make([][]float64, height)
	for y := 0; y < height; y++ {
		result[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					sum += img[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)] * kernel[ky+2][kx+2]
				}
			}
			result[y][x] = sum / kernelSum
		}
	}
	return result
}

// clamp constrains val to [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
