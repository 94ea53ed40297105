package stats

import (
	"image"
	"math"
)

// DiffResult describes how two renditions of an image differ pixel by pixel.
type DiffResult struct {
	SameSize        bool        `json:"same_size"`
	Size1           image.Point `json:"size1"`
	Size2           image.Point `json:"size2"`
	TotalPixels     int         `json:"total_pixels"`
	PixelsDifferent int         `json:"pixels_different"`
	Identical       bool        `json:"identical"`

	// MSE is the mean squared 8-bit channel difference over the compared area.
	MSE float64 `json:"mse"`

	// AverageColorDiff is the mean absolute channel difference per pixel.
	AverageColorDiff float64 `json:"average_color_diff"`
}

// Compare diffs a and b over their common top-left aligned area.
//
// A pixel counts as different when any of its R, G or B values differ. The
// images are Identical only when they have the same size and no pixel differs.
func Compare(a, b image.Image) (*DiffResult, error) {
	if a == nil || b == nil || a.Bounds().Empty() || b.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	pa, sa, ra := pixels(a)
	pb, sb, rb := pixels(b)

	w1, h1 := ra.Dx(), ra.Dy()
	w2, h2 := rb.Dx(), rb.Dy()
	minW, minH := w1, h1
	if w2 < minW {
		minW = w2
	}
	if h2 < minH {
		minH = h2
	}

	res := &DiffResult{
		SameSize:    w1 == w2 && h1 == h2,
		Size1:       image.Pt(w1, h1),
		Size2:       image.Pt(w2, h2),
		TotalPixels: minW * minH,
	}

	var sqSum, absSum float64
	for y := 0; y < minH; y++ {
		rowA := pa[y*sa:]
		rowB := pb[y*sb:]
		for x := 0; x < minW; x++ {
			i := x * 4
			dr := absDiff(rowA[i], rowB[i])
			dg := absDiff(rowA[i+1], rowB[i+1])
			db := absDiff(rowA[i+2], rowB[i+2])

			if dr+dg+db > 0 {
				res.PixelsDifferent++
			}
			sqSum += float64(dr*dr + dg*dg + db*db)
			absSum += float64(dr+dg+db) / 3.0
		}
	}

	n := float64(res.TotalPixels)
	res.MSE = math.Round(sqSum/(n*3)*1000) / 1000
	res.AverageColorDiff = math.Round(absSum/n*100) / 100
	res.Identical = res.SameSize && res.PixelsDifferent == 0

	return res, nil
}
