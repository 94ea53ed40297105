package stats

// DefaultBuckets is the number of display buckets used by the UI histogram.
const DefaultBuckets = 20

// DisplayHistogram is a decimated histogram, each channel scaled 0-100
// against its own largest bucket.
type DisplayHistogram struct {
	R []float64 `json:"r"`
	G []float64 `json:"g"`
	B []float64 `json:"b"`
}

// Display decimates all three channels of h into buckets.
func (h *Histogram) Display(buckets int) DisplayHistogram {
	return DisplayHistogram{
		R: Decimate(h.R, buckets),
		G: Decimate(h.G, buckets),
		B: Decimate(h.B, buckets),
	}
}

// Decimate collapses 256 bins into exactly buckets contiguous runs, sums
// each run, and scales the result so the largest bucket is 100.
//
// Bucket i covers bins [i*256/buckets, (i+1)*256/buckets), so run lengths
// differ by at most one bin. A histogram with no counts yields all zeros.
// Non-positive buckets means DefaultBuckets; more than 256 means 256.
func Decimate(bins [256]int, buckets int) []float64 {
	if buckets <= 0 {
		buckets = DefaultBuckets
	}
	if buckets > len(bins) {
		buckets = len(bins)
	}

	max := 0
	sums := make([]int, buckets)
	for i := range sums {
		lo, hi := i*len(bins)/buckets, (i+1)*len(bins)/buckets
		for j := lo; j < hi; j++ {
			sums[i] += bins[j]
		}
		if sums[i] > max {
			max = sums[i]
		}
	}

	out := make([]float64, buckets)
	if max == 0 {
		return out
	}
	for i, s := range sums {
		out[i] = float64(s) / float64(max) * 100
	}
	return out
}
