package diagnose

// CurvePoint maps an input level to an output level.
type CurvePoint struct {
	In  uint8 `json:"in"`
	Out uint8 `json:"out"`
}

// Curve is a five-point tone curve pinned at (0,0) and (255,255).
type Curve [5]CurvePoint

// Midtone nudges are bounded so the curve stays monotonic.
const (
	neutralMid  = 128
	maxMidNudge = 40
)

// SuggestCurve returns a gentle S-curve whose midpoint is lifted for
// underexposed images and pulled down for overexposed ones, in proportion to
// how far mean luma sits past the exposure threshold.
func SuggestCurve(exposure Exposure, meanLuma float64) Curve {
	mid := float64(neutralMid)
	switch exposure {
	case ExposureUnder:
		mid += clamp((UnderexposedLuma-meanLuma)*0.5+10, 0, maxMidNudge)
	case ExposureOver:
		mid -= clamp((meanLuma-OverexposedLuma)*0.5+10, 0, maxMidNudge)
	}

	return Curve{
		{In: 0, Out: 0},
		{In: 60, Out: 45},
		{In: 128, Out: uint8(clamp(mid, 46, 219) + 0.5)},
		{In: 200, Out: 220},
		{In: 255, Out: 255},
	}
}
