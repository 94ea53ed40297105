// Package diagnose turns photometric statistics into editing advice.
//
// Synthesize is a pure function: the same Input always produces the same
// findings in the same order, the same suggested tone curve and the same
// grading score. It reads no clock and no random source.
//
// Rules run in a fixed order (exposure, tonal span, color balance, shadow
// purity or the monochrome note, clipping) and each may append one finding.
// The grading score is a coarse proxy derived from tonal span, not a
// calibrated quality metric.
package diagnose
