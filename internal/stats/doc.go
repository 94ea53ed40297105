// Package stats computes photometric statistics from a decoded pixel buffer.
//
// Compute visits every pixel exactly once and accumulates per-channel
// histograms, Rec.709 luma totals, tonal-zone populations, shadow color sums,
// clip counts, a column waveform and the maximum per-pixel chroma deviation.
// Everything else is derived from those accumulators after the pass.
//
// # Proxies
//
// Several values are heuristic stand-ins rather than physical measurements and
// are named accordingly:
//   - RMSNoiseProxy is the maximum chroma deviation divided by 100. It reacts to
//     color noise and to saturated content alike.
//   - SNRProxy is mean luma over (RMSNoiseProxy + 1), times 10. It is not dB.
//   - DynamicRangeStops is log2 of the occupied green histogram span. It is a
//     relative figure for comparing renditions of the same shot.
//
// # Monochrome detection
//
// An image is classed monochrome when no pixel's |R-G|+|G-B|+|B-R| reaches 10.
// Achromatic images of any contrast, including a pure black and white
// checkerboard, are reported monochrome.
//
// # Thread Safety
//
// Compute, Decimate and Compare hold no state and may run concurrently on
// different or shared (read-only) images.
package stats
