package container

import "sort"

const (
	markerPrefix = 0xFF
	markerSOI    = 0xD8 // Start Of Image
	markerEOI    = 0xD9 // End Of Image
)

// DefaultMaxMarkers bounds how many markers of each kind are recorded.
const DefaultMaxMarkers = 4096

// Options tunes the scanner.
type Options struct {
	// MinSize drops candidates shorter than this many bytes. Zero keeps all.
	MinSize int

	// MaxMarkers caps the number of start and end markers recorded per kind.
	// Zero means DefaultMaxMarkers; a negative value disables the cap.
	MaxMarkers int
}

// Candidate is a hypothesized embedded JPEG span.
//
// Start is the offset of the 0xFF 0xD8 marker and End is the exclusive offset
// just past the 0xFF 0xD9 marker, so Size == End - Start.
type Candidate struct {
	Start int `json:"start_offset"`
	End   int `json:"end_offset"`
	Size  int `json:"size"`
}

// Preview is the embedded image chosen from a container.
type Preview struct {
	Candidate

	// Data is the encoded JPEG stream. It aliases the scanned buffer and must
	// not be modified.
	Data []byte `json:"-"`
}

// markers scans buf once and returns the offsets of every start marker and
// the exclusive end offset of every end marker, both in ascending order.
func markers(buf []byte, limit int) (starts, ends []int) {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] != markerPrefix {
			continue
		}
		switch buf[i+1] {
		case markerSOI:
			if limit < 0 || len(starts) < limit {
				starts = append(starts, i)
			}
		case markerEOI:
			if limit < 0 || len(ends) < limit {
				ends = append(ends, i+2)
			}
		}
		if limit >= 0 && len(starts) >= limit && len(ends) >= limit {
			break
		}
	}
	return starts, ends
}

// Candidates returns every start/end pairing found in buf, in order of their
// start offset. Starts with no following end marker are dropped.
func Candidates(buf []byte, opts Options) []Candidate {
	limit := opts.MaxMarkers
	if limit == 0 {
		limit = DefaultMaxMarkers
	}

	starts, ends := markers(buf, limit)
	if len(starts) == 0 || len(ends) == 0 {
		return nil
	}

	out := make([]Candidate, 0, len(starts))
	for _, s := range starts {
		// ends are exclusive offsets; the marker itself sits at end-2 and
		// must lie strictly after the start marker.
		j := sort.Search(len(ends), func(k int) bool { return ends[k]-2 > s })
		if j == len(ends) {
			continue
		}
		size := ends[j] - s
		if size < opts.MinSize {
			continue
		}
		out = append(out, Candidate{Start: s, End: ends[j], Size: size})
	}
	return out
}

// FindPreview returns the largest embedded JPEG in buf.
//
// Parameters:
//   - buf: the whole container file; it is never modified
//   - opts: minimum span size and marker cap
//
// Returns:
//   - Preview: the winning span, with Data aliasing buf
//   - bool: false when no candidate survives
//
// # Algorithm
//
// Candidates pairs every start-of-image marker (FF D8) with the first
// end-of-image marker (FF D9) after it, found by binary search over the
// sorted end offsets. FindPreview keeps the span with the largest size. Ties
// keep the earliest span.
//
// # Errors
//
// There are none. A container without previews is an expected input and is
// reported through the boolean.
func FindPreview(buf []byte, opts Options) (Preview, bool) {
	var best Candidate
	found := false
	for _, c := range Candidates(buf, opts) {
		if !found || c.Size > best.Size {
			best = c
			found = true
		}
	}
	if !found {
		return Preview{}, false
	}
	return Preview{Candidate: best, Data: buf[best.Start:best.End]}, true
}
