// Package container locates embedded JPEG previews inside camera RAW files.
//
// Most vendor RAW formats (ARW, CR2, NEF, RW2, ORF, DNG and friends) are
// TIFF-derived containers that carry one or more JPEG renditions of the shot
// next to the sensor data: a small thumbnail and, usually, a full-size preview
// for the camera's rear display. This package finds that preview without
// decoding sensor data and without walking the container's IFD tree.
//
// # Algorithm
//
// The buffer is scanned once, recording every offset of the JPEG start-of-image
// marker (0xFF 0xD8) and every offset of the end-of-image marker (0xFF 0xD9).
// Each start is paired with the nearest end marker that lies strictly after it,
// giving a candidate span. The longest candidate wins, which favors the
// full-resolution preview over thumbnails.
//
// # Limitations
//
// Marker byte pairs can occur by chance inside entropy-coded JPEG data or raw
// sensor payloads, so a candidate is a hypothesis rather than a guarantee.
// Callers must be ready for the decoder to reject the bytes returned here.
//
// Not finding a preview is a normal outcome and is reported with a boolean,
// never an error.
//
// # Thread Safety
//
// All functions are pure and never modify the input buffer. They may be called
// concurrently.
package container
