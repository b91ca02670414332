// Package codec provides streaming compression and decompression for a
// single byte stream.
package codec

import "io"

// DefaultLevel is the compression level used when none is configured.
// Codecs clamp it into their own range, so it selects each codec's
// strongest practical setting.
const DefaultLevel = 10

// Codec provides compression and decompression functionality.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	// Closing the returned writer finalizes the stream but does not close w.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	Extension() string
}

// Clamp limits level to the inclusive range [lo, hi].
func Clamp(level, lo, hi int) int {
	if level < lo {
		return lo
	}
	if level > hi {
		return hi
	}
	return level
}
