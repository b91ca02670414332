// Package lz4codec provides an lz4 frame compression codec.
package lz4codec

import (
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/discochess/squash/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// levels maps 0-9 onto lz4 compression levels. 0 selects the fast mode.
var levels = [...]lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1,
	lz4.Level2,
	lz4.Level3,
	lz4.Level4,
	lz4.Level5,
	lz4.Level6,
	lz4.Level7,
	lz4.Level8,
	lz4.Level9,
}

// Codec implements lz4 frame compression.
type Codec struct {
	level lz4.CompressionLevel
}

// Option configures a Codec.
type Option func(*Codec)

// WithLevel sets the compression level (0 = fast, 9 = best).
func WithLevel(level int) Option {
	return func(c *Codec) {
		c.level = levels[codec.Clamp(level, 0, len(levels)-1)]
	}
}

// New returns a new lz4 codec.
func New(opts ...Option) *Codec {
	c := &Codec{level: lz4.Fast}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Level returns the compression level in use.
func (c *Codec) Level() lz4.CompressionLevel {
	return c.level
}

// Reader wraps r to decompress lz4 frames.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

// Writer wraps w to compress data into an lz4 frame.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.CompressionLevelOption(c.level)); err != nil {
		return nil, err
	}
	return zw, nil
}

// Extension returns "lz4".
func (c *Codec) Extension() string {
	return "lz4"
}
