// Package zipcodec provides a single-entry zip archive codec.
//
// Compression writes one Deflate entry. Decompression extracts only the
// first entry of the archive; any further entries are skipped and reported
// through the logger.
package zipcodec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/discochess/squash/internal/codec"
)

// DefaultEntryName is used when no entry name is configured.
const DefaultEntryName = "data"

// ErrEmptyArchive is returned when an archive contains no entries.
var ErrEmptyArchive = errors.New("zipcodec: archive has no entries")

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements zip compression.
type Codec struct {
	level     int
	entryName string
	modified  time.Time
	tempDir   string
	logger    *zap.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithLevel sets the deflate level. Values outside -1 to 9 are clamped.
func WithLevel(level int) Option {
	return func(c *Codec) {
		c.level = codec.Clamp(level, flate.DefaultCompression, flate.BestCompression)
	}
}

// WithEntryName sets the name of the archive entry written on compression.
func WithEntryName(name string) Option {
	return func(c *Codec) {
		if name != "" {
			c.entryName = name
		}
	}
}

// WithModified sets the modification time recorded for the entry.
func WithModified(t time.Time) Option {
	return func(c *Codec) { c.modified = t }
}

// WithTempDir sets the directory used to spool non-seekable input.
func WithTempDir(dir string) Option {
	return func(c *Codec) { c.tempDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Codec) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a new zip codec.
func New(opts ...Option) *Codec {
	c := &Codec{
		level:     flate.DefaultCompression,
		entryName: DefaultEntryName,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Level returns the deflate level in use.
func (c *Codec) Level() int {
	return c.level
}

// EntryName returns the name written for the archive entry.
func (c *Codec) EntryName() string {
	return c.entryName
}

// Writer wraps w with a zip archive holding a single entry.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	zw := zip.NewWriter(w)
	level := c.level
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	header := &zip.FileHeader{
		Name:   c.entryName,
		Method: zip.Deflate,
	}
	if !c.modified.IsZero() {
		header.Modified = c.modified
	}

	entry, err := zw.CreateHeader(header)
	if err != nil {
		return nil, fmt.Errorf("creating entry %q: %w", c.entryName, err)
	}
	return &archiveWriter{zw: zw, entry: entry}, nil
}

// Reader opens the archive read from r and returns its first entry.
// Input that is not random-access is spooled to a temporary file first.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	ra, size, cleanup, err := c.readerAt(r)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(ra, size)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	if len(zr.File) == 0 {
		cleanup()
		return nil, ErrEmptyArchive
	}

	first := zr.File[0]
	if skipped := len(zr.File) - 1; skipped > 0 {
		c.logger.Warn("archive has multiple entries, extracting only the first",
			zap.String("entry", first.Name),
			zap.Int("skipped", skipped),
		)
	}

	rc, err := first.Open()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("opening entry %q: %w", first.Name, err)
	}
	return &archiveReader{ReadCloser: rc, cleanup: cleanup}, nil
}

// Extension returns "zip".
func (c *Codec) Extension() string {
	return "zip"
}

// sizedReaderAt is satisfied by bytes.Reader, strings.Reader and io.SectionReader.
type sizedReaderAt interface {
	io.ReaderAt
	Size() int64
}

func (c *Codec) readerAt(r io.Reader) (io.ReaderAt, int64, func(), error) {
	nop := func() {}
	switch v := r.(type) {
	case sizedReaderAt:
		return v, v.Size(), nop, nil
	case *os.File:
		info, err := v.Stat()
		if err != nil {
			return nil, 0, nop, fmt.Errorf("stat archive: %w", err)
		}
		return v, info.Size(), nop, nil
	}

	tmp, err := os.CreateTemp(c.tempDir, "squash-zip-*")
	if err != nil {
		return nil, 0, nop, fmt.Errorf("creating spool file: %w", err)
	}
	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}

	size, err := io.Copy(tmp, r)
	if err != nil {
		cleanup()
		return nil, 0, nop, fmt.Errorf("spooling archive: %w", err)
	}
	return tmp, size, cleanup, nil
}

type archiveWriter struct {
	zw    *zip.Writer
	entry io.Writer
}

func (w *archiveWriter) Write(p []byte) (int, error) {
	return w.entry.Write(p)
}

// Close finalizes the entry and writes the central directory.
func (w *archiveWriter) Close() error {
	return w.zw.Close()
}

type archiveReader struct {
	io.ReadCloser
	cleanup func()
}

func (r *archiveReader) Close() error {
	err := r.ReadCloser.Close()
	r.cleanup()
	return err
}
