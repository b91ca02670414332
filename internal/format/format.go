// Package format resolves format names to codecs and output file names.
package format

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/squash/internal/codec"
	"github.com/discochess/squash/internal/codec/gzipcodec"
	"github.com/discochess/squash/internal/codec/lz4codec"
	"github.com/discochess/squash/internal/codec/zipcodec"
	"github.com/discochess/squash/internal/codec/zstdcodec"
)

// ErrUnsupported is returned for format names outside the supported set.
var ErrUnsupported = errors.New("format: unsupported format")

// UnknownExtension is appended for format names that do not resolve.
const UnknownExtension = ".unknown"

// Format identifies a compression format.
type Format int

// Supported formats.
const (
	Gzip Format = iota + 1
	Zstd
	LZ4
	Zip
)

var names = map[Format]string{
	Gzip: "gzip",
	Zstd: "zstd",
	LZ4:  "lz4",
	Zip:  "zip",
}

var extensions = map[Format]string{
	Gzip: ".gz",
	Zstd: ".zst",
	LZ4:  ".lz4",
	Zip:  ".zip",
}

// All returns the supported formats in a stable order.
func All() []Format {
	return []Format{Gzip, Zstd, LZ4, Zip}
}

// Names returns the names of the supported formats.
func Names() []string {
	all := All()
	out := make([]string, len(all))
	for i, f := range all {
		out[i] = f.String()
	}
	return out
}

// Parse resolves a format name. Names are matched exactly.
func Parse(name string) (Format, error) {
	for f, n := range names {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupported, name)
}

// String returns the format name.
func (f Format) String() string {
	if n, ok := names[f]; ok {
		return n
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	if ext, ok := extensions[f]; ok {
		return ext
	}
	return UnknownExtension
}

// Extension returns the file extension for the named format, or
// UnknownExtension when the name does not resolve.
func Extension(name string) string {
	f, err := Parse(name)
	if err != nil {
		return UnknownExtension
	}
	return f.Extension()
}

// OutputPath appends the extension for the named format to path.
func OutputPath(path, name string) string {
	return path + Extension(name)
}

// Options configures codec construction.
type Options struct {
	// Level is the compression level on the codec's native scale.
	// Out-of-range values are clamped by the codec.
	Level int

	// EntryName names the archive entry for container formats.
	EntryName string

	// Modified is recorded as the entry time for container formats.
	Modified time.Time

	// TempDir is used by decoders that need to spool their input.
	TempDir string

	// Logger receives codec warnings. Nil disables them.
	Logger *zap.Logger
}

// Codec returns the codec for f configured with opts.
func (f Format) Codec(opts Options) (codec.Codec, error) {
	switch f {
	case Gzip:
		return gzipcodec.New(gzipcodec.WithLevel(opts.Level)), nil
	case Zstd:
		return zstdcodec.New(zstdcodec.WithLevel(opts.Level)), nil
	case LZ4:
		return lz4codec.New(lz4codec.WithLevel(opts.Level)), nil
	case Zip:
		return zipcodec.New(
			zipcodec.WithLevel(opts.Level),
			zipcodec.WithEntryName(opts.EntryName),
			zipcodec.WithModified(opts.Modified),
			zipcodec.WithTempDir(opts.TempDir),
			zipcodec.WithLogger(opts.Logger),
		), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, f)
	}
}
