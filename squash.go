// Package squash compresses and decompresses single files through
// interchangeable codecs (gzip, zstd, lz4, zip), streaming the data in
// fixed-size chunks and reporting progress as it goes.
//
// Example usage:
//
//	client, err := squash.New(
//	    squash.WithProgress(progress.TextFunc(os.Stderr)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	res, err := client.Compress(ctx, "access.log", "access.log.zst", "zstd", 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("wrote %d bytes\n", res.BytesWritten)
package squash

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/squash/internal/codec"
	"github.com/discochess/squash/internal/format"
	"github.com/discochess/squash/internal/progress"
	"github.com/discochess/squash/internal/stats"
	"github.com/discochess/squash/internal/store"
)

// DefaultChunkSize is the number of bytes moved through the codec per step.
const DefaultChunkSize = 8192

// DefaultLevel is the compression level the CLI uses. It clamps to each
// codec's strongest setting at or below it.
const DefaultLevel = codec.DefaultLevel

// Operation names, as reported in Result and progress updates.
const (
	OpCompress   = progress.PhaseCompress
	OpDecompress = progress.PhaseDecompress
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrUnsupportedFormat indicates a format name outside gzip, zstd, lz4, zip.
	ErrUnsupportedFormat = format.ErrUnsupported

	// ErrNotFound indicates the input does not exist.
	ErrNotFound = store.ErrNotFound

	// ErrClosed indicates the client has been closed.
	ErrClosed = errors.New("squash: client closed")

	// ErrInvalidChunkSize indicates a chunk size that is not positive.
	ErrInvalidChunkSize = errors.New("squash: chunk size must be positive")
)

// Result describes a completed operation.
type Result struct {
	Operation    string
	Input        string
	Output       string
	Format       string
	BytesRead    int64
	BytesWritten int64
	Duration     time.Duration
}

// Ratio returns the output size as a percentage of the input size, or 0 for
// empty input.
func (r *Result) Ratio() float64 {
	if r.BytesRead == 0 {
		return 0
	}
	return float64(r.BytesWritten) / float64(r.BytesRead) * 100
}

// Client runs compress and decompress operations.
// A Client is safe for concurrent use by multiple goroutines; each operation
// owns its own source and destination.
type Client struct {
	store     store.Store
	stats     stats.Collector
	logger    *zap.Logger
	progress  progress.Func
	chunkSize int
	tempDir   string
	closed    atomic.Bool
}

// New creates a new Client with the given options.
// If no options are provided, local files are read and written with no
// progress reporting.
func New(opts ...Option) (*Client, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}

	c := &Client{
		store:     cfg.store,
		stats:     cfg.stats,
		logger:    cfg.logger,
		progress:  cfg.progress,
		chunkSize: cfg.chunkSize,
		tempDir:   cfg.tempDir,
	}

	c.logger.Debug("client initialized", zap.Int("chunkSize", c.chunkSize))

	return c, nil
}

// Compress streams input through the encoder for formatName and writes the
// result to output. The output name is used as given; see OutputPath.
// Level is on the codec's native scale and is clamped to its range.
func (c *Client) Compress(ctx context.Context, input, output, formatName string, level int) (*Result, error) {
	return c.run(ctx, operation{
		name:   OpCompress,
		input:  input,
		output: output,
		format: formatName,
		level:  level,
	})
}

// Decompress streams input through the decoder for formatName and writes
// the decoded bytes to output. For zip archives only the first entry is
// extracted.
func (c *Client) Decompress(ctx context.Context, input, output, formatName string) (*Result, error) {
	return c.run(ctx, operation{
		name:   OpDecompress,
		input:  input,
		output: output,
		format: formatName,
		level:  codec.DefaultLevel,
	})
}

// OutputPath returns path with the extension for formatName appended.
// Unknown formats get ".unknown".
func OutputPath(path, formatName string) string {
	return format.OutputPath(path, formatName)
}

// Formats returns the supported format names.
func Formats() []string {
	return format.Names()
}

// Close releases all resources associated with the client.
// After Close, the client should not be used.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if err := c.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

// Store returns the storage backend used by this client.
func (c *Client) Store() store.Store {
	return c.store
}

type operation struct {
	name   string
	input  string
	output string
	format string
	level  int
}

func (c *Client) run(ctx context.Context, op operation) (res *Result, err error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	start := time.Now()
	c.stats.IncCounter(stats.MetricOperations, 1)
	defer func() {
		if err != nil {
			c.stats.IncCounter(stats.MetricErrors, 1)
			c.logger.Debug("operation failed",
				zap.String("operation", op.name),
				zap.String("input", op.input),
				zap.Error(err),
			)
		}
	}()

	// Resolve the format before touching either file.
	f, err := format.Parse(op.format)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("operation started",
		zap.String("operation", op.name),
		zap.String("input", op.input),
		zap.String("output", op.output),
		zap.Stringer("format", f),
	)

	obj, err := c.store.Open(ctx, op.input)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer obj.Body.Close()

	cd, err := f.Codec(format.Options{
		Level:     op.level,
		EntryName: filepath.Base(op.input),
		Modified:  obj.ModTime,
		TempDir:   c.tempDir,
		Logger:    c.logger,
	})
	if err != nil {
		return nil, err
	}

	sink, err := c.store.Create(ctx, op.output)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}

	read := progress.NewCounter(obj.Size)
	written := progress.NewCounter(0)
	src := bufio.NewReaderSize(progress.NewReader(obj.Body, read), c.chunkSize)
	dst := bufio.NewWriterSize(progress.NewWriter(sink, written), c.chunkSize)

	report := func(phase string, err error) {
		c.reportProgress(progress.Progress{
			Phase:     phase,
			Operation: op.name,
			Bytes:     read.Load(),
			Total:     obj.Size,
			StartTime: start,
			Err:       err,
		})
	}
	tick := func() { report(op.name, nil) }

	tick()
	if op.name == OpCompress {
		err = c.encode(ctx, cd, dst, src, tick)
	} else {
		err = c.decode(ctx, cd, dst, src, tick)
	}
	if err == nil {
		if ferr := dst.Flush(); ferr != nil {
			err = fmt.Errorf("flushing output: %w", ferr)
		}
	}
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing output: %w", cerr)
	}
	if err != nil {
		report(progress.PhaseError, err)
		return nil, err
	}
	report(progress.PhaseDone, nil)

	res = &Result{
		Operation:    op.name,
		Input:        op.input,
		Output:       op.output,
		Format:       f.String(),
		BytesRead:    read.Total(),
		BytesWritten: written.Total(),
		Duration:     time.Since(start),
	}

	c.stats.IncCounter(stats.MetricBytesRead, res.BytesRead)
	c.stats.IncCounter(stats.MetricBytesWritten, res.BytesWritten)
	c.stats.ObserveHistogram(stats.MetricDuration, res.Duration.Seconds())
	c.stats.SetGauge(stats.MetricLastRatio, int64(res.Ratio()))

	c.logger.Debug("operation finished",
		zap.String("operation", op.name),
		zap.String("input", op.input),
		zap.String("output", op.output),
		zap.Int64("bytesRead", res.BytesRead),
		zap.Int64("bytesWritten", res.BytesWritten),
		zap.Duration("elapsed", res.Duration),
	)

	return res, nil
}

// encode copies src into the encoder for cd and finalizes it.
func (c *Client) encode(ctx context.Context, cd codec.Codec, dst io.Writer, src io.Reader, tick func()) error {
	enc, err := cd.Writer(dst)
	if err != nil {
		return fmt.Errorf("creating encoder: %w", err)
	}
	if err := c.pump(ctx, enc, src, tick); err != nil {
		// The copy error is the one reported; the encoder is only released.
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing encoder: %w", err)
	}
	return nil
}

// decode copies the decoded form of src into dst.
func (c *Client) decode(ctx context.Context, cd codec.Codec, dst io.Writer, src io.Reader, tick func()) error {
	dec, err := cd.Reader(src)
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}
	defer dec.Close()

	return c.pump(ctx, dst, dec, tick)
}

// pump moves bytes from src to dst one chunk at a time, calling tick after
// every chunk.
func (c *Client) pump(ctx context.Context, dst io.Writer, src io.Reader, tick func()) error {
	buf := make([]byte, c.chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return fmt.Errorf("writing: %w", werr)
			}
			tick()
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading: %w", err)
		}
	}
}

func (c *Client) reportProgress(p progress.Progress) {
	if c.progress != nil {
		c.progress(p)
	}
}
