package squash

import (
	"go.uber.org/zap"

	"github.com/discochess/squash/internal/progress"
	"github.com/discochess/squash/internal/stats"
	"github.com/discochess/squash/internal/store"
	"github.com/discochess/squash/internal/store/diskstore"
)

// Option configures a Client.
type Option interface {
	apply(*options)
}

// options holds the client configuration.
type options struct {
	store     store.Store
	stats     stats.Collector
	logger    *zap.Logger
	progress  progress.Func
	chunkSize int
	tempDir   string
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		store:     diskstore.New(),
		stats:     stats.NewNoop(),
		logger:    zap.NewNop(),
		chunkSize: DefaultChunkSize,
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the storage backend for inputs and outputs.
// If not set, local files are used.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithProgress sets the progress callback. It is called synchronously
// after every chunk.
func WithProgress(fn progress.Func) Option {
	return optionFunc(func(o *options) {
		o.progress = fn
	})
}

// WithChunkSize sets the number of bytes copied per step.
// Default is 8192.
func WithChunkSize(n int) Option {
	return optionFunc(func(o *options) {
		o.chunkSize = n
	})
}

// WithTempDir sets the directory for temporary files, such as spooled zip
// archives. Default is the system temp directory.
func WithTempDir(dir string) Option {
	return optionFunc(func(o *options) {
		o.tempDir = dir
	})
}
