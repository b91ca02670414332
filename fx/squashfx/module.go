// Package squashfx provides an fx module for a squash client that reads and
// writes local files, gs:// objects and s3:// objects.
package squashfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/squash"
	"github.com/discochess/squash/internal/progress"
	"github.com/discochess/squash/internal/stats"
	"github.com/discochess/squash/internal/stats/logger"
	"github.com/discochess/squash/internal/store/diskstore"
	"github.com/discochess/squash/internal/store/router"
)

// Config holds configuration for the squash client.
type Config struct {
	// Root is the directory relative paths are resolved against.
	// Default is the working directory.
	Root string

	// ChunkSize is the number of bytes copied per step.
	// Default is squash.DefaultChunkSize.
	ChunkSize int

	// TempDir holds spooled zip archives and staged S3 uploads.
	TempDir string

	// Quiet disables progress reporting.
	Quiet bool
}

// Module provides a squash client.
// Requires a Config and a *zap.Logger to be provided. A progress.Func may
// be supplied optionally.
var Module = fx.Module("squash",
	fx.Provide(
		newStatsCollector,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("squash.stats"))
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Progress  progress.Func `optional:"true"`
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *squash.Client
}

func newClient(p Params) (Result, error) {
	chunkSize := p.Config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = squash.DefaultChunkSize
	}

	opts := []squash.Option{
		squash.WithStore(router.Default(diskstore.New(diskstore.WithRoot(p.Config.Root)), p.Config.TempDir)),
		squash.WithStats(p.Collector),
		squash.WithLogger(p.Logger.Named("squash")),
		squash.WithChunkSize(chunkSize),
		squash.WithTempDir(p.Config.TempDir),
	}
	if !p.Config.Quiet && p.Progress != nil {
		opts = append(opts, squash.WithProgress(p.Progress))
	}

	client, err := squash.New(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{Client: client}, nil
}
