// Package memorysquashfx provides an fx module for an in-memory squash client.
// Useful for testing.
package memorysquashfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/squash"
	"github.com/discochess/squash/internal/stats"
	"github.com/discochess/squash/internal/stats/logger"
	"github.com/discochess/squash/internal/store/memstore"
)

// Module provides an in-memory squash client for testing.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memorysquash",
	fx.Provide(
		newStatsCollector,
		newMemStore,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("squash.stats"))
}

func newMemStore() *memstore.Store {
	return memstore.New()
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Store     *memstore.Store
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *squash.Client
}

func newClient(p Params) (Result, error) {
	client, err := squash.New(
		squash.WithStore(p.Store),
		squash.WithStats(p.Collector),
		squash.WithLogger(p.Logger.Named("squash")),
	)
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
