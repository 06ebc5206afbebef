package datastore

import (
	"github.com/smallbiznis/hostelhub/internal/config"
	"github.com/smallbiznis/hostelhub/internal/livequery"
	"github.com/smallbiznis/hostelhub/internal/observability/metrics"
	"github.com/smallbiznis/hostelhub/pkg/entitystore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("datastore",
	fx.Provide(livequery.NewHub),
	fx.Provide(Provide),
)

type Params struct {
	fx.In

	Config       config.Config
	Log          *zap.Logger
	Hub          *livequery.Hub
	StoreMetrics *metrics.StoreMetrics `optional:"true"`
}

func Provide(p Params) *DB {
	observers := []entitystore.Observer{p.Hub}
	if p.StoreMetrics != nil {
		observers = append(observers, p.StoreMetrics)
	}

	db := New(Options{
		Latency:      p.Config.Store.Latency,
		MonotonicIDs: p.Config.Store.MonotonicIDs,
		Observers:    observers,
	})
	p.Log.Named("datastore").Info("entity stores ready",
		zap.Duration("latency", p.Config.Store.Latency),
		zap.Bool("monotonic_ids", p.Config.Store.MonotonicIDs),
	)
	return db
}
