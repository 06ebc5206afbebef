package seed

import (
	"context"

	"github.com/smallbiznis/hostelhub/internal/clock"
	"github.com/smallbiznis/hostelhub/internal/config"
	"github.com/smallbiznis/hostelhub/internal/datastore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("seed",
	fx.Invoke(register),
)

func register(lc fx.Lifecycle, cfg config.Config, db *datastore.DB, clk clock.Clock, log *zap.Logger) {
	if !cfg.SeedFixtures {
		return
	}
	log = log.Named("seed")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			fixtures, err := Load()
			if err != nil {
				return err
			}
			applied, err := Apply(ctx, db, clk, fixtures)
			if err != nil {
				return err
			}
			if applied {
				log.Info("fixtures loaded",
					zap.Int("products", len(fixtures.Products)),
					zap.Int("reviews", len(fixtures.Reviews)),
				)
			}
			return nil
		},
	})
}
