package commands

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/hostelhub/internal/cart"
	"github.com/smallbiznis/hostelhub/internal/chat"
	"github.com/smallbiznis/hostelhub/internal/clock"
	"github.com/smallbiznis/hostelhub/internal/config"
	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/smallbiznis/hostelhub/internal/observability"
	"github.com/smallbiznis/hostelhub/internal/order"
	"github.com/smallbiznis/hostelhub/internal/product"
	"github.com/smallbiznis/hostelhub/internal/providers"
	"github.com/smallbiznis/hostelhub/internal/review"
	"github.com/smallbiznis/hostelhub/internal/seed"
	"github.com/smallbiznis/hostelhub/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFlagOverrides(cmd); err != nil {
			return err
		}
		app := fx.New(
			// Core Infrastructure
			config.Module,
			observability.Module,
			fx.Provide(RegisterSnowflake),
			clock.Module,
			datastore.Module,
			providers.Module,

			// Functional Domains
			product.Module,
			review.Module,
			chat.Module,
			order.Module,
			cart.Module,
			seed.Module,

			server.Module,
		)
		app.Run()
		return app.Err()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
