package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	httpAddr   string
	noSeed     bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "hostelhub",
	Short: "Hostel marketplace data service",
	Long: `hostelhub keeps the marketplace catalog, reviews, chats, carts and orders
in memory and serves them over HTTP with live change streams.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpAddr, "addr", "", "HTTP listen address (overrides HTTP_ADDR)")
	rootCmd.PersistentFlags().BoolVar(&noSeed, "no-seed", false, "Start with empty stores instead of the bundled fixtures")
}

// applyFlagOverrides maps explicitly set flags onto the environment read by
// config.Load.
func applyFlagOverrides(cmd *cobra.Command) error {
	if cmd.Flags().Changed("addr") {
		if err := os.Setenv("HTTP_ADDR", httpAddr); err != nil {
			return err
		}
	}
	if noSeed {
		if err := os.Setenv("SEED_FIXTURES", "false"); err != nil {
			return err
		}
	}
	return nil
}
