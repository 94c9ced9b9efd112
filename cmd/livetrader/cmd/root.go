package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "livetrader",
	Short: "An automated OANDA trading loop with simulated execution costs",
	Long: `Livetrader polls OANDA for candlestick data, detects equal-highs/lows
reversal signals, and submits bracketed market orders with stop-loss and
take-profit exits, pricing entries through a realistic execution-cost model
(spread, slippage, commission, partial fills).

It provides commands for:
  - Running the live trading loop from a config file
  - Generating and validating configuration files
  - Querying the order-submission journal`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
