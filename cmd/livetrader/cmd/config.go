package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"livetrader/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files for the trading loop.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  livetrader config init -o livetrader.yaml
  livetrader config validate -f livetrader.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "livetrader.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nSet oanda.account_id (or OANDA_ACCOUNT_ID), export OANDA_API_KEY, then run:")
	fmt.Printf("  livetrader run -f %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return err
	}

	fmt.Printf("Configuration is valid: %s\n", configValidatePath)
	fmt.Printf("  Instrument: %s (%s, %s)\n", cfg.Instrument, cfg.Strategy, cfg.Granularity)
	params, _ := cfg.StrategyFor(cfg.Instrument, cfg.Strategy)
	fmt.Printf("  Params: tolerance=%.2f sl=%.2f tp=%.2f pips\n", params.Tolerance, params.StopPips, params.TargetPips)
	fmt.Printf("  Units: %.0f, blackout %02d:00-%02d:00 UTC\n", cfg.Units, cfg.Blackout.StartHour, cfg.Blackout.EndHour)
	return nil
}
