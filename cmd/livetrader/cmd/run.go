package cmd

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"livetrader/config"
	"livetrader/execution"
	"livetrader/gate"
	"livetrader/journal"
	"livetrader/loop"
	"livetrader/metrics"
	"livetrader/oanda"
	"livetrader/orders"
	"livetrader/signal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the live trading loop from a config file",
	Long: `Run the trading loop using settings from a configuration file.

Credentials come from the environment (or a .env file): OANDA_API_KEY is
required, OANDA_ACCOUNT_ID overrides the config file's account id.

Example:
  livetrader run -f livetrader.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	creds, err := config.LoadCredentials(cfg.OANDA.AccountID)
	if err != nil {
		return err
	}

	baseURL, err := oanda.BaseURL(cfg.OANDA.Env)
	if err != nil {
		return err
	}
	client := oanda.NewClient(baseURL, creds.Token, creds.AccountID)

	params, err := cfg.StrategyFor(cfg.Instrument, cfg.Strategy)
	if err != nil {
		return err
	}
	detector, err := signal.ByName(cfg.Strategy)
	if err != nil {
		return err
	}

	interval, err := oanda.Granularity(cfg.Granularity).Duration()
	if err != nil {
		return err
	}
	closedBackoff, err := config.ParseDuration(cfg.Backoff.MarketClosed)
	if err != nil {
		return err
	}
	retryBackoff, err := config.ParseDuration(cfg.Backoff.Retry)
	if err != nil {
		return err
	}
	quoteTimeout, err := config.ParseDuration(cfg.QuoteTimeout)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	if cfg.Metrics.Addr != "" {
		go func() {
			log.Printf("metrics listening on %s", cfg.Metrics.Addr)
			if err := metrics.Serve(cfg.Metrics.Addr); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	sim := execution.New(execution.Params{
		Slippage:         cfg.Execution.Slippage,
		PartialFillProb:  cfg.Execution.PartialFillProb,
		Spread:           cfg.Execution.Spread,
		CommissionPerLot: cfg.Execution.CommissionPerLot,
	}, rand.New(rand.NewSource(time.Now().UnixNano())))

	l := &loop.Loop{
		Config: loop.Config{
			Instrument:          cfg.Instrument,
			Granularity:         cfg.Granularity,
			Tolerance:           params.Tolerance,
			PipValue:            cfg.PipValue,
			Interval:            interval,
			MarketClosedBackoff: closedBackoff,
			RetryBackoff:        retryBackoff,
			QuoteTimeout:        quoteTimeout,
		},
		Candles: client,
		Quotes:  client,
		Gate: &gate.Gate{
			Quotes: client,
			Window: gate.Blackout{
				StartHour: cfg.Blackout.StartHour,
				EndHour:   cfg.Blackout.EndHour,
			},
			QuoteTimeout: quoteTimeout,
		},
		Detector: detector,
		Exec:     sim,
		Orders: &orders.Manager{
			Positions:  client,
			Orders:     client,
			Journal:    j,
			Units:      cfg.Units,
			PipValue:   cfg.PipValue,
			StopPips:   params.StopPips,
			TargetPips: params.TargetPips,
		},
	}

	ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := l.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	log.Println("shutting down")
	return nil
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "", "none":
		return journal.Nop{}, nil
	case "csv":
		return journal.NewCSV(cfg.File)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}
