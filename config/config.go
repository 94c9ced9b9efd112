package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"livetrader/market"
)

// Config is the complete static configuration, loaded once at process
// start.
type Config struct {
	OANDA        OANDAConfig                          `json:"oanda" yaml:"oanda"`
	Instrument   string                               `json:"instrument" yaml:"instrument"`
	Strategy     string                               `json:"strategy" yaml:"strategy"`
	Granularity  string                               `json:"granularity" yaml:"granularity"`
	Units        float64                              `json:"units" yaml:"units"`
	PipValue     float64                              `json:"pip_value" yaml:"pip_value"`
	Params       map[string]map[string]StrategyParams `json:"params" yaml:"params"`
	Execution    ExecutionConfig                      `json:"execution" yaml:"execution"`
	Blackout     BlackoutConfig                       `json:"blackout" yaml:"blackout"`
	Backoff      BackoffConfig                        `json:"backoff" yaml:"backoff"`
	QuoteTimeout string                               `json:"quote_timeout" yaml:"quote_timeout"`
	Journal      JournalConfig                        `json:"journal" yaml:"journal"`
	Metrics      MetricsConfig                        `json:"metrics" yaml:"metrics"`
}

// OANDAConfig selects the API environment and account. The API token is
// never stored in the file; it comes from the environment.
type OANDAConfig struct {
	Env       string `json:"env" yaml:"env"` // practice or live
	AccountID string `json:"account_id" yaml:"account_id"`
}

// StrategyParams is one row of the per-instrument per-strategy parameter
// table.
type StrategyParams struct {
	Tolerance  float64 `json:"tolerance" yaml:"tolerance"`
	StopPips   float64 `json:"sl_pips" yaml:"sl_pips"`
	TargetPips float64 `json:"tp_pips" yaml:"tp_pips"`
}

// ExecutionConfig holds the execution-cost simulation constants.
type ExecutionConfig struct {
	Slippage         float64 `json:"slippage" yaml:"slippage"`
	PartialFillProb  float64 `json:"partial_fill_prob" yaml:"partial_fill_prob"`
	Spread           float64 `json:"spread" yaml:"spread"`
	CommissionPerLot float64 `json:"commission_per_lot" yaml:"commission_per_lot"`
}

// BlackoutConfig is the daily UTC no-trading window.
type BlackoutConfig struct {
	StartHour int `json:"start_hour" yaml:"start_hour"`
	EndHour   int `json:"end_hour" yaml:"end_hour"`
}

// BackoffConfig holds the loop's wait durations as duration strings
// ("1h", "1m").
type BackoffConfig struct {
	MarketClosed string `json:"market_closed" yaml:"market_closed"`
	Retry        string `json:"retry" yaml:"retry"`
}

// JournalConfig selects the order-submission journal backend.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// ParseDuration converts a duration string, treating empty as zero.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// StrategyFor looks up the parameter row for the configured instrument and
// strategy.
func (c *Config) StrategyFor(instrument, strategy string) (StrategyParams, error) {
	byStrategy, ok := c.Params[instrument]
	if !ok {
		return StrategyParams{}, fmt.Errorf("no params for instrument %q", instrument)
	}
	p, ok := byStrategy[strategy]
	if !ok {
		return StrategyParams{}, fmt.Errorf("no params for strategy %q on %q", strategy, instrument)
	}
	return p, nil
}

// LoadFromFile loads configuration from a file (JSON or YAML based on
// content).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on
// extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.OANDA.Env != "practice" && c.OANDA.Env != "live" {
		return fmt.Errorf("oanda.env must be 'practice' or 'live'")
	}
	if c.OANDA.AccountID == "" {
		return fmt.Errorf("oanda.account_id is required")
	}
	if c.Instrument == "" {
		return fmt.Errorf("instrument is required")
	}
	if _, ok := market.Instruments[c.Instrument]; !ok {
		return fmt.Errorf("unknown instrument: %s", c.Instrument)
	}
	if c.Strategy == "" {
		return fmt.Errorf("strategy is required")
	}
	if c.Granularity == "" {
		return fmt.Errorf("granularity is required")
	}
	if c.Units <= 0 {
		return fmt.Errorf("units must be positive")
	}
	if c.PipValue <= 0 {
		return fmt.Errorf("pip_value must be positive")
	}
	p, err := c.StrategyFor(c.Instrument, c.Strategy)
	if err != nil {
		return err
	}
	if p.Tolerance <= 0 {
		return fmt.Errorf("params.%s.%s.tolerance must be positive", c.Instrument, c.Strategy)
	}
	if p.StopPips <= 0 {
		return fmt.Errorf("params.%s.%s.sl_pips must be positive", c.Instrument, c.Strategy)
	}
	if p.TargetPips <= 0 {
		return fmt.Errorf("params.%s.%s.tp_pips must be positive", c.Instrument, c.Strategy)
	}
	if c.Execution.PartialFillProb < 0 || c.Execution.PartialFillProb > 1 {
		return fmt.Errorf("execution.partial_fill_prob must be between 0 and 1")
	}
	if c.Blackout.StartHour < 0 || c.Blackout.StartHour > 23 ||
		c.Blackout.EndHour < 0 || c.Blackout.EndHour > 24 {
		return fmt.Errorf("blackout hours must be within a day")
	}
	if c.Blackout.EndHour <= c.Blackout.StartHour {
		return fmt.Errorf("blackout.end_hour must be greater than start_hour")
	}
	if _, err := ParseDuration(c.Backoff.MarketClosed); err != nil {
		return fmt.Errorf("backoff.market_closed: %w", err)
	}
	if _, err := ParseDuration(c.Backoff.Retry); err != nil {
		return fmt.Errorf("backoff.retry: %w", err)
	}
	if _, err := ParseDuration(c.QuoteTimeout); err != nil {
		return fmt.Errorf("quote_timeout: %w", err)
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.File == "" {
			return fmt.Errorf("journal.file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with the GBP_JPY equal-levels strategy
// and its standard parameters.
func Default() *Config {
	return &Config{
		OANDA: OANDAConfig{
			Env:       "practice",
			AccountID: "",
		},
		Instrument:  "GBP_JPY",
		Strategy:    "equal",
		Granularity: "H4",
		Units:       1000,
		PipValue:    0.01,
		Params: map[string]map[string]StrategyParams{
			"GBP_JPY": {
				"equal": {
					Tolerance:  29.80,
					StopPips:   49.01,
					TargetPips: 149.35,
				},
			},
		},
		Execution: ExecutionConfig{
			Slippage:         0.02,
			PartialFillProb:  0.1,
			Spread:           0.02,
			CommissionPerLot: 0.5,
		},
		Blackout: BlackoutConfig{StartHour: 21, EndHour: 23},
		Backoff: BackoffConfig{
			MarketClosed: "1h",
			Retry:        "1m",
		},
		QuoteTimeout: "10s",
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./livetrader.sqlite",
		},
	}
}
