// Package loop drives the trading cycle for one instrument: gate checks,
// candle fetch, signal detection, execution adjustment, and order
// submission, on a cadence aligned to the candle granularity.
//
// The cycle is an explicit state machine. Each step returns the next state
// plus how long to sleep before entering it; a nonzero wait is the Sleep
// state of the cycle. No error is fatal: every failure logs, backs off,
// and resumes from Idle.
package loop

import (
	"context"
	"errors"
	"log"
	"time"

	"livetrader/broker"
	"livetrader/execution"
	"livetrader/gate"
	"livetrader/market"
	"livetrader/metrics"
	"livetrader/orders"
	"livetrader/signal"
)

// State names one stage of the trading cycle.
type State int

const (
	StateIdle State = iota
	StateCheckMarketOpen
	StateCheckTimeWindow
	StateFetchData
	StateCheckPosition
	StateDetectSignal
	StateComputeExecution
	StateSubmitOrder
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateCheckMarketOpen:
		return "CheckMarketOpen"
	case StateCheckTimeWindow:
		return "CheckTimeWindow"
	case StateFetchData:
		return "FetchData"
	case StateCheckPosition:
		return "CheckPosition"
	case StateDetectSignal:
		return "DetectSignal"
	case StateComputeExecution:
		return "ComputeExecution"
	case StateSubmitOrder:
		return "SubmitOrder"
	default:
		return "Unknown"
	}
}

// Config holds the per-instrument loop settings.
type Config struct {
	Instrument  string
	CandleCount int
	Granularity string
	Tolerance   float64
	PipValue    float64

	Interval            time.Duration // inter-candle sleep, e.g. 4h for H4
	MarketClosedBackoff time.Duration
	RetryBackoff        time.Duration
	QuoteTimeout        time.Duration
}

// Loop runs the trading cycle for a single instrument. A Loop is strictly
// sequential; for multiple instruments run one Loop per goroutine, there
// is no shared mutable state between them.
type Loop struct {
	Config

	Candles  broker.CandleSource
	Quotes   broker.QuoteSource
	Gate     *gate.Gate
	Detector signal.Detector
	Exec     *execution.Simulator
	Orders   *orders.Manager

	// Sleep overrides the wait between states; nil means a timer bounded
	// by ctx. Injected for tests.
	Sleep func(ctx context.Context, d time.Duration) error

	// per-cycle scratch, reset on Idle
	window []market.Candle
	side   market.Side
	entry  float64
}

func (l *Loop) applyDefaults() {
	if l.CandleCount == 0 {
		l.CandleCount = 3
	}
	if l.Interval == 0 {
		l.Interval = 4 * time.Hour
	}
	if l.MarketClosedBackoff == 0 {
		l.MarketClosedBackoff = time.Hour
	}
	if l.RetryBackoff == 0 {
		l.RetryBackoff = time.Minute
	}
	if l.QuoteTimeout == 0 {
		l.QuoteTimeout = 10 * time.Second
	}
}

// Run executes the cycle until ctx is cancelled. Cancellation is the only
// way out; every error inside the cycle is contained.
func (l *Loop) Run(ctx context.Context) error {
	l.applyDefaults()
	log.Printf("loop: starting live trading for %s (%s, every %s)", l.Instrument, l.Granularity, l.Interval)

	st := StateIdle
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, wait := l.step(ctx, st)
		if wait > 0 {
			log.Printf("loop: %s sleeping %s", l.Instrument, wait)
			if err := l.doSleep(ctx, wait); err != nil {
				return err
			}
		}
		st = next
	}
}

func (l *Loop) doSleep(ctx context.Context, d time.Duration) error {
	if l.Sleep != nil {
		return l.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// fail contains an unexpected error: log it, count it, back off briefly,
// and resume from Idle.
func (l *Loop) fail(st State, err error) (State, time.Duration) {
	log.Printf("loop: %s error in %s: %v", l.Instrument, st, err)
	metrics.Cycles.WithLabelValues("error").Inc()
	return StateIdle, l.RetryBackoff
}

// step performs one state transition. A nonzero wait means the loop
// sleeps before entering the returned state.
func (l *Loop) step(ctx context.Context, st State) (State, time.Duration) {
	switch st {
	case StateIdle:
		l.window = nil
		l.side = market.SideNone
		l.entry = 0
		return StateCheckMarketOpen, 0

	case StateCheckMarketOpen:
		if !l.Gate.MarketOpen(ctx, l.Instrument) {
			log.Printf("loop: market is closed for %s", l.Instrument)
			metrics.Cycles.WithLabelValues("market_closed").Inc()
			return StateIdle, l.MarketClosedBackoff
		}
		return StateCheckTimeWindow, 0

	case StateCheckTimeWindow:
		ok, wait := l.Gate.TradingAllowed()
		if !ok {
			log.Printf("loop: %s inside blackout window, waiting %s", l.Instrument, wait)
			metrics.Cycles.WithLabelValues("blackout").Inc()
			return StateIdle, wait
		}
		return StateFetchData, 0

	case StateFetchData:
		candles, err := l.Candles.GetCandles(ctx, broker.CandlesRequest{
			Instrument:  l.Instrument,
			Granularity: l.Granularity,
			Count:       l.CandleCount,
		})
		if err != nil {
			return l.fail(st, err)
		}
		if len(candles) < 2 {
			log.Printf("loop: insufficient candle data for %s (%d)", l.Instrument, len(candles))
			metrics.Cycles.WithLabelValues("insufficient_data").Inc()
			return StateIdle, l.RetryBackoff
		}
		l.window = candles
		return StateCheckPosition, 0

	case StateCheckPosition:
		open, err := l.Orders.HasOpenPosition(ctx, l.Instrument)
		if err != nil {
			return l.fail(st, err)
		}
		if open {
			log.Printf("loop: existing position in %s, waiting", l.Instrument)
			metrics.Cycles.WithLabelValues("position_held").Inc()
			return StateIdle, l.RetryBackoff
		}
		return StateDetectSignal, 0

	case StateDetectSignal:
		res, err := l.Detector.Detect(l.window, l.Tolerance, l.PipValue)
		if err != nil {
			if errors.Is(err, signal.ErrInsufficientData) {
				metrics.Cycles.WithLabelValues("insufficient_data").Inc()
				return StateIdle, l.RetryBackoff
			}
			return l.fail(st, err)
		}

		l.side = res.Primary()
		if l.side == market.SideNone {
			metrics.Cycles.WithLabelValues("no_signal").Inc()
			return StateIdle, l.Interval
		}
		log.Printf("loop: %s signal for %s (buy=%v sell=%v)", l.side, l.Instrument, res.Buy, res.Sell)
		metrics.Signals.WithLabelValues(l.side.String()).Inc()
		return StateComputeExecution, 0

	case StateComputeExecution:
		tick, err := l.Quotes.GetQuote(ctx, l.Instrument, l.QuoteTimeout)
		if err != nil {
			log.Printf("loop: failed to get current price for %s: %v", l.Instrument, err)
			metrics.Cycles.WithLabelValues("quote_failed").Inc()
			return StateIdle, l.RetryBackoff
		}

		mid := market.Round3(tick.Mid())
		metrics.LastMid.Set(mid)

		l.entry = l.Exec.AdjustPrice(mid, l.side)
		metrics.LastEntry.Set(l.entry)
		log.Printf("loop: %s mid=%.3f adjusted entry=%.3f", l.Instrument, mid, l.entry)
		return StateSubmitOrder, 0

	case StateSubmitOrder:
		result, err := l.Orders.SubmitBracket(ctx, l.Instrument, l.side, l.entry)
		if err != nil {
			// Rejections are not retried; skip this opportunity and move
			// on to the next candle.
			log.Printf("loop: order submission failed for %s: %v", l.Instrument, err)
			metrics.OrderErrors.Inc()
			metrics.Cycles.WithLabelValues("order_rejected").Inc()
			return StateIdle, l.Interval
		}
		log.Printf("loop: order placed for %s: order_id=%s trade_id=%s", l.Instrument, result.OrderID, result.TradeID)
		metrics.Cycles.WithLabelValues("order_submitted").Inc()
		return StateIdle, l.Interval

	default:
		return l.fail(st, errors.New("unknown state"))
	}
}
