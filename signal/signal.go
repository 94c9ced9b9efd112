// Package signal evaluates candle windows for entry signals.
package signal

import (
	"errors"

	"livetrader/market"
)

// ErrInsufficientData is returned when a detector is given fewer candles
// than it needs. Callers should retry on the next cycle rather than abort.
var ErrInsufficientData = errors.New("signal: insufficient candle data")

// Result holds the raw outcome of one detection pass. Buy and sell are not
// mutually exclusive by construction.
type Result struct {
	Buy  bool
	Sell bool
}

// Primary resolves the result to a single side. Buy takes priority when
// both signals fire; this is a deliberate policy, not an accident of
// evaluation order.
func (r Result) Primary() market.Side {
	if r.Buy {
		return market.SideBuy
	}
	if r.Sell {
		return market.SideSell
	}
	return market.SideNone
}

// Detector inspects a window of candles, most recent last, and reports
// entry signals. tolerance is expressed in pips.
type Detector interface {
	Detect(candles []market.Candle, tolerance, pipValue float64) (Result, error)
}
