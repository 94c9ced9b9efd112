package signal

import (
	"math"

	"livetrader/market"
)

func init() {
	Register("equal", EqualLevels{})
}

// EqualLevels detects the equal-highs/equal-lows reversal pattern: two
// consecutive candles whose highs (or lows) sit within tolerance pips of
// each other, read as exhaustion of the move.
//
//   - equal lows + bullish latest candle  -> buy
//   - equal highs + bearish latest candle -> sell
type EqualLevels struct{}

// Detect requires at least 2 candles and evaluates only the most recent
// pair. It is a pure function of its inputs.
func (EqualLevels) Detect(candles []market.Candle, tolerance, pipValue float64) (Result, error) {
	if len(candles) < 2 {
		return Result{}, ErrInsufficientData
	}

	cur := candles[len(candles)-1]
	prev := candles[len(candles)-2]

	band := tolerance * pipValue
	eqHigh := math.Abs(cur.High-prev.High) < band
	eqLow := math.Abs(cur.Low-prev.Low) < band

	return Result{
		Buy:  eqLow && cur.Bullish(),
		Sell: eqHigh && cur.Bearish(),
	}, nil
}
