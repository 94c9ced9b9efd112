package market

import "time"

// Candle represents OHLC (Open, High, Low, Close) candlestick data.
// Candles are immutable once fetched and are kept in chronological order,
// most recent last.
type Candle struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
	Time  time.Time
}

// Bullish reports whether the candle closed above its open.
func (c Candle) Bullish() bool { return c.Close > c.Open }

// Bearish reports whether the candle closed below its open.
func (c Candle) Bearish() bool { return c.Close < c.Open }
