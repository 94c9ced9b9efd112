package market

import "time"

// Tick is a single bid/ask quote for an instrument.
type Tick struct {
	Instrument string
	Time       time.Time
	Bid        float64
	Ask        float64
}

// Mid returns the bid/ask midpoint.
func (t Tick) Mid() float64 {
	return (t.Bid + t.Ask) / 2
}

// Spread returns the bid/ask spread.
func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}
