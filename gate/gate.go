// Package gate decides whether trading is currently permitted: the market
// must be quoting and the clock must be outside the configured blackout
// window.
package gate

import (
	"context"
	"log"
	"time"

	"livetrader/broker"
)

// Blackout is a daily UTC hour window during which trading is disallowed.
// An hour h is blocked when StartHour <= h < EndHour.
type Blackout struct {
	StartHour int
	EndHour   int
}

// Allowed reports whether trading is permitted at t.
func (b Blackout) Allowed(t time.Time) bool {
	h := t.UTC().Hour()
	return !(h >= b.StartHour && h < b.EndHour)
}

// WaitUntilOpen returns how long to sleep from t until the window ends.
// Past the window's end the wait rolls to the next day.
func (b Blackout) WaitUntilOpen(t time.Time) time.Duration {
	t = t.UTC()
	open := time.Date(t.Year(), t.Month(), t.Day(), b.EndHour, 0, 0, 0, time.UTC)
	if t.Hour() >= b.EndHour {
		open = open.Add(24 * time.Hour)
	}
	return open.Sub(t)
}

// Gate combines the market-open probe with the blackout window.
type Gate struct {
	Quotes       broker.QuoteSource
	Window       Blackout
	QuoteTimeout time.Duration

	// Now is the clock; nil means time.Now. Injected for tests.
	Now func() time.Time
}

// DefaultBlackout is the 21:00-23:00 UTC rollover window during which
// spreads widen and quotes go stale.
var DefaultBlackout = Blackout{StartHour: 21, EndHour: 23}

func (g *Gate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// MarketOpen probes for a current quote within the gate's timeout. A price
// arriving in time means the market is open; failure or timeout is read as
// closed.
func (g *Gate) MarketOpen(ctx context.Context, instrument string) bool {
	timeout := g.QuoteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	tick, err := g.Quotes.GetQuote(ctx, instrument, timeout)
	if err != nil {
		log.Printf("gate: market open check for %s failed: %v", instrument, err)
		return false
	}
	return tick.Bid > 0 && tick.Ask > 0
}

// TradingAllowed reports whether the current time is outside the blackout
// window, and if not, how long to wait until it is.
func (g *Gate) TradingAllowed() (bool, time.Duration) {
	now := g.now()
	if g.Window.Allowed(now) {
		return true, 0
	}
	return false, g.Window.WaitUntilOpen(now)
}
