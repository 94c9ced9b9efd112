package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"livetrader/market"
)

func TestBlackoutAllowed(t *testing.T) {
	b := DefaultBlackout

	for h := 0; h < 24; h++ {
		ts := time.Date(2026, 3, 2, h, 30, 0, 0, time.UTC)
		want := h < 21 || h >= 23
		assert.Equal(t, want, b.Allowed(ts), "hour %d", h)
	}
}

func TestBlackoutWaitUntilOpen(t *testing.T) {
	b := DefaultBlackout

	tests := []struct {
		name string
		at   time.Time
		want time.Duration
	}{
		{"start of window", time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC), 2 * time.Hour},
		{"mid window", time.Date(2026, 3, 2, 21, 30, 0, 0, time.UTC), 90 * time.Minute},
		{"last blocked hour", time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC), time.Hour},
		{"past window rolls to next day", time.Date(2026, 3, 2, 23, 10, 0, 0, time.UTC), 23*time.Hour + 50*time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.WaitUntilOpen(tt.at))
		})
	}
}

func TestBlackoutNonUTCClock(t *testing.T) {
	b := DefaultBlackout

	// 21:30 UTC expressed in a +02:00 zone is still inside the window.
	zone := time.FixedZone("EET", 2*60*60)
	ts := time.Date(2026, 3, 2, 23, 30, 0, 0, zone)
	assert.False(t, b.Allowed(ts))
	assert.Equal(t, 90*time.Minute, b.WaitUntilOpen(ts))
}

type stubQuotes struct {
	tick market.Tick
	err  error
}

func (s stubQuotes) GetQuote(ctx context.Context, instrument string, timeout time.Duration) (market.Tick, error) {
	return s.tick, s.err
}

func TestMarketOpen(t *testing.T) {
	t.Run("quote arrives", func(t *testing.T) {
		g := &Gate{Quotes: stubQuotes{tick: market.Tick{Bid: 150.00, Ask: 150.04}}}
		assert.True(t, g.MarketOpen(context.Background(), "GBP_JPY"))
	})

	t.Run("quote times out", func(t *testing.T) {
		g := &Gate{Quotes: stubQuotes{err: errors.New("timeout")}}
		assert.False(t, g.MarketOpen(context.Background(), "GBP_JPY"))
	})

	t.Run("empty quote", func(t *testing.T) {
		g := &Gate{Quotes: stubQuotes{}}
		assert.False(t, g.MarketOpen(context.Background(), "GBP_JPY"))
	})
}

func TestTradingAllowed(t *testing.T) {
	g := &Gate{
		Window: DefaultBlackout,
		Now:    func() time.Time { return time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC) },
	}
	ok, wait := g.TradingAllowed()
	assert.False(t, ok)
	assert.Equal(t, time.Hour, wait)

	g.Now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }
	ok, wait = g.TradingAllowed()
	assert.True(t, ok)
	assert.Zero(t, wait)
}
