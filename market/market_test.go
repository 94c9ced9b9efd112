package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickMidSpread(t *testing.T) {
	tk := Tick{Instrument: "GBP_JPY", Bid: 150.00, Ask: 150.04}
	assert.InDelta(t, 150.02, tk.Mid(), 1e-9)
	assert.InDelta(t, 0.04, tk.Spread(), 1e-9)
}

func TestCandleDirection(t *testing.T) {
	bull := Candle{Open: 150.00, Close: 150.10}
	bear := Candle{Open: 150.10, Close: 150.05}
	doji := Candle{Open: 150.00, Close: 150.00}

	assert.True(t, bull.Bullish())
	assert.False(t, bull.Bearish())
	assert.True(t, bear.Bearish())
	assert.False(t, doji.Bullish())
	assert.False(t, doji.Bearish())
}

func TestRound3(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{150.0454, 150.045},
		{150.0455, 150.046},
		{75.0225, 75.023},
		{149.9999, 150.000},
		{0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round3(tt.in), 1e-9, "Round3(%v)", tt.in)
	}
}

func TestSideString(t *testing.T) {
	assert.Equal(t, "BUY", SideBuy.String())
	assert.Equal(t, "SELL", SideSell.String())
	assert.Equal(t, "NONE", SideNone.String())
}
