package broker

import (
	"context"
	"time"

	"livetrader/market"
)

// CandleSource fetches historical candles for an instrument.
type CandleSource interface {
	GetCandles(ctx context.Context, req CandlesRequest) ([]market.Candle, error)
}

// QuoteSource returns the current quote for an instrument, waiting at most
// timeout for a price to arrive.
type QuoteSource interface {
	GetQuote(ctx context.Context, instrument string, timeout time.Duration) (market.Tick, error)
}

// PositionSource lists the account's open positions.
type PositionSource interface {
	ListPositions(ctx context.Context) ([]Position, error)
}

// OrderPlacer submits orders to the broker.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
}

// Broker is the full brokerage surface the trading loop needs.
type Broker interface {
	CandleSource
	QuoteSource
	PositionSource
	OrderPlacer
}

// CandlesRequest describes a historical candle fetch.
type CandlesRequest struct {
	Instrument  string
	Granularity string
	Count       int
}

// Position is the broker-reported position for one instrument. The broker
// owns positions; this system only ever inspects them.
type Position struct {
	Instrument string
	LongUnits  float64
	ShortUnits float64
}

// Open reports whether either leg of the position is nonzero.
func (p Position) Open() bool {
	return p.LongUnits != 0 || p.ShortUnits != 0
}

// OrderRequest is a market order with attached stop-loss and take-profit
// exits. Units are signed: positive for buy, negative for sell. All prices
// must already be rounded for the wire.
type OrderRequest struct {
	ClientID   string
	Instrument string
	Units      float64
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
}

// OrderResult is the broker's acknowledgement of a submitted order.
type OrderResult struct {
	OrderID   string
	TradeID   string
	FillPrice float64
	Time      time.Time
}
