// Package orders turns signals into bracket orders: it checks for an
// existing position, computes stop-loss/take-profit from the adjusted
// entry, and submits a single best-effort market order.
package orders

import (
	"context"
	"fmt"
	"log"
	"time"

	"livetrader/broker"
	"livetrader/internal/id"
	"livetrader/journal"
	"livetrader/market"
)

// Manager submits bracket orders for a single instrument. At most one open
// position per instrument is allowed; the position check enforces it
// (single-writer assumption, no locking against other processes).
type Manager struct {
	Positions broker.PositionSource
	Orders    broker.OrderPlacer
	Journal   journal.Journal

	Units      float64 // position size magnitude; sign applied per side
	PipValue   float64
	StopPips   float64
	TargetPips float64
}

// HasOpenPosition reports whether the broker holds any units, long or
// short, in the instrument. An instrument absent from the position list
// has no position.
func (m *Manager) HasOpenPosition(ctx context.Context, instrument string) (bool, error) {
	positions, err := m.Positions.ListPositions(ctx)
	if err != nil {
		return false, fmt.Errorf("check position: %w", err)
	}
	for _, p := range positions {
		if p.Instrument == instrument {
			return p.Open(), nil
		}
	}
	return false, nil
}

// BracketPrices computes stop-loss and take-profit around an entry price.
// Buy brackets down/up, sell brackets up/down. All returned prices are
// rounded to 3 decimals for the wire.
func (m *Manager) BracketPrices(entry float64, side market.Side) (stopLoss, takeProfit float64) {
	if side == market.SideBuy {
		stopLoss = entry - m.StopPips*m.PipValue
		takeProfit = entry + m.TargetPips*m.PipValue
	} else {
		stopLoss = entry + m.StopPips*m.PipValue
		takeProfit = entry - m.TargetPips*m.PipValue
	}
	return market.Round3(stopLoss), market.Round3(takeProfit)
}

// SubmitBracket submits a market order at the (already execution-adjusted)
// entry price with attached GTC stop-loss and take-profit. The submission
// is journaled whether it succeeds or not. A broker rejection is returned
// to the caller as a recoverable error.
func (m *Manager) SubmitBracket(ctx context.Context, instrument string, side market.Side, entry float64) (broker.OrderResult, error) {
	if side != market.SideBuy && side != market.SideSell {
		return broker.OrderResult{}, fmt.Errorf("submit bracket: invalid side %v", side)
	}

	entry = market.Round3(entry)
	stopLoss, takeProfit := m.BracketPrices(entry, side)

	units := m.Units
	if side == market.SideSell {
		units = -units
	}

	req := broker.OrderRequest{
		ClientID:   id.New(),
		Instrument: instrument,
		Units:      units,
		EntryPrice: entry,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
	}

	log.Printf("orders: submitting %s %s units=%.0f entry=%.3f sl=%.3f tp=%.3f",
		side, instrument, units, entry, stopLoss, takeProfit)

	result, err := m.Orders.CreateOrder(ctx, req)

	rec := journal.SubmissionRecord{
		ID:         req.ClientID,
		Time:       time.Now().UTC(),
		Instrument: instrument,
		Side:       side.String(),
		Units:      units,
		EntryPrice: entry,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		OrderID:    result.OrderID,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if m.Journal != nil {
		if jerr := m.Journal.RecordSubmission(rec); jerr != nil {
			log.Printf("orders: journal write failed: %v", jerr)
		}
	}

	if err != nil {
		return broker.OrderResult{}, fmt.Errorf("submit bracket: %w", err)
	}
	return result, nil
}
