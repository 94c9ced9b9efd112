// Package execution models realistic execution costs for market orders:
// random slippage, fixed spread, per-lot commission, and an occasional
// partial fill at a worse effective price.
package execution

import (
	"math/rand"
	"time"

	"livetrader/market"
)

// lotFactor converts the per-lot commission into a price offset.
const lotFactor = 0.01

// Params are the static cost-model constants, fixed for the process lifetime.
type Params struct {
	Slippage         float64 // magnitude of the random slippage draw
	PartialFillProb  float64 // probability of simulating a partial fill
	Spread           float64 // half-spread added against the trader
	CommissionPerLot float64
}

// DefaultParams mirrors typical retail FX execution on a JPY-quoted pair.
func DefaultParams() Params {
	return Params{
		Slippage:         0.02,
		PartialFillProb:  0.1,
		Spread:           0.02,
		CommissionPerLot: 0.5,
	}
}

// Rand is the randomness the simulator consumes. *rand.Rand satisfies it;
// tests supply a scripted source to make draws deterministic.
type Rand interface {
	Float64() float64
}

// Simulator applies the cost model to quoted mid prices. It holds no state
// beyond its RNG; AdjustPrice is a pure function of its inputs and the
// RNG stream.
type Simulator struct {
	params Params
	rng    Rand
}

// New returns a Simulator. A nil rng falls back to a time-seeded source.
func New(params Params, rng Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{params: params, rng: rng}
}

// AdjustPrice converts a quoted mid price into a simulated fill price.
//
// The slippage sign is a fair coin flip. The spread is applied in the
// direction that worsens the trader's price: added for a buy, subtracted
// for a sell. Commission is a constant offset. With probability
// PartialFillProb the adjusted price is halved, modelling a worse partial
// execution; this matches the documented cost model exactly, it is not a
// filled-quantity fraction. The result is rounded to 3 decimal places.
func (s *Simulator) AdjustPrice(mid float64, side market.Side) float64 {
	slip := s.params.Slippage
	if s.rng.Float64() <= 0.5 {
		slip = -slip
	}

	var adjusted float64
	if side == market.SideBuy {
		adjusted = mid + s.params.Spread + slip
	} else {
		adjusted = mid - s.params.Spread + slip
	}
	adjusted += s.params.CommissionPerLot * lotFactor

	if s.rng.Float64() < s.params.PartialFillProb {
		return market.Round3(adjusted * 0.5)
	}
	return market.Round3(adjusted)
}
