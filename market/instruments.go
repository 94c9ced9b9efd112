package market

import "math"

// InstrumentMeta describes the trading characteristics of an instrument.
type InstrumentMeta struct {
	Name                string
	BaseCurrency        string
	QuoteCurrency       string
	PipValue            float64
	DisplayPrecision    int
	TradeUnitsPrecision int
	MinimumTradeSize    float64
}

var Instruments = map[string]InstrumentMeta{
	"EUR_USD": {
		Name:                "EUR_USD",
		BaseCurrency:        "EUR",
		QuoteCurrency:       "USD",
		PipValue:            0.0001,
		DisplayPrecision:    5,
		TradeUnitsPrecision: 0,
		MinimumTradeSize:    1,
	},
	"USD_JPY": {
		Name:                "USD_JPY",
		BaseCurrency:        "USD",
		QuoteCurrency:       "JPY",
		PipValue:            0.01,
		DisplayPrecision:    3,
		TradeUnitsPrecision: 0,
		MinimumTradeSize:    1,
	},
	"GBP_JPY": {
		Name:                "GBP_JPY",
		BaseCurrency:        "GBP",
		QuoteCurrency:       "JPY",
		PipValue:            0.01,
		DisplayPrecision:    3,
		TradeUnitsPrecision: 0,
		MinimumTradeSize:    1,
	},
}

// Round3 rounds a price to 3 decimal places, the precision used on the
// order wire for JPY-quoted pairs.
func Round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
