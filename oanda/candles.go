package oanda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"livetrader/broker"
	"livetrader/market"
)

// candleData represents the OHLC data in the API response
type candleData struct {
	O string `json:"o"`
	H string `json:"h"`
	L string `json:"l"`
	C string `json:"c"`
}

// apiCandle represents a single candle in the API response
type apiCandle struct {
	Complete bool       `json:"complete"`
	Time     string     `json:"time"`
	Mid      candleData `json:"mid"`
}

type candlesResponse struct {
	Instrument  string      `json:"instrument"`
	Granularity string      `json:"granularity"`
	Candles     []apiCandle `json:"candles"`
}

// GetCandles fetches recent midpoint candles. Incomplete candles are
// skipped; the result is ordered oldest first.
func (c *Client) GetCandles(ctx context.Context, req broker.CandlesRequest) ([]market.Candle, error) {
	if req.Instrument == "" {
		return nil, fmt.Errorf("instrument is required")
	}
	if req.Count <= 0 || req.Count > 5000 {
		return nil, fmt.Errorf("count must be between 1 and 5000")
	}

	params := url.Values{}
	params.Set("price", "M")
	params.Set("granularity", req.Granularity)
	params.Set("count", fmt.Sprintf("%d", req.Count))

	apiURL := fmt.Sprintf("%s/v3/instruments/%s/candles?%s", c.baseURL, req.Instrument, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	defer resp.Body.Close()

	var apiResp candlesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candles := make([]market.Candle, 0, len(apiResp.Candles))
	for _, ac := range apiResp.Candles {
		// Only complete candles are usable for signals.
		if !ac.Complete {
			continue
		}

		t, err := time.Parse(time.RFC3339, ac.Time)
		if err != nil {
			return nil, fmt.Errorf("parse time %s: %w", ac.Time, err)
		}

		open, err := parseFloat(ac.Mid.O)
		if err != nil {
			return nil, fmt.Errorf("parse open price: %w", err)
		}
		high, err := parseFloat(ac.Mid.H)
		if err != nil {
			return nil, fmt.Errorf("parse high price: %w", err)
		}
		low, err := parseFloat(ac.Mid.L)
		if err != nil {
			return nil, fmt.Errorf("parse low price: %w", err)
		}
		close, err := parseFloat(ac.Mid.C)
		if err != nil {
			return nil, fmt.Errorf("parse close price: %w", err)
		}

		candles = append(candles, market.Candle{
			Open:  open,
			High:  high,
			Low:   low,
			Close: close,
			Time:  t,
		})
	}

	return candles, nil
}
