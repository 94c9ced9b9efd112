package oanda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"livetrader/broker"
)

type positionSide struct {
	Units string `json:"units"`
}

type apiPosition struct {
	Instrument string       `json:"instrument"`
	Long       positionSide `json:"long"`
	Short      positionSide `json:"short"`
}

type positionsResponse struct {
	Positions []apiPosition `json:"positions"`
}

// ListPositions returns the account's open positions. An instrument absent
// from the response has no position.
func (c *Client) ListPositions(ctx context.Context) ([]broker.Position, error) {
	apiURL := fmt.Sprintf("%s/v3/accounts/%s/openPositions", c.baseURL, c.accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer resp.Body.Close()

	var apiResp positionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	positions := make([]broker.Position, 0, len(apiResp.Positions))
	for _, p := range apiResp.Positions {
		long, err := parseFloat(p.Long.Units)
		if err != nil {
			return nil, fmt.Errorf("parse long units: %w", err)
		}
		short, err := parseFloat(p.Short.Units)
		if err != nil {
			return nil, fmt.Errorf("parse short units: %w", err)
		}
		positions = append(positions, broker.Position{
			Instrument: p.Instrument,
			LongUnits:  long,
			ShortUnits: short,
		})
	}

	return positions, nil
}
