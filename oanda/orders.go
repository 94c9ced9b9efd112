package oanda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"livetrader/broker"
)

type exitOnFill struct {
	Price       string `json:"price"`
	TimeInForce string `json:"timeInForce"`
}

type clientExtensions struct {
	ID string `json:"id,omitempty"`
}

type orderBody struct {
	Type             string            `json:"type"`
	Instrument       string            `json:"instrument"`
	Units            string            `json:"units"`
	StopLossOnFill   exitOnFill        `json:"stopLossOnFill"`
	TakeProfitOnFill exitOnFill        `json:"takeProfitOnFill"`
	ClientExtensions *clientExtensions `json:"clientExtensions,omitempty"`
}

type orderCreateRequest struct {
	Order orderBody `json:"order"`
}

type orderCreateResponse struct {
	OrderCreateTransaction struct {
		ID   string `json:"id"`
		Time string `json:"time"`
	} `json:"orderCreateTransaction"`
	OrderFillTransaction struct {
		Price       string `json:"price"`
		TradeOpened struct {
			TradeID string `json:"tradeID"`
		} `json:"tradeOpened"`
	} `json:"orderFillTransaction"`
}

// CreateOrder submits a market order with attached GTC stop-loss and
// take-profit exits. Prices and units go on the wire as decimal strings,
// per the v20 API.
func (c *Client) CreateOrder(ctx context.Context, req broker.OrderRequest) (broker.OrderResult, error) {
	if req.Instrument == "" {
		return broker.OrderResult{}, fmt.Errorf("instrument is required")
	}
	if req.Units == 0 {
		return broker.OrderResult{}, fmt.Errorf("units must be non-zero")
	}

	body := orderCreateRequest{
		Order: orderBody{
			Type:       "MARKET",
			Instrument: req.Instrument,
			Units:      strconv.FormatFloat(req.Units, 'f', -1, 64),
			StopLossOnFill: exitOnFill{
				Price:       formatPrice(req.StopLoss),
				TimeInForce: "GTC",
			},
			TakeProfitOnFill: exitOnFill{
				Price:       formatPrice(req.TakeProfit),
				TimeInForce: "GTC",
			},
		},
	}
	if req.ClientID != "" {
		body.Order.ClientExtensions = &clientExtensions{ID: req.ClientID}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return broker.OrderResult{}, fmt.Errorf("marshal order: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v3/accounts/%s/orders", c.baseURL, c.accountID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return broker.OrderResult{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.do(httpReq)
	if err != nil {
		return broker.OrderResult{}, fmt.Errorf("submit order: %w", err)
	}
	defer resp.Body.Close()

	var apiResp orderCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return broker.OrderResult{}, fmt.Errorf("decode response: %w", err)
	}

	result := broker.OrderResult{
		OrderID: apiResp.OrderCreateTransaction.ID,
		TradeID: apiResp.OrderFillTransaction.TradeOpened.TradeID,
		Time:    time.Now().UTC(),
	}
	if ts := apiResp.OrderCreateTransaction.Time; ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			result.Time = parsed
		}
	}
	if p := apiResp.OrderFillTransaction.Price; p != "" {
		fill, err := parseFloat(p)
		if err != nil {
			return broker.OrderResult{}, fmt.Errorf("parse fill price: %w", err)
		}
		result.FillPrice = fill
	}

	return result, nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 3, 64)
}
