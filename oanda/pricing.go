package oanda

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"livetrader/market"
)

type pricingStreamMsg struct {
	Type       string `json:"type"`
	Time       string `json:"time"`
	Instrument string `json:"instrument"`

	Bids []struct {
		Price string `json:"price"`
	} `json:"bids"`

	Asks []struct {
		Price string `json:"price"`
	} `json:"asks"`
}

// GetQuote reads the account pricing stream and returns the first PRICE
// message for the instrument. HEARTBEAT messages are skipped. If no price
// arrives within timeout the call fails with ErrQuoteTimeout.
func (c *Client) GetQuote(ctx context.Context, instrument string, timeout time.Duration) (market.Tick, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	streamURL := fmt.Sprintf("%s/v3/accounts/%s/pricing/stream?instruments=%s",
		c.baseURL, c.accountID, instrument)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return market.Tick{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	// The stream client must not carry the REST client's overall timeout;
	// the bound here is the context deadline.
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return market.Tick{}, ErrQuoteTimeout
		}
		return market.Tick{}, fmt.Errorf("open pricing stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return market.Tick{}, fmt.Errorf("pricing stream http %d", resp.StatusCode)
	}

	sc := bufio.NewScanner(resp.Body)
	// Stream messages can be long; bump max token.
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var msg pricingStreamMsg
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			return market.Tick{}, fmt.Errorf("bad stream json: %w", err)
		}

		if !strings.EqualFold(msg.Type, "PRICE") {
			continue
		}
		if len(msg.Bids) == 0 || len(msg.Asks) == 0 {
			continue
		}

		bid, err := parseFloat(msg.Bids[0].Price)
		if err != nil {
			return market.Tick{}, fmt.Errorf("parse bid: %w", err)
		}
		ask, err := parseFloat(msg.Asks[0].Price)
		if err != nil {
			return market.Tick{}, fmt.Errorf("parse ask: %w", err)
		}

		ts := time.Now().UTC()
		if msg.Time != "" {
			if parsed, err := time.Parse(time.RFC3339, msg.Time); err == nil {
				ts = parsed
			}
		}

		return market.Tick{
			Instrument: msg.Instrument,
			Time:       ts,
			Bid:        bid,
			Ask:        ask,
		}, nil
	}

	if err := sc.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return market.Tick{}, ErrQuoteTimeout
		}
		return market.Tick{}, fmt.Errorf("read pricing stream: %w", err)
	}
	return market.Tick{}, ErrQuoteTimeout
}
