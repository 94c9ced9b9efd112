// Package oanda implements the broker interfaces against the OANDA v20
// REST API: historical candles, streamed quotes, open positions, and
// market order creation.
package oanda

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// PracticeURL is the URL for OANDA's practice/demo environment
	PracticeURL = "https://api-fxpractice.oanda.com"
	// LiveURL is the URL for OANDA's live trading environment
	LiveURL = "https://api-fxtrade.oanda.com"
)

// BaseURL maps an environment name to its API endpoint.
func BaseURL(env string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "practice", "demo":
		return PracticeURL, nil
	case "live":
		return LiveURL, nil
	default:
		return "", fmt.Errorf("unknown OANDA env %q (want practice|live)", env)
	}
}

// Granularity represents the time frame for candles
type Granularity string

const (
	M1  Granularity = "M1"  // 1 minute
	M5  Granularity = "M5"  // 5 minutes
	M15 Granularity = "M15" // 15 minutes
	M30 Granularity = "M30" // 30 minutes
	H1  Granularity = "H1"  // 1 hour
	H2  Granularity = "H2"  // 2 hours
	H4  Granularity = "H4"  // 4 hours
	H8  Granularity = "H8"  // 8 hours
	H12 Granularity = "H12" // 12 hours
	D   Granularity = "D"   // 1 day
)

// Duration returns the candle interval, used as the loop cadence.
func (g Granularity) Duration() (time.Duration, error) {
	switch g {
	case M1:
		return time.Minute, nil
	case M5:
		return 5 * time.Minute, nil
	case M15:
		return 15 * time.Minute, nil
	case M30:
		return 30 * time.Minute, nil
	case H1:
		return time.Hour, nil
	case H2:
		return 2 * time.Hour, nil
	case H4:
		return 4 * time.Hour, nil
	case H8:
		return 8 * time.Hour, nil
	case H12:
		return 12 * time.Hour, nil
	case D:
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown granularity %q", g)
	}
}

// ErrQuoteTimeout is returned when no price arrives on the pricing stream
// within the caller's bound.
var ErrQuoteTimeout = errors.New("oanda: timed out waiting for price")

// Client is an OANDA v20 API client bound to one account.
type Client struct {
	baseURL    string
	token      string
	accountID  string
	httpClient *http.Client
}

// NewClient creates a new OANDA API client.
func NewClient(baseURL, token, accountID string) *Client {
	return &Client{
		baseURL:   baseURL,
		token:     token,
		accountID: accountID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		resp.Body.Close()
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

// parseFloat parses an OANDA decimal string.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
