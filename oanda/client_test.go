package oanda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livetrader/broker"
)

func TestBaseURL(t *testing.T) {
	tests := []struct {
		env     string
		want    string
		wantErr bool
	}{
		{"practice", PracticeURL, false},
		{"demo", PracticeURL, false},
		{"Live", LiveURL, false},
		{"paper", "", true},
	}
	for _, tt := range tests {
		got, err := BaseURL(tt.env)
		if tt.wantErr {
			assert.Error(t, err, "env %q", tt.env)
		} else {
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestGranularityDuration(t *testing.T) {
	d, err := H4.Duration()
	require.NoError(t, err)
	assert.Equal(t, 4*time.Hour, d)

	d, err = M1.Duration()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	_, err = Granularity("H9").Duration()
	assert.Error(t, err)
}

func newTestClient(serverURL string) *Client {
	c := NewClient(serverURL, "test-token", "acct-001")
	c.httpClient = &http.Client{Timeout: 5 * time.Second}
	return c
}

func TestGetCandles_Success(t *testing.T) {
	mockResponse := candlesResponse{
		Instrument:  "GBP_JPY",
		Granularity: "H4",
		Candles: []apiCandle{
			{
				Complete: true,
				Time:     "2026-03-02T04:00:00.000000000Z",
				Mid:      candleData{O: "150.00", H: "150.20", L: "149.80", C: "150.10"},
			},
			{
				Complete: true,
				Time:     "2026-03-02T08:00:00.000000000Z",
				Mid:      candleData{O: "150.10", H: "150.21", L: "149.79", C: "150.05"},
			},
			{
				// Still forming; must be skipped.
				Complete: false,
				Time:     "2026-03-02T12:00:00.000000000Z",
				Mid:      candleData{O: "150.05", H: "150.30", L: "150.00", C: "150.25"},
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/v3/instruments/GBP_JPY/candles", r.URL.Path)
		assert.Equal(t, "M", r.URL.Query().Get("price"))
		assert.Equal(t, "H4", r.URL.Query().Get("granularity"))
		assert.Equal(t, "3", r.URL.Query().Get("count"))

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(mockResponse)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	candles, err := client.GetCandles(context.Background(), broker.CandlesRequest{
		Instrument:  "GBP_JPY",
		Granularity: "H4",
		Count:       3,
	})

	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, 150.00, candles[0].Open)
	assert.Equal(t, 150.20, candles[0].High)
	assert.Equal(t, 149.80, candles[0].Low)
	assert.Equal(t, 150.10, candles[0].Close)
	assert.Equal(t, time.Date(2026, 3, 2, 4, 0, 0, 0, time.UTC), candles[0].Time)

	assert.Equal(t, 150.21, candles[1].High)
	assert.Equal(t, 150.05, candles[1].Close)
}

func TestGetCandles_Validation(t *testing.T) {
	client := newTestClient("http://unused")

	_, err := client.GetCandles(context.Background(), broker.CandlesRequest{Granularity: "H4", Count: 3})
	assert.ErrorContains(t, err, "instrument is required")

	_, err = client.GetCandles(context.Background(), broker.CandlesRequest{Instrument: "GBP_JPY", Granularity: "H4"})
	assert.ErrorContains(t, err, "count")
}

func TestGetCandles_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errorMessage":"Insufficient authorization"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetCandles(context.Background(), broker.CandlesRequest{
		Instrument:  "GBP_JPY",
		Granularity: "H4",
		Count:       3,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestGetQuote_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/accounts/acct-001/pricing/stream", r.URL.Path)
		assert.Equal(t, "GBP_JPY", r.URL.Query().Get("instruments"))

		flusher := w.(http.Flusher)
		io.WriteString(w, `{"type":"HEARTBEAT","time":"2026-03-02T12:00:00Z"}`+"\n")
		flusher.Flush()
		io.WriteString(w, `{"type":"PRICE","time":"2026-03-02T12:00:01Z","instrument":"GBP_JPY","bids":[{"price":"150.001"}],"asks":[{"price":"150.041"}]}`+"\n")
		flusher.Flush()
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	tick, err := client.GetQuote(context.Background(), "GBP_JPY", 5*time.Second)

	require.NoError(t, err)
	assert.Equal(t, "GBP_JPY", tick.Instrument)
	assert.Equal(t, 150.001, tick.Bid)
	assert.Equal(t, 150.041, tick.Ask)
	assert.InDelta(t, 150.021, tick.Mid(), 1e-9)
}

func TestGetQuote_Timeout(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only heartbeats until the client gives up.
		flusher := w.(http.Flusher)
		io.WriteString(w, `{"type":"HEARTBEAT","time":"2026-03-02T12:00:00Z"}`+"\n")
		flusher.Flush()
		<-done
	}))
	defer server.Close()
	defer close(done)

	client := newTestClient(server.URL)
	_, err := client.GetQuote(context.Background(), "GBP_JPY", 100*time.Millisecond)
	assert.ErrorIs(t, err, ErrQuoteTimeout)
}

func TestGetQuote_StreamEndsWithoutPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"type":"HEARTBEAT","time":"2026-03-02T12:00:00Z"}`+"\n")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetQuote(context.Background(), "GBP_JPY", 5*time.Second)
	assert.ErrorIs(t, err, ErrQuoteTimeout)
}

func TestListPositions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/accounts/acct-001/openPositions", r.URL.Path)
		fmt.Fprint(w, `{"positions":[
			{"instrument":"GBP_JPY","long":{"units":"1000"},"short":{"units":"0"}},
			{"instrument":"EUR_USD","long":{"units":"0"},"short":{"units":"-2000"}}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	positions, err := client.ListPositions(context.Background())

	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, broker.Position{Instrument: "GBP_JPY", LongUnits: 1000}, positions[0])
	assert.Equal(t, broker.Position{Instrument: "EUR_USD", ShortUnits: -2000}, positions[1])
	assert.True(t, positions[0].Open())
}

func TestCreateOrder(t *testing.T) {
	var got orderCreateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/accounts/acct-001/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{
			"orderCreateTransaction":{"id":"6789","time":"2026-03-02T12:00:02Z"},
			"orderFillTransaction":{"price":"149.970","tradeOpened":{"tradeID":"6790"}}
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.CreateOrder(context.Background(), broker.OrderRequest{
		ClientID:   "01JD0000000000000000000000",
		Instrument: "GBP_JPY",
		Units:      -1000,
		EntryPrice: 149.970,
		StopLoss:   150.460,
		TakeProfit: 148.477,
	})

	require.NoError(t, err)
	assert.Equal(t, "6789", result.OrderID)
	assert.Equal(t, "6790", result.TradeID)
	assert.Equal(t, 149.970, result.FillPrice)
	assert.Equal(t, time.Date(2026, 3, 2, 12, 0, 2, 0, time.UTC), result.Time)

	assert.Equal(t, "MARKET", got.Order.Type)
	assert.Equal(t, "GBP_JPY", got.Order.Instrument)
	assert.Equal(t, "-1000", got.Order.Units)
	assert.Equal(t, "150.460", got.Order.StopLossOnFill.Price)
	assert.Equal(t, "GTC", got.Order.StopLossOnFill.TimeInForce)
	assert.Equal(t, "148.477", got.Order.TakeProfitOnFill.Price)
	assert.Equal(t, "GTC", got.Order.TakeProfitOnFill.TimeInForce)
	require.NotNil(t, got.Order.ClientExtensions)
	assert.Equal(t, "01JD0000000000000000000000", got.Order.ClientExtensions.ID)
}

func TestCreateOrder_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errorMessage":"UNITS_INVALID"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateOrder(context.Background(), broker.OrderRequest{
		Instrument: "GBP_JPY",
		Units:      -1000,
		StopLoss:   150.460,
		TakeProfit: 148.477,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNITS_INVALID")
}

func TestCreateOrder_Validation(t *testing.T) {
	client := newTestClient("http://unused")

	_, err := client.CreateOrder(context.Background(), broker.OrderRequest{Units: 1000})
	assert.ErrorContains(t, err, "instrument")

	_, err = client.CreateOrder(context.Background(), broker.OrderRequest{Instrument: "GBP_JPY"})
	assert.ErrorContains(t, err, "units")
}
