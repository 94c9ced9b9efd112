// Package metrics exposes Prometheus metrics for the trading loop:
//
//   - trader_cycles_total{outcome}  – loop cycles by outcome
//   - trader_signals_total{side}    – detected signals by direction
//   - trader_order_errors_total     – rejected order submissions
//   - trader_last_mid_price         – last quoted mid (gauge)
//   - trader_last_entry_price       – last execution-adjusted entry (gauge)
//
// Registered in init() and served at /metrics when an address is
// configured.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Cycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_cycles_total",
			Help: "Trading loop cycles by outcome",
		},
		[]string{"outcome"},
	)

	Signals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_signals_total",
			Help: "Detected signals by direction",
		},
		[]string{"side"},
	)

	OrderErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trader_order_errors_total",
			Help: "Order submissions rejected by the broker",
		},
	)

	LastMid = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trader_last_mid_price",
			Help: "Last quoted mid price",
		},
	)

	LastEntry = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trader_last_entry_price",
			Help: "Last execution-adjusted entry price",
		},
	)
)

func init() {
	prometheus.MustRegister(Cycles, Signals, OrderErrors, LastMid, LastEntry)
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve starts the metrics endpoint on addr. It blocks, so callers run it
// in its own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, mux)
}
