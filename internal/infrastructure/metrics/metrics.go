package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Processing metrics
	RunsTotal             *prometheus.CounterVec
	RunDuration           prometheus.Histogram
	TransactionsProcessed *prometheus.CounterVec
	RecordsSkipped        *prometheus.CounterVec

	// Ledger metrics, as of the last finished run
	Accounts       prometheus.Gauge
	LockedAccounts prometheus.Gauge
	HistoryRecords prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
	RateLimited  prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Processing metrics
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txledger_runs_total",
				Help: "Total processing runs by outcome",
			},
			[]string{"status"},
		),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "txledger_run_duration_seconds",
			Help:    "Duration of processing runs",
			Buckets: []float64{.001, .01, .1, .5, 1, 5, 10, 30, 60, 300},
		}),
		TransactionsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txledger_transactions_processed_total",
				Help: "Total transactions applied to the ledger by type",
			},
			[]string{"type"},
		),
		RecordsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txledger_records_skipped_total",
				Help: "Total input records skipped before reaching the ledger",
			},
			[]string{"reason"},
		),

		// Ledger metrics
		Accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_accounts",
			Help: "Client accounts in the last processed ledger",
		}),
		LockedAccounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_locked_accounts",
			Help: "Locked client accounts in the last processed ledger",
		}),
		HistoryRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_history_records",
			Help: "Deposits and withdrawals retained for dispute lookup in the last processed ledger",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "txledger_http_rate_limited_total",
			Help: "HTTP requests refused by the rate limiter",
		}),
	}
}
