package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sales_dashboard",
			Name:      "store_query_duration_seconds",
			Help:      "Duration of sales database queries in seconds, including connection acquisition.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sales_dashboard",
			Name:      "store_query_errors_total",
			Help:      "Sales database query failures by kind (connect, query, scan).",
		},
		[]string{"query", "kind"},
	)

	StoreRowsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sales_dashboard",
			Name:      "store_rows_returned",
			Help:      "Rows returned per sales database query.",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		},
		[]string{"query"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sales_dashboard",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, matched route pattern and status code.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	PanelRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sales_dashboard",
			Name:      "panel_renders_total",
			Help:      "Dashboard panels computed, by panel and outcome.",
		},
		[]string{"panel", "outcome"},
	)
)
