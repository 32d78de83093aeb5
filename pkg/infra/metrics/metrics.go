package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts handled HTTP requests by path and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formguard_http_requests_total",
		Help: "Total number of HTTP requests handled.",
	}, []string{"path", "status"})

	// VerdictsTotal counts classification verdicts by category.
	VerdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formguard_verdicts_total",
		Help: "Total number of classification verdicts by category.",
	}, []string{"category"})

	// OracleFailuresTotal counts oracle calls that fell back to the local
	// heuristic.
	OracleFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "formguard_oracle_failures_total",
		Help: "Total number of oracle failures handled by the fallback heuristic.",
	})

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "formguard_rate_limited_total",
		Help: "Total number of rate limited requests.",
	})
)
