package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VipProfitPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_vip_profit_postings_total",
			Help: "Daily VIP profit postings by level",
		},
		[]string{"level"},
	)

	VipCycleCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_vip_cycles_completed_total",
			Help: "VIP cycles that reached their end",
		},
	)

	ReferralBonusPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_referral_bonus_total",
			Help: "Referral bonus amount credited to inviters",
		},
		[]string{"event"},
	)

	RequestsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_requests_submitted_total",
			Help: "Financial requests submitted by kind",
		},
		[]string{"kind"},
	)

	RequestsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_requests_resolved_total",
			Help: "Financial requests resolved by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	ConcurrencyConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_concurrency_conflicts_total",
			Help: "Lost optimistic writes and lock timeouts",
		},
		[]string{"operation"},
	)

	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
