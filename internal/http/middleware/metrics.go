package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
	TapsSettled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taps_settled_total",
			Help: "Total taps settled across all batches",
		},
	)
	TapsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tap_batches_rejected_total",
			Help: "Tap batches rejected for insufficient energy",
		},
	)
	SpudMinted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spud_minted_total",
			Help: "Total SPUD credited by taps",
		},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(TapsSettled)
	prometheus.MustRegister(TapsRejected)
	prometheus.MustRegister(SpudMinted)
}
