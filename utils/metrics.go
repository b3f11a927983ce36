package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wellportal_http_requests_total",
		Help: "HTTP requests served by the portal.",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wellportal_http_request_duration_seconds",
		Help:    "Portal request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	GuardDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wellportal_guard_decisions_total",
		Help: "Route guard decisions by outcome.",
	}, []string{"decision"})

	BookingOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wellportal_booking_outcomes_total",
		Help: "Booking workflow results by operation and outcome.",
	}, []string{"op", "outcome"})

	BackendRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wellportal_backend_request_duration_seconds",
		Help:    "Wellness API call latency by error kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "kind"})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, GuardDecisions, BookingOutcomes, BackendRequests)
}
