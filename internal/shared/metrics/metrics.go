package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursestore_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coursestore_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	CheckoutSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursestore_checkout_sessions_total",
		Help: "Checkout session creation attempts by result.",
	}, []string{"result"})

	CouponValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursestore_coupon_validations_total",
		Help: "Coupon validations by outcome (valid or the rejection reason).",
	}, []string{"outcome"})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursestore_webhook_events_total",
		Help: "Payment webhook events by type and result.",
	}, []string{"type", "result"})

	EnrollmentsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursestore_enrollments_created_total",
		Help: "New enrollment rows by origin.",
	}, []string{"origin"})

	AccessChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursestore_access_checks_total",
		Help: "Course access decisions by source.",
	}, []string{"source"})
)
