// Package metrics defines Prometheus metrics for rentdesk.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rentdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentdesk_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentdesk_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentdesk_transitions_total",
			Help: "Status transitions attempted, by outcome",
		},
		[]string{"from", "to", "result"},
	)

	NotesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rentdesk_notes_created_total",
			Help: "Notes added to maintenance requests",
		},
	)

	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentdesk_cache_requests_total",
			Help: "Request-set cache lookups by result (hit, miss, error, stale)",
		},
		[]string{"result"},
	)

	AuditDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rentdesk_audit_dropped_total",
			Help: "Audit entries dropped because the queue was full",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		TransitionsTotal, NotesCreatedTotal, CacheRequestsTotal,
		AuditDropped,
	)
}
