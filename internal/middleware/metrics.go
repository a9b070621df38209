package middleware

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpsite_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "corpsite_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	authDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpsite_auth_denials_total",
			Help: "Requests rejected by the guard, by status.",
		},
		[]string{"status"},
	)
)

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// Metrics records request counts and latency. It must wrap the ServeMux
// directly so the matched pattern is visible after the call.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := routeLabel(r)
		status := strconv.Itoa(rw.statusCode)
		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		if rw.statusCode == http.StatusUnauthorized || rw.statusCode == http.StatusForbidden {
			authDenialsTotal.WithLabelValues(status).Inc()
		}
	})
}

// routeLabel keeps label cardinality bounded: the mux pattern when one
// matched, otherwise the path with numeric segments collapsed.
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	if r.URL.Path == "" {
		return "/"
	}
	return numericSegment.ReplaceAllString(r.URL.Path, "/{id}$1")
}
