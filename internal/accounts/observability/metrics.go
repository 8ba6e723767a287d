// Package observability holds the Prometheus metrics of the accounts service.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeFailed             = "failed"
	OutcomeUsernameTaken      = "username_taken"
	OutcomeEmailTaken         = "email_taken"
	OutcomeInvalidInput       = "invalid_input"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LoginsTotal        *prometheus.CounterVec
	RegistrationsTotal *prometheus.CounterVec
	TokensIssuedTotal  prometheus.Counter
	HashDuration       *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "accounts_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_registrations_total",
				Help: "Registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		TokensIssuedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "accounts_tokens_issued_total",
			Help: "Access tokens signed",
		}),
		HashDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "accounts_password_hash_duration_seconds",
				Help:    "Time spent hashing or verifying passwords",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2},
			},
			[]string{"op"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LoginsTotal,
		m.RegistrationsTotal,
		m.TokensIssuedTotal,
		m.HashDuration,
	)
	return m
}

func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TokenIssued() {
	if m == nil {
		return
	}
	m.TokensIssuedTotal.Inc()
}

// ObserveHash records how long a hash or verify call took. op is "hash" or
// "verify".
func (m *Metrics) ObserveHash(op string, start time.Time) {
	if m == nil {
		return
	}
	m.HashDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware instruments requests. The route label is the pattern the
// ServeMux matched, so it must wrap the mux without copying the request in
// between.
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
