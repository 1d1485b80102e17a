package obs

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	ProviderCalls    *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	Toggles          *prometheus.CounterVec
	StaleRoutes      prometheus.Counter
	ActiveSessions   prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
}

// NewMetrics registers collectors against reg, defaulting to the global registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	calls, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itinerary_provider_calls_total",
		Help: "External provider calls, labeled by provider and outcome.",
	}, []string{"provider", "outcome"}))
	if err != nil {
		return nil, err
	}

	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "itinerary_provider_duration_seconds",
		Help:    "External provider latency in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"provider"}))
	if err != nil {
		return nil, err
	}

	toggles, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itinerary_toggles_total",
		Help: "Candidate toggles, labeled by result (admitted, removed, rejected).",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	stale, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "itinerary_stale_routes_total",
		Help: "Route results discarded because a newer recompute superseded them.",
	}))
	if err != nil {
		return nil, err
	}

	sessions, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "itinerary_active_sessions",
		Help: "Planning sessions currently held in memory.",
	}))
	if err != nil {
		return nil, err
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itinerary_http_requests_total",
		Help: "HTTP requests, labeled by method and status code.",
	}, []string{"method", "code"}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:         gatherer,
		ProviderCalls:    calls,
		ProviderDuration: durations,
		Toggles:          toggles,
		StaleRoutes:      stale,
		ActiveSessions:   sessions,
		HTTPRequests:     requests,
	}, nil
}

// register returns the already-registered collector when reg has an equal one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("register metrics: %w", err)
	}
	return c, nil
}

// ObserveProvider records one provider call.
func (m *Metrics) ObserveProvider(provider string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProviderCalls.WithLabelValues(provider, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveToggle(result string) {
	if m == nil {
		return
	}
	m.Toggles.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveStaleRoute() {
	if m == nil {
		return
	}
	m.StaleRoutes.Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

func (m *Metrics) ObserveHTTP(method string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler exposes the registered metrics for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
