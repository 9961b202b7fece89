package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// Metrics holds the client's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	breakerGauge *prometheus.GaugeVec
}

// NewMetrics registers the client collectors with reg. Registering twice on
// the same registry reuses the existing collectors, so several clients can
// share one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amcards_client_requests_total",
			Help: "Total number of requests sent to the AMcards API",
		},
		[]string{"operation", "status"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "amcards_client_request_duration_seconds",
			Help:    "Duration of requests sent to the AMcards API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	breakerGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "amcards_client_circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if breakerGauge, err = register(reg, breakerGauge); err != nil {
		return nil, err
	}

	return &Metrics{
		requests:     requests,
		duration:     duration,
		breakerGauge: breakerGauge,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// observe records one request. status is 0 when no response was received.
func (m *Metrics) observe(op Operation, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(string(op), label).Inc()
	m.duration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
}

func (m *Metrics) breakerState(name string, state gobreaker.State) {
	if m == nil {
		return
	}
	m.breakerGauge.WithLabelValues(name).Set(stateToFloat(state))
}

// stateToFloat maps gobreaker states to prometheus gauge values.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
