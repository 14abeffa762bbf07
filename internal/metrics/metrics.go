package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fleet-rental-pricing/internal/domain"
)

const (
	metricPrefix = "fleet_pricing_"

	resultSuccess = "success"
	resultError   = "error"

	reasonValidation = "validation"
	reasonDomain     = "domain"
	reasonOther      = "other"
)

// Metrics holds the pricing engine collectors. A nil *Metrics records nothing.
type Metrics struct {
	rentalsPriced    *prometheus.CounterVec
	recordsRejected  *prometheus.CounterVec
	modifications    *prometheus.CounterVec
	statementsIssued prometheus.Counter
	pipelineLatency  *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rentalsPriced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rentals_priced_total",
				Help: "Total rentals run through the pricing pipeline by result",
			},
			[]string{"result"},
		),
		recordsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_rejected_total",
				Help: "Total input records left out by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		modifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "modifications_total",
				Help: "Total rental modifications by result",
			},
			[]string{"result"},
		),
		statementsIssued: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "statements_issued_total",
				Help: "Total statements marked as paid",
			},
		),
		pipelineLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "pipeline_latency_seconds",
				Help:    "Pricing pipeline latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(m.rentalsPriced, m.recordsRejected, m.modifications, m.statementsIssued, m.pipelineLatency)
	return m
}

// ObserveRentalPriced records a rental build attempt.
func (m *Metrics) ObserveRentalPriced(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rentalsPriced.WithLabelValues(result(err)).Inc()
	m.pipelineLatency.WithLabelValues("build").Observe(elapsed.Seconds())
}

// ObserveModification records a modification attempt.
func (m *Metrics) ObserveModification(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.modifications.WithLabelValues(result(err)).Inc()
	m.pipelineLatency.WithLabelValues("modify").Observe(elapsed.Seconds())
}

// ObserveRejected records a record dropped from a batch or request.
func (m *Metrics) ObserveRejected(kind string, err error) {
	if m == nil {
		return
	}
	m.recordsRejected.WithLabelValues(kind, Reason(err)).Inc()
}

// ObserveIssued adds n settled statements.
func (m *Metrics) ObserveIssued(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.statementsIssued.Add(float64(n))
}

// Reason classifies err for the rejected-records counter.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return reasonValidation
	case errors.Is(err, domain.ErrDomain):
		return reasonDomain
	default:
		return reasonOther
	}
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}
