package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"fleet-rental-pricing/internal/domain"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRentalPriced(nil, time.Millisecond)
	m.ObserveRentalPriced(nil, time.Millisecond)
	m.ObserveRentalPriced(errors.New("boom"), time.Millisecond)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.rentalsPriced.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.rentalsPriced.WithLabelValues("error")))

	m.ObserveRejected("rental", domain.NewDuplicateIDError("rental", 1))
	m.ObserveRejected("rental", domain.NewDomainError("rental", 1, domain.ErrCarNotFound))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.recordsRejected.WithLabelValues("rental", "validation")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.recordsRejected.WithLabelValues("rental", "domain")))

	m.ObserveIssued(5)
	m.ObserveIssued(0)
	assert.Equal(t, float64(5), testutil.ToFloat64(m.statementsIssued))

	m.ObserveModification(nil, time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.modifications.WithLabelValues("success")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRentalPriced(nil, 0)
		m.ObserveModification(nil, 0)
		m.ObserveRejected("car", nil)
		m.ObserveIssued(3)
	})
}

func TestReason(t *testing.T) {
	assert.Equal(t, "validation", Reason(&domain.ValidationError{Record: "car"}))
	assert.Equal(t, "domain", Reason(domain.NewDomainError("car", 1, domain.ErrNegativePrice)))
	assert.Equal(t, "other", Reason(errors.New("x")))
}
