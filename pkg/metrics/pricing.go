package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records calculation and promotion activity.
type PricingMetrics struct {
	calcDuration   *prometheus.HistogramVec
	calcTotal      *prometheus.CounterVec
	promoValidated *prometheus.CounterVec
	promoApplied   *prometheus.CounterVec
	applyRetries   prometheus.Counter
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	calcDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_calculation_duration_seconds",
		Help:    "Duration of unit-price calculations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	calcTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_calculations_total",
		Help: "Unit-price calculations by outcome.",
	}, []string{"outcome"})
	promoValidated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_promotion_validations_total",
		Help: "Promotion code validations by result.",
	}, []string{"result"})
	promoApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_promotion_applications_total",
		Help: "Promotion applications by result.",
	}, []string{"result"})
	applyRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_promotion_apply_retries_total",
		Help: "Optimistic-concurrency retries while applying promotions.",
	})
	reg.MustRegister(calcDuration, calcTotal, promoValidated, promoApplied, applyRetries)
	return &PricingMetrics{
		calcDuration:   calcDuration,
		calcTotal:      calcTotal,
		promoValidated: promoValidated,
		promoApplied:   promoApplied,
		applyRetries:   applyRetries,
	}
}

// ObserveCalculation records one calculation with its duration and outcome.
func (m *PricingMetrics) ObserveCalculation(outcome string, duration time.Duration) {
	if m == nil || m.calcDuration == nil {
		return
	}
	m.calcDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
	m.calcTotal.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncPromotionValidated counts one validation result (valid or an error kind).
func (m *PricingMetrics) IncPromotionValidated(result string) {
	if m == nil || m.promoValidated == nil {
		return
	}
	m.promoValidated.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncPromotionApplied counts one application result.
func (m *PricingMetrics) IncPromotionApplied(result string) {
	if m == nil || m.promoApplied == nil {
		return
	}
	m.promoApplied.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncApplyRetry counts one optimistic-lock retry.
func (m *PricingMetrics) IncApplyRetry() {
	if m == nil || m.applyRetries == nil {
		return
	}
	m.applyRetries.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
