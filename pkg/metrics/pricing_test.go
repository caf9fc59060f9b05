package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPricingMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPricingMetrics(reg)

	m.ObserveCalculation("success", 25*time.Millisecond)
	m.ObserveCalculation("success", 10*time.Millisecond)
	m.IncPromotionValidated("valid")
	m.IncPromotionValidated("expired")
	m.IncPromotionApplied("applied")
	m.IncApplyRetry()

	if got := testutil.ToFloat64(m.calcTotal.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 calculations, got %v", got)
	}
	if got := testutil.ToFloat64(m.promoValidated.WithLabelValues("expired")); got != 1 {
		t.Fatalf("expected 1 expired validation, got %v", got)
	}
	if got := testutil.ToFloat64(m.applyRetries); got != 1 {
		t.Fatalf("expected 1 retry, got %v", got)
	}
}

func TestPricingMetricsNilSafe(t *testing.T) {
	var m *PricingMetrics
	m.ObserveCalculation("success", time.Millisecond)
	m.IncPromotionValidated("")
	m.IncPromotionApplied("")
	m.IncApplyRetry()

	empty := NewPricingMetrics(nil)
	empty.ObserveCalculation("success", time.Millisecond)
}

func TestNormalizeLabel(t *testing.T) {
	if normalizeLabel("") != "unknown" {
		t.Fatal("empty label should normalize to unknown")
	}
	if normalizeLabel("valid") != "valid" {
		t.Fatal("non-empty label should pass through")
	}
}
