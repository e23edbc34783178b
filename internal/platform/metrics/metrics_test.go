package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Observations(t *testing.T) {
	m := New(func() float64 { return 3 })

	m.ObserveClassification(1)
	m.ObserveClassification(1)
	m.ObserveClassification(5)
	m.ObserveTransition("treated")
	m.ObserveConflict()
	m.ObservePersistFailure()

	if got := testutil.ToFloat64(m.classifications.WithLabelValues("1")); got != 2 {
		t.Errorf("level-1 classifications = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.classifications.WithLabelValues("5")); got != 1 {
		t.Errorf("level-5 classifications = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("treated")); got != 1 {
		t.Errorf("treated transitions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.conflicts); got != 1 {
		t.Errorf("conflicts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.persistFailures); got != 1 {
		t.Errorf("persist failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.queueDepth); got != 3 {
		t.Errorf("queue depth = %v, want 3", got)
	}
}
