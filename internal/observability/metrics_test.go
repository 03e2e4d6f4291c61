package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func newCollector(t *testing.T) (*TimelineCollector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	c, err := NewTimelineCollector(reg)
	if err != nil {
		t.Fatalf("NewTimelineCollector: %v", err)
	}
	return c, reg
}

func TestCollector_ObserveBuild(t *testing.T) {
	c, reg := newCollector(t)

	c.ObserveBuild("leg-1", "ok", 25*time.Millisecond)
	c.ObserveBuild("leg-1", "ok", 40*time.Millisecond)
	c.ObserveBuild("leg-1", "error", 5*time.Millisecond)

	if got := testutil.ToFloat64(c.Builds.WithLabelValues("leg-1", "ok")); got != 2 {
		t.Errorf("ok builds = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.Builds.WithLabelValues("leg-1", "error")); got != 1 {
		t.Errorf("error builds = %v, want 1", got)
	}
	if got := histogramSampleCount(t, reg, "timeline_build_duration_seconds"); got != 3 {
		t.Errorf("duration samples = %d, want 3", got)
	}
}

func TestCollector_Gauges(t *testing.T) {
	c, _ := newCollector(t)

	c.SetNextConflict("leg-1", 1200)
	c.SetImpairmentTotals("leg-1", 600, 900)

	if got := testutil.ToFloat64(c.NextConflictSeconds.WithLabelValues("leg-1")); got != 1200 {
		t.Errorf("next conflict = %v, want 1200", got)
	}
	if got := testutil.ToFloat64(c.DegradedSeconds.WithLabelValues("leg-1")); got != 600 {
		t.Errorf("degraded seconds = %v, want 600", got)
	}
	if got := testutil.ToFloat64(c.CriticalSeconds.WithLabelValues("leg-1")); got != 900 {
		t.Errorf("critical seconds = %v, want 900", got)
	}

	c.SetNextConflict("leg-1", -1)
	if got := testutil.ToFloat64(c.NextConflictSeconds.WithLabelValues("leg-1")); got != -1 {
		t.Errorf("next conflict after nominal rebuild = %v, want -1", got)
	}
}

func TestCollector_ReRegistrationTolerated(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewTimelineCollector(reg)
	if err != nil {
		t.Fatalf("first NewTimelineCollector: %v", err)
	}
	second, err := NewTimelineCollector(reg)
	if err != nil {
		t.Fatalf("second NewTimelineCollector: %v", err)
	}

	first.ObserveBuild("leg-1", "ok", time.Millisecond)
	second.ObserveBuild("leg-1", "ok", time.Millisecond)

	// Both collectors share the originally registered vectors.
	if got := testutil.ToFloat64(second.Builds.WithLabelValues("leg-1", "ok")); got != 2 {
		t.Errorf("shared counter = %v, want 2", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c, _ := newCollector(t)
	c.ObserveBuild("leg-1", "ok", time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "timeline_builds_total") {
		t.Errorf("exposition missing timeline_builds_total")
	}
}

func TestCollector_NilReceiverSafe(t *testing.T) {
	var c *TimelineCollector
	c.ObserveBuild("leg-1", "ok", time.Millisecond)
	c.SetNextConflict("leg-1", 0)
	c.SetImpairmentTotals("leg-1", 0, 0)
}

func histogramSampleCount(t *testing.T, g prometheus.Gatherer, name string) uint64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name || mf.GetType() != dto.MetricType_HISTOGRAM {
			continue
		}
		var count uint64
		for _, m := range mf.GetMetric() {
			count += m.GetHistogram().GetSampleCount()
		}
		return count
	}
	t.Fatalf("histogram %s not found", name)
	return 0
}
