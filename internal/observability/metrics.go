package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TimelineCollector bundles Prometheus metrics for timeline builds and
// implements the core engine's BuildObserver so builds can record
// outcomes without the core ever touching metric registration.
type TimelineCollector struct {
	gatherer prometheus.Gatherer

	Builds         *prometheus.CounterVec
	BuildDurations prometheus.Histogram

	NextConflictSeconds *prometheus.GaugeVec
	DegradedSeconds     *prometheus.GaugeVec
	CriticalSeconds     *prometheus.GaugeVec
}

// NewTimelineCollector registers the timeline metrics against the
// provided registerer, defaulting to the global Prometheus registry
// when nil. Re-registration of identical collectors is tolerated.
func NewTimelineCollector(reg prometheus.Registerer) (*TimelineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	builds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timeline_builds_total",
		Help: "Total number of timeline builds, labeled by mission leg and outcome.",
	}, []string{"leg", "outcome"})
	builds, err := registerCounterVec(reg, builds, "timeline_builds_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timeline_build_duration_seconds",
		Help:    "Timeline build latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
	})
	durations, err = registerHistogram(reg, durations, "timeline_build_duration_seconds")
	if err != nil {
		return nil, err
	}

	nextConflict, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mission_next_conflict_seconds",
		Help: "Offset from mission start to the first non-nominal segment; -1 when the timeline is fully nominal.",
	}, []string{"leg"}), "mission_next_conflict_seconds")
	if err != nil {
		return nil, err
	}
	degraded, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mission_degraded_seconds",
		Help: "Total degraded seconds in the most recent timeline build per leg.",
	}, []string{"leg"}), "mission_degraded_seconds")
	if err != nil {
		return nil, err
	}
	critical, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mission_critical_seconds",
		Help: "Total critical seconds in the most recent timeline build per leg.",
	}, []string{"leg"}), "mission_critical_seconds")
	if err != nil {
		return nil, err
	}

	return &TimelineCollector{
		gatherer:            gatherer,
		Builds:              builds,
		BuildDurations:      durations,
		NextConflictSeconds: nextConflict,
		DegradedSeconds:     degraded,
		CriticalSeconds:     critical,
	}, nil
}

// ObserveBuild records one build outcome. Implements core.BuildObserver.
func (c *TimelineCollector) ObserveBuild(legID, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	if c.Builds != nil {
		c.Builds.WithLabelValues(legID, outcome).Inc()
	}
	if c.BuildDurations != nil {
		c.BuildDurations.Observe(d.Seconds())
	}
}

// SetNextConflict updates the per-leg next-conflict gauge. Implements
// core.BuildObserver.
func (c *TimelineCollector) SetNextConflict(legID string, seconds float64) {
	if c == nil || c.NextConflictSeconds == nil {
		return
	}
	c.NextConflictSeconds.WithLabelValues(legID).Set(seconds)
}

// SetImpairmentTotals updates the per-leg degraded/critical gauges from
// a built summary.
func (c *TimelineCollector) SetImpairmentTotals(legID string, degraded, critical float64) {
	if c == nil {
		return
	}
	if c.DegradedSeconds != nil {
		c.DegradedSeconds.WithLabelValues(legID).Set(degraded)
	}
	if c.CriticalSeconds != nil {
		c.CriticalSeconds.WithLabelValues(legID).Set(critical)
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *TimelineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
