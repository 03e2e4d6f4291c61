package core

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/mission-timeline/internal/logging"
	"github.com/signalsfoundry/mission-timeline/model"
)

const tracerName = "github.com/signalsfoundry/mission-timeline/core"

// BuildObserver receives build outcomes for metric recording. The core
// stays free of metric registration; the observability layer implements
// this against Prometheus.
type BuildObserver interface {
	ObserveBuild(legID, outcome string, d time.Duration)
	SetNextConflict(legID string, seconds float64)
}

// TimelineContext carries the explicitly constructed collaborators for
// one or more builds: catalog, logger, tunables, and an optional build
// observer. It replaces the module-level singletons of the original
// design so concurrent per-leg builds are safe by construction. The
// catalog must be fully populated before the first build and never
// mutated afterwards.
type TimelineContext struct {
	Catalog  *SatelliteCatalog
	Log      logging.Logger
	Observer BuildObserver

	SampleInterval     time.Duration
	TransitionDuration time.Duration
	SwapDuration       time.Duration
	MinElevationDeg    float64

	// now is swappable for deterministic generation-time tests.
	now func() time.Time
}

// NewTimelineContext constructs a context with default tunables.
func NewTimelineContext(cat *SatelliteCatalog, log logging.Logger) *TimelineContext {
	if log == nil {
		log = logging.Noop()
	}
	return &TimelineContext{
		Catalog:            cat,
		Log:                log,
		SampleInterval:     DefaultSampleInterval,
		TransitionDuration: DefaultTransitionDuration,
		SwapDuration:       DefaultSwapDuration,
		MinElevationDeg:    DefaultMinElevationDeg,
		now:                time.Now,
	}
}

// Timeline is the complete build output for one mission leg. It is
// owned by the caller once returned; the engine retains no references.
type Timeline struct {
	LegID  string
	Window model.MissionWindow

	Events     []MissionEvent
	Intervals  map[Transport][]TransportInterval
	AARWindows []ResolvedAARWindow
	Segments   []TimelineSegment
	Stats      map[string]any
	Summary    TimelineSummary
}

// BuildTimeline runs the full pipeline for one leg: project the route,
// resolve AAR windows, sample coverage, evaluate rules, fold per-
// transport intervals, merge segments, and attach statistics. The
// computation is pure and synchronous; two builds over the same inputs
// produce identical output. A fatal error aborts this leg only and
// returns no partial timeline.
func BuildTimeline(ctx context.Context, tc *TimelineContext, leg *model.MissionLeg) (*Timeline, error) {
	if tc == nil || tc.Catalog == nil {
		return nil, fmt.Errorf("%w: no timeline context", ErrTimelineComputation)
	}
	if leg == nil {
		return nil, fmt.Errorf("%w: %w", ErrTimelineComputation, ErrNoRoute)
	}

	log := tc.Log
	if log == nil {
		log = logging.Noop()
	}
	now := tc.now
	if now == nil {
		now = time.Now
	}

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "timeline.Build",
		trace.WithAttributes(attribute.String("leg_id", leg.ID)))
	defer span.End()

	started := now()
	timeline, err := buildStages(ctx, tc, log, tracer, leg)
	elapsed := now().Sub(started)

	if tc.Observer != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		tc.Observer.ObserveBuild(leg.ID, outcome, elapsed)
		if err == nil {
			tc.Observer.SetNextConflict(leg.ID, timeline.Summary.NextConflictSeconds)
		}
	}
	if err != nil {
		span.RecordError(err)
		log.Error(ctx, "timeline build failed",
			logging.String("leg_id", leg.ID),
			logging.Any("error", err))
		return nil, err
	}

	timeline.Summary.GenerationMs = float64(elapsed.Microseconds()) / 1000.0

	log.Info(ctx, "timeline built",
		logging.String("leg_id", leg.ID),
		logging.Int("segments", len(timeline.Segments)),
		logging.Int("events", len(timeline.Events)))
	return timeline, nil
}

func buildStages(ctx context.Context, tc *TimelineContext, log logging.Logger,
	tracer trace.Tracer, leg *model.MissionLeg) (*Timeline, error) {

	if leg.Route == nil {
		return nil, fmt.Errorf("%w: %w", ErrTimelineComputation, ErrNoRoute)
	}

	window := leg.EffectiveWindow()
	if window.Duration() <= 0 {
		return nil, fmt.Errorf("%w: %w: leg %q", ErrTimelineComputation, ErrEmptyWindow, leg.ID)
	}

	// Stage 1: route projection.
	_, projSpan := tracer.Start(ctx, "timeline.Project")
	projector, err := NewRouteProjector(leg.Route)
	projSpan.End()
	if err != nil {
		return nil, err
	}

	// Stage 2: AAR window resolution (best effort, never fatal).
	_, aarSpan := tracer.Start(ctx, "timeline.ResolveAAR")
	aarWindows := ResolveAARWindows(ctx, log, leg.Transports.AARWindows, leg.Route, projector)
	aarSpan.End()

	// Stage 3: coverage sampling.
	_, sampleSpan := tracer.Start(ctx, "timeline.Sample")
	sampler := NewCoverageSampler(tc.Catalog, projector)
	if tc.SampleInterval > 0 {
		sampler.Interval = tc.SampleInterval
	}
	samples := sampler.Sample(window, leg.Transports.InitialKaSatelliteIDs)
	candidates := DetectKaCandidates(samples)
	sampleSpan.End()

	// Stage 4: rule evaluation.
	_, ruleSpan := tracer.Start(ctx, "timeline.Rules")
	engine := NewRuleEngine(tc.Catalog, projector, log)
	if tc.TransitionDuration > 0 {
		engine.TransitionDuration = tc.TransitionDuration
	}
	if tc.SwapDuration > 0 {
		engine.SwapDuration = tc.SwapDuration
	}
	if tc.MinElevationDeg > 0 {
		engine.MinElevationDeg = tc.MinElevationDeg
	}
	events, err := engine.Evaluate(ctx, leg, window, samples, candidates, aarWindows)
	ruleSpan.End()
	if err != nil {
		return nil, err
	}

	// Stage 5: per-transport interval folding.
	_, foldSpan := tracer.Start(ctx, "timeline.Intervals")
	intervals := make(map[Transport][]TransportInterval, len(Transports))
	for _, transport := range Transports {
		intervals[transport] = GenerateTransportIntervals(events, transport, window)
	}
	foldSpan.End()

	// Stage 6: segment merge + statistics.
	_, segSpan := tracer.Start(ctx, "timeline.Segments")
	segments := BuildSegments(intervals, window)
	stats := AttachStatistics(segments, nil, aarWindows)
	summary := SummarizeTimeline(segments, window, len(samples), sampler.Interval, 0)
	segSpan.End()

	return &Timeline{
		LegID:      leg.ID,
		Window:     window,
		Events:     events,
		Intervals:  intervals,
		AARWindows: aarWindows,
		Segments:   segments,
		Stats:      stats,
		Summary:    summary,
	}, nil
}
