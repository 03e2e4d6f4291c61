package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/signalsfoundry/mission-timeline/internal/logging"
	"github.com/signalsfoundry/mission-timeline/model"
)

// Tunables for event emission. The defaults match what mission planners
// assume for a dish repoint.
const (
	// DefaultTransitionDuration is how long an X-band satellite
	// transition keeps the transport degraded.
	DefaultTransitionDuration = 10 * time.Minute

	// DefaultSwapDuration is the dish repoint allowance for a Ka
	// satellite handoff.
	DefaultSwapDuration = 5 * time.Minute

	// DefaultMinElevationDeg is the lowest serviceable look-angle
	// elevation for the X-band dish.
	DefaultMinElevationDeg = 5.0
)

// XKuConflictPrefix is the fixed prefix of every derived X-Ku conflict
// reason. Exporters key off the IsAdvisoryOnly flag, not this text, but
// the prefix is preserved verbatim for operators reading raw reasons.
const XKuConflictPrefix = "X-Ku Conflict"

// RuleEngine converts raw geometric and coverage facts plus operator
// overrides into the canonical MissionEvent stream. It is a stateless
// transformer: all inputs are borrowed read-only for one build.
type RuleEngine struct {
	Catalog   *SatelliteCatalog
	Projector *RouteProjector
	Log       logging.Logger

	TransitionDuration time.Duration
	SwapDuration       time.Duration
	MinElevationDeg    float64
}

// NewRuleEngine constructs an engine with default tunables.
func NewRuleEngine(cat *SatelliteCatalog, proj *RouteProjector, log logging.Logger) *RuleEngine {
	if log == nil {
		log = logging.Noop()
	}
	return &RuleEngine{
		Catalog:            cat,
		Projector:          proj,
		Log:                log,
		TransitionDuration: DefaultTransitionDuration,
		SwapDuration:       DefaultSwapDuration,
		MinElevationDeg:    DefaultMinElevationDeg,
	}
}

// xAssignment is one stretch of the mission during which a particular
// X satellite is assigned.
type xAssignment struct {
	SatelliteID string
	From        time.Time
}

// Evaluate emits the chronological event stream for one leg. The
// returned slice is sorted by the documented deterministic order.
func (re *RuleEngine) Evaluate(ctx context.Context, leg *model.MissionLeg,
	window model.MissionWindow, samples []RouteSample,
	candidates []CoverageCandidate, aar []ResolvedAARWindow) ([]MissionEvent, error) {

	var events []MissionEvent

	transitionEvents, assignments, err := re.evaluateXTransitions(ctx, leg, window, aar)
	if err != nil {
		return nil, err
	}
	events = append(events, transitionEvents...)

	events = append(events, re.evaluateXAzimuth(samples, assignments)...)
	events = append(events, re.finalizeKaCandidates(candidates)...)
	events = append(events, evaluateManualOutages(leg)...)
	events = append(events, aarAnnotations(aar)...)

	SortEvents(events)
	return events, nil
}

// evaluateXTransitions projects each scheduled transition onto the
// route, classifies it against AAR windows and Ku overrides, and builds
// the chronological X satellite assignment table used by the azimuth
// checks.
func (re *RuleEngine) evaluateXTransitions(ctx context.Context, leg *model.MissionLeg,
	window model.MissionWindow, aar []ResolvedAARWindow) ([]MissionEvent, []xAssignment, error) {

	cfg := &leg.Transports

	assignments := []xAssignment{{SatelliteID: cfg.InitialXSatelliteID, From: window.Start}}
	var events []MissionEvent

	if cfg.InitialXSatelliteID == "" {
		// No seed assignment: X has no satellite until the first
		// scheduled transition brings one up. The interval generator
		// reads this as the first interval's state.
		ev := MissionEvent{
			Timestamp: window.Start,
			Type:      EventXTransition,
			Severity:  SeverityWarning,
			Transport: TransportX,
			State:     StateOffline,
			Reason:    "no initial X satellite assigned",
		}
		if len(cfg.XTransitions) > 0 {
			first := cfg.XTransitions[0]
			if proj, err := re.Projector.Project(first.Latitude, first.Longitude); err == nil {
				t := proj.Timestamp
				ev.End = &t
			}
		}
		events = append(events, ev)
	}

	for _, tr := range cfg.XTransitions {
		proj, err := re.Projector.Project(tr.Latitude, tr.Longitude)
		if err != nil {
			return nil, nil, fmt.Errorf("x transition to %q: %w", tr.TargetSatelliteID, err)
		}
		ts := proj.Timestamp
		end := ts.Add(re.TransitionDuration)

		ev := MissionEvent{
			Timestamp:   ts,
			End:         &end,
			Type:        EventXTransition,
			Severity:    SeverityWarning,
			Transport:   TransportX,
			SatelliteID: tr.TargetSatelliteID,
			State:       StateDegraded,
			Reason:      fmt.Sprintf("X transition to %s", tr.TargetSatelliteID),
		}

		if w := aarWindowAt(aar, ts); w != nil {
			// Simultaneous band changes are expected inside an AAR
			// window, so the transition is tolerated: it neither
			// degrades X nor gets conflict-tagged.
			ev.IsAARMode = true
			ev.State = StateAvailable
			ev.Reason = fmt.Sprintf("X transition to %s during AAR window %s", tr.TargetSatelliteID, w.Name)
		} else if ov := kuOverrideAt(cfg.KuOverrides, ts); ov != nil {
			ev.IsAdvisoryOnly = true
			ev.Reason = fmt.Sprintf("%s: X transition to %s during Ku override", XKuConflictPrefix, tr.TargetSatelliteID)
		}

		events = append(events, ev)
		assignments = append(assignments, xAssignment{SatelliteID: tr.TargetSatelliteID, From: ts})

		re.Log.Debug(ctx, "scheduled X transition projected",
			logging.String("satellite", tr.TargetSatelliteID),
			logging.Any("at", ts),
			logging.Any("aar_mode", ev.IsAARMode))
	}

	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].From.Before(assignments[j].From)
	})
	return events, assignments, nil
}

// evaluateXAzimuth walks the route samples, computes look angles to the
// assigned X satellite at each sample, and merges consecutive
// out-of-window (or below-horizon) samples into violation spans.
// Satellites with no position or window data never produce violations.
func (re *RuleEngine) evaluateXAzimuth(samples []RouteSample, assignments []xAssignment) []MissionEvent {
	minElev := re.MinElevationDeg
	if minElev == 0 {
		minElev = DefaultMinElevationDeg
	}

	var events []MissionEvent
	var spanStart *time.Time
	var spanReason string
	var spanSat string

	closeSpan := func(end time.Time) {
		if spanStart == nil {
			return
		}
		e := end
		events = append(events, MissionEvent{
			Timestamp:   *spanStart,
			End:         &e,
			Type:        EventXAzimuthViolation,
			Severity:    SeverityCritical,
			Transport:   TransportX,
			SatelliteID: spanSat,
			State:       StateOffline,
			Reason:      spanReason,
		})
		spanStart = nil
	}

	for _, s := range samples {
		satID := assignedXSatAt(assignments, s.Timestamp)
		violation, reason := re.xViolationAt(s, satID, minElev)

		if !violation {
			closeSpan(s.Timestamp)
			continue
		}
		if spanStart == nil {
			t := s.Timestamp
			spanStart = &t
			spanReason = reason
			spanSat = satID
		}
	}
	if len(samples) > 0 {
		closeSpan(samples[len(samples)-1].Timestamp)
	}
	return events
}

func (re *RuleEngine) xViolationAt(s RouteSample, satID string, minElev float64) (bool, string) {
	if satID == "" {
		return false, ""
	}
	pos, ok := re.Catalog.PositionAt(satID, s.Timestamp)
	if !ok {
		return false, ""
	}

	angles := LookAnglesTo(s.Latitude, s.Longitude, s.AltitudeM, pos)
	if angles.ElevationDeg < minElev {
		return true, fmt.Sprintf("X look angle to %s below %.0f° elevation", satID, minElev)
	}

	serviceable, known := re.Catalog.XAzimuthServiceable(satID, angles.AzimuthDeg)
	if known && !serviceable {
		return true, fmt.Sprintf("X azimuth %.0f° outside serviceable window for %s", angles.AzimuthDeg, satID)
	}
	return false, ""
}

// finalizeKaCandidates assigns final severity and state to the
// sampler's raw observations.
func (re *RuleEngine) finalizeKaCandidates(candidates []CoverageCandidate) []MissionEvent {
	swapDur := re.SwapDuration
	if swapDur <= 0 {
		swapDur = DefaultSwapDuration
	}

	var events []MissionEvent
	for _, c := range candidates {
		switch c.Kind {
		case CandidateKaGap:
			end := c.End
			events = append(events, MissionEvent{
				Timestamp:   c.Start,
				End:         &end,
				Type:        EventKaGap,
				Severity:    SeverityCritical,
				Transport:   TransportKa,
				SatelliteID: c.FromSatelliteID,
				State:       StateOffline,
				Reason:      "Ka coverage gap (no satellite footprint)",
			})
		case CandidateKaSwap:
			end := c.Start.Add(swapDur)
			events = append(events, MissionEvent{
				Timestamp:   c.Start,
				End:         &end,
				Type:        EventKaSwap,
				Severity:    SeverityWarning,
				Transport:   TransportKa,
				SatelliteID: c.ToSatelliteID,
				State:       StateDegraded,
				Reason:      fmt.Sprintf("Ka swap %s to %s", c.FromSatelliteID, c.ToSatelliteID),
			})
		}
	}
	return events
}

// evaluateManualOutages turns operator-declared Ka outages and Ku
// overrides into authoritative override events. Declared spans win over
// computed coverage for their duration.
func evaluateManualOutages(leg *model.MissionLeg) []MissionEvent {
	cfg := &leg.Transports
	var events []MissionEvent

	for _, o := range cfg.KaOutages {
		if !o.End.After(o.Start) {
			continue
		}
		end := o.End
		reason := o.Reason
		if reason == "" {
			reason = "Ka outage"
		}
		events = append(events, MissionEvent{
			Timestamp: o.Start,
			End:       &end,
			Type:      EventKaOutage,
			Severity:  SeverityWarning,
			Transport: TransportKa,
			State:     StateOffline,
			Reason:    reason,
			Override:  true,
		})
	}

	for _, o := range cfg.KuOverrides {
		if !o.End.After(o.Start) {
			continue
		}
		end := o.End
		reason := o.Reason
		if reason == "" {
			reason = "Ku override"
		}
		ev := MissionEvent{
			Timestamp: o.Start,
			End:       &end,
			Type:      EventKuOverride,
			Severity:  SeverityWarning,
			Transport: TransportKu,
			State:     StateDegraded,
			Reason:    reason,
			Override:  true,
		}
		if !o.Blocking {
			// Advisory scheduling note: Ku itself stays available,
			// the record exists so X transitions inside the span
			// can be conflict-tagged.
			ev.State = StateAvailable
			ev.IsAdvisoryOnly = true
			ev.Override = false
		}
		events = append(events, ev)
	}

	return events
}

// aarAnnotations emits entry/exit annotations for each resolved window.
// These carry no state change; interval folding skips them.
func aarAnnotations(windows []ResolvedAARWindow) []MissionEvent {
	var events []MissionEvent
	for _, w := range windows {
		end := w.End
		events = append(events, MissionEvent{
			Timestamp: w.Start,
			End:       &end,
			Type:      EventAARWindow,
			Severity:  SeveritySafety,
			Transport: TransportX,
			State:     StateAvailable,
			Reason:    fmt.Sprintf("AAR window %s entry", w.Name),
		})
		events = append(events, MissionEvent{
			Timestamp: w.End,
			Type:      EventAARWindow,
			Severity:  SeveritySafety,
			Transport: TransportX,
			State:     StateAvailable,
			Reason:    fmt.Sprintf("AAR window %s exit", w.Name),
		})
	}
	return events
}

// assignedXSatAt returns the X satellite assigned at t given the
// chronological assignment table.
func assignedXSatAt(assignments []xAssignment, t time.Time) string {
	id := ""
	for _, a := range assignments {
		if a.From.After(t) {
			break
		}
		id = a.SatelliteID
	}
	return id
}

// kuOverrideAt returns the first override whose span contains t, or nil.
func kuOverrideAt(overrides []model.KuOverride, t time.Time) *model.KuOverride {
	for i := range overrides {
		o := &overrides[i]
		if !t.Before(o.Start) && t.Before(o.End) {
			return o
		}
	}
	return nil
}
