package core

import (
	"sort"
	"time"

	"github.com/signalsfoundry/mission-timeline/model"
)

// ReasonRecord is one cause string attached to an interval or segment.
// AdvisoryOnly is carried from the emitting event so downstream
// consumers never have to parse reason text.
type ReasonRecord struct {
	Text         string
	AdvisoryOnly bool
}

// TransportInterval is one maximal stretch of constant state for a
// single transport. Start is inclusive; End is exclusive, and nil means
// the interval runs to the mission end. For a fixed transport the
// generated intervals are non-overlapping and their union covers the
// mission window exactly.
type TransportInterval struct {
	Transport Transport
	State     TransportState
	Start     time.Time
	End       *time.Time
	Reasons   []ReasonRecord
}

// EndOr returns the interval end, substituting missionEnd for an
// open-ended interval.
func (iv *TransportInterval) EndOr(missionEnd time.Time) time.Time {
	if iv.End == nil {
		return missionEnd
	}
	return *iv.End
}

// stateSpan is the internal folding unit: one clamped cause span.
type stateSpan struct {
	start    time.Time
	end      time.Time // exclusive
	state    TransportState
	reason   ReasonRecord
	override bool
}

// GenerateTransportIntervals folds the chronological event stream into
// contiguous intervals for one transport across [window.Start,
// window.End). Overlapping cause spans resolve to the most severe
// active state, except that operator-declared override spans are
// authoritative for their duration. Stretches with no applicable cause
// default to AVAILABLE. Spans reaching outside the window are clamped;
// their reasons are preserved, their true extents are not leaked.
func GenerateTransportIntervals(events []MissionEvent, transport Transport,
	window model.MissionWindow) []TransportInterval {

	spans := collectSpans(events, transport, window)

	// Boundary set: window edges plus every span edge.
	boundarySet := map[time.Time]struct{}{
		window.Start: {},
		window.End:   {},
	}
	for _, sp := range spans {
		boundarySet[sp.start] = struct{}{}
		boundarySet[sp.end] = struct{}{}
	}
	boundaries := make([]time.Time, 0, len(boundarySet))
	for t := range boundarySet {
		boundaries = append(boundaries, t)
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })

	var intervals []TransportInterval
	for i := 0; i+1 < len(boundaries); i++ {
		start, end := boundaries[i], boundaries[i+1]
		if !end.After(start) {
			continue
		}

		state, reasons := resolveSlice(spans, start)
		intervals = append(intervals, TransportInterval{
			Transport: transport,
			State:     state,
			Start:     start,
			End:       &end,
			Reasons:   reasons,
		})
	}

	intervals = coalesceIntervals(intervals)

	// The last interval is open-ended by convention: it runs to the
	// mission end whatever that is.
	if n := len(intervals); n > 0 {
		intervals[n-1].End = nil
	}
	return intervals
}

// collectSpans extracts this transport's cause spans from the event
// stream, clamped to the mission window. AAR annotations and
// no-state-change records (AAR-mode transitions, advisory Ku notes)
// contribute nothing to state folding.
func collectSpans(events []MissionEvent, transport Transport, window model.MissionWindow) []stateSpan {
	var spans []stateSpan
	for _, ev := range events {
		if ev.Transport != transport {
			continue
		}

		switch ev.Type {
		case EventAARWindow:
			continue
		case EventXTransition, EventKaSwap, EventKaGap, EventXAzimuthViolation,
			EventKaOutage, EventKuOverride:
			// state-bearing kinds fall through
		}

		if ev.State == StateAvailable {
			continue
		}

		start := ev.Timestamp
		end := window.End
		if ev.End != nil {
			end = *ev.End
		}

		// Clamp to the mission window.
		if start.Before(window.Start) {
			start = window.Start
		}
		if end.After(window.End) {
			end = window.End
		}
		if !end.After(start) {
			continue
		}

		spans = append(spans, stateSpan{
			start:    start,
			end:      end,
			state:    ev.State,
			reason:   ReasonRecord{Text: ev.Reason, AdvisoryOnly: ev.IsAdvisoryOnly},
			override: ev.Override,
		})
	}
	return spans
}

// resolveSlice computes the state and reasons at instant t. Override
// spans take precedence over computed spans; among the winning class
// the most severe state applies. Reasons come from every active
// non-available span (overrides listed first), de-duplicated by text.
func resolveSlice(spans []stateSpan, t time.Time) (TransportState, []ReasonRecord) {
	state := StateAvailable
	overrideActive := false
	overrideState := StateAvailable

	var overrideReasons, computedReasons []ReasonRecord
	for _, sp := range spans {
		if t.Before(sp.start) || !t.Before(sp.end) {
			continue
		}
		if sp.override {
			overrideActive = true
			overrideState = WorseOf(overrideState, sp.state)
			overrideReasons = append(overrideReasons, sp.reason)
		} else {
			state = WorseOf(state, sp.state)
			computedReasons = append(computedReasons, sp.reason)
		}
	}

	if overrideActive {
		state = overrideState
	}

	reasons := dedupeReasons(append(overrideReasons, computedReasons...))
	if state == StateAvailable {
		return StateAvailable, nil
	}
	return state, reasons
}

// coalesceIntervals merges adjacent intervals with identical state and
// reasons.
func coalesceIntervals(intervals []TransportInterval) []TransportInterval {
	var out []TransportInterval
	for _, iv := range intervals {
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if prev.State == iv.State && sameReasons(prev.Reasons, iv.Reasons) {
				prev.End = iv.End
				continue
			}
		}
		out = append(out, iv)
	}
	return out
}

func sameReasons(a, b []ReasonRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// dedupeReasons keeps the first occurrence of each reason text.
func dedupeReasons(reasons []ReasonRecord) []ReasonRecord {
	seen := make(map[string]struct{}, len(reasons))
	var out []ReasonRecord
	for _, r := range reasons {
		if _, ok := seen[r.Text]; ok {
			continue
		}
		seen[r.Text] = struct{}{}
		out = append(out, r)
	}
	return out
}
