package core

import (
	"sort"
	"time"

	"github.com/signalsfoundry/mission-timeline/model"
)

// SegmentStatus is the combined three-transport status of one segment.
type SegmentStatus string

const (
	StatusNominal  SegmentStatus = "NOMINAL"
	StatusDegraded SegmentStatus = "DEGRADED"
	StatusCritical SegmentStatus = "CRITICAL"
)

// TimelineSegment is a maximal time slice over which the combined
// three-transport state is constant. Consecutive segments are
// contiguous; the first starts at mission start and the last ends at
// mission end.
type TimelineSegment struct {
	StartTime time.Time
	EndTime   time.Time

	XState  TransportState
	KaState TransportState
	KuState TransportState

	Status SegmentStatus

	// ImpactedTransports lists the transports not AVAILABLE during
	// this slice, in declaration order (X, Ka, Ku).
	ImpactedTransports []Transport

	// Reasons is the order-preserving, de-duplicated union of all
	// contributing interval reasons.
	Reasons []ReasonRecord
}

// StateOf returns the segment's state for the given transport.
func (s *TimelineSegment) StateOf(t Transport) TransportState {
	switch t {
	case TransportX:
		return s.XState
	case TransportKa:
		return s.KaState
	case TransportKu:
		return s.KuState
	default:
		return StateAvailable
	}
}

// AdvisoryOnly reports the X-Ku-conflict-only condition: the segment's
// only impacted transport is X, X is DEGRADED, and every reason is an
// advisory conflict record. Exporters treat such segments as warnings
// rather than hard failures.
func (s *TimelineSegment) AdvisoryOnly() bool {
	if len(s.ImpactedTransports) != 1 || s.ImpactedTransports[0] != TransportX {
		return false
	}
	if s.XState != StateDegraded {
		return false
	}
	if len(s.Reasons) == 0 {
		return false
	}
	for _, r := range s.Reasons {
		if !r.AdvisoryOnly {
			return false
		}
	}
	return true
}

// BuildSegments merges the three per-transport interval sequences into
// one combined segment sequence. Boundaries are the union of all
// interval edges; ties sort stably with the earlier-declared transport
// first, keeping output deterministic. Zero-duration slices are
// dropped, and the first/last segments are force-clamped to the mission
// window.
func BuildSegments(intervals map[Transport][]TransportInterval,
	window model.MissionWindow) []TimelineSegment {

	type boundary struct {
		t         time.Time
		transport Transport
	}

	var bounds []boundary
	bounds = append(bounds,
		boundary{t: window.Start, transport: TransportX},
		boundary{t: window.End, transport: TransportX})
	for _, transport := range Transports {
		for _, iv := range intervals[transport] {
			bounds = append(bounds, boundary{t: iv.Start, transport: transport})
			bounds = append(bounds, boundary{t: iv.EndOr(window.End), transport: transport})
		}
	}

	sort.SliceStable(bounds, func(i, j int) bool {
		if !bounds[i].t.Equal(bounds[j].t) {
			return bounds[i].t.Before(bounds[j].t)
		}
		return bounds[i].transport < bounds[j].transport
	})

	// Collapse to unique, window-clamped timestamps.
	var cuts []time.Time
	for _, b := range bounds {
		t := b.t
		if t.Before(window.Start) {
			t = window.Start
		}
		if t.After(window.End) {
			t = window.End
		}
		if n := len(cuts); n > 0 && cuts[n-1].Equal(t) {
			continue
		}
		cuts = append(cuts, t)
	}

	var segments []TimelineSegment
	for i := 0; i+1 < len(cuts); i++ {
		start, end := cuts[i], cuts[i+1]
		if !end.After(start) {
			continue
		}

		seg := TimelineSegment{StartTime: start, EndTime: end}
		var reasons []ReasonRecord

		for _, transport := range Transports {
			state := StateAvailable
			if iv := activeInterval(intervals[transport], start, window.End); iv != nil {
				state = iv.State
				reasons = append(reasons, iv.Reasons...)
			}
			switch transport {
			case TransportX:
				seg.XState = state
			case TransportKa:
				seg.KaState = state
			case TransportKu:
				seg.KuState = state
			}
			if state != StateAvailable {
				seg.ImpactedTransports = append(seg.ImpactedTransports, transport)
			}
		}

		seg.Reasons = dedupeReasons(reasons)
		seg.Status = aggregateStatus(seg.XState, seg.KaState, seg.KuState)
		segments = append(segments, seg)
	}

	// Force-clamp the outer edges even if no boundary landed exactly
	// on the window.
	if n := len(segments); n > 0 {
		segments[0].StartTime = window.Start
		segments[n-1].EndTime = window.End
	}
	return segments
}

// activeInterval returns the interval covering instant t
// (iv.Start <= t < iv.End), or nil.
func activeInterval(intervals []TransportInterval, t time.Time, missionEnd time.Time) *TransportInterval {
	for i := range intervals {
		iv := &intervals[i]
		if !t.Before(iv.Start) && t.Before(iv.EndOr(missionEnd)) {
			return iv
		}
	}
	return nil
}

// aggregateStatus applies the combined-status rules: NOMINAL iff every
// transport is available; CRITICAL when two or more transports are
// simultaneously non-available or any single transport is offline;
// DEGRADED otherwise.
func aggregateStatus(x, ka, ku TransportState) SegmentStatus {
	states := [3]TransportState{x, ka, ku}

	nonAvailable := 0
	offline := false
	for _, s := range states {
		if s != StateAvailable {
			nonAvailable++
		}
		if s == StateOffline {
			offline = true
		}
	}

	switch {
	case nonAvailable == 0:
		return StatusNominal
	case nonAvailable >= 2 || offline:
		return StatusCritical
	default:
		return StatusDegraded
	}
}
