package core

import (
	"sort"
	"time"
)

// Transport identifies one of the three communication bands carried by
// the aircraft. The declaration order (X, Ka, Ku) is also the stable
// tie-break order used whenever same-timestamp records must be sorted.
type Transport int

const (
	TransportX Transport = iota
	TransportKa
	TransportKu
)

// Transports lists all bands in declaration order.
var Transports = [3]Transport{TransportX, TransportKa, TransportKu}

func (t Transport) String() string {
	switch t {
	case TransportX:
		return "X"
	case TransportKa:
		return "KA"
	case TransportKu:
		return "KU"
	default:
		return "UNKNOWN"
	}
}

// TransportState is the availability of a single band, totally ordered
// by severity: AVAILABLE < DEGRADED < OFFLINE.
type TransportState int

const (
	StateAvailable TransportState = iota
	StateDegraded
	StateOffline
)

func (s TransportState) String() string {
	switch s {
	case StateAvailable:
		return "AVAILABLE"
	case StateDegraded:
		return "DEGRADED"
	case StateOffline:
		return "OFFLINE"
	default:
		return "UNKNOWN"
	}
}

// WorseOf returns the more severe of two states.
func WorseOf(a, b TransportState) TransportState {
	if a > b {
		return a
	}
	return b
}

// EventType is the closed set of discrete state-change causes the rule
// engine can emit. Adding a kind here must be accompanied by handling
// in the interval generator's switch, which is written exhaustively.
type EventType int

const (
	EventXTransition EventType = iota
	EventKaSwap
	EventKaGap
	EventXAzimuthViolation
	EventKaOutage
	EventKuOverride
	EventAARWindow
)

func (e EventType) String() string {
	switch e {
	case EventXTransition:
		return "X_TRANSITION"
	case EventKaSwap:
		return "KA_SWAP"
	case EventKaGap:
		return "KA_GAP"
	case EventXAzimuthViolation:
		return "X_AZIMUTH_VIOLATION"
	case EventKaOutage:
		return "KA_OUTAGE"
	case EventKuOverride:
		return "KU_OVERRIDE"
	case EventAARWindow:
		return "AAR_WINDOW"
	default:
		return "UNKNOWN"
	}
}

// sortPriority breaks ordering ties between events sharing a timestamp:
// transitions sort before swaps, swaps before gaps, gaps before
// violations, and all computed causes before operator-declared outages
// and overrides. AAR annotations sort last. Interval folding relies on
// this order being total.
func (e EventType) sortPriority() int {
	switch e {
	case EventXTransition:
		return 0
	case EventKaSwap:
		return 1
	case EventKaGap:
		return 2
	case EventXAzimuthViolation:
		return 3
	case EventKaOutage:
		return 4
	case EventKuOverride:
		return 5
	case EventAARWindow:
		return 6
	default:
		return 7
	}
}

// Severity classifies an event for alerting, independent of the
// transport state it produces.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
	SeveritySafety   Severity = "safety"
)

// MissionEvent is one discrete state-change record in the canonical
// chronological stream. Events are immutable once emitted.
//
// Timestamp is when the cause takes effect. End, when non-nil, is the
// exclusive instant the cause stops applying; a nil End means the cause
// holds to the end of the mission window. State is the transport state
// entered for the event's span; AAR annotations carry no state change
// and are skipped by interval folding.
type MissionEvent struct {
	Timestamp time.Time
	End       *time.Time
	Type      EventType
	Severity  Severity
	Transport Transport

	SatelliteID string
	Reason      string

	// State the transport enters at Timestamp (until End).
	State TransportState

	// IsAARMode marks an X transition that falls inside a resolved
	// AAR window: the simultaneous band change is expected there, so
	// the transition does not degrade X and is never conflict-tagged.
	IsAARMode bool

	// IsAdvisoryOnly marks a derived X-Ku conflict: a real record,
	// but not a safety-relevant failure. Carried through to segment
	// reason records so exporters never have to parse reason text.
	IsAdvisoryOnly bool

	// Override marks operator-declared causes that take precedence
	// over computed coverage state for their span.
	Override bool
}

// SortEvents orders events chronologically with the documented
// deterministic tie-break: timestamp, then event-type priority, then
// transport declaration order, then satellite id, then reason.
func SortEvents(events []MissionEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.Type.sortPriority() != b.Type.sortPriority() {
			return a.Type.sortPriority() < b.Type.sortPriority()
		}
		if a.Transport != b.Transport {
			return a.Transport < b.Transport
		}
		if a.SatelliteID != b.SatelliteID {
			return a.SatelliteID < b.SatelliteID
		}
		return a.Reason < b.Reason
	})
}
