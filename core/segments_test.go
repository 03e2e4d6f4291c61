package core

import (
	"testing"

	"github.com/signalsfoundry/mission-timeline/model"
)

// interval is a shorthand constructor for segment-merge tests.
func interval(tr Transport, state TransportState, startMin int, endMin int, reasons ...ReasonRecord) TransportInterval {
	iv := TransportInterval{
		Transport: tr,
		State:     state,
		Start:     tp(startMin),
		Reasons:   reasons,
	}
	if endMin >= 0 {
		iv.End = tpp(endMin)
	}
	return iv
}

func checkSegmentContiguity(t *testing.T, segments []TimelineSegment, window model.MissionWindow) {
	t.Helper()
	if len(segments) == 0 {
		t.Fatalf("no segments")
	}
	if !segments[0].StartTime.Equal(window.Start) {
		t.Errorf("first segment starts %v, want %v", segments[0].StartTime, window.Start)
	}
	if !segments[len(segments)-1].EndTime.Equal(window.End) {
		t.Errorf("last segment ends %v, want %v", segments[len(segments)-1].EndTime, window.End)
	}
	for i := 1; i < len(segments); i++ {
		if !segments[i].StartTime.Equal(segments[i-1].EndTime) {
			t.Errorf("segment %d starts %v, want previous end %v",
				i, segments[i].StartTime, segments[i-1].EndTime)
		}
	}
}

func TestSegments_AllAvailableIsOneNominal(t *testing.T) {
	window := testWindow()
	intervals := map[Transport][]TransportInterval{
		TransportX:  {interval(TransportX, StateAvailable, 0, -1)},
		TransportKa: {interval(TransportKa, StateAvailable, 0, -1)},
		TransportKu: {interval(TransportKu, StateAvailable, 0, -1)},
	}

	segments := BuildSegments(intervals, window)
	checkSegmentContiguity(t, segments, window)

	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].Status != StatusNominal {
		t.Errorf("status = %v, want NOMINAL", segments[0].Status)
	}
	if len(segments[0].ImpactedTransports) != 0 {
		t.Errorf("impacted = %v, want none", segments[0].ImpactedTransports)
	}
}

func TestSegments_SingleDegradedTransport(t *testing.T) {
	window := testWindow()
	reason := ReasonRecord{Text: "X transition to X-2"}
	intervals := map[Transport][]TransportInterval{
		TransportX: {
			interval(TransportX, StateAvailable, 0, 20),
			interval(TransportX, StateDegraded, 20, 30, reason),
			interval(TransportX, StateAvailable, 30, -1),
		},
		TransportKa: {interval(TransportKa, StateAvailable, 0, -1)},
		TransportKu: {interval(TransportKu, StateAvailable, 0, -1)},
	}

	segments := BuildSegments(intervals, window)
	checkSegmentContiguity(t, segments, window)

	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	mid := segments[1]
	if mid.Status != StatusDegraded {
		t.Errorf("middle status = %v, want DEGRADED", mid.Status)
	}
	if mid.XState != StateDegraded || mid.KaState != StateAvailable || mid.KuState != StateAvailable {
		t.Errorf("middle states = %v/%v/%v", mid.XState, mid.KaState, mid.KuState)
	}
	if len(mid.ImpactedTransports) != 1 || mid.ImpactedTransports[0] != TransportX {
		t.Errorf("impacted = %v, want [X]", mid.ImpactedTransports)
	}
	if len(mid.Reasons) != 1 || mid.Reasons[0].Text != reason.Text {
		t.Errorf("reasons = %v", mid.Reasons)
	}
}

func TestSegments_TwoImpairedTransportsIsCritical(t *testing.T) {
	window := testWindow()
	intervals := map[Transport][]TransportInterval{
		TransportX: {
			interval(TransportX, StateAvailable, 0, 20),
			interval(TransportX, StateDegraded, 20, 40, ReasonRecord{Text: "X transition to X-2"}),
			interval(TransportX, StateAvailable, 40, -1),
		},
		TransportKa: {
			interval(TransportKa, StateAvailable, 0, 30),
			interval(TransportKa, StateDegraded, 30, 50, ReasonRecord{Text: "Ka swap KA-1 to KA-2"}),
			interval(TransportKa, StateAvailable, 50, -1),
		},
		TransportKu: {interval(TransportKu, StateAvailable, 0, -1)},
	}

	segments := BuildSegments(intervals, window)
	checkSegmentContiguity(t, segments, window)

	// Cuts at 0, 20, 30, 40, 50, 60.
	wantStatus := []SegmentStatus{StatusNominal, StatusDegraded, StatusCritical, StatusDegraded, StatusNominal}
	if len(segments) != len(wantStatus) {
		t.Fatalf("got %d segments, want %d", len(segments), len(wantStatus))
	}
	for i, want := range wantStatus {
		if segments[i].Status != want {
			t.Errorf("segment %d status = %v, want %v", i, segments[i].Status, want)
		}
	}

	overlap := segments[2]
	if len(overlap.ImpactedTransports) != 2 {
		t.Errorf("overlap impacted = %v, want X and Ka", overlap.ImpactedTransports)
	}
	if len(overlap.Reasons) != 2 {
		t.Errorf("overlap reasons = %v, want both causes", overlap.Reasons)
	}
}

func TestSegments_MixedDegradationAndOutage(t *testing.T) {
	window := testWindow()
	// X degraded 20-40m, Ka offline 30-60m, Ku untouched.
	intervals := map[Transport][]TransportInterval{
		TransportX: {
			interval(TransportX, StateAvailable, 0, 20),
			interval(TransportX, StateDegraded, 20, 40, ReasonRecord{Text: "X transition to X-2"}),
			interval(TransportX, StateAvailable, 40, -1),
		},
		TransportKa: {
			interval(TransportKa, StateAvailable, 0, 30),
			interval(TransportKa, StateOffline, 30, -1, ReasonRecord{Text: "Ka outage"}),
		},
		TransportKu: {interval(TransportKu, StateAvailable, 0, -1)},
	}

	segments := BuildSegments(intervals, window)
	checkSegmentContiguity(t, segments, window)

	// The trailing Ka-only stretch still has an offline transport, so
	// it stays CRITICAL rather than easing to DEGRADED.
	wantStatus := []SegmentStatus{StatusNominal, StatusDegraded, StatusCritical, StatusCritical}
	if len(segments) != len(wantStatus) {
		t.Fatalf("got %d segments, want %d", len(segments), len(wantStatus))
	}
	for i, want := range wantStatus {
		if segments[i].Status != want {
			t.Errorf("segment %d status = %v, want %v", i, segments[i].Status, want)
		}
	}

	overlap := segments[2]
	if len(overlap.ImpactedTransports) != 2 ||
		overlap.ImpactedTransports[0] != TransportX || overlap.ImpactedTransports[1] != TransportKa {
		t.Errorf("overlap impacted = %v, want [X KA]", overlap.ImpactedTransports)
	}
	var sawOutage bool
	for _, r := range overlap.Reasons {
		if r.Text == "Ka outage" {
			sawOutage = true
		}
	}
	if !sawOutage {
		t.Errorf("overlap reasons = %v, want to include the Ka outage", overlap.Reasons)
	}
}

func TestSegments_SingleOfflineTransportIsCritical(t *testing.T) {
	window := testWindow()
	intervals := map[Transport][]TransportInterval{
		TransportX: {interval(TransportX, StateAvailable, 0, -1)},
		TransportKa: {
			interval(TransportKa, StateAvailable, 0, 25),
			interval(TransportKa, StateOffline, 25, 35, ReasonRecord{Text: "Ka coverage gap (no satellite footprint)"}),
			interval(TransportKa, StateAvailable, 35, -1),
		},
		TransportKu: {interval(TransportKu, StateAvailable, 0, -1)},
	}

	segments := BuildSegments(intervals, window)
	checkSegmentContiguity(t, segments, window)

	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	if segments[1].Status != StatusCritical {
		t.Errorf("offline segment status = %v, want CRITICAL", segments[1].Status)
	}
}

func TestSegments_AdvisoryOnly(t *testing.T) {
	advisory := TimelineSegment{
		XState:             StateDegraded,
		KaState:            StateAvailable,
		KuState:            StateAvailable,
		ImpactedTransports: []Transport{TransportX},
		Reasons:            []ReasonRecord{{Text: "X-Ku Conflict: X transition to X-2 during Ku override", AdvisoryOnly: true}},
	}
	if !advisory.AdvisoryOnly() {
		t.Errorf("conflict-only degraded X segment should be advisory")
	}

	mixed := advisory
	mixed.Reasons = append([]ReasonRecord{}, advisory.Reasons...)
	mixed.Reasons = append(mixed.Reasons, ReasonRecord{Text: "X transition to X-3"})
	if mixed.AdvisoryOnly() {
		t.Errorf("segment with a non-advisory reason must not be advisory")
	}

	offline := advisory
	offline.XState = StateOffline
	if offline.AdvisoryOnly() {
		t.Errorf("offline X segment must not be advisory")
	}

	twoImpacted := advisory
	twoImpacted.ImpactedTransports = []Transport{TransportX, TransportKu}
	if twoImpacted.AdvisoryOnly() {
		t.Errorf("multi-transport segment must not be advisory")
	}
}

func TestSegments_StateOf(t *testing.T) {
	seg := TimelineSegment{XState: StateOffline, KaState: StateDegraded, KuState: StateAvailable}
	if seg.StateOf(TransportX) != StateOffline {
		t.Errorf("StateOf(X) = %v", seg.StateOf(TransportX))
	}
	if seg.StateOf(TransportKa) != StateDegraded {
		t.Errorf("StateOf(Ka) = %v", seg.StateOf(TransportKa))
	}
	if seg.StateOf(TransportKu) != StateAvailable {
		t.Errorf("StateOf(Ku) = %v", seg.StateOf(TransportKu))
	}
}

func TestAggregateStatus(t *testing.T) {
	cases := []struct {
		x, ka, ku TransportState
		want      SegmentStatus
	}{
		{StateAvailable, StateAvailable, StateAvailable, StatusNominal},
		{StateDegraded, StateAvailable, StateAvailable, StatusDegraded},
		{StateAvailable, StateOffline, StateAvailable, StatusCritical},
		{StateDegraded, StateDegraded, StateAvailable, StatusCritical},
		{StateOffline, StateOffline, StateOffline, StatusCritical},
	}
	for _, tc := range cases {
		if got := aggregateStatus(tc.x, tc.ka, tc.ku); got != tc.want {
			t.Errorf("aggregateStatus(%v, %v, %v) = %v, want %v", tc.x, tc.ka, tc.ku, got, tc.want)
		}
	}
}
