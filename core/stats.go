package core

import (
	"strings"
	"time"

	"github.com/signalsfoundry/mission-timeline/model"
)

// AARBlock is the exporter-facing marker for one resolved AAR window,
// stored under the private "_aar_blocks" statistics key so slide and
// sheet renderers can shade refueling intervals.
type AARBlock struct {
	Name  string
	Start time.Time
	End   time.Time
}

// AttachStatistics computes duration totals from the final segment list
// and merges them into a statistics map. Any private ("_"-prefixed)
// keys already present in prior are preserved across recomputation;
// everything else is rebuilt from scratch. The resolved AAR windows are
// written under "_aar_blocks".
func AttachStatistics(segments []TimelineSegment, prior map[string]any,
	aar []ResolvedAARWindow) map[string]any {

	stats := make(map[string]any)
	for k, v := range prior {
		if strings.HasPrefix(k, "_") {
			stats[k] = v
		}
	}

	var total, nominal, degraded, critical float64
	for _, seg := range segments {
		d := seg.EndTime.Sub(seg.StartTime).Seconds()
		total += d
		switch seg.Status {
		case StatusNominal:
			nominal += d
		case StatusDegraded:
			degraded += d
		case StatusCritical:
			critical += d
		}
	}

	stats["total_seconds"] = total
	stats["nominal_seconds"] = nominal
	stats["degraded_seconds"] = degraded
	stats["critical_seconds"] = critical
	stats["segment_count"] = len(segments)

	if len(aar) > 0 {
		blocks := make([]AARBlock, 0, len(aar))
		for _, w := range aar {
			blocks = append(blocks, AARBlock{Name: w.Name, Start: w.Start, End: w.End})
		}
		stats["_aar_blocks"] = blocks
	}

	return stats
}

// TimelineSummary is the derived, read-only aggregate over a built
// timeline. Consumed by the REST layer and by metric updaters through
// plain accessors.
type TimelineSummary struct {
	TotalSeconds    float64
	NominalSeconds  float64
	DegradedSeconds float64
	CriticalSeconds float64

	// NextConflictSeconds is the offset from mission start to the
	// first non-NOMINAL segment, or -1 when the whole timeline is
	// nominal.
	NextConflictSeconds float64

	// WorstStates is the most severe state observed per transport.
	WorstStates map[Transport]TransportState

	SampleCount           int
	SampleIntervalSeconds float64
	GenerationMs          float64
}

// SummarizeTimeline independently re-derives the summary from the
// segment list, using the AVAILABLE < DEGRADED < OFFLINE severity
// order for worst-state tracking.
func SummarizeTimeline(segments []TimelineSegment, window model.MissionWindow,
	sampleCount int, sampleInterval time.Duration, generation time.Duration) TimelineSummary {

	summary := TimelineSummary{
		NextConflictSeconds: -1,
		WorstStates: map[Transport]TransportState{
			TransportX:  StateAvailable,
			TransportKa: StateAvailable,
			TransportKu: StateAvailable,
		},
		SampleCount:           sampleCount,
		SampleIntervalSeconds: sampleInterval.Seconds(),
		GenerationMs:          float64(generation.Microseconds()) / 1000.0,
	}

	for _, seg := range segments {
		d := seg.EndTime.Sub(seg.StartTime).Seconds()
		summary.TotalSeconds += d

		switch seg.Status {
		case StatusNominal:
			summary.NominalSeconds += d
		case StatusDegraded:
			summary.DegradedSeconds += d
		case StatusCritical:
			summary.CriticalSeconds += d
		}

		if seg.Status != StatusNominal && summary.NextConflictSeconds < 0 {
			summary.NextConflictSeconds = seg.StartTime.Sub(window.Start).Seconds()
		}

		for _, transport := range Transports {
			summary.WorstStates[transport] = WorseOf(summary.WorstStates[transport], seg.StateOf(transport))
		}
	}

	return summary
}
