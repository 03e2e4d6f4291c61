package core

import (
	"time"

	"github.com/signalsfoundry/mission-timeline/model"
)

// DefaultSampleInterval is the fixed cadence at which the projected
// route is sampled for coverage classification.
const DefaultSampleInterval = 60 * time.Second

// RouteSample is one classified point along the projected route.
type RouteSample struct {
	Timestamp time.Time
	Latitude  float64
	Longitude float64
	AltitudeM float64

	// CoveringKaIDs are the active Ka satellites whose footprint
	// contains this sample, in declared order.
	CoveringKaIDs []string

	// PreferredKaID is the first covering satellite in declared
	// order; empty during a gap.
	PreferredKaID string

	// KaCovered reports whether any active Ka satellite covers this
	// sample. Satellites without coverage data count as covering
	// (the documented degrade-to-available policy).
	KaCovered bool
}

// CandidateKind distinguishes what the sampler noticed. The sampler
// only surfaces candidates; the rule engine decides final severity.
type CandidateKind int

const (
	CandidateKaGap CandidateKind = iota
	CandidateKaSwap
)

// CoverageCandidate is a raw coverage observation handed to the rule
// engine.
type CoverageCandidate struct {
	Kind  CandidateKind
	Start time.Time
	End   time.Time // exclusive; for swaps, equal to Start

	FromSatelliteID string
	ToSatelliteID   string
}

// CoverageSampler walks the projected route at a fixed cadence and
// classifies each sample's Ka coverage state.
type CoverageSampler struct {
	Catalog   *SatelliteCatalog
	Projector *RouteProjector
	Interval  time.Duration
}

// NewCoverageSampler constructs a sampler with the default cadence.
func NewCoverageSampler(cat *SatelliteCatalog, proj *RouteProjector) *CoverageSampler {
	return &CoverageSampler{Catalog: cat, Projector: proj, Interval: DefaultSampleInterval}
}

// Sample walks the mission window at the configured cadence and
// classifies every sample against the active Ka satellite set. The
// final instant of the window is always sampled so trailing transitions
// are not lost to cadence rounding.
func (s *CoverageSampler) Sample(window model.MissionWindow, kaIDs []string) []RouteSample {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultSampleInterval
	}

	var samples []RouteSample
	start := s.Projector.Start()
	for ts := window.Start; ts.Before(window.End); ts = ts.Add(interval) {
		samples = append(samples, s.classify(ts.Sub(start), ts, kaIDs))
	}
	samples = append(samples, s.classify(window.End.Sub(start), window.End, kaIDs))
	return samples
}

func (s *CoverageSampler) classify(elapsed time.Duration, ts time.Time, kaIDs []string) RouteSample {
	pos := s.Projector.PositionAt(elapsed)

	sample := RouteSample{
		Timestamp: ts,
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		AltitudeM: pos.AltitudeM,
	}

	if len(kaIDs) == 0 {
		// No Ka plan for this leg: nothing to classify, and no gap
		// events should ever be derived.
		sample.KaCovered = true
		return sample
	}

	for _, id := range kaIDs {
		covered, known := s.Catalog.KaCovers(id, pos.Latitude, pos.Longitude)
		if !known {
			// No coverage data for this satellite: assume it
			// covers everywhere rather than failing the leg.
			sample.KaCovered = true
			if sample.PreferredKaID == "" {
				sample.PreferredKaID = id
			}
			sample.CoveringKaIDs = append(sample.CoveringKaIDs, id)
			continue
		}
		if covered {
			sample.KaCovered = true
			if sample.PreferredKaID == "" {
				sample.PreferredKaID = id
			}
			sample.CoveringKaIDs = append(sample.CoveringKaIDs, id)
		}
	}

	return sample
}

// DetectKaCandidates scans consecutive samples for coverage gaps and
// swap candidates. A covered->uncovered transition with no alternate
// satellite opens a gap; the gap closes at the first covered sample
// again (or the last sample's time when coverage never returns). A
// change of preferred satellite while still covered is a swap
// candidate.
func DetectKaCandidates(samples []RouteSample) []CoverageCandidate {
	var out []CoverageCandidate
	if len(samples) == 0 {
		return out
	}

	var gapStart *time.Time
	prevPreferred := samples[0].PreferredKaID

	for i, s := range samples {
		if !s.KaCovered {
			if gapStart == nil {
				t := s.Timestamp
				gapStart = &t
			}
			continue
		}

		if gapStart != nil {
			out = append(out, CoverageCandidate{
				Kind:            CandidateKaGap,
				Start:           *gapStart,
				End:             s.Timestamp,
				FromSatelliteID: prevPreferred,
				ToSatelliteID:   s.PreferredKaID,
			})
			gapStart = nil
		} else if i > 0 && prevPreferred != "" && s.PreferredKaID != "" && s.PreferredKaID != prevPreferred {
			out = append(out, CoverageCandidate{
				Kind:            CandidateKaSwap,
				Start:           s.Timestamp,
				End:             s.Timestamp,
				FromSatelliteID: prevPreferred,
				ToSatelliteID:   s.PreferredKaID,
			})
		}

		prevPreferred = s.PreferredKaID
	}

	if gapStart != nil {
		last := samples[len(samples)-1].Timestamp
		out = append(out, CoverageCandidate{
			Kind:            CandidateKaGap,
			Start:           *gapStart,
			End:             last,
			FromSatelliteID: prevPreferred,
		})
	}

	return out
}
