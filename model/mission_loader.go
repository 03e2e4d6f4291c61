package model

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

type missionLegJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Window struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"window"`
	Transports transportConfigJSON `json:"transports"`
}

type transportConfigJSON struct {
	InitialXSatellite  string            `json:"initial_x_satellite"`
	InitialKaSatellite []string          `json:"initial_ka_satellites"`
	XTransitions       []xTransitionJSON `json:"x_transitions"`
	KaOutages          []outageJSON      `json:"ka_outages"`
	KuOverrides        []kuOverrideJSON  `json:"ku_overrides"`
	AARWindows         []aarWindowJSON   `json:"aar_windows"`
}

type xTransitionJSON struct {
	TargetSatellite string  `json:"target_satellite"`
	Latitude        float64 `json:"lat"`
	Longitude       float64 `json:"lon"`
}

type outageJSON struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Reason string `json:"reason"`
}

type kuOverrideJSON struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Reason   string `json:"reason"`
	Blocking *bool  `json:"blocking"` // optional; defaults to true
}

type aarWindowJSON struct {
	Name          string `json:"name"`
	StartWaypoint string `json:"start_waypoint"`
	EndWaypoint   string `json:"end_waypoint"`
}

// LoadMissionLeg reads a JSON mission leg from r. The route is attached
// separately by the caller; legs and routes are stored independently.
func LoadMissionLeg(r io.Reader) (*MissionLeg, error) {
	var payload missionLegJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadMissionLeg: decode failed: %w", err)
	}
	if payload.ID == "" {
		return nil, fmt.Errorf("LoadMissionLeg: leg with empty id")
	}

	leg := &MissionLeg{
		ID:   payload.ID,
		Name: payload.Name,
	}

	var err error
	if leg.Window.Start, err = parseOptionalTime(payload.Window.Start); err != nil {
		return nil, fmt.Errorf("LoadMissionLeg: bad window start: %w", err)
	}
	if leg.Window.End, err = parseOptionalTime(payload.Window.End); err != nil {
		return nil, fmt.Errorf("LoadMissionLeg: bad window end: %w", err)
	}

	tc := &leg.Transports
	tc.InitialXSatelliteID = payload.Transports.InitialXSatellite
	tc.InitialKaSatelliteIDs = append(tc.InitialKaSatelliteIDs, payload.Transports.InitialKaSatellite...)

	for i, js := range payload.Transports.XTransitions {
		if js.TargetSatellite == "" {
			return nil, fmt.Errorf("LoadMissionLeg: x_transitions[%d] missing target_satellite", i)
		}
		tc.XTransitions = append(tc.XTransitions, XTransition{
			TargetSatelliteID: js.TargetSatellite,
			Latitude:          js.Latitude,
			Longitude:         js.Longitude,
		})
	}

	for i, js := range payload.Transports.KaOutages {
		w, err := parseOutage(js)
		if err != nil {
			return nil, fmt.Errorf("LoadMissionLeg: ka_outages[%d]: %w", i, err)
		}
		tc.KaOutages = append(tc.KaOutages, w)
	}

	for i, js := range payload.Transports.KuOverrides {
		start, err := parseOptionalTime(js.Start)
		if err != nil {
			return nil, fmt.Errorf("LoadMissionLeg: ku_overrides[%d]: %w", i, err)
		}
		end, err := parseOptionalTime(js.End)
		if err != nil {
			return nil, fmt.Errorf("LoadMissionLeg: ku_overrides[%d]: %w", i, err)
		}
		blocking := true
		if js.Blocking != nil {
			blocking = *js.Blocking
		}
		tc.KuOverrides = append(tc.KuOverrides, KuOverride{
			Start:    start,
			End:      end,
			Reason:   js.Reason,
			Blocking: blocking,
		})
	}

	for _, js := range payload.Transports.AARWindows {
		tc.AARWindows = append(tc.AARWindows, AARWindowSpec{
			Name:          js.Name,
			StartWaypoint: js.StartWaypoint,
			EndWaypoint:   js.EndWaypoint,
		})
	}

	return leg, nil
}

func parseOutage(js outageJSON) (OutageWindow, error) {
	start, err := parseOptionalTime(js.Start)
	if err != nil {
		return OutageWindow{}, err
	}
	end, err := parseOptionalTime(js.End)
	if err != nil {
		return OutageWindow{}, err
	}
	return OutageWindow{Start: start, End: end, Reason: js.Reason}, nil
}

func parseOptionalTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
