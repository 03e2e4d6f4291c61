package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/signalsfoundry/mission-timeline/core"
	"github.com/signalsfoundry/mission-timeline/internal/config"
	"github.com/signalsfoundry/mission-timeline/internal/logging"
	"github.com/signalsfoundry/mission-timeline/internal/observability"
	"github.com/signalsfoundry/mission-timeline/model"
)

func main() {
	configPath := flag.String("config", "", "path to YAML service configuration (optional)")
	catalogPath := flag.String("catalog", "", "path to the satellite catalog JSON (overrides config)")
	routePath := flag.String("route", "", "path to the route JSON (required)")
	missionPath := flag.String("mission", "", "path to the mission leg JSON (required)")
	asJSON := flag.Bool("json", false, "emit the full timeline as JSON instead of a table")
	flag.Parse()

	if *routePath == "" || *missionPath == "" {
		fmt.Fprintln(os.Stderr, "usage: timeline-planner -route route.json -mission leg.json [-catalog catalog.json] [-config planner.yaml] [-json]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *catalogPath != "" {
		cfg.CatalogPath = *catalogPath
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx := context.Background()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init tracing: %v\n", err)
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(shutdown, 5*time.Second, log)

	collector, err := observability.NewTimelineCollector(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to register metrics: %v\n", err)
		os.Exit(1)
	}

	catalog := core.NewSatelliteCatalog()
	if f, err := os.Open(cfg.CatalogPath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: no satellite catalog loaded (%v); coverage defaults to available\n", err)
	} else {
		summary, err := core.LoadSatelliteCatalog(catalog, f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load catalog: %v\n", err)
			os.Exit(1)
		}
		log.Info(ctx, "catalog loaded", logging.Int("satellites", len(summary.SatelliteIDs)))
	}

	route, err := loadRoute(*routePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load route: %v\n", err)
		os.Exit(1)
	}

	leg, err := loadMissionLeg(*missionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load mission leg: %v\n", err)
		os.Exit(1)
	}
	leg.Route = route

	ctx, legLog := logging.WithLegLogger(ctx, log, leg.ID)

	tc := core.NewTimelineContext(catalog, legLog)
	tc.Observer = collector
	tc.SampleInterval = time.Duration(cfg.SampleIntervalSeconds) * time.Second
	tc.TransitionDuration = time.Duration(cfg.TransitionDurationMinutes) * time.Minute
	tc.SwapDuration = time.Duration(cfg.SwapDurationMinutes) * time.Minute
	tc.MinElevationDeg = cfg.MinElevationDeg

	timeline, err := core.BuildTimeline(ctx, tc, leg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "timeline build failed: %v\n", err)
		os.Exit(1)
	}
	collector.SetImpairmentTotals(leg.ID, timeline.Summary.DegradedSeconds, timeline.Summary.CriticalSeconds)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(timeline); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode timeline: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printTimeline(timeline)
}

func loadRoute(path string) (*model.Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return model.LoadRoute(f)
}

func loadMissionLeg(path string) (*model.MissionLeg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return model.LoadMissionLeg(f)
}

func printTimeline(t *core.Timeline) {
	fmt.Printf("Mission leg %s: %s -> %s\n", t.LegID,
		t.Window.Start.Format(time.RFC3339), t.Window.End.Format(time.RFC3339))
	fmt.Printf("%-25s %-25s %-9s %-10s %-10s %-10s %s\n",
		"START", "END", "STATUS", "X", "KA", "KU", "REASONS")

	for _, seg := range t.Segments {
		reasons := ""
		for i, r := range seg.Reasons {
			if i > 0 {
				reasons += "; "
			}
			reasons += r.Text
		}
		fmt.Printf("%-25s %-25s %-9s %-10s %-10s %-10s %s\n",
			seg.StartTime.Format(time.RFC3339),
			seg.EndTime.Format(time.RFC3339),
			seg.Status,
			seg.XState, seg.KaState, seg.KuState,
			reasons)
	}

	s := t.Summary
	fmt.Printf("\nTotals: %.0fs nominal, %.0fs degraded, %.0fs critical (of %.0fs)\n",
		s.NominalSeconds, s.DegradedSeconds, s.CriticalSeconds, s.TotalSeconds)
	if s.NextConflictSeconds >= 0 {
		fmt.Printf("Next conflict: %s after mission start\n",
			time.Duration(s.NextConflictSeconds)*time.Second)
	} else {
		fmt.Println("Next conflict: none")
	}
	for _, transport := range core.Transports {
		fmt.Printf("Worst %s state: %s\n", transport, s.WorstStates[transport])
	}
}
