// core/catalog_loader.go
package core

import (
	"encoding/json"
	"fmt"
	"io"
)

// CatalogSummary is a small summary of what was loaded. Mainly useful
// for logging from main().
type CatalogSummary struct {
	SatelliteIDs []string
}

// internal JSON shapes – unexported so the file format can evolve.
type catalogJSON struct {
	Satellites []satelliteJSON `json:"satellites"`
}

type satelliteJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Position: either a geostationary longitude or TLE lines.
	GeoLongitudeDeg *float64 `json:"geo_longitude_deg"`
	TLE1            string   `json:"tle1"`
	TLE2            string   `json:"tle2"`

	KaCoverage      []geoPointJSON      `json:"ka_coverage"`
	XAzimuthWindows []azimuthWindowJSON `json:"x_azimuth_windows"`
}

type geoPointJSON struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type azimuthWindowJSON struct {
	StartDeg float64 `json:"start_deg"`
	EndDeg   float64 `json:"end_deg"`
}

// LoadSatelliteCatalog reads a JSON catalog from r into cat. It fails
// only on structural errors; a satellite without a position source is
// registered without a position model and simply never produces look
// angles.
func LoadSatelliteCatalog(cat *SatelliteCatalog, r io.Reader) (*CatalogSummary, error) {
	if cat == nil {
		return nil, fmt.Errorf("LoadSatelliteCatalog: catalog is nil")
	}

	var payload catalogJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadSatelliteCatalog: decode failed: %w", err)
	}

	summary := &CatalogSummary{SatelliteIDs: make([]string, 0, len(payload.Satellites))}

	for _, js := range payload.Satellites {
		if js.ID == "" {
			return nil, fmt.Errorf("LoadSatelliteCatalog: satellite with empty id")
		}

		sat := &Satellite{
			ID:   js.ID,
			Name: js.Name,
		}

		if js.TLE1 != "" && js.TLE2 != "" {
			sat.Position = NewPositionModel(0, js.TLE1, js.TLE2)
		} else if js.GeoLongitudeDeg != nil {
			sat.Position = NewPositionModel(*js.GeoLongitudeDeg, "", "")
		}

		for _, p := range js.KaCoverage {
			sat.KaCoverage = append(sat.KaCoverage, GeoPoint{Latitude: p.Lat, Longitude: p.Lon})
		}
		for _, w := range js.XAzimuthWindows {
			sat.XAzimuthWindows = append(sat.XAzimuthWindows, AzimuthWindow{
				StartDeg: w.StartDeg,
				EndDeg:   w.EndDeg,
			})
		}

		if err := cat.AddSatellite(sat); err != nil {
			return nil, fmt.Errorf("LoadSatelliteCatalog: %w", err)
		}
		summary.SatelliteIDs = append(summary.SatelliteIDs, js.ID)
	}

	return summary, nil
}
