package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// atlanticFootprint covers roughly the north Atlantic corridor.
var atlanticFootprint = []GeoPoint{
	{Latitude: 20, Longitude: -80},
	{Latitude: 60, Longitude: -80},
	{Latitude: 60, Longitude: 0},
	{Latitude: 20, Longitude: 0},
}

func TestCatalog_AddAndLookup(t *testing.T) {
	cat := NewSatelliteCatalog()

	if err := cat.AddSatellite(&Satellite{ID: "KA-1", KaCoverage: atlanticFootprint}); err != nil {
		t.Fatalf("AddSatellite: %v", err)
	}
	if cat.Len() != 1 {
		t.Errorf("Len = %d, want 1", cat.Len())
	}
	if cat.Satellite("KA-1") == nil {
		t.Errorf("Satellite(KA-1) = nil, want entry")
	}
	if cat.Satellite("missing") != nil {
		t.Errorf("Satellite(missing) should be nil")
	}
}

func TestCatalog_DuplicateRejected(t *testing.T) {
	cat := NewSatelliteCatalog()
	if err := cat.AddSatellite(&Satellite{ID: "KA-1"}); err != nil {
		t.Fatalf("AddSatellite: %v", err)
	}
	err := cat.AddSatellite(&Satellite{ID: "KA-1"})
	if !errors.Is(err, ErrSatelliteExists) {
		t.Errorf("duplicate add error = %v, want ErrSatelliteExists", err)
	}
}

func TestCatalog_BadInputRejected(t *testing.T) {
	cat := NewSatelliteCatalog()
	if err := cat.AddSatellite(nil); !errors.Is(err, ErrSatelliteBadInput) {
		t.Errorf("nil add error = %v, want ErrSatelliteBadInput", err)
	}
	if err := cat.AddSatellite(&Satellite{}); !errors.Is(err, ErrSatelliteBadInput) {
		t.Errorf("empty id add error = %v, want ErrSatelliteBadInput", err)
	}
}

func TestCatalog_KaCovers(t *testing.T) {
	cat := NewSatelliteCatalog()
	if err := cat.AddSatellite(&Satellite{ID: "KA-1", KaCoverage: atlanticFootprint}); err != nil {
		t.Fatalf("AddSatellite: %v", err)
	}

	covered, known := cat.KaCovers("KA-1", 40, -40)
	if !known || !covered {
		t.Errorf("point inside footprint: covered=%v known=%v, want true/true", covered, known)
	}

	covered, known = cat.KaCovers("KA-1", 40, 100)
	if !known || covered {
		t.Errorf("point outside footprint: covered=%v known=%v, want false/true", covered, known)
	}
}

func TestCatalog_UnknownSatelliteIsNoData(t *testing.T) {
	cat := NewSatelliteCatalog()

	if _, known := cat.KaCovers("ghost", 40, -40); known {
		t.Errorf("unknown satellite should report known=false")
	}
	if _, known := cat.XAzimuthServiceable("ghost", 90); known {
		t.Errorf("unknown satellite azimuth should report known=false")
	}
	if _, ok := cat.PositionAt("ghost", time.Now()); ok {
		t.Errorf("unknown satellite position should report ok=false")
	}
}

func TestCatalog_XAzimuthServiceable(t *testing.T) {
	cat := NewSatelliteCatalog()
	err := cat.AddSatellite(&Satellite{
		ID: "X-1",
		XAzimuthWindows: []AzimuthWindow{
			{StartDeg: 90, EndDeg: 180},
			{StartDeg: 320, EndDeg: 40}, // wraps through north
		},
	})
	if err != nil {
		t.Fatalf("AddSatellite: %v", err)
	}

	cases := []struct {
		az   float64
		want bool
	}{
		{100, true},
		{200, false},
		{350, true},
		{20, true},
		{60, false},
	}
	for _, tc := range cases {
		ok, known := cat.XAzimuthServiceable("X-1", tc.az)
		if !known {
			t.Fatalf("azimuth %v: known=false, want true", tc.az)
		}
		if ok != tc.want {
			t.Errorf("azimuth %v serviceable = %v, want %v", tc.az, ok, tc.want)
		}
	}
}

func TestLoadSatelliteCatalog(t *testing.T) {
	payload := `{
	  "satellites": [
	    {
	      "id": "KA-EAST",
	      "name": "Ka East",
	      "geo_longitude_deg": -15,
	      "ka_coverage": [
	        {"lat": 20, "lon": -80}, {"lat": 60, "lon": -80},
	        {"lat": 60, "lon": 0}, {"lat": 20, "lon": 0}
	      ]
	    },
	    {
	      "id": "X-ALPHA",
	      "geo_longitude_deg": -30,
	      "x_azimuth_windows": [{"start_deg": 90, "end_deg": 270}]
	    }
	  ]
	}`

	cat := NewSatelliteCatalog()
	summary, err := LoadSatelliteCatalog(cat, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("LoadSatelliteCatalog: %v", err)
	}
	if len(summary.SatelliteIDs) != 2 {
		t.Fatalf("loaded %d satellites, want 2", len(summary.SatelliteIDs))
	}

	if covered, known := cat.KaCovers("KA-EAST", 40, -40); !known || !covered {
		t.Errorf("KA-EAST coverage lookup failed: covered=%v known=%v", covered, known)
	}
	if ok, known := cat.XAzimuthServiceable("X-ALPHA", 180); !known || !ok {
		t.Errorf("X-ALPHA azimuth lookup failed: ok=%v known=%v", ok, known)
	}
	if _, ok := cat.PositionAt("X-ALPHA", time.Now()); !ok {
		t.Errorf("X-ALPHA should have a geostationary position model")
	}
}

func TestLoadSatelliteCatalog_EmptyIDFails(t *testing.T) {
	cat := NewSatelliteCatalog()
	_, err := LoadSatelliteCatalog(cat, strings.NewReader(`{"satellites":[{"id":""}]}`))
	if err == nil {
		t.Fatalf("expected error for empty satellite id")
	}
}
