package footprint_test

import (
	"errors"
	"testing"

	"github.com/venicegeo/geojson-go/geojson"

	"espaform/internal/footprint"
	"espaform/internal/metadata"
	"espaform/internal/services"
)

func sceneModel() *metadata.Model {
	zenith := 31.98
	azimuth := 127.54
	return &metadata.Model{
		Version: "1.2",
		Scene: metadata.Scene{
			DataProvider:    "USGS/EROS",
			Satellite:       "LANDSAT_5",
			Instrument:      "TM",
			AcquisitionDate: "2010-06-01",
			SolarZenith:     &zenith,
			SolarAzimuth:    &azimuth,
			WRS:             &metadata.WRSLocation{System: 2, Path: 45, Row: 30},
			UpperLeft:       metadata.Corner{Latitude: 44.60, Longitude: -124.07},
			LowerRight:      metadata.Corner{Latitude: 42.45, Longitude: -121.35},
			Bounds:          metadata.Bounds{West: -124.07, East: -121.35, North: 44.60, South: 42.45},
		},
		Bands: []metadata.Band{
			{Name: "sr_band1"},
			{Name: "sr_band2"},
		},
	}
}

func singleFeature(t *testing.T, fc *geojson.FeatureCollection) *geojson.Feature {
	t.Helper()
	if fc == nil {
		t.Fatal("expected a feature collection")
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	return fc.Features[0]
}

func TestBuildFootprintPolygonRing(t *testing.T) {
	fc, err := footprint.Build("LT50450302010152EDC00", sceneModel())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	feature := singleFeature(t, fc)

	polygon, ok := feature.Geometry.(*geojson.Polygon)
	if !ok {
		t.Fatalf("expected polygon geometry, got %T", feature.Geometry)
	}
	if len(polygon.Coordinates) != 1 {
		t.Fatalf("expected a single ring, got %d", len(polygon.Coordinates))
	}
	ring := polygon.Coordinates[0]
	if len(ring) != 5 {
		t.Fatalf("expected closed 5-position ring, got %d positions", len(ring))
	}
	if ring[0][0] != ring[4][0] || ring[0][1] != ring[4][1] {
		t.Fatalf("ring is not closed: first %v last %v", ring[0], ring[4])
	}
	if ring[0][0] != -124.07 || ring[0][1] != 42.45 {
		t.Fatalf("expected ring to start at west/south, got %v", ring[0])
	}
	if ring[2][0] != -121.35 || ring[2][1] != 44.60 {
		t.Fatalf("expected east/north at position 2, got %v", ring[2])
	}
}

func TestBuildFootprintBbox(t *testing.T) {
	fc, err := footprint.Build("LT50450302010152EDC00", sceneModel())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	feature := singleFeature(t, fc)

	if len(feature.Bbox) != 4 {
		t.Fatalf("expected 4-value bbox, got %v", feature.Bbox)
	}
	want := []float64{-124.07, 42.45, -121.35, 44.60}
	for i, value := range want {
		if feature.Bbox[i] != value {
			t.Fatalf("bbox[%d]: expected %g, got %g", i, value, feature.Bbox[i])
		}
	}
}

func TestBuildFootprintProperties(t *testing.T) {
	fc, err := footprint.Build("LT50450302010152EDC00", sceneModel())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	feature := singleFeature(t, fc)

	if feature.IDStr() != "LT50450302010152EDC00" {
		t.Fatalf("expected product ID as feature ID, got %q", feature.IDStr())
	}
	props := feature.Properties
	if props["satellite"] != "LANDSAT_5" || props["instrument"] != "TM" {
		t.Fatalf("unexpected platform properties: %v", props)
	}
	if props["acquiredDate"] != "2010-06-01" {
		t.Fatalf("unexpected acquiredDate: %v", props["acquiredDate"])
	}
	if props["bands"] != 2 {
		t.Fatalf("expected bands 2, got %v", props["bands"])
	}
	if props["wrsPath"] != 45 || props["wrsRow"] != 30 {
		t.Fatalf("unexpected WRS properties: %v", props)
	}
	if props["solarZenith"] != 31.98 {
		t.Fatalf("unexpected solarZenith: %v", props["solarZenith"])
	}
	ul, ok := props["upperLeft"].([]float64)
	if !ok || ul[0] != -124.07 || ul[1] != 44.60 {
		t.Fatalf("unexpected upperLeft corner: %v", props["upperLeft"])
	}
}

func TestBuildFootprintOmitsAbsentOptionalProperties(t *testing.T) {
	md := sceneModel()
	md.Scene.WRS = nil
	md.Scene.SolarZenith = nil
	md.Scene.SolarAzimuth = nil
	md.Scene.DataProvider = ""

	fc, err := footprint.Build("LT50450302010152EDC00", md)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	props := singleFeature(t, fc).Properties
	for _, key := range []string{"wrsPath", "wrsRow", "wrsSystem", "solarZenith", "solarAzimuth", "dataProvider"} {
		if _, present := props[key]; present {
			t.Fatalf("expected %s to be omitted, got %v", key, props[key])
		}
	}
}

func TestBuildFootprintRoundTripsThroughParse(t *testing.T) {
	fc, err := footprint.Build("LT50450302010152EDC00", sceneModel())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	parsed, err := geojson.Parse([]byte(fc.String()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	roundTripped, ok := parsed.(*geojson.FeatureCollection)
	if !ok {
		t.Fatalf("expected a FeatureCollection, got %T", parsed)
	}
	if len(roundTripped.Features) != 1 {
		t.Fatalf("expected 1 feature after round trip, got %d", len(roundTripped.Features))
	}
}

func TestBuildFootprintRejectsDegenerateBounds(t *testing.T) {
	md := sceneModel()
	md.Scene.Bounds = metadata.Bounds{}

	_, err := footprint.Build("LT50450302010152EDC00", md)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildFootprintRequiresProductID(t *testing.T) {
	_, err := footprint.Build("  ", sceneModel())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
