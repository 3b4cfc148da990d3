// Package footprint renders a scene's geographic extent as GeoJSON for
// catalog and preview tooling.
package footprint

import (
	"fmt"
	"strings"

	"github.com/venicegeo/geojson-go/geojson"

	"espaform/internal/metadata"
	"espaform/internal/services"
)

// Build returns a single-feature collection describing the scene
// footprint. The polygon ring follows the scene's bounding coordinates;
// the upper-left and lower-right corner points ride along as properties.
func Build(productID string, md *metadata.Model) (*geojson.FeatureCollection, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, services.Wrap(services.ErrValidation, "footprint", "build footprint", "product ID required", nil)
	}
	if md == nil {
		return nil, services.Wrap(services.ErrValidation, "footprint", "build footprint", "scene metadata required", nil)
	}
	b := md.Scene.Bounds
	if b.West == b.East || b.North == b.South {
		detail := fmt.Sprintf("degenerate bounding coordinates west=%g east=%g north=%g south=%g", b.West, b.East, b.North, b.South)
		return nil, services.Wrap(services.ErrValidation, "footprint", "build footprint", detail, nil)
	}

	// Exterior ring runs counterclockwise and closes on the first
	// position, per GeoJSON convention.
	polygon := geojson.NewPolygon([][][]float64{{
		{b.West, b.South},
		{b.East, b.South},
		{b.East, b.North},
		{b.West, b.North},
		{b.West, b.South},
	}})

	feature := geojson.NewFeature(polygon, productID, sceneProperties(md))
	feature.Bbox = feature.ForceBbox()
	return geojson.NewFeatureCollection([]*geojson.Feature{feature}), nil
}

func sceneProperties(md *metadata.Model) map[string]interface{} {
	scene := md.Scene
	properties := map[string]interface{}{
		"satellite":    scene.Satellite,
		"instrument":   scene.Instrument,
		"acquiredDate": scene.AcquisitionDate,
		"bands":        len(md.Bands),
		"upperLeft":    []float64{scene.UpperLeft.Longitude, scene.UpperLeft.Latitude},
		"lowerRight":   []float64{scene.LowerRight.Longitude, scene.LowerRight.Latitude},
	}
	if scene.DataProvider != "" {
		properties["dataProvider"] = scene.DataProvider
	}
	if scene.WRS != nil {
		properties["wrsSystem"] = scene.WRS.System
		properties["wrsPath"] = scene.WRS.Path
		properties["wrsRow"] = scene.WRS.Row
	}
	if scene.SolarZenith != nil {
		properties["solarZenith"] = *scene.SolarZenith
	}
	if scene.SolarAzimuth != nil {
		properties["solarAzimuth"] = *scene.SolarAzimuth
	}
	return properties
}
