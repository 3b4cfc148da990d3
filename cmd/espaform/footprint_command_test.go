package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"espaform/internal/testsupport"
)

func TestFootprintPrintsGeoJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	xmlPath := testsupport.WriteScene(t, env.sceneDir, "LT50450302008210PAC01")

	out, _, err := runCLI(t, []string{"footprint", xmlPath}, env.configPath)
	if err != nil {
		t.Fatalf("footprint: %v", err)
	}
	requireContains(t, out, "FeatureCollection")
	requireContains(t, out, "LT50450302008210PAC01")
}

func TestFootprintWritesOutputFile(t *testing.T) {
	env := setupCLITestEnv(t)
	xmlPath := testsupport.WriteScene(t, env.sceneDir, "LT50450302008210PAC01")
	target := filepath.Join(env.baseDir, "footprint.json")

	out, _, err := runCLI(t, []string{"footprint", xmlPath, "--output", target}, env.configPath)
	if err != nil {
		t.Fatalf("footprint --output: %v", err)
	}
	requireContains(t, out, "Wrote")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read footprint: %v", err)
	}
	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode footprint: %v", err)
	}
	if doc.Type != "FeatureCollection" {
		t.Fatalf("unexpected document type %q", doc.Type)
	}
	if len(doc.Features) != 1 || doc.Features[0].Geometry.Type != "Polygon" {
		t.Fatalf("expected one polygon feature, got %+v", doc.Features)
	}
}
