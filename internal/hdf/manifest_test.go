package hdf

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"espaform/internal/assemble"
	"espaform/internal/metadata"
)

func TestManifestWriterEndToEnd(t *testing.T) {
	dir := t.TempDir()
	hdfPath := filepath.Join(dir, "LT50420342010152.hdf")

	if err := Convert(context.Background(), slotModel(true), hdfPath, ManifestWriter{}); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	data, err := os.ReadFile(hdfPath)
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	text := string(data)

	lines := strings.Split(text, "\n")
	if lines[0] != "espa-hdf4-manifest 1" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != "container LT50420342010152.hdf" {
		t.Errorf("second line = %q", lines[1])
	}

	wantInOrder := []string{
		"dataset band1",
		"  source scene_sr_band1.img offset 0",
		"  type INT16",
		"  dims YDim 200 XDim 300",
		`  attr string "units" "reflectance"`,
		`  attr int32 "_FillValue" -9999`,
		"dataset band2",
		"dataset atmos_opacity",
		"dataset fmask_band",
		"global",
		`  attr string "Satellite" "LANDSAT_5"`,
		`  attr string "Instrument" "TM"`,
		`  attr string "AcquisitionDate" "2010-06-01"`,
		`  attr string "HDFVersion" "4.2.16"`,
	}
	pos := 0
	for _, want := range wantInOrder {
		idx := strings.Index(text[pos:], want+"\n")
		if idx < 0 {
			t.Fatalf("manifest missing %q after offset %d:\n%s", want, pos, text)
		}
		pos += idx + len(want)
	}
	if !strings.HasSuffix(text, "end\n") {
		t.Errorf("manifest does not terminate its final block:\n%s", text)
	}

	if _, err := os.Stat(hdfPath + ".hdr"); err != nil {
		t.Errorf("companion header missing: %v", err)
	}
}

func TestManifestWriterNumericRendering(t *testing.T) {
	hdfPath := filepath.Join(t.TempDir(), "scene.hdf")
	zen := 52.25
	model := slotModel(true)
	model.Scene.SolarZenith = &zen

	if err := Convert(context.Background(), model, hdfPath, ManifestWriter{}); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	data, err := os.ReadFile(hdfPath)
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if !strings.Contains(string(data), `attr float32 "SolarZenith" 52.25`) {
		t.Errorf("solar zenith not rendered as float32:\n%s", data)
	}
}

func TestManifestWriterRejectsEmptyPath(t *testing.T) {
	if _, err := (ManifestWriter{}).Create(""); err == nil {
		t.Fatal("expected error for empty container path")
	}
}

func TestManifestContainerLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.hdf")
	container, err := ManifestWriter{}.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ds, err := container.CreateExternalDataset("band1", metadata.Int16, 10, 10, "b1.img")
	if err != nil {
		t.Fatalf("CreateExternalDataset: %v", err)
	}
	if _, err := container.CreateExternalDataset("band2", metadata.Int16, 10, 10, "b2.img"); err == nil {
		t.Error("second dataset opened while the first is still open")
	}
	if err := container.Close(); err == nil {
		t.Error("container finalized with an open dataset")
	}

	if err := ds.Close(); err != nil {
		t.Fatalf("dataset Close: %v", err)
	}
	if err := ds.WriteText("units", "none"); err == nil {
		t.Error("write accepted on a closed dataset")
	}
	if err := ds.Close(); err == nil {
		t.Error("double close accepted")
	}

	// Nothing reaches disk before the container is finalized.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("manifest written before Close")
	}
	if err := container.Close(); err != nil {
		t.Fatalf("container Close: %v", err)
	}
	if err := container.Close(); err == nil {
		t.Error("double finalize accepted")
	}
	if err := container.WriteText("Satellite", "LANDSAT_5"); err == nil {
		t.Error("global write accepted after finalize")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("manifest not written on Close: %v", err)
	}
}

func TestManifestNumericAttrUnsupportedType(t *testing.T) {
	if _, err := renderNumericAttr("bad", assemble.TypeString, []float64{1}); err == nil {
		t.Fatal("expected error for non-numeric type")
	}
}
