package main

import (
	"os"
	"path/filepath"
	"testing"

	"espaform/internal/testsupport"
)

func TestCLIRootShowsHelp(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root help: %v", err)
	}
	requireContains(t, out, "Available Commands")
	requireContains(t, out, "batch")
	requireContains(t, out, "inspect")
}

func TestCLIConvertHDFCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	xmlPath := testsupport.WriteScene(t, env.sceneDir, "LT50450302008210PAC01")

	out, _, err := runCLI(t, []string{"hdf", xmlPath}, env.configPath)
	if err != nil {
		t.Fatalf("hdf command: %v", err)
	}
	requireContains(t, out, "Wrote")
	requireContains(t, out, "LT50450302008210PAC01.hdf")

	container := filepath.Join(env.sceneDir, "LT50450302008210PAC01.hdf")
	if _, err := os.Stat(container); err != nil {
		t.Fatalf("expected container at %s: %v", container, err)
	}
	if _, err := os.Stat(container + ".hdr"); err != nil {
		t.Fatalf("expected companion header: %v", err)
	}
}

func TestCLIConvertGTifCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Tools.GDALTranslate = makeStubExecutable(t, filepath.Join(env.baseDir, "bin"), "gdal_translate")
	writeCLIConfig(t, env.configPath, env.cfg)

	xmlPath := testsupport.WriteSceneWithBands(t, env.sceneDir, "LT50450302008210PAC01")

	out, _, err := runCLI(t, []string{"gtif", xmlPath}, env.configPath)
	if err != nil {
		t.Fatalf("gtif command: %v", err)
	}
	requireContains(t, out, "LT50450302008210PAC01_sr_band1.tif")
}

func TestCLIBatchCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteScene(t, env.sceneDir, "LT50450302008210PAC01")
	testsupport.WriteScene(t, env.sceneDir, "LE70450302008218EDC00")

	out, _, err := runCLI(t, []string{"batch", env.sceneDir}, env.configPath)
	if err != nil {
		t.Fatalf("batch command: %v", err)
	}
	requireContains(t, out, "Converted 2 of 2 scenes")
	requireContains(t, out, "succeeded")

	for _, productID := range []string{"LT50450302008210PAC01", "LE70450302008218EDC00"} {
		if _, err := os.Stat(filepath.Join(env.sceneDir, productID+".hdf")); err != nil {
			t.Fatalf("expected container for %s: %v", productID, err)
		}
	}
}

func TestCLIBatchReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteScene(t, env.sceneDir, "LT50450302008210PAC01")

	badPath := filepath.Join(env.sceneDir, "LT50000000000000XXX00.xml")
	bad := `<espa_metadata version="1.2"><global_metadata/><bands/></espa_metadata>`
	if err := os.WriteFile(badPath, []byte(bad), 0o644); err != nil {
		t.Fatalf("write bad scene: %v", err)
	}

	out, _, err := runCLI(t, []string{"batch", env.sceneDir}, env.configPath)
	if err == nil {
		t.Fatal("expected batch to report the failed scene")
	}
	requireContains(t, out, "Converted 1 of 2 scenes")
	requireContains(t, out, "rejected")
}

func TestCLIBatchRejectsUnknownFormat(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"batch", env.sceneDir, "--format", "netcdf"}, env.configPath)
	if err == nil {
		t.Fatal("expected unknown format to fail")
	}
}
