package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestCheckBinariesUnconfiguredCommand(t *testing.T) {
	results := CheckBinaries([]Requirement{{Name: "Blank", Command: "   "}})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Available {
		t.Fatal("expected unconfigured command to be unavailable")
	}
	if results[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %q", results[0].Detail)
	}
}

func TestCheckGDALTranslateReportsVersion(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "gdal_translate")
	script := []byte("#!/bin/sh\necho \"GDAL 3.8.4, released 2024/02/08\"\n")
	if err := os.WriteFile(stub, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	status := CheckGDALTranslate(stub)
	if !status.Available {
		t.Fatalf("expected stub binary to be available, got detail %q", status.Detail)
	}
	if status.Command != stub {
		t.Fatalf("expected command %q, got %q", stub, status.Command)
	}
	if !strings.Contains(status.Detail, "GDAL 3.8.4") {
		t.Fatalf("expected version in detail, got %q", status.Detail)
	}
}

func TestCheckGDALTranslateNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	status := CheckGDALTranslate("")
	if status.Available {
		t.Fatal("expected gdal_translate resolution to fail")
	}
	if status.Detail == "" {
		t.Fatal("expected detail message when gdal_translate is unavailable")
	}
	if status.Command != "gdal_translate" {
		t.Fatalf("expected default command name, got %q", status.Command)
	}
}

func TestCheckGDALTranslateVersionProbeFailureStillAvailable(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "gdal_translate")
	script := []byte("#!/bin/sh\nexit 3\n")
	if err := os.WriteFile(stub, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	status := CheckGDALTranslate(stub)
	if !status.Available {
		t.Fatalf("expected binary to be available despite version probe failure, got %q", status.Detail)
	}
	if status.Detail != "" {
		t.Fatalf("expected empty detail when probe fails, got %q", status.Detail)
	}
}
