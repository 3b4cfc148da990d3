package staging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"espaform/internal/logging"
	"espaform/internal/staging"
)

func writeSceneDir(t *testing.T, workDir, name string, age time.Duration) string {
	t.Helper()
	dir := filepath.Join(workDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create scene dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".xml"), []byte("<scene/>"), 0o644); err != nil {
		t.Fatalf("write scene file: %v", err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(dir, stamp, stamp); err != nil {
		t.Fatalf("age scene dir: %v", err)
	}
	return dir
}

func TestCleanStaleRemovesOldSceneDirs(t *testing.T) {
	workDir := t.TempDir()
	old := writeSceneDir(t, workDir, "LT50450302008210PAC01", 72*time.Hour)
	fresh := writeSceneDir(t, workDir, "LE70450302008218EDC00", time.Hour)

	result := staging.CleanStale(workDir, 24*time.Hour, logging.NewNop())
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected cleanup errors: %+v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != old {
		t.Fatalf("unexpected removed set: %#v", result.Removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed, stat err %v", old, err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("expected %s kept: %v", fresh, err)
	}
}

func TestCleanStaleIgnoresFiles(t *testing.T) {
	workDir := t.TempDir()
	loose := filepath.Join(workDir, "scene.xml")
	if err := os.WriteFile(loose, []byte("<scene/>"), 0o644); err != nil {
		t.Fatalf("write loose file: %v", err)
	}
	stamp := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(loose, stamp, stamp); err != nil {
		t.Fatalf("age loose file: %v", err)
	}

	result := staging.CleanStale(workDir, time.Hour, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Fatalf("expected no removals, got %#v", result.Removed)
	}
	if _, err := os.Stat(loose); err != nil {
		t.Fatalf("expected loose file kept: %v", err)
	}
}

func TestCleanStaleMissingWorkDir(t *testing.T) {
	result := staging.CleanStale(filepath.Join(t.TempDir(), "absent"), time.Hour, nil)
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestListSceneDirsNewestFirst(t *testing.T) {
	workDir := t.TempDir()
	writeSceneDir(t, workDir, "LT50450302008210PAC01", 48*time.Hour)
	writeSceneDir(t, workDir, "LE70450302008218EDC00", time.Hour)

	dirs, err := staging.ListSceneDirs(workDir)
	if err != nil {
		t.Fatalf("list scene dirs: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("expected 2 directories, got %d", len(dirs))
	}
	if dirs[0].Name != "LE70450302008218EDC00" || dirs[1].Name != "LT50450302008210PAC01" {
		t.Fatalf("unexpected order: %s, %s", dirs[0].Name, dirs[1].Name)
	}
	if dirs[0].Size == 0 {
		t.Fatal("expected non-zero directory size")
	}
}

func TestListSceneDirsMissingWorkDir(t *testing.T) {
	dirs, err := staging.ListSceneDirs(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("list scene dirs: %v", err)
	}
	if dirs != nil {
		t.Fatalf("expected nil listing, got %#v", dirs)
	}
}
