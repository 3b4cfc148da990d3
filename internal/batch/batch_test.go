package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"espaform/internal/batch"
	"espaform/internal/config"
	"espaform/internal/gtif"
	"espaform/internal/ledger"
	"espaform/internal/metadata"
	"espaform/internal/services"
	"espaform/internal/testsupport"
)

func writeScene(t *testing.T, dir, productID string) string {
	t.Helper()
	return testsupport.WriteScene(t, dir, productID)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.OutputDir = ""
	cfg.Ledger.Enabled = false
	return &cfg
}

type translateCall struct {
	base      string
	bandFiles []string
}

// fakeTranslator stands in for gdal_translate: it records what it was
// asked to do and fabricates the .tif outputs.
type fakeTranslator struct {
	mu         sync.Mutex
	calls      []translateCall
	failSuffix string
}

func (f *fakeTranslator) Convert(_ context.Context, model *metadata.Model, base string, progress func(gtif.ProgressUpdate)) ([]string, error) {
	call := translateCall{base: base}
	for _, b := range model.Bands {
		call.bandFiles = append(call.bandFiles, b.FileName)
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if f.failSuffix != "" && strings.HasSuffix(base, f.failSuffix) {
		return nil, services.Wrap(services.ErrExternalTool, "gtif", "gdal_translate", "band sr_band1: simulated failure", nil)
	}

	outputs := make([]string, 0, len(model.Bands))
	for i, b := range model.Bands {
		if progress != nil {
			progress(gtif.ProgressUpdate{Band: b.Name, Index: i + 1, Total: len(model.Bands)})
		}
		target := base + "_" + b.Name + ".tif"
		if err := os.WriteFile(target, []byte("tif"), 0o644); err != nil {
			return nil, err
		}
		outputs = append(outputs, target)
	}
	return outputs, nil
}

func TestRunConvertsScenesToManifests(t *testing.T) {
	root := t.TempDir()
	writeScene(t, root, "LT50450302010152EDC00")
	writeScene(t, root, "LT50450302010168EDC00")

	runner, err := batch.NewRunner(testConfig(t), nil, batch.WithWorkers(2))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	summary, err := runner.Run(context.Background(), root, []batch.Format{batch.FormatHDF})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.ScenesTotal != 2 || summary.ScenesConverted != 2 || summary.ScenesFailed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !summary.Ok() {
		t.Fatal("expected a clean summary")
	}
	for _, id := range []string{"LT50450302010152EDC00", "LT50450302010168EDC00"} {
		if _, err := os.Stat(filepath.Join(root, id+".hdf")); err != nil {
			t.Errorf("missing container for %s: %v", id, err)
		}
		if _, err := os.Stat(filepath.Join(root, id+".hdf.hdr")); err != nil {
			t.Errorf("missing companion header for %s: %v", id, err)
		}
	}
}

func TestRunTranslatesScenesToGeoTIFF(t *testing.T) {
	root := t.TempDir()
	xmlPath := writeScene(t, root, "LT50450302010152EDC00")

	translator := &fakeTranslator{}
	runner, err := batch.NewRunner(testConfig(t), nil, batch.WithTranslator(translator))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	summary, err := runner.Run(context.Background(), root, []batch.Format{batch.FormatGTif})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Succeeded != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(translator.calls) != 1 {
		t.Fatalf("expected 1 translator call, got %d", len(translator.calls))
	}
	call := translator.calls[0]
	if call.base != filepath.Join(root, "LT50450302010152EDC00") {
		t.Fatalf("unexpected output base %s", call.base)
	}
	for _, bandFile := range call.bandFiles {
		if !filepath.IsAbs(bandFile) {
			t.Fatalf("band file %s not resolved to an absolute path", bandFile)
		}
		if filepath.Dir(bandFile) != filepath.Dir(xmlPath) {
			t.Fatalf("band file %s resolved outside the scene directory", bandFile)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "LT50450302010152EDC00_sr_band1.tif")); err != nil {
		t.Fatalf("missing translated band: %v", err)
	}
}

func TestRunHonorsOutputDirectory(t *testing.T) {
	root := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "converted")
	writeScene(t, root, "LT50450302010152EDC00")

	cfg := testConfig(t)
	cfg.Paths.OutputDir = outDir

	runner, err := batch.NewRunner(cfg, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	summary, err := runner.Run(context.Background(), root, []batch.Format{batch.FormatHDF})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.ScenesConverted != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(outDir, "LT50450302010152EDC00.hdf")); err != nil {
		t.Fatalf("container not in output directory: %v", err)
	}

	// Relocated outputs must reference band files by absolute path.
	manifest, err := os.ReadFile(filepath.Join(outDir, "LT50450302010152EDC00.hdf"))
	if err != nil {
		t.Fatalf("read container: %v", err)
	}
	if !strings.Contains(string(manifest), filepath.Join(root, "LT50450302010152EDC00_sr_band1.img")) {
		t.Error("container does not reference band files absolutely")
	}
}

func TestRunContinuesPastBadScene(t *testing.T) {
	root := t.TempDir()
	writeScene(t, root, "LT50450302010152EDC00")
	badPath := filepath.Join(root, "LT50450302010168EDC00.xml")
	if err := os.WriteFile(badPath, []byte(`<espa_metadata version="1.2"><global_metadata/><bands/></espa_metadata>`), 0o644); err != nil {
		t.Fatalf("write bad scene: %v", err)
	}

	runner, err := batch.NewRunner(testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	summary, err := runner.Run(context.Background(), root, []batch.Format{batch.FormatHDF})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.ScenesTotal != 2 || summary.ScenesConverted != 1 || summary.ScenesFailed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Rejected != 1 {
		t.Fatalf("expected the malformed scene to be rejected, got %+v", summary)
	}
	if summary.Ok() {
		t.Fatal("summary should not be clean")
	}

	var badResult *batch.SceneResult
	for i := range summary.Results {
		if summary.Results[i].ProductID == "LT50450302010168EDC00" {
			badResult = &summary.Results[i]
		}
	}
	if badResult == nil || badResult.Err == nil {
		t.Fatalf("malformed scene not reported: %+v", summary.Results)
	}
	if !errors.Is(badResult.Err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", badResult.Err)
	}
}

func TestRunRecordsConversionsInLedger(t *testing.T) {
	root := t.TempDir()
	writeScene(t, root, "LT50450302010152EDC00")
	if err := os.WriteFile(filepath.Join(root, "BAD0000000000000000000.xml"), []byte("not xml"), 0o644); err != nil {
		t.Fatalf("write bad scene: %v", err)
	}

	store, err := ledger.Open(filepath.Join(t.TempDir(), "espaform.db"))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer store.Close()

	runner, err := batch.NewRunner(testConfig(t), nil, batch.WithLedger(store))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := runner.Run(context.Background(), root, []batch.Format{batch.FormatHDF}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	records, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 ledger records, got %d", len(records))
	}
	byProduct := make(map[string]*ledger.Record)
	for _, rec := range records {
		byProduct[rec.ProductID] = rec
		if rec.Format != "hdf" {
			t.Errorf("record format = %q", rec.Format)
		}
		if rec.FinishedAt == nil {
			t.Errorf("record %s not finished", rec.ProductID)
		}
	}
	good := byProduct["LT50450302010152EDC00"]
	if good == nil || good.Status != ledger.StatusSucceeded {
		t.Fatalf("good scene record = %+v", good)
	}
	if !strings.HasSuffix(good.OutputPath, "LT50450302010152EDC00.hdf") {
		t.Errorf("good scene output path = %q", good.OutputPath)
	}
	bad := byProduct["BAD0000000000000000000"]
	if bad == nil || bad.Status != ledger.StatusRejected {
		t.Fatalf("bad scene record = %+v", bad)
	}
	if !strings.Contains(bad.ErrorMessage, "parse metadata") {
		t.Errorf("bad scene error = %q", bad.ErrorMessage)
	}
}

func TestConvertSceneBothFormats(t *testing.T) {
	root := t.TempDir()
	xmlPath := writeScene(t, root, "LT50450302010152EDC00")

	runner, err := batch.NewRunner(testConfig(t), nil, batch.WithTranslator(&fakeTranslator{}))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	results := runner.ConvertScene(context.Background(), xmlPath, []batch.Format{batch.FormatHDF, batch.FormatGTif})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("conversion %s failed: %v", res.Format, res.Err)
		}
		if len(res.Outputs) == 0 {
			t.Fatalf("conversion %s produced no outputs", res.Format)
		}
		if res.ProductID != "LT50450302010152EDC00" {
			t.Fatalf("unexpected product ID %q", res.ProductID)
		}
	}
}

func TestRunSkipsAuxSidecars(t *testing.T) {
	root := t.TempDir()
	writeScene(t, root, "LT50450302010152EDC00")
	if err := os.WriteFile(filepath.Join(root, "LT50450302010152EDC00_sr_band1.img.aux.xml"), []byte("<PAMDataset/>"), 0o644); err != nil {
		t.Fatalf("write aux sidecar: %v", err)
	}

	runner, err := batch.NewRunner(testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	summary, err := runner.Run(context.Background(), root, []batch.Format{batch.FormatHDF})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.ScenesTotal != 1 {
		t.Fatalf("aux sidecar counted as a scene: %+v", summary)
	}
}

func TestRunRefusesConcurrentRuns(t *testing.T) {
	root := t.TempDir()
	writeScene(t, root, "LT50450302010152EDC00")

	held := flock.New(filepath.Join(root, ".espaform.lock"))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-acquiring lock: locked=%v err=%v", locked, err)
	}
	defer func() { _ = held.Unlock() }()

	runner, err := batch.NewRunner(testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	_, err = runner.Run(context.Background(), root, []batch.Format{batch.FormatHDF})
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient lock error, got %v", err)
	}
}

func TestRunRejectsMissingDirectory(t *testing.T) {
	runner, err := batch.NewRunner(testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	_, err = runner.Run(context.Background(), filepath.Join(t.TempDir(), "absent"), []batch.Format{batch.FormatHDF})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunRequiresFormats(t *testing.T) {
	runner, err := batch.NewRunner(testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	_, err = runner.Run(context.Background(), t.TempDir(), nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunReportsEmptyDirectory(t *testing.T) {
	runner, err := batch.NewRunner(testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	_, err = runner.Run(context.Background(), t.TempDir(), []batch.Format{batch.FormatHDF})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    batch.Format
		wantErr bool
	}{
		{"hdf", batch.FormatHDF, false},
		{"HDF", batch.FormatHDF, false},
		{"gtif", batch.FormatGTif, false},
		{"geotiff", batch.FormatGTif, false},
		{" tif ", batch.FormatGTif, false},
		{"netcdf", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := batch.ParseFormat(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
