// Package batch converts every scene metadata document under a directory,
// fanning scenes out to a bounded worker pool and recording each
// conversion in the ledger. Scene conversions are independent: one bad
// scene never aborts the rest of the run.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"espaform/internal/config"
	"espaform/internal/gtif"
	"espaform/internal/hdf"
	"espaform/internal/ledger"
	"espaform/internal/logging"
	"espaform/internal/metadata"
	"espaform/internal/services"
)

const (
	defaultWorkers = 4
	lockFileName   = ".espaform.lock"
)

// Format selects an output container.
type Format string

const (
	FormatHDF  Format = "hdf"
	FormatGTif Format = "gtif"
)

// ParseFormat maps a user-supplied format name onto the enumeration.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "hdf":
		return FormatHDF, nil
	case "gtif", "geotiff", "tif":
		return FormatGTif, nil
	}
	return "", services.Wrap(services.ErrValidation, "batch", "parse format", fmt.Sprintf("unknown output format %q", value), nil)
}

// SceneResult is the outcome of one scene/format conversion attempt.
type SceneResult struct {
	XMLPath   string
	ProductID string
	Format    Format
	Outputs   []string
	Err       error
}

// Summary aggregates a batch run. Scene counts treat a scene as
// converted only when every requested format succeeded; the conversion
// counts break results down per attempt.
type Summary struct {
	ScenesTotal     int
	ScenesConverted int
	ScenesFailed    int
	Succeeded       int
	Failed          int
	Rejected        int
	Results         []SceneResult
}

// Ok reports whether every scene converted cleanly.
func (s *Summary) Ok() bool {
	return s != nil && s.ScenesFailed == 0
}

// Option configures the runner.
type Option func(*Runner)

// WithLedger records conversions in the given store. A nil store
// disables recording.
func WithLedger(store *ledger.Store) Option {
	return func(r *Runner) { r.store = store }
}

// WithTranslator injects a custom GeoTIFF converter (primarily for
// tests).
func WithTranslator(tr gtif.Converter) Option {
	return func(r *Runner) {
		if tr != nil {
			r.translator = tr
		}
	}
}

// WithWriter injects a custom container writer (primarily for tests).
func WithWriter(w hdf.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.writer = w
		}
	}
}

// WithWorkers bounds the number of scenes converting concurrently.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// Runner drives scene conversions.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	writer     hdf.Writer
	translator gtif.Converter
	store      *ledger.Store
	workers    int
}

// NewRunner constructs a runner with the production converter stack.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "configure runner", "config required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	runner := &Runner{
		cfg:     cfg,
		logger:  logger,
		writer:  hdf.ManifestWriter{},
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(runner)
	}
	if runner.translator == nil {
		tr, err := gtif.New(cfg.GDALTranslateBinary(), cfg.Tools.TimeoutSeconds)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "batch", "configure runner", "", err)
		}
		runner.translator = tr
	}
	return runner, nil
}

// Run converts every scene under root into the requested formats. It
// holds a lock on the output directory for the duration so concurrent
// runs cannot interleave outputs. Per-scene failures are reported in the
// summary, not as an error.
func (r *Runner) Run(ctx context.Context, root string, formats []Format) (*Summary, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, services.Wrap(services.ErrValidation, "batch", "run batch", "scene directory required", nil)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "batch", "run batch", fmt.Sprintf("%s is not a directory", root), err)
	}
	if len(formats) == 0 {
		return nil, services.Wrap(services.ErrValidation, "batch", "run batch", "at least one output format required", nil)
	}

	scenes, err := discoverScenes(root)
	if err != nil {
		return nil, err
	}
	if len(scenes) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "batch", "discover scenes", fmt.Sprintf("no scene metadata documents under %s", root), nil)
	}

	lockDir := r.outputDir(root)
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "prepare output directory", lockDir, err)
	}
	lock := flock.New(filepath.Join(lockDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "batch", "acquire output lock", lockDir, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "batch", "acquire output lock", fmt.Sprintf("another run holds %s", lockDir), nil)
	}
	defer func() { _ = lock.Unlock() }()

	r.logger.Info("batch starting",
		logging.Int("scenes_total", len(scenes)),
		logging.Int("workers", r.workers),
		logging.String("formats", formatList(formats)))

	perScene := make([][]SceneResult, len(scenes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, xmlPath := range scenes {
		i, xmlPath := i, xmlPath
		g.Go(func() error {
			perScene[i] = r.ConvertScene(gctx, xmlPath, formats)
			return nil
		})
	}
	_ = g.Wait()

	summary := &Summary{ScenesTotal: len(scenes)}
	for _, results := range perScene {
		sceneOK := true
		for _, res := range results {
			summary.Results = append(summary.Results, res)
			if res.Err == nil {
				summary.Succeeded++
				continue
			}
			sceneOK = false
			if services.FailureStatus(res.Err) == ledger.StatusRejected {
				summary.Rejected++
			} else {
				summary.Failed++
			}
		}
		if sceneOK {
			summary.ScenesConverted++
		} else {
			summary.ScenesFailed++
		}
	}

	r.logger.Info("batch complete",
		logging.Int("scenes_total", summary.ScenesTotal),
		logging.Int("scenes_converted", summary.ScenesConverted),
		logging.Int("scenes_failed", summary.ScenesFailed))
	return summary, nil
}

// ConvertScene converts one scene document into every requested format,
// recording each attempt in the ledger when one is attached. The
// document is parsed once; a parse failure rejects every format.
func (r *Runner) ConvertScene(ctx context.Context, xmlPath string, formats []Format) []SceneResult {
	productID := metadata.ProductID(xmlPath)
	model, parseErr := metadata.ParseFile(xmlPath)
	if parseErr != nil {
		parseErr = services.Wrap(services.ErrValidation, "batch", "parse metadata", productID, parseErr)
	}

	results := make([]SceneResult, 0, len(formats))
	for _, format := range formats {
		res := SceneResult{XMLPath: xmlPath, ProductID: productID, Format: format}

		fctx := services.WithFormat(services.WithProductID(ctx, productID), string(format))
		log := logging.WithContext(fctx, r.logger)

		var rec *ledger.Record
		if r.store != nil {
			var beginErr error
			rec, beginErr = r.store.Begin(fctx, productID, string(format), r.targetHint(xmlPath, format))
			if beginErr != nil {
				log.Warn("ledger begin failed", logging.Error(beginErr))
			}
		}

		switch {
		case fctx.Err() != nil:
			res.Err = fctx.Err()
		case parseErr != nil:
			res.Err = parseErr
		default:
			res.Outputs, res.Err = r.convert(fctx, model, xmlPath, format, log)
		}

		if rec != nil {
			status := ledger.StatusSucceeded
			detail := ""
			if res.Err != nil {
				status = services.FailureStatus(res.Err)
				detail = res.Err.Error()
			}
			if finishErr := r.store.Finish(fctx, rec, status, detail); finishErr != nil {
				log.Warn("ledger finish failed", logging.Error(finishErr))
			}
		}

		if res.Err != nil {
			log.Error("conversion failed", logging.Error(res.Err))
		} else {
			log.Info("conversion complete", logging.Int("outputs", len(res.Outputs)))
		}
		results = append(results, res)
	}
	return results
}

func (r *Runner) convert(ctx context.Context, model *metadata.Model, xmlPath string, format Format, log *slog.Logger) ([]string, error) {
	sceneDir := filepath.Dir(xmlPath)
	outDir := r.outputDir(sceneDir)
	if outDir != sceneDir {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "batch", "prepare output directory", outDir, err)
		}
	}
	productID := metadata.ProductID(xmlPath)

	switch format {
	case FormatHDF:
		target := filepath.Join(outDir, productID+r.cfg.Convert.ManifestExtension)
		hdfModel := model
		if outDir != sceneDir {
			// The container's external band references only resolve
			// relative to the container itself, so a relocated output
			// needs absolute references.
			hdfModel = resolveBandFiles(model, sceneDir)
		}
		if err := hdf.Convert(ctx, hdfModel, target, r.writer); err != nil {
			return nil, err
		}
		return []string{target, target + ".hdr"}, nil

	case FormatGTif:
		base := filepath.Join(outDir, productID)
		sampler := logging.NewProgressSampler(0)
		return r.translator.Convert(ctx, resolveBandFiles(model, sceneDir), base, func(u gtif.ProgressUpdate) {
			percent := float64(u.Index-1) / float64(u.Total) * 100
			if sampler.ShouldLog(percent, "Converting", u.Band) {
				log.Info("converting band",
					logging.String("band", u.Band),
					logging.String("target", filepath.Base(u.Target)),
					logging.Float64("percent", percent))
			}
		})
	}
	return nil, services.Wrap(services.ErrValidation, "batch", "convert scene", fmt.Sprintf("unknown output format %q", format), nil)
}

func (r *Runner) outputDir(fallback string) string {
	if dir := strings.TrimSpace(r.cfg.Paths.OutputDir); dir != "" {
		return dir
	}
	return fallback
}

func (r *Runner) targetHint(xmlPath string, format Format) string {
	outDir := r.outputDir(filepath.Dir(xmlPath))
	productID := metadata.ProductID(xmlPath)
	if format == FormatHDF {
		return filepath.Join(outDir, productID+r.cfg.Convert.ManifestExtension)
	}
	return filepath.Join(outDir, productID)
}

// resolveBandFiles returns a copy of the model whose band file references
// are absolute, so converters can run from any working directory.
func resolveBandFiles(model *metadata.Model, sceneDir string) *metadata.Model {
	clone := *model
	clone.Bands = make([]metadata.Band, len(model.Bands))
	copy(clone.Bands, model.Bands)
	for i := range clone.Bands {
		if name := clone.Bands[i].FileName; name != "" && !filepath.IsAbs(name) {
			clone.Bands[i].FileName = filepath.Join(sceneDir, name)
		}
	}
	return &clone
}

// discoverScenes collects scene metadata documents under root, skipping
// GDAL .aux.xml sidecars. Paths come back sorted for a stable run order.
func discoverScenes(root string) ([]string, error) {
	var scenes []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if !strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".aux.xml") {
			return nil
		}
		scenes = append(scenes, path)
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "discover scenes", root, err)
	}
	sort.Strings(scenes)
	return scenes, nil
}

func formatList(formats []Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}
