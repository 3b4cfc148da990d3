// Package gtif produces per-band GeoTIFF outputs by shelling out to
// gdal_translate. Each band in the scene becomes one .tif plus an ESRI
// world file (.tfw) derived from the band's raster.
package gtif

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"espaform/internal/assemble"
	"espaform/internal/metadata"
	"espaform/internal/services"
)

// ProgressUpdate reports one band conversion about to start.
type ProgressUpdate struct {
	Band   string
	Source string
	Target string
	Index  int
	Total  int
}

// Converter defines the behaviour the conversion workflows need.
type Converter interface {
	Convert(ctx context.Context, model *metadata.Model, base string, progress func(ProgressUpdate)) ([]string, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the translator.
type Option func(*Translator)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(t *Translator) {
		if exec != nil {
			t.exec = exec
		}
	}
}

// Translator wraps gdal_translate invocations.
type Translator struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a translator. The timeout bounds the whole scene
// conversion; zero disables it.
func New(binary string, timeoutSeconds int, opts ...Option) (*Translator, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("gdal_translate binary required")
	}
	tr := &Translator{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(tr)
	}
	return tr, nil
}

// Convert translates every band of the scene, in scene order, into
// {base}_{band}.tif. It returns the produced file paths. The first
// failing band aborts the run; earlier outputs are kept because each
// band conversion stands alone.
func (t *Translator) Convert(ctx context.Context, model *metadata.Model, base string, progress func(ProgressUpdate)) ([]string, error) {
	if model == nil || len(model.Bands) == 0 {
		return nil, services.Wrap(services.ErrValidation, "gtif", "convert scene", "scene has no bands", nil)
	}
	if strings.TrimSpace(base) == "" {
		return nil, services.Wrap(services.ErrValidation, "gtif", "convert scene", "output base name required", nil)
	}

	runCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	outputs := make([]string, 0, len(model.Bands))
	for i := range model.Bands {
		band := &model.Bands[i]
		target, err := assemble.BandFileName(base, band.Name, ".tif")
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "gtif", "derive output name", band.Name, err)
		}
		if progress != nil {
			progress(ProgressUpdate{
				Band:   band.Name,
				Source: band.FileName,
				Target: target,
				Index:  i + 1,
				Total:  len(model.Bands),
			})
		}
		if err := t.translate(runCtx, band, target); err != nil {
			return nil, err
		}
		outputs = append(outputs, target)
	}
	return outputs, nil
}

func (t *Translator) translate(ctx context.Context, band *metadata.Band, target string) error {
	args := []string{
		"-of", "Gtiff",
		"-a_nodata", strconv.FormatInt(band.Fill, 10),
		"-co", "TFW=YES",
		"-q",
		band.FileName,
		target,
	}

	var tail outputTail
	if err := t.exec.Run(ctx, t.binary, args, tail.add); err != nil {
		removeOutputs(target)
		detail := fmt.Sprintf("band %s", band.Name)
		if msg := tail.String(); msg != "" {
			detail += ": " + msg
		}
		return services.Wrap(services.ErrExternalTool, "gtif", "gdal_translate", detail, err)
	}
	return nil
}

// removeOutputs drops whatever the failed invocation may have left
// behind so a retry never finds half a raster.
func removeOutputs(target string) {
	_ = os.Remove(target)
	_ = os.Remove(worldFile(target))
}

func worldFile(target string) string {
	return strings.TrimSuffix(target, ".tif") + ".tfw"
}

// outputTail keeps the last lines the tool printed for error context.
// gdal_translate runs with -q, so anything it says is a complaint.
type outputTail struct {
	lines []string
}

func (o *outputTail) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	o.lines = append(o.lines, line)
	if len(o.lines) > 3 {
		o.lines = o.lines[len(o.lines)-3:]
	}
}

func (o *outputTail) String() string {
	return strings.Join(o.lines, "; ")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if onOutput != nil {
			onOutput(scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("read tool output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

var _ Converter = (*Translator)(nil)
