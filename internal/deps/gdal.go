package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CheckGDALTranslate reports the gdal_translate binary the GeoTIFF converter
// will execute. When the binary resolves, Detail carries the GDAL version
// string so operators can spot stale installs from check output.
func CheckGDALTranslate(command string) Status {
	result := Status{
		Name:        "gdal_translate",
		Description: "Required for GeoTIFF conversion",
	}

	binary := strings.TrimSpace(command)
	if binary == "" {
		binary = "gdal_translate"
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		result.Command = binary
		result.Available = false
		result.Detail = fmt.Sprintf("binary %q not found", binary)
		return result
	}

	result.Command = resolved
	result.Available = true
	result.Detail = probeGDALVersion(resolved)
	return result
}

// probeGDALVersion runs `gdal_translate --version` and returns the first
// output line, or empty when the probe fails.
func probeGDALVersion(path string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "--version")
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(string(output))
	if text == "" {
		return ""
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}
	return text
}
