// Package envi renders ENVI-style text headers. The legacy container
// ships with one describing the container file so ENVI-family tools can
// open it without probing.
package envi

import (
	"fmt"
	"os"
	"strings"

	"espaform/internal/metadata"
)

// Standard ENVI file type strings.
const (
	FileTypeStandard = "ENVI Standard"
	FileTypeHDF      = "HDF scientific data"
)

// Header holds the fields of one ENVI header in emission order.
type Header struct {
	Description  string
	Samples      int
	Lines        int
	Bands        int
	HeaderOffset int
	FileType     string
	DataType     int
	Interleave   string
	ByteOrder    int
}

// DataTypeCode maps a band data type onto the ENVI numeric type code.
// ENVI has no signed byte type, so INT8 shares code 1 with UINT8.
func DataTypeCode(dt metadata.DataType) (int, error) {
	switch dt {
	case metadata.Int8, metadata.UInt8:
		return 1, nil
	case metadata.Int16:
		return 2, nil
	case metadata.Int32:
		return 3, nil
	case metadata.Float32:
		return 4, nil
	case metadata.Float64:
		return 5, nil
	case metadata.UInt16:
		return 12, nil
	case metadata.UInt32:
		return 13, nil
	default:
		return 0, fmt.Errorf("no ENVI type code for data type %q", dt)
	}
}

// FromBand seeds a header from one band's geometry. bands is the number
// of layers the described file exposes, which for a container differs
// from the single seed band.
func FromBand(scene *metadata.Scene, band *metadata.Band, bands int) (*Header, error) {
	code, err := DataTypeCode(band.DataType)
	if err != nil {
		return nil, fmt.Errorf("band %q: %w", band.Name, err)
	}
	desc := "converted scene"
	if scene.Satellite != "" && scene.AcquisitionDate != "" {
		desc = fmt.Sprintf("%s %s scene acquired %s", scene.Satellite, scene.Instrument, scene.AcquisitionDate)
	}
	return &Header{
		Description:  desc,
		Samples:      band.Samples,
		Lines:        band.Lines,
		Bands:        bands,
		HeaderOffset: 0,
		FileType:     FileTypeStandard,
		DataType:     code,
		Interleave:   "bsq",
		ByteOrder:    0,
	}, nil
}

// Render returns the header text.
func (h *Header) Render() string {
	var sb strings.Builder
	sb.WriteString("ENVI\n")
	fmt.Fprintf(&sb, "description = {%s}\n", h.Description)
	fmt.Fprintf(&sb, "samples = %d\n", h.Samples)
	fmt.Fprintf(&sb, "lines = %d\n", h.Lines)
	fmt.Fprintf(&sb, "bands = %d\n", h.Bands)
	fmt.Fprintf(&sb, "header offset = %d\n", h.HeaderOffset)
	fmt.Fprintf(&sb, "file type = %s\n", h.FileType)
	fmt.Fprintf(&sb, "data type = %d\n", h.DataType)
	fmt.Fprintf(&sb, "interleave = %s\n", h.Interleave)
	fmt.Fprintf(&sb, "byte order = %d\n", h.ByteOrder)
	return sb.String()
}

// Write renders the header to path.
func (h *Header) Write(path string) error {
	if h.Samples <= 0 || h.Lines <= 0 {
		return fmt.Errorf("header for %s has invalid geometry %dx%d", path, h.Lines, h.Samples)
	}
	if err := os.WriteFile(path, []byte(h.Render()), 0o644); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}
