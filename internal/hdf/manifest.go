package hdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"espaform/internal/assemble"
	"espaform/internal/metadata"
)

// manifestFormat is the first line of every manifest; bump the version
// when the layout grammar changes.
const manifestFormat = "espa-hdf4-manifest 1"

// ManifestWriter is the production container backend. It records the
// complete container layout as a deterministic text manifest; the
// packaging step replays the manifest against the native HDF4 library,
// which keeps this process free of cgo and the legacy toolchain.
type ManifestWriter struct{}

// Create opens a manifest container. Nothing touches the filesystem
// until Close, so an aborted conversion leaves no partial file behind.
func (ManifestWriter) Create(path string) (Container, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("container path is empty")
	}
	c := &manifestContainer{path: path}
	fmt.Fprintf(&c.buf, "%s\ncontainer %s\n", manifestFormat, filepath.Base(path))
	return c, nil
}

type manifestContainer struct {
	path   string
	buf    strings.Builder
	global []string
	open   *manifestDataset
	closed bool
}

type manifestDataset struct {
	owner  *manifestContainer
	name   string
	lines  []string
	closed bool
}

func (c *manifestContainer) CreateExternalDataset(legacyName string, dt metadata.DataType, lines, samples int, sourceFile string) (Dataset, error) {
	if c.closed {
		return nil, errors.New("container already finalized")
	}
	if c.open != nil {
		return nil, fmt.Errorf("dataset %s still open", c.open.name)
	}
	ds := &manifestDataset{owner: c, name: legacyName}
	ds.lines = append(ds.lines,
		fmt.Sprintf("dataset %s", legacyName),
		fmt.Sprintf("  source %s offset 0", sourceFile),
		fmt.Sprintf("  type %s", dt),
		fmt.Sprintf("  dims YDim %d XDim %d", lines, samples),
	)
	c.open = ds
	return ds, nil
}

func (c *manifestContainer) WriteText(name, value string) error {
	if c.closed {
		return errors.New("container already finalized")
	}
	c.global = append(c.global, renderTextAttr(name, value))
	return nil
}

func (c *manifestContainer) WriteNumeric(name string, typ assemble.Type, values []float64) error {
	if c.closed {
		return errors.New("container already finalized")
	}
	line, err := renderNumericAttr(name, typ, values)
	if err != nil {
		return err
	}
	c.global = append(c.global, line)
	return nil
}

// Close renders and writes the manifest.
func (c *manifestContainer) Close() error {
	if c.closed {
		return errors.New("container already finalized")
	}
	if c.open != nil {
		return fmt.Errorf("dataset %s still open", c.open.name)
	}
	c.closed = true

	if len(c.global) > 0 {
		c.buf.WriteString("global\n")
		for _, line := range c.global {
			c.buf.WriteString("  " + line + "\n")
		}
		c.buf.WriteString("end\n")
	}
	if err := os.WriteFile(c.path, []byte(c.buf.String()), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func (d *manifestDataset) WriteText(name, value string) error {
	if d.closed {
		return fmt.Errorf("dataset %s already closed", d.name)
	}
	d.lines = append(d.lines, "  "+renderTextAttr(name, value))
	return nil
}

func (d *manifestDataset) WriteNumeric(name string, typ assemble.Type, values []float64) error {
	if d.closed {
		return fmt.Errorf("dataset %s already closed", d.name)
	}
	line, err := renderNumericAttr(name, typ, values)
	if err != nil {
		return err
	}
	d.lines = append(d.lines, "  "+line)
	return nil
}

func (d *manifestDataset) Close() error {
	if d.closed {
		return fmt.Errorf("dataset %s already closed", d.name)
	}
	d.closed = true
	for _, line := range d.lines {
		d.owner.buf.WriteString(line + "\n")
	}
	d.owner.buf.WriteString("end\n")
	d.owner.open = nil
	return nil
}

func renderTextAttr(name, value string) string {
	return fmt.Sprintf("attr string %q %q", name, value)
}

func renderNumericAttr(name string, typ assemble.Type, values []float64) (string, error) {
	rendered := make([]string, len(values))
	for i, v := range values {
		switch typ {
		case assemble.TypeInt16, assemble.TypeInt32:
			rendered[i] = strconv.FormatInt(int64(v), 10)
		case assemble.TypeFloat32:
			rendered[i] = strconv.FormatFloat(v, 'g', -1, 32)
		case assemble.TypeFloat64:
			rendered[i] = strconv.FormatFloat(v, 'g', -1, 64)
		default:
			return "", fmt.Errorf("attribute %q has unsupported type %v", name, typ)
		}
	}
	return fmt.Sprintf("attr %s %q %s", typ, name, strings.Join(rendered, " ")), nil
}
