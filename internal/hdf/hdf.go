// Package hdf writes the legacy scientific-data container for a scene.
// The container does not copy pixels: each published band is linked as
// an external dataset pointing at the scene's existing raw binary file,
// so the container is pure metadata plus layout.
//
// Physical writing goes through the Writer interface. The production
// backend is ManifestWriter in this package; tests substitute fakes.
package hdf

import (
	"context"
	"fmt"
	"os"

	"espaform/internal/assemble"
	"espaform/internal/envi"
	"espaform/internal/metadata"
	"espaform/internal/sds"
	"espaform/internal/services"
)

// Dataset is one SDS being written into a container.
type Dataset interface {
	WriteText(name, value string) error
	WriteNumeric(name string, typ assemble.Type, values []float64) error
	Close() error
}

// Container is an open output container accepting datasets and global
// attributes.
type Container interface {
	// CreateExternalDataset adds a band as an externally linked dataset.
	// Every dataset is two-dimensional with the fixed YDim/XDim
	// dimension pair; the external link starts at byte offset zero
	// because the raw binary band files carry no header.
	CreateExternalDataset(legacyName string, dt metadata.DataType, lines, samples int, sourceFile string) (Dataset, error)
	WriteText(name, value string) error
	WriteNumeric(name string, typ assemble.Type, values []float64) error
	Close() error
}

// Writer opens containers for writing.
type Writer interface {
	Create(path string) (Container, error)
}

// attrTarget is the attribute surface shared by containers and datasets.
type attrTarget interface {
	WriteText(name, value string) error
	WriteNumeric(name string, typ assemble.Type, values []float64) error
}

// Convert writes the legacy container for a scene at hdfPath, plus a
// companion ENVI header at hdfPath + ".hdr". Band datasets land in the
// fixed legacy slot order, then the global attributes. Any failure
// removes the partial output so a failed conversion never looks
// successful.
func Convert(ctx context.Context, model *metadata.Model, hdfPath string, w Writer) (err error) {
	mapped, err := sds.Remap(model.Bands)
	if err != nil {
		return services.Wrap(services.ErrValidation, "hdf", "remap bands", "scene does not satisfy the legacy layout", err)
	}
	resolved := make([]sds.Mapped, 0, len(mapped))
	for _, m := range mapped {
		if m.Band != nil {
			resolved = append(resolved, m)
		}
	}

	// The container supports exactly one resolution; the first slot's
	// band is the reference geometry.
	ref := resolved[0].Band
	for _, m := range resolved[1:] {
		b := m.Band
		if b.Lines != ref.Lines || b.Samples != ref.Samples ||
			b.PixelSizeX != ref.PixelSizeX || b.PixelSizeY != ref.PixelSizeY {
			detail := fmt.Sprintf("band %q geometry differs from %q; multi-resolution products are not supported", b.Name, ref.Name)
			return services.Wrap(services.ErrValidation, "hdf", "check layout", detail, nil)
		}
	}

	sceneAttrs, err := assemble.SceneAttributes(model)
	if err != nil {
		return services.Wrap(services.ErrValidation, "hdf", "assemble scene attributes", "", err)
	}
	bandAttrs := make([][]assemble.Attribute, len(resolved))
	for i, m := range resolved {
		attrs, err := assemble.BandAttributes(m.Band)
		if err != nil {
			return services.Wrap(services.ErrValidation, "hdf", "assemble band attributes", m.Band.Name, err)
		}
		bandAttrs[i] = attrs
	}

	container, err := w.Create(hdfPath)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "hdf", "create container", hdfPath, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(hdfPath)
			_ = os.Remove(hdfPath + ".hdr")
		}
	}()

	for i, m := range resolved {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = writeDataset(container, m, bandAttrs[i]); err != nil {
			return err
		}
	}
	for _, attr := range sceneAttrs {
		if err = writeAttr(container, attr); err != nil {
			return services.Wrap(services.ErrExternalTool, "hdf", "write global attribute", attr.Name, err)
		}
	}
	if err = container.Close(); err != nil {
		return services.Wrap(services.ErrExternalTool, "hdf", "finalize container", hdfPath, err)
	}

	hdr, err := envi.FromBand(&model.Scene, ref, len(resolved))
	if err != nil {
		return services.Wrap(services.ErrValidation, "hdf", "build envi header", "", err)
	}
	hdr.FileType = envi.FileTypeHDF
	if err = hdr.Write(hdfPath + ".hdr"); err != nil {
		return services.Wrap(services.ErrExternalTool, "hdf", "write envi header", "", err)
	}
	return nil
}

func writeDataset(c Container, m sds.Mapped, attrs []assemble.Attribute) error {
	band := m.Band
	ds, err := c.CreateExternalDataset(m.Slot.Legacy, band.DataType, band.Lines, band.Samples, band.FileName)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "hdf", "create dataset", m.Slot.Legacy, err)
	}
	for _, attr := range attrs {
		if err := writeAttr(ds, attr); err != nil {
			detail := fmt.Sprintf("%s on dataset %s", attr.Name, m.Slot.Legacy)
			return services.Wrap(services.ErrExternalTool, "hdf", "write attribute", detail, err)
		}
	}
	if err := ds.Close(); err != nil {
		return services.Wrap(services.ErrExternalTool, "hdf", "close dataset", m.Slot.Legacy, err)
	}
	return nil
}

func writeAttr(target attrTarget, attr assemble.Attribute) error {
	if attr.Type == assemble.TypeString {
		return target.WriteText(attr.Name, attr.Text)
	}
	return target.WriteNumeric(attr.Name, attr.Type, attr.Values)
}
