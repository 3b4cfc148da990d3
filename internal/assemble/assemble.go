// Package assemble turns a scene's metadata model into the ordered,
// presence-filtered attribute sets the output containers record. It is
// the entry point of the conversion core: it consults the calibration
// extractor for scene-level derived attributes and suppresses every
// attribute whose backing field is absent, so the writers downstream
// only ever see attributes that should exist.
package assemble

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"espaform/internal/calibration"
	"espaform/internal/metadata"
)

const (
	// maxDescriptionLen caps a rendered description attribute.
	// Oversize documentation fails the conversion outright; truncating
	// it would silently corrupt the record.
	maxDescriptionLen = 5000
	// maxDescriptionLineLen caps one rendered description line.
	maxDescriptionLineLen = 1024
)

// Type is the storage type an attribute takes in the legacy container.
type Type int

const (
	TypeString Type = iota
	TypeInt16
	TypeInt32
	TypeFloat32
	TypeFloat64
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Attribute is one named value destined for the container. Text is set
// for TypeString attributes, Values for everything else; numeric values
// travel as float64 and the writer narrows them to Type on emission.
type Attribute struct {
	Name   string
	Type   Type
	Text   string
	Values []float64
}

// builder accumulates attributes and latches the first error so the
// assembly reads as a straight-line listing.
type builder struct {
	attrs []Attribute
	err   error
}

func (b *builder) text(name, value string) {
	if b.err != nil || metadata.IsFillString(value) {
		return
	}
	if err := checkLegacyText(name, value); err != nil {
		b.err = err
		return
	}
	b.attrs = append(b.attrs, Attribute{Name: name, Type: TypeString, Text: value})
}

func (b *builder) numeric(name string, typ Type, values ...float64) {
	if b.err != nil {
		return
	}
	b.attrs = append(b.attrs, Attribute{Name: name, Type: typ, Values: values})
}

func (b *builder) optional(name string, typ Type, v *float64) {
	if v == nil {
		return
	}
	b.numeric(name, typ, *v)
}

func (b *builder) finish() ([]Attribute, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.attrs, nil
}

// checkLegacyText rejects text the legacy container cannot store. The
// container records attribute text as 8-bit characters, so everything
// must fit the Latin-1 code page.
func checkLegacyText(name, text string) error {
	if _, err := charmap.ISO8859_1.NewEncoder().String(text); err != nil {
		return fmt.Errorf("attribute %q contains characters outside the legacy 8-bit character set", name)
	}
	return nil
}

// SceneAttributes builds the ordered global attribute set for a scene,
// including the instrument-derived calibration vectors when the scene
// carries them. The order is fixed; downstream tooling reads these
// containers positionally more often than it should.
func SceneAttributes(model *metadata.Model) ([]Attribute, error) {
	coeff, err := calibration.Extract(model.Scene.Instrument, model.Bands)
	if err != nil {
		return nil, err
	}

	scene := &model.Scene
	b := &builder{}
	b.text(AttrDataProvider, scene.DataProvider)
	b.text(AttrSatellite, scene.Satellite)
	b.text(AttrInstrument, scene.Instrument)
	b.text(AttrAcquisitionDate, scene.AcquisitionDate)
	b.text(AttrLevel1ProductionDate, scene.Level1ProductionDate)
	b.text(AttrLPGSMetadataFile, scene.LPGSMetadataFile)
	b.optional(AttrSolarZenith, TypeFloat32, scene.SolarZenith)
	b.optional(AttrSolarAzimuth, TypeFloat32, scene.SolarAzimuth)
	if scene.WRS != nil {
		b.numeric(AttrWRSSystem, TypeInt16, float64(scene.WRS.System))
		b.numeric(AttrWRSPath, TypeInt16, float64(scene.WRS.Path))
		b.numeric(AttrWRSRow, TypeInt16, float64(scene.WRS.Row))
	}
	if coeff != nil {
		if len(coeff.ReflGains) > 0 {
			b.numeric(AttrReflGains, TypeFloat64, coeff.ReflGains...)
			b.numeric(AttrReflBias, TypeFloat64, coeff.ReflBias...)
		}
		if len(coeff.ThermalGains) > 0 {
			b.numeric(AttrThermalGains, TypeFloat64, coeff.ThermalGains...)
			b.numeric(AttrThermalBias, TypeFloat64, coeff.ThermalBias...)
		}
		b.optional(AttrPanGain, TypeFloat64, coeff.PanGain)
		b.optional(AttrPanBias, TypeFloat64, coeff.PanBias)
	}
	b.numeric(AttrULCorner, TypeFloat64, scene.UpperLeft.Latitude, scene.UpperLeft.Longitude)
	b.numeric(AttrLRCorner, TypeFloat64, scene.LowerRight.Latitude, scene.LowerRight.Longitude)
	b.numeric(AttrWestBound, TypeFloat64, scene.Bounds.West)
	b.numeric(AttrEastBound, TypeFloat64, scene.Bounds.East)
	b.numeric(AttrNorthBound, TypeFloat64, scene.Bounds.North)
	b.numeric(AttrSouthBound, TypeFloat64, scene.Bounds.South)
	b.text(AttrHDFVersion, scene.HDFVersion)
	b.text(AttrHDFEOSVersion, scene.HDFEOSVersion)
	if len(model.Bands) > 0 {
		b.text(AttrProductionDate, model.Bands[0].ProductionDate)
	}
	return b.finish()
}

// BandAttributes builds the ordered attribute set for one band. The
// fill value is the only attribute emitted unconditionally; a band with
// no recorded fill inherits the metadata default, and downstream
// readers rely on _FillValue always being present.
func BandAttributes(band *metadata.Band) ([]Attribute, error) {
	b := &builder{}
	b.text(AttrLongName, band.LongName)
	b.text(AttrUnits, band.DataUnits)
	if band.ValidRange != nil {
		b.numeric(AttrValidRange, TypeInt32, float64(band.ValidRange.Min), float64(band.ValidRange.Max))
	}
	b.numeric(AttrFillValue, TypeInt32, float64(band.Fill))
	if band.Saturate != nil {
		b.numeric(AttrSaturateValue, TypeInt32, float64(*band.Saturate))
	}
	b.optional(AttrScaleFactor, TypeFloat32, band.ScaleFactor)
	b.optional(AttrAddOffset, TypeFloat64, band.AddOffset)
	b.optional(AttrCalibratedNT, TypeFloat32, band.CalibratedNT)
	if len(band.BitDescriptions) > 0 {
		block, err := bitmapBlock(band)
		if err != nil {
			return nil, err
		}
		b.text(AttrBitmapDescription, block)
	}
	if len(band.Classes) > 0 {
		block, err := classBlock(band)
		if err != nil {
			return nil, err
		}
		b.text(AttrClassDescription, block)
	}
	b.text(AttrAppVersion, band.AppVersion)
	return b.finish()
}

// bitmapBlock renders the per-bit descriptions as one indented text
// block, one line per bit position.
func bitmapBlock(band *metadata.Band) (string, error) {
	var sb strings.Builder
	sb.WriteString("\n\tBits are numbered from right to left (bit 0 = LSB, bit N = MSB):\n\tBit    Description\n")
	for i, desc := range band.BitDescriptions {
		if err := appendLine(&sb, band.Name, AttrBitmapDescription, i, desc); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// classBlock renders the class-value descriptions as one indented text
// block, one line per class code.
func classBlock(band *metadata.Band) (string, error) {
	var sb strings.Builder
	sb.WriteString("\n\tClass  Description\n")
	for _, class := range band.Classes {
		if err := appendLine(&sb, band.Name, AttrClassDescription, class.Value, class.Description); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func appendLine(sb *strings.Builder, bandName, attrName string, code int, desc string) error {
	line := fmt.Sprintf("\t%d      %s\n", code, desc)
	if len(line) >= maxDescriptionLineLen {
		return fmt.Errorf("band %q: %s line for value %d exceeds %d characters", bandName, attrName, code, maxDescriptionLineLen)
	}
	if sb.Len()+len(line) >= maxDescriptionLen {
		return fmt.Errorf("band %q: %s exceeds %d characters", bandName, attrName, maxDescriptionLen)
	}
	sb.WriteString(line)
	return nil
}
