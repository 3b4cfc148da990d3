package metadata

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// document and its children mirror the on-disk layout of an ESPA metadata
// file. They are decode targets only; Parse translates them into the
// exported Model and never hands them out.
type document struct {
	XMLName xml.Name   `xml:"espa_metadata"`
	Version string     `xml:"version,attr"`
	Global  globalMeta `xml:"global_metadata"`
	Bands   []bandMeta `xml:"bands>band"`
}

type globalMeta struct {
	DataProvider         string       `xml:"data_provider"`
	Satellite            string       `xml:"satellite"`
	Instrument           string       `xml:"instrument"`
	AcquisitionDate      string       `xml:"acquisition_date"`
	Level1ProductionDate string       `xml:"level1_production_date"`
	LPGSMetadataFile     string       `xml:"lpgs_metadata_file"`
	SolarAngles          *solarAngles `xml:"solar_angles"`
	WRS                  *wrsAttrs    `xml:"wrs"`
	Corners              []cornerAttr `xml:"corner"`
	Bounding             *boundingBox `xml:"bounding_coordinates"`
}

type solarAngles struct {
	Zenith  float64 `xml:"zenith,attr"`
	Azimuth float64 `xml:"azimuth,attr"`
	Units   string  `xml:"units,attr"`
}

type wrsAttrs struct {
	System int `xml:"system,attr"`
	Path   int `xml:"path,attr"`
	Row    int `xml:"row,attr"`
}

type cornerAttr struct {
	Location  string  `xml:"location,attr"`
	Latitude  float64 `xml:"latitude,attr"`
	Longitude float64 `xml:"longitude,attr"`
}

type boundingBox struct {
	West  float64 `xml:"west"`
	East  float64 `xml:"east"`
	North float64 `xml:"north"`
	South float64 `xml:"south"`
}

type bandMeta struct {
	Product     string   `xml:"product,attr"`
	Name        string   `xml:"name,attr"`
	Category    string   `xml:"category,attr"`
	DataType    string   `xml:"data_type,attr"`
	Lines       int      `xml:"nlines,attr"`
	Samples     int      `xml:"nsamps,attr"`
	Fill        *int64   `xml:"fill_value,attr"`
	Saturate    *int64   `xml:"saturate_value,attr"`
	ScaleFactor *float64 `xml:"scale_factor,attr"`
	AddOffset   *float64 `xml:"add_offset,attr"`

	ShortName      string       `xml:"short_name"`
	LongName       string       `xml:"long_name"`
	FileName       string       `xml:"file_name"`
	PixelSize      *pixelSize   `xml:"pixel_size"`
	DataUnits      string       `xml:"data_units"`
	ValidRange     *rangeAttrs  `xml:"valid_range"`
	TOA            *gainBias    `xml:"toa_reflectance"`
	CalibratedNT   *float64     `xml:"calibrated_nt"`
	Bits           []bitEntry   `xml:"bitmap_description>bit"`
	Classes        []classEntry `xml:"class_values>class"`
	AppVersion     string       `xml:"app_version"`
	ProductionDate string       `xml:"production_date"`
}

type pixelSize struct {
	X     float64 `xml:"x,attr"`
	Y     float64 `xml:"y,attr"`
	Units string  `xml:"units,attr"`
}

type rangeAttrs struct {
	Min float64 `xml:"min,attr"`
	Max float64 `xml:"max,attr"`
}

type gainBias struct {
	Gain *float64 `xml:"gain,attr"`
	Bias *float64 `xml:"bias,attr"`
}

type bitEntry struct {
	Num  int    `xml:"num,attr"`
	Text string `xml:",chardata"`
}

type classEntry struct {
	Num  int    `xml:"num,attr"`
	Text string `xml:",chardata"`
}

// ProductID derives the scene product identifier from a metadata
// document path. ESPA products name the document <product-id>.xml.
func ProductID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseFile reads and parses the ESPA metadata document at path.
func ParseFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	model, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return model, nil
}

// Parse decodes an ESPA metadata document and translates its fill-value
// conventions into explicit optional fields. The returned model keeps
// bands in document order.
func Parse(data []byte) (*Model, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if len(doc.Bands) == 0 {
		return nil, errors.New("metadata defines no bands")
	}

	model := &Model{
		Version: doc.Version,
		Scene:   translateScene(doc.Global),
		Bands:   make([]Band, 0, len(doc.Bands)),
	}
	seen := make(map[string]struct{}, len(doc.Bands))
	for i := range doc.Bands {
		band, err := translateBand(&doc.Bands[i])
		if err != nil {
			return nil, err
		}
		if _, dup := seen[band.Name]; dup {
			return nil, fmt.Errorf("duplicate band name %q", band.Name)
		}
		seen[band.Name] = struct{}{}
		model.Bands = append(model.Bands, band)
	}
	return model, nil
}

func translateScene(g globalMeta) Scene {
	scene := Scene{
		DataProvider:         cleanString(g.DataProvider),
		Satellite:            cleanString(g.Satellite),
		Instrument:           cleanString(g.Instrument),
		AcquisitionDate:      cleanString(g.AcquisitionDate),
		Level1ProductionDate: cleanString(g.Level1ProductionDate),
		LPGSMetadataFile:     cleanString(g.LPGSMetadataFile),
		HDFVersion:           DefaultHDFVersion,
		HDFEOSVersion:        DefaultHDFEOSVersion,
	}
	if g.SolarAngles != nil {
		scene.SolarZenith = optionalFloat(g.SolarAngles.Zenith)
		scene.SolarAzimuth = optionalFloat(g.SolarAngles.Azimuth)
	}
	if g.WRS != nil && !IsFillInt(int64(g.WRS.System)) {
		scene.WRS = &WRSLocation{System: g.WRS.System, Path: g.WRS.Path, Row: g.WRS.Row}
	}
	for _, c := range g.Corners {
		switch strings.ToUpper(strings.TrimSpace(c.Location)) {
		case "UL":
			scene.UpperLeft = Corner{Latitude: c.Latitude, Longitude: c.Longitude}
		case "LR":
			scene.LowerRight = Corner{Latitude: c.Latitude, Longitude: c.Longitude}
		}
	}
	if g.Bounding != nil {
		scene.Bounds = Bounds{
			West:  g.Bounding.West,
			East:  g.Bounding.East,
			North: g.Bounding.North,
			South: g.Bounding.South,
		}
	}
	return scene
}

func translateBand(b *bandMeta) (Band, error) {
	name := strings.TrimSpace(b.Name)
	if name == "" {
		return Band{}, errors.New("band with empty name")
	}
	if strings.TrimSpace(b.FileName) == "" {
		return Band{}, fmt.Errorf("band %q: missing file_name", name)
	}
	dt, err := ParseDataType(b.DataType)
	if err != nil {
		return Band{}, fmt.Errorf("band %q: %w", name, err)
	}
	if b.Lines <= 0 || b.Samples <= 0 {
		return Band{}, fmt.Errorf("band %q: invalid dimensions %dx%d", name, b.Lines, b.Samples)
	}

	band := Band{
		Name:           name,
		Product:        cleanString(b.Product),
		Category:       cleanString(b.Category),
		ShortName:      cleanString(b.ShortName),
		LongName:       cleanString(b.LongName),
		FileName:       strings.TrimSpace(b.FileName),
		DataType:       dt,
		Lines:          b.Lines,
		Samples:        b.Samples,
		DataUnits:      cleanString(b.DataUnits),
		Fill:           FillInt,
		AppVersion:     cleanString(b.AppVersion),
		ProductionDate: cleanString(b.ProductionDate),
	}
	if b.PixelSize != nil {
		band.PixelSizeX = b.PixelSize.X
		band.PixelSizeY = b.PixelSize.Y
		band.PixelUnits = cleanString(b.PixelSize.Units)
	}
	if b.Fill != nil {
		band.Fill = *b.Fill
	}
	if b.Saturate != nil && !IsFillInt(*b.Saturate) {
		v := *b.Saturate
		band.Saturate = &v
	}
	if b.ScaleFactor != nil {
		band.ScaleFactor = optionalFloat(*b.ScaleFactor)
	}
	if b.AddOffset != nil {
		band.AddOffset = optionalFloat(*b.AddOffset)
	}
	if b.CalibratedNT != nil {
		band.CalibratedNT = optionalFloat(*b.CalibratedNT)
	}
	if b.ValidRange != nil && !IsFillFloat(b.ValidRange.Min) && !IsFillFloat(b.ValidRange.Max) {
		band.ValidRange = &Range{Min: int64(b.ValidRange.Min), Max: int64(b.ValidRange.Max)}
	}
	if b.TOA != nil {
		if b.TOA.Gain != nil {
			band.TOAGain = optionalFloat(*b.TOA.Gain)
		}
		if b.TOA.Bias != nil {
			band.TOABias = optionalFloat(*b.TOA.Bias)
		}
	}
	if len(b.Bits) > 0 {
		band.BitDescriptions = make([]string, len(b.Bits))
		for _, bit := range b.Bits {
			if bit.Num < 0 || bit.Num >= len(b.Bits) {
				return Band{}, fmt.Errorf("band %q: bit number %d out of range", name, bit.Num)
			}
			band.BitDescriptions[bit.Num] = strings.TrimSpace(bit.Text)
		}
	}
	if len(b.Classes) > 0 {
		band.Classes = make([]Class, 0, len(b.Classes))
		for _, cl := range b.Classes {
			band.Classes = append(band.Classes, Class{Value: cl.Num, Description: strings.TrimSpace(cl.Text)})
		}
	}
	return band, nil
}

// cleanString trims whitespace and collapses the fill string to empty.
func cleanString(s string) string {
	s = strings.TrimSpace(s)
	if s == FillString {
		return ""
	}
	return s
}

func optionalFloat(v float64) *float64 {
	if IsFillFloat(v) {
		return nil
	}
	f := v
	return &f
}
