package metadata

import "fmt"

// DataType identifies the pixel representation of a band's raster file.
type DataType string

const (
	Int8    DataType = "INT8"
	UInt8   DataType = "UINT8"
	Int16   DataType = "INT16"
	UInt16  DataType = "UINT16"
	Int32   DataType = "INT32"
	UInt32  DataType = "UINT32"
	Float32 DataType = "FLOAT32"
	Float64 DataType = "FLOAT64"
)

var allDataTypes = []DataType{Int8, UInt8, Int16, UInt16, Int32, UInt32, Float32, Float64}

// ParseDataType maps the textual data_type attribute onto the fixed
// enumeration, rejecting anything outside it.
func ParseDataType(raw string) (DataType, error) {
	for _, dt := range allDataTypes {
		if string(dt) == raw {
			return dt, nil
		}
	}
	return "", fmt.Errorf("unsupported data type %q", raw)
}

// Valid reports whether the data type is a member of the enumeration.
func (d DataType) Valid() bool {
	for _, dt := range allDataTypes {
		if d == dt {
			return true
		}
	}
	return false
}

func (d DataType) String() string { return string(d) }

// Container library versions stamped into converted output. Parse records
// them on the Scene so hand-assembled models carry them explicitly.
const (
	DefaultHDFVersion    = "4.2.16"
	DefaultHDFEOSVersion = "2.20"
)

// Corner is a latitude/longitude pair for one scene corner.
type Corner struct {
	Latitude  float64
	Longitude float64
}

// Bounds holds the four geographic bounding coordinates of a scene.
type Bounds struct {
	West  float64
	East  float64
	North float64
	South float64
}

// WRSLocation pins a scene to the Worldwide Reference System grid.
type WRSLocation struct {
	System int
	Path   int
	Row    int
}

// Scene carries the global metadata shared by every band of one
// acquisition. Text fields are empty when the source document omitted
// them or supplied the fill string; pointer fields are nil under the
// same conditions.
type Scene struct {
	DataProvider         string
	Satellite            string
	Instrument           string
	AcquisitionDate      string
	Level1ProductionDate string
	LPGSMetadataFile     string

	SolarZenith  *float64
	SolarAzimuth *float64

	WRS *WRSLocation

	UpperLeft  Corner
	LowerRight Corner
	Bounds     Bounds

	HDFVersion    string
	HDFEOSVersion string
}

// Range bounds the legitimate pixel values of a band.
type Range struct {
	Min int64
	Max int64
}

// Class pairs a coded pixel value with its meaning.
type Class struct {
	Value       int
	Description string
}

// Band describes one raster layer of a scene. FileName points at the
// flat binary pixel file the converters link to or translate; it is
// relative to the metadata document unless the producer wrote it
// absolute.
type Band struct {
	Name     string
	Product  string
	Category string

	ShortName string
	LongName  string
	FileName  string

	DataType DataType
	Lines    int
	Samples  int

	PixelSizeX float64
	PixelSizeY float64
	PixelUnits string

	DataUnits string

	// Fill is the pixel fill value. Unlike the optional fields it is
	// always meaningful; documents that omit it inherit FillInt.
	Fill         int64
	Saturate     *int64
	ValidRange   *Range
	ScaleFactor  *float64
	AddOffset    *float64
	CalibratedNT *float64

	// TOAGain and TOABias are the raw top-of-atmosphere calibration
	// pair. Presence on the first band of the scene gates calibration
	// output for the whole scene.
	TOAGain *float64
	TOABias *float64

	// BitDescriptions is indexed by bit position, bit 0 first.
	BitDescriptions []string
	Classes         []Class

	AppVersion     string
	ProductionDate string
}

// Model is one scene's parsed metadata: the global scene record plus the
// band list in source-document order. Converters treat it as read-only.
type Model struct {
	Version string
	Scene   Scene
	Bands   []Band
}

// Band returns the named band, or nil when the scene has no such band.
func (m *Model) Band(name string) *Band {
	for i := range m.Bands {
		if m.Bands[i].Name == name {
			return &m.Bands[i]
		}
	}
	return nil
}
