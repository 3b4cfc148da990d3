// Package calibration derives per-scene gain/bias coefficient vectors
// from raw band calibration values. Each supported instrument family
// fixes its own channel layout; anything outside the recognized
// families simply has no calibration, which is a normal condition for
// derived products rather than an error.
package calibration

import (
	"fmt"
	"strings"

	"espaform/internal/metadata"
)

// Layout fixes how one instrument family arranges its calibrated
// channels. Indices are zero-based positions in the scene band list;
// every index below BandCount that is neither thermal nor panchromatic
// is reflective. The assignments come from the sensor handbooks and
// cannot be derived from band counts alone.
type Layout struct {
	Family    string
	BandCount int
	Thermal   []int
	Pan       int // -1 when the family has no panchromatic channel
}

var (
	// Thematic Mapper: seven bands, band 6 (index 5) thermal.
	tmLayout = Layout{Family: "TM", BandCount: 7, Thermal: []int{5}, Pan: -1}

	// Enhanced Thematic Mapper Plus: bands 61 and 62 (indices 5 and 6)
	// thermal, panchromatic band 8 at index 8.
	etmLayout = Layout{Family: "ETM", BandCount: 9, Thermal: []int{5, 6}, Pan: 8}

	// OLI/TIRS: bands 10 and 11 (indices 9 and 10) thermal,
	// panchromatic band 8 at index 7.
	oliTirsLayout = Layout{Family: "OLI_TIRS", BandCount: 11, Thermal: []int{9, 10}, Pan: 7}
)

// LayoutFor resolves the calibration layout for an instrument
// identifier. The ETM family matches by prefix so that ETM+ and its
// processing variants share one layout. The second return is false for
// instruments outside the recognized families; callers skip calibration
// for those rather than failing.
func LayoutFor(instrument string) (Layout, bool) {
	switch {
	case instrument == "TM":
		return tmLayout, true
	case strings.HasPrefix(instrument, "ETM"):
		return etmLayout, true
	case instrument == "OLI_TIRS":
		return oliTirsLayout, true
	default:
		return Layout{}, false
	}
}

// Coefficients carries the gain/bias vectors derived for one scene,
// grouped and ordered the way the legacy container records them.
type Coefficients struct {
	ReflGains    []float64
	ReflBias     []float64
	ThermalGains []float64
	ThermalBias  []float64
	PanGain      *float64
	PanBias      *float64
}

// Extract derives calibration coefficients for a scene. It returns
// (nil, nil) when the instrument is outside the recognized families or
// when the first band carries no gain/bias pair; the first band is the
// scene-wide "calibration exists" signal, so other bands' values are
// ignored without it. Once the signal says calibration exists, every
// band the layout classifies must supply a pair: a band list shorter
// than the layout, or a classified band missing its pair, marks a
// malformed product and fails.
func Extract(instrument string, bands []metadata.Band) (*Coefficients, error) {
	layout, ok := LayoutFor(instrument)
	if !ok || len(bands) == 0 {
		return nil, nil
	}
	if bands[0].TOAGain == nil || bands[0].TOABias == nil {
		return nil, nil
	}
	if len(bands) < layout.BandCount {
		return nil, fmt.Errorf("%s scene carries calibration but only %d of %d expected bands", layout.Family, len(bands), layout.BandCount)
	}

	coeff := &Coefficients{}
	for i := 0; i < layout.BandCount; i++ {
		band := &bands[i]
		if band.TOAGain == nil || band.TOABias == nil {
			return nil, fmt.Errorf("band %q (index %d) is missing its gain/bias pair", band.Name, i)
		}
		switch {
		case layout.thermal(i):
			coeff.ThermalGains = append(coeff.ThermalGains, *band.TOAGain)
			coeff.ThermalBias = append(coeff.ThermalBias, *band.TOABias)
		case i == layout.Pan:
			gain, bias := *band.TOAGain, *band.TOABias
			coeff.PanGain = &gain
			coeff.PanBias = &bias
		default:
			coeff.ReflGains = append(coeff.ReflGains, *band.TOAGain)
			coeff.ReflBias = append(coeff.ReflBias, *band.TOABias)
		}
	}
	return coeff, nil
}

func (l Layout) thermal(i int) bool {
	for _, t := range l.Thermal {
		if t == i {
			return true
		}
	}
	return false
}
