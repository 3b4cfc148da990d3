// Package sds fixes the layout of the legacy scientific-data container:
// which modern bands are published, the legacy SDS name each one takes,
// and the order they appear in. The slot table is the single place that
// order is normalized; everything downstream follows it.
package sds

import (
	"fmt"

	"espaform/internal/metadata"
)

// Slot is one entry of the legacy layout table: the modern band name it
// consumes, the legacy SDS name it publishes, and whether the container
// is complete without it.
type Slot struct {
	Source   string
	Legacy   string
	Optional bool
}

// Table lists the legacy container layout in emission order. Treat it
// as read-only. Only the trailing cloud-mask slot is optional; every
// other slot names a band the scene must carry.
var Table = []Slot{
	{Source: "sr_band1", Legacy: "band1"},
	{Source: "sr_band2", Legacy: "band2"},
	{Source: "sr_band3", Legacy: "band3"},
	{Source: "sr_band4", Legacy: "band4"},
	{Source: "sr_band5", Legacy: "band5"},
	{Source: "sr_band7", Legacy: "band7"},
	{Source: "sr_atmos_opacity", Legacy: "atmos_opacity"},
	{Source: "sr_fill_qa", Legacy: "fill_QA"},
	{Source: "sr_ddv_qa", Legacy: "DDV_QA"},
	{Source: "sr_cloud_qa", Legacy: "cloud_QA"},
	{Source: "sr_cloud_shadow_qa", Legacy: "cloud_shadow_QA"},
	{Source: "sr_snow_qa", Legacy: "snow_QA"},
	{Source: "sr_land_water_qa", Legacy: "land_water_QA"},
	{Source: "sr_adjacent_cloud_qa", Legacy: "adjacent_cloud_QA"},
	{Source: "toa_band6", Legacy: "band6"},
	{Source: "toa_band6_qa", Legacy: "band6_fill_QA"},
	{Source: "fmask", Legacy: "fmask_band", Optional: true},
}

// Mapped is one slot's remap result. Band is nil only when an optional
// slot found no source band in the scene.
type Mapped struct {
	Slot Slot
	Band *metadata.Band
}

// MissingBandError identifies the required slot a scene failed to fill.
type MissingBandError struct {
	Slot  Slot
	Index int
}

func (e *MissingBandError) Error() string {
	return fmt.Sprintf("band %q not found in the scene, but slot %d (%s) requires it", e.Slot.Source, e.Index, e.Slot.Legacy)
}

// Remap resolves a scene's bands against the legacy slot table. The
// result always carries one entry per slot in table order, regardless
// of the order bands appear in the scene; the first band matching a
// slot's source name wins. A required slot with no matching band aborts
// the remap with a *MissingBandError.
func Remap(bands []metadata.Band) ([]Mapped, error) {
	out := make([]Mapped, 0, len(Table))
	for i, slot := range Table {
		band := findBand(bands, slot.Source)
		if band == nil && !slot.Optional {
			return nil, &MissingBandError{Slot: slot, Index: i}
		}
		out = append(out, Mapped{Slot: slot, Band: band})
	}
	return out, nil
}

func findBand(bands []metadata.Band, name string) *metadata.Band {
	for i := range bands {
		if bands[i].Name == name {
			return &bands[i]
		}
	}
	return nil
}
