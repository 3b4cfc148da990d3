package sds

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"espaform/internal/metadata"
)

func fullBandList() []metadata.Band {
	bands := make([]metadata.Band, 0, len(Table))
	for _, slot := range Table {
		bands = append(bands, metadata.Band{Name: slot.Source})
	}
	return bands
}

func TestTableShape(t *testing.T) {
	if len(Table) != 17 {
		t.Fatalf("table has %d slots, want 17", len(Table))
	}
	for i, slot := range Table {
		optional := i == len(Table)-1
		if slot.Optional != optional {
			t.Errorf("slot %d (%s) optional = %v, want %v", i, slot.Source, slot.Optional, optional)
		}
	}
	if last := Table[len(Table)-1]; last.Source != "fmask" || last.Legacy != "fmask_band" {
		t.Errorf("trailing slot = %+v", last)
	}
}

func TestRemapPreservesTableOrder(t *testing.T) {
	bands := fullBandList()
	rand.New(rand.NewSource(7)).Shuffle(len(bands), func(i, j int) {
		bands[i], bands[j] = bands[j], bands[i]
	})

	mapped, err := Remap(bands)
	if err != nil {
		t.Fatalf("Remap returned error: %v", err)
	}
	if len(mapped) != len(Table) {
		t.Fatalf("got %d entries, want %d", len(mapped), len(Table))
	}
	for i, m := range mapped {
		if m.Slot.Legacy != Table[i].Legacy {
			t.Errorf("entry %d = %s, want %s", i, m.Slot.Legacy, Table[i].Legacy)
		}
		if m.Band == nil || m.Band.Name != Table[i].Source {
			t.Errorf("entry %d resolved to %v, want %s", i, m.Band, Table[i].Source)
		}
	}
}

func TestRemapMissingOptionalSlot(t *testing.T) {
	bands := fullBandList()
	bands = bands[:len(bands)-1] // drop fmask

	mapped, err := Remap(bands)
	if err != nil {
		t.Fatalf("Remap returned error: %v", err)
	}
	last := mapped[len(mapped)-1]
	if last.Slot.Source != "fmask" {
		t.Fatalf("trailing entry = %+v", last.Slot)
	}
	if last.Band != nil {
		t.Error("absent optional slot should carry no band")
	}
}

func TestRemapMissingRequiredSlot(t *testing.T) {
	bands := fullBandList()
	kept := bands[:0]
	for _, b := range bands {
		if b.Name != "sr_band5" {
			kept = append(kept, b)
		}
	}

	_, err := Remap(kept)
	if err == nil {
		t.Fatal("expected error for missing required band")
	}
	var missing *MissingBandError
	if !errors.As(err, &missing) {
		t.Fatalf("error type %T, want *MissingBandError", err)
	}
	if missing.Slot.Source != "sr_band5" {
		t.Errorf("error names %q, want sr_band5", missing.Slot.Source)
	}
	if !strings.Contains(err.Error(), "sr_band5") {
		t.Errorf("message %q does not name the band", err)
	}
}

func TestRemapFirstMatchWins(t *testing.T) {
	bands := fullBandList()
	dup := metadata.Band{Name: "sr_band1", FileName: "dup.img"}
	bands = append(bands, dup)

	mapped, err := Remap(bands)
	if err != nil {
		t.Fatalf("Remap returned error: %v", err)
	}
	if mapped[0].Band.FileName == "dup.img" {
		t.Error("later duplicate shadowed the first match")
	}
}
