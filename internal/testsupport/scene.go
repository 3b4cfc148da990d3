package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"espaform/internal/sds"
)

// SceneDoc renders a metadata document whose band list fills every
// required legacy slot, named after the given product.
func SceneDoc(productID string) string {
	var bands strings.Builder
	for _, slot := range sds.Table {
		if slot.Optional {
			continue
		}
		fmt.Fprintf(&bands, `
    <band product="sr_refl" name="%s" category="image" data_type="INT16" nlines="120" nsamps="160" fill_value="-9999">
      <short_name>LT5SR</short_name>
      <long_name>%s</long_name>
      <file_name>%s_%s.img</file_name>
      <pixel_size x="30" y="30" units="meters"/>
      <data_units>reflectance</data_units>
    </band>`, slot.Source, slot.Source, productID, slot.Source)
	}
	return fmt.Sprintf(`<espa_metadata version="1.2">
  <global_metadata>
    <data_provider>USGS/EROS</data_provider>
    <satellite>LANDSAT_5</satellite>
    <instrument>TM</instrument>
    <acquisition_date>2010-06-01</acquisition_date>
    <solar_angles zenith="31.9" azimuth="127.5" units="degrees"/>
    <wrs system="2" path="45" row="30"/>
    <corner location="UL" latitude="44.6" longitude="-124.0"/>
    <corner location="LR" latitude="42.4" longitude="-121.3"/>
    <bounding_coordinates>
      <west>-124.0</west>
      <east>-121.3</east>
      <north>44.6</north>
      <south>42.4</south>
    </bounding_coordinates>
  </global_metadata>
  <bands>%s
  </bands>
</espa_metadata>`, bands.String())
}

// WriteScene writes SceneDoc(productID) into dir as <productID>.xml and
// returns the document path.
func WriteScene(t testing.TB, dir, productID string) string {
	t.Helper()

	path := filepath.Join(dir, productID+".xml")
	if err := os.WriteFile(path, []byte(SceneDoc(productID)), 0o644); err != nil {
		t.Fatalf("write scene document: %v", err)
	}
	return path
}

// WriteSceneWithBands writes the scene document plus a raster file per
// required band, sized to match the document's 120x160 INT16 geometry.
func WriteSceneWithBands(t testing.TB, dir, productID string) string {
	t.Helper()

	path := WriteScene(t, dir, productID)
	for _, slot := range sds.Table {
		if slot.Optional {
			continue
		}
		WriteFile(t, filepath.Join(dir, fmt.Sprintf("%s_%s.img", productID, slot.Source)), 120*160*2)
	}
	return path
}
