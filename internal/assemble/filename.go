package assemble

import (
	"fmt"
	"strings"
)

// maxFileNameLen caps a derived output filename. Overflow is a
// configuration problem with the base name, not a retryable condition.
const maxFileNameLen = 1024

// BandFileName derives the output raster filename for one band: base
// name, underscore, band name, then ext, with every blank in the result
// replaced by an underscore so shell-invoked tools never see a split
// argument.
func BandFileName(base, bandName, ext string) (string, error) {
	name := strings.ReplaceAll(base+"_"+bandName+ext, " ", "_")
	if len(name) >= maxFileNameLen {
		return "", fmt.Errorf("derived filename for band %q exceeds %d characters", bandName, maxFileNameLen)
	}
	return name, nil
}
