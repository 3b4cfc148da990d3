// Package metadata models one satellite scene's ESPA metadata document:
// the global scene description plus its ordered list of raster bands.
//
// The upstream production chain marks absent fields with reserved fill
// values (-3333 for numbers, "undefined" for text). Parse performs the
// fill-to-optional translation exactly once, so downstream packages test
// presence with a nil or empty check instead of re-comparing magic
// numbers. Band order from the source document is preserved; converters
// that need a different order impose it themselves.
package metadata
