// Package preflight provides readiness checks for the filesystem paths and
// external binaries that espaform depends on.
//
// The CLI "check" command surfaces the results before any conversion runs:
// directory checks confirm the configured work/output/log locations are
// usable, and the binary checks confirm gdal_translate resolves. The batch
// runner calls RunAll up front so a misconfigured run fails before touching
// any scene.
package preflight
