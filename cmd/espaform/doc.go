// Package main hosts the espaform CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into scene
// conversions, batch runs, S3 staging fetches, metadata inspection, footprint
// rendering, conversion history queries, and configuration scaffolding. It
// centralizes configuration resolution, logger construction, and ledger
// access so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
