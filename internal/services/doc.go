// Package services defines shared utilities consumed by the conversion
// adapters and the batch workflow.
//
// Key responsibilities:
//   - Context helpers that stamp product identifiers, output formats, and
//     correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent ledger statuses (failed vs rejected).
//
// Use these helpers when wiring new conversion logic so operational
// behaviour stays uniform across the adapters.
package services
