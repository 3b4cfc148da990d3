// Package ledger records every conversion attempt in SQLite.
//
// The Store manages the database connection, schema initialization, and
// the record lifecycle: Begin inserts a running record when a conversion
// starts, Finish stamps the terminal status when it ends. Records carry
// the product id, the requested output format, the output path, and any
// error detail, so the history command can answer "what happened to that
// scene" long after the logs have rotated.
//
// The ledger is an audit trail, not a work queue. Nothing reads it to
// decide what to convert next, and deleting the database loses history
// only.
package ledger
