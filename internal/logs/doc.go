// Package logs tails the conversion log file for the CLI.
//
// It reads log files with bounded memory usage, supports negative offsets
// for "last N lines" requests, and powers follow-mode updates for
// `espaform logs --follow`. Callers supply context deadlines so background
// polling shuts down cleanly when the CLI exits.
package logs
