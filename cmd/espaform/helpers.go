package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"espaform/internal/config"
	"espaform/internal/ledger"
)

// resolveScenePath expands and validates a scene metadata document argument.
func resolveScenePath(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("scene metadata path is required")
	}
	path, err := config.ExpandPath(arg)
	if err != nil {
		return "", fmt.Errorf("resolve scene path: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("scene metadata %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("scene metadata %s is a directory; pass the .xml document", path)
	}
	return path, nil
}

// resolveDirPath expands and validates a directory argument.
func resolveDirPath(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("directory path is required")
	}
	path, err := config.ExpandPath(arg)
	if err != nil {
		return "", fmt.Errorf("resolve directory path: %w", err)
	}
	return path, nil
}

func formatTimestamp(ts time.Time) string {
	return ts.Local().Format("2006-01-02 15:04:05")
}

func formatRecordDuration(rec *ledger.Record) string {
	if rec == nil || rec.FinishedAt == nil {
		return "-"
	}
	d := rec.Duration()
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

// compactError collapses an error message to a single trimmed line so it
// fits in a table cell.
func compactError(message string, limit int) string {
	message = strings.TrimSpace(message)
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		message = message[:idx]
	}
	if limit > 3 && len(message) > limit {
		message = message[:limit-3] + "..."
	}
	return message
}
