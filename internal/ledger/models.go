package ledger

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a conversion record.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusRejected  Status = "rejected"
)

// Output formats recorded against a conversion.
const (
	FormatHDF  = "hdf"
	FormatGTIF = "gtif"
)

var allStatuses = []Status{StatusRunning, StatusSucceeded, StatusFailed, StatusRejected}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether the status reflects a finished conversion.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusRejected:
		return true
	default:
		return false
	}
}

// Record represents one conversion attempt persisted in SQLite.
type Record struct {
	ID           string
	ProductID    string
	Format       string
	OutputPath   string
	Status       Status
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Duration returns how long the conversion ran, or zero while it is
// still running.
func (r *Record) Duration() time.Duration {
	if r == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary aggregates record counts per lifecycle state.
type Summary struct {
	Total     int
	Running   int
	Succeeded int
	Failed    int
	Rejected  int
}
