package history

import (
	"fmt"
	"strings"
	"time"
)

// Status is the outcome of one ingest run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusRejected  Status = "rejected"
	StatusFailed    Status = "failed"
)

var statuses = []Status{StatusSucceeded, StatusRejected, StatusFailed}

// AllStatuses returns every status in display order.
func AllStatuses() []Status {
	return append([]Status(nil), statuses...)
}

// ParseStatus accepts a status name case-insensitively.
func ParseStatus(value string) (Status, error) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range statuses {
		if s == normalized {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown history status %q", value)
}

// Run is one ledger row.
type Run struct {
	ID        int64
	RunID     string
	Issue     string
	Kind      string
	Slug      string
	Title     string
	Added     int
	Skipped   int
	Status    Status
	Error     string
	CreatedAt time.Time
}

// Succeeded reports whether the run changed or confirmed the catalog.
func (r Run) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// Filter narrows List results. Zero values match everything; Limit <= 0 means
// no limit.
type Filter struct {
	Kind     string
	Issue    string
	Statuses []Status
	Limit    int
}
