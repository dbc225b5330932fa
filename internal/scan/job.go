// Package scan owns the asynchronous HS code scan lifecycle: admission
// checks, the TTL-bounded job store, match enrichment and the background
// worker that drives the external classifier.
package scan

import (
	"time"

	"github.com/pbes/hscode-service/internal/classifier"
)

// Job status values. Pending is the only non-terminal state; a job never
// leaves completed or failed.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RecentEntry is one (code, description) pair kept in the recent ring.
type RecentEntry struct {
	HSCode      string `json:"hsCode"`
	Description string `json:"description"`
}

// Result is the payload of a completed scan job.
type Result struct {
	Matches       []classifier.Match `json:"matches"`
	Note          string             `json:"note,omitempty"`
	RecentHSCodes []RecentEntry      `json:"recentHsCodes"`
}

// Job tracks one scan through its lifecycle. Values stored in the Store are
// treated as immutable: terminal transitions replace the job rather than
// mutating it, so readers always see a consistent snapshot.
type Job struct {
	ID          string
	RequestID   string
	Status      string
	Result      *Result
	Error       string
	CreatedAt   time.Time
	CompletedAt *time.Time
}
