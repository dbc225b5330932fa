package scan

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultJobTTL is how long a job stays reachable after creation.
	DefaultJobTTL = 30 * time.Minute

	// recentLimit bounds the recent-entries ring.
	recentLimit = 10
)

// Store holds in-flight and recently finished scan jobs plus the bounded
// ring of recently classified items. Jobs live in a sync.Map so pollers and
// workers do not contend on one lock; the small, hot recent ring is guarded
// by a plain mutex.
type Store struct {
	jobs sync.Map
	ttl  time.Duration
	now  func() time.Time

	mu     sync.Mutex
	recent []RecentEntry
}

// NewStore creates a store purging jobs older than ttl. A non-positive ttl
// falls back to DefaultJobTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultJobTTL
	}
	return &Store{
		ttl: ttl,
		now: time.Now,
	}
}

// CreateJob allocates a fresh pending job, opportunistically purging expired
// jobs first. Identifiers are never reused.
func (s *Store) CreateJob(requestID string) *Job {
	s.cleanup()

	job := &Job{
		ID:        uuid.NewString(),
		RequestID: requestID,
		Status:    StatusPending,
		CreatedAt: s.now(),
	}
	s.jobs.Store(job.ID, job)
	return job
}

// TryGetJob returns the job for id if it has not expired. An expired job is
// indistinguishable from one that never existed.
func (s *Store) TryGetJob(id string) (*Job, bool) {
	s.cleanup()

	value, ok := s.jobs.Load(id)
	if !ok {
		return nil, false
	}
	return value.(*Job), true
}

// CompleteJob moves a pending job to completed with the given result. A
// no-op when the job is absent or already terminal.
func (s *Store) CompleteJob(id string, result *Result) {
	s.finish(id, StatusCompleted, result, "")
}

// FailJob moves a pending job to failed with an error message. A no-op when
// the job is absent or already terminal.
func (s *Store) FailJob(id, message string) {
	s.finish(id, StatusFailed, nil, message)
}

// finish performs the single allowed terminal transition. The stored job is
// replaced by a new value via CompareAndSwap, so a racing Complete/Fail pair
// settles on exactly one terminal state.
func (s *Store) finish(id, status string, result *Result, message string) {
	for {
		value, ok := s.jobs.Load(id)
		if !ok {
			return
		}

		current := value.(*Job)
		if current.Status != StatusPending {
			return
		}

		completedAt := s.now()
		updated := &Job{
			ID:          current.ID,
			RequestID:   current.RequestID,
			Status:      status,
			Result:      result,
			Error:       message,
			CreatedAt:   current.CreatedAt,
			CompletedAt: &completedAt,
		}

		if s.jobs.CompareAndSwap(id, current, updated) {
			return
		}
	}
}

// RecordRecent appends a classified item to the ring, evicting the oldest
// entry past the limit. Entries without a code are ignored.
func (s *Store) RecordRecent(code, description string) {
	if strings.TrimSpace(code) == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = append(s.recent, RecentEntry{HSCode: code, Description: description})
	if len(s.recent) > recentLimit {
		s.recent = s.recent[len(s.recent)-recentLimit:]
	}
}

// Recent returns the ring contents, most recent first.
func (s *Store) Recent() []RecentEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RecentEntry, len(s.recent))
	for i, entry := range s.recent {
		out[len(s.recent)-1-i] = entry
	}
	return out
}

// cleanup drops jobs whose creation time fell outside the retention window.
func (s *Store) cleanup() {
	cutoff := s.now().Add(-s.ttl)
	s.jobs.Range(func(key, value any) bool {
		if value.(*Job).CreatedAt.Before(cutoff) {
			s.jobs.Delete(key)
		}
		return true
	})
}
