package scan

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(0)

	job := store.CreateJob("req-1")
	require.NotEmpty(t, job.ID)
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, "req-1", job.RequestID)
	assert.Nil(t, job.CompletedAt)

	got, ok := store.TryGetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, job.ID, got.ID)

	other := store.CreateJob("")
	assert.NotEqual(t, job.ID, other.ID)

	_, ok = store.TryGetJob("does-not-exist")
	assert.False(t, ok)
}

func TestStoreCompleteJob(t *testing.T) {
	store := NewStore(0)
	job := store.CreateJob("")

	result := &Result{Note: "done"}
	store.CompleteJob(job.ID, result)

	got, ok := store.TryGetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, result, got.Result)
	assert.Empty(t, got.Error)
}

func TestStoreFailJob(t *testing.T) {
	store := NewStore(0)
	job := store.CreateJob("")

	store.FailJob(job.ID, "it broke")

	got, ok := store.TryGetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "it broke", got.Error)
	assert.Nil(t, got.Result)
}

func TestStoreTerminalStateIsFinal(t *testing.T) {
	store := NewStore(0)
	job := store.CreateJob("")

	store.CompleteJob(job.ID, &Result{Note: "first"})
	completedAt := mustGet(t, store, job.ID).CompletedAt

	// Neither a second completion nor a failure moves a terminal job.
	store.FailJob(job.ID, "too late")
	store.CompleteJob(job.ID, &Result{Note: "second"})

	got := mustGet(t, store, job.ID)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "first", got.Result.Note)
	assert.Equal(t, completedAt, got.CompletedAt)
}

func TestStoreTerminalOnAbsentJobIsNoop(t *testing.T) {
	store := NewStore(0)

	// Must not panic or create anything.
	store.CompleteJob("ghost", &Result{})
	store.FailJob("ghost", "nope")

	_, ok := store.TryGetJob("ghost")
	assert.False(t, ok)
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(30 * time.Minute)

	base := time.Now()
	store.now = func() time.Time { return base }

	job := store.CreateJob("")

	// Still reachable just inside the window.
	store.now = func() time.Time { return base.Add(29 * time.Minute) }
	_, ok := store.TryGetJob(job.ID)
	assert.True(t, ok)

	// Gone once the retention window has elapsed.
	store.now = func() time.Time { return base.Add(31 * time.Minute) }
	_, ok = store.TryGetJob(job.ID)
	assert.False(t, ok)

	// Terminal transitions on the purged job are no-ops.
	store.CompleteJob(job.ID, &Result{})
	_, ok = store.TryGetJob(job.ID)
	assert.False(t, ok)
}

func TestRecentRing(t *testing.T) {
	store := NewStore(0)

	assert.Empty(t, store.Recent())

	for i := 1; i <= 11; i++ {
		store.RecordRecent(fmt.Sprintf("code-%d", i), fmt.Sprintf("item %d", i))
	}

	recent := store.Recent()
	require.Len(t, recent, 10)

	// Most recent first; the very first insert has been evicted.
	assert.Equal(t, "code-11", recent[0].HSCode)
	assert.Equal(t, "code-2", recent[9].HSCode)
	for _, entry := range recent {
		assert.NotEqual(t, "code-1", entry.HSCode)
	}
}

func TestRecentRingIgnoresEmptyCode(t *testing.T) {
	store := NewStore(0)

	store.RecordRecent("", "no code")
	store.RecordRecent("   ", "blank code")
	assert.Empty(t, store.Recent())

	store.RecordRecent("1234.56", "pressure cooker")
	require.Len(t, store.Recent(), 1)
}

func mustGet(t *testing.T, store *Store, id string) *Job {
	t.Helper()
	job, ok := store.TryGetJob(id)
	require.True(t, ok)
	return job
}
