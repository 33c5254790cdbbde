// internal/api/job/store_test.go
package job

import (
	"errors"
	"testing"
	"time"

	"ballast/internal/core"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(100, time.Hour)

	job := store.Create("backtest")
	if job.ID == "" {
		t.Error("expected job ID")
	}
	if job.Status != StatusPending {
		t.Errorf("expected pending, got %s", job.Status)
	}

	retrieved, err := store.Get(job.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if retrieved.ID != job.ID {
		t.Error("IDs don't match")
	}
}

func TestStore_Update(t *testing.T) {
	store := NewStore(100, time.Hour)
	job := store.Create("backtest")

	err := store.Update(job.ID, func(j *Job) {
		j.Status = StatusRunning
		j.Progress = 50
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	retrieved, _ := store.Get(job.ID)
	if retrieved.Status != StatusRunning {
		t.Errorf("expected running, got %s", retrieved.Status)
	}
	if retrieved.Progress != 50 {
		t.Errorf("expected 50, got %d", retrieved.Progress)
	}
}

func TestStore_MaxSize(t *testing.T) {
	store := NewStore(2, time.Hour)

	job1 := store.Create("backtest")
	store.Create("backtest")
	store.Create("backtest") // evicts job1

	_, err := store.Get(job1.ID)
	if err == nil {
		t.Error("expected job1 to be evicted")
	}
}

func TestStore_NotFound(t *testing.T) {
	store := NewStore(100, time.Hour)

	_, err := store.Get("nonexistent")
	if err == nil {
		t.Fatal("expected error for nonexistent job")
	}
	if !errors.Is(err, core.ErrJobNotFound) {
		t.Errorf("error = %v, want ErrJobNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	store := NewStore(100, time.Hour)
	first := store.Create("backtest")
	store.Create("backtest")

	jobs := store.List()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != first.ID {
		t.Error("expected oldest job first")
	}
}

func TestStore_Active(t *testing.T) {
	store := NewStore(100, time.Hour)
	a := store.Create("backtest")
	store.Create("backtest")

	if got := store.Active(); got != 2 {
		t.Errorf("Active = %d, want 2", got)
	}

	store.Update(a.ID, func(j *Job) { j.Status = StatusComplete })
	if got := store.Active(); got != 1 {
		t.Errorf("Active = %d, want 1 after completion", got)
	}
}

func TestStore_TTLPurgesFinishedJobs(t *testing.T) {
	store := NewStore(100, time.Minute)
	clock := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	done := store.Create("backtest")
	store.Update(done.ID, func(j *Job) { j.Status = StatusComplete })
	running := store.Create("backtest")
	store.Update(running.ID, func(j *Job) { j.Status = StatusRunning })

	// Past the TTL the next Create sweeps the finished job out but
	// leaves the running one alone.
	clock = clock.Add(2 * time.Minute)
	store.Create("backtest")

	if _, err := store.Get(done.ID); err == nil {
		t.Error("expected finished job to age out")
	}
	if _, err := store.Get(running.ID); err != nil {
		t.Errorf("running job should survive the purge: %v", err)
	}
}
