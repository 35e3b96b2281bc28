package background

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/leaderboard"
)

type fakeRanker struct {
	rows []leaderboard.Row
	err  error
	gotN int
}

func (f *fakeRanker) TopN(_ context.Context, n int) ([]leaderboard.Row, error) {
	f.gotN = n
	return f.rows, f.err
}

type fakeStore struct {
	mu        sync.Mutex
	saved     []leaderboard.Snapshot
	keepAsked []int
	pruneErr  error
}

func (f *fakeStore) Save(_ context.Context, takenAt time.Time, size int, rows []leaderboard.Row) (*leaderboard.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := leaderboard.Snapshot{ID: int64(len(f.saved) + 1), TakenAt: takenAt, Size: size, Entries: rows}
	f.saved = append(f.saved, s)
	return &s, nil
}

func (f *fakeStore) Prune(_ context.Context, keep int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keepAsked = append(f.keepAsked, keep)
	return 0, f.pruneErr
}

func (f *fakeStore) saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakePublisher struct {
	mu    sync.Mutex
	names []string
}

func (f *fakePublisher) Publish(name string, _ any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
}

func TestSnapshotJobRun(t *testing.T) {
	ranker := &fakeRanker{rows: []leaderboard.Row{{ID: "u2", EcoScore: 9}, {ID: "u1", EcoScore: 7}}}
	store := &fakeStore{}
	pub := &fakePublisher{}
	job := NewSnapshotJob(ranker, store, pub, 10, 24)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	snap, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if ranker.gotN != 10 {
		t.Errorf("TopN(%d), want 10", ranker.gotN)
	}
	if !snap.TakenAt.Equal(fixed) || len(snap.Entries) != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(store.keepAsked) != 1 || store.keepAsked[0] != 24 {
		t.Errorf("Prune calls = %v, want [24]", store.keepAsked)
	}
	if len(pub.names) != 1 || pub.names[0] != EventLeaderboardSnapshot {
		t.Errorf("published = %v", pub.names)
	}
}

func TestSnapshotJobRankingFailureStoresNothing(t *testing.T) {
	ranker := &fakeRanker{err: apperror.NewAggregationError("failed to load users for leaderboard", errors.New("down"))}
	store := &fakeStore{}
	pub := &fakePublisher{}

	_, err := NewSnapshotJob(ranker, store, pub, 10, 24).Run(context.Background())

	if !apperror.IsAggregationError(err) {
		t.Fatalf("Run error = %v, want aggregation error", err)
	}
	if store.saves() != 0 || len(pub.names) != 0 {
		t.Errorf("failed run saved %d snapshots and published %v", store.saves(), pub.names)
	}
}

func TestSnapshotJobPruneFailureKeepsSnapshot(t *testing.T) {
	store := &fakeStore{pruneErr: errors.New("lock timeout")}

	snap, err := NewSnapshotJob(&fakeRanker{}, store, nil, 10, 24).Run(context.Background())

	if err != nil {
		t.Fatalf("Run error = %v, want nil", err)
	}
	if snap == nil || store.saves() != 1 {
		t.Errorf("snapshot not kept after prune failure")
	}
}

func TestStartSchedulerRunsImmediately(t *testing.T) {
	store := &fakeStore{}
	job := NewSnapshotJob(&fakeRanker{}, store, nil, 10, 24)

	sched, err := StartScheduler(job, time.Hour)
	if err != nil {
		t.Fatalf("StartScheduler failed: %v", err)
	}
	defer sched.Shutdown()

	deadline := time.Now().Add(5 * time.Second)
	for store.saves() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("scheduler did not run the job")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
