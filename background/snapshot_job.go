// Package background runs GreenGauge's periodic jobs.
package background

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/leaderboard"
	"github.com/greengauge/greengauge-go/logging"
)

// EventLeaderboardSnapshot is published after each stored snapshot.
const EventLeaderboardSnapshot = "leaderboard.snapshot"

const snapshotRunTimeout = 2 * time.Minute

// Ranker computes the current leaderboard.
type Ranker interface {
	TopN(ctx context.Context, n int) ([]leaderboard.Row, error)
}

// SnapshotStore persists and prunes snapshots.
type SnapshotStore interface {
	Save(ctx context.Context, takenAt time.Time, size int, rows []leaderboard.Row) (*leaderboard.Snapshot, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

// Publisher announces finished snapshots. It may be nil.
type Publisher interface {
	Publish(name string, data any)
}

// SnapshotJob stores the current ranking and trims old snapshots.
type SnapshotJob struct {
	ranker    Ranker
	store     SnapshotStore
	publisher Publisher
	size      int
	keep      int
	now       func() time.Time
}

// NewSnapshotJob creates a job that snapshots the top size users and keeps
// the newest keep snapshots.
func NewSnapshotJob(ranker Ranker, store SnapshotStore, publisher Publisher, size, keep int) *SnapshotJob {
	return &SnapshotJob{
		ranker:    ranker,
		store:     store,
		publisher: publisher,
		size:      size,
		keep:      keep,
		now:       time.Now,
	}
}

// Run takes one snapshot. A failed ranking stores nothing.
func (j *SnapshotJob) Run(ctx context.Context) (*leaderboard.Snapshot, error) {
	takenAt := j.now().UTC()

	rows, err := j.ranker.TopN(ctx, j.size)
	if err != nil {
		return nil, err
	}

	snap, err := j.store.Save(ctx, takenAt, j.size, rows)
	if err != nil {
		return nil, err
	}

	pruned, err := j.store.Prune(ctx, j.keep)
	if err != nil {
		// The new snapshot is stored; old ones go next time.
		logging.Warnf("leaderboard snapshot %d saved but pruning failed: %v", snap.ID, err)
	} else if pruned > 0 {
		logging.Debugf("pruned %d old leaderboard snapshots", pruned)
	}

	if j.publisher != nil {
		j.publisher.Publish(EventLeaderboardSnapshot, snap)
	}
	logging.Infof("leaderboard snapshot %d taken with %d users", snap.ID, len(snap.Entries))
	return snap, nil
}

// StartScheduler runs job every interval, starting now. Runs never overlap:
// a run that is still busy when the next is due pushes it back. Call
// Shutdown on the returned scheduler to stop.
func StartScheduler(job *SnapshotJob, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, apperror.NewInternalError("failed to create scheduler", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), snapshotRunTimeout)
			defer cancel()
			if _, err := job.Run(ctx); err != nil {
				logging.Errorf("leaderboard snapshot failed: %v", err)
			}
		}),
		gocron.WithName("leaderboard-snapshot"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, apperror.NewInternalError("failed to schedule leaderboard snapshots", err)
	}

	sched.Start()
	logging.Infof("leaderboard snapshots scheduled every %s", interval)
	return sched, nil
}
