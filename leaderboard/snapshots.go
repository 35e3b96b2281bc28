package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/greengauge/greengauge-go/apperror"
)

// Snapshot is a persisted copy of the ranking at one moment.
type Snapshot struct {
	ID      int64     `json:"id" example:"42"`
	TakenAt time.Time `json:"takenAt" example:"2025-03-01T12:00:00Z"`
	Size    int       `json:"size" example:"10"`
	Entries []Row     `json:"entries"`
}

// snapshotModel maps leaderboard_snapshots. Entries is the JSON-encoded ranking.
type snapshotModel struct {
	ID      int64     `gorm:"primaryKey;autoIncrement"`
	TakenAt time.Time `gorm:"not null;index"`
	Size    int       `gorm:"not null"`
	Entries string    `gorm:"type:jsonb;not null"`
}

func (snapshotModel) TableName() string { return "leaderboard_snapshots" }

// SnapshotRepository stores snapshots with gorm.
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a SnapshotRepository.
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save persists rows as a snapshot taken at takenAt.
func (r *SnapshotRepository) Save(ctx context.Context, takenAt time.Time, size int, rows []Row) (*Snapshot, error) {
	if rows == nil {
		rows = []Row{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, apperror.NewInternalError("failed to encode leaderboard snapshot", err)
	}

	m := snapshotModel{TakenAt: takenAt.UTC(), Size: size, Entries: string(raw)}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to save leaderboard snapshot", err)
	}
	return &Snapshot{ID: m.ID, TakenAt: m.TakenAt, Size: m.Size, Entries: rows}, nil
}

// Latest returns the most recent snapshot, or a NotFoundError if there is none.
func (r *SnapshotRepository) Latest(ctx context.Context) (*Snapshot, error) {
	var m snapshotModel
	err := r.db.WithContext(ctx).Order("taken_at DESC").Order("id DESC").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("no leaderboard snapshot has been taken yet", nil)
		}
		return nil, apperror.NewDatabaseError("failed to load leaderboard snapshot", err)
	}

	s := &Snapshot{ID: m.ID, TakenAt: m.TakenAt.UTC(), Size: m.Size}
	if err := json.Unmarshal([]byte(m.Entries), &s.Entries); err != nil {
		return nil, apperror.NewInternalError("failed to decode leaderboard snapshot", err)
	}
	return s, nil
}

// Prune deletes all but the newest keep snapshots and reports how many went.
func (r *SnapshotRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}
	db := r.db.WithContext(ctx)
	newest := db.Model(&snapshotModel{}).Select("id").Order("taken_at DESC").Order("id DESC").Limit(keep)
	res := db.Where("id NOT IN (?)", newest).Delete(&snapshotModel{})
	if res.Error != nil {
		return 0, apperror.NewDatabaseError("failed to prune leaderboard snapshots", res.Error)
	}
	return res.RowsAffected, nil
}
