// Package leaderboard ranks users by the average eco score of what they bought
// and keeps periodic snapshots of that ranking.
package leaderboard

import (
	"context"
	"math"
	"sort"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/ledger"
	"github.com/greengauge/greengauge-go/users"
)

// DefaultSize is the ranking length used when none is configured.
const DefaultSize = 10

// UserDirectory lists the users eligible for ranking.
type UserDirectory interface {
	ListDirectory(ctx context.Context) ([]users.DirectoryEntry, error)
}

// ScoreSource provides per-user sums and counts of purchased eco scores.
type ScoreSource interface {
	TallyPurchasedScores(ctx context.Context) ([]ledger.ScoreTally, error)
}

// Row is one ranked user.
type Row struct {
	ID        string `json:"id" example:"u2"`
	Username  string `json:"username" example:"grace@example.com"`
	FirstName string `json:"firstName" example:"Grace"`
	LastName  string `json:"lastName" example:"Hopper"`
	// EcoScore is Average rounded half away from zero.
	EcoScore  int     `json:"eco_score" example:"9"`
	Average   float64 `json:"average" example:"9"`
	Purchases int64   `json:"purchases" example:"1"`
}

// Aggregator computes the leaderboard from the user directory and the ledger.
type Aggregator struct {
	users  UserDirectory
	scores ScoreSource
}

// NewAggregator creates an Aggregator.
func NewAggregator(users UserDirectory, scores ScoreSource) *Aggregator {
	return &Aggregator{users: users, scores: scores}
}

// TopN returns at most n users ordered by rounded mean eco score, highest
// first. Ties fall back to the unrounded mean, then to user id, so the order
// is total and repeated calls agree. Users with no purchases score 0.
// n <= 0 yields an empty ranking.
func (a *Aggregator) TopN(ctx context.Context, n int) ([]Row, error) {
	if n <= 0 {
		return []Row{}, nil
	}

	directory, err := a.users.ListDirectory(ctx)
	if err != nil {
		return nil, apperror.NewAggregationError("failed to load users for leaderboard", err)
	}
	tallies, err := a.scores.TallyPurchasedScores(ctx)
	if err != nil {
		return nil, apperror.NewAggregationError("failed to load eco scores for leaderboard", err)
	}

	byUser := make(map[string]ledger.ScoreTally, len(tallies))
	for _, t := range tallies {
		byUser[t.UserID] = t
	}

	rows := make([]Row, 0, len(directory))
	for _, u := range directory {
		row := Row{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
		if t, ok := byUser[u.ID]; ok && t.Count > 0 {
			row.Average = t.Sum / float64(t.Count)
			row.Purchases = t.Count
		}
		row.EcoScore = int(math.Round(row.Average))
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].EcoScore != rows[j].EcoScore {
			return rows[i].EcoScore > rows[j].EcoScore
		}
		if rows[i].Average != rows[j].Average {
			return rows[i].Average > rows[j].Average
		}
		return rows[i].ID < rows[j].ID
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}
