package leaderboard

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/auth"
)

const maxLimit = 100

// Ranker is the part of Aggregator the handlers need.
type Ranker interface {
	TopN(ctx context.Context, n int) ([]Row, error)
}

// SnapshotReader loads the most recent snapshot.
type SnapshotReader interface {
	Latest(ctx context.Context) (*Snapshot, error)
}

// LeaderboardResponse is the body of GET /leaderboard.
type LeaderboardResponse struct {
	Users []Row `json:"users"`
}

// Handlers serves the leaderboard.
type Handlers struct {
	ranker    Ranker
	snapshots SnapshotReader
	size      int
}

// NewHandlers creates leaderboard handlers ranking size users by default.
func NewHandlers(ranker Ranker, snapshots SnapshotReader, size int) *Handlers {
	if size <= 0 {
		size = DefaultSize
	}
	return &Handlers{ranker: ranker, snapshots: snapshots, size: size}
}

// RegisterRoutes mounts the public leaderboard endpoints.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/leaderboard", h.HandleLeaderboard())
	r.Get("/leaderboard/snapshots/latest", h.HandleLatestSnapshot())
}

// HandleLeaderboard godoc
// @Summary Leaderboard
// @Description Users ranked by the rounded average eco score of their purchases. Users without purchases score 0.
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "Number of users (1-100), defaults to the configured size"
// @Success 200 {object} leaderboard.LeaderboardResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /leaderboard [get]
func (h *Handlers) HandleLeaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := h.size
		if raw := r.URL.Query().Get("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 || v > maxLimit {
				auth.WriteError(w, r, apperror.NewFieldValidationError("limit", "limit must be an integer between 1 and 100"))
				return
			}
			n = v
		}

		rows, err := h.ranker.TopN(r.Context(), n)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, LeaderboardResponse{Users: rows})
	}
}

// HandleLatestSnapshot godoc
// @Summary Latest leaderboard snapshot
// @Tags Leaderboard
// @Produce json
// @Success 200 {object} leaderboard.Snapshot
// @Failure 404 {object} apperror.ErrorResponse "No snapshot yet"
// @Failure 500 {object} apperror.ErrorResponse
// @Router /leaderboard/snapshots/latest [get]
func (h *Handlers) HandleLatestSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := h.snapshots.Latest(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, snap)
	}
}
