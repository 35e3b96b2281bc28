package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/greengauge/greengauge-go/apperror"
)

type stubRanker struct {
	gotN int
	rows []Row
	err  error
}

func (s *stubRanker) TopN(_ context.Context, n int) ([]Row, error) {
	s.gotN = n
	return s.rows, s.err
}

type stubSnapshots struct {
	snap *Snapshot
	err  error
}

func (s stubSnapshots) Latest(context.Context) (*Snapshot, error) { return s.snap, s.err }

func serve(h *Handlers, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleLeaderboard(t *testing.T) {
	ranker := &stubRanker{rows: []Row{{ID: "u2", EcoScore: 9}, {ID: "u1", EcoScore: 7}}}
	h := NewHandlers(ranker, stubSnapshots{}, 0)

	rec := serve(h, "/leaderboard")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ranker.gotN != DefaultSize {
		t.Errorf("TopN called with %d, want %d", ranker.gotN, DefaultSize)
	}
	var body LeaderboardResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Users) != 2 || body.Users[0].ID != "u2" {
		t.Errorf("users = %+v", body.Users)
	}
}

func TestHandleLeaderboardLimit(t *testing.T) {
	tests := []struct {
		query      string
		wantStatus int
		wantN      int
	}{
		{"?limit=3", http.StatusOK, 3},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=abc", http.StatusBadRequest, 0},
		{"?limit=101", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		ranker := &stubRanker{rows: []Row{}}
		rec := serve(NewHandlers(ranker, stubSnapshots{}, 10), "/leaderboard"+tt.query)
		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.query, rec.Code, tt.wantStatus)
		}
		if ranker.gotN != tt.wantN {
			t.Errorf("%s: TopN(%d), want %d", tt.query, ranker.gotN, tt.wantN)
		}
	}
}

func TestHandleLeaderboardAggregationFailureIs500(t *testing.T) {
	ranker := &stubRanker{err: apperror.NewAggregationError("failed to load users for leaderboard", errors.New("timeout"))}

	rec := serve(NewHandlers(ranker, stubSnapshots{}, 10), "/leaderboard")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body apperror.ErrorResponse
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Error != "failed to load users for leaderboard" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestHandleLatestSnapshot(t *testing.T) {
	rec := serve(NewHandlers(&stubRanker{}, stubSnapshots{err: apperror.NewNotFoundError("none", nil)}, 10), "/leaderboard/snapshots/latest")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status without snapshot = %d, want 404", rec.Code)
	}

	snap := &Snapshot{ID: 1, Size: 10, Entries: []Row{{ID: "u1"}}}
	rec = serve(NewHandlers(&stubRanker{}, stubSnapshots{snap: snap}, 10), "/leaderboard/snapshots/latest")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != 1 || len(got.Entries) != 1 {
		t.Errorf("snapshot = %+v", got)
	}
}
