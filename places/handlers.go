package places

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/auth"
)

// Finder is implemented by Service.
type Finder interface {
	Find(ctx context.Context, q Query) ([]Store, error)
}

// StoresResponse is the body of GET /stores.
type StoresResponse struct {
	Stores []Store `json:"stores"`
}

// Handlers serves the store finder.
type Handlers struct {
	finder Finder
}

// NewHandlers creates store finder handlers.
func NewHandlers(f Finder) *Handlers {
	return &Handlers{finder: f}
}

// RegisterRoutes mounts GET /stores.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/stores", h.HandleFindStores())
}

func parseCoordinate(raw, field string, limit float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperror.NewMissingFieldError(field)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.Abs(v) > limit {
		return 0, apperror.NewFieldValidationError(field, field+" must be a number between -"+strconv.Itoa(int(limit))+" and "+strconv.Itoa(int(limit)))
	}
	return v, nil
}

// HandleFindStores godoc
// @Summary Find sustainable stores
// @Description Nearby search (10 km) by store type, or a text search (100 km) when q is given.
// @Tags Places
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param q query string false "Free text search"
// @Param type query string false "zero_waste, refill_station, ethical_market or all"
// @Success 200 {object} places.StoresResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 502 {object} apperror.ErrorResponse
// @Router /stores [get]
func (h *Handlers) HandleFindStores() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := r.URL.Query()

		lat, err := parseCoordinate(qs.Get("lat"), "lat", 90)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		lng, err := parseCoordinate(qs.Get("lng"), "lng", 180)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		kind := strings.TrimSpace(qs.Get("type"))
		if kind != "" && !ValidType(kind) {
			auth.WriteError(w, r, apperror.NewFieldValidationError("type", "type must be one of zero_waste, refill_station, ethical_market, all"))
			return
		}

		stores, err := h.finder.Find(r.Context(), Query{Lat: lat, Lng: lng, Text: qs.Get("q"), Type: kind})
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, StoresResponse{Stores: stores})
	}
}
