// Package places finds sustainable stores near a location with the Google
// Places API.
package places

import (
	"context"
	"net/http"
	"strings"

	"googlemaps.github.io/maps"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/config"
	"github.com/greengauge/greengauge-go/logging"
)

const (
	nearbyRadius = 10000  // meters
	textRadius   = 100000 // meters
)

// Store types accepted by the type filter.
const (
	TypeAll           = "all"
	TypeZeroWaste     = "zero_waste"
	TypeRefillStation = "refill_station"
	TypeEthicalMarket = "ethical_market"
)

var keywords = map[string]string{
	TypeAll:           "sustainable store",
	TypeZeroWaste:     "zero waste store",
	TypeRefillStation: "refill station",
	TypeEthicalMarket: "ethical market",
}

// ValidType reports whether t is a known store type.
func ValidType(t string) bool {
	_, ok := keywords[t]
	return ok
}

// Searcher is the subset of *maps.Client used here.
type Searcher interface {
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
}

// Location is a latitude/longitude pair.
type Location struct {
	Lat float64 `json:"lat" example:"52.52"`
	Lng float64 `json:"lng" example:"13.405"`
}

// Geometry wraps a store's coordinates.
type Geometry struct {
	Location Location `json:"location"`
}

// Store is one search result.
type Store struct {
	ID       string   `json:"id" example:"ChIJN1t_tDeuEmsRUsoyG83frY4"`
	Name     string   `json:"name" example:"Original Unverpackt"`
	Address  string   `json:"address"`
	Rating   float64  `json:"rating,omitempty" example:"4.6"`
	Types    []string `json:"types"`
	Vicinity string   `json:"vicinity"`
	Geometry Geometry `json:"geometry"`
}

// Query describes a store search.
type Query struct {
	Lat, Lng float64
	Text     string // free text; empty means a nearby search
	Type     string
}

// Service runs store searches.
type Service struct {
	searcher Searcher
}

// NewService creates a Service for cfg. Without an API key every search
// fails with "store search is not configured".
func NewService(cfg *config.PlacesConfig) (*Service, error) {
	if cfg.APIKey == "" {
		return &Service{}, nil
	}
	client, err := maps.NewClient(
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err != nil {
		return nil, apperror.NewConfigError("failed to create places client", err)
	}
	return &Service{searcher: client}, nil
}

// NewServiceWithSearcher creates a Service over an existing searcher.
func NewServiceWithSearcher(s Searcher) *Service {
	return &Service{searcher: s}
}

// Find runs a text search when q.Text is set and a nearby search otherwise.
func (s *Service) Find(ctx context.Context, q Query) ([]Store, error) {
	if s.searcher == nil {
		return nil, apperror.NewExternalServiceError("store search is not configured", nil)
	}

	loc := &maps.LatLng{Lat: q.Lat, Lng: q.Lng}
	var (
		resp maps.PlacesSearchResponse
		err  error
	)
	if text := strings.TrimSpace(q.Text); text != "" {
		resp, err = s.searcher.TextSearch(ctx, &maps.TextSearchRequest{
			Query:    text,
			Location: loc,
			Radius:   textRadius,
		})
	} else {
		kind := q.Type
		if kind == "" {
			kind = TypeAll
		}
		resp, err = s.searcher.NearbySearch(ctx, &maps.NearbySearchRequest{
			Location: loc,
			Radius:   nearbyRadius,
			Keyword:  keywords[kind],
		})
	}
	if err != nil {
		return nil, apperror.NewExternalServiceError("store search failed", err)
	}

	stores := make([]Store, 0, len(resp.Results))
	for _, r := range resp.Results {
		addr := r.FormattedAddress
		if addr == "" {
			addr = r.Vicinity
		}
		types := r.Types
		if types == nil {
			types = []string{}
		}
		stores = append(stores, Store{
			ID:       r.PlaceID,
			Name:     r.Name,
			Address:  addr,
			Rating:   float64(r.Rating),
			Types:    types,
			Vicinity: r.Vicinity,
			Geometry: Geometry{Location: Location{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng}},
		})
	}
	logging.Debugf("store search at %.4f,%.4f returned %d results", q.Lat, q.Lng, len(stores))
	return stores, nil
}
