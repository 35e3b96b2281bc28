package ledger

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/logging"
	"github.com/greengauge/greengauge-go/validation"
)

// EventPurchaseRecorded is published after every successful Record.
const EventPurchaseRecorded = "purchase.recorded"

// Notifier receives ledger events. events.Broadcaster satisfies it.
type Notifier interface {
	Publish(name string, data any)
}

// Service records purchases and answers history queries.
type Service struct {
	store    Store
	notifier Notifier
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// NewService creates a Service. notifier may be nil.
func NewService(store Store, notifier Notifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		validate: validation.New(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Record validates req, coerces its numeric fields and appends one entry.
func (s *Service) Record(ctx context.Context, req SavePurchaseRequest) (*PurchaseEntry, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.Purchased != nil {
		req.Purchased.Product = strings.TrimSpace(req.Purchased.Product)
	}
	if req.Alternative != nil {
		req.Alternative.Product = strings.TrimSpace(req.Alternative.Product)
	}
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}

	purchased, err := coerceMetrics("purchased", req.Purchased)
	if err != nil {
		return nil, err
	}
	alternative, err := coerceMetrics("alternative", req.Alternative)
	if err != nil {
		return nil, err
	}

	entry := &PurchaseEntry{
		ID:           s.newID(),
		UserID:       req.UserID,
		PurchaseDate: s.now().UTC(),
		Purchased:    purchased,
		Alternative:  alternative,
	}
	if err := s.store.Append(ctx, entry); err != nil {
		return nil, asDatabaseError("failed to record purchase", err)
	}
	logging.Debugf("recorded purchase %s for user %s", entry.ID, entry.UserID)

	if s.notifier != nil {
		s.notifier.Publish(EventPurchaseRecorded, entry)
	}
	return entry, nil
}

// ListForUser returns the user's entries newest first. A user with no entries
// gets an empty, non-nil slice.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]PurchaseEntry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.NewMissingFieldError("userId")
	}

	entries, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, asDatabaseError("failed to list purchases", err)
	}
	if entries == nil {
		entries = []PurchaseEntry{}
	}
	return entries, nil
}

// ImpactForUser summarizes the user's history.
func (s *Service) ImpactForUser(ctx context.Context, userID string) (*ImpactSummary, error) {
	entries, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := Summarize(entries)
	return &summary, nil
}

func coerceMetrics(side string, in *ProductMetricsInput) (ProductMetrics, error) {
	m := ProductMetrics{Product: in.Product}
	var err error
	if m.EcoScore, err = parseNumber(side+".eco_score", in.EcoScore); err != nil {
		return m, err
	}
	if m.WaterUsage, err = parseNumber(side+".water_usage", in.WaterUsage); err != nil {
		return m, err
	}
	if m.CarbonFootprint, err = parseNumber(side+".carbon_footprint", in.CarbonFootprint); err != nil {
		return m, err
	}
	if in.WasteGenerated != nil {
		w, err := parseNumber(side+".waste_generated", in.WasteGenerated)
		if err != nil {
			return m, err
		}
		m.WasteGenerated = &w
	}
	return m, nil
}

// parseNumber accepts finite decimal numbers with an optional sign, fraction
// and exponent, e.g. "3", "-0.5", "1e3", with surrounding spaces allowed in
// string form. Hex floats and digit underscores, which strconv also reads, are
// rejected.
func parseNumber(field string, n *NumberInput) (float64, error) {
	s := strings.TrimSpace(string(*n))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || strings.ContainsAny(s, "xX_") || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, apperror.NewFieldValidationError(field, field+" must be a number, got "+strconv.Quote(string(*n)))
	}
	return f, nil
}

// asDatabaseError keeps an AppError from the store as is and wraps anything else.
func asDatabaseError(message string, err error) error {
	if _, ok := apperror.FromError(err); ok {
		return err
	}
	return apperror.NewDatabaseError(message, err)
}
