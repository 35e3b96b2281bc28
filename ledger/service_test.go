package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/greengauge/greengauge-go/apperror"
)

type recordedEvent struct {
	name string
	data any
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeNotifier) Publish(name string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{name, data})
}

type failingStore struct{ err error }

func (f failingStore) Append(context.Context, *PurchaseEntry) error { return f.err }
func (f failingStore) ListByUser(context.Context, string) ([]PurchaseEntry, error) {
	return nil, f.err
}

type nilListStore struct{ failingStore }

func (nilListStore) ListByUser(context.Context, string) ([]PurchaseEntry, error) { return nil, nil }

func newTestService(t *testing.T) (*Service, *SQLStore, *fakeNotifier) {
	t.Helper()
	store := NewSQLStore(setupTestDB(t))
	notifier := &fakeNotifier{}
	s := NewService(store, notifier)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var n int
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	s.newID = func() string { return fmt.Sprintf("p%d", n+1) }
	return s, store, notifier
}

func plasticBottleRequest() SavePurchaseRequest {
	return SavePurchaseRequest{
		UserID: "u1",
		Purchased: &ProductMetricsInput{
			Product:         "Plastic Bottle",
			EcoScore:        Number("3"),
			WaterUsage:      Number("5"),
			CarbonFootprint: Number("82.8"),
		},
		Alternative: &ProductMetricsInput{
			Product:         "Steel Bottle",
			EcoScore:        Number("8"),
			WaterUsage:      Number("2"),
			CarbonFootprint: Number("21.5"),
		},
	}
}

func TestRecordCoercesStringNumbers(t *testing.T) {
	s, _, notifier := newTestService(t)
	ctx := context.Background()

	// Given: metrics sent as strings
	req := plasticBottleRequest()

	// When
	entry, err := s.Record(ctx, req)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// Then: history holds exactly that entry with numeric fields
	history, err := s.ListForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(history))
	}
	got := history[0]
	if got.ID != entry.ID {
		t.Errorf("ID = %s, want %s", got.ID, entry.ID)
	}
	if got.Purchased.EcoScore != 3 || got.Purchased.CarbonFootprint != 82.8 || got.Alternative.EcoScore != 8 {
		t.Errorf("unexpected metrics: %+v / %+v", got.Purchased, got.Alternative)
	}

	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var asMap struct {
		Purchased map[string]any `json:"purchased"`
	}
	if err := json.Unmarshal(raw, &asMap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, isNumber := asMap.Purchased["eco_score"].(float64); !isNumber {
		t.Errorf("purchased.eco_score serialized as %T, want number", asMap.Purchased["eco_score"])
	}

	if len(notifier.events) != 1 || notifier.events[0].name != EventPurchaseRecorded {
		t.Errorf("events = %+v, want one %s", notifier.events, EventPurchaseRecorded)
	}
}

func TestRecordAcceptsJSONNumbersAndStrings(t *testing.T) {
	s, _, _ := newTestService(t)
	body := `{
		"userId": " u1 ",
		"purchased": {"product": " Plastic Bottle ", "eco_score": 3, "water_usage": "5", "carbon_footprint": " 82.8 ", "waste_generated": null},
		"alternative": {"product": "Steel Bottle", "eco_score": "8", "water_usage": 2, "carbon_footprint": 21.5, "waste_generated": "0.1"}
	}`

	var req SavePurchaseRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	entry, err := s.Record(context.Background(), req)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if entry.UserID != "u1" || entry.Purchased.Product != "Plastic Bottle" {
		t.Errorf("strings not trimmed: %q %q", entry.UserID, entry.Purchased.Product)
	}
	if entry.Purchased.WasteGenerated != nil {
		t.Errorf("null waste should be absent, got %v", *entry.Purchased.WasteGenerated)
	}
	if entry.Alternative.WasteGenerated == nil || *entry.Alternative.WasteGenerated != 0.1 {
		t.Errorf("alternative waste = %v, want 0.1", entry.Alternative.WasteGenerated)
	}
	if entry.Purchased.CarbonFootprint != 82.8 {
		t.Errorf("carbon_footprint = %v, want 82.8", entry.Purchased.CarbonFootprint)
	}
}

func TestRecordNumericGrammar(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"3", 3},
		{"+3", 3},
		{"-0.5", -0.5},
		{".5", 0.5},
		{"1e3", 1000},
		{"2.5E-1", 0.25},
		{" 7 ", 7},
	}
	for _, tt := range tests {
		s, _, _ := newTestService(t)
		req := plasticBottleRequest()
		req.Purchased.EcoScore = Number(tt.in)

		entry, err := s.Record(context.Background(), req)
		if err != nil {
			t.Errorf("Record(eco_score=%q) failed: %v", tt.in, err)
			continue
		}
		if entry.Purchased.EcoScore != tt.want {
			t.Errorf("eco_score %q = %v, want %v", tt.in, entry.Purchased.EcoScore, tt.want)
		}
	}
}

func TestRecordValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*SavePurchaseRequest)
		wantMissing bool
		wantField   string
	}{
		{"missing alternative", func(r *SavePurchaseRequest) { r.Alternative = nil }, true, "alternative"},
		{"missing purchased", func(r *SavePurchaseRequest) { r.Purchased = nil }, true, "purchased"},
		{"blank user id", func(r *SavePurchaseRequest) { r.UserID = "  " }, true, "userId"},
		{"blank product", func(r *SavePurchaseRequest) { r.Purchased.Product = " " }, true, "purchased.product"},
		{"missing eco score", func(r *SavePurchaseRequest) { r.Alternative.EcoScore = nil }, true, "alternative.eco_score"},
		{"non-numeric eco score", func(r *SavePurchaseRequest) { r.Purchased.EcoScore = Number("abc") }, false, "purchased.eco_score"},
		{"empty string water", func(r *SavePurchaseRequest) { r.Purchased.WaterUsage = Number("") }, false, "purchased.water_usage"},
		{"infinite carbon", func(r *SavePurchaseRequest) { r.Alternative.CarbonFootprint = Number("Inf") }, false, "alternative.carbon_footprint"},
		{"non-numeric optional waste", func(r *SavePurchaseRequest) { r.Alternative.WasteGenerated = Number("lots") }, false, "alternative.waste_generated"},
		{"hex float eco score", func(r *SavePurchaseRequest) { r.Purchased.EcoScore = Number("0x1p3") }, false, "purchased.eco_score"},
		{"underscored water", func(r *SavePurchaseRequest) { r.Alternative.WaterUsage = Number("1_000") }, false, "alternative.water_usage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store, notifier := newTestService(t)
			req := plasticBottleRequest()
			tt.mutate(&req)

			_, err := s.Record(context.Background(), req)

			if !apperror.IsValidationError(err) {
				t.Fatalf("Record error = %v, want validation error", err)
			}
			if apperror.IsMissingField(err) != tt.wantMissing {
				t.Errorf("IsMissingField = %v, want %v (%v)", apperror.IsMissingField(err), tt.wantMissing, err)
			}
			appErr, _ := apperror.FromError(err)
			if appErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.wantField)
			}

			n, err := store.Count(context.Background())
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if n != 0 {
				t.Errorf("ledger has %d entries after a rejected record", n)
			}
			if len(notifier.events) != 0 {
				t.Errorf("rejected record published %d events", len(notifier.events))
			}
		})
	}
}

func TestRecordStoreFaultIsDatabaseError(t *testing.T) {
	notifier := &fakeNotifier{}
	s := NewService(failingStore{err: errors.New("disk full")}, notifier)

	_, err := s.Record(context.Background(), plasticBottleRequest())

	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Type != apperror.DatabaseError {
		t.Fatalf("Record error = %v, want DatabaseError", err)
	}
	if len(notifier.events) != 0 {
		t.Errorf("failed record published an event")
	}
}

func TestListForUser(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.Record(ctx, plasticBottleRequest()); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	history, err := s.ListForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].PurchaseDate.After(history[i-1].PurchaseDate) {
			t.Errorf("entry %d is newer than entry %d", i, i-1)
		}
	}

	empty, err := s.ListForUser(ctx, "u-without-purchases")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListForUser(unknown) = %#v, want empty non-nil slice", empty)
	}
	raw, _ := json.Marshal(empty)
	if string(raw) != "[]" {
		t.Errorf("empty history serializes as %s, want []", raw)
	}
}

func TestListForUserNilFromStoreBecomesEmpty(t *testing.T) {
	s := NewService(nilListStore{}, nil)

	got, err := s.ListForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if got == nil {
		t.Errorf("ListForUser returned nil, want empty slice")
	}
}

func TestListForUserErrors(t *testing.T) {
	s := NewService(failingStore{err: errors.New("connection refused")}, nil)

	if _, err := s.ListForUser(context.Background(), " "); !apperror.IsValidationError(err) {
		t.Errorf("ListForUser(blank) error = %v, want validation error", err)
	}

	_, err := s.ListForUser(context.Background(), "u1")
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Type != apperror.DatabaseError {
		t.Fatalf("ListForUser error = %v, want DatabaseError", err)
	}
	if appErr.ToResponse().Error != "failed to list purchases" {
		t.Errorf("client message = %q leaks detail", appErr.ToResponse().Error)
	}
}

func TestImpactForUser(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	req := plasticBottleRequest()
	if _, err := s.Record(ctx, req); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	req = plasticBottleRequest()
	req.Purchased.EcoScore = Number("6")
	req.Purchased.WasteGenerated = Number("1.5")
	req.Alternative.WasteGenerated = Number("0.5")
	if _, err := s.Record(ctx, req); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	impact, err := s.ImpactForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ImpactForUser failed: %v", err)
	}

	if impact.Purchases != 2 {
		t.Errorf("Purchases = %d, want 2", impact.Purchases)
	}
	if impact.AverageEcoScore != 4.5 || impact.AverageAlternativeEcoScore != 8 {
		t.Errorf("averages = %v / %v, want 4.5 / 8", impact.AverageEcoScore, impact.AverageAlternativeEcoScore)
	}
	if diff := impact.CarbonSaved - 2*(82.8-21.5); diff > 1e-9 || diff < -1e-9 {
		t.Errorf("CarbonSaved = %v, want %v", impact.CarbonSaved, 2*(82.8-21.5))
	}
	if impact.WaterSaved != 6 {
		t.Errorf("WaterSaved = %v, want 6", impact.WaterSaved)
	}
	if impact.WasteSaved != 1 || impact.WasteCompared != 1 {
		t.Errorf("waste = %v over %d, want 1 over 1", impact.WasteSaved, impact.WasteCompared)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil); got != (ImpactSummary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero value", got)
	}
}

func TestNumberInputRejectsNonNumericJSON(t *testing.T) {
	for _, body := range []string{`{"eco_score": true}`, `{"eco_score": {}}`, `{"eco_score": [1]}`} {
		var in ProductMetricsInput
		if err := json.Unmarshal([]byte(body), &in); err == nil {
			t.Errorf("Unmarshal(%s) succeeded, want error", body)
		}
	}
}
