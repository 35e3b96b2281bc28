// Package ledger is the append-only record of purchases: each entry pairs the
// product a user bought with the greener alternative they were shown. It also
// answers history and impact queries and tallies scores for the leaderboard.
package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ProductMetrics describes one side of a purchase comparison.
type ProductMetrics struct {
	Product         string   `json:"product" example:"Plastic Bottle"`
	EcoScore        float64  `json:"eco_score" example:"3"`
	WaterUsage      float64  `json:"water_usage" example:"5"`
	CarbonFootprint float64  `json:"carbon_footprint" example:"82.8"`
	WasteGenerated  *float64 `json:"waste_generated,omitempty" example:"0.5"`
}

// PurchaseEntry is one immutable ledger row.
type PurchaseEntry struct {
	ID           string         `json:"id" example:"0b7e5f5c-2c1d-4b7a-9a53-5b0c2f4e8d11"`
	UserID       string         `json:"userId" example:"u1"`
	PurchaseDate time.Time      `json:"purchaseDate" example:"2025-03-01T12:00:00Z"`
	Purchased    ProductMetrics `json:"purchased"`
	Alternative  ProductMetrics `json:"alternative"`
}

// ScoreTally is the per-user sum and count of purchased eco scores.
type ScoreTally struct {
	UserID string  `db:"user_id"`
	Sum    float64 `db:"score_sum"`
	Count  int64   `db:"entry_count"`
}

// NumberInput is a numeric field as the client sent it: either a JSON number or
// a string holding one. The text is kept as-is and parsed by the service, so
// the error can name the field.
type NumberInput string

// UnmarshalJSON accepts a number or a string. Booleans, objects and arrays are rejected.
func (n *NumberInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberInput(s)
	case c == '-' || (c >= '0' && c <= '9'):
		*n = NumberInput(data)
	default:
		return fmt.Errorf("expected a number or numeric string, got %s", data)
	}
	return nil
}

// Number returns a *NumberInput for s. Handy when building requests in code.
func Number(s string) *NumberInput {
	n := NumberInput(s)
	return &n
}
