package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/greengauge/greengauge-go/apperror"
)

// Store persists ledger entries. Append writes exactly one entry or nothing.
type Store interface {
	Append(ctx context.Context, entry *PurchaseEntry) error
	ListByUser(ctx context.Context, userID string) ([]PurchaseEntry, error)
}

// SQLStore is a Store over database/sql. Queries are written with '?' or
// named parameters and rebound for the driver, so the same code runs on the
// pgx driver in production and on SQLite in tests.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps db.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// purchaseRow is the flattened table layout of a PurchaseEntry.
type purchaseRow struct {
	Seq         int64     `db:"seq"`
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	PurchasedAt time.Time `db:"purchased_at"`

	PurchasedProduct         string          `db:"purchased_product"`
	PurchasedEcoScore        float64         `db:"purchased_eco_score"`
	PurchasedWaterUsage      float64         `db:"purchased_water_usage"`
	PurchasedCarbonFootprint float64         `db:"purchased_carbon_footprint"`
	PurchasedWasteGenerated  sql.NullFloat64 `db:"purchased_waste_generated"`

	AlternativeProduct         string          `db:"alternative_product"`
	AlternativeEcoScore        float64         `db:"alternative_eco_score"`
	AlternativeWaterUsage      float64         `db:"alternative_water_usage"`
	AlternativeCarbonFootprint float64         `db:"alternative_carbon_footprint"`
	AlternativeWasteGenerated  sql.NullFloat64 `db:"alternative_waste_generated"`
}

func toNull(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fromNull(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func rowFromEntry(e *PurchaseEntry) purchaseRow {
	return purchaseRow{
		ID:          e.ID,
		UserID:      e.UserID,
		PurchasedAt: e.PurchaseDate.UTC(),

		PurchasedProduct:         e.Purchased.Product,
		PurchasedEcoScore:        e.Purchased.EcoScore,
		PurchasedWaterUsage:      e.Purchased.WaterUsage,
		PurchasedCarbonFootprint: e.Purchased.CarbonFootprint,
		PurchasedWasteGenerated:  toNull(e.Purchased.WasteGenerated),

		AlternativeProduct:         e.Alternative.Product,
		AlternativeEcoScore:        e.Alternative.EcoScore,
		AlternativeWaterUsage:      e.Alternative.WaterUsage,
		AlternativeCarbonFootprint: e.Alternative.CarbonFootprint,
		AlternativeWasteGenerated:  toNull(e.Alternative.WasteGenerated),
	}
}

func (r purchaseRow) entry() PurchaseEntry {
	return PurchaseEntry{
		ID:           r.ID,
		UserID:       r.UserID,
		PurchaseDate: r.PurchasedAt.UTC(),
		Purchased: ProductMetrics{
			Product:         r.PurchasedProduct,
			EcoScore:        r.PurchasedEcoScore,
			WaterUsage:      r.PurchasedWaterUsage,
			CarbonFootprint: r.PurchasedCarbonFootprint,
			WasteGenerated:  fromNull(r.PurchasedWasteGenerated),
		},
		Alternative: ProductMetrics{
			Product:         r.AlternativeProduct,
			EcoScore:        r.AlternativeEcoScore,
			WaterUsage:      r.AlternativeWaterUsage,
			CarbonFootprint: r.AlternativeCarbonFootprint,
			WasteGenerated:  fromNull(r.AlternativeWasteGenerated),
		},
	}
}

const insertPurchaseSQL = `INSERT INTO purchases (
	id, user_id, purchased_at,
	purchased_product, purchased_eco_score, purchased_water_usage, purchased_carbon_footprint, purchased_waste_generated,
	alternative_product, alternative_eco_score, alternative_water_usage, alternative_carbon_footprint, alternative_waste_generated
) VALUES (
	:id, :user_id, :purchased_at,
	:purchased_product, :purchased_eco_score, :purchased_water_usage, :purchased_carbon_footprint, :purchased_waste_generated,
	:alternative_product, :alternative_eco_score, :alternative_water_usage, :alternative_carbon_footprint, :alternative_waste_generated
)`

// Append inserts entry as a single statement.
func (s *SQLStore) Append(ctx context.Context, entry *PurchaseEntry) error {
	if _, err := s.db.NamedExecContext(ctx, insertPurchaseSQL, rowFromEntry(entry)); err != nil {
		return apperror.NewDatabaseError("failed to record purchase", err)
	}
	return nil
}

const listByUserSQL = `SELECT seq, id, user_id, purchased_at,
	purchased_product, purchased_eco_score, purchased_water_usage, purchased_carbon_footprint, purchased_waste_generated,
	alternative_product, alternative_eco_score, alternative_water_usage, alternative_carbon_footprint, alternative_waste_generated
FROM purchases
WHERE user_id = ?
ORDER BY purchased_at DESC, seq ASC`

// ListByUser returns the user's entries newest first. Entries sharing a
// timestamp come back in the order they were appended.
func (s *SQLStore) ListByUser(ctx context.Context, userID string) ([]PurchaseEntry, error) {
	var rows []purchaseRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(listByUserSQL), userID); err != nil {
		return nil, apperror.NewDatabaseError("failed to list purchases", err)
	}

	entries := make([]PurchaseEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

// TallyPurchasedScores returns SUM and COUNT of purchased eco scores per user
// that has at least one entry.
func (s *SQLStore) TallyPurchasedScores(ctx context.Context) ([]ScoreTally, error) {
	const q = `SELECT user_id, SUM(purchased_eco_score) AS score_sum, COUNT(*) AS entry_count
FROM purchases
GROUP BY user_id`
	var tallies []ScoreTally
	if err := s.db.SelectContext(ctx, &tallies, q); err != nil {
		return nil, apperror.NewDatabaseError("failed to tally eco scores", err)
	}
	return tallies, nil
}

// Count returns the number of entries in the ledger.
func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM purchases`); err != nil {
		return 0, apperror.NewDatabaseError("failed to count purchases", err)
	}
	return n, nil
}
