package ledger

// ProductMetricsInput is one side of a SavePurchaseRequest before coercion.
type ProductMetricsInput struct {
	Product         string       `json:"product" validate:"required" example:"Plastic Bottle"`
	EcoScore        *NumberInput `json:"eco_score" validate:"required" swaggertype:"string" example:"3"`
	WaterUsage      *NumberInput `json:"water_usage" validate:"required" swaggertype:"string" example:"5"`
	CarbonFootprint *NumberInput `json:"carbon_footprint" validate:"required" swaggertype:"string" example:"82.8"`
	WasteGenerated  *NumberInput `json:"waste_generated,omitempty" swaggertype:"string" example:"0.5"`
}

// SavePurchaseRequest is the body of POST /save-purchase.
type SavePurchaseRequest struct {
	UserID      string               `json:"userId" validate:"required" example:"u1"`
	Purchased   *ProductMetricsInput `json:"purchased" validate:"required"`
	Alternative *ProductMetricsInput `json:"alternative" validate:"required"`
}

// SavePurchaseResponse is returned with 201 Created.
type SavePurchaseResponse struct {
	Message  string         `json:"message" example:"Purchase saved successfully"`
	Purchase *PurchaseEntry `json:"purchase"`
}

// PurchaseHistoryResponse lists a user's purchases, newest first.
type PurchaseHistoryResponse struct {
	Message   string          `json:"message" example:"Purchase history retrieved successfully"`
	Purchases []PurchaseEntry `json:"purchases"`
}

// ImpactResponse wraps a user's ImpactSummary.
type ImpactResponse struct {
	Message string         `json:"message" example:"Environmental impact retrieved successfully"`
	Impact  *ImpactSummary `json:"impact"`
}
