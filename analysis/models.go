// Package analysis identifies a product from a photo and suggests a more
// sustainable alternative using Gemini.
package analysis

// ProductReport holds the metrics the model reports for one product. The
// model answers in free text, so the values are kept as strings.
type ProductReport struct {
	Product         string `json:"product" example:"Plastic Water Bottle"`
	EcoScore        string `json:"eco_score" example:"3"`
	CarbonFootprint string `json:"carbon_footprint,omitempty" example:"0.08"`
	WaterUsage      string `json:"water_usage,omitempty" example:"3"`
	WasteGenerated  string `json:"waste_generated,omitempty" example:"0.02"`
}

// Analysis is the body of POST /upload-product.
type Analysis struct {
	ProductSearched          ProductReport `json:"product_searched"`
	BetterAlternativeProduct ProductReport `json:"better_alternative_product"`
}
