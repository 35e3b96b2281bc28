package ledger

// ImpactSummary compares what a user bought against the alternatives they were
// offered. Positive "saved" values mean the alternative was the lighter choice.
type ImpactSummary struct {
	Purchases                  int     `json:"purchases" example:"2"`
	AverageEcoScore            float64 `json:"averageEcoScore" example:"4.5"`
	AverageAlternativeEcoScore float64 `json:"averageAlternativeEcoScore" example:"8"`
	CarbonSaved                float64 `json:"carbonSaved" example:"61.3"`
	WaterSaved                 float64 `json:"waterSaved" example:"3"`
	// WasteSaved only counts entries where both sides report waste.
	WasteSaved    float64 `json:"wasteSaved" example:"0.4"`
	WasteCompared int     `json:"wasteCompared" example:"1"`
}

// Summarize folds entries into an ImpactSummary. No entries gives all zeros.
func Summarize(entries []PurchaseEntry) ImpactSummary {
	var s ImpactSummary
	if len(entries) == 0 {
		return s
	}

	var purchasedScore, alternativeScore float64
	for _, e := range entries {
		purchasedScore += e.Purchased.EcoScore
		alternativeScore += e.Alternative.EcoScore
		s.CarbonSaved += e.Purchased.CarbonFootprint - e.Alternative.CarbonFootprint
		s.WaterSaved += e.Purchased.WaterUsage - e.Alternative.WaterUsage
		if e.Purchased.WasteGenerated != nil && e.Alternative.WasteGenerated != nil {
			s.WasteSaved += *e.Purchased.WasteGenerated - *e.Alternative.WasteGenerated
			s.WasteCompared++
		}
	}

	s.Purchases = len(entries)
	s.AverageEcoScore = purchasedScore / float64(len(entries))
	s.AverageAlternativeEcoScore = alternativeScore / float64(len(entries))
	return s
}
