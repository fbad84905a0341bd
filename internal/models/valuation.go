package models

// ValuationResult is the blended value estimate for the subject property.
type ValuationResult struct {
	EstimatedValue  float64            `json:"estimated_value"`
	ValueRange      ValueRange         `json:"value_range"`
	Confidence      int                `json:"confidence"`
	Method          string             `json:"method"`
	PricePerSqft    float64            `json:"price_per_sqft"`
	Approaches      ApproachBreakdown  `json:"approaches"`
	TrendAdjustment *TrendAdjustment   `json:"trend_adjustment,omitempty"`
	Comparables     []ComparableSale   `json:"comparables,omitempty"`
	Summary         *MarketSummary     `json:"summary,omitempty"`
	Trend           *MarketTrendSignal `json:"trend,omitempty"`
}

// TrendAdjustment records the market-trend shift applied to a valuation.
type TrendAdjustment struct {
	PreAdjustmentValue float64 `json:"pre_adjustment_value"`
	AdjustmentPercent  float64 `json:"adjustment_percent"`
	AdjustmentAmount   float64 `json:"adjustment_amount"`
}

// ApproachBreakdown holds the three classic appraisal approaches.
type ApproachBreakdown struct {
	Income IncomeApproach `json:"income"`
	Sales  SalesApproach  `json:"sales"`
	Cost   CostApproach   `json:"cost"`
}

type IncomeApproach struct {
	Value   float64 `json:"value"`
	CapRate float64 `json:"cap_rate"`
	NOI     float64 `json:"noi"`
}

type SalesApproach struct {
	Value        float64 `json:"value"`
	PricePerSqft float64 `json:"price_per_sqft"`
	CompCount    int     `json:"comp_count"`
}

type CostApproach struct {
	Value           float64 `json:"value"`
	LandValue       float64 `json:"land_value"`
	ReplacementCost float64 `json:"replacement_cost"`
	Depreciation    float64 `json:"depreciation"`
}
