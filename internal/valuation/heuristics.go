package valuation

import (
	"fmt"

	"valuecraft/server/internal/models"
)

// Heuristics are the tunable constants of the valuation model.
type Heuristics struct {
	AreaCapRate          float64 `json:"area_cap_rate" env:"AREA_CAP_RATE" envDefault:"6.0"`
	BuildCostResidential float64 `json:"build_cost_residential" env:"BUILD_COST_RESIDENTIAL" envDefault:"150"`
	BuildCostCommercial  float64 `json:"build_cost_commercial" env:"BUILD_COST_COMMERCIAL" envDefault:"175"`
	BuildCostIndustrial  float64 `json:"build_cost_industrial" env:"BUILD_COST_INDUSTRIAL" envDefault:"100"`
	DefaultRangePct      float64 `json:"default_range_pct" env:"DEFAULT_RANGE_PCT" envDefault:"8"`
	RangeTightenPct      float64 `json:"range_tighten_pct" env:"RANGE_TIGHTEN_PCT" envDefault:"5"`
	RecenterPct          float64 `json:"recenter_pct" env:"RANGE_RECENTER_PCT" envDefault:"5"`
	DefaultConfidence    int     `json:"default_confidence" env:"DEFAULT_CONFIDENCE" envDefault:"45"`
	SaleHistoryBoost     int     `json:"sale_history_boost" env:"SALE_HISTORY_BOOST" envDefault:"15"`
	SaleHistoryCap       int     `json:"sale_history_cap" env:"SALE_HISTORY_CAP" envDefault:"80"`
	VerifiedBoost        int     `json:"verified_boost" env:"VERIFIED_BOOST" envDefault:"20"`
	VerifiedCap          int     `json:"verified_cap" env:"VERIFIED_CAP" envDefault:"92"`
	FallbackPricePerSqft float64 `json:"fallback_price_per_sqft" env:"FALLBACK_PRICE_PER_SQFT" envDefault:"200"`
	DepreciationPerYear  float64 `json:"depreciation_per_year" env:"DEPRECIATION_PER_YEAR" envDefault:"0.012"`
	MaxDepreciation      float64 `json:"max_depreciation" env:"MAX_DEPRECIATION" envDefault:"0.40"`
	LandShare            float64 `json:"land_share" env:"LAND_SHARE" envDefault:"0.20"`
	MinLandShare         float64 `json:"min_land_share" env:"MIN_LAND_SHARE" envDefault:"0.10"`
	MaxLandShare         float64 `json:"max_land_share" env:"MAX_LAND_SHARE" envDefault:"0.60"`
	TypicalLotAcres      float64 `json:"typical_lot_acres" env:"TYPICAL_LOT_ACRES" envDefault:"0.25"`
	ClosingCostPct       float64 `json:"closing_cost_pct" env:"CLOSING_COST_PCT" envDefault:"3.5"`
}

// DefaultHeuristics returns the documented default constants.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		AreaCapRate:          6.0,
		BuildCostResidential: 150,
		BuildCostCommercial:  175,
		BuildCostIndustrial:  100,
		DefaultRangePct:      8,
		RangeTightenPct:      5,
		RecenterPct:          5,
		DefaultConfidence:    45,
		SaleHistoryBoost:     15,
		SaleHistoryCap:       80,
		VerifiedBoost:        20,
		VerifiedCap:          92,
		FallbackPricePerSqft: 200,
		DepreciationPerYear:  0.012,
		MaxDepreciation:      0.40,
		LandShare:            0.20,
		MinLandShare:         0.10,
		MaxLandShare:         0.60,
		TypicalLotAcres:      0.25,
		ClosingCostPct:       3.5,
	}
}

// BuildCost returns the replacement cost per square foot for a property type.
func (h Heuristics) BuildCost(t models.PropertyType) float64 {
	switch t.CostClass() {
	case models.CostClassCommercial:
		return h.BuildCostCommercial
	case models.CostClassIndustrial:
		return h.BuildCostIndustrial
	default:
		return h.BuildCostResidential
	}
}

// Validate rejects heuristics that would make the model meaningless.
func (h Heuristics) Validate() error {
	switch {
	case h.AreaCapRate <= 0:
		return fmt.Errorf("area cap rate must be positive, got %v", h.AreaCapRate)
	case h.FallbackPricePerSqft <= 0:
		return fmt.Errorf("fallback price per sqft must be positive, got %v", h.FallbackPricePerSqft)
	case h.DefaultConfidence < 0 || h.DefaultConfidence > 100:
		return fmt.Errorf("default confidence must be within 0-100, got %d", h.DefaultConfidence)
	case h.RangeTightenPct < 0 || h.RangeTightenPct >= 50:
		return fmt.Errorf("range tighten pct must be within [0, 50), got %v", h.RangeTightenPct)
	case h.TypicalLotAcres <= 0:
		return fmt.Errorf("typical lot acres must be positive, got %v", h.TypicalLotAcres)
	case h.MinLandShare > h.MaxLandShare:
		return fmt.Errorf("min land share %v exceeds max land share %v", h.MinLandShare, h.MaxLandShare)
	}
	return nil
}

