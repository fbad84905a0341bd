package valuation

import (
	"fmt"
	"math"
	"time"

	"valuecraft/server/internal/comps"
	"valuecraft/server/internal/models"
)

// InvalidPropertyDataError is returned when the subject cannot be valued.
type InvalidPropertyDataError struct {
	Field  string
	Reason string
}

func (e *InvalidPropertyDataError) Error() string {
	return fmt.Sprintf("invalid property data: %s %s", e.Field, e.Reason)
}

// Input is everything the blender needs for one valuation. Comps is the
// merged set, fallback included.
type Input struct {
	Property    models.PropertySnapshot
	Comps       []models.ComparableSale
	SaleHistory []models.SaleRecord
	Summary     *models.MarketSummary
	Trend       *models.MarketTrendSignal
	// NOI is the computed net operating income when rent roll or expense
	// data exists.
	NOI *float64
	// AreaCapRate is the area average cap rate when enrichment supplies one.
	AreaCapRate *float64
	Now         time.Time
}

// Blender combines value sources into one estimate.
type Blender struct {
	h Heuristics
}

// NewBlender creates a blender using the given heuristics.
func NewBlender(h Heuristics) *Blender {
	return &Blender{h: h}
}

// Heuristics returns the blender's constants.
func (b *Blender) Heuristics() Heuristics {
	return b.h
}

// Value produces the blended valuation.
func (b *Blender) Value(in Input) (models.ValuationResult, error) {
	sqft := in.Property.SquareFootage
	if sqft <= 0 || math.IsNaN(sqft) {
		return models.ValuationResult{}, &InvalidPropertyDataError{Field: "square_footage", Reason: "must be positive"}
	}
	if len(in.Comps) == 0 {
		return models.ValuationResult{}, &comps.EmptyInputError{Reason: "merge produced no comps"}
	}

	src := b.gather(in)
	rule := selectRule(src)
	pre := math.Round(rule.value(src))

	adj := AdjustForTrend(pre, in.Trend)
	estimate := pre + adj.AdjustmentAmount

	result := models.ValuationResult{
		EstimatedValue: estimate,
		ValueRange:     b.valueRange(pre, estimate, adj.AdjustmentAmount, in.Summary, src.hasVerified),
		Confidence:     b.confidence(in.Summary, src.hasSale, src.hasVerified),
		Method:         rule.name,
		PricePerSqft:   math.Round(estimate/sqft*100) / 100,
		Comparables:    in.Comps,
		Summary:        in.Summary,
		Trend:          in.Trend,
	}
	if in.Trend != nil {
		result.TrendAdjustment = &adj
	}
	result.Approaches = b.approaches(in, estimate, src)
	return result, nil
}

// sources holds the candidate values for one valuation.
type sources struct {
	sqft          float64
	verifiedValue float64
	hasVerified   bool
	lastSale      float64
	hasSale       bool
	aiValue       float64
	hasAI         bool
	anchor        float64
}

func (b *Blender) gather(in Input) sources {
	s := sources{sqft: in.Property.SquareFootage}

	if ppsf, ok := models.MeanPricePerSqft(comps.Verified(in.Comps)); ok {
		s.verifiedValue = s.sqft * ppsf
		s.hasVerified = true
	}
	if sale, ok := models.MostRecentSale(in.SaleHistory); ok {
		s.lastSale = sale.Price
		s.hasSale = true
	}
	if in.Summary != nil {
		switch {
		case in.Summary.SuggestedValue > 0:
			s.aiValue = in.Summary.SuggestedValue
			s.hasAI = true
		case in.Summary.AvgPricePerSqft > 0:
			s.aiValue = s.sqft * in.Summary.AvgPricePerSqft
			s.hasAI = true
		}
	}
	s.anchor = b.anchorPricePerSqft(in, s)
	return s
}

// anchorPricePerSqft picks the first available rate in priority order.
func (b *Blender) anchorPricePerSqft(in Input, s sources) float64 {
	if s.hasVerified {
		return s.verifiedValue / s.sqft
	}
	if s.hasSale {
		return s.lastSale / s.sqft
	}
	if in.Summary != nil && in.Summary.AvgPricePerSqft > 0 {
		return in.Summary.AvgPricePerSqft
	}
	if ppsf, ok := models.MeanPricePerSqft(in.Comps); ok {
		return ppsf
	}
	return b.h.FallbackPricePerSqft
}

type valueRule struct {
	name    string
	applies func(sources) bool
	value   func(sources) float64
}

// valueRules are evaluated in order; the first applicable rule wins.
var valueRules = []valueRule{
	{
		name:    "verified_sale_history_ai",
		applies: func(s sources) bool { return s.hasVerified && s.hasSale && s.hasAI },
		value:   func(s sources) float64 { return 0.50*s.verifiedValue + 0.30*s.lastSale + 0.20*s.aiValue },
	},
	{
		name:    "verified_ai",
		applies: func(s sources) bool { return s.hasVerified && s.hasAI },
		value:   func(s sources) float64 { return 0.65*s.verifiedValue + 0.35*s.aiValue },
	},
	{
		name:    "verified",
		applies: func(s sources) bool { return s.hasVerified },
		value:   func(s sources) float64 { return s.verifiedValue },
	},
	{
		name:    "sale_history_ai",
		applies: func(s sources) bool { return s.hasSale && s.hasAI },
		value:   func(s sources) float64 { return 0.60*s.lastSale + 0.40*s.aiValue },
	},
	{
		name:    "sale_history",
		applies: func(s sources) bool { return s.hasSale },
		value:   func(s sources) float64 { return s.lastSale },
	},
	{
		name:    "ai_summary",
		applies: func(s sources) bool { return s.hasAI },
		value:   func(s sources) float64 { return s.aiValue },
	},
	{
		name:    "price_per_sqft",
		applies: func(sources) bool { return true },
		value:   func(s sources) float64 { return s.sqft * s.anchor },
	},
}

func selectRule(s sources) valueRule {
	for _, r := range valueRules {
		if r.applies(s) {
			return r
		}
	}
	return valueRules[len(valueRules)-1]
}

func (b *Blender) valueRange(pre, estimate, shift float64, summary *models.MarketSummary, verified bool) models.ValueRange {
	var r models.ValueRange
	if summary != nil && summary.ValueRange != nil && summary.ValueRange.Valid() {
		r = *summary.ValueRange
	} else {
		r = models.ValueRange{
			Low:  pre * (1 - b.h.DefaultRangePct/100),
			High: pre * (1 + b.h.DefaultRangePct/100),
		}
	}
	r.Low += shift
	r.High += shift

	if verified {
		r.Low *= 1 + b.h.RangeTightenPct/100
		r.High *= 1 - b.h.RangeTightenPct/100
	}
	if r.Low > r.High {
		r = b.recenter((r.Low + r.High) / 2)
	}
	r.Low = math.Round(r.Low)
	r.High = math.Round(r.High)
	if estimate < r.Low || estimate > r.High {
		r = b.recenter(estimate)
		r.Low = math.Round(r.Low)
		r.High = math.Round(r.High)
	}
	return r
}

func (b *Blender) recenter(mid float64) models.ValueRange {
	return models.ValueRange{
		Low:  mid * (1 - b.h.RecenterPct/100),
		High: mid * (1 + b.h.RecenterPct/100),
	}
}

// confidence applies the boosts in order, capping after each one.
func (b *Blender) confidence(summary *models.MarketSummary, hasSale, hasVerified bool) int {
	c := b.h.DefaultConfidence
	if summary != nil && summary.Confidence != nil {
		c = *summary.Confidence
	}
	c = clampInt(c, 0, 100)
	if hasSale {
		c = minInt(c+b.h.SaleHistoryBoost, b.h.SaleHistoryCap)
	}
	if hasVerified {
		c = minInt(c+b.h.VerifiedBoost, b.h.VerifiedCap)
	}
	return clampInt(c, 0, 100)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
