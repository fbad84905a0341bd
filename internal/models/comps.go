package models

import "time"

// ComparableSale is a recorded sale of a property other than the subject.
type ComparableSale struct {
	ID            string       `json:"id,omitempty"`
	Address       string       `json:"address"`
	DistanceMiles float64      `json:"distance_miles"`
	SalePrice     float64      `json:"sale_price"`
	SaleDate      time.Time    `json:"sale_date"`
	SquareFootage float64      `json:"square_footage"`
	PricePerSqft  float64      `json:"price_per_sqft"`
	PropertyType  PropertyType `json:"property_type,omitempty"`
	YearBuilt     *int         `json:"year_built,omitempty"`
	Bedrooms      *int         `json:"bedrooms,omitempty"`
	Bathrooms     *float64     `json:"bathrooms,omitempty"`
	Units         *int         `json:"units,omitempty"`
	CapRate       *float64     `json:"cap_rate,omitempty"`
	Adjustments   []string     `json:"adjustments,omitempty"`
	Latitude      *float64     `json:"latitude,omitempty"`
	Longitude     *float64     `json:"longitude,omitempty"`
	Verified      bool         `json:"verified"`
	RecencyScore  *int         `json:"recency_score,omitempty"`
	RecencyLabel  string       `json:"recency_label,omitempty"`
}

// EffectivePricePerSqft returns the reported price per square foot, or the
// one implied by sale price and size. Zero means unknown.
func (c ComparableSale) EffectivePricePerSqft() float64 {
	if c.PricePerSqft > 0 {
		return c.PricePerSqft
	}
	if c.SalePrice > 0 && c.SquareFootage > 0 {
		return c.SalePrice / c.SquareFootage
	}
	return 0
}

// MeanPricePerSqft averages the known price per square foot across comps.
// The second return value is false when no comp carries a usable figure.
func MeanPricePerSqft(comps []ComparableSale) (float64, bool) {
	var sum float64
	var n int
	for _, c := range comps {
		if ppsf := c.EffectivePricePerSqft(); ppsf > 0 {
			sum += ppsf
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// ValueRange is a low/high bracket around an estimate.
type ValueRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Valid reports whether the range has positive, ordered bounds.
func (r ValueRange) Valid() bool {
	return r.Low > 0 && r.High > 0 && r.Low <= r.High
}

// MarketSummary is the AI comparable-sales provider's view of the market.
type MarketSummary struct {
	AvgPricePerSqft float64     `json:"avg_price_per_sqft"`
	MedianSalePrice float64     `json:"median_sale_price"`
	SuggestedValue  float64     `json:"suggested_value"`
	ValueRange      *ValueRange `json:"value_range,omitempty"`
	Confidence      *int        `json:"confidence,omitempty"`
	MarketTrend     string      `json:"market_trend,omitempty"`
	KeyInsights     []string    `json:"key_insights,omitempty"`
}

// MarketTemperature describes how competitive the local market is.
type MarketTemperature string

const (
	MarketHot     MarketTemperature = "hot"
	MarketWarm    MarketTemperature = "warm"
	MarketNeutral MarketTemperature = "neutral"
	MarketCool    MarketTemperature = "cool"
	MarketCold    MarketTemperature = "cold"
)

// TrendDirection describes where values are heading.
type TrendDirection string

const (
	TrendAppreciating TrendDirection = "appreciating"
	TrendStable       TrendDirection = "stable"
	TrendDeclining    TrendDirection = "declining"
)

// TrendVelocity describes how fast values are moving.
type TrendVelocity string

const (
	VelocityRapid    TrendVelocity = "rapid"
	VelocityModerate TrendVelocity = "moderate"
	VelocitySlow     TrendVelocity = "slow"
)

// MarketTrendSignal is the area trend signal. ValueAdjustmentPercent is the
// figure actually applied to valuations.
type MarketTrendSignal struct {
	Temperature            MarketTemperature `json:"temperature"`
	AnnualAppreciationRate float64           `json:"annual_appreciation_rate"`
	Direction              TrendDirection    `json:"direction"`
	Velocity               TrendVelocity     `json:"velocity"`
	ValueAdjustmentPercent float64           `json:"value_adjustment_percent"`
}
