package providers

import (
	"math"
	"strings"

	"valuecraft/server/internal/models"
)

// CompResponse is one comparable sale as providers send it.
type CompResponse struct {
	ID            string   `json:"id"`
	Address       string   `json:"address"`
	Distance      Money    `json:"distance"`
	SalePrice     Money    `json:"salePrice"`
	SaleDate      Date     `json:"saleDate"`
	Sqft          Money    `json:"sqft"`
	SquareFootage Money    `json:"squareFootage"`
	PricePerSqft  Money    `json:"pricePerSqft"`
	PropertyType  string   `json:"propertyType"`
	YearBuilt     *Money   `json:"yearBuilt"`
	Beds          *Money   `json:"beds"`
	Baths         *Money   `json:"baths"`
	Units         *Money   `json:"units"`
	CapRate       *Percent `json:"capRate"`
	Adjustments   []string `json:"adjustments"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Verified      bool     `json:"verified"`
	RecencyScore  *Money   `json:"recencyScore"`
	RecencyLabel  string   `json:"recencyLabel"`
}

// MarketSummaryResponse is the AI provider's market summary.
type MarketSummaryResponse struct {
	AvgPricePerSqft Money      `json:"avgPricePerSqft"`
	MedianSalePrice Money      `json:"medianSalePrice"`
	SuggestedValue  Money      `json:"suggestedValue"`
	ValueRange      *CostRange `json:"valueRange"`
	Confidence      *Money     `json:"confidence"`
	MarketTrend     string     `json:"marketTrend"`
	KeyInsights     []string   `json:"keyInsights"`
}

// CompsResponse is the comparable-sales and verified-sales payload.
type CompsResponse struct {
	Comparables   []CompResponse         `json:"comparables"`
	MarketSummary *MarketSummaryResponse `json:"marketSummary"`
}

// Normalize converts the payload to typed comps. verified forces the flag
// on every comp, since only the verified provider may set it.
func (r CompsResponse) Normalize(verified bool) CompsResult {
	out := CompsResult{Comps: make([]models.ComparableSale, 0, len(r.Comparables))}
	for _, c := range r.Comparables {
		if strings.TrimSpace(c.Address) == "" {
			continue
		}
		comp := c.normalize()
		comp.Verified = verified
		out.Comps = append(out.Comps, comp)
	}
	if r.MarketSummary != nil {
		out.Summary = r.MarketSummary.normalize()
	}
	return out
}

func (c CompResponse) normalize() models.ComparableSale {
	sqft := c.Sqft.NonNegative()
	if sqft == 0 {
		sqft = c.SquareFootage.NonNegative()
	}
	comp := models.ComparableSale{
		ID:            c.ID,
		Address:       strings.TrimSpace(c.Address),
		DistanceMiles: c.Distance.NonNegative(),
		SalePrice:     c.SalePrice.NonNegative(),
		SaleDate:      c.SaleDate.Time,
		SquareFootage: sqft,
		PricePerSqft:  c.PricePerSqft.NonNegative(),
		PropertyType:  ParsePropertyType(c.PropertyType),
		YearBuilt:     intOrNil(c.YearBuilt),
		Bedrooms:      intOrNil(c.Beds),
		Bathrooms:     floatOrNil(c.Baths),
		Units:         intOrNil(c.Units),
		Adjustments:   c.Adjustments,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
		RecencyLabel:  strings.TrimSpace(c.RecencyLabel),
	}
	if comp.PricePerSqft == 0 {
		comp.PricePerSqft = comp.EffectivePricePerSqft()
	}
	if c.CapRate != nil && *c.CapRate > 0 {
		v := float64(*c.CapRate)
		comp.CapRate = &v
	}
	if c.RecencyScore != nil {
		score := clampScore(float64(*c.RecencyScore))
		comp.RecencyScore = &score
	}
	return comp
}

func (s MarketSummaryResponse) normalize() *models.MarketSummary {
	summary := &models.MarketSummary{
		AvgPricePerSqft: s.AvgPricePerSqft.NonNegative(),
		MedianSalePrice: s.MedianSalePrice.NonNegative(),
		SuggestedValue:  s.SuggestedValue.NonNegative(),
		MarketTrend:     strings.TrimSpace(s.MarketTrend),
		KeyInsights:     s.KeyInsights,
	}
	if s.ValueRange != nil {
		r := models.ValueRange{Low: s.ValueRange.Low, High: s.ValueRange.High}
		if r.Valid() {
			summary.ValueRange = &r
		}
	}
	if s.Confidence != nil {
		c := clampScore(float64(*s.Confidence))
		summary.Confidence = &c
	}
	return summary
}

// SaleResponse is one entry of a public-record sale history.
type SaleResponse struct {
	Date  Date   `json:"date"`
	Price Money  `json:"price"`
	Type  string `json:"type"`
}

// PublicRecordResponse is the public-records payload.
type PublicRecordResponse struct {
	LotSize       Money          `json:"lotSize"`
	LotSizeAcres  Money          `json:"lotSizeAcres"`
	LotSizeSqft   Money          `json:"lotSizeSqft"`
	YearBuilt     *Money         `json:"yearBuilt"`
	SquareFootage *Money         `json:"squareFootage"`
	SaleHistory   []SaleResponse `json:"saleHistory"`
	Source        string         `json:"source"`
}

const sqftPerAcre = 43560.0

// authoritativeSources are source tags that mark a record as authoritative.
var authoritativeSources = map[string]bool{
	"public_record":  true,
	"public-record":  true,
	"public record":  true,
	"county":         true,
	"assessor":       true,
	"deed":           true,
	"mls":            true,
	"authoritative":  true,
	"recorded":       true,
	"county_records": true,
}

// Normalize converts the payload. Sales without a price or date are dropped.
func (r PublicRecordResponse) Normalize() *models.PublicRecord {
	rec := &models.PublicRecord{
		Authoritative: authoritativeSources[strings.ToLower(strings.TrimSpace(r.Source))],
		YearBuilt:     intOrNil(r.YearBuilt),
		SquareFootage: floatOrNil(r.SquareFootage),
	}

	acres := r.LotSizeAcres.NonNegative()
	if acres == 0 {
		acres = r.LotSize.NonNegative()
	}
	if acres == 0 && r.LotSizeSqft.NonNegative() > 0 {
		acres = math.Round(r.LotSizeSqft.NonNegative()/sqftPerAcre*1000) / 1000
	}
	if acres > 0 {
		rec.LotSizeAcres = &acres
	}

	for _, s := range r.SaleHistory {
		if s.Price.NonNegative() == 0 || s.Date.IsZero() {
			continue
		}
		rec.SaleHistory = append(rec.SaleHistory, models.SaleRecord{
			Date:  s.Date.Time,
			Price: s.Price.NonNegative(),
			Type:  strings.TrimSpace(s.Type),
		})
	}
	return rec
}

// TrendResponse is the market-trend payload.
type TrendResponse struct {
	MarketTemperature      string  `json:"marketTemperature"`
	AnnualAppreciationRate Percent `json:"annualAppreciationRate"`
	TrendDirection         string  `json:"trendDirection"`
	TrendVelocity          string  `json:"trendVelocity"`
	ValueAdjustmentPercent Percent `json:"valueAdjustmentPercent"`
}

// Normalize converts the payload. Unknown enum values fall back to
// neutral, stable and moderate.
func (r TrendResponse) Normalize() *models.MarketTrendSignal {
	signal := &models.MarketTrendSignal{
		Temperature:            models.MarketNeutral,
		AnnualAppreciationRate: float64(r.AnnualAppreciationRate),
		Direction:              models.TrendStable,
		Velocity:               models.VelocityModerate,
		ValueAdjustmentPercent: float64(r.ValueAdjustmentPercent),
	}
	switch t := models.MarketTemperature(enumKey(r.MarketTemperature)); t {
	case models.MarketHot, models.MarketWarm, models.MarketNeutral, models.MarketCool, models.MarketCold:
		signal.Temperature = t
	}
	switch d := models.TrendDirection(enumKey(r.TrendDirection)); d {
	case models.TrendAppreciating, models.TrendStable, models.TrendDeclining:
		signal.Direction = d
	}
	switch v := models.TrendVelocity(enumKey(r.TrendVelocity)); v {
	case models.VelocityRapid, models.VelocityModerate, models.VelocitySlow:
		signal.Velocity = v
	}
	if math.IsNaN(signal.ValueAdjustmentPercent) || math.IsInf(signal.ValueAdjustmentPercent, 0) {
		signal.ValueAdjustmentPercent = 0
	}
	return signal
}

// EnrichmentResponse is the enrichment payload.
type EnrichmentResponse struct {
	PropertyTaxRate     *Percent `json:"propertyTaxRate"`
	PropertyTaxEstimate *Money   `json:"propertyTaxEstimate"`
	InsuranceEstimate   *Money   `json:"insuranceEstimate"`
	ClosingCostPct      *Percent `json:"closingCostPercent"`
	Maintenance         struct {
		PerSqft *Money `json:"perSqft"`
		Annual  *Money `json:"annual"`
	} `json:"maintenance"`
	ReservesAnnual *Money `json:"reservesAnnual"`
	AreaStats      struct {
		MedianPrice    *Money   `json:"medianPrice"`
		AverageCapRate *Percent `json:"averageCapRate"`
		VacancyRate    *Percent `json:"vacancyRate"`
	} `json:"areaStats"`
	MortgageRates map[string]Percent `json:"mortgageRates"`
}

// Normalize converts the payload, dropping negative or missing figures.
func (r EnrichmentResponse) Normalize() *models.EnrichmentFigures {
	e := &models.EnrichmentFigures{
		PropertyTaxRate:     percentOrNil(r.PropertyTaxRate),
		PropertyTaxEstimate: floatOrNil(r.PropertyTaxEstimate),
		InsuranceEstimate:   floatOrNil(r.InsuranceEstimate),
		ClosingCostPct:      percentOrNil(r.ClosingCostPct),
		MaintenancePerSqft:  floatOrNil(r.Maintenance.PerSqft),
		MaintenanceAnnual:   floatOrNil(r.Maintenance.Annual),
		ReservesAnnual:      floatOrNil(r.ReservesAnnual),
		MedianPrice:         floatOrNil(r.AreaStats.MedianPrice),
		AverageCapRate:      percentOrNil(r.AreaStats.AverageCapRate),
		VacancyRate:         percentOrNil(r.AreaStats.VacancyRate),
	}
	if len(r.MortgageRates) > 0 {
		e.MortgageRates = make(map[string]float64, len(r.MortgageRates))
		for product, rate := range r.MortgageRates {
			if rate > 0 {
				e.MortgageRates[product] = float64(rate)
			}
		}
	}
	return e
}

// ImprovementResponse is one improvement item from the condition advisor.
type ImprovementResponse struct {
	Area           string    `json:"area"`
	Issue          string    `json:"issue"`
	Recommendation string    `json:"recommendation"`
	EstimatedCost  CostRange `json:"estimatedCost"`
	ValueAdd       Money     `json:"valueAdd"`
	ROI            Percent   `json:"roi"`
	Priority       string    `json:"priority"`
}

// ConditionResponse is the condition-advisor payload.
type ConditionResponse struct {
	ConditionScore Money                 `json:"conditionScore"`
	Improvements   []ImprovementResponse `json:"improvements"`
}

// Normalize converts the payload. A missing ROI is derived from value-add
// over the cost midpoint.
func (r ConditionResponse) Normalize() *models.ConditionAssessment {
	out := &models.ConditionAssessment{ConditionScore: clampScore(float64(r.ConditionScore))}
	for _, item := range r.Improvements {
		low, high := math.Max(0, item.EstimatedCost.Low), math.Max(0, item.EstimatedCost.High)
		roi := float64(item.ROI)
		if roi == 0 && low+high > 0 {
			roi = math.Round((item.ValueAdd.NonNegative()/((low+high)/2)-1)*1000) / 10
		}
		priority := strings.ToLower(strings.TrimSpace(item.Priority))
		switch priority {
		case "high", "medium", "low":
		default:
			priority = "medium"
		}
		out.Improvements = append(out.Improvements, models.ImprovementItem{
			Area:           strings.TrimSpace(item.Area),
			Issue:          strings.TrimSpace(item.Issue),
			Recommendation: strings.TrimSpace(item.Recommendation),
			CostLow:        low,
			CostHigh:       high,
			ValueAdd:       item.ValueAdd.NonNegative(),
			ROIPercent:     roi,
			Priority:       priority,
		})
	}
	return out
}

// ParsePropertyType maps free-form type names onto the recognised set.
// Unrecognised names map to the empty type.
func ParsePropertyType(s string) models.PropertyType {
	key := enumKey(s)
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	switch key {
	case "sfr", "single-family-residence", "single-family-home", "house":
		return models.PropertyTypeSingleFamily
	case "multi-family", "apartment", "apartments":
		return models.PropertyTypeMultifamily
	case "mixeduse":
		return models.PropertyTypeMixedUse
	case "selfstorage", "storage":
		return models.PropertyTypeSelfStorage
	case "hotel", "motel":
		return models.PropertyTypeHospitality
	}
	if t := models.PropertyType(key); t.IsValid() {
		return t
	}
	return ""
}

func enumKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clampScore(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

func intOrNil(m *Money) *int {
	if m == nil || *m <= 0 {
		return nil
	}
	v := int(math.Round(float64(*m)))
	return &v
}

func floatOrNil(m *Money) *float64 {
	if m == nil || *m <= 0 {
		return nil
	}
	v := float64(*m)
	return &v
}

func percentOrNil(p *Percent) *float64 {
	if p == nil || *p <= 0 {
		return nil
	}
	v := float64(*p)
	return &v
}
