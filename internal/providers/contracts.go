package providers

import (
	"context"

	"valuecraft/server/internal/models"
)

// CompsRequest asks for comparable sales around the subject property.
type CompsRequest struct {
	Location models.Location         `json:"location"`
	Property models.PropertySnapshot `json:"property"`
	// RadiusMiles limits the search area when positive.
	RadiusMiles float64 `json:"radius_miles,omitempty"`
}

// CompsResult is a normalised comparable-sales response.
type CompsResult struct {
	Comps   []models.ComparableSale
	Summary *models.MarketSummary
}

// TrendRequest asks for the area market trend.
type TrendRequest struct {
	Location              models.Location         `json:"location"`
	PropertyType          models.PropertyType     `json:"property_type"`
	Comps                 []models.ComparableSale `json:"comps"`
	CurrentEstimatedValue float64                 `json:"current_estimated_value"`
}

// Financials are the deal figures the enrichment provider benchmarks against.
type Financials struct {
	PurchasePrice   float64 `json:"purchase_price"`
	GrossRentAnnual float64 `json:"gross_rent_annual"`
	SquareFootage   float64 `json:"square_footage"`
	UnitCount       int     `json:"unit_count"`
}

// EnrichmentRequest asks for area tax, insurance and market benchmarks.
type EnrichmentRequest struct {
	Location     models.Location     `json:"location"`
	PropertyType models.PropertyType `json:"property_type"`
	Financials   Financials          `json:"financials"`
}

// ConditionRequest asks the improvement advisor to assess the subject.
type ConditionRequest struct {
	Location  models.Location         `json:"location"`
	Property  models.PropertySnapshot `json:"property"`
	ImageURLs []string                `json:"image_urls,omitempty"`
}

// CompsProvider returns AI-estimated comparable sales and a market summary.
type CompsProvider interface {
	FetchComps(ctx context.Context, req CompsRequest) (CompsResult, error)
}

// VerifiedSalesProvider returns comparable sales from authoritative records.
// Every call consumes one unit of the caller's quota.
type VerifiedSalesProvider interface {
	FetchVerifiedSales(ctx context.Context, req CompsRequest) ([]models.ComparableSale, error)
}

// PublicRecordsProvider returns the subject's public record.
type PublicRecordsProvider interface {
	FetchPublicRecord(ctx context.Context, loc models.Location) (*models.PublicRecord, error)
}

// MarketTrendProvider returns the area market trend signal.
type MarketTrendProvider interface {
	FetchTrend(ctx context.Context, req TrendRequest) (*models.MarketTrendSignal, error)
}

// EnrichmentProvider returns area benchmarks for underwriting.
type EnrichmentProvider interface {
	FetchEnrichment(ctx context.Context, req EnrichmentRequest) (*models.EnrichmentFigures, error)
}

// ConditionAdvisor scores the subject's condition and suggests improvements.
type ConditionAdvisor interface {
	Assess(ctx context.Context, req ConditionRequest) (*models.ConditionAssessment, error)
}
