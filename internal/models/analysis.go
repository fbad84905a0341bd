package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ConditionAssessment is the optional output of the improvement advisor.
type ConditionAssessment struct {
	ConditionScore int               `json:"condition_score"`
	Improvements   []ImprovementItem `json:"improvements,omitempty"`
}

// ImprovementItem is a single recommended improvement.
type ImprovementItem struct {
	Area           string  `json:"area"`
	Issue          string  `json:"issue"`
	Recommendation string  `json:"recommendation"`
	CostLow        float64 `json:"cost_low"`
	CostHigh       float64 `json:"cost_high"`
	ValueAdd       float64 `json:"value_add"`
	ROIPercent     float64 `json:"roi_percent"`
	Priority       string  `json:"priority"`
}

// PublicRecord is the normalised public-records payload for the subject.
type PublicRecord struct {
	LotSizeAcres  *float64     `json:"lot_size_acres,omitempty"`
	YearBuilt     *int         `json:"year_built,omitempty"`
	SquareFootage *float64     `json:"square_footage,omitempty"`
	SaleHistory   []SaleRecord `json:"sale_history,omitempty"`
	Authoritative bool         `json:"authoritative"`
}

// AnalysisResult is everything one analysis run produces.
type AnalysisResult struct {
	RunID        string               `json:"run_id"`
	Location     Location             `json:"location"`
	Property     PropertySnapshot     `json:"property"`
	Valuation    ValuationResult      `json:"valuation"`
	Underwriting UnderwritingResult   `json:"underwriting"`
	Scenarios    []ScenarioResult     `json:"scenarios"`
	RentRoll     RentRollSummary      `json:"rent_roll"`
	Expenses     ExpenseTotals        `json:"expenses"`
	Condition    *ConditionAssessment `json:"condition,omitempty"`
	Sources      SourceAvailability   `json:"sources"`
	CompletedAt  time.Time            `json:"completed_at"`
}

// SourceAvailability records which optional sources contributed to a run.
type SourceAvailability struct {
	AIComps       int  `json:"ai_comps"`
	VerifiedComps int  `json:"verified_comps"`
	FallbackComps bool `json:"fallback_comps"`
	SaleHistory   bool `json:"sale_history"`
	MarketSummary bool `json:"market_summary"`
	Trend         bool `json:"trend"`
	Enrichment    bool `json:"enrichment"`
}

// AnalysisRecord is the persisted digest of a committed analysis run.
type AnalysisRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RunID          string    `gorm:"uniqueIndex;size:36" json:"run_id"`
	Address        string    `json:"address"`
	City           string    `gorm:"index" json:"city"`
	PropertyType   string    `gorm:"index" json:"property_type"`
	EstimatedValue float64   `json:"estimated_value"`
	Confidence     int       `json:"confidence"`
	PurchasePrice  float64   `json:"purchase_price"`
	NOI            float64   `json:"noi"`
	CapRate        float64   `json:"cap_rate"`
	CashFlow       float64   `json:"cash_flow"`
	DSCR           float64   `json:"dscr"`
	Payload        string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewAnalysisRecord digests a committed result for persistence. The full
// result is kept as the JSON payload.
func NewAnalysisRecord(result AnalysisResult) (*AnalysisRecord, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis result: %w", err)
	}
	return &AnalysisRecord{
		RunID:          result.RunID,
		Address:        result.Location.Address,
		City:           result.Location.City,
		PropertyType:   string(result.Property.PropertyType),
		EstimatedValue: result.Valuation.EstimatedValue,
		Confidence:     result.Valuation.Confidence,
		PurchasePrice:  result.Underwriting.PurchasePrice,
		NOI:            result.Underwriting.NOI,
		CapRate:        result.Underwriting.CapRate,
		CashFlow:       result.Underwriting.CashFlow,
		DSCR:           result.Underwriting.DSCR,
		Payload:        string(payload),
		CreatedAt:      result.CompletedAt,
	}, nil
}

// Result decodes the stored payload.
func (r AnalysisRecord) Result() (AnalysisResult, error) {
	var result AnalysisResult
	if err := json.Unmarshal([]byte(r.Payload), &result); err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to unmarshal analysis payload: %w", err)
	}
	return result, nil
}

// ValuationStats aggregates persisted analyses, optionally per property type.
type ValuationStats struct {
	TotalAnalyses     int     `json:"total_analyses"`
	AverageValue      float64 `json:"average_value"`
	AverageConfidence float64 `json:"average_confidence"`
	AverageCapRate    float64 `json:"average_cap_rate"`
	AverageDSCR       float64 `json:"average_dscr"`
}
