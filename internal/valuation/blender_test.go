package valuation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuecraft/server/internal/comps"
	"valuecraft/server/internal/models"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func date(y int, m time.Month) time.Time { return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC) }

func subject() models.PropertySnapshot {
	return models.PropertySnapshot{
		PropertyType:  models.PropertyTypeSingleFamily,
		SquareFootage: 2000,
		YearBuilt:     intPtr(2000),
	}
}

func aiComps() []models.ComparableSale {
	return []models.ComparableSale{
		{Address: "10 Birch Rd", SalePrice: 400000, SquareFootage: 2000, PricePerSqft: 200},
		{Address: "12 Birch Rd", SalePrice: 440000, SquareFootage: 2000, PricePerSqft: 220},
	}
}

func verifiedComps() []models.ComparableSale {
	return []models.ComparableSale{
		{Address: "1 Cedar Ct", SalePrice: 500000, SquareFootage: 2000, PricePerSqft: 250, Verified: true},
		{Address: "3 Cedar Ct", SalePrice: 540000, SquareFootage: 2000, PricePerSqft: 270, Verified: true},
	}
}

func saleHistory() []models.SaleRecord {
	return []models.SaleRecord{
		{Date: date(2019, time.March), Price: 480000},
		{Date: date(2022, time.July), Price: 500000},
	}
}

func merged(t *testing.T, verified bool) []models.ComparableSale {
	t.Helper()
	var v []models.ComparableSale
	if verified {
		v = verifiedComps()
	}
	out, err := comps.Merge(aiComps(), v)
	require.NoError(t, err)
	return out
}

func TestBlender_AISummaryOnly(t *testing.T) {
	b := NewBlender(DefaultHeuristics())
	result, err := b.Value(Input{
		Property: subject(),
		Comps:    merged(t, false),
		Summary:  &models.MarketSummary{SuggestedValue: 500000, Confidence: intPtr(50)},
		Now:      now,
	})
	require.NoError(t, err)

	assert.Equal(t, 500000.0, result.EstimatedValue)
	assert.Equal(t, 50, result.Confidence)
	assert.Equal(t, "ai_summary", result.Method)
	assert.Equal(t, models.ValueRange{Low: 460000, High: 540000}, result.ValueRange)
	assert.Nil(t, result.TrendAdjustment)
	assert.Equal(t, 250.0, result.PricePerSqft)
}

func TestBlender_SourceRules(t *testing.T) {
	summary := func() *models.MarketSummary {
		return &models.MarketSummary{SuggestedValue: 510000, Confidence: intPtr(60)}
	}

	tests := []struct {
		name           string
		verified       bool
		history        []models.SaleRecord
		summary        *models.MarketSummary
		wantValue      float64
		wantMethod     string
		wantConfidence int
	}{
		{"verified, sale history and AI", true, saleHistory(), summary(), 512000, "verified_sale_history_ai", 92},
		{"verified and AI", true, nil, summary(), 516500, "verified_ai", 80},
		{"verified and sale history", true, saleHistory(), nil, 520000, "verified", 80},
		{"verified only", true, nil, nil, 520000, "verified", 65},
		{"sale history and AI", false, saleHistory(), summary(), 504000, "sale_history_ai", 75},
		{"sale history only", false, saleHistory(), nil, 500000, "sale_history", 60},
		{"AI average price per sqft", false, nil, &models.MarketSummary{AvgPricePerSqft: 230}, 460000, "ai_summary", 45},
		{"merged comps only", false, nil, nil, 420000, "price_per_sqft", 45},
	}

	b := NewBlender(DefaultHeuristics())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := b.Value(Input{
				Property:    subject(),
				Comps:       merged(t, tt.verified),
				SaleHistory: tt.history,
				Summary:     tt.summary,
				Now:         now,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, result.EstimatedValue)
			assert.Equal(t, tt.wantMethod, result.Method)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
		})
	}
}

func TestBlender_FullBlendWithTrendAndTightening(t *testing.T) {
	b := NewBlender(DefaultHeuristics())
	result, err := b.Value(Input{
		Property:    subject(),
		Comps:       merged(t, true),
		SaleHistory: saleHistory(),
		Summary: &models.MarketSummary{
			SuggestedValue: 510000,
			Confidence:     intPtr(60),
			ValueRange:     &models.ValueRange{Low: 480000, High: 540000},
		},
		Trend: &models.MarketTrendSignal{Temperature: models.MarketWarm, ValueAdjustmentPercent: 2},
		Now:   now,
	})
	require.NoError(t, err)

	require.NotNil(t, result.TrendAdjustment)
	assert.Equal(t, models.TrendAdjustment{PreAdjustmentValue: 512000, AdjustmentPercent: 2, AdjustmentAmount: 10240}, *result.TrendAdjustment)
	assert.Equal(t, 522240.0, result.EstimatedValue)
	assert.Equal(t, models.ValueRange{Low: 514752, High: 522728}, result.ValueRange)
	assert.Equal(t, 92, result.Confidence)
}

func TestBlender_NegativeTrendShiftsRange(t *testing.T) {
	b := NewBlender(DefaultHeuristics())
	result, err := b.Value(Input{
		Property: subject(),
		Comps:    merged(t, false),
		Summary:  &models.MarketSummary{SuggestedValue: 500000},
		Trend:    &models.MarketTrendSignal{ValueAdjustmentPercent: -3},
		Now:      now,
	})
	require.NoError(t, err)

	assert.Equal(t, 485000.0, result.EstimatedValue)
	assert.Equal(t, -15000.0, result.TrendAdjustment.AdjustmentAmount)
	assert.Equal(t, models.ValueRange{Low: 445000, High: 525000}, result.ValueRange)
}

func TestBlender_RangeRecenters(t *testing.T) {
	b := NewBlender(DefaultHeuristics())

	t.Run("tightening inverts the range", func(t *testing.T) {
		result, err := b.Value(Input{
			Property: subject(),
			Comps:    merged(t, true),
			Summary:  &models.MarketSummary{ValueRange: &models.ValueRange{Low: 500000, High: 505000}},
			Now:      now,
		})
		require.NoError(t, err)
		assert.Equal(t, 520000.0, result.EstimatedValue)
		assert.Equal(t, models.ValueRange{Low: 477256, High: 527494}, result.ValueRange)
	})

	t.Run("estimate outside reported range", func(t *testing.T) {
		result, err := b.Value(Input{
			Property: subject(),
			Comps:    merged(t, false),
			Summary: &models.MarketSummary{
				SuggestedValue: 500000,
				ValueRange:     &models.ValueRange{Low: 300000, High: 350000},
			},
			Now: now,
		})
		require.NoError(t, err)
		assert.Equal(t, models.ValueRange{Low: 475000, High: 525000}, result.ValueRange)
	})
}

func TestBlender_ConfidenceCaps(t *testing.T) {
	b := NewBlender(DefaultHeuristics())

	result, err := b.Value(Input{
		Property:    subject(),
		Comps:       merged(t, false),
		SaleHistory: saleHistory(),
		Summary:     &models.MarketSummary{SuggestedValue: 500000, Confidence: intPtr(95)},
		Now:         now,
	})
	require.NoError(t, err)
	assert.Equal(t, 80, result.Confidence)

	result, err = b.Value(Input{
		Property: subject(),
		Comps:    merged(t, true),
		Summary:  &models.MarketSummary{SuggestedValue: 500000, Confidence: intPtr(90)},
		Now:      now,
	})
	require.NoError(t, err)
	assert.Equal(t, 92, result.Confidence)
}

func TestBlender_Invariants(t *testing.T) {
	b := NewBlender(DefaultHeuristics())
	summaries := []*models.MarketSummary{
		nil,
		{SuggestedValue: 500000, Confidence: intPtr(150)},
		{SuggestedValue: 300000, ValueRange: &models.ValueRange{Low: 900000, High: 950000}},
		{AvgPricePerSqft: 180, Confidence: intPtr(-10)},
	}
	trends := []*models.MarketTrendSignal{nil, {ValueAdjustmentPercent: 12}, {ValueAdjustmentPercent: -20}}

	for _, verified := range []bool{false, true} {
		for _, history := range [][]models.SaleRecord{nil, saleHistory()} {
			for _, summary := range summaries {
				for _, trend := range trends {
					result, err := b.Value(Input{
						Property:    subject(),
						Comps:       merged(t, verified),
						SaleHistory: history,
						Summary:     summary,
						Trend:       trend,
						Now:         now,
					})
					require.NoError(t, err)
					assert.LessOrEqual(t, result.ValueRange.Low, result.EstimatedValue)
					assert.GreaterOrEqual(t, result.ValueRange.High, result.EstimatedValue)
					assert.GreaterOrEqual(t, result.Confidence, 0)
					assert.LessOrEqual(t, result.Confidence, 100)
					if history != nil && !verified {
						assert.LessOrEqual(t, result.Confidence, 80)
					}
					if verified {
						assert.LessOrEqual(t, result.Confidence, 92)
					}
				}
			}
		}
	}
}

func TestBlender_Errors(t *testing.T) {
	b := NewBlender(DefaultHeuristics())

	zeroArea := subject()
	zeroArea.SquareFootage = 0
	_, err := b.Value(Input{Property: zeroArea, Comps: aiComps(), Now: now})
	var invalid *InvalidPropertyDataError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "square_footage", invalid.Field)

	_, err = b.Value(Input{Property: subject(), Now: now})
	var empty *comps.EmptyInputError
	assert.True(t, errors.As(err, &empty))
}

func TestAdjustForTrend(t *testing.T) {
	assert.Equal(t, models.TrendAdjustment{PreAdjustmentValue: 400000}, AdjustForTrend(400000, nil))

	adj := AdjustForTrend(400000, &models.MarketTrendSignal{ValueAdjustmentPercent: 1.5})
	assert.Equal(t, 6000.0, adj.AdjustmentAmount)
	assert.Equal(t, 1.5, adj.AdjustmentPercent)

	adj = AdjustForTrend(400000, &models.MarketTrendSignal{})
	assert.Equal(t, 0.0, adj.AdjustmentAmount)
}
