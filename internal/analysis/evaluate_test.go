package analysis

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuecraft/server/internal/comps"
	"valuecraft/server/internal/models"
	"valuecraft/server/internal/valuation"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func baseInput() Input {
	return Input{
		Location: models.Location{Address: "21 Elm St", City: "Springfield", State: "IL", Zip: "62701"},
		Property: models.PropertySnapshot{
			PropertyType:  models.PropertyTypeSingleFamily,
			SquareFootage: 2000,
			YearBuilt:     intPtr(2000),
			UnitCount:     1,
		},
		Deal: models.UnderwritingInput{
			DownPaymentPct:  25,
			InterestRate:    6,
			LoanTermYears:   30,
			GrossRentAnnual: 36000,
			VacancyPct:      5,
		},
	}
}

func aiSources() Sources {
	return Sources{
		AIComps: []models.ComparableSale{
			{Address: "10 Birch Rd", SalePrice: 400000, SquareFootage: 2000, PricePerSqft: 200, SaleDate: now.AddDate(0, -2, 0)},
			{Address: "12 Birch Rd", SalePrice: 440000, SquareFootage: 2000, PricePerSqft: 220, SaleDate: now.AddDate(0, -8, 0)},
		},
		Summary: &models.MarketSummary{SuggestedValue: 500000},
	}
}

func TestEvaluate_FallbackWhenNoSources(t *testing.T) {
	result, err := Evaluate(baseInput(), Sources{}, valuation.DefaultHeuristics(), now)
	require.NoError(t, err)

	assert.True(t, result.Sources.FallbackComps)
	assert.Len(t, result.Valuation.Comparables, 5)
	assert.Equal(t, "price_per_sqft", result.Valuation.Method)
	assert.Equal(t, 404000.0, result.Valuation.EstimatedValue)
	assert.Equal(t, 45, result.Valuation.Confidence)
	assert.Equal(t, 404000.0, result.Underwriting.PurchasePrice, "purchase price is seeded from the estimate")
	assert.Len(t, result.Scenarios, 3)
	assert.Equal(t, now, result.CompletedAt)
	assert.Empty(t, result.RunID)
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	h := valuation.DefaultHeuristics()
	first, err := Evaluate(baseInput(), Sources{}, h, now)
	require.NoError(t, err)
	second, err := Evaluate(baseInput(), Sources{}, h, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEvaluate_KeepsCallerPurchasePrice(t *testing.T) {
	in := baseInput()
	in.Deal.PurchasePrice = 450000

	result, err := Evaluate(in, aiSources(), valuation.DefaultHeuristics(), now)
	require.NoError(t, err)

	assert.Equal(t, 500000.0, result.Valuation.EstimatedValue)
	assert.Equal(t, 450000.0, result.Underwriting.PurchasePrice)
}

func TestEvaluate_VerifiedCompsOnlyWhenRequested(t *testing.T) {
	src := aiSources()
	src.VerifiedComps = []models.ComparableSale{
		{Address: "1 Cedar Ct", SalePrice: 500000, SquareFootage: 2000, PricePerSqft: 250},
		{Address: "3 Cedar Ct", SalePrice: 540000, SquareFootage: 2000, PricePerSqft: 270},
	}

	t.Run("not requested", func(t *testing.T) {
		result, err := Evaluate(baseInput(), src, valuation.DefaultHeuristics(), now)
		require.NoError(t, err)
		assert.Equal(t, "ai_summary", result.Valuation.Method)
		assert.Equal(t, 0, result.Sources.VerifiedComps)
		assert.Len(t, result.Valuation.Comparables, 2)
	})

	t.Run("requested", func(t *testing.T) {
		in := baseInput()
		in.RequestVerified = true
		result, err := Evaluate(in, src, valuation.DefaultHeuristics(), now)
		require.NoError(t, err)
		assert.Equal(t, "verified_ai", result.Valuation.Method)
		assert.Equal(t, 513000.0, result.Valuation.EstimatedValue)
		assert.Equal(t, 65, result.Valuation.Confidence)
		assert.Equal(t, 2, result.Sources.VerifiedComps)
		require.Len(t, result.Valuation.Comparables, 4)
		assert.True(t, result.Valuation.Comparables[0].Verified)
	})
}

func TestEvaluate_SaleHistoryRequiresAuthoritativeRecord(t *testing.T) {
	record := &models.PublicRecord{
		SaleHistory: []models.SaleRecord{{Date: now.AddDate(-2, 0, 0), Price: 500000}},
	}

	src := aiSources()
	src.PublicRecord = record
	result, err := Evaluate(baseInput(), src, valuation.DefaultHeuristics(), now)
	require.NoError(t, err)
	assert.False(t, result.Sources.SaleHistory)
	assert.Equal(t, "ai_summary", result.Valuation.Method)

	authoritative := *record
	authoritative.Authoritative = true
	src.PublicRecord = &authoritative
	result, err = Evaluate(baseInput(), src, valuation.DefaultHeuristics(), now)
	require.NoError(t, err)
	assert.True(t, result.Sources.SaleHistory)
	assert.Equal(t, "sale_history_ai", result.Valuation.Method)
	assert.Equal(t, 60, result.Valuation.Confidence)
}

func TestEvaluate_PublicRecordFillsBlankAttributes(t *testing.T) {
	in := baseInput()
	in.Property.SquareFootage = 0
	in.Property.YearBuilt = nil

	src := aiSources()
	src.PublicRecord = &models.PublicRecord{
		SquareFootage: floatPtr(1800),
		YearBuilt:     intPtr(1995),
		LotSizeAcres:  floatPtr(0.3),
	}

	result, err := Evaluate(in, src, valuation.DefaultHeuristics(), now)
	require.NoError(t, err)
	assert.Equal(t, 1800.0, result.Property.SquareFootage)
	require.NotNil(t, result.Property.YearBuilt)
	assert.Equal(t, 1995, *result.Property.YearBuilt)
	require.NotNil(t, result.Property.LotSizeAcres)
	assert.Equal(t, 0.3, *result.Property.LotSizeAcres)
}

func TestEvaluate_CallerAttributesWin(t *testing.T) {
	src := aiSources()
	src.PublicRecord = &models.PublicRecord{SquareFootage: floatPtr(1800), YearBuilt: intPtr(1995)}

	result, err := Evaluate(baseInput(), src, valuation.DefaultHeuristics(), now)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, result.Property.SquareFootage)
	assert.Equal(t, 2000, *result.Property.YearBuilt)
}

func TestEvaluate_MissingSquareFootage(t *testing.T) {
	in := baseInput()
	in.Property.SquareFootage = 0

	_, err := Evaluate(in, aiSources(), valuation.DefaultHeuristics(), now)
	require.Error(t, err)

	var invalid *valuation.InvalidPropertyDataError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, "square_footage", invalid.Field)

	var empty *comps.EmptyInputError
	assert.False(t, errors.As(err, &empty))
}

func TestEvaluate_RadiusFilter(t *testing.T) {
	in := baseInput()
	in.Property.Latitude = floatPtr(40.0)
	in.Property.Longitude = floatPtr(-75.0)
	in.CompRadiusMiles = 5

	src := aiSources()
	src.AIComps = []models.ComparableSale{
		{Address: "near", PricePerSqft: 200, SquareFootage: 2000, Latitude: floatPtr(40.01), Longitude: floatPtr(-75.0)},
		{Address: "far", PricePerSqft: 400, SquareFootage: 2000, Latitude: floatPtr(41.0), Longitude: floatPtr(-75.0)},
		{Address: "unlocated", PricePerSqft: 210, SquareFootage: 2000},
	}

	result, err := Evaluate(in, src, valuation.DefaultHeuristics(), now)
	require.NoError(t, err)
	require.Len(t, result.Valuation.Comparables, 2)
	assert.Equal(t, "near", result.Valuation.Comparables[0].Address)
	assert.InDelta(t, 0.69, result.Valuation.Comparables[0].DistanceMiles, 0.02)
	assert.Equal(t, "unlocated", result.Valuation.Comparables[1].Address)

	t.Run("keeps all comps when none are in range", func(t *testing.T) {
		src.AIComps = src.AIComps[1:2]
		result, err := Evaluate(in, src, valuation.DefaultHeuristics(), now)
		require.NoError(t, err)
		require.Len(t, result.Valuation.Comparables, 1)
		assert.Equal(t, "far", result.Valuation.Comparables[0].Address)
	})
}

func TestEvaluate_RecencyAnnotated(t *testing.T) {
	result, err := Evaluate(baseInput(), aiSources(), valuation.DefaultHeuristics(), now)
	require.NoError(t, err)

	for _, c := range result.Valuation.Comparables {
		assert.NotNil(t, c.RecencyScore, c.Address)
		assert.NotEmpty(t, c.RecencyLabel, c.Address)
	}
}

func TestEvaluate_Expenses(t *testing.T) {
	enrichment := &models.EnrichmentFigures{
		PropertyTaxEstimate: floatPtr(6000),
		InsuranceEstimate:   floatPtr(2400),
	}

	t.Run("seeded from enrichment", func(t *testing.T) {
		src := aiSources()
		src.Enrichment = enrichment
		result, err := Evaluate(baseInput(), src, valuation.DefaultHeuristics(), now)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Expenses.Lines)
		assert.Equal(t, 8400.0, result.Expenses.Annual)
		assert.Equal(t, 700.0, result.Expenses.Monthly)
		assert.Equal(t, 8400.0, result.Underwriting.OperatingExpenses)
		assert.True(t, result.Sources.Enrichment)
	})

	t.Run("opex ratio suppresses seeding", func(t *testing.T) {
		in := baseInput()
		in.Deal.OpexRatio = 40
		src := aiSources()
		src.Enrichment = enrichment
		result, err := Evaluate(in, src, valuation.DefaultHeuristics(), now)
		require.NoError(t, err)

		assert.Equal(t, 0, result.Expenses.Lines)
		assert.InDelta(t, 34200*0.40, result.Underwriting.OperatingExpenses, 0.001)
	})

	t.Run("caller ledger is used as given", func(t *testing.T) {
		in := baseInput()
		in.Expenses = []models.OperatingExpenseLine{{ID: "tax", Category: "Property Tax", Annual: 4800}}
		src := aiSources()
		src.Enrichment = enrichment
		result, err := Evaluate(in, src, valuation.DefaultHeuristics(), now)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Expenses.Lines)
		assert.Equal(t, 4800.0, result.Underwriting.OperatingExpenses)
		assert.Equal(t, 34200.0-4800, result.Valuation.Approaches.Income.NOI)
	})
}

func TestEvaluate_RentRollReplacesGrossRent(t *testing.T) {
	in := baseInput()
	in.Units = []models.RentRollUnit{
		{ID: "1", MonthlyRent: 1500, MarketRent: 1600, Status: models.UnitOccupied},
		{ID: "2", MonthlyRent: 1500, MarketRent: 1600, Status: models.UnitVacant},
	}

	result, err := Evaluate(in, aiSources(), valuation.DefaultHeuristics(), now)
	require.NoError(t, err)

	assert.Equal(t, 2, result.RentRoll.TotalUnits)
	assert.Equal(t, 18000.0, result.Underwriting.GrossRent, "only occupied units count toward rent")
}

func TestEvaluate_TrendApplied(t *testing.T) {
	src := aiSources()
	src.Trend = &models.MarketTrendSignal{
		Temperature:            models.MarketWarm,
		Direction:              models.TrendAppreciating,
		Velocity:               models.VelocityModerate,
		ValueAdjustmentPercent: 2,
	}

	result, err := Evaluate(baseInput(), src, valuation.DefaultHeuristics(), now)
	require.NoError(t, err)

	require.NotNil(t, result.Valuation.TrendAdjustment)
	assert.Equal(t, 500000.0, result.Valuation.TrendAdjustment.PreAdjustmentValue)
	assert.Equal(t, 510000.0, result.Valuation.EstimatedValue)
	assert.True(t, result.Sources.Trend)
}
