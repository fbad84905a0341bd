package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuecraft/server/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func exampleDeal() models.UnderwritingInput {
	return models.UnderwritingInput{
		PurchasePrice:   1000000,
		DownPaymentPct:  25,
		InterestRate:    6,
		LoanTermYears:   30,
		GrossRentAnnual: 120000,
		VacancyPct:      5,
		OpexRatio:       35,
		ClosingCostPct:  floatPtr(0),
		UnitCount:       10,
		SquareFootage:   8000,
	}
}

func TestEngine_Underwrite(t *testing.T) {
	result := NewEngine(0).Underwrite(exampleDeal())

	assert.Equal(t, 250000.0, result.DownPayment)
	assert.Equal(t, 750000.0, result.LoanAmount)
	assert.InDelta(t, 4496.63, result.MonthlyPayment, 0.001)
	assert.InDelta(t, 53959.56, result.AnnualDebtService, 0.001)
	assert.InDelta(t, 114000, result.EGI, 0.001)
	assert.InDelta(t, 39900, result.OperatingExpenses, 0.001)
	assert.InDelta(t, 74100, result.NOI, 0.001)
	assert.InDelta(t, 7.41, result.CapRate, 0.0001)
	assert.InDelta(t, 20140.44, result.CashFlow, 0.001)
	assert.InDelta(t, 8.056, result.CashOnCash, 0.001)
	assert.InDelta(t, 1.3733, result.DSCR, 0.0001)
	assert.InDelta(t, 8.333, result.GRM, 0.001)
	assert.InDelta(t, 78.2163, result.BreakEvenOccupancy, 0.0001)
	assert.Equal(t, 0.0, result.ClosingCosts)
	assert.Equal(t, 250000.0, result.TotalCashRequired)
	assert.Equal(t, 100000.0, result.PricePerUnit)
	assert.Equal(t, 125.0, result.PricePerSqft)
}

func TestEngine_Underwrite_CapRateAndDSCRIdentities(t *testing.T) {
	result := NewEngine(0).Underwrite(exampleDeal())
	assert.InDelta(t, result.NOI/result.PurchasePrice*100, result.CapRate, 1e-9)
	assert.InDelta(t, result.NOI/result.AnnualDebtService, result.DSCR, 1e-9)
}

func TestEngine_Underwrite_ClosingCosts(t *testing.T) {
	t.Run("engine default", func(t *testing.T) {
		in := exampleDeal()
		in.ClosingCostPct = nil
		result := NewEngine(0).Underwrite(in)
		assert.Equal(t, 35000.0, result.ClosingCosts)
		assert.Equal(t, 285000.0, result.TotalCashRequired)
		assert.InDelta(t, 7.0668, result.CashOnCash, 0.0001)
	})

	t.Run("enrichment figure", func(t *testing.T) {
		in := exampleDeal()
		in.ClosingCostPct = nil
		in.Enrichment = &models.EnrichmentFigures{ClosingCostPct: floatPtr(2)}
		result := NewEngine(0).Underwrite(in)
		assert.Equal(t, 20000.0, result.ClosingCosts)
	})

	t.Run("deal figure wins over enrichment", func(t *testing.T) {
		in := exampleDeal()
		in.ClosingCostPct = floatPtr(1)
		in.Enrichment = &models.EnrichmentFigures{ClosingCostPct: floatPtr(2)}
		result := NewEngine(4).Underwrite(in)
		assert.Equal(t, 10000.0, result.ClosingCosts)
	})
}

func TestEngine_Underwrite_RentRollAndLedger(t *testing.T) {
	in := exampleDeal()
	in.RentRoll = &models.RentRollSummary{TotalUnits: 4, TotalMonthlyRent: 8000}
	in.ExpenseTotal = floatPtr(30000)
	in.UnitCount = 0

	result := NewEngine(0).Underwrite(in)
	assert.InDelta(t, 96000, result.GrossRent, 0.001)
	assert.InDelta(t, 91200, result.EGI, 0.001)
	assert.InDelta(t, 30000, result.OperatingExpenses, 0.001)
	assert.InDelta(t, 61200, result.NOI, 0.001)
	assert.Equal(t, 250000.0, result.PricePerUnit)
}

func TestEngine_Underwrite_EmptyRentRollUsesManualRent(t *testing.T) {
	in := exampleDeal()
	in.RentRoll = &models.RentRollSummary{}
	result := NewEngine(0).Underwrite(in)
	assert.InDelta(t, 120000, result.GrossRent, 0.001)
}

func TestEngine_Underwrite_DegenerateInputs(t *testing.T) {
	result := NewEngine(0).Underwrite(models.UnderwritingInput{})

	require.NotNil(t, result)
	assert.Equal(t, 0.0, result.MonthlyPayment)
	assert.Equal(t, 0.0, result.CapRate)
	assert.Equal(t, 0.0, result.CashOnCash)
	assert.Equal(t, 0.0, result.DSCR)
	assert.Equal(t, 0.0, result.GRM)
	assert.Equal(t, 0.0, result.BreakEvenOccupancy)
	assert.Equal(t, 0.0, result.PricePerUnit)
	assert.Equal(t, 0.0, result.PricePerSqft)
}

func TestEngine_Underwrite_AllCashDeal(t *testing.T) {
	in := exampleDeal()
	in.DownPaymentPct = 100
	result := NewEngine(0).Underwrite(in)
	assert.Equal(t, 0.0, result.AnnualDebtService)
	assert.Equal(t, 0.0, result.DSCR)
	assert.InDelta(t, 74100, result.CashFlow, 0.001)
}

func TestEngine_Underwrite_BreakEvenCappedAt100(t *testing.T) {
	in := exampleDeal()
	in.GrossRentAnnual = 10000
	result := NewEngine(0).Underwrite(in)
	assert.Equal(t, 100.0, result.BreakEvenOccupancy)
}
