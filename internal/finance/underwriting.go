package finance

import (
	"math"

	"valuecraft/server/internal/models"
)

// DefaultClosingCostPct is used when neither the deal nor the enrichment
// provider supplies a closing-cost percentage.
const DefaultClosingCostPct = 3.5

// Engine turns deal terms into an underwriting model.
type Engine struct {
	closingCostPct float64
}

// NewEngine creates an engine with the given fallback closing-cost percentage.
// A non-positive value selects DefaultClosingCostPct.
func NewEngine(defaultClosingCostPct float64) *Engine {
	if defaultClosingCostPct <= 0 {
		defaultClosingCostPct = DefaultClosingCostPct
	}
	return &Engine{closingCostPct: defaultClosingCostPct}
}

// dealTerms is an UnderwritingInput with every source resolved to a number.
type dealTerms struct {
	price          float64
	downPct        float64
	rate           float64
	years          int
	grossRent      float64
	vacancyPct     float64
	expenseTotal   *float64
	opexRatio      float64
	closingCostPct float64
	units          int
	sqft           float64
}

func (e *Engine) resolve(in models.UnderwritingInput) dealTerms {
	t := dealTerms{
		price:        in.PurchasePrice,
		downPct:      in.DownPaymentPct,
		rate:         in.InterestRate,
		years:        in.LoanTermYears,
		grossRent:    in.GrossRentAnnual,
		vacancyPct:   clamp(in.VacancyPct, 0, 100),
		opexRatio:    in.OpexRatio,
		units:        in.UnitCount,
		sqft:         in.SquareFootage,
		expenseTotal: in.ExpenseTotal,
	}

	if in.RentRoll != nil && in.RentRoll.TotalUnits > 0 {
		t.grossRent = in.RentRoll.TotalMonthlyRent * 12
		if t.units == 0 {
			t.units = in.RentRoll.TotalUnits
		}
	}

	switch {
	case in.ClosingCostPct != nil:
		t.closingCostPct = *in.ClosingCostPct
	case in.Enrichment != nil && in.Enrichment.ClosingCostPct != nil:
		t.closingCostPct = *in.Enrichment.ClosingCostPct
	default:
		t.closingCostPct = e.closingCostPct
	}
	return t
}

// Underwrite computes the full underwriting model for one set of deal terms.
// Every ratio degrades to zero when its denominator is zero.
func (e *Engine) Underwrite(in models.UnderwritingInput) models.UnderwritingResult {
	return e.compute(e.resolve(in))
}

func (e *Engine) compute(t dealTerms) models.UnderwritingResult {
	downPayment := t.price * t.downPct / 100
	loanAmount := t.price - downPayment
	payment := MonthlyPayment(loanAmount, t.rate, t.years)
	debtService := AnnualDebtService(payment)

	closingCosts := math.Round(t.price * t.closingCostPct / 100)
	totalCash := downPayment + closingCosts

	egi := t.grossRent * (1 - t.vacancyPct/100)
	var opex float64
	if t.expenseTotal != nil {
		opex = *t.expenseTotal
	} else {
		opex = egi * t.opexRatio / 100
	}
	noi := egi - opex
	cashFlow := noi - debtService

	breakEven := ratio(opex+debtService, t.grossRent) * 100
	if breakEven > 100 {
		breakEven = 100
	}

	return models.UnderwritingResult{
		PurchasePrice:      t.price,
		DownPayment:        downPayment,
		LoanAmount:         loanAmount,
		InterestRate:       t.rate,
		LoanTermYears:      t.years,
		MonthlyPayment:     payment,
		AnnualDebtService:  debtService,
		GrossRent:          t.grossRent,
		VacancyPct:         t.vacancyPct,
		EGI:                egi,
		OperatingExpenses:  opex,
		NOI:                noi,
		CashFlow:           cashFlow,
		CapRate:            ratio(noi, t.price) * 100,
		CashOnCash:         ratio(cashFlow, totalCash) * 100,
		DSCR:               ratio(noi, debtService),
		GRM:                ratio(t.price, t.grossRent),
		ClosingCosts:       closingCosts,
		TotalCashRequired:  totalCash,
		BreakEvenOccupancy: breakEven,
		PricePerUnit:       ratio(t.price, float64(t.units)),
		PricePerSqft:       ratio(t.price, t.sqft),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
