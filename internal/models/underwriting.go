package models

import "time"

// UnitStatus is the occupancy state of a rent-roll unit.
type UnitStatus string

const (
	UnitOccupied UnitStatus = "occupied"
	UnitVacant   UnitStatus = "vacant"
	UnitNotice   UnitStatus = "notice"
)

// RentRollUnit is a single leasable unit.
type RentRollUnit struct {
	ID          string     `json:"id"`
	UnitType    string     `json:"unit_type"`
	SquareFeet  float64    `json:"square_feet"`
	MonthlyRent float64    `json:"monthly_rent"`
	MarketRent  float64    `json:"market_rent"`
	LeaseStart  *time.Time `json:"lease_start,omitempty"`
	LeaseEnd    *time.Time `json:"lease_end,omitempty"`
	TenantName  string     `json:"tenant_name,omitempty"`
	Status      UnitStatus `json:"status"`
}

// RentRollSummary is the aggregate view of a rent roll.
type RentRollSummary struct {
	TotalUnits       int     `json:"total_units"`
	OccupiedUnits    int     `json:"occupied_units"`
	VacantUnits      int     `json:"vacant_units"`
	NoticeUnits      int     `json:"notice_units"`
	TotalSqft        float64 `json:"total_sqft"`
	TotalMonthlyRent float64 `json:"total_monthly_rent"`
	TotalMarketRent  float64 `json:"total_market_rent"`
	OccupancyRate    float64 `json:"occupancy_rate"`
	LossToLease      float64 `json:"loss_to_lease"`
}

// OperatingExpenseLine is one line of the expense ledger.
type OperatingExpenseLine struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Annual   float64 `json:"annual"`
	Monthly  float64 `json:"monthly"`
}

// ExpenseTotals sums the expense ledger.
type ExpenseTotals struct {
	Lines   int     `json:"lines"`
	Annual  float64 `json:"annual"`
	Monthly float64 `json:"monthly"`
}

// EnrichmentFigures are area benchmarks from the enrichment provider.
type EnrichmentFigures struct {
	PropertyTaxRate     *float64           `json:"property_tax_rate,omitempty"`
	PropertyTaxEstimate *float64           `json:"property_tax_estimate,omitempty"`
	InsuranceEstimate   *float64           `json:"insurance_estimate,omitempty"`
	ClosingCostPct      *float64           `json:"closing_cost_pct,omitempty"`
	MaintenancePerSqft  *float64           `json:"maintenance_per_sqft,omitempty"`
	MaintenanceAnnual   *float64           `json:"maintenance_annual,omitempty"`
	ReservesAnnual      *float64           `json:"reserves_annual,omitempty"`
	MedianPrice         *float64           `json:"median_price,omitempty"`
	AverageCapRate      *float64           `json:"average_cap_rate,omitempty"`
	VacancyRate         *float64           `json:"vacancy_rate,omitempty"`
	MortgageRates       map[string]float64 `json:"mortgage_rates,omitempty"`
}

// UnderwritingInput holds the deal terms for one underwriting pass.
type UnderwritingInput struct {
	PurchasePrice   float64 `json:"purchase_price"`
	DownPaymentPct  float64 `json:"down_payment_pct"`
	InterestRate    float64 `json:"interest_rate"`
	LoanTermYears   int     `json:"loan_term_years"`
	GrossRentAnnual float64 `json:"gross_rent_annual"`
	VacancyPct      float64 `json:"vacancy_pct"`
	OpexRatio       float64 `json:"opex_ratio"`

	// RentRoll replaces GrossRentAnnual when it holds at least one unit.
	RentRoll *RentRollSummary `json:"rent_roll,omitempty"`
	// ExpenseTotal is the populated ledger total; it replaces OpexRatio.
	ExpenseTotal   *float64           `json:"expense_total,omitempty"`
	ClosingCostPct *float64           `json:"closing_cost_pct,omitempty"`
	Enrichment     *EnrichmentFigures `json:"enrichment,omitempty"`

	UnitCount     int     `json:"unit_count"`
	SquareFootage float64 `json:"square_footage"`
}

// UnderwritingResult is the closed-form financial model for a deal.
type UnderwritingResult struct {
	PurchasePrice      float64 `json:"purchase_price"`
	DownPayment        float64 `json:"down_payment"`
	LoanAmount         float64 `json:"loan_amount"`
	InterestRate       float64 `json:"interest_rate"`
	LoanTermYears      int     `json:"loan_term_years"`
	MonthlyPayment     float64 `json:"monthly_payment"`
	AnnualDebtService  float64 `json:"annual_debt_service"`
	GrossRent          float64 `json:"gross_rent"`
	VacancyPct         float64 `json:"vacancy_pct"`
	EGI                float64 `json:"egi"`
	OperatingExpenses  float64 `json:"operating_expenses"`
	NOI                float64 `json:"noi"`
	CashFlow           float64 `json:"cash_flow"`
	CapRate            float64 `json:"cap_rate"`
	CashOnCash         float64 `json:"cash_on_cash"`
	DSCR               float64 `json:"dscr"`
	GRM                float64 `json:"grm"`
	ClosingCosts       float64 `json:"closing_costs"`
	TotalCashRequired  float64 `json:"total_cash_required"`
	BreakEvenOccupancy float64 `json:"break_even_occupancy"`
	PricePerUnit       float64 `json:"price_per_unit"`
	PricePerSqft       float64 `json:"price_per_sqft"`
}

// ScenarioLabel names a scenario in the sensitivity set.
type ScenarioLabel string

const (
	ScenarioConservative ScenarioLabel = "conservative"
	ScenarioBase         ScenarioLabel = "base"
	ScenarioOptimistic   ScenarioLabel = "optimistic"
)

// ScenarioResult pairs a scenario label with its independent result.
type ScenarioResult struct {
	Label  ScenarioLabel      `json:"label"`
	Result UnderwritingResult `json:"result"`
}
