package analysis

import (
	"time"

	"valuecraft/server/internal/comps"
	"valuecraft/server/internal/finance"
	"valuecraft/server/internal/geometry"
	"valuecraft/server/internal/models"
	"valuecraft/server/internal/rentroll"
	"valuecraft/server/internal/valuation"
)

// Evaluate runs the whole engine over already-gathered sources. It is pure:
// the same arguments always produce the same result.
func Evaluate(in Input, src Sources, h valuation.Heuristics, now time.Time) (models.AnalysisResult, error) {
	property := withPublicRecord(in.Property, src.PublicRecord)
	if property.SquareFootage <= 0 {
		return models.AnalysisResult{}, &valuation.InvalidPropertyDataError{Field: "square_footage", Reason: "must be positive"}
	}

	merged, usedFallback, err := prepareComps(in, property, src, h, now)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	rollSummary := rentroll.Summarize(in.Units)
	ledger := rentroll.NewLedger()
	ledger.Load(in.Expenses)
	if ledger.Len() == 0 && in.Deal.OpexRatio == 0 {
		ledger.SeedFromEnrichment(src.Enrichment, property.SquareFootage)
	}
	expenses := ledger.Totals()

	deal := in.Deal
	deal.Enrichment = src.Enrichment
	if rollSummary.TotalUnits > 0 {
		deal.RentRoll = &rollSummary
	}
	if ledger.Len() > 0 {
		total := expenses.Annual
		deal.ExpenseTotal = &total
	}
	if deal.UnitCount == 0 {
		deal.UnitCount = property.UnitCount
	}
	if deal.SquareFootage == 0 {
		deal.SquareFootage = property.SquareFootage
	}

	engine := finance.NewEngine(h.ClosingCostPct)
	blendInput := valuation.Input{
		Property:    property,
		Comps:       merged,
		Summary:     src.Summary,
		Trend:       src.Trend,
		Now:         now,
		SaleHistory: saleHistory(src.PublicRecord),
	}
	if deal.RentRoll != nil || deal.ExpenseTotal != nil {
		noi := engine.Underwrite(deal).NOI
		blendInput.NOI = &noi
	}
	if src.Enrichment != nil {
		blendInput.AreaCapRate = src.Enrichment.AverageCapRate
	}

	value, err := valuation.NewBlender(h).Value(blendInput)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	if deal.PurchasePrice <= 0 {
		deal.PurchasePrice = value.EstimatedValue
	}

	return models.AnalysisResult{
		Location:     in.Location,
		Property:     property,
		Valuation:    value,
		Underwriting: engine.Underwrite(deal),
		Scenarios:    engine.Scenarios(deal),
		RentRoll:     rollSummary,
		Expenses:     expenses,
		Condition:    src.Condition,
		Sources: models.SourceAvailability{
			AIComps:       len(src.AIComps),
			VerifiedComps: len(comps.Verified(merged)),
			FallbackComps: usedFallback,
			SaleHistory:   len(blendInput.SaleHistory) > 0,
			MarketSummary: src.Summary != nil,
			Trend:         src.Trend != nil,
			Enrichment:    src.Enrichment != nil,
		},
		CompletedAt: now,
	}, nil
}

// prepareComps merges AI (or fallback) comps with verified comps when they
// were requested, then fills distance and recency.
func prepareComps(in Input, property models.PropertySnapshot, src Sources, h valuation.Heuristics, now time.Time) ([]models.ComparableSale, bool, error) {
	ai, usedFallback := comps.WithFallback(src.AIComps, property.SquareFootage, h.FallbackPricePerSqft, now)

	var verified []models.ComparableSale
	if in.RequestVerified {
		verified = src.VerifiedComps
	}

	merged, err := comps.Merge(ai, verified)
	if err != nil {
		return nil, false, err
	}

	if subject, ok := geometry.NewPoint(property.Latitude, property.Longitude); ok {
		merged = comps.FillDistances(subject, merged)
		if nearby := comps.WithinRadius(subject, merged, in.CompRadiusMiles); len(nearby) > 0 {
			merged = nearby
		}
	}
	return comps.AnnotateRecency(merged, now), usedFallback, nil
}

// withPublicRecord fills attributes the caller left blank from the public
// record. Caller-supplied values always win.
func withPublicRecord(p models.PropertySnapshot, rec *models.PublicRecord) models.PropertySnapshot {
	if rec == nil {
		return p
	}
	if p.SquareFootage <= 0 && rec.SquareFootage != nil {
		p.SquareFootage = *rec.SquareFootage
	}
	if p.LotSizeAcres == nil && rec.LotSizeAcres != nil {
		lot := *rec.LotSizeAcres
		p.LotSizeAcres = &lot
	}
	if p.YearBuilt == nil && rec.YearBuilt != nil {
		year := *rec.YearBuilt
		p.YearBuilt = &year
	}
	return p
}

// saleHistory returns the subject's sales when they come from an
// authoritative record; estimated histories are not real sales.
func saleHistory(rec *models.PublicRecord) []models.SaleRecord {
	if rec == nil || !rec.Authoritative {
		return nil
	}
	return rec.SaleHistory
}
