package valuation

import (
	"math"

	"valuecraft/server/internal/models"
)

func (b *Blender) approaches(in Input, estimate float64, s sources) models.ApproachBreakdown {
	return models.ApproachBreakdown{
		Income: b.incomeApproach(in, estimate),
		Sales:  salesApproach(in, s),
		Cost:   b.costApproach(in, estimate),
	}
}

func (b *Blender) incomeApproach(in Input, estimate float64) models.IncomeApproach {
	capRate := b.h.AreaCapRate
	if in.AreaCapRate != nil && *in.AreaCapRate > 0 {
		capRate = *in.AreaCapRate
	}
	noi := estimate * capRate / 100
	if in.NOI != nil {
		noi = *in.NOI
	}
	return models.IncomeApproach{
		Value:   math.Round(noi / (capRate / 100)),
		CapRate: capRate,
		NOI:     math.Round(noi),
	}
}

func salesApproach(in Input, s sources) models.SalesApproach {
	ppsf, ok := models.MeanPricePerSqft(in.Comps)
	if !ok {
		ppsf = s.anchor
	}
	return models.SalesApproach{
		Value:        math.Round(s.sqft * ppsf),
		PricePerSqft: math.Round(ppsf*100) / 100,
		CompCount:    len(in.Comps),
	}
}

func (b *Blender) costApproach(in Input, estimate float64) models.CostApproach {
	replacement := in.Property.SquareFootage * b.h.BuildCost(in.Property.PropertyType)
	age := float64(in.Property.AgeYears(in.Now))
	depreciation := replacement * math.Min(age*b.h.DepreciationPerYear, b.h.MaxDepreciation)

	share := b.h.LandShare
	if lot := in.Property.LotSizeAcres; lot != nil && *lot > 0 {
		share = b.h.LandShare * *lot / b.h.TypicalLotAcres
		share = math.Max(b.h.MinLandShare, math.Min(b.h.MaxLandShare, share))
	}
	land := estimate * share

	return models.CostApproach{
		Value:           math.Round(land + replacement - depreciation),
		LandValue:       math.Round(land),
		ReplacementCost: math.Round(replacement),
		Depreciation:    math.Round(depreciation),
	}
}
