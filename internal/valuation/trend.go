package valuation

import (
	"math"

	"valuecraft/server/internal/models"
)

// AdjustForTrend converts a trend signal into a value shift. A nil signal is
// a zero adjustment.
func AdjustForTrend(pre float64, signal *models.MarketTrendSignal) models.TrendAdjustment {
	adj := models.TrendAdjustment{PreAdjustmentValue: pre}
	if signal == nil {
		return adj
	}
	adj.AdjustmentPercent = signal.ValueAdjustmentPercent
	adj.AdjustmentAmount = math.Round(pre * signal.ValueAdjustmentPercent / 100)
	return adj
}
