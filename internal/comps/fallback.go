package comps

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"valuecraft/server/internal/models"
)

// DefaultFallbackPricePerSqft prices synthetic comps when no rate is given.
const DefaultFallbackPricePerSqft = 200.0

const fallbackSpacing = 45 * 24 * time.Hour

// fallbackOffsets spread synthetic comps across roughly ±2-8% of base value.
var fallbackOffsets = []float64{0.02, -0.04, 0.05, -0.06, 0.08}

var fallbackNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("valuecraft/fallback-comps"))

// Fallback synthesises five comps around baseSqft × pricePerSqft with sale
// dates staggered back from now. The output is deterministic for its inputs.
func Fallback(baseSqft, pricePerSqft float64, now time.Time) []models.ComparableSale {
	if baseSqft <= 0 {
		return nil
	}
	if pricePerSqft <= 0 {
		pricePerSqft = DefaultFallbackPricePerSqft
	}
	base := baseSqft * pricePerSqft

	out := make([]models.ComparableSale, 0, len(fallbackOffsets))
	for i, offset := range fallbackOffsets {
		price := math.Round(base * (1 + offset))
		key := fmt.Sprintf("%.2f|%.2f|%d", baseSqft, pricePerSqft, i)
		out = append(out, models.ComparableSale{
			ID:            uuid.NewSHA1(fallbackNamespace, []byte(key)).String(),
			Address:       fmt.Sprintf("Estimated comparable %d", i+1),
			DistanceMiles: 0.25 * float64(i+1),
			SalePrice:     price,
			SaleDate:      now.Add(-time.Duration(i+1) * fallbackSpacing),
			SquareFootage: baseSqft,
			PricePerSqft:  math.Round(price/baseSqft*100) / 100,
			Adjustments:   []string{"synthetic fallback comparable"},
		})
	}
	return out
}

// WithFallback returns ai unchanged when it holds any comps, otherwise the
// synthetic fallback set. The second value reports whether fallback was used.
func WithFallback(ai []models.ComparableSale, baseSqft, pricePerSqft float64, now time.Time) ([]models.ComparableSale, bool) {
	if len(ai) > 0 {
		return ai, false
	}
	return Fallback(baseSqft, pricePerSqft, now), true
}
