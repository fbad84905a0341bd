package comps

import (
	"math"
	"time"

	"valuecraft/server/internal/models"
)

const (
	recencyHorizonMonths = 24.0
	daysPerMonth         = 30.0
)

// Recency labels.
const (
	RecencyVeryRecent = "very recent"
	RecencyRecent     = "recent"
	RecencyModerate   = "moderate"
	RecencyDated      = "dated"
)

// RecencyScore scores a sale date from 100 (today) down to 0 at two years.
func RecencyScore(saleDate, now time.Time) int {
	months := monthsBetween(saleDate, now)
	score := 100 - months*100/recencyHorizonMonths
	return int(math.Round(math.Max(0, math.Min(100, score))))
}

// RecencyLabel buckets a sale date by age.
func RecencyLabel(saleDate, now time.Time) string {
	months := monthsBetween(saleDate, now)
	switch {
	case months < 3:
		return RecencyVeryRecent
	case months < 6:
		return RecencyRecent
	case months < 12:
		return RecencyModerate
	default:
		return RecencyDated
	}
}

// AnnotateRecency returns a copy of comps with missing recency fields filled
// in. Comps without a sale date are left as they are.
func AnnotateRecency(comps []models.ComparableSale, now time.Time) []models.ComparableSale {
	out := make([]models.ComparableSale, len(comps))
	for i, c := range comps {
		if !c.SaleDate.IsZero() {
			if c.RecencyScore == nil {
				score := RecencyScore(c.SaleDate, now)
				c.RecencyScore = &score
			}
			if c.RecencyLabel == "" {
				c.RecencyLabel = RecencyLabel(c.SaleDate, now)
			}
		}
		out[i] = c
	}
	return out
}

func monthsBetween(from, to time.Time) float64 {
	days := to.Sub(from).Hours() / 24
	if days < 0 {
		return 0
	}
	return days / daysPerMonth
}
