package comps

import (
	"math"

	"valuecraft/server/internal/geometry"
	"valuecraft/server/internal/models"
)

// FillDistances returns a copy of comps where a missing distance is computed
// from the comp's and the subject's coordinates.
func FillDistances(subject geometry.Point, comps []models.ComparableSale) []models.ComparableSale {
	out := make([]models.ComparableSale, len(comps))
	for i, c := range comps {
		if c.DistanceMiles <= 0 {
			if p, ok := geometry.NewPoint(c.Latitude, c.Longitude); ok {
				c.DistanceMiles = math.Round(geometry.DistanceMiles(subject, p)*100) / 100
			}
		}
		out[i] = c
	}
	return out
}

// WithinRadius drops located comps farther than radiusMiles from the subject.
// Comps without coordinates are kept. A non-positive radius keeps everything.
func WithinRadius(subject geometry.Point, comps []models.ComparableSale, radiusMiles float64) []models.ComparableSale {
	out := make([]models.ComparableSale, 0, len(comps))
	for _, c := range comps {
		if radiusMiles > 0 {
			if p, ok := geometry.NewPoint(c.Latitude, c.Longitude); ok && !geometry.Within(subject, p, radiusMiles) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
