package geometry

import (
	"github.com/paulmach/orb/geojson"

	"valuecraft/server/internal/models"
)

// CompsFeatureCollection renders the subject and its located comps as GeoJSON
// for map overlays. Comps without coordinates are skipped.
func CompsFeatureCollection(subject *Point, comps []models.ComparableSale) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if subject != nil {
		f := geojson.NewFeature(subject.orb())
		f.Properties["role"] = "subject"
		fc.Append(f)
	}

	for _, c := range comps {
		p, ok := NewPoint(c.Latitude, c.Longitude)
		if !ok {
			continue
		}
		f := geojson.NewFeature(p.orb())
		f.Properties["role"] = "comparable"
		f.Properties["address"] = c.Address
		f.Properties["sale_price"] = c.SalePrice
		f.Properties["price_per_sqft"] = c.EffectivePricePerSqft()
		f.Properties["verified"] = c.Verified
		if c.DistanceMiles > 0 {
			f.Properties["distance_miles"] = c.DistanceMiles
		}
		fc.Append(f)
	}

	if len(fc.Features) > 1 {
		bound := fc.Features[0].Geometry.Bound()
		for _, f := range fc.Features[1:] {
			bound = bound.Union(f.Geometry.Bound())
		}
		fc.BBox = geojson.NewBBox(bound)
	}
	return fc
}

