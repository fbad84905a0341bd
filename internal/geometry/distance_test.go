package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuecraft/server/internal/models"
)

func TestDistanceMiles(t *testing.T) {
	cityHall := Point{Latitude: 40.7128, Longitude: -74.0060}
	williamsburg := Point{Latitude: 40.7306, Longitude: -73.9352}

	assert.InDelta(t, 3.91, DistanceMiles(cityHall, williamsburg), 0.05)
	assert.InDelta(t, 0, DistanceMiles(cityHall, cityHall), 1e-9)
}

func TestWithin(t *testing.T) {
	center := Point{Latitude: 40.0, Longitude: -75.0}
	aboutOneMile := Point{Latitude: 40.0145, Longitude: -75.0}

	assert.True(t, Within(center, aboutOneMile, 1.5))
	assert.False(t, Within(center, aboutOneMile, 0.5))
	assert.False(t, Within(center, Point{Latitude: 41, Longitude: -75}, 10))
}

func TestNewPoint(t *testing.T) {
	lat, lon := 40.0, -75.0
	p, ok := NewPoint(&lat, &lon)
	require.True(t, ok)
	assert.Equal(t, Point{Latitude: 40, Longitude: -75}, p)

	_, ok = NewPoint(&lat, nil)
	assert.False(t, ok)
}

func TestCompsFeatureCollection(t *testing.T) {
	lat, lon := 40.01, -75.01
	subject := &Point{Latitude: 40.0, Longitude: -75.0}
	comps := []models.ComparableSale{
		{Address: "1 Main St", SalePrice: 400000, SquareFootage: 2000, Latitude: &lat, Longitude: &lon, Verified: true},
		{Address: "2 Main St", SalePrice: 410000},
	}

	fc := CompsFeatureCollection(subject, comps)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "subject", fc.Features[0].Properties["role"])
	assert.Equal(t, "1 Main St", fc.Features[1].Properties["address"])
	assert.Equal(t, 200.0, fc.Features[1].Properties["price_per_sqft"])
	assert.Equal(t, true, fc.Features[1].Properties["verified"])
	require.Len(t, fc.BBox, 4)
	assert.Equal(t, -75.01, fc.BBox[0])

	empty := CompsFeatureCollection(nil, nil)
	assert.Empty(t, empty.Features)
	assert.Nil(t, empty.BBox)
}
