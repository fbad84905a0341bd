package comps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuecraft/server/internal/models"
)

func daysAgo(d int) time.Time {
	return now.AddDate(0, 0, -d)
}

func TestRecencyScore(t *testing.T) {
	assert.Equal(t, 100, RecencyScore(now, now))
	assert.Equal(t, 50, RecencyScore(daysAgo(360), now))
	assert.Equal(t, 0, RecencyScore(daysAgo(900), now))
	assert.Equal(t, 100, RecencyScore(now.AddDate(0, 0, 10), now))
}

func TestRecencyLabel(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{10, RecencyVeryRecent},
		{100, RecencyRecent},
		{200, RecencyModerate},
		{400, RecencyDated},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RecencyLabel(daysAgo(tt.days), now), "days=%d", tt.days)
	}
}

func TestAnnotateRecency(t *testing.T) {
	keep := 77
	in := []models.ComparableSale{
		{Address: "a", SaleDate: daysAgo(30)},
		{Address: "b", SaleDate: daysAgo(30), RecencyScore: &keep, RecencyLabel: "custom"},
		{Address: "c"},
	}

	out := AnnotateRecency(in, now)
	require.Len(t, out, 3)
	require.NotNil(t, out[0].RecencyScore)
	assert.Equal(t, 96, *out[0].RecencyScore)
	assert.Equal(t, RecencyVeryRecent, out[0].RecencyLabel)
	assert.Equal(t, 77, *out[1].RecencyScore)
	assert.Equal(t, "custom", out[1].RecencyLabel)
	assert.Nil(t, out[2].RecencyScore)
	assert.Nil(t, in[0].RecencyScore)
}
