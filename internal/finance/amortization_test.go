package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		years     int
		want      float64
	}{
		{"thirty year fixed", 750000, 6, 30, 4496.63},
		{"zero rate", 360000, 0, 30, 1000},
		{"zero term", 750000, 6, 0, 0},
		{"zero principal", 0, 6, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyPayment(tt.principal, tt.rate, tt.years)
			assert.InDelta(t, tt.want, got, 0.001)
			assert.False(t, math.IsNaN(got))
			assert.False(t, math.IsInf(got, 0))
		})
	}
}

func TestAnnualDebtService(t *testing.T) {
	assert.InDelta(t, 53959.56, AnnualDebtService(4496.63), 0.001)
	assert.Equal(t, 0.0, AnnualDebtService(0))
}
