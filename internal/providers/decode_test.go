package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"strict json", `{"marketTemperature": "hot", "valueAdjustmentPercent": 2.5}`},
		{"trailing comma", `{"marketTemperature": "hot", "valueAdjustmentPercent": 2.5,}`},
		{"hjson with comments", "{\n  # provider note\n  marketTemperature: hot\n  valueAdjustmentPercent: 2.5\n}"},
		{"truncated", `{"marketTemperature": "hot", "valueAdjustmentPercent": 2.5`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp TrendResponse
			require.NoError(t, Decode([]byte(tt.payload), &resp))
			assert.Equal(t, "hot", resp.MarketTemperature)
			assert.Equal(t, Percent(2.5), resp.ValueAdjustmentPercent)
		})
	}
}

func TestDecode_TypeMismatch(t *testing.T) {
	var resp CompsResponse
	assert.Error(t, Decode([]byte(`{"comparables": "none"}`), &resp))
}
