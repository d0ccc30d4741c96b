package dto

import (
	"testing"

	"stock-watchlist/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetRequest_Validate(t *testing.T) {
	pct := 25.0

	tests := []struct {
		name    string
		req     TargetRequest
		wantErr string
	}{
		{
			name: "valid buy",
			req:  TargetRequest{TargetType: "Buy", TargetPrice: 150},
		},
		{
			name: "valid trim with percentage",
			req:  TargetRequest{TargetType: "Trim", TargetPrice: 200, TrimPercentage: &pct},
		},
		{
			name:    "unknown type rejected",
			req:     TargetRequest{TargetType: "Hold", TargetPrice: 150},
			wantErr: "invalid target_type",
		},
		{
			name:    "lowercase type rejected",
			req:     TargetRequest{TargetType: "buy", TargetPrice: 150},
			wantErr: "invalid target_type",
		},
		{
			name:    "trim without percentage rejected",
			req:     TargetRequest{TargetType: "Trim", TargetPrice: 200},
			wantErr: "trim_percentage is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTargetRequest_ToModel(t *testing.T) {
	pct := 25.0

	t.Run("defaults to active", func(t *testing.T) {
		target := TargetRequest{TargetType: "Buy", TargetPrice: 150}.ToModel(7)
		assert.Equal(t, uint(7), target.StockID)
		assert.Equal(t, model.TargetBuy, target.TargetType)
		require.NotNil(t, target.IsActive)
		assert.True(t, *target.IsActive)
	})

	t.Run("trim percentage only kept on trim targets", func(t *testing.T) {
		sell := TargetRequest{TargetType: "Sell", TargetPrice: 200, TrimPercentage: &pct}.ToModel(1)
		assert.Nil(t, sell.TrimPercentage)

		trim := TargetRequest{TargetType: "Trim", TargetPrice: 200, TrimPercentage: &pct}.ToModel(1)
		require.NotNil(t, trim.TrimPercentage)
		assert.Equal(t, pct, *trim.TrimPercentage)
	})
}

func TestTargetType_Predicates(t *testing.T) {
	assert.True(t, model.TargetBuy.BuySide())
	assert.True(t, model.TargetDCA.BuySide())
	assert.True(t, model.TargetSell.SellSide())
	assert.True(t, model.TargetTrim.SellSide())

	assert.False(t, model.TargetBuy.SellSide())
	assert.False(t, model.TargetTrim.BuySide())

	assert.True(t, model.TargetBuy.Valid())
	assert.False(t, model.TargetType("Hold").Valid())
	assert.False(t, model.TargetType("").Valid())
}
