package dto

import (
	"testing"

	"stock-watchlist/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAlert_Message(t *testing.T) {
	pct := 25.0
	note := "review after earnings"

	tests := []struct {
		name     string
		alert    Alert
		contains []string
		excludes []string
	}{
		{
			name: "buy",
			alert: Alert{
				Symbol: "AAPL", TargetType: model.TargetBuy,
				CurrentPrice: 149.50, TargetPrice: 150,
			},
			contains: []string{"🔔 ALERT: AAPL", "Target Type: Buy", "Current Price: $149.50", "Target Price: $150.00", "Consider buying"},
			excludes: []string{"Note:"},
		},
		{
			name: "dca",
			alert: Alert{
				Symbol: "MSFT", TargetType: model.TargetDCA,
				CurrentPrice: 380, TargetPrice: 400,
			},
			contains: []string{"dollar-cost averaging"},
		},
		{
			name: "sell",
			alert: Alert{
				Symbol: "NVDA", TargetType: model.TargetSell,
				CurrentPrice: 1010, TargetPrice: 1000,
			},
			contains: []string{"Consider selling"},
		},
		{
			name: "trim includes percentage",
			alert: Alert{
				Symbol: "TSLA", TargetType: model.TargetTrim,
				CurrentPrice: 260, TargetPrice: 250, TrimPercentage: &pct,
			},
			contains: []string{"trimming 25% of position"},
		},
		{
			name: "trim without percentage falls back",
			alert: Alert{
				Symbol: "TSLA", TargetType: model.TargetTrim,
				CurrentPrice: 260, TargetPrice: 250,
			},
			contains: []string{"trimming a portion of position"},
		},
		{
			name: "note appended when present",
			alert: Alert{
				Symbol: "AAPL", TargetType: model.TargetBuy,
				CurrentPrice: 149, TargetPrice: 150, AlertNote: &note,
			},
			contains: []string{"Note: review after earnings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.alert.Message()
			for _, want := range tt.contains {
				assert.Contains(t, msg, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, msg, unwanted)
			}
		})
	}
}
