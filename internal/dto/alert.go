package dto

import (
	"fmt"
	"strconv"
	"strings"

	"stock-watchlist/internal/model"
)

// WatchEntry is one (stock, active target) pair considered during an
// evaluation cycle, carrying everything the engine and the history writer
// need so no lookup back into persistence is required mid-cycle.
type WatchEntry struct {
	Symbol         string
	StockID        uint
	TargetID       uint
	TargetType     model.TargetType
	TargetPrice    float64
	TrimPercentage *float64
	AlertNote      *string
}

// Alert is a triggered price target. It carries the originating stock and
// target IDs so history attribution never has to match by value tuple.
type Alert struct {
	Symbol         string           `json:"symbol"`
	StockID        uint             `json:"stock_id"`
	TargetID       uint             `json:"target_id"`
	CurrentPrice   float64          `json:"current_price"`
	TargetPrice    float64          `json:"target_price"`
	TargetType     model.TargetType `json:"target_type"`
	TrimPercentage *float64         `json:"trim_percentage,omitempty"`
	AlertNote      *string          `json:"alert_note,omitempty"`
}

// Action is the one-line suggestion describing what the trigger means.
func (a Alert) Action() string {
	switch a.TargetType {
	case model.TargetBuy:
		return "Price dropped below target! Consider buying."
	case model.TargetDCA:
		return "Price dropped below target! Consider dollar-cost averaging."
	case model.TargetSell:
		return "Price rose above target! Consider selling."
	case model.TargetTrim:
		pct := "a portion"
		if a.TrimPercentage != nil {
			pct = strconv.FormatFloat(*a.TrimPercentage, 'f', -1, 64) + "%"
		}
		return fmt.Sprintf("Price rose above target! Consider trimming %s of position.", pct)
	}
	return ""
}

// Message renders the human-readable alert text used by every notification
// channel.
func (a Alert) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 ALERT: %s\n", a.Symbol)
	fmt.Fprintf(&b, "Target Type: %s\n", a.TargetType)
	fmt.Fprintf(&b, "Current Price: $%.2f\n", a.CurrentPrice)
	fmt.Fprintf(&b, "Target Price: $%.2f\n", a.TargetPrice)
	b.WriteString(a.Action() + "\n")

	if a.AlertNote != nil && *a.AlertNote != "" {
		fmt.Fprintf(&b, "Note: %s\n", *a.AlertNote)
	}

	return b.String()
}
