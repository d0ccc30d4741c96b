package model

import "time"

// TargetType is the closed set of price-target actions. Unknown values are
// rejected at the API/CLI boundary, never inside the evaluation engine.
type TargetType string

const (
	TargetBuy  TargetType = "Buy"
	TargetSell TargetType = "Sell"
	TargetDCA  TargetType = "DCA"
	TargetTrim TargetType = "Trim"
)

func (t TargetType) Valid() bool {
	switch t {
	case TargetBuy, TargetSell, TargetDCA, TargetTrim:
		return true
	}
	return false
}

// BuySide target types trigger when the price falls to or below the target.
func (t TargetType) BuySide() bool {
	return t == TargetBuy || t == TargetDCA
}

// SellSide target types trigger when the price rises to or above the target.
func (t TargetType) SellSide() bool {
	return t == TargetSell || t == TargetTrim
}

type Target struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	StockID        uint       `gorm:"not null;index" json:"stock_id"`
	TargetType     TargetType `gorm:"not null" json:"target_type"`
	TargetPrice    float64    `gorm:"not null" json:"target_price"`
	TrimPercentage *float64   `json:"trim_percentage"`
	AlertNote      *string    `json:"alert_note"`
	IsActive       *bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Target) TableName() string {
	return "targets"
}

func (t Target) Active() bool {
	return t.IsActive != nil && *t.IsActive
}
