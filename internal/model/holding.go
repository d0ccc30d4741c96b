package model

import "time"

// Holding is the owned position for a stock, at most one per stock. A stock
// without a holding is still tracked for alerts.
type Holding struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StockID     uint      `gorm:"not null;uniqueIndex" json:"stock_id"`
	Shares      float64   `gorm:"not null" json:"shares"`
	AverageCost *float64  `json:"average_cost"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Holding) TableName() string {
	return "holdings"
}

// CostBasis returns the total acquisition cost, or nil when the average cost
// is unknown.
func (h Holding) CostBasis() *float64 {
	if h.AverageCost == nil {
		return nil
	}
	basis := h.Shares * *h.AverageCost
	return &basis
}
