package model

import (
	"time"

	"gorm.io/datatypes"
)

// AlertHistory is an immutable record of one triggered alert in one evaluation
// cycle. Rows are created only by the evaluation cycle and deleted only by
// explicit user action. Channels holds the per-channel delivery outcome of the
// cycle's consolidated notification.
type AlertHistory struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	StockID      uint           `gorm:"not null;index" json:"stock_id"`
	TargetID     uint           `gorm:"not null;index" json:"target_id"`
	CurrentPrice float64        `gorm:"not null" json:"current_price"`
	TargetPrice  float64        `gorm:"not null" json:"target_price"`
	TargetType   TargetType     `gorm:"not null" json:"target_type"`
	AlertNote    *string        `json:"alert_note"`
	Notified     bool           `gorm:"not null;default:false" json:"notified"`
	Channels     datatypes.JSON `json:"channels"`
	TriggeredAt  time.Time      `gorm:"autoCreateTime" json:"triggered_at"`
}

func (AlertHistory) TableName() string {
	return "alert_histories"
}
