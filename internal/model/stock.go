package model

import "time"

type Stock struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Symbol      string    `gorm:"not null;uniqueIndex" json:"symbol"`
	CompanyName *string   `json:"company_name"`
	Exchange    *string   `json:"exchange"`
	Targets     []Target  `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE" json:"targets,omitempty"`
	Notes       []Note    `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE" json:"notes,omitempty"`
	Tags        []Tag     `gorm:"many2many:stock_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Holding     *Holding  `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE" json:"holding,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Stock) TableName() string {
	return "stocks"
}
