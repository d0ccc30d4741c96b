package model

import "time"

type Note struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	StockID   uint       `gorm:"not null;index" json:"stock_id"`
	Title     string     `gorm:"not null" json:"title"`
	Content   string     `gorm:"not null" json:"content"`
	NoteDate  *time.Time `gorm:"type:date" json:"note_date"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Note) TableName() string {
	return "notes"
}
