package models

import "time"

// Color is a reference table for product colors. Code is a 7-character
// hex value such as #1A2B3C.
type Color struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null;size:7" json:"code" binding:"required"`
	Name      string    `gorm:"uniqueIndex;not null;size:50" json:"name" binding:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Color model
func (Color) TableName() string {
	return "colors"
}
