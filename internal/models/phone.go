package models

import "time"

// Phone is a company phone directory entry, discriminated by the module
// it serves (e.g. sales, warehouse).
type Phone struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null;size:10" json:"code" binding:"required"`
	Module    string    `gorm:"not null;size:50;index" json:"module" binding:"required"`
	OwnerName string    `gorm:"not null;size:100" json:"owner_name" binding:"required"`
	Number    string    `gorm:"uniqueIndex;not null;size:20" json:"number" binding:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Phone model
func (Phone) TableName() string {
	return "phones"
}
