package models

import "time"

// ReimbursementType is a reference table for expense reimbursement
// categories.
type ReimbursementType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null;size:3" json:"code" binding:"required"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name" binding:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for ReimbursementType model
func (ReimbursementType) TableName() string {
	return "reimbursement_types"
}
